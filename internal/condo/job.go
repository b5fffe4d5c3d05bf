package condo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/okfngroup/hr-selfservice/internal/models"
	"github.com/okfngroup/hr-selfservice/internal/secrets"
	"github.com/okfngroup/hr-selfservice/internal/storage"
)

// Secret names resolved at the start of every run.
const (
	secretUserID             = "hanwha-id"
	secretPassword           = "hanwha-password"
	secretMembershipPassword = "hanwha-membership-password"
)

const (
	statusCollection = "jobStatus"
	statusDocumentID = "condoUpdate"
)

// RunState identifies a stage of the sync run.
type RunState string

const (
	StateIdle                    RunState = "idle"
	StateFetchingCredentials     RunState = "fetching_credentials"
	StateAuthenticatingPrimary   RunState = "authenticating_primary"
	StateAuthenticatingSecondary RunState = "authenticating_secondary"
	StateQueryingRooms           RunState = "querying_rooms"
	StatePublishing              RunState = "publishing"
	StateDone                    RunState = "done"
	StateFailed                  RunState = "failed"
)

// Outcome is the terminal result of one run. FailedAt names the stage that
// failed when State is StateFailed.
type Outcome struct {
	State     RunState
	FailedAt  RunState
	Err       error
	RoomCount int
}

// Job orchestrates one condo sync run: resolve secrets, authenticate in two
// legs, query room availability, publish the catalog. Stages run strictly in
// sequence with no retries; the first failure terminates the run.
type Job struct {
	secrets   secrets.Source
	acquirer  *SessionAcquirer
	fetcher   *RoomFetcher
	publisher *Publisher
	store     storage.Store
}

// NewJob wires a sync job from its collaborators.
func NewJob(src secrets.Source, acquirer *SessionAcquirer, fetcher *RoomFetcher, publisher *Publisher, store storage.Store) *Job {
	return &Job{
		secrets:   src,
		acquirer:  acquirer,
		fetcher:   fetcher,
		publisher: publisher,
		store:     store,
	}
}

// Run executes a single sync run end to end. Errors never propagate past
// this boundary; the outcome carries the failing stage and error.
func (j *Job) Run(ctx context.Context) (out Outcome) {
	state := StateIdle
	defer func() {
		if r := recover(); r != nil {
			out = j.fail(ctx, state, fmt.Errorf("panic: %v", r))
		}
	}()

	logrus.Infof("[condo] sync run started")

	state = StateFetchingCredentials
	cred, err := j.loadCredential(ctx)
	if err != nil {
		return j.fail(ctx, state, err)
	}

	if err := ctx.Err(); err != nil {
		return j.fail(ctx, state, err)
	}

	state = StateAuthenticatingPrimary
	ticket, err := j.acquirer.Acquire(ctx, cred)
	if err != nil {
		var authErr *AuthError
		if errors.As(err, &authErr) && authErr.Stage == "secondary auth" {
			state = StateAuthenticatingSecondary
		}
		return j.fail(ctx, state, err)
	}
	state = StateAuthenticatingSecondary
	logrus.Infof("[condo] session acquired (%d cookies)", len(ticket))

	if err := ctx.Err(); err != nil {
		return j.fail(ctx, state, err)
	}

	state = StateQueryingRooms
	catalog, err := j.fetcher.Fetch(ctx, ticket)
	if err != nil {
		return j.fail(ctx, state, err)
	}
	logrus.Infof("[condo] room query returned %d distinct room types", len(catalog))

	if err := ctx.Err(); err != nil {
		return j.fail(ctx, state, err)
	}

	state = StatePublishing
	if err := j.publisher.Publish(ctx, FacilityID, catalog); err != nil {
		return j.fail(ctx, state, err)
	}

	state = StateDone
	j.recordStatus(ctx, "success", "", len(catalog))
	logrus.Infof("[condo] sync run complete: published %d room types for %s", len(catalog), FacilityID)
	return Outcome{State: StateDone, RoomCount: len(catalog)}
}

// loadCredential resolves all three secrets fresh for this run.
func (j *Job) loadCredential(ctx context.Context) (Credential, error) {
	userID, err := j.secrets.Get(ctx, secretUserID)
	if err != nil {
		return Credential{}, &SecretError{Name: secretUserID, Err: err}
	}
	password, err := j.secrets.Get(ctx, secretPassword)
	if err != nil {
		return Credential{}, &SecretError{Name: secretPassword, Err: err}
	}
	membership, err := j.secrets.Get(ctx, secretMembershipPassword)
	if err != nil {
		return Credential{}, &SecretError{Name: secretMembershipPassword, Err: err}
	}
	return Credential{
		UserID:             userID,
		Password:           password,
		MembershipPassword: membership,
	}, nil
}

func (j *Job) fail(ctx context.Context, stage RunState, err error) Outcome {
	logrus.Errorf("[condo] sync run failed at %s: %v", stage, err)
	j.recordStatus(ctx, "failure", err.Error(), 0)
	return Outcome{State: StateFailed, FailedAt: stage, Err: err}
}

// recordStatus updates the run-status document. Best effort: a status write
// failure is logged but never changes the run outcome.
func (j *Job) recordStatus(ctx context.Context, status, errMsg string, roomCount int) {
	if j.store == nil {
		return
	}

	// Status writes should survive a canceled run context.
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}

	var existing models.CondoSyncStatus
	if err := j.store.Get(ctx, statusCollection, statusDocumentID, &existing); err != nil && !errors.Is(err, storage.ErrNotFound) {
		logrus.Warnf("[condo] could not read previous sync status: %v", err)
	}

	now := time.Now().UTC()
	existing.LastAttempt = now
	existing.Status = status
	existing.ErrorMessage = errMsg
	existing.RoomCount = roomCount
	if status == "success" {
		existing.LastSuccessfulRun = now
	}

	if err := j.store.Put(ctx, statusCollection, statusDocumentID, existing); err != nil {
		logrus.Warnf("[condo] could not record sync status: %v", err)
	}
}

// SyncStatus loads the recorded run-status document. Returns
// storage.ErrNotFound before the first run.
func SyncStatus(ctx context.Context, store storage.Store) (*models.CondoSyncStatus, error) {
	var status models.CondoSyncStatus
	if err := store.Get(ctx, statusCollection, statusDocumentID, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
