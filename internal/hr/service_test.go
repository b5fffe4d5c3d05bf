package hr

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/okfngroup/hr-selfservice/internal/models"
)

// MockStore is a mock implementation of the storage.Store interface
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Put(ctx context.Context, collection, id string, doc any) error {
	args := m.Called(ctx, collection, id, doc)
	return args.Error(0)
}

func (m *MockStore) Add(ctx context.Context, collection string, doc any) (string, error) {
	args := m.Called(ctx, collection, doc)
	return args.String(0), args.Error(1)
}

func (m *MockStore) Get(ctx context.Context, collection, id string, out any) error {
	args := m.Called(ctx, collection, id, out)
	return args.Error(0)
}

func (m *MockStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	args := m.Called(ctx, collection, id, fields)
	return args.Error(0)
}

func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestService_SubmitLeave(t *testing.T) {
	var saved models.LeaveRequest
	store := new(MockStore)
	store.On("Add", mock.Anything, "leave_quest", mock.AnythingOfType("models.LeaveRequest")).
		Run(func(args mock.Arguments) { saved = args.Get(2).(models.LeaveRequest) }).
		Return("doc-1", nil)

	id, err := NewService(store).SubmitLeave(context.Background(), LeaveInput{
		ApplicantID: "0000000@okfngroup.com",
		LeaveType:   "연차",
		StartDate:   "2026-09-01",
		EndDate:     "2026-09-03",
		Reason:      "가족 여행",
	})

	assert.NoError(t, err)
	assert.Equal(t, "doc-1", id)
	assert.Equal(t, "연차", saved.LeaveSubType)
	assert.Equal(t, "처리대기", saved.Status)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), saved.LeaveStartDate)
	assert.Equal(t, time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC), saved.LeaveEndDate)
	store.AssertExpectations(t)
}

func TestService_SubmitLeave_EndDateDefaultsToStart(t *testing.T) {
	var saved models.LeaveRequest
	store := new(MockStore)
	store.On("Add", mock.Anything, "leave_quest", mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(2).(models.LeaveRequest) }).
		Return("doc-1", nil)

	_, err := NewService(store).SubmitLeave(context.Background(), LeaveInput{
		ApplicantID: "u@okfngroup.com",
		LeaveType:   "오전반차",
		StartDate:   "2026-09-01",
	})

	assert.NoError(t, err)
	assert.Equal(t, saved.LeaveStartDate, saved.LeaveEndDate)
}

func TestService_SubmitLeave_Invalid(t *testing.T) {
	cases := map[string]LeaveInput{
		"missing applicant":  {LeaveType: "연차", StartDate: "2026-09-01"},
		"missing leave type": {ApplicantID: "u", StartDate: "2026-09-01"},
		"bad start date":     {ApplicantID: "u", LeaveType: "연차", StartDate: "Sep 1"},
		"end before start":   {ApplicantID: "u", LeaveType: "연차", StartDate: "2026-09-03", EndDate: "2026-09-01"},
	}

	store := new(MockStore)
	svc := NewService(store)
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.SubmitLeave(context.Background(), in)
			var verr *ValidationError
			assert.True(t, errors.As(err, &verr))
		})
	}
	store.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_SubmitOvertime(t *testing.T) {
	var saved models.OvertimeRequest
	store := new(MockStore)
	store.On("Add", mock.Anything, "overtime_requests", mock.AnythingOfType("models.OvertimeRequest")).
		Run(func(args mock.Arguments) { saved = args.Get(2).(models.OvertimeRequest) }).
		Return("doc-2", nil)

	id, err := NewService(store).SubmitOvertime(context.Background(), OvertimeInput{
		ApplicantID: "u@okfngroup.com",
		Date:        "2026-09-05",
		StartTime:   "19:00",
		EndTime:     "22:30",
	})

	assert.NoError(t, err)
	assert.Equal(t, "doc-2", id)
	assert.Equal(t, "19:00", saved.StartTime)
	assert.Equal(t, "22:30", saved.EndTime)
}

func TestService_SubmitOvertime_MissingTimes(t *testing.T) {
	store := new(MockStore)
	svc := NewService(store)

	_, err := svc.SubmitOvertime(context.Background(), OvertimeInput{
		ApplicantID: "u", Date: "2026-09-05", EndTime: "22:00",
	})
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, "startTime", verr.Field)

	_, err = svc.SubmitOvertime(context.Background(), OvertimeInput{
		ApplicantID: "u", Date: "2026-09-05", StartTime: "19:00",
	})
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, "endTime", verr.Field)
}

func TestService_SubmitBusinessTrip(t *testing.T) {
	var saved models.BusinessTripRequest
	store := new(MockStore)
	store.On("Add", mock.Anything, "business_trip_requests", mock.AnythingOfType("models.BusinessTripRequest")).
		Run(func(args mock.Arguments) { saved = args.Get(2).(models.BusinessTripRequest) }).
		Return("doc-3", nil)

	_, err := NewService(store).SubmitBusinessTrip(context.Background(), BusinessTripInput{
		ApplicantID: "u@okfngroup.com",
		Destination: "부산",
		StartDate:   "2026-10-01",
	})

	assert.NoError(t, err)
	assert.Equal(t, "부산", saved.Destination)
	assert.Equal(t, saved.StartDate, saved.EndDate)
}

func TestService_SubmitBusinessTrip_MissingDestination(t *testing.T) {
	store := new(MockStore)
	_, err := NewService(store).SubmitBusinessTrip(context.Background(), BusinessTripInput{
		ApplicantID: "u", StartDate: "2026-10-01",
	})
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, "destination", verr.Field)
}

func TestService_SubmitResignation(t *testing.T) {
	store := new(MockStore)
	store.On("Add", mock.Anything, "resignation_requests", mock.AnythingOfType("models.ResignationRequest")).
		Return("doc-4", nil)

	id, err := NewService(store).SubmitResignation(context.Background(), ResignationInput{
		ApplicantID:     "u@okfngroup.com",
		ResignationDate: "2026-12-31",
		Reason:          "개인 사유",
		Confirm:         true,
	})

	assert.NoError(t, err)
	assert.Equal(t, "doc-4", id)
}

func TestService_SubmitResignation_NotConfirmed(t *testing.T) {
	store := new(MockStore)
	_, err := NewService(store).SubmitResignation(context.Background(), ResignationInput{
		ApplicantID:     "u@okfngroup.com",
		ResignationDate: "2026-12-31",
		Reason:          "개인 사유",
	})
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, "confirm", verr.Field)
	store.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_SubmitLeave_StoreError(t *testing.T) {
	store := new(MockStore)
	store.On("Add", mock.Anything, "leave_quest", mock.Anything).Return("", errors.New("connection reset"))

	_, err := NewService(store).SubmitLeave(context.Background(), LeaveInput{
		ApplicantID: "u", LeaveType: "연차", StartDate: "2026-09-01",
	})

	assert.Error(t, err)
	var verr *ValidationError
	assert.False(t, errors.As(err, &verr))
	assert.Contains(t, err.Error(), "save leave request")
}
