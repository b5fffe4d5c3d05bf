// Package hr persists validated employee self-service requests as documents.
package hr

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/okfngroup/hr-selfservice/internal/models"
	"github.com/okfngroup/hr-selfservice/internal/storage"
)

const (
	leaveCollection        = "leave_quest"
	overtimeCollection     = "overtime_requests"
	businessTripCollection = "business_trip_requests"
	resignationCollection  = "resignation_requests"

	dateLayout = "2006-01-02"

	// Initial workflow status for newly submitted leave requests.
	statusPending = "처리대기"
)

// ValidationError marks a rejected submission; callers map it to a 400.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// Service validates and stores HR requests.
type Service struct {
	store storage.Store
}

// NewService creates an HR request service backed by the given store.
func NewService(store storage.Store) *Service {
	return &Service{store: store}
}

// LeaveInput is a leave submission payload.
type LeaveInput struct {
	ApplicantID string `json:"applicantId"`
	LeaveType   string `json:"leaveType"`
	StartDate   string `json:"startDate"` // YYYY-MM-DD
	EndDate     string `json:"endDate"`   // optional, defaults to StartDate
	Reason      string `json:"reason"`
}

// SubmitLeave validates and persists a leave request, returning the new
// document id.
func (s *Service) SubmitLeave(ctx context.Context, in LeaveInput) (string, error) {
	if in.ApplicantID == "" {
		return "", &ValidationError{Field: "applicantId", Msg: "required"}
	}
	if in.LeaveType == "" {
		return "", &ValidationError{Field: "leaveType", Msg: "required"}
	}
	start, err := time.Parse(dateLayout, in.StartDate)
	if err != nil {
		return "", &ValidationError{Field: "startDate", Msg: "must be YYYY-MM-DD"}
	}
	end := start
	if in.EndDate != "" {
		end, err = time.Parse(dateLayout, in.EndDate)
		if err != nil {
			return "", &ValidationError{Field: "endDate", Msg: "must be YYYY-MM-DD"}
		}
	}
	if end.Before(start) {
		return "", &ValidationError{Field: "endDate", Msg: "must not be before startDate"}
	}

	doc := models.LeaveRequest{
		ApplicantID:    in.ApplicantID,
		CreateDate:     time.Now().UTC(),
		LeaveStartDate: start,
		LeaveEndDate:   end,
		LeaveSubType:   in.LeaveType,
		Remark:         in.Reason,
		Status:         statusPending,
	}
	id, err := s.store.Add(ctx, leaveCollection, doc)
	if err != nil {
		return "", fmt.Errorf("save leave request: %w", err)
	}
	logrus.Infof("[hr] leave request %s saved for %s", id, in.ApplicantID)
	return id, nil
}

// OvertimeInput is an overtime submission payload.
type OvertimeInput struct {
	ApplicantID string `json:"applicantId"`
	Date        string `json:"date"` // YYYY-MM-DD
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Reason      string `json:"reason"`
}

// SubmitOvertime validates and persists an overtime request.
func (s *Service) SubmitOvertime(ctx context.Context, in OvertimeInput) (string, error) {
	if in.ApplicantID == "" {
		return "", &ValidationError{Field: "applicantId", Msg: "required"}
	}
	if _, err := time.Parse(dateLayout, in.Date); err != nil {
		return "", &ValidationError{Field: "date", Msg: "must be YYYY-MM-DD"}
	}
	if in.StartTime == "" {
		return "", &ValidationError{Field: "startTime", Msg: "required"}
	}
	if in.EndTime == "" {
		return "", &ValidationError{Field: "endTime", Msg: "required"}
	}

	doc := models.OvertimeRequest{
		ApplicantID: in.ApplicantID,
		CreateDate:  time.Now().UTC(),
		WorkDate:    in.Date,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Reason:      in.Reason,
	}
	id, err := s.store.Add(ctx, overtimeCollection, doc)
	if err != nil {
		return "", fmt.Errorf("save overtime request: %w", err)
	}
	logrus.Infof("[hr] overtime request %s saved for %s", id, in.ApplicantID)
	return id, nil
}

// BusinessTripInput is a business-trip submission payload.
type BusinessTripInput struct {
	ApplicantID string `json:"applicantId"`
	Destination string `json:"destination"`
	StartDate   string `json:"startDate"` // YYYY-MM-DD
	EndDate     string `json:"endDate"`   // optional, defaults to StartDate
	Reason      string `json:"reason"`
}

// SubmitBusinessTrip validates and persists a business-trip request.
func (s *Service) SubmitBusinessTrip(ctx context.Context, in BusinessTripInput) (string, error) {
	if in.ApplicantID == "" {
		return "", &ValidationError{Field: "applicantId", Msg: "required"}
	}
	if in.Destination == "" {
		return "", &ValidationError{Field: "destination", Msg: "required"}
	}
	start, err := time.Parse(dateLayout, in.StartDate)
	if err != nil {
		return "", &ValidationError{Field: "startDate", Msg: "must be YYYY-MM-DD"}
	}
	end := start
	if in.EndDate != "" {
		end, err = time.Parse(dateLayout, in.EndDate)
		if err != nil {
			return "", &ValidationError{Field: "endDate", Msg: "must be YYYY-MM-DD"}
		}
	}
	if end.Before(start) {
		return "", &ValidationError{Field: "endDate", Msg: "must not be before startDate"}
	}

	doc := models.BusinessTripRequest{
		ApplicantID: in.ApplicantID,
		CreateDate:  time.Now().UTC(),
		Destination: in.Destination,
		StartDate:   start,
		EndDate:     end,
		Reason:      in.Reason,
	}
	id, err := s.store.Add(ctx, businessTripCollection, doc)
	if err != nil {
		return "", fmt.Errorf("save business trip request: %w", err)
	}
	logrus.Infof("[hr] business trip request %s saved for %s", id, in.ApplicantID)
	return id, nil
}

// ResignationInput is a resignation submission payload.
type ResignationInput struct {
	ApplicantID     string `json:"applicantId"`
	ResignationDate string `json:"resignationDate"` // YYYY-MM-DD
	Reason          string `json:"reason"`
	Confirm         bool   `json:"confirm"`
}

// SubmitResignation validates and persists a resignation notice. The exit
// interview flow is started separately by the client.
func (s *Service) SubmitResignation(ctx context.Context, in ResignationInput) (string, error) {
	if in.ApplicantID == "" {
		return "", &ValidationError{Field: "applicantId", Msg: "required"}
	}
	if _, err := time.Parse(dateLayout, in.ResignationDate); err != nil {
		return "", &ValidationError{Field: "resignationDate", Msg: "must be YYYY-MM-DD"}
	}
	if in.Reason == "" {
		return "", &ValidationError{Field: "reason", Msg: "required"}
	}
	if !in.Confirm {
		return "", &ValidationError{Field: "confirm", Msg: "must be confirmed"}
	}

	doc := models.ResignationRequest{
		ApplicantID:     in.ApplicantID,
		CreateDate:      time.Now().UTC(),
		ResignationDate: in.ResignationDate,
		Reason:          in.Reason,
	}
	id, err := s.store.Add(ctx, resignationCollection, doc)
	if err != nil {
		return "", fmt.Errorf("save resignation request: %w", err)
	}
	logrus.Infof("[hr] resignation request %s saved for %s", id, in.ApplicantID)
	return id, nil
}
