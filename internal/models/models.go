package models

import "time"

// CondoRoomTypes is the published room-type catalog for a resort facility.
// It is fully replaced on every successful sync run.
type CondoRoomTypes struct {
	Name        string    `json:"name" bson:"name"`
	Rooms       []string  `json:"rooms" bson:"rooms"`
	LastUpdated time.Time `json:"lastUpdated" bson:"lastUpdated"`
}

// CondoSyncStatus tracks the outcome of condo sync runs.
type CondoSyncStatus struct {
	LastSuccessfulRun time.Time `json:"last_successful_run,omitempty" bson:"lastSuccessfulRun,omitempty"`
	LastAttempt       time.Time `json:"last_attempt" bson:"lastAttempt"`
	Status            string    `json:"status" bson:"status"` // "success", "failure", "running"
	ErrorMessage      string    `json:"error_message,omitempty" bson:"errorMessage,omitempty"`
	RoomCount         int       `json:"room_count" bson:"roomCount"`
}

// LeaveRequest is a persisted leave application.
type LeaveRequest struct {
	ApplicantID    string    `json:"applicantId" bson:"applicantId"`
	CreateDate     time.Time `json:"createDate" bson:"createDate"`
	LeaveStartDate time.Time `json:"leaveStartDate" bson:"leaveStartDate"`
	LeaveEndDate   time.Time `json:"leaveEndDate" bson:"leaveEndDate"`
	LeaveSubType   string    `json:"leaveSubType" bson:"leaveSubType"`
	Remark         string    `json:"remark" bson:"remark"`
	Status         string    `json:"status" bson:"status"`
}

// OvertimeRequest is a persisted overtime application.
type OvertimeRequest struct {
	ApplicantID string    `json:"applicantId" bson:"applicantId"`
	CreateDate  time.Time `json:"createDate" bson:"createDate"`
	WorkDate    string    `json:"workDate" bson:"workDate"` // YYYY-MM-DD
	StartTime   string    `json:"startTime" bson:"startTime"`
	EndTime     string    `json:"endTime" bson:"endTime"`
	Reason      string    `json:"reason" bson:"reason"`
}

// BusinessTripRequest is a persisted business-trip application.
type BusinessTripRequest struct {
	ApplicantID string    `json:"applicantId" bson:"applicantId"`
	CreateDate  time.Time `json:"createDate" bson:"createDate"`
	Destination string    `json:"destination" bson:"destination"`
	StartDate   time.Time `json:"startDate" bson:"startDate"`
	EndDate     time.Time `json:"endDate" bson:"endDate"`
	Reason      string    `json:"reason" bson:"reason"`
}

// ResignationRequest is a persisted resignation notice; submitting one starts
// the exit-interview flow.
type ResignationRequest struct {
	ApplicantID     string    `json:"applicantId" bson:"applicantId"`
	CreateDate      time.Time `json:"createDate" bson:"createDate"`
	ResignationDate string    `json:"resignationDate" bson:"resignationDate"` // YYYY-MM-DD
	Reason          string    `json:"reason" bson:"reason"`
}

// Message is one turn of an exit-interview conversation.
type Message struct {
	Role    string `json:"role" bson:"role"` // "user" or "assistant"
	Content string `json:"content" bson:"content"`
}

// InterviewLog is the persisted transcript of a completed exit interview.
// Summary is filled in after the fact when summarization succeeds.
type InterviewLog struct {
	ApplicantID    string    `json:"applicantId" bson:"applicantId"`
	FullTranscript []Message `json:"fullTranscript" bson:"fullTranscript"`
	Summary        string    `json:"summary,omitempty" bson:"summary,omitempty"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
}
