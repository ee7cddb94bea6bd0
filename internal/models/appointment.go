package models

import (
	"strings"
	"time"
)

// Status is the appointment lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
)

// PaymentStatus is the payment sub-lifecycle state, forward-only.
type PaymentStatus string

const (
	PaymentUnpaid     PaymentStatus = "unpaid"
	PaymentProcessing PaymentStatus = "processing"
	PaymentPaid       PaymentStatus = "paid"
)

type Appointment struct {
	ID              string        `bson:"_id" json:"id"`
	DoctorID        string        `bson:"doctorId" json:"doctorId"`
	DoctorName      string        `bson:"doctorName" json:"doctorName"`
	PatientID       string        `bson:"patientId" json:"patientId"`
	PatientName     string        `bson:"patientName" json:"patientName"`
	AppointmentType string        `bson:"appointmentType,omitempty" json:"appointmentType,omitempty"`
	PreferredDate   string        `bson:"preferredDate" json:"preferredDate"`
	PreferredTime   string        `bson:"preferredTime" json:"preferredTime"`
	Notes           string        `bson:"notes,omitempty" json:"notes,omitempty"`
	Status          Status        `bson:"status" json:"status"`
	IsPaid          bool          `bson:"isPaid" json:"isPaid"`
	PaymentStatus   PaymentStatus `bson:"paymentStatus" json:"paymentStatus"`
	PaymentProvider string        `bson:"paymentProvider,omitempty" json:"paymentProvider,omitempty"`
	TransactionID   string        `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	SlotID          string        `bson:"slotId" json:"slotId"`
	CreatedAt       time.Time     `bson:"createdAt" json:"createdAt"`
	ConfirmedAt     *time.Time    `bson:"confirmedAt,omitempty" json:"confirmedAt,omitempty"`
	PaidAt          *time.Time    `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	PaymentStarted  *time.Time    `bson:"paymentStartedAt,omitempty" json:"paymentStartedAt,omitempty"`
}

// statusSynonyms maps every accepted spelling, lowercased, to its canonical
// status. Legacy records and older clients used a few alternates.
var statusSynonyms = map[string]Status{
	"pending":   StatusPending,
	"accepted":  StatusAccepted,
	"rejected":  StatusRejected,
	"completed": StatusCompleted,
	"finished":  StatusCompleted,
	"declined":  StatusRejected,
	"canceled":  StatusRejected,
	"cancelled": StatusRejected,
}

// ParseStatus resolves a raw status string to its canonical value. The second
// return reports whether the input was recognized at all.
func ParseStatus(raw string) (Status, bool) {
	s, ok := statusSynonyms[strings.ToLower(strings.TrimSpace(raw))]
	return s, ok
}

// NormalizeStatus is ParseStatus with a pending fallback for anything
// unrecognized. Applied on every read path so stored legacy values never leak.
func NormalizeStatus(raw string) Status {
	if s, ok := ParseStatus(raw); ok {
		return s
	}
	return StatusPending
}

// statusTransitions holds the allowed next states per state. Terminal states
// have no entry.
var statusTransitions = map[Status][]Status{
	StatusPending:  {StatusAccepted, StatusRejected},
	StatusAccepted: {StatusCompleted, StatusRejected},
}

// CanTransitionTo reports whether moving from s to next is a legal lifecycle
// step. Re-asserting the current state is allowed so duplicate actor actions
// stay harmless.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return true
	}
	for _, allowed := range statusTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// Normalize rewrites the stored lifecycle status to its canonical form.
func (a *Appointment) Normalize() {
	a.Status = NormalizeStatus(string(a.Status))
}
