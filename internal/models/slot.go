package models

import (
	"regexp"
	"strings"
	"time"
)

// SlotLock claims a (doctor, date, time) window. Its existence in the
// appointmentSlots collection is the sole proof of exclusive claim; it is
// written and deleted only inside the transaction that mutates its
// appointment.
type SlotLock struct {
	ID            string    `bson:"_id" json:"id"`
	AppointmentID string    `bson:"appointmentId" json:"appointmentId"`
	DoctorID      string    `bson:"doctorId" json:"doctorId"`
	PreferredDate string    `bson:"preferredDate" json:"preferredDate"`
	PreferredTime string    `bson:"preferredTime" json:"preferredTime"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}

var slotKeyUnsafe = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// SlotKey derives the deterministic, storage-safe lock id for a slot tuple.
// Two requests for the same (doctor, date, time) always collide on this key.
func SlotKey(doctorID, preferredDate, preferredTime string) string {
	raw := strings.Join([]string{doctorID, preferredDate, preferredTime}, "_")
	return slotKeyUnsafe.ReplaceAllString(raw, "-")
}
