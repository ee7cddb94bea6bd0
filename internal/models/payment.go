package models

import "time"

// PaymentRecord is the idempotency record for one provider transaction. Keyed
// by the provider transaction id, so a transaction can be credited at most
// once no matter how many times its confirmation is delivered.
type PaymentRecord struct {
	ID            string    `bson:"_id" json:"id"` // transaction id
	AppointmentID string    `bson:"appointmentId" json:"appointmentId"`
	TransactionID string    `bson:"transactionId" json:"transactionId"`
	Status        string    `bson:"status" json:"status"`
	Provider      string    `bson:"provider" json:"provider"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}
