package models

import "time"

// Actor roles.
const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

// User backs the auth boundary only; account management itself lives outside
// this service.
type User struct {
	ID        string    `bson:"_id" json:"id"`
	FullName  string    `bson:"fullName" json:"fullName"`
	Email     string    `bson:"email" json:"email"`
	Password  string    `bson:"password" json:"-"`
	Role      string    `bson:"role" json:"role"`
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Actor is the pre-validated identity the core consumes: who is acting and in
// which role. Produced by the auth middleware.
type Actor struct {
	ID   string
	Role string
}
