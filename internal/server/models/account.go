package models

import "time"

// Account is a stored identity. It is created on registration and never
// changed afterwards.
type Account struct {
	ID           string    `json:"id" bson:"_id" db:"id"`
	Username     string    `json:"username" bson:"username" db:"username"`
	PasswordHash string    `json:"password_hash" bson:"password_hash" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" db:"created_at"`
}
