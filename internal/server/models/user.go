// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account created by registration. PasswordHash holds the PHC
// encoded Argon2id hash and is never serialized.
type User struct {
	ID           string    `db:"id" json:"id"`
	UserName     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
