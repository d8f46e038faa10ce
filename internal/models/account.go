// Package models defines the domain entities for papertrade.
package models

import "time"

// Account represents the account of a registered user.
type Account struct {
	ID           int64     `json:"id" badgerhold:"key"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	PasswordSalt []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
