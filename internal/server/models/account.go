package models

import "time"

type Account struct {
	ID           string
	Handle       string
	Name         *string
	PasswordHash string
	CreatedAt    time.Time
}
