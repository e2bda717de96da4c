package domain

import "time"

// Account is a credential holder. It is a separate aggregate from User:
// there is no foreign key between them.
type Account struct {
	ID           string
	Identifier   string
	PasswordHash string
	CreatedAt    time.Time
}
