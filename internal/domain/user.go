package domain

import "time"

// Field bounds enforced at the service boundary.
const (
	NameMinLen = 1
	NameMaxLen = 100
	AgeMin     = 1
	AgeMax     = 150
)

// User is the managed resource. Records are globally shared: authentication
// gates access to the CRUD surface but does not scope users per account.
type User struct {
	ID        string
	FirstName string
	LastName  string
	Age       int
	CreatedAt time.Time
	UpdatedAt time.Time
}
