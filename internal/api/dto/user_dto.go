package dto

import (
	"time"

	"github.com/spec-kit/user-service/internal/domain"
)

// CreateUserRequest payload, also used for full updates (PUT).
type CreateUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Age       int    `json:"age"`
}

// PatchUserRequest payload; nil fields were absent from the body.
type PatchUserRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Age       *int    `json:"age"`
}

// ListUsersQuery carries the raw query string values; the service parses
// and validates them.
type ListUsersQuery struct {
	FirstName string
	LastName  string
	MinAge    string
	MaxAge    string
	Limit     string
	Offset    string
}

// UserResponse is the external representation of a user.
type UserResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Age       int       `json:"age"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserListResponse wraps a page of users.
type UserListResponse struct {
	Users  []UserResponse `json:"users"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// NewUserResponse maps the domain entity to its representation.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Age:       user.Age,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
