package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spec-kit/user-service/internal/api/dto"
	"github.com/spec-kit/user-service/internal/domain"
	"github.com/spec-kit/user-service/internal/repository"
	apperrors "github.com/spec-kit/user-service/pkg/util"
)

// UserService validates input and orchestrates user persistence. Every
// validation failure enumerates all offending fields, not just the first.
type UserService struct {
	users repository.UserRepository
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// Create validates the payload and persists a new user.
func (s *UserService) Create(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	if err := validateUserFields(req.FirstName, req.LastName, req.Age); err != nil {
		return nil, err
	}

	user := &domain.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Age:       req.Age,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Get fetches a user by id.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, translateNotFound(err, id)
	}
	return user, nil
}

// List parses and validates the raw query values, then returns the matching
// page together with the resolved filter (clamped limit, defaulted offset).
func (s *UserService) List(ctx context.Context, query dto.ListUsersQuery) ([]domain.User, repository.UserFilter, error) {
	filter, err := parseListQuery(query)
	if err != nil {
		return nil, repository.UserFilter{}, err
	}

	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, repository.UserFilter{}, err
	}
	return users, filter, nil
}

// Update replaces all mutable fields of an existing user.
func (s *UserService) Update(ctx context.Context, id string, req dto.CreateUserRequest) (*domain.User, error) {
	if err := validateUserFields(req.FirstName, req.LastName, req.Age); err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:        id,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Age:       req.Age,
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, translateNotFound(err, id)
	}
	return s.users.GetByID(ctx, id)
}

// Patch replaces only the supplied fields of an existing user.
func (s *UserService) Patch(ctx context.Context, id string, req dto.PatchUserRequest) (*domain.User, error) {
	details := map[string]any{}
	if req.FirstName != nil {
		validateName("firstName", *req.FirstName, details)
	}
	if req.LastName != nil {
		validateName("lastName", *req.LastName, details)
	}
	if req.Age != nil {
		validateAge(*req.Age, details)
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid user payload", details)
	}

	user, err := s.users.Patch(ctx, id, repository.UserPatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Age:       req.Age,
	})
	if err != nil {
		return nil, translateNotFound(err, id)
	}
	return user, nil
}

// Delete removes a user permanently.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return translateNotFound(err, id)
	}
	return nil
}

func translateNotFound(err error, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NewNotFound("user", map[string]any{"id": id})
	}
	return err
}

func validateUserFields(firstName, lastName string, age int) error {
	details := map[string]any{}
	validateName("firstName", firstName, details)
	validateName("lastName", lastName, details)
	validateAge(age, details)
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid user payload", details)
	}
	return nil
}

func validateName(field, value string, details map[string]any) {
	if len(value) < domain.NameMinLen || len(value) > domain.NameMaxLen {
		details[field] = fmt.Sprintf("must be between %d and %d characters", domain.NameMinLen, domain.NameMaxLen)
	}
}

func validateAge(age int, details map[string]any) {
	if age < domain.AgeMin || age > domain.AgeMax {
		details["age"] = fmt.Sprintf("must be between %d and %d", domain.AgeMin, domain.AgeMax)
	}
}

func parseListQuery(query dto.ListUsersQuery) (repository.UserFilter, error) {
	filter := repository.UserFilter{
		Limit:  repository.DefaultListLimit,
		Offset: 0,
	}
	details := map[string]any{}

	if v := strings.TrimSpace(query.FirstName); v != "" {
		filter.FirstName = &v
	}
	if v := strings.TrimSpace(query.LastName); v != "" {
		filter.LastName = &v
	}
	if v := strings.TrimSpace(query.MinAge); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			details["minAge"] = "must be an integer"
		} else {
			filter.MinAge = &parsed
		}
	}
	if v := strings.TrimSpace(query.MaxAge); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			details["maxAge"] = "must be an integer"
		} else {
			filter.MaxAge = &parsed
		}
	}
	if v := strings.TrimSpace(query.Limit); v != "" {
		parsed, err := strconv.Atoi(v)
		switch {
		case err != nil:
			details["limit"] = "must be an integer"
		case parsed < 0:
			details["limit"] = "must not be negative"
		case parsed > repository.MaxListLimit:
			// clamped, not rejected
			filter.Limit = repository.MaxListLimit
		case parsed > 0:
			filter.Limit = parsed
		}
	}
	if v := strings.TrimSpace(query.Offset); v != "" {
		parsed, err := strconv.Atoi(v)
		switch {
		case err != nil:
			details["offset"] = "must be an integer"
		case parsed < 0:
			details["offset"] = "must not be negative"
		default:
			filter.Offset = parsed
		}
	}

	if len(details) > 0 {
		return repository.UserFilter{}, apperrors.NewValidationError("invalid list query", details)
	}
	return filter, nil
}
