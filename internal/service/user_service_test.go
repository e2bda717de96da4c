package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/user-service/internal/api/dto"
	"github.com/spec-kit/user-service/internal/repository"
	apperrors "github.com/spec-kit/user-service/pkg/util"
)

func newUserService(t *testing.T) *UserService {
	t.Helper()
	return NewUserService(repository.NewUserRepository(setupTestDB(t)))
}

func requireValidationError(t *testing.T, err error, fields ...string) {
	t.Helper()
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus)
	assert.Len(t, domainErr.Details, len(fields))
	for _, field := range fields {
		assert.Contains(t, domainErr.Details, field)
	}
}

func TestUserService_Create_Validation(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t)

	tests := []struct {
		name       string
		req        dto.CreateUserRequest
		wantFields []string
	}{
		{
			name:       "empty first name",
			req:        dto.CreateUserRequest{FirstName: "", LastName: "Lovelace", Age: 36},
			wantFields: []string{"firstName"},
		},
		{
			name:       "first name too long",
			req:        dto.CreateUserRequest{FirstName: strings.Repeat("a", 101), LastName: "Lovelace", Age: 36},
			wantFields: []string{"firstName"},
		},
		{
			name:       "age zero",
			req:        dto.CreateUserRequest{FirstName: "Ada", LastName: "Lovelace", Age: 0},
			wantFields: []string{"age"},
		},
		{
			name:       "age above bound",
			req:        dto.CreateUserRequest{FirstName: "Ada", LastName: "Lovelace", Age: 151},
			wantFields: []string{"age"},
		},
		{
			name:       "all offenders enumerated",
			req:        dto.CreateUserRequest{FirstName: "", LastName: "", Age: 0},
			wantFields: []string{"firstName", "lastName", "age"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.req)
			requireValidationError(t, err, tt.wantFields...)
		})
	}
}

func TestUserService_CreateAndGet_RoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t)

	created, err := svc.Create(ctx, dto.CreateUserRequest{FirstName: "Ada", LastName: "Lovelace", Age: 36})
	require.NoError(t, err)

	fetched, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "Ada", fetched.FirstName)
	assert.Equal(t, "Lovelace", fetched.LastName)
	assert.Equal(t, 36, fetched.Age)
	assert.False(t, fetched.UpdatedAt.Before(fetched.CreatedAt))
}

func TestUserService_Get_NotFound(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t)

	_, err := svc.Get(ctx, "no-such-id")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
	assert.Equal(t, http.StatusNotFound, domainErr.HTTPStatus)
}

func TestUserService_List_QueryValidation(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t)

	tests := []struct {
		name       string
		query      dto.ListUsersQuery
		wantFields []string
	}{
		{
			name:       "non-numeric limit",
			query:      dto.ListUsersQuery{Limit: "abc"},
			wantFields: []string{"limit"},
		},
		{
			name:       "negative limit",
			query:      dto.ListUsersQuery{Limit: "-1"},
			wantFields: []string{"limit"},
		},
		{
			name:       "non-numeric offset",
			query:      dto.ListUsersQuery{Offset: "xyz"},
			wantFields: []string{"offset"},
		},
		{
			name:       "negative offset",
			query:      dto.ListUsersQuery{Offset: "-5"},
			wantFields: []string{"offset"},
		},
		{
			name:       "non-numeric ages",
			query:      dto.ListUsersQuery{MinAge: "young", MaxAge: "old"},
			wantFields: []string{"minAge", "maxAge"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.List(ctx, tt.query)
			requireValidationError(t, err, tt.wantFields...)
		})
	}
}

func TestUserService_List_Defaults(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t)

	_, filter, err := svc.List(ctx, dto.ListUsersQuery{})
	require.NoError(t, err)
	assert.Equal(t, repository.DefaultListLimit, filter.Limit)
	assert.Equal(t, 0, filter.Offset)
}

func TestUserService_List_LimitClampedNotRejected(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t)

	_, filter, err := svc.List(ctx, dto.ListUsersQuery{Limit: "500"})
	require.NoError(t, err)
	assert.Equal(t, repository.MaxListLimit, filter.Limit)
}

func TestUserService_Update_NotFound(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t)

	_, err := svc.Update(ctx, "no-such-id", dto.CreateUserRequest{FirstName: "Ada", LastName: "Lovelace", Age: 36})
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestUserService_Patch(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t)

	created, err := svc.Create(ctx, dto.CreateUserRequest{FirstName: "Ada", LastName: "Lovelace", Age: 36})
	require.NoError(t, err)

	patched, err := svc.Patch(ctx, created.ID, dto.PatchUserRequest{FirstName: strPtr("Augusta")})
	require.NoError(t, err)
	assert.Equal(t, "Augusta", patched.FirstName)
	assert.Equal(t, "Lovelace", patched.LastName)
	assert.Equal(t, 36, patched.Age)
}

func TestUserService_Patch_ValidatesSuppliedFields(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t)

	created, err := svc.Create(ctx, dto.CreateUserRequest{FirstName: "Ada", LastName: "Lovelace", Age: 36})
	require.NoError(t, err)

	_, err = svc.Patch(ctx, created.ID, dto.PatchUserRequest{FirstName: strPtr(""), Age: intPtr(151)})
	requireValidationError(t, err, "firstName", "age")

	// invalid patch must not mutate the record
	fetched, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", fetched.FirstName)
	assert.Equal(t, 36, fetched.Age)
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t)

	created, err := svc.Create(ctx, dto.CreateUserRequest{FirstName: "Ada", LastName: "Lovelace", Age: 36})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	err = svc.Delete(ctx, created.ID)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}
