// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/users/auth"
	"github.com/taibuivan/yamdb/pkg/pointer"
)

// memoryRepository is an in-memory [Repository] keyed by user ID.
type memoryRepository struct {
	mu    sync.Mutex
	users map[string]*auth.User
}

func newMemoryRepository(users ...*auth.User) *memoryRepository {
	repository := &memoryRepository{users: make(map[string]*auth.User)}
	for _, user := range users {
		repository.users[user.ID] = user
	}
	return repository
}

func (repository *memoryRepository) List(_ context.Context, filter Filter, limit, offset int) ([]*auth.User, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	users := make([]*auth.User, 0)
	for _, user := range repository.users {
		if strings.Contains(strings.ToLower(user.Username), strings.ToLower(filter.Search)) {
			copied := *user
			users = append(users, &copied)
		}
	}
	return users, len(users), nil
}

func (repository *memoryRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	user, ok := repository.users[id]
	if !ok {
		return nil, apperr.NotFound(resourceUser)
	}
	copied := *user
	return &copied, nil
}

func (repository *memoryRepository) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, user := range repository.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound(resourceUser)
}

func (repository *memoryRepository) taken(user *auth.User) error {
	for _, existing := range repository.users {
		if existing.ID == user.ID {
			continue
		}
		if existing.Username == user.Username {
			return apperr.ValidationError("Validation failed", apperr.FieldError{Field: auth.FieldUsername, Message: "taken"})
		}
		if existing.Email == user.Email {
			return apperr.ValidationError("Validation failed", apperr.FieldError{Field: auth.FieldEmail, Message: "taken"})
		}
	}
	return nil
}

func (repository *memoryRepository) Create(_ context.Context, user *auth.User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if err := repository.taken(user); err != nil {
		return err
	}
	copied := *user
	repository.users[user.ID] = &copied
	return nil
}

func (repository *memoryRepository) Update(_ context.Context, user *auth.User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.users[user.ID]; !ok {
		return apperr.NotFound(resourceUser)
	}
	if err := repository.taken(user); err != nil {
		return err
	}
	copied := *user
	repository.users[user.ID] = &copied
	return nil
}

func (repository *memoryRepository) Delete(_ context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.users[id]; !ok {
		return apperr.NotFound(resourceUser)
	}
	delete(repository.users, id)
	return nil
}

// # Fixtures

func newTestService() (*Service, *memoryRepository) {
	repository := newMemoryRepository(
		&auth.User{ID: "u-alice", Username: "alice", Email: "alice@example.com", Role: sec.RoleUser},
		&auth.User{ID: "u-root", Username: "root", Email: "root@example.com", Role: sec.RoleAdmin},
	)
	return NewService(repository, slog.New(slog.NewTextHandler(io.Discard, nil))), repository
}

var (
	aliceCaller = &sec.Caller{UserID: "u-alice", Username: "alice", Role: sec.RoleUser}
	rootCaller  = &sec.Caller{UserID: "u-root", Username: "root", Role: sec.RoleAdmin}
)

// # Service Tests

func TestService_UpdateProfile_IgnoresRole(t *testing.T) {
	service, repository := newTestService()

	user, err := service.UpdateProfile(context.Background(), aliceCaller, Patch{
		Bio:  pointer.To("Film buff"),
		Role: pointer.To(sec.RoleAdmin),
	})
	require.NoError(t, err)
	assert.Equal(t, "Film buff", user.Bio)
	assert.Equal(t, sec.RoleUser, user.Role)
	assert.Equal(t, sec.RoleUser, repository.users["u-alice"].Role)
}

func TestService_UpdateProfile_Validation(t *testing.T) {
	service, _ := newTestService()
	context := context.Background()

	_, err := service.UpdateProfile(context, aliceCaller, Patch{Username: pointer.To("me")})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = service.UpdateProfile(context, aliceCaller, Patch{Email: pointer.To("root@example.com")})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = service.UpdateProfile(context, aliceCaller, Patch{FirstName: pointer.To(strings.Repeat("a", auth.MaxNameLength+1))})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

func TestService_Create(t *testing.T) {
	service, _ := newTestService()
	context := context.Background()

	user, err := service.Create(context, rootCaller, Draft{Username: "mod", Email: "mod@example.com", Role: sec.RoleModerator})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleModerator, user.Role)
	assert.NotEmpty(t, user.ID)

	user, err = service.Create(context, rootCaller, Draft{Username: "plain", Email: "plain@example.com"})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleUser, user.Role)

	_, err = service.Create(context, rootCaller, Draft{Username: "bad", Email: "bad@example.com", Role: "owner"})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = service.Create(context, rootCaller, Draft{Username: "alice", Email: "new@example.com"})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

func TestService_UpdateAndDelete(t *testing.T) {
	service, repository := newTestService()
	context := context.Background()

	user, err := service.Update(context, rootCaller, "alice", Patch{Role: pointer.To(sec.RoleModerator)})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleModerator, user.Role)

	_, err = service.Update(context, rootCaller, "ghost", Patch{})
	assert.True(t, apperr.IsNotFound(err))

	require.NoError(t, service.Delete(context, rootCaller, "alice"))
	assert.NotContains(t, repository.users, "u-alice")
	assert.True(t, apperr.IsNotFound(service.Delete(context, rootCaller, "alice")))
}

// # Handler Tests

func TestHandler_Access(t *testing.T) {
	service, _ := newTestService()
	router := NewHandler(service).Routes()

	serve := func(method, target, body string, claims *sec.AuthClaims) *httptest.ResponseRecorder {
		request := httptest.NewRequest(method, target, bytes.NewBufferString(body))
		if claims != nil {
			request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
		}
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		return recorder
	}

	alice := &sec.AuthClaims{UserID: "u-alice", Username: "alice", Role: string(sec.RoleUser)}
	root := &sec.AuthClaims{UserID: "u-root", Username: "root", Role: string(sec.RoleAdmin)}
	superuser := &sec.AuthClaims{UserID: "u-root", Username: "root", Role: string(sec.RoleUser), IsSuperuser: true}

	assert.Equal(t, http.StatusUnauthorized, serve(http.MethodGet, "/me", "", nil).Code)

	recorder := serve(http.MethodGet, "/me", "", alice)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t,
		`{"data":{"username":"alice","email":"alice@example.com","first_name":"","last_name":"","bio":"","role":"user"}}`,
		recorder.Body.String())

	recorder = serve(http.MethodPatch, "/me", `{"role":"admin","first_name":"Alice"}`, alice)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"role":"user"`)
	assert.Contains(t, recorder.Body.String(), `"first_name":"Alice"`)

	assert.Equal(t, http.StatusUnauthorized, serve(http.MethodGet, "/", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, serve(http.MethodGet, "/", "", alice).Code)
	assert.Equal(t, http.StatusForbidden, serve(http.MethodGet, "/alice", "", alice).Code)

	recorder = serve(http.MethodGet, "/?search=ALI", "", root)
	require.Equal(t, http.StatusOK, recorder.Code)
	var envelope struct {
		Data []auth.User `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "alice", envelope.Data[0].Username)

	assert.Equal(t, http.StatusCreated, serve(http.MethodPost, "/", `{"username":"mod","email":"mod@example.com","role":"moderator"}`, superuser).Code)
	assert.Equal(t, http.StatusBadRequest, serve(http.MethodPost, "/", `{"username":"me","email":"x@example.com"}`, root).Code)
	assert.Equal(t, http.StatusOK, serve(http.MethodPatch, "/mod", `{"role":"admin"}`, root).Code)
	assert.Equal(t, http.StatusNoContent, serve(http.MethodDelete, "/mod", "", root).Code)
	assert.Equal(t, http.StatusNotFound, serve(http.MethodGet, "/mod", "", root).Code)
}
