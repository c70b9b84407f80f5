// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/mail"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// # Fakes

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*User
}

func (repository *memoryUsers) FindByID(_ context.Context, id string) (*User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, user := range repository.users {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound(resourceUser)
}

func (repository *memoryUsers) FindByUsername(_ context.Context, username string) (*User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if user, ok := repository.users[username]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound(resourceUser)
}

func (repository *memoryUsers) FindByEmail(_ context.Context, email string) (*User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, user := range repository.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound(resourceUser)
}

func (repository *memoryUsers) Create(_ context.Context, user *User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	copied := *user
	repository.users[user.Username] = &copied
	return nil
}

func (repository *memoryUsers) MarkConfirmed(_ context.Context, userID string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, user := range repository.users {
		if user.ID == userID {
			user.IsConfirmed = true
			return nil
		}
	}
	return apperr.NotFound(resourceUser)
}

type memoryCodes struct {
	mu     sync.Mutex
	hashes map[string]string
	ttls   map[string]time.Duration
}

func (repository *memoryCodes) Set(_ context.Context, username, codeHash string, ttl time.Duration) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.hashes[username] = codeHash
	repository.ttls[username] = ttl
	return nil
}

func (repository *memoryCodes) Get(_ context.Context, username string) (string, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	codeHash, ok := repository.hashes[username]
	if !ok {
		return "", apperr.NotFound("Confirmation code")
	}
	return codeHash, nil
}

func (repository *memoryCodes) Consume(_ context.Context, username string) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	_, ok := repository.hashes[username]
	delete(repository.hashes, username)
	return ok, nil
}

type recordingMailer struct {
	mu       sync.Mutex
	messages []mail.Message
}

func (mailer *recordingMailer) Dispatch(message mail.Message) {
	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	mailer.messages = append(mailer.messages, message)
}

type fixture struct {
	service *Service
	users   *memoryUsers
	codes   *memoryCodes
	mailer  *recordingMailer
	tokens  *sec.TokenService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	fixture := &fixture{
		users:  &memoryUsers{users: make(map[string]*User)},
		codes:  &memoryCodes{hashes: make(map[string]string), ttls: make(map[string]time.Duration)},
		mailer: &recordingMailer{},
		tokens: sec.NewTokenServiceFromKeys(privateKey, &privateKey.PublicKey, "test"),
	}
	fixture.service = NewService(
		fixture.users,
		fixture.codes,
		sec.StaticCodeSource("123456"),
		fixture.tokens,
		fixture.mailer,
		Options{CodeTTL: 30 * time.Minute, TokenTTL: time.Hour},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return fixture
}

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	appError := apperr.As(err)
	require.NotNil(t, appError, "expected an application error, got %v", err)
	require.Equal(t, apperr.CodeValidation, appError.Code)

	fields := make([]string, 0, len(appError.Details))
	for _, detail := range appError.Details {
		fields = append(fields, detail.Field)
	}
	return fields
}

// # Signup

func TestService_Signup(t *testing.T) {
	fixture := newFixture(t)
	context := context.Background()

	user, err := fixture.service.Signup(context, SignupInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleUser, user.Role)
	assert.NotEmpty(t, user.ID)

	require.Len(t, fixture.mailer.messages, 1)
	message := fixture.mailer.messages[0]
	assert.Equal(t, "alice@example.com", message.To)
	assert.Equal(t, ConfirmationSubject, message.Subject)
	assert.Equal(t, "123456", message.Body)

	// The code is stored hashed, with the configured TTL.
	assert.NotEqual(t, "123456", fixture.codes.hashes["alice"])
	assert.True(t, sec.CheckSecretHash("123456", fixture.codes.hashes["alice"]))
	assert.Equal(t, 30*time.Minute, fixture.codes.ttls["alice"])

	// Signing up again with the same pair rotates the code without a new account.
	again, err := fixture.service.Signup(context, SignupInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
	assert.Len(t, fixture.users.users, 1)
	assert.Len(t, fixture.mailer.messages, 2)
}

func TestService_Signup_Mismatch(t *testing.T) {
	fixture := newFixture(t)
	context := context.Background()

	_, err := fixture.service.Signup(context, SignupInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	_, err = fixture.service.Signup(context, SignupInput{Username: "bob", Email: "bob@example.com"})
	require.NoError(t, err)
	mailed := len(fixture.mailer.messages)

	_, err = fixture.service.Signup(context, SignupInput{Username: "alice", Email: "other@example.com"})
	assert.Equal(t, []string{FieldUsername}, fieldsOf(t, err))

	_, err = fixture.service.Signup(context, SignupInput{Username: "carol", Email: "alice@example.com"})
	assert.Equal(t, []string{FieldEmail}, fieldsOf(t, err))

	_, err = fixture.service.Signup(context, SignupInput{Username: "alice", Email: "bob@example.com"})
	assert.ElementsMatch(t, []string{FieldUsername, FieldEmail}, fieldsOf(t, err))

	assert.Len(t, fixture.users.users, 2)
	assert.Len(t, fixture.mailer.messages, mailed)
}

func TestService_Signup_Validation(t *testing.T) {
	fixture := newFixture(t)

	cases := []struct {
		name     string
		input    SignupInput
		expected []string
	}{
		{"reserved username", SignupInput{Username: "me", Email: "me@example.com"}, []string{FieldUsername}},
		{"reserved username any case", SignupInput{Username: "ME", Email: "me@example.com"}, []string{FieldUsername}},
		{"bad characters", SignupInput{Username: "al ice", Email: "a@example.com"}, []string{FieldUsername}},
		{"bad email", SignupInput{Username: "alice", Email: "not-an-email"}, []string{FieldEmail}},
		{"missing both", SignupInput{}, []string{FieldUsername, FieldEmail}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fixture.service.Signup(context.Background(), tc.input)
			assert.ElementsMatch(t, tc.expected, fieldsOf(t, err))
		})
	}

	assert.Empty(t, fixture.users.users)
	assert.Empty(t, fixture.mailer.messages)
}

// # Token

func TestService_Token(t *testing.T) {
	fixture := newFixture(t)
	context := context.Background()

	_, err := fixture.service.Signup(context, SignupInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	// A wrong code fails but keeps the stored code for a retry.
	_, err = fixture.service.Token(context, TokenInput{Username: "alice", ConfirmationCode: "000000"})
	assert.Equal(t, []string{FieldConfirmationCode}, fieldsOf(t, err))
	assert.Contains(t, fixture.codes.hashes, "alice")

	token, err := fixture.service.Token(context, TokenInput{Username: "alice", ConfirmationCode: "123456"})
	require.NoError(t, err)

	claims, err := fixture.tokens.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, string(sec.RoleUser), claims.Role)
	assert.True(t, fixture.users.users["alice"].IsConfirmed)

	// The code is single-use.
	_, err = fixture.service.Token(context, TokenInput{Username: "alice", ConfirmationCode: "123456"})
	assert.Equal(t, []string{FieldConfirmationCode}, fieldsOf(t, err))
}

func TestService_Token_Errors(t *testing.T) {
	fixture := newFixture(t)
	context := context.Background()

	_, err := fixture.service.Token(context, TokenInput{Username: "ghost", ConfirmationCode: "123456"})
	assert.True(t, apperr.IsNotFound(err))

	_, err = fixture.service.Token(context, TokenInput{Username: "me", ConfirmationCode: "123456"})
	assert.Equal(t, []string{FieldUsername}, fieldsOf(t, err))

	_, err = fixture.service.Token(context, TokenInput{Username: "alice"})
	assert.Contains(t, fieldsOf(t, err), FieldConfirmationCode)
}

// # Handler

func TestHandler_SignupAndToken(t *testing.T) {
	fixture := newFixture(t)
	router := NewHandler(fixture.service).Routes()

	post := func(target, body string) *httptest.ResponseRecorder {
		request := httptest.NewRequest(http.MethodPost, target, bytes.NewBufferString(body))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		return recorder
	}

	recorder := post("/signup", `{"username":"alice","email":"alice@example.com"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data":{"username":"alice","email":"alice@example.com"}}`, recorder.Body.String())
	assert.NotContains(t, recorder.Body.String(), "123456")

	assert.Equal(t, http.StatusBadRequest, post("/signup", `{"username":"me","email":"me@example.com"}`).Code)
	assert.Equal(t, http.StatusBadRequest, post("/signup", `{broken`).Code)
	assert.Equal(t, http.StatusBadRequest, post("/token", `{"username":"alice","confirmation_code":"999999"}`).Code)
	assert.Equal(t, http.StatusNotFound, post("/token", `{"username":"ghost","confirmation_code":"123456"}`).Code)

	recorder = post("/token", `{"username":"alice","confirmation_code":"123456"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data tokenResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data.Token)
}
