// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package taxonomy

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
)

// memoryRepository is an in-memory [Repository] keyed by slug.
type memoryRepository struct {
	mu     sync.Mutex
	nextID int64
	terms  map[string]*Term
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{terms: make(map[string]*Term)}
}

func (repository *memoryRepository) List(_ context.Context, filter Filter, limit, offset int) ([]*Term, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	var matched []*Term
	for _, term := range repository.terms {
		if strings.Contains(strings.ToLower(term.Name), strings.ToLower(filter.Search)) {
			matched = append(matched, term)
		}
	}

	total := len(matched)
	if offset > total {
		offset = total
	}
	end := min(offset+limit, total)
	return matched[offset:end], total, nil
}

func (repository *memoryRepository) Create(_ context.Context, term *Term) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, taken := repository.terms[term.Slug]; taken {
		return apperr.Conflict("slug taken")
	}
	repository.nextID++
	term.ID = repository.nextID
	repository.terms[term.Slug] = term
	return nil
}

func (repository *memoryRepository) DeleteBySlug(_ context.Context, slug string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.terms[slug]; !ok {
		return apperr.NotFound("Category")
	}
	delete(repository.terms, slug)
	return nil
}

func newTestService() (*Service, *memoryRepository) {
	repository := newMemoryRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repository, Categories, logger), repository
}

func TestService_Create(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	t.Run("generates_slug", func(t *testing.T) {
		term := &Term{Name: "Science Fiction"}
		require.NoError(t, service.Create(ctx, term))
		assert.Equal(t, "science-fiction", term.Slug)
		assert.NotZero(t, term.ID)
	})

	t.Run("duplicate_slug_conflicts", func(t *testing.T) {
		err := service.Create(ctx, &Term{Name: "Sci-Fi", Slug: "science-fiction"})
		assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
	})

	t.Run("invalid_slug", func(t *testing.T) {
		err := service.Create(ctx, &Term{Name: "Films", Slug: "Not A Slug"})
		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, apperr.CodeValidation, appError.Code)
		assert.Equal(t, FieldSlug, appError.Details[0].Field)
	})

	t.Run("missing_name", func(t *testing.T) {
		err := service.Create(ctx, &Term{})
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	})

	t.Run("long_generated_slug_is_truncated", func(t *testing.T) {
		term := &Term{Name: strings.Repeat("word ", 30)}
		require.NoError(t, service.Create(ctx, term))
		assert.LessOrEqual(t, len(term.Slug), MaxSlugLength)
		assert.False(t, strings.HasSuffix(term.Slug, "-"))
	})
}

func TestService_Delete(t *testing.T) {
	service, repository := newTestService()
	ctx := context.Background()

	require.NoError(t, service.Create(ctx, &Term{Name: "Books", Slug: "books"}))
	require.NoError(t, service.Delete(ctx, "books"))
	assert.Empty(t, repository.terms)

	assert.True(t, apperr.IsNotFound(service.Delete(ctx, "books")))
}

/*
TestHandler_Access verifies that reads are public and writes are admin-only.
*/
func TestHandler_Access(t *testing.T) {
	service, _ := newTestService()
	router := NewHandler(service).Routes()

	serve := func(method, target string, body string, claims *sec.AuthClaims) *httptest.ResponseRecorder {
		request := httptest.NewRequest(method, target, bytes.NewBufferString(body))
		if claims != nil {
			request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
		}
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		return recorder
	}

	user := &sec.AuthClaims{UserID: "u1", Username: "alice", Role: string(sec.RoleUser)}
	admin := &sec.AuthClaims{UserID: "a1", Username: "root", Role: string(sec.RoleAdmin)}
	superuser := &sec.AuthClaims{UserID: "s1", Username: "boss", Role: string(sec.RoleUser), IsSuperuser: true}

	assert.Equal(t, http.StatusUnauthorized, serve(http.MethodPost, "/", `{"name":"Films"}`, nil).Code)
	assert.Equal(t, http.StatusForbidden, serve(http.MethodPost, "/", `{"name":"Films"}`, user).Code)
	assert.Equal(t, http.StatusCreated, serve(http.MethodPost, "/", `{"name":"Films"}`, admin).Code)
	assert.Equal(t, http.StatusCreated, serve(http.MethodPost, "/", `{"name":"Music"}`, superuser).Code)
	assert.Equal(t, http.StatusConflict, serve(http.MethodPost, "/", `{"name":"Films"}`, admin).Code)

	recorder := serve(http.MethodGet, "/?search=fil", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data []Term `json:"data"`
		Meta struct {
			Total int `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "films", envelope.Data[0].Slug)
	assert.Equal(t, 1, envelope.Meta.Total)

	assert.Equal(t, http.StatusForbidden, serve(http.MethodDelete, "/films", "", user).Code)
	assert.Equal(t, http.StatusNoContent, serve(http.MethodDelete, "/films", "", admin).Code)
	assert.Equal(t, http.StatusNotFound, serve(http.MethodDelete, "/films", "", admin).Code)
}
