// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/pkg/pointer"
)

// memoryRepository is an in-memory [Repository]. CreateReview enforces the
// (title, author) uniqueness under its lock, like the database constraint.
type memoryRepository struct {
	mu       sync.Mutex
	nextID   int64
	titles   map[int64]bool
	reviews  map[int64]*Review
	comments map[int64]*Comment
}

func newMemoryRepository(titleIDs ...int64) *memoryRepository {
	repository := &memoryRepository{
		titles:   make(map[int64]bool),
		reviews:  make(map[int64]*Review),
		comments: make(map[int64]*Comment),
	}
	for _, id := range titleIDs {
		repository.titles[id] = true
	}
	return repository
}

func (repository *memoryRepository) TitleExists(_ context.Context, titleID int64) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if !repository.titles[titleID] {
		return apperr.NotFound(resourceTitle)
	}
	return nil
}

func (repository *memoryRepository) ListReviews(_ context.Context, titleID int64, limit, offset int) ([]*Review, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	reviews := make([]*Review, 0)
	for _, review := range repository.reviews {
		if review.TitleID == titleID {
			copied := *review
			reviews = append(reviews, &copied)
		}
	}
	return reviews, len(reviews), nil
}

func (repository *memoryRepository) FindReview(_ context.Context, titleID, reviewID int64) (*Review, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	review, ok := repository.reviews[reviewID]
	if !ok || review.TitleID != titleID {
		return nil, apperr.NotFound(resourceReview)
	}
	copied := *review
	return &copied, nil
}

func (repository *memoryRepository) HasReview(_ context.Context, titleID int64, authorID string) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, review := range repository.reviews {
		if review.TitleID == titleID && review.AuthorID == authorID {
			return true, nil
		}
	}
	return false, nil
}

func (repository *memoryRepository) CreateReview(_ context.Context, review *Review) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, existing := range repository.reviews {
		if existing.TitleID == review.TitleID && existing.AuthorID == review.AuthorID {
			return errAlreadyReviewed()
		}
	}

	repository.nextID++
	review.ID = repository.nextID
	review.PubDate = time.Now()
	copied := *review
	repository.reviews[review.ID] = &copied
	return nil
}

func (repository *memoryRepository) UpdateReview(_ context.Context, review *Review) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.reviews[review.ID]; !ok {
		return apperr.NotFound(resourceReview)
	}
	copied := *review
	repository.reviews[review.ID] = &copied
	return nil
}

func (repository *memoryRepository) DeleteReview(_ context.Context, reviewID int64) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.reviews[reviewID]; !ok {
		return apperr.NotFound(resourceReview)
	}
	delete(repository.reviews, reviewID)
	for id, comment := range repository.comments {
		if comment.ReviewID == reviewID {
			delete(repository.comments, id)
		}
	}
	return nil
}

func (repository *memoryRepository) ListComments(_ context.Context, reviewID int64, limit, offset int) ([]*Comment, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	comments := make([]*Comment, 0)
	for _, comment := range repository.comments {
		if comment.ReviewID == reviewID {
			copied := *comment
			comments = append(comments, &copied)
		}
	}
	return comments, len(comments), nil
}

func (repository *memoryRepository) FindComment(_ context.Context, reviewID, commentID int64) (*Comment, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	comment, ok := repository.comments[commentID]
	if !ok || comment.ReviewID != reviewID {
		return nil, apperr.NotFound(resourceComment)
	}
	copied := *comment
	return &copied, nil
}

func (repository *memoryRepository) CreateComment(_ context.Context, comment *Comment) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.nextID++
	comment.ID = repository.nextID
	comment.PubDate = time.Now()
	copied := *comment
	repository.comments[comment.ID] = &copied
	return nil
}

func (repository *memoryRepository) UpdateComment(_ context.Context, comment *Comment) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	copied := *comment
	repository.comments[comment.ID] = &copied
	return nil
}

func (repository *memoryRepository) DeleteComment(_ context.Context, commentID int64) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.comments[commentID]; !ok {
		return apperr.NotFound(resourceComment)
	}
	delete(repository.comments, commentID)
	return nil
}

// # Fixtures

var (
	alice     = &sec.Caller{UserID: "u-alice", Username: "alice", Role: sec.RoleUser}
	bob       = &sec.Caller{UserID: "u-bob", Username: "bob", Role: sec.RoleUser}
	moderator = &sec.Caller{UserID: "u-mod", Username: "mod", Role: sec.RoleModerator}
	admin     = &sec.Caller{UserID: "u-admin", Username: "root", Role: sec.RoleAdmin}
)

func newTestService(titleIDs ...int64) (*Service, *memoryRepository) {
	repository := newMemoryRepository(titleIDs...)
	return NewService(repository, slog.New(slog.NewTextHandler(io.Discard, nil))), repository
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	appError := apperr.As(err)
	require.NotNil(t, appError, "expected an application error, got %v", err)
	assert.Equal(t, code, appError.Code)
}

// # Service Tests

func TestService_CreateReview(t *testing.T) {
	service, _ := newTestService(1)
	context := context.Background()

	review, err := service.CreateReview(context, alice, 1, ReviewInput{Text: "  Great  ", Score: 9})
	require.NoError(t, err)
	assert.Equal(t, "alice", review.Author)
	assert.Equal(t, "Great", review.Text)

	_, err = service.CreateReview(context, alice, 1, ReviewInput{Text: "Again", Score: 5})
	assertCode(t, err, apperr.CodeConflict)

	_, err = service.CreateReview(context, alice, 2, ReviewInput{Text: "Missing", Score: 5})
	assertCode(t, err, apperr.CodeNotFound)

	_, err = service.CreateReview(context, nil, 1, ReviewInput{Text: "Anon", Score: 5})
	assertCode(t, err, apperr.CodeUnauthorized)

	for _, score := range []int{0, 11} {
		_, err = service.CreateReview(context, bob, 1, ReviewInput{Text: "Out of range", Score: score})
		assertCode(t, err, apperr.CodeValidation)
	}

	_, err = service.CreateReview(context, bob, 1, ReviewInput{Text: "   ", Score: 5})
	assertCode(t, err, apperr.CodeValidation)
}

func TestService_CreateReview_Concurrent(t *testing.T) {
	service, repository := newTestService(1)

	const attempts = 16
	var (
		wait      sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)

	for range attempts {
		wait.Add(1)
		go func() {
			defer wait.Done()
			_, err := service.CreateReview(context.Background(), alice, 1, ReviewInput{Text: "Race", Score: 7})

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				created++
			} else if apperr.HasCode(err, apperr.CodeConflict) {
				conflicts++
			}
		}()
	}
	wait.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, attempts-1, conflicts)
	assert.Len(t, repository.reviews, 1)
}

func TestService_UpdateReview_Ownership(t *testing.T) {
	service, _ := newTestService(1, 2)
	context := context.Background()

	review, err := service.CreateReview(context, alice, 1, ReviewInput{Text: "Mine", Score: 6})
	require.NoError(t, err)

	_, err = service.UpdateReview(context, bob, 1, review.ID, ReviewPatch{Score: pointer.To(1)})
	assertCode(t, err, apperr.CodeForbidden)

	_, err = service.UpdateReview(context, nil, 1, review.ID, ReviewPatch{Score: pointer.To(1)})
	assertCode(t, err, apperr.CodeUnauthorized)

	updated, err := service.UpdateReview(context, alice, 1, review.ID, ReviewPatch{Score: pointer.To(8)})
	require.NoError(t, err)
	assert.Equal(t, 8, updated.Score)
	assert.Equal(t, "Mine", updated.Text)

	updated, err = service.UpdateReview(context, moderator, 1, review.ID, ReviewPatch{Text: pointer.To("Moderated")})
	require.NoError(t, err)
	assert.Equal(t, "Moderated", updated.Text)

	_, err = service.UpdateReview(context, admin, 1, review.ID, ReviewPatch{Score: pointer.To(10)})
	require.NoError(t, err)

	_, err = service.UpdateReview(context, alice, 1, review.ID, ReviewPatch{Score: pointer.To(11)})
	assertCode(t, err, apperr.CodeValidation)

	// A review is only reachable through its own title.
	_, err = service.UpdateReview(context, admin, 2, review.ID, ReviewPatch{Score: pointer.To(3)})
	assertCode(t, err, apperr.CodeNotFound)
}

func TestService_DeleteReview_CascadesComments(t *testing.T) {
	service, repository := newTestService(1)
	context := context.Background()

	review, err := service.CreateReview(context, alice, 1, ReviewInput{Text: "Mine", Score: 6})
	require.NoError(t, err)
	_, err = service.CreateComment(context, bob, 1, review.ID, "Agreed")
	require.NoError(t, err)

	assertCode(t, service.DeleteReview(context, bob, 1, review.ID), apperr.CodeForbidden)
	require.NoError(t, service.DeleteReview(context, moderator, 1, review.ID))

	assert.Empty(t, repository.comments)
	assertCode(t, service.DeleteReview(context, admin, 1, review.ID), apperr.CodeNotFound)
}

func TestService_Comments(t *testing.T) {
	service, _ := newTestService(1, 2)
	context := context.Background()

	review, err := service.CreateReview(context, alice, 1, ReviewInput{Text: "Mine", Score: 6})
	require.NoError(t, err)

	comment, err := service.CreateComment(context, bob, 1, review.ID, " Nice ")
	require.NoError(t, err)
	assert.Equal(t, "Nice", comment.Text)
	assert.Equal(t, "bob", comment.Author)

	_, err = service.CreateComment(context, bob, 1, review.ID, "")
	assertCode(t, err, apperr.CodeValidation)

	_, err = service.CreateComment(context, bob, 2, review.ID, "Wrong title")
	assertCode(t, err, apperr.CodeNotFound)

	_, err = service.GetComment(context, 2, review.ID, comment.ID)
	assertCode(t, err, apperr.CodeNotFound)

	_, err = service.UpdateComment(context, alice, 1, review.ID, comment.ID, CommentPatch{Text: pointer.To("Hijack")})
	assertCode(t, err, apperr.CodeForbidden)

	updated, err := service.UpdateComment(context, bob, 1, review.ID, comment.ID, CommentPatch{Text: pointer.To("Edited")})
	require.NoError(t, err)
	assert.Equal(t, "Edited", updated.Text)

	comments, total, err := service.ListComments(context, 1, review.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Edited", comments[0].Text)

	require.NoError(t, service.DeleteComment(context, admin, 1, review.ID, comment.ID))
	_, err = service.GetComment(context, 1, review.ID, comment.ID)
	assertCode(t, err, apperr.CodeNotFound)
}

// # Handler Tests

func TestHandler_Access(t *testing.T) {
	service, _ := newTestService(1)

	router := chi.NewRouter()
	router.Mount("/titles/{title_id}/reviews", NewHandler(service).Routes())

	serve := func(method, target, body string, claims *sec.AuthClaims) *httptest.ResponseRecorder {
		request := httptest.NewRequest(method, target, bytes.NewBufferString(body))
		if claims != nil {
			request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
		}
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		return recorder
	}

	aliceClaims := &sec.AuthClaims{UserID: alice.UserID, Username: alice.Username, Role: string(sec.RoleUser)}
	bobClaims := &sec.AuthClaims{UserID: bob.UserID, Username: bob.Username, Role: string(sec.RoleUser)}
	moderatorClaims := &sec.AuthClaims{UserID: moderator.UserID, Username: moderator.Username, Role: string(sec.RoleModerator)}

	assert.Equal(t, http.StatusOK, serve(http.MethodGet, "/titles/1/reviews", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, serve(http.MethodGet, "/titles/9/reviews", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, serve(http.MethodGet, "/titles/abc/reviews", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(http.MethodPost, "/titles/1/reviews", `{"text":"Hi","score":5}`, nil).Code)

	recorder := serve(http.MethodPost, "/titles/1/reviews", `{"text":"Hi","score":5}`, aliceClaims)
	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"author":"alice"`)
	assert.Contains(t, recorder.Body.String(), `"pub_date"`)

	assert.Equal(t, http.StatusConflict, serve(http.MethodPost, "/titles/1/reviews", `{"text":"Hi","score":5}`, aliceClaims).Code)
	assert.Equal(t, http.StatusBadRequest, serve(http.MethodPost, "/titles/1/reviews", `{"text":"Hi"}`, bobClaims).Code)
	assert.Equal(t, http.StatusBadRequest, serve(http.MethodPost, "/titles/1/reviews", `{not json`, bobClaims).Code)

	assert.Equal(t, http.StatusOK, serve(http.MethodGet, "/titles/1/reviews/1", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, serve(http.MethodPatch, "/titles/1/reviews/1", `{"score":1}`, bobClaims).Code)
	assert.Equal(t, http.StatusOK, serve(http.MethodPatch, "/titles/1/reviews/1", `{"score":1}`, moderatorClaims).Code)

	recorder = serve(http.MethodPost, "/titles/1/reviews/1/comments", `{"text":"Reply"}`, bobClaims)
	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, http.StatusOK, serve(http.MethodGet, "/titles/1/reviews/1/comments", "", nil).Code)
	assert.Equal(t, http.StatusOK, serve(http.MethodGet, "/titles/1/reviews/1/comments/2", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, serve(http.MethodDelete, "/titles/1/reviews/1/comments/2", "", aliceClaims).Code)
	assert.Equal(t, http.StatusNoContent, serve(http.MethodDelete, "/titles/1/reviews/1/comments/2", "", bobClaims).Code)
	assert.Equal(t, http.StatusNotFound, serve(http.MethodGet, "/titles/1/reviews/1/comments/2", "", nil).Code)

	assert.Equal(t, http.StatusNoContent, serve(http.MethodDelete, "/titles/1/reviews/1", "", aliceClaims).Code)
	assert.Equal(t, http.StatusNotFound, serve(http.MethodGet, "/titles/1/reviews/1", "", nil).Code)
}
