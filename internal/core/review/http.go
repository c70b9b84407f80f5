// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/core/title"
	"github.com/taibuivan/yamdb/internal/platform/middleware"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/pointer"
)

// URL parameters of the nested routes.
const (
	ParamReviewID  = "review_id"
	ParamCommentID = "comment_id"
)

// Handler implements the HTTP layer for reviews and comments. It is mounted
// under /titles/{title_id}/reviews.
type Handler struct {
	service *Service
}

// NewHandler constructs a review [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the review and comment endpoints.
//
// Reads are public. Writes require authentication here; ownership of an
// existing review or comment is checked by the [Service] once it is loaded.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.AuthenticatedOrReadOnly)

	// ## Reviews
	router.Get("/", handler.listReviews)
	router.Post("/", handler.createReview)
	router.Get("/{review_id}", handler.getReview)
	router.Patch("/{review_id}", handler.updateReview)
	router.Delete("/{review_id}", handler.deleteReview)

	// ## Comments
	router.Route("/{review_id}/comments", func(comments chi.Router) {
		comments.Get("/", handler.listComments)
		comments.Post("/", handler.createComment)
		comments.Get("/{comment_id}", handler.getComment)
		comments.Patch("/{comment_id}", handler.updateComment)
		comments.Delete("/{comment_id}", handler.deleteComment)
	})

	return router
}

// # Payloads

type reviewRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

type commentRequest struct {
	Text *string `json:"text"`
}

// # Path Resolution

// reviewPath parses the title and review IDs of the request.
func reviewPath(request *http.Request) (titleID, reviewID int64, err error) {
	titleID, err = requestutil.Int64Param(request, title.ParamTitleID, resourceTitle)
	if err != nil {
		return 0, 0, err
	}
	reviewID, err = requestutil.Int64Param(request, ParamReviewID, resourceReview)
	return titleID, reviewID, err
}

// commentPath parses the title, review and comment IDs of the request.
func commentPath(request *http.Request) (titleID, reviewID, commentID int64, err error) {
	titleID, reviewID, err = reviewPath(request)
	if err != nil {
		return 0, 0, 0, err
	}
	commentID, err = requestutil.Int64Param(request, ParamCommentID, resourceComment)
	return titleID, reviewID, commentID, err
}

// # Review Endpoints

/*
GET /api/v1/titles/{title_id}/reviews.

Response:
  - 200: []Review: Paginated
  - 404: Title missing
*/
func (handler *Handler) listReviews(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.Int64Param(request, title.ParamTitleID, resourceTitle)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	reviews, total, err := handler.service.ListReviews(request.Context(), titleID, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, reviews, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
POST /api/v1/titles/{title_id}/reviews.

Request:
  - Body: {text, score}

Response:
  - 201: Review
  - 400: Validation failure
  - 404: Title missing
  - 409: Caller already reviewed the title
*/
func (handler *Handler) createReview(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.Int64Param(request, title.ParamTitleID, resourceTitle)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input reviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.CreateReview(request.Context(), requestutil.Caller(request), titleID, ReviewInput{
		Text:  pointer.Val(input.Text),
		Score: pointer.Val(input.Score),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, review)
}

// GET /api/v1/titles/{title_id}/reviews/{review_id}.
func (handler *Handler) getReview(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.GetReview(request.Context(), titleID, reviewID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, review)
}

/*
PATCH /api/v1/titles/{title_id}/reviews/{review_id}.

Response:
  - 200: Review
  - 403: Caller is neither the author, a moderator nor an admin
  - 404: Title or review missing
*/
func (handler *Handler) updateReview(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input reviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.service.UpdateReview(request.Context(), requestutil.Caller(request), titleID, reviewID, ReviewPatch{
		Text:  input.Text,
		Score: input.Score,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, review)
}

// DELETE /api/v1/titles/{title_id}/reviews/{review_id}.
func (handler *Handler) deleteReview(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteReview(request.Context(), requestutil.Caller(request), titleID, reviewID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Comment Endpoints

// GET /api/v1/titles/{title_id}/reviews/{review_id}/comments.
func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	comments, total, err := handler.service.ListComments(request.Context(), titleID, reviewID, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments, pagination.NewMeta(params.Page, params.Limit, total))
}

// POST /api/v1/titles/{title_id}/reviews/{review_id}/comments.
func (handler *Handler) createComment(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, err := reviewPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.CreateComment(request.Context(), requestutil.Caller(request), titleID, reviewID, pointer.Val(input.Text))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment)
}

// GET /api/v1/titles/{title_id}/reviews/{review_id}/comments/{comment_id}.
func (handler *Handler) getComment(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, commentID, err := commentPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.GetComment(request.Context(), titleID, reviewID, commentID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

// PATCH /api/v1/titles/{title_id}/reviews/{review_id}/comments/{comment_id}.
func (handler *Handler) updateComment(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, commentID, err := commentPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.UpdateComment(request.Context(), requestutil.Caller(request), titleID, reviewID, commentID, CommentPatch{Text: input.Text})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, comment)
}

// DELETE /api/v1/titles/{title_id}/reviews/{review_id}/comments/{comment_id}.
func (handler *Handler) deleteComment(writer http.ResponseWriter, request *http.Request) {
	titleID, reviewID, commentID, err := commentPath(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteComment(request.Context(), requestutil.Caller(request), titleID, reviewID, commentID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
