// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/middleware"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// ParamTitleID is the URL parameter carrying the title ID. Nested review
// routes read it too.
const ParamTitleID = "title_id"

// # Handler Implementation

// Handler implements the HTTP layer for the title catalog.
type Handler struct {
	service *Service
}

// NewHandler constructs a title [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the title endpoints.
//
//   - Discovery (Public): GET.
//   - Management (Admin): POST, PATCH, DELETE.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.AdminOrReadOnly)

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{"+ParamTitleID+"}", handler.get)
	router.Patch("/{"+ParamTitleID+"}", handler.update)
	router.Delete("/{"+ParamTitleID+"}", handler.delete)

	return router
}

// # Payloads

// writeRequest is the body of POST and PATCH /titles. On PATCH an absent
// key is left untouched; "genre": [] clears the genre set.
type writeRequest struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genre       *[]string `json:"genre"`
}

func (input writeRequest) draft() Draft {
	draft := Draft{CategorySlug: input.Category}
	if input.Name != nil {
		draft.Name = *input.Name
	}
	if input.Year != nil {
		draft.Year = *input.Year
	}
	if input.Description != nil {
		draft.Description = *input.Description
	}
	if input.Genre != nil {
		draft.GenreSlugs = *input.Genre
	}
	return draft
}

func (input writeRequest) patch() Patch {
	return Patch{
		Name:         input.Name,
		Year:         input.Year,
		Description:  input.Description,
		CategorySlug: input.Category,
		GenreSlugs:   input.Genre,
	}
}

// # Title Endpoints

/*
GET /api/v1/titles.

Request:
  - category: string (category slug)
  - genre: string (genre slug)
  - name: string (exact, case-insensitive)
  - year: int
  - page, limit: int

Response:
  - 200: []Title: Paginated titles ordered by year, then name
  - 400: Malformed year
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	query := request.URL.Query()

	filter := Filter{
		CategorySlug: query.Get(FieldCategory),
		GenreSlug:    query.Get(FieldGenre),
		Name:         query.Get(FieldName),
	}

	if rawYear := query.Get(FieldYear); rawYear != "" {
		year, err := strconv.Atoi(rawYear)
		if err != nil {
			respond.Error(writer, request, validate.FieldError(FieldYear, "Must be an integer"))
			return
		}
		filter.Year = &year
	}

	titles, total, err := handler.service.List(request.Context(), filter, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, titles, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
GET /api/v1/titles/{title_id}.

Response:
  - 200: Title
  - 404: Title missing
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64Param(request, ParamTitleID, resourceTitle)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, title)
}

/*
POST /api/v1/titles.

Request:
  - Body: {name, year, description, category, genre[]}

Response:
  - 201: Title
  - 400: Validation failure or unknown slug
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	input, err := decodeWrite(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.Year == nil {
		respond.Error(writer, request, validate.FieldError(FieldYear, "This field is required"))
		return
	}

	title, err := handler.service.Create(request.Context(), input.draft())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, title)
}

/*
PATCH /api/v1/titles/{title_id}.

Response:
  - 200: Title
  - 400: Validation failure or unknown slug
  - 404: Title missing
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64Param(request, ParamTitleID, resourceTitle)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	input, err := decodeWrite(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.Update(request.Context(), id, input.patch())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, title)
}

/*
DELETE /api/v1/titles/{title_id}.

Response:
  - 204: Deleted
  - 404: Title missing
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.Int64Param(request, ParamTitleID, resourceTitle)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// decodeWrite decodes a title payload, reporting type mismatches per field.
func decodeWrite(request *http.Request) (writeRequest, error) {
	var input writeRequest
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		var typeError *json.UnmarshalTypeError
		if errors.As(err, &typeError) && typeError.Field != "" {
			return input, apperr.ValidationError("Validation failed", apperr.FieldError{
				Field:   typeError.Field,
				Message: "Invalid type, expected " + typeError.Type.String(),
			})
		}
		return input, validate.ErrInvalidJSON
	}
	return input, nil
}
