// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/policy"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
)

// errAlreadyReviewed is returned for a second review of the same title by the same author.
func errAlreadyReviewed() error {
	return apperr.Conflict("You have already reviewed this title")
}

// # Service Layer

// Service enforces the review and comment invariants.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a review [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// # Review Methods

/*
ListReviews returns a page of the reviews of a title.

Returns:
  - error: apperr.NotFound when the title does not exist
*/
func (service *Service) ListReviews(context context.Context, titleID int64, limit, offset int) ([]*Review, int, error) {
	if err := service.repo.TitleExists(context, titleID); err != nil {
		return nil, 0, err
	}
	return service.repo.ListReviews(context, titleID, limit, offset)
}

/*
GetReview returns one review of a title.

Returns:
  - error: apperr.NotFound when the title or the review (within that title) does not exist
*/
func (service *Service) GetReview(context context.Context, titleID, reviewID int64) (*Review, error) {
	if err := service.repo.TitleExists(context, titleID); err != nil {
		return nil, err
	}
	return service.repo.FindReview(context, titleID, reviewID)
}

/*
CreateReview adds the caller's review of a title.

Description: The duplicate pre-check gives the common case a clean answer;
the unique constraint catches the concurrent one. Both surface as Conflict.

Parameters:
  - context: context.Context
  - caller: *sec.Caller (must be authenticated)
  - titleID: int64
  - input: ReviewInput

Returns:
  - *Review: The stored review
  - error: Unauthorized, Validation, NotFound (title) or Conflict
*/
func (service *Service) CreateReview(context context.Context, caller *sec.Caller, titleID int64, input ReviewInput) (*Review, error) {
	if err := policy.Check(policy.AuthorModeratorAdminOrReadOnly(http.MethodPost, caller), caller); err != nil {
		return nil, err
	}

	input.Text = strings.TrimSpace(input.Text)
	validator := &validate.Validator{}
	validator.Required(FieldText, input.Text)
	validator.Range(FieldScore, input.Score, MinScore, MaxScore)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.TitleExists(context, titleID); err != nil {
		return nil, err
	}

	exists, err := service.repo.HasReview(context, titleID, caller.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errAlreadyReviewed()
	}

	review := &Review{
		TitleID:  titleID,
		AuthorID: caller.UserID,
		Author:   caller.Username,
		Text:     input.Text,
		Score:    input.Score,
	}
	if err := service.repo.CreateReview(context, review); err != nil {
		return nil, err
	}

	service.logger.Info("review_created",
		slog.Int64("review_id", review.ID),
		slog.Int64("title_id", titleID),
		slog.String("author_id", caller.UserID),
	)
	return review, nil
}

/*
UpdateReview changes the text and/or score of an existing review.

Description: Uniqueness is not re-checked; only the object-level ownership
rule applies.

Returns:
  - error: NotFound, Unauthorized/Forbidden or Validation
*/
func (service *Service) UpdateReview(context context.Context, caller *sec.Caller, titleID, reviewID int64, patch ReviewPatch) (*Review, error) {
	review, err := service.GetReview(context, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := policy.Check(policy.AuthorModeratorAdminOrReadOnlyObject(http.MethodPatch, caller, policy.Target{AuthorID: review.AuthorID}), caller); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if patch.Text != nil {
		review.Text = strings.TrimSpace(*patch.Text)
		validator.Required(FieldText, review.Text)
	}
	if patch.Score != nil {
		review.Score = *patch.Score
		validator.Range(FieldScore, review.Score, MinScore, MaxScore)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.UpdateReview(context, review); err != nil {
		return nil, err
	}

	service.logger.Info("review_updated",
		slog.Int64("review_id", reviewID),
		slog.String("actor_id", caller.ID()),
	)
	return review, nil
}

/*
DeleteReview removes a review together with its comments.

Returns:
  - error: NotFound or Unauthorized/Forbidden
*/
func (service *Service) DeleteReview(context context.Context, caller *sec.Caller, titleID, reviewID int64) error {
	review, err := service.GetReview(context, titleID, reviewID)
	if err != nil {
		return err
	}

	if err := policy.Check(policy.AuthorModeratorAdminOrReadOnlyObject(http.MethodDelete, caller, policy.Target{AuthorID: review.AuthorID}), caller); err != nil {
		return err
	}

	if err := service.repo.DeleteReview(context, reviewID); err != nil {
		return err
	}

	service.logger.Info("review_deleted",
		slog.Int64("review_id", reviewID),
		slog.String("actor_id", caller.ID()),
	)
	return nil
}

// # Comment Methods

/*
ListComments returns a page of the comments of a review.

Returns:
  - error: apperr.NotFound when the title or the review within it does not exist
*/
func (service *Service) ListComments(context context.Context, titleID, reviewID int64, limit, offset int) ([]*Comment, int, error) {
	if _, err := service.GetReview(context, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	return service.repo.ListComments(context, reviewID, limit, offset)
}

// GetComment returns one comment of a review within a title.
func (service *Service) GetComment(context context.Context, titleID, reviewID, commentID int64) (*Comment, error) {
	if _, err := service.GetReview(context, titleID, reviewID); err != nil {
		return nil, err
	}
	return service.repo.FindComment(context, reviewID, commentID)
}

/*
CreateComment adds the caller's comment to a review.

Returns:
  - *Comment: The stored comment
  - error: Unauthorized, Validation or NotFound
*/
func (service *Service) CreateComment(context context.Context, caller *sec.Caller, titleID, reviewID int64, text string) (*Comment, error) {
	if err := policy.Check(policy.AuthorModeratorAdminOrReadOnly(http.MethodPost, caller), caller); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if err := (&validate.Validator{}).Required(FieldText, text).Err(); err != nil {
		return nil, err
	}

	if _, err := service.GetReview(context, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &Comment{
		ReviewID: reviewID,
		AuthorID: caller.UserID,
		Author:   caller.Username,
		Text:     text,
	}
	if err := service.repo.CreateComment(context, comment); err != nil {
		return nil, err
	}

	service.logger.Info("comment_created",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("review_id", reviewID),
	)
	return comment, nil
}

// UpdateComment changes the text of a comment (author, moderator or admin).
func (service *Service) UpdateComment(context context.Context, caller *sec.Caller, titleID, reviewID, commentID int64, patch CommentPatch) (*Comment, error) {
	comment, err := service.GetComment(context, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if err := policy.Check(policy.AuthorModeratorAdminOrReadOnlyObject(http.MethodPatch, caller, policy.Target{AuthorID: comment.AuthorID}), caller); err != nil {
		return nil, err
	}

	if patch.Text != nil {
		comment.Text = strings.TrimSpace(*patch.Text)
		if err := (&validate.Validator{}).Required(FieldText, comment.Text).Err(); err != nil {
			return nil, err
		}

		if err := service.repo.UpdateComment(context, comment); err != nil {
			return nil, err
		}
	}

	service.logger.Info("comment_updated", slog.Int64("comment_id", commentID), slog.String("actor_id", caller.ID()))
	return comment, nil
}

// DeleteComment removes a comment (author, moderator or admin).
func (service *Service) DeleteComment(context context.Context, caller *sec.Caller, titleID, reviewID, commentID int64) error {
	comment, err := service.GetComment(context, titleID, reviewID, commentID)
	if err != nil {
		return err
	}

	if err := policy.Check(policy.AuthorModeratorAdminOrReadOnlyObject(http.MethodDelete, caller, policy.Target{AuthorID: comment.AuthorID}), caller); err != nil {
		return err
	}

	if err := service.repo.DeleteComment(context, commentID); err != nil {
		return err
	}

	service.logger.Info("comment_deleted", slog.Int64("comment_id", commentID), slog.String("actor_id", caller.ID()))
	return nil
}
