package app

import (
	"context"
	"errors"

	"cinelog/pkg/domain"
	"cinelog/pkg/store"
)

type ReviewInput struct {
	Rating     int    `json:"rating"`
	Title      string `json:"title"`
	ReviewText string `json:"review_text"`
}

func validRating(r int) bool { return r >= 1 && r <= 10 }

// CreateReview submits one review per (user, movie). New reviews are
// approved immediately; moderation can pull them later.
func (a *App) CreateReview(ctx context.Context, actor domain.User, movieID int64, in ReviewInput) (domain.Review, error) {
	if !validRating(in.Rating) {
		return domain.Review{}, Validationf("rating must be between 1 and 10")
	}
	if _, err := a.GetMovie(ctx, movieID); err != nil {
		return domain.Review{}, err
	}
	review, err := a.store.CreateReview(ctx, domain.Review{
		UserID:     actor.ID,
		MovieID:    movieID,
		Rating:     in.Rating,
		Title:      in.Title,
		ReviewText: in.ReviewText,
		IsApproved: true,
	})
	if errors.Is(err, store.ErrDuplicate) {
		return domain.Review{}, Conflictf("you have already reviewed this movie")
	}
	if err != nil {
		return domain.Review{}, Internal(err)
	}
	a.log.Info("review created", "review_id", review.ID, "movie_id", movieID, "user_id", actor.ID)
	return review, nil
}

func (a *App) GetReview(ctx context.Context, id int64) (domain.Review, error) {
	review, err := a.store.GetReview(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Review{}, NotFoundf("review not found")
	}
	if err != nil {
		return domain.Review{}, Internal(err)
	}
	return review, nil
}

type ReviewUpdateInput struct {
	Rating     *int    `json:"rating"`
	Title      *string `json:"title"`
	ReviewText *string `json:"review_text"`
}

// UpdateReview edits a review. Only the author or an admin may touch it.
func (a *App) UpdateReview(ctx context.Context, actor domain.User, id int64, in ReviewUpdateInput) (domain.Review, error) {
	review, err := a.GetReview(ctx, id)
	if err != nil {
		return domain.Review{}, err
	}
	if !canModifyReview(actor, review) {
		return domain.Review{}, Forbiddenf("you can only edit your own reviews")
	}
	if in.Rating != nil && !validRating(*in.Rating) {
		return domain.Review{}, Validationf("rating must be between 1 and 10")
	}
	updated, err := a.store.UpdateReview(ctx, id, store.ReviewUpdate{
		Rating:     in.Rating,
		Title:      in.Title,
		ReviewText: in.ReviewText,
	})
	if errors.Is(err, store.ErrNotFound) {
		return domain.Review{}, NotFoundf("review not found")
	}
	if err != nil {
		return domain.Review{}, Internal(err)
	}
	return updated, nil
}

// DeleteReview removes a review; author or admin only.
func (a *App) DeleteReview(ctx context.Context, actor domain.User, id int64) error {
	review, err := a.GetReview(ctx, id)
	if err != nil {
		return err
	}
	if !canModifyReview(actor, review) {
		return Forbiddenf("you can only delete your own reviews")
	}
	if err := a.store.DeleteReview(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NotFoundf("review not found")
		}
		return Internal(err)
	}
	a.log.Info("review deleted", "review_id", id, "by_user_id", actor.ID)
	return nil
}

// ListMovieReviews returns the movie's approved reviews; a signed-in viewer
// also sees their own pending ones.
func (a *App) ListMovieReviews(ctx context.Context, viewer *domain.User, movieID int64, page, limit int) (Page[domain.Review], error) {
	if _, err := a.GetMovie(ctx, movieID); err != nil {
		return Page[domain.Review]{}, err
	}
	page, limit = a.clampPage(page, limit)
	var viewerID *int64
	if viewer != nil {
		viewerID = &viewer.ID
	}
	reviews, total, err := a.store.ListMovieReviews(ctx, movieID, viewerID, page, limit)
	if err != nil {
		return Page[domain.Review]{}, Internal(err)
	}
	return Page[domain.Review]{Items: reviews, Total: total, Page: page, Limit: limit}, nil
}

func (a *App) ListUserReviews(ctx context.Context, userID int64, page, limit int) (Page[domain.Review], error) {
	page, limit = a.clampPage(page, limit)
	reviews, total, err := a.store.ListUserReviews(ctx, userID, page, limit)
	if err != nil {
		return Page[domain.Review]{}, Internal(err)
	}
	return Page[domain.Review]{Items: reviews, Total: total, Page: page, Limit: limit}, nil
}

func (a *App) LatestReviews(ctx context.Context, limit int) ([]domain.Review, error) {
	_, limit = a.clampPage(1, limit)
	reviews, err := a.store.LatestReviews(ctx, limit)
	if err != nil {
		return nil, Internal(err)
	}
	return reviews, nil
}
