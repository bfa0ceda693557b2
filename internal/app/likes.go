package app

import (
	"context"
	"errors"

	"cinelog/pkg/domain"
	"cinelog/pkg/store"
)

// LikeReview adds one like per user per review. Authors cannot like their
// own reviews, and a second like is a Conflict.
func (a *App) LikeReview(ctx context.Context, actor domain.User, reviewID int64) (domain.Review, error) {
	review, err := a.GetReview(ctx, reviewID)
	if err != nil {
		return domain.Review{}, err
	}
	if review.UserID == actor.ID {
		return domain.Review{}, Forbiddenf("you cannot like your own review")
	}
	liked, err := a.store.LikeReview(ctx, reviewID, actor.ID)
	if errors.Is(err, store.ErrDuplicate) {
		return domain.Review{}, Conflictf("you have already liked this review")
	}
	if errors.Is(err, store.ErrNotFound) {
		return domain.Review{}, NotFoundf("review not found")
	}
	if err != nil {
		return domain.Review{}, Internal(err)
	}
	return liked, nil
}

// UnlikeReview removes a like; removing a like that does not exist is
// NotFound, unlike the idempotent movie variant.
func (a *App) UnlikeReview(ctx context.Context, actor domain.User, reviewID int64) (domain.Review, error) {
	if _, err := a.GetReview(ctx, reviewID); err != nil {
		return domain.Review{}, err
	}
	unliked, err := a.store.UnlikeReview(ctx, reviewID, actor.ID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Review{}, NotFoundf("like not found")
	}
	if err != nil {
		return domain.Review{}, Internal(err)
	}
	return unliked, nil
}

func (a *App) ReviewLikes(ctx context.Context, reviewID int64) ([]domain.ReviewLike, error) {
	likes, err := a.store.ListReviewLikes(ctx, reviewID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFoundf("review not found")
	}
	if err != nil {
		return nil, Internal(err)
	}
	return likes, nil
}

// LikeMovie is idempotent; liking twice succeeds without double counting.
func (a *App) LikeMovie(ctx context.Context, actor domain.User, movieID int64) (domain.Movie, error) {
	err := a.store.LikeMovie(ctx, movieID, actor.ID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Movie{}, NotFoundf("movie not found")
	}
	if err != nil {
		return domain.Movie{}, Internal(err)
	}
	return a.GetMovie(ctx, movieID)
}

// UnlikeMovie mirrors LikeMovie: removing an absent like is a no-op success.
func (a *App) UnlikeMovie(ctx context.Context, actor domain.User, movieID int64) (domain.Movie, error) {
	err := a.store.UnlikeMovie(ctx, movieID, actor.ID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Movie{}, NotFoundf("movie not found")
	}
	if err != nil {
		return domain.Movie{}, Internal(err)
	}
	return a.GetMovie(ctx, movieID)
}
