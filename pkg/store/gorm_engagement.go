package store

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cinelog/pkg/domain"
)

// CreateReview inserts the review and recomputes the movie aggregates in the
// same transaction. The unique (user_id, movie_id) index turns a concurrent
// double-submit into ErrDuplicate.
func (s *GormStore) CreateReview(ctx context.Context, r domain.Review) (domain.Review, error) {
	var model ReviewModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockMovie(tx, r.MovieID); err != nil {
			return err
		}
		model = ReviewModel{
			UserID:     r.UserID,
			MovieID:    r.MovieID,
			Rating:     r.Rating,
			Title:      r.Title,
			ReviewText: r.ReviewText,
			IsApproved: r.IsApproved,
		}
		if err := tx.Create(&model).Error; err != nil {
			return err
		}
		return recomputeMovieAggregates(tx, r.MovieID)
	})
	if err != nil {
		return domain.Review{}, translate(err)
	}
	return s.GetReview(ctx, model.ID)
}

func (s *GormStore) GetReview(ctx context.Context, id int64) (domain.Review, error) {
	var model ReviewModel
	if err := s.db.WithContext(ctx).First(&model, "review_id = ?", id).Error; err != nil {
		return domain.Review{}, translate(err)
	}
	reviews, err := s.attachReviewUsers(ctx, []ReviewModel{model})
	if err != nil {
		return domain.Review{}, err
	}
	reviews, err = s.attachReviewMovies(ctx, reviews)
	if err != nil {
		return domain.Review{}, err
	}
	return reviews[0], nil
}

// UpdateReview applies the non-nil fields. A rating or approval change
// invalidates the movie aggregates, so those paths lock the movie row and
// recompute inside the transaction.
func (s *GormStore) UpdateReview(ctx context.Context, id int64, upd ReviewUpdate) (domain.Review, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		review, err := lockReview(tx, id)
		if err != nil {
			return err
		}
		fields := map[string]any{"updated_at": time.Now().UTC()}
		if upd.Rating != nil {
			fields["rating"] = *upd.Rating
		}
		if upd.Title != nil {
			fields["title"] = *upd.Title
		}
		if upd.ReviewText != nil {
			fields["review_text"] = *upd.ReviewText
		}
		if upd.IsApproved != nil {
			fields["is_approved"] = *upd.IsApproved
		}
		if err := tx.Model(&ReviewModel{}).
			Where("review_id = ?", id).
			Updates(fields).Error; err != nil {
			return err
		}
		ratingChanged := upd.Rating != nil && *upd.Rating != review.Rating
		approvalChanged := upd.IsApproved != nil && *upd.IsApproved != review.IsApproved
		if ratingChanged || approvalChanged {
			if _, err := lockMovie(tx, review.MovieID); err != nil {
				return err
			}
			return recomputeMovieAggregates(tx, review.MovieID)
		}
		return nil
	})
	if err != nil {
		return domain.Review{}, translate(err)
	}
	return s.GetReview(ctx, id)
}

// DeleteReview removes the review, its likes, and recomputes the movie
// aggregates atomically.
func (s *GormStore) DeleteReview(ctx context.Context, id int64) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		review, err := lockReview(tx, id)
		if err != nil {
			return err
		}
		if _, err := lockMovie(tx, review.MovieID); err != nil {
			return err
		}
		if err := tx.Delete(&ReviewLikeModel{}, "review_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&ReviewModel{}, "review_id = ?", id).Error; err != nil {
			return err
		}
		return recomputeMovieAggregates(tx, review.MovieID)
	}))
}

// ListMovieReviews returns approved reviews for the movie; when viewerID is
// set the viewer's own pending reviews are included as well.
func (s *GormStore) ListMovieReviews(ctx context.Context, movieID int64, viewerID *int64, page, limit int) ([]domain.Review, int, error) {
	tx := s.db.WithContext(ctx).Model(&ReviewModel{}).Where("movie_id = ?", movieID)
	if viewerID != nil {
		tx = tx.Where("is_approved = ? OR user_id = ?", true, *viewerID)
	} else {
		tx = tx.Where("is_approved = ?", true)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var models []ReviewModel
	if err := tx.Order("likes_count DESC, created_at DESC").
		Offset(pageOffset(page, limit)).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, err
	}
	reviews, err := s.attachReviewUsers(ctx, models)
	if err != nil {
		return nil, 0, err
	}
	return reviews, int(total), nil
}

func (s *GormStore) ListUserReviews(ctx context.Context, userID int64, page, limit int) ([]domain.Review, int, error) {
	tx := s.db.WithContext(ctx).Model(&ReviewModel{}).Where("user_id = ?", userID)
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var models []ReviewModel
	if err := tx.Order("created_at DESC").
		Offset(pageOffset(page, limit)).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, err
	}
	reviews, err := s.attachReviewMovies(ctx, reviewsFromModels(models))
	if err != nil {
		return nil, 0, err
	}
	return reviews, int(total), nil
}

func (s *GormStore) LatestReviews(ctx context.Context, limit int) ([]domain.Review, error) {
	var models []ReviewModel
	if err := s.db.WithContext(ctx).
		Where("is_approved = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, err
	}
	reviews, err := s.attachReviewUsers(ctx, models)
	if err != nil {
		return nil, err
	}
	return s.attachReviewMovies(ctx, reviews)
}

func (s *GormStore) CountApprovedReviews(ctx context.Context) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&ReviewModel{}).
		Where("is_approved = ?", true).
		Count(&count).Error
	return int(count), err
}

func (s *GormStore) TopReviewers(ctx context.Context, limit int) ([]domain.ReviewerStat, error) {
	var rows []struct {
		UserID      int64
		Username    string
		AvatarURL   string
		ReviewCount int
		AvgRating   float64
	}
	if err := s.db.WithContext(ctx).Table("reviews").
		Select(`users.user_id, users.username, users.avatar_url,
			COUNT(reviews.review_id) AS review_count,
			COALESCE(AVG(reviews.rating), 0) AS avg_rating`).
		Joins("JOIN users ON users.user_id = reviews.user_id").
		Where("reviews.is_approved = ?", true).
		Group("users.user_id, users.username, users.avatar_url").
		Order("review_count DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	stats := make([]domain.ReviewerStat, 0, len(rows))
	for _, r := range rows {
		stats = append(stats, domain.ReviewerStat{
			User:        domain.UserRef{ID: r.UserID, Username: r.Username, AvatarURL: r.AvatarURL},
			ReviewCount: r.ReviewCount,
			AvgRating:   r.AvgRating,
		})
	}
	return stats, nil
}

// LikeReview records the like and bumps the counter under a row lock.
// A repeated like surfaces as ErrDuplicate.
func (s *GormStore) LikeReview(ctx context.Context, reviewID, userID int64) (domain.Review, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockReview(tx, reviewID); err != nil {
			return err
		}
		like := ReviewLikeModel{ReviewID: reviewID, UserID: userID}
		if err := tx.Create(&like).Error; err != nil {
			return err
		}
		return tx.Model(&ReviewModel{}).
			Where("review_id = ?", reviewID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error
	})
	if err != nil {
		return domain.Review{}, translate(err)
	}
	return s.GetReview(ctx, reviewID)
}

// UnlikeReview removes the like; a missing like is ErrNotFound, so the caller
// can report the precise conflict instead of silently succeeding.
func (s *GormStore) UnlikeReview(ctx context.Context, reviewID, userID int64) (domain.Review, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockReview(tx, reviewID); err != nil {
			return err
		}
		res := tx.Delete(&ReviewLikeModel{}, "review_id = ? AND user_id = ?", reviewID, userID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&ReviewModel{}).
			Where("review_id = ? AND likes_count > 0", reviewID).
			UpdateColumn("likes_count", gorm.Expr("likes_count - 1")).Error
	})
	if err != nil {
		return domain.Review{}, translate(err)
	}
	return s.GetReview(ctx, reviewID)
}

func (s *GormStore) ListReviewLikes(ctx context.Context, reviewID int64) ([]domain.ReviewLike, error) {
	if err := s.db.WithContext(ctx).First(&ReviewModel{}, "review_id = ?", reviewID).Error; err != nil {
		return nil, translate(err)
	}
	var rows []struct {
		ReviewLikeModel
		Username  string
		AvatarURL string
	}
	if err := s.db.WithContext(ctx).Table("review_likes").
		Select("review_likes.*, users.username, users.avatar_url").
		Joins("JOIN users ON users.user_id = review_likes.user_id").
		Where("review_likes.review_id = ?", reviewID).
		Order("review_likes.created_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	likes := make([]domain.ReviewLike, 0, len(rows))
	for _, row := range rows {
		likes = append(likes, domain.ReviewLike{
			ReviewID:  row.ReviewID,
			UserID:    row.UserID,
			CreatedAt: row.CreatedAt,
			User: &domain.UserRef{
				ID:        row.UserID,
				Username:  row.Username,
				AvatarURL: row.AvatarURL,
			},
		})
	}
	return likes, nil
}

// LikeMovie is idempotent: liking an already-liked movie changes nothing and
// succeeds. The counter only moves when the edge row is actually inserted.
func (s *GormStore) LikeMovie(ctx context.Context, movieID, userID int64) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockMovie(tx, movieID); err != nil {
			return err
		}
		like := MovieLikeModel{MovieID: movieID, UserID: userID}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&like)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&MovieModel{}).
			Where("movie_id = ?", movieID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error
	}))
}

// UnlikeMovie mirrors LikeMovie: removing an absent like is a no-op success.
func (s *GormStore) UnlikeMovie(ctx context.Context, movieID, userID int64) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockMovie(tx, movieID); err != nil {
			return err
		}
		res := tx.Delete(&MovieLikeModel{}, "movie_id = ? AND user_id = ?", movieID, userID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return tx.Model(&MovieModel{}).
			Where("movie_id = ? AND likes_count > 0", movieID).
			UpdateColumn("likes_count", gorm.Expr("likes_count - 1")).Error
	}))
}

// bookmarks

func (s *GormStore) CreateBookmark(ctx context.Context, b domain.Bookmark) (domain.Bookmark, error) {
	model := BookmarkModel{
		UserID:  b.UserID,
		MovieID: b.MovieID,
		Folder:  b.Folder,
		Notes:   b.Notes,
	}
	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.Bookmark{}, translate(err)
	}
	return s.getBookmark(ctx, model.ID)
}

func (s *GormStore) getBookmark(ctx context.Context, id int64) (domain.Bookmark, error) {
	var model BookmarkModel
	if err := s.db.WithContext(ctx).First(&model, "bookmark_id = ?", id).Error; err != nil {
		return domain.Bookmark{}, translate(err)
	}
	bookmarks, err := s.attachBookmarkMovies(ctx, []BookmarkModel{model})
	if err != nil {
		return domain.Bookmark{}, err
	}
	return bookmarks[0], nil
}

func (s *GormStore) ListBookmarks(ctx context.Context, userID int64, folder string) ([]domain.Bookmark, error) {
	tx := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if folder != "" {
		tx = tx.Where("folder = ?", folder)
	}
	var models []BookmarkModel
	if err := tx.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	return s.attachBookmarkMovies(ctx, models)
}

// UpdateBookmark moves or annotates a bookmark; the userID guard keeps one
// user from touching another's rows.
func (s *GormStore) UpdateBookmark(ctx context.Context, id, userID int64, folder, notes *string) (domain.Bookmark, error) {
	fields := map[string]any{}
	if folder != nil {
		fields["folder"] = *folder
	}
	if notes != nil {
		fields["notes"] = *notes
	}
	if len(fields) > 0 {
		res := s.db.WithContext(ctx).Model(&BookmarkModel{}).
			Where("bookmark_id = ? AND user_id = ?", id, userID).
			Updates(fields)
		if res.Error != nil {
			return domain.Bookmark{}, translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.Bookmark{}, ErrNotFound
		}
	}
	b, err := s.getBookmark(ctx, id)
	if err != nil {
		return domain.Bookmark{}, err
	}
	if b.UserID != userID {
		return domain.Bookmark{}, ErrNotFound
	}
	return b, nil
}

func (s *GormStore) DeleteBookmark(ctx context.Context, id, userID int64) error {
	res := s.db.WithContext(ctx).Delete(&BookmarkModel{}, "bookmark_id = ? AND user_id = ?", id, userID)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) BookmarkFolders(ctx context.Context, userID int64) ([]domain.FolderCount, error) {
	var rows []struct {
		Folder string
		Count  int
	}
	if err := s.db.WithContext(ctx).Model(&BookmarkModel{}).
		Select("folder, COUNT(bookmark_id) AS count").
		Where("user_id = ?", userID).
		Group("folder").
		Order("folder ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	folders := make([]domain.FolderCount, 0, len(rows))
	for _, r := range rows {
		folders = append(folders, domain.FolderCount{Folder: r.Folder, Count: r.Count})
	}
	return folders, nil
}

// helpers

func reviewFromModel(m ReviewModel) domain.Review {
	return domain.Review{
		ID:         m.ID,
		UserID:     m.UserID,
		MovieID:    m.MovieID,
		Rating:     m.Rating,
		Title:      m.Title,
		ReviewText: m.ReviewText,
		LikesCount: m.LikesCount,
		IsApproved: m.IsApproved,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func reviewsFromModels(models []ReviewModel) []domain.Review {
	reviews := make([]domain.Review, 0, len(models))
	for _, m := range models {
		reviews = append(reviews, reviewFromModel(m))
	}
	return reviews
}

// attachReviewUsers converts the models and joins in the author refs with a
// single batched lookup.
func (s *GormStore) attachReviewUsers(ctx context.Context, models []ReviewModel) ([]domain.Review, error) {
	reviews := reviewsFromModels(models)
	if len(reviews) == 0 {
		return reviews, nil
	}
	ids := make([]int64, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, r.UserID)
	}
	var users []UserModel
	if err := s.db.WithContext(ctx).Where("user_id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	refs := make(map[int64]domain.UserRef, len(users))
	for _, u := range users {
		refs[u.ID] = domain.UserRef{ID: u.ID, Username: u.Username, AvatarURL: u.AvatarURL}
	}
	for i := range reviews {
		if ref, ok := refs[reviews[i].UserID]; ok {
			r := ref
			reviews[i].User = &r
		}
	}
	return reviews, nil
}

func (s *GormStore) attachReviewMovies(ctx context.Context, reviews []domain.Review) ([]domain.Review, error) {
	if len(reviews) == 0 {
		return reviews, nil
	}
	ids := make([]int64, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, r.MovieID)
	}
	refs, err := s.movieRefs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range reviews {
		if ref, ok := refs[reviews[i].MovieID]; ok {
			m := ref
			reviews[i].Movie = &m
		}
	}
	return reviews, nil
}

func (s *GormStore) attachBookmarkMovies(ctx context.Context, models []BookmarkModel) ([]domain.Bookmark, error) {
	bookmarks := make([]domain.Bookmark, 0, len(models))
	ids := make([]int64, 0, len(models))
	for _, m := range models {
		bookmarks = append(bookmarks, domain.Bookmark{
			ID:        m.ID,
			UserID:    m.UserID,
			MovieID:   m.MovieID,
			Folder:    m.Folder,
			Notes:     m.Notes,
			CreatedAt: m.CreatedAt,
		})
		ids = append(ids, m.MovieID)
	}
	if len(bookmarks) == 0 {
		return bookmarks, nil
	}
	refs, err := s.movieRefs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range bookmarks {
		if ref, ok := refs[bookmarks[i].MovieID]; ok {
			m := ref
			bookmarks[i].Movie = &m
		}
	}
	return bookmarks, nil
}

func (s *GormStore) movieRefs(ctx context.Context, ids []int64) (map[int64]domain.MovieRef, error) {
	var movies []MovieModel
	if err := s.db.WithContext(ctx).Where("movie_id IN ?", ids).Find(&movies).Error; err != nil {
		return nil, err
	}
	refs := make(map[int64]domain.MovieRef, len(movies))
	for _, m := range movies {
		refs[m.ID] = domain.MovieRef{
			ID:          m.ID,
			Title:       m.Title,
			Slug:        m.Slug,
			PosterURL:   m.PosterURL,
			ReleaseYear: m.ReleaseYear,
			AvgRating:   m.AvgRating,
		}
	}
	return refs, nil
}
