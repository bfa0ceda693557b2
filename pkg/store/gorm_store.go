package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"cinelog/pkg/domain"
)

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations. TranslateError is
// enabled so unique-constraint violations surface as gorm.ErrDuplicatedKey
// and can be mapped to ErrDuplicate uniformly.
func NewGormStore(dsn string) (*GormStore, error) {
	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormLog,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(
		&UserModel{},
		&DirectorModel{},
		&ActorModel{},
		&GenreModel{},
		&MovieModel{},
		&MovieGenreModel{},
		&MovieActorModel{},
		&ReviewModel{},
		&ReviewLikeModel{},
		&MovieLikeModel{},
		&BookmarkModel{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

// lockMovie loads a movie row FOR UPDATE so concurrent counter mutations
// serialize on it.
func lockMovie(tx *gorm.DB, id int64) (MovieModel, error) {
	var m MovieModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, "movie_id = ?", id).Error
	return m, err
}

func lockReview(tx *gorm.DB, id int64) (ReviewModel, error) {
	var r ReviewModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&r, "review_id = ?", id).Error
	return r, err
}

// recomputeMovieAggregates rewrites rating_count and avg_rating from the
// approved reviews of the movie. Must run inside the mutating transaction
// with the movie row already locked.
func recomputeMovieAggregates(tx *gorm.DB, movieID int64) error {
	var agg struct {
		Count   int
		Average float64
	}
	if err := tx.Model(&ReviewModel{}).
		Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS average").
		Where("movie_id = ? AND is_approved = ?", movieID, true).
		Scan(&agg).Error; err != nil {
		return fmt.Errorf("aggregate reviews: %w", err)
	}
	return tx.Model(&MovieModel{}).
		Where("movie_id = ?", movieID).
		Updates(map[string]any{
			"rating_count": agg.Count,
			"avg_rating":   agg.Average,
			"updated_at":   time.Now().UTC(),
		}).Error
}

// CreateUser registers a user; duplicate username/email maps to ErrDuplicate.
func (s *GormStore) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	model := userToModel(u)
	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.User{}, translate(err)
	}
	return userFromModel(model), nil
}

func (s *GormStore) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	var model UserModel
	if err := s.db.WithContext(ctx).First(&model, "user_id = ?", id).Error; err != nil {
		return domain.User{}, translate(err)
	}
	return userFromModel(model), nil
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	var model UserModel
	if err := s.db.WithContext(ctx).First(&model, "email = ?", email).Error; err != nil {
		return domain.User{}, translate(err)
	}
	return userFromModel(model), nil
}

// UpdateUser saves the mutable profile and moderation fields.
func (s *GormStore) UpdateUser(ctx context.Context, u domain.User) (domain.User, error) {
	model := userToModel(u)
	err := s.db.WithContext(ctx).Model(&UserModel{}).
		Where("user_id = ?", u.ID).
		Select("Username", "Email", "PasswordHash", "AvatarURL", "About", "Role", "IsActive").
		Updates(&model).Error
	if err != nil {
		return domain.User{}, translate(err)
	}
	return s.GetUserByID(ctx, u.ID)
}

func (s *GormStore) SetLastLogin(ctx context.Context, id int64) error {
	now := time.Now().UTC()
	return translate(s.db.WithContext(ctx).Model(&UserModel{}).
		Where("user_id = ?", id).
		Update("last_login", now).Error)
}

func (s *GormStore) ListUsers(ctx context.Context, q UserQuery) ([]domain.User, int, error) {
	tx := s.db.WithContext(ctx).Model(&UserModel{})
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		tx = tx.Where("username ILIKE ? OR email ILIKE ?", pattern, pattern)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var models []UserModel
	if err := tx.Order("registration_date DESC").
		Offset(pageOffset(q.Page, q.Limit)).
		Limit(q.Limit).
		Find(&models).Error; err != nil {
		return nil, 0, err
	}
	users := make([]domain.User, 0, len(models))
	for _, m := range models {
		users = append(users, userFromModel(m))
	}
	return users, int(total), nil
}

func (s *GormStore) CountUsers(ctx context.Context) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&UserModel{}).Count(&count).Error
	return int(count), err
}

func (s *GormStore) UsersByRole(ctx context.Context) ([]domain.RoleCount, error) {
	var rows []struct {
		Role  string
		Count int
	}
	if err := s.db.WithContext(ctx).Model(&UserModel{}).
		Select("role, COUNT(user_id) AS count").
		Group("role").
		Order("role ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	res := make([]domain.RoleCount, 0, len(rows))
	for _, r := range rows {
		res = append(res, domain.RoleCount{Role: domain.UserRole(r.Role), Count: r.Count})
	}
	return res, nil
}

// DeleteUserCascade removes a user together with every row they own.
// The user's reviews go first so the affected movie aggregates are
// recomputed before the user row disappears; likes issued by the user
// decrement the counters they once incremented. One transaction.
func (s *GormStore) DeleteUserCascade(ctx context.Context, id int64) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user UserModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, "user_id = ?", id).Error; err != nil {
			return err
		}

		// likes the user placed on other people's reviews
		var likedReviews []int64
		if err := tx.Model(&ReviewLikeModel{}).
			Where("user_id = ?", id).
			Pluck("review_id", &likedReviews).Error; err != nil {
			return err
		}
		for _, rid := range likedReviews {
			if err := tx.Model(&ReviewModel{}).
				Where("review_id = ? AND likes_count > 0", rid).
				UpdateColumn("likes_count", gorm.Expr("likes_count - 1")).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&ReviewLikeModel{}, "user_id = ?", id).Error; err != nil {
			return err
		}

		// likes the user placed on movies
		var likedMovies []int64
		if err := tx.Model(&MovieLikeModel{}).
			Where("user_id = ?", id).
			Pluck("movie_id", &likedMovies).Error; err != nil {
			return err
		}
		for _, mid := range likedMovies {
			if err := tx.Model(&MovieModel{}).
				Where("movie_id = ? AND likes_count > 0", mid).
				UpdateColumn("likes_count", gorm.Expr("likes_count - 1")).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&MovieLikeModel{}, "user_id = ?", id).Error; err != nil {
			return err
		}

		if err := tx.Delete(&BookmarkModel{}, "user_id = ?", id).Error; err != nil {
			return err
		}

		// the user's own reviews: drop likes on them, delete, recompute aggregates
		var reviewIDs []int64
		if err := tx.Model(&ReviewModel{}).
			Where("user_id = ?", id).
			Pluck("review_id", &reviewIDs).Error; err != nil {
			return err
		}
		var movieIDs []int64
		if err := tx.Model(&ReviewModel{}).
			Where("user_id = ?", id).
			Distinct().
			Pluck("movie_id", &movieIDs).Error; err != nil {
			return err
		}
		if len(reviewIDs) > 0 {
			if err := tx.Delete(&ReviewLikeModel{}, "review_id IN ?", reviewIDs).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&ReviewModel{}, "user_id = ?", id).Error; err != nil {
			return err
		}
		for _, mid := range movieIDs {
			if _, err := lockMovie(tx, mid); err != nil {
				return err
			}
			if err := recomputeMovieAggregates(tx, mid); err != nil {
				return err
			}
		}

		return tx.Delete(&UserModel{}, "user_id = ?", id).Error
	}))
}

func pageOffset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}

func userToModel(u domain.User) UserModel {
	return UserModel{
		ID:               u.ID,
		Username:         u.Username,
		Email:            u.Email,
		PasswordHash:     u.PasswordHash,
		AvatarURL:        u.AvatarURL,
		About:            u.About,
		Role:             string(u.Role),
		IsActive:         u.IsActive,
		RegistrationDate: u.RegistrationDate,
		LastLogin:        u.LastLogin,
	}
}

func userFromModel(m UserModel) domain.User {
	return domain.User{
		ID:               m.ID,
		Username:         m.Username,
		Email:            m.Email,
		PasswordHash:     m.PasswordHash,
		AvatarURL:        m.AvatarURL,
		About:            m.About,
		Role:             domain.UserRole(m.Role),
		IsActive:         m.IsActive,
		RegistrationDate: m.RegistrationDate,
		LastLogin:        m.LastLogin,
	}
}

func dateToModel(t *time.Time) *datatypes.Date {
	if t == nil {
		return nil
	}
	d := datatypes.Date(*t)
	return &d
}

func dateFromModel(d *datatypes.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := time.Time(*d)
	return &t
}
