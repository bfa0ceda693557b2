package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"cinelog/pkg/domain"
	"cinelog/pkg/storage"
	"cinelog/pkg/store"
)

// AdminListUsers pages through accounts with optional username/email search.
func (a *App) AdminListUsers(ctx context.Context, actor domain.User, q store.UserQuery) (Page[domain.User], error) {
	if err := requireAdmin(actor); err != nil {
		return Page[domain.User]{}, err
	}
	q.Page, q.Limit = a.clampPage(q.Page, q.Limit)
	users, total, err := a.store.ListUsers(ctx, q)
	if err != nil {
		return Page[domain.User]{}, Internal(err)
	}
	return Page[domain.User]{Items: users, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

type AdminUserUpdate struct {
	Role     *domain.UserRole `json:"role"`
	IsActive *bool            `json:"is_active"`
}

// AdminUpdateUser changes a user's role or active flag. Admins cannot touch
// themselves here, nor other admins.
func (a *App) AdminUpdateUser(ctx context.Context, actor domain.User, targetID int64, in AdminUserUpdate) (domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return domain.User{}, err
	}
	target, err := a.store.GetUserByID(ctx, targetID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, NotFoundf("user not found")
	}
	if err != nil {
		return domain.User{}, Internal(err)
	}
	if err := checkAdminTarget(actor, target); err != nil {
		return domain.User{}, err
	}
	if in.Role != nil {
		if *in.Role != domain.RoleUser && *in.Role != domain.RoleAdmin {
			return domain.User{}, Validationf("role must be USER or ADMIN")
		}
		target.Role = *in.Role
	}
	if in.IsActive != nil {
		target.IsActive = *in.IsActive
	}
	updated, err := a.store.UpdateUser(ctx, target)
	if err != nil {
		return domain.User{}, Internal(err)
	}
	a.log.Info("admin updated user", "admin_id", actor.ID, "user_id", targetID,
		"role", updated.Role, "is_active", updated.IsActive)
	return updated, nil
}

// AdminDeleteUser removes an account and everything it owns, rolling the
// engagement counters back in the same transaction.
func (a *App) AdminDeleteUser(ctx context.Context, actor domain.User, targetID int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	target, err := a.store.GetUserByID(ctx, targetID)
	if errors.Is(err, store.ErrNotFound) {
		return NotFoundf("user not found")
	}
	if err != nil {
		return Internal(err)
	}
	if err := checkAdminTarget(actor, target); err != nil {
		return err
	}
	if err := a.store.DeleteUserCascade(ctx, targetID); err != nil {
		return Internal(err)
	}
	a.log.Info("admin deleted user", "admin_id", actor.ID, "user_id", targetID)
	return nil
}

// ApproveReview makes a review visible and count toward the aggregates again.
func (a *App) ApproveReview(ctx context.Context, actor domain.User, reviewID int64) (domain.Review, error) {
	return a.setReviewApproval(ctx, actor, reviewID, true, "")
}

// RejectReview hides a review. The text is preserved so the decision can be
// reversed; the reason only goes to the audit log.
func (a *App) RejectReview(ctx context.Context, actor domain.User, reviewID int64, reason string) (domain.Review, error) {
	return a.setReviewApproval(ctx, actor, reviewID, false, reason)
}

func (a *App) setReviewApproval(ctx context.Context, actor domain.User, reviewID int64, approved bool, reason string) (domain.Review, error) {
	if err := requireAdmin(actor); err != nil {
		return domain.Review{}, err
	}
	updated, err := a.store.UpdateReview(ctx, reviewID, store.ReviewUpdate{IsApproved: &approved})
	if errors.Is(err, store.ErrNotFound) {
		return domain.Review{}, NotFoundf("review not found")
	}
	if err != nil {
		return domain.Review{}, Internal(err)
	}
	args := []any{"admin_id", actor.ID, "review_id", reviewID, "approved", approved}
	if reason != "" {
		args = append(args, "reason", reason)
	}
	a.log.Info("review moderated", args...)
	return updated, nil
}

// Stats is the admin dashboard payload.
type Stats struct {
	Movies        int                   `json:"movies"`
	Users         int                   `json:"users"`
	Reviews       int                   `json:"reviews"`
	Actors        int                   `json:"actors"`
	Directors     int                   `json:"directors"`
	Genres        int                   `json:"genres"`
	MostPopular   *domain.Movie         `json:"most_popular_movie,omitempty"`
	UsersByRole   []domain.RoleCount    `json:"users_by_role"`
	TopReviewers  []domain.ReviewerStat `json:"top_reviewers"`
	RecentReviews []domain.Review       `json:"recent_reviews"`
	GeneratedAt   time.Time             `json:"generated_at"`
}

const statsCacheKey = "cinelog:admin:stats"

// AdminStats gathers the dashboard counts concurrently and caches the result
// in Redis for a short TTL when a cache client is configured.
func (a *App) AdminStats(ctx context.Context, actor domain.User) (Stats, error) {
	if err := requireAdmin(actor); err != nil {
		return Stats{}, err
	}
	if a.cache != nil {
		if raw, err := a.cache.Get(ctx, statsCacheKey).Bytes(); err == nil {
			var cached Stats
			if json.Unmarshal(raw, &cached) == nil {
				return cached, nil
			}
		}
	}

	var stats Stats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { stats.Movies, err = a.store.CountMovies(gctx); return })
	g.Go(func() (err error) { stats.Users, err = a.store.CountUsers(gctx); return })
	g.Go(func() (err error) { stats.Reviews, err = a.store.CountApprovedReviews(gctx); return })
	g.Go(func() (err error) { stats.Actors, err = a.store.CountActors(gctx); return })
	g.Go(func() (err error) { stats.Directors, err = a.store.CountDirectors(gctx); return })
	g.Go(func() (err error) { stats.Genres, err = a.store.CountGenres(gctx); return })
	g.Go(func() error {
		movie, err := a.store.MostPopularMovie(gctx)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		stats.MostPopular = &movie
		return nil
	})
	g.Go(func() (err error) { stats.UsersByRole, err = a.store.UsersByRole(gctx); return })
	g.Go(func() (err error) { stats.TopReviewers, err = a.store.TopReviewers(gctx, 5); return })
	g.Go(func() (err error) { stats.RecentReviews, err = a.store.LatestReviews(gctx, 5); return })
	if err := g.Wait(); err != nil {
		return Stats{}, Internal(err)
	}
	stats.GeneratedAt = time.Now().UTC()

	if a.cache != nil {
		if raw, err := json.Marshal(stats); err == nil {
			// cache failures only cost the next caller a recompute
			_ = a.cache.Set(ctx, statsCacheKey, raw, a.cfg.StatsCacheTTL).Err()
		}
	}
	return stats, nil
}

// Upload is the result of an image upload.
type Upload struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// UploadImage stores an image under a kind prefix and returns its key plus a
// presigned URL. Extension allow-list and size cap come from config.
func (a *App) UploadImage(ctx context.Context, actor domain.User, kind, filename, contentType string, r io.Reader, size int64) (Upload, error) {
	if a.objects == nil {
		return Upload{}, Internal(errors.New("object storage is not configured"))
	}
	if size <= 0 || size > a.cfg.MaxUploadBytes {
		return Upload{}, Validationf("file size must be between 1 byte and %d bytes", a.cfg.MaxUploadBytes)
	}
	ext := strings.ToLower(path.Ext(filename))
	allowed := false
	for _, e := range a.cfg.ImageExtensions {
		if e == ext {
			allowed = true
			break
		}
	}
	if !allowed {
		return Upload{}, Validationf("file extension %q is not allowed", ext)
	}
	key := storage.ImageKey(kind, filename)
	if err := a.objects.Put(ctx, key, r, size, contentType); err != nil {
		return Upload{}, Internal(err)
	}
	url, err := a.objects.PresignGet(ctx, key, a.cfg.PresignTTL)
	if err != nil {
		return Upload{}, Internal(err)
	}
	a.log.Info("image uploaded", "user_id", actor.ID, "kind", kind, "key", key, "size", size)
	return Upload{Key: key, URL: url}, nil
}

// UploadAvatar stores the image and points the caller's profile at it.
func (a *App) UploadAvatar(ctx context.Context, actor domain.User, filename, contentType string, r io.Reader, size int64) (domain.User, error) {
	upload, err := a.UploadImage(ctx, actor, "avatar", filename, contentType, r, size)
	if err != nil {
		return domain.User{}, err
	}
	actor.AvatarURL = upload.URL
	updated, err := a.store.UpdateUser(ctx, actor)
	if err != nil {
		return domain.User{}, Internal(err)
	}
	return updated, nil
}
