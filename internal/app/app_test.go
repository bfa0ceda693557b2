package app

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"cinelog/pkg/auth"
	"cinelog/pkg/domain"
	"cinelog/pkg/store"
)

func newTestApp(t *testing.T) (*App, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	a, err := New(st, tokens, nil, nil, slog.Default(), Config{})
	if err != nil {
		t.Fatal(err)
	}
	return a, st
}

func register(t *testing.T, a *App, username string) domain.User {
	t.Helper()
	sess, err := a.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "password1",
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return sess.User
}

func makeAdmin(t *testing.T, st *store.MemoryStore, u domain.User) domain.User {
	t.Helper()
	u.Role = domain.RoleAdmin
	updated, err := st.UpdateUser(context.Background(), u)
	if err != nil {
		t.Fatal(err)
	}
	return updated
}

func addMovie(t *testing.T, a *App, admin domain.User, title string) domain.Movie {
	t.Helper()
	m, err := a.CreateMovie(context.Background(), admin, MovieInput{Title: title})
	if err != nil {
		t.Fatalf("create movie %s: %v", title, err)
	}
	return m
}

func TestRegisterValidation(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()
	cases := []struct {
		name string
		in   RegisterInput
	}{
		{"short username", RegisterInput{Username: "ab", Email: "a@b.c", Password: "password1"}},
		{"bad email", RegisterInput{Username: "alice", Email: "nope", Password: "password1"}},
		{"short password", RegisterInput{Username: "alice", Email: "a@b.c", Password: "123"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := a.Register(ctx, tc.in)
			if KindOf(err) != KindValidation {
				t.Fatalf("want validation error, got %v", err)
			}
		})
	}
}

func TestRegisterDuplicateConflict(t *testing.T) {
	a, _ := newTestApp(t)
	register(t, a, "alice")
	_, err := a.Register(context.Background(), RegisterInput{
		Username: "alice", Email: "other@example.com", Password: "password1",
	})
	if KindOf(err) != KindConflict {
		t.Fatalf("want conflict, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	a, st := newTestApp(t)
	ctx := context.Background()
	user := register(t, a, "alice")

	sess, err := a.Login(ctx, LoginInput{Email: "alice@example.com", Password: "password1"})
	if err != nil {
		t.Fatal(err)
	}
	if sess.Token == "" || sess.User.ID != user.ID {
		t.Fatalf("bad session: %+v", sess)
	}
	me, _ := st.GetUserByID(ctx, user.ID)
	if me.LastLogin == nil {
		t.Fatal("last_login not set")
	}

	if _, err := a.Login(ctx, LoginInput{Email: "alice@example.com", Password: "wrong"}); KindOf(err) != KindUnauthenticated {
		t.Fatalf("wrong password: want unauthenticated, got %v", err)
	}
	if _, err := a.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "password1"}); KindOf(err) != KindUnauthenticated {
		t.Fatalf("unknown email: want unauthenticated, got %v", err)
	}

	// deactivated accounts are rejected even with the right password
	me.IsActive = false
	if _, err := st.UpdateUser(ctx, me); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Login(ctx, LoginInput{Email: "alice@example.com", Password: "password1"}); KindOf(err) != KindForbidden {
		t.Fatalf("deactivated login: want forbidden, got %v", err)
	}
}

func TestAuthenticateLiveUserCheck(t *testing.T) {
	a, st := newTestApp(t)
	ctx := context.Background()
	user := register(t, a, "alice")
	sess, err := a.Login(ctx, LoginInput{Email: "alice@example.com", Password: "password1"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := a.Authenticate(ctx, sess.Token); err != nil {
		t.Fatalf("valid token rejected: %v", err)
	}
	if _, err := a.Authenticate(ctx, "garbage"); KindOf(err) != KindUnauthenticated {
		t.Fatalf("garbage token: want unauthenticated, got %v", err)
	}

	// deactivation takes effect before token expiry, and the stale
	// credential is rejected as unauthenticated, not forbidden
	user.IsActive = false
	if _, err := st.UpdateUser(ctx, user); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Authenticate(ctx, sess.Token); KindOf(err) != KindUnauthenticated {
		t.Fatalf("deactivated: want unauthenticated, got %v", err)
	}

	// deleted accounts fail closed
	if err := st.DeleteUserCascade(ctx, user.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Authenticate(ctx, sess.Token); KindOf(err) != KindUnauthenticated {
		t.Fatalf("deleted: want unauthenticated, got %v", err)
	}
}

func TestReviewOwnership(t *testing.T) {
	a, st := newTestApp(t)
	ctx := context.Background()
	alice := register(t, a, "alice")
	bob := register(t, a, "bob")
	admin := makeAdmin(t, st, register(t, a, "root"))
	movie := addMovie(t, a, admin, "Heat")

	review, err := a.CreateReview(ctx, alice, movie.ID, ReviewInput{Rating: 8, ReviewText: "sharp"})
	if err != nil {
		t.Fatal(err)
	}

	newRating := 9
	if _, err := a.UpdateReview(ctx, bob, review.ID, ReviewUpdateInput{Rating: &newRating}); KindOf(err) != KindForbidden {
		t.Fatalf("stranger edit: want forbidden, got %v", err)
	}
	if err := a.DeleteReview(ctx, bob, review.ID); KindOf(err) != KindForbidden {
		t.Fatalf("stranger delete: want forbidden, got %v", err)
	}
	if _, err := a.UpdateReview(ctx, alice, review.ID, ReviewUpdateInput{Rating: &newRating}); err != nil {
		t.Fatalf("owner edit rejected: %v", err)
	}
	if err := a.DeleteReview(ctx, admin, review.ID); err != nil {
		t.Fatalf("admin delete rejected: %v", err)
	}
}

func TestReviewRatingBounds(t *testing.T) {
	a, st := newTestApp(t)
	ctx := context.Background()
	alice := register(t, a, "alice")
	admin := makeAdmin(t, st, register(t, a, "root"))
	movie := addMovie(t, a, admin, "Heat")

	for _, rating := range []int{0, 11, -3} {
		if _, err := a.CreateReview(ctx, alice, movie.ID, ReviewInput{Rating: rating}); KindOf(err) != KindValidation {
			t.Fatalf("rating %d: want validation, got %v", rating, err)
		}
	}
}

func TestSelfLikeForbidden(t *testing.T) {
	a, st := newTestApp(t)
	ctx := context.Background()
	alice := register(t, a, "alice")
	bob := register(t, a, "bob")
	admin := makeAdmin(t, st, register(t, a, "root"))
	movie := addMovie(t, a, admin, "Heat")
	review, err := a.CreateReview(ctx, alice, movie.ID, ReviewInput{Rating: 8})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := a.LikeReview(ctx, alice, review.ID); KindOf(err) != KindForbidden {
		t.Fatalf("self-like: want forbidden, got %v", err)
	}
	if _, err := a.LikeReview(ctx, bob, review.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := a.LikeReview(ctx, bob, review.ID); KindOf(err) != KindConflict {
		t.Fatalf("double like: want conflict, got %v", err)
	}
	if _, err := a.UnlikeReview(ctx, bob, review.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := a.UnlikeReview(ctx, bob, review.ID); KindOf(err) != KindNotFound {
		t.Fatalf("double unlike: want not found, got %v", err)
	} else if MessageOf(err) != "like not found" {
		t.Fatalf("double unlike message = %q", MessageOf(err))
	}

	// unliking on a review that does not exist names the review, not the like
	if _, err := a.UnlikeReview(ctx, bob, 99999); KindOf(err) != KindNotFound {
		t.Fatalf("missing review: want not found, got %v", err)
	} else if MessageOf(err) != "review not found" {
		t.Fatalf("missing review message = %q", MessageOf(err))
	}
}

func TestMovieLikeIdempotentThroughApp(t *testing.T) {
	a, st := newTestApp(t)
	ctx := context.Background()
	alice := register(t, a, "alice")
	admin := makeAdmin(t, st, register(t, a, "root"))
	movie := addMovie(t, a, admin, "Heat")

	for i := 0; i < 2; i++ {
		m, err := a.LikeMovie(ctx, alice, movie.ID)
		if err != nil {
			t.Fatal(err)
		}
		if m.LikesCount != 1 {
			t.Fatalf("likes_count = %d, want 1", m.LikesCount)
		}
	}
	for i := 0; i < 2; i++ {
		m, err := a.UnlikeMovie(ctx, alice, movie.ID)
		if err != nil {
			t.Fatal(err)
		}
		if m.LikesCount != 0 {
			t.Fatalf("likes_count = %d, want 0", m.LikesCount)
		}
	}
}

func TestAdminSelfProtection(t *testing.T) {
	a, st := newTestApp(t)
	ctx := context.Background()
	admin := makeAdmin(t, st, register(t, a, "root"))
	other := makeAdmin(t, st, register(t, a, "root2"))
	user := register(t, a, "alice")

	inactive := false
	// not an admin at all
	if _, err := a.AdminUpdateUser(ctx, user, admin.ID, AdminUserUpdate{IsActive: &inactive}); KindOf(err) != KindForbidden {
		t.Fatalf("non-admin: want forbidden, got %v", err)
	}
	// own account
	if _, err := a.AdminUpdateUser(ctx, admin, admin.ID, AdminUserUpdate{IsActive: &inactive}); KindOf(err) != KindForbidden {
		t.Fatalf("self: want forbidden, got %v", err)
	}
	// another admin
	if _, err := a.AdminUpdateUser(ctx, admin, other.ID, AdminUserUpdate{IsActive: &inactive}); KindOf(err) != KindForbidden {
		t.Fatalf("other admin: want forbidden, got %v", err)
	}
	if err := a.AdminDeleteUser(ctx, admin, other.ID); KindOf(err) != KindForbidden {
		t.Fatalf("delete other admin: want forbidden, got %v", err)
	}

	// a regular user can be moderated
	updated, err := a.AdminUpdateUser(ctx, admin, user.ID, AdminUserUpdate{IsActive: &inactive})
	if err != nil {
		t.Fatal(err)
	}
	if updated.IsActive {
		t.Fatal("user still active")
	}
	if err := a.AdminDeleteUser(ctx, admin, user.ID); err != nil {
		t.Fatal(err)
	}
}

func TestRejectReviewKeepsText(t *testing.T) {
	a, st := newTestApp(t)
	ctx := context.Background()
	alice := register(t, a, "alice")
	admin := makeAdmin(t, st, register(t, a, "root"))
	movie := addMovie(t, a, admin, "Heat")
	review, err := a.CreateReview(ctx, alice, movie.ID, ReviewInput{Rating: 8, ReviewText: "great pacing"})
	if err != nil {
		t.Fatal(err)
	}

	rejected, err := a.RejectReview(ctx, admin, review.ID, "flagged by report")
	if err != nil {
		t.Fatal(err)
	}
	if rejected.IsApproved {
		t.Fatal("review still approved")
	}
	if rejected.ReviewText != "great pacing" {
		t.Fatalf("text altered on reject: %q", rejected.ReviewText)
	}
	m, _ := a.GetMovie(ctx, movie.ID)
	if m.RatingCount != 0 {
		t.Fatalf("rejected review counted: rating_count=%d", m.RatingCount)
	}

	approved, err := a.ApproveReview(ctx, admin, review.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !approved.IsApproved {
		t.Fatal("review not re-approved")
	}
	m, _ = a.GetMovie(ctx, movie.ID)
	if m.RatingCount != 1 || m.AvgRating != 8 {
		t.Fatalf("aggregates after re-approve = %d/%v", m.RatingCount, m.AvgRating)
	}
}

func TestAdminStats(t *testing.T) {
	a, st := newTestApp(t)
	ctx := context.Background()
	alice := register(t, a, "alice")
	admin := makeAdmin(t, st, register(t, a, "root"))
	movie := addMovie(t, a, admin, "Heat")
	if _, err := a.CreateReview(ctx, alice, movie.ID, ReviewInput{Rating: 8}); err != nil {
		t.Fatal(err)
	}

	if _, err := a.AdminStats(ctx, alice); KindOf(err) != KindForbidden {
		t.Fatalf("non-admin stats: want forbidden, got %v", err)
	}
	stats, err := a.AdminStats(ctx, admin)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Movies != 1 || stats.Users != 2 || stats.Reviews != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats.MostPopular == nil || stats.MostPopular.ID != movie.ID {
		t.Fatalf("most popular = %+v", stats.MostPopular)
	}
	if len(stats.TopReviewers) != 1 || stats.TopReviewers[0].User.Username != "alice" {
		t.Fatalf("top reviewers = %+v", stats.TopReviewers)
	}
}

func TestCatalogAdminGate(t *testing.T) {
	a, _ := newTestApp(t)
	ctx := context.Background()
	user := register(t, a, "alice")

	if _, err := a.CreateMovie(ctx, user, MovieInput{Title: "Heat"}); KindOf(err) != KindForbidden {
		t.Fatalf("create movie as user: want forbidden, got %v", err)
	}
	if _, err := a.CreateGenre(ctx, user, GenreInput{Name: "Crime"}); KindOf(err) != KindForbidden {
		t.Fatalf("create genre as user: want forbidden, got %v", err)
	}
	if err := a.DeleteMovie(ctx, user, 1); KindOf(err) != KindForbidden {
		t.Fatalf("delete movie as user: want forbidden, got %v", err)
	}
}

func TestBookmarkOwnership(t *testing.T) {
	a, st := newTestApp(t)
	ctx := context.Background()
	alice := register(t, a, "alice")
	bob := register(t, a, "bob")
	admin := makeAdmin(t, st, register(t, a, "root"))
	movie := addMovie(t, a, admin, "Heat")

	b, err := a.AddBookmark(ctx, alice, BookmarkInput{MovieID: movie.ID})
	if err != nil {
		t.Fatal(err)
	}
	if b.Folder != "default" {
		t.Fatalf("folder = %q, want default", b.Folder)
	}
	// another user cannot see or touch it
	notes := "mine now"
	if _, err := a.UpdateBookmark(ctx, bob, b.ID, BookmarkUpdateInput{Notes: &notes}); KindOf(err) != KindNotFound {
		t.Fatalf("foreign update: want not found, got %v", err)
	}
	if err := a.RemoveBookmark(ctx, bob, b.ID); KindOf(err) != KindNotFound {
		t.Fatalf("foreign delete: want not found, got %v", err)
	}
	if err := a.RemoveBookmark(ctx, alice, b.ID); err != nil {
		t.Fatal(err)
	}
}
