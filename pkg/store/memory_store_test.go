package store

import (
	"context"
	"errors"
	"math"
	"testing"

	"cinelog/pkg/domain"
)

func seedUser(t *testing.T, s Store, username string) domain.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         domain.RoleUser,
		IsActive:     true,
	})
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func seedMovie(t *testing.T, s Store, title, slug string) domain.Movie {
	t.Helper()
	m, err := s.CreateMovie(context.Background(), MovieChange{
		Movie: domain.Movie{Title: title, Slug: slug},
	})
	if err != nil {
		t.Fatalf("create movie %s: %v", title, err)
	}
	return m
}

func seedReview(t *testing.T, s Store, userID, movieID int64, rating int) domain.Review {
	t.Helper()
	r, err := s.CreateReview(context.Background(), domain.Review{
		UserID:     userID,
		MovieID:    movieID,
		Rating:     rating,
		IsApproved: true,
	})
	if err != nil {
		t.Fatalf("create review: %v", err)
	}
	return r
}

func TestCreateUserDuplicate(t *testing.T) {
	s := NewMemoryStore()
	seedUser(t, s, "alice")
	_, err := s.CreateUser(context.Background(), domain.User{
		Username: "alice", Email: "other@example.com",
	})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("want ErrDuplicate for username, got %v", err)
	}
	_, err = s.CreateUser(context.Background(), domain.User{
		Username: "bob", Email: "alice@example.com",
	})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("want ErrDuplicate for email, got %v", err)
	}
}

func TestReviewAggregates(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")
	movie := seedMovie(t, s, "Heat", "heat")

	seedReview(t, s, alice.ID, movie.ID, 8)
	seedReview(t, s, bob.ID, movie.ID, 6)

	got, err := s.GetMovie(ctx, movie.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.RatingCount != 2 {
		t.Fatalf("rating_count = %d, want 2", got.RatingCount)
	}
	if math.Abs(got.AvgRating-7.0) > 1e-9 {
		t.Fatalf("avg_rating = %v, want 7.0", got.AvgRating)
	}
}

func TestReviewAggregatesExcludePending(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")
	movie := seedMovie(t, s, "Heat", "heat")

	approved := seedReview(t, s, alice.ID, movie.ID, 8)
	if _, err := s.CreateReview(ctx, domain.Review{
		UserID: bob.ID, MovieID: movie.ID, Rating: 2, IsApproved: false,
	}); err != nil {
		t.Fatal(err)
	}

	got, _ := s.GetMovie(ctx, movie.ID)
	if got.RatingCount != 1 || got.AvgRating != 8 {
		t.Fatalf("pending review leaked into aggregates: count=%d avg=%v", got.RatingCount, got.AvgRating)
	}

	// rejecting the approved review empties the aggregates
	no := false
	if _, err := s.UpdateReview(ctx, approved.ID, ReviewUpdate{IsApproved: &no}); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetMovie(ctx, movie.ID)
	if got.RatingCount != 0 || got.AvgRating != 0 {
		t.Fatalf("after reject: count=%d avg=%v, want 0/0", got.RatingCount, got.AvgRating)
	}
}

func TestReviewDuplicatePerMovie(t *testing.T) {
	s := NewMemoryStore()
	alice := seedUser(t, s, "alice")
	movie := seedMovie(t, s, "Heat", "heat")
	seedReview(t, s, alice.ID, movie.ID, 8)
	_, err := s.CreateReview(context.Background(), domain.Review{
		UserID: alice.ID, MovieID: movie.ID, Rating: 5, IsApproved: true,
	})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}
}

func TestDeleteReviewRecomputes(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")
	movie := seedMovie(t, s, "Heat", "heat")
	r := seedReview(t, s, alice.ID, movie.ID, 10)
	seedReview(t, s, bob.ID, movie.ID, 4)

	if err := s.DeleteReview(ctx, r.ID); err != nil {
		t.Fatal(err)
	}
	got, _ := s.GetMovie(ctx, movie.ID)
	if got.RatingCount != 1 || got.AvgRating != 4 {
		t.Fatalf("after delete: count=%d avg=%v, want 1/4", got.RatingCount, got.AvgRating)
	}
}

func TestReviewLikeStrict(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")
	movie := seedMovie(t, s, "Heat", "heat")
	r := seedReview(t, s, alice.ID, movie.ID, 8)

	liked, err := s.LikeReview(ctx, r.ID, bob.ID)
	if err != nil {
		t.Fatal(err)
	}
	if liked.LikesCount != 1 {
		t.Fatalf("likes_count = %d, want 1", liked.LikesCount)
	}
	if _, err := s.LikeReview(ctx, r.ID, bob.ID); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("second like: want ErrDuplicate, got %v", err)
	}

	unliked, err := s.UnlikeReview(ctx, r.ID, bob.ID)
	if err != nil {
		t.Fatal(err)
	}
	if unliked.LikesCount != 0 {
		t.Fatalf("likes_count after unlike = %d, want 0", unliked.LikesCount)
	}
	if _, err := s.UnlikeReview(ctx, r.ID, bob.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second unlike: want ErrNotFound, got %v", err)
	}
}

func TestMovieLikeIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	alice := seedUser(t, s, "alice")
	movie := seedMovie(t, s, "Heat", "heat")

	for i := 0; i < 3; i++ {
		if err := s.LikeMovie(ctx, movie.ID, alice.ID); err != nil {
			t.Fatalf("like %d: %v", i, err)
		}
	}
	got, _ := s.GetMovie(ctx, movie.ID)
	if got.LikesCount != 1 {
		t.Fatalf("likes_count = %d, want 1 after repeated likes", got.LikesCount)
	}

	for i := 0; i < 3; i++ {
		if err := s.UnlikeMovie(ctx, movie.ID, alice.ID); err != nil {
			t.Fatalf("unlike %d: %v", i, err)
		}
	}
	got, _ = s.GetMovie(ctx, movie.ID)
	if got.LikesCount != 0 {
		t.Fatalf("likes_count = %d, want 0 after repeated unlikes", got.LikesCount)
	}
}

func TestDeleteUserCascade(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")
	movie := seedMovie(t, s, "Heat", "heat")

	bobReview := seedReview(t, s, bob.ID, movie.ID, 6)
	seedReview(t, s, alice.ID, movie.ID, 10)

	// alice likes bob's review and the movie
	if _, err := s.LikeReview(ctx, bobReview.ID, alice.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.LikeMovie(ctx, movie.ID, alice.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateBookmark(ctx, domain.Bookmark{
		UserID: alice.ID, MovieID: movie.ID, Folder: "default",
	}); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteUserCascade(ctx, alice.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := s.GetUserByID(ctx, alice.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("user still present: %v", err)
	}
	got, _ := s.GetMovie(ctx, movie.ID)
	if got.LikesCount != 0 {
		t.Fatalf("movie likes_count = %d, want 0", got.LikesCount)
	}
	if got.RatingCount != 1 || got.AvgRating != 6 {
		t.Fatalf("aggregates = %d/%v, want 1/6 (only bob's review left)", got.RatingCount, got.AvgRating)
	}
	remaining, _ := s.GetReview(ctx, bobReview.ID)
	if remaining.LikesCount != 0 {
		t.Fatalf("bob's review likes_count = %d, want 0", remaining.LikesCount)
	}
	bookmarks, _ := s.ListBookmarks(ctx, alice.ID, "")
	if len(bookmarks) != 0 {
		t.Fatalf("bookmarks remain: %d", len(bookmarks))
	}
}

func TestPendingReviewVisibility(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	alice := seedUser(t, s, "alice")
	movie := seedMovie(t, s, "Heat", "heat")
	if _, err := s.CreateReview(ctx, domain.Review{
		UserID: alice.ID, MovieID: movie.ID, Rating: 7, IsApproved: false,
	}); err != nil {
		t.Fatal(err)
	}

	anon, total, err := s.ListMovieReviews(ctx, movie.ID, nil, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(anon) != 0 || total != 0 {
		t.Fatalf("anonymous viewer sees pending review")
	}

	own, total, err := s.ListMovieReviews(ctx, movie.ID, &alice.ID, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(own) != 1 || total != 1 {
		t.Fatalf("author cannot see own pending review")
	}
}

func TestBookmarkFolders(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	alice := seedUser(t, s, "alice")
	heat := seedMovie(t, s, "Heat", "heat")
	ronin := seedMovie(t, s, "Ronin", "ronin")

	if _, err := s.CreateBookmark(ctx, domain.Bookmark{UserID: alice.ID, MovieID: heat.ID, Folder: "default"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateBookmark(ctx, domain.Bookmark{UserID: alice.ID, MovieID: ronin.ID, Folder: "watchlist"}); err != nil {
		t.Fatal(err)
	}
	// same movie in the same folder twice is rejected
	if _, err := s.CreateBookmark(ctx, domain.Bookmark{UserID: alice.ID, MovieID: heat.ID, Folder: "default"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}
	// same movie in another folder is fine
	if _, err := s.CreateBookmark(ctx, domain.Bookmark{UserID: alice.ID, MovieID: heat.ID, Folder: "watchlist"}); err != nil {
		t.Fatal(err)
	}

	folders, err := s.BookmarkFolders(ctx, alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(folders) != 2 {
		t.Fatalf("folders = %v, want 2 entries", folders)
	}
	if folders[0].Folder != "default" || folders[0].Count != 1 {
		t.Fatalf("default folder = %+v", folders[0])
	}
	if folders[1].Folder != "watchlist" || folders[1].Count != 2 {
		t.Fatalf("watchlist folder = %+v", folders[1])
	}
}

func TestMovieChangeAssociations(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	m, err := s.CreateMovie(ctx, MovieChange{
		Movie:        domain.Movie{Title: "Heat", Slug: "heat"},
		DirectorName: "Michael Mann",
		SetGenres:    true,
		GenreNames:   []string{"Crime", "Thriller"},
		SetCredits: true,
		Credits: []ActorCredit{
			{FullName: "Al Pacino", CharacterName: "Vincent Hanna", Ord: 1},
			{FullName: "Robert De Niro", CharacterName: "Neil McCauley", Ord: 2},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if m.Director == nil || m.Director.FullName != "Michael Mann" {
		t.Fatalf("director not resolved: %+v", m.Director)
	}
	if len(m.Genres) != 2 {
		t.Fatalf("genres = %+v, want 2", m.Genres)
	}
	if len(m.Credits) != 2 || m.Credits[0].Actor.FullName != "Al Pacino" {
		t.Fatalf("credits = %+v", m.Credits)
	}

	// replacing the genre set drops the old edges
	upd, err := s.UpdateMovie(ctx, MovieChange{
		Movie:      domain.Movie{ID: m.ID, Title: "Heat", Slug: "heat"},
		SetGenres:  true,
		GenreNames: []string{"Crime"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(upd.Genres) != 1 || upd.Genres[0].Name != "Crime" {
		t.Fatalf("genres after update = %+v", upd.Genres)
	}
	// credits untouched when SetCredits is false
	if len(upd.Credits) != 2 {
		t.Fatalf("credits after genre-only update = %+v", upd.Credits)
	}
}

func TestMovieSlugConflict(t *testing.T) {
	s := NewMemoryStore()
	seedMovie(t, s, "Heat", "heat")
	_, err := s.CreateMovie(context.Background(), MovieChange{
		Movie: domain.Movie{Title: "Heat Remake", Slug: "heat"},
	})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}
}

func TestListMoviesFilters(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	y1995, y2010 := 1995, 2010
	if _, err := s.CreateMovie(ctx, MovieChange{
		Movie:      domain.Movie{Title: "Heat", Slug: "heat", ReleaseYear: &y1995},
		SetGenres:  true,
		GenreNames: []string{"Crime"},
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateMovie(ctx, MovieChange{
		Movie:      domain.Movie{Title: "Inception", Slug: "inception", ReleaseYear: &y2010},
		SetGenres:  true,
		GenreNames: []string{"Sci-Fi"},
	}); err != nil {
		t.Fatal(err)
	}

	byGenre, total, err := s.ListMovies(ctx, MovieQuery{Genre: "crime", Page: 1, Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || len(byGenre) != 1 || byGenre[0].Title != "Heat" {
		t.Fatalf("genre filter: total=%d movies=%+v", total, byGenre)
	}

	from := 2000
	byYear, total, err := s.ListMovies(ctx, MovieQuery{YearFrom: &from, Page: 1, Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || byYear[0].Title != "Inception" {
		t.Fatalf("year filter: total=%d movies=%+v", total, byYear)
	}

	bySearch, _, err := s.ListMovies(ctx, MovieQuery{Search: "incep", Page: 1, Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(bySearch) != 1 || bySearch[0].Title != "Inception" {
		t.Fatalf("search filter: %+v", bySearch)
	}
}
