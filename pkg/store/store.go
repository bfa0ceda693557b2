package store

import (
	"context"
	"errors"

	"cinelog/pkg/domain"
)

var (
	// ErrNotFound is returned when a referenced row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("duplicate record")
)

// MovieQuery filters and paginates movie listings.
type MovieQuery struct {
	Search    string
	Genre     string // genre slug or name
	YearFrom  *int
	YearTo    *int
	MinRating *float64
	SortBy    string // rating (default), title, year_asc, year_desc
	Page      int
	Limit     int
}

// PersonQuery filters and paginates actor/director listings.
type PersonQuery struct {
	Search  string
	Country string
	SortBy  string // name_asc (default), name_desc, birth_date_asc, birth_date_desc
	Page    int
	Limit   int
}

// UserQuery filters and paginates the admin user listing.
type UserQuery struct {
	Search string // matches username or email substring
	Page   int
	Limit  int
}

// ReviewUpdate carries the updatable review fields; nil means unchanged.
type ReviewUpdate struct {
	Rating     *int
	Title      *string
	ReviewText *string
	IsApproved *bool
}

// ActorCredit references an actor for a movie credit, by id or by name
// (find-or-create on exact full_name match).
type ActorCredit struct {
	ActorID       int64
	FullName      string
	RoleName      string
	CharacterName string
	Ord           int
}

// MovieChange bundles a movie write with its association rewrites so the
// whole change commits in one transaction. GenreNames take precedence over
// GenreIDs and are resolved find-or-create with an auto-derived slug.
// Credits replace the full association set when SetCredits is true.
type MovieChange struct {
	Movie        domain.Movie
	DirectorName string
	SetGenres    bool
	GenreIDs     []int64
	GenreNames   []string
	SetCredits   bool
	Credits      []ActorCredit
}

// Store defines persistence for the catalog, engagement, and user data.
//
// Every multi-statement mutation (review writes, likes, cascading user
// deletion) commits atomically; the denormalized counters on movies and
// reviews are maintained inside those same transactions.
type Store interface {
	// users
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)
	GetUserByID(ctx context.Context, id int64) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	UpdateUser(ctx context.Context, u domain.User) (domain.User, error)
	SetLastLogin(ctx context.Context, id int64) error
	ListUsers(ctx context.Context, q UserQuery) ([]domain.User, int, error)
	DeleteUserCascade(ctx context.Context, id int64) error
	CountUsers(ctx context.Context) (int, error)
	UsersByRole(ctx context.Context) ([]domain.RoleCount, error)

	// movies
	CreateMovie(ctx context.Context, mc MovieChange) (domain.Movie, error)
	UpdateMovie(ctx context.Context, mc MovieChange) (domain.Movie, error)
	DeleteMovie(ctx context.Context, id int64) error
	GetMovie(ctx context.Context, id int64) (domain.Movie, error)
	GetMovieBySlug(ctx context.Context, slug string) (domain.Movie, error)
	ListMovies(ctx context.Context, q MovieQuery) ([]domain.Movie, int, error)
	PopularMovies(ctx context.Context, limit int) ([]domain.Movie, error)
	CountMovies(ctx context.Context) (int, error)
	MostPopularMovie(ctx context.Context) (domain.Movie, error)

	// genres
	ListGenres(ctx context.Context) ([]domain.Genre, error)
	GetGenre(ctx context.Context, id int64) (domain.Genre, error)
	CreateGenre(ctx context.Context, g domain.Genre) (domain.Genre, error)
	UpdateGenre(ctx context.Context, g domain.Genre) (domain.Genre, error)
	DeleteGenre(ctx context.Context, id int64) error
	CountGenres(ctx context.Context) (int, error)

	// actors
	ListActors(ctx context.Context, q PersonQuery) ([]domain.Actor, int, error)
	GetActor(ctx context.Context, id int64) (domain.Actor, error)
	ActorMovies(ctx context.Context, id int64) ([]domain.Movie, error)
	CreateActor(ctx context.Context, a domain.Actor) (domain.Actor, error)
	UpdateActor(ctx context.Context, a domain.Actor) (domain.Actor, error)
	DeleteActor(ctx context.Context, id int64) error
	CountActors(ctx context.Context) (int, error)

	// directors
	ListDirectors(ctx context.Context, q PersonQuery) ([]domain.Director, int, error)
	GetDirector(ctx context.Context, id int64) (domain.Director, error)
	DirectorMovies(ctx context.Context, id int64) ([]domain.Movie, error)
	CreateDirector(ctx context.Context, d domain.Director) (domain.Director, error)
	UpdateDirector(ctx context.Context, d domain.Director) (domain.Director, error)
	DeleteDirector(ctx context.Context, id int64) error
	CountDirectors(ctx context.Context) (int, error)

	// reviews
	CreateReview(ctx context.Context, r domain.Review) (domain.Review, error)
	GetReview(ctx context.Context, id int64) (domain.Review, error)
	UpdateReview(ctx context.Context, id int64, upd ReviewUpdate) (domain.Review, error)
	DeleteReview(ctx context.Context, id int64) error
	ListMovieReviews(ctx context.Context, movieID int64, viewerID *int64, page, limit int) ([]domain.Review, int, error)
	ListUserReviews(ctx context.Context, userID int64, page, limit int) ([]domain.Review, int, error)
	LatestReviews(ctx context.Context, limit int) ([]domain.Review, error)
	CountApprovedReviews(ctx context.Context) (int, error)
	TopReviewers(ctx context.Context, limit int) ([]domain.ReviewerStat, error)

	// review likes
	LikeReview(ctx context.Context, reviewID, userID int64) (domain.Review, error)
	UnlikeReview(ctx context.Context, reviewID, userID int64) (domain.Review, error)
	ListReviewLikes(ctx context.Context, reviewID int64) ([]domain.ReviewLike, error)

	// movie likes
	LikeMovie(ctx context.Context, movieID, userID int64) error
	UnlikeMovie(ctx context.Context, movieID, userID int64) error

	// bookmarks
	CreateBookmark(ctx context.Context, b domain.Bookmark) (domain.Bookmark, error)
	ListBookmarks(ctx context.Context, userID int64, folder string) ([]domain.Bookmark, error)
	UpdateBookmark(ctx context.Context, id, userID int64, folder, notes *string) (domain.Bookmark, error)
	DeleteBookmark(ctx context.Context, id, userID int64) error
	BookmarkFolders(ctx context.Context, userID int64) ([]domain.FolderCount, error)
}
