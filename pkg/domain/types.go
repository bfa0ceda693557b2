package domain

import "time"

type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

type User struct {
	ID               int64      `json:"user_id"`
	Username         string     `json:"username"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"`
	AvatarURL        string     `json:"avatar_url,omitempty"`
	About            string     `json:"about,omitempty"`
	Role             UserRole   `json:"role"`
	IsActive         bool       `json:"is_active"`
	RegistrationDate time.Time  `json:"registration_date"`
	LastLogin        *time.Time `json:"last_login,omitempty"`
}

type Genre struct {
	ID          int64     `json:"genre_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Actor struct {
	ID          int64      `json:"actor_id"`
	FullName    string     `json:"full_name"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	DeathDate   *time.Time `json:"death_date,omitempty"`
	Country     string     `json:"country,omitempty"`
	Biography   string     `json:"biography,omitempty"`
	PhotoURL    string     `json:"photo_url,omitempty"`
	MoviesCount int        `json:"movies_count,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Director struct {
	ID          int64      `json:"director_id"`
	FullName    string     `json:"full_name"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	DeathDate   *time.Time `json:"death_date,omitempty"`
	Country     string     `json:"country,omitempty"`
	Biography   string     `json:"biography,omitempty"`
	PhotoURL    string     `json:"photo_url,omitempty"`
	MoviesCount int        `json:"movies_count,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Credit is one actor's appearance in a movie with the per-edge attributes.
type Credit struct {
	Actor         Actor  `json:"actor"`
	RoleName      string `json:"role_name,omitempty"`
	CharacterName string `json:"character_name,omitempty"`
	Ord           int    `json:"order"`
}

type Movie struct {
	ID            int64      `json:"movie_id"`
	Title         string     `json:"title"`
	OriginalTitle string     `json:"original_title,omitempty"`
	Slug          string     `json:"slug"`
	PosterURL     string     `json:"poster_url,omitempty"`
	BackdropURL   string     `json:"backdrop_url,omitempty"`
	Description   string     `json:"description,omitempty"`
	ReleaseDate   *time.Time `json:"release_date,omitempty"`
	ReleaseYear   *int       `json:"release_year,omitempty"`
	Country       string     `json:"country,omitempty"`
	Duration      *int       `json:"duration,omitempty"`
	Budget        *float64   `json:"budget,omitempty"`
	Revenue       *float64   `json:"revenue,omitempty"`
	DirectorID    *int64     `json:"director_id,omitempty"`
	AvgRating     float64    `json:"avg_rating"`
	RatingCount   int        `json:"rating_count"`
	LikesCount    int        `json:"likes_count"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Genres   []Genre   `json:"genres,omitempty"`
	Director *Director `json:"director,omitempty"`
	Credits  []Credit  `json:"actors,omitempty"`
	Reviews  []Review  `json:"reviews,omitempty"`
}

type Review struct {
	ID         int64     `json:"review_id"`
	UserID     int64     `json:"user_id"`
	MovieID    int64     `json:"movie_id"`
	Rating     int       `json:"rating"`
	Title      string    `json:"title,omitempty"`
	ReviewText string    `json:"review_text,omitempty"`
	LikesCount int       `json:"likes_count"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	User  *UserRef  `json:"user,omitempty"`
	Movie *MovieRef `json:"movie,omitempty"`
}

// UserRef is the slim user embedded in review and like listings.
type UserRef struct {
	ID        int64  `json:"user_id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// MovieRef is the slim movie embedded in review and bookmark listings.
type MovieRef struct {
	ID          int64   `json:"movie_id"`
	Title       string  `json:"title"`
	Slug        string  `json:"slug"`
	PosterURL   string  `json:"poster_url,omitempty"`
	ReleaseYear *int    `json:"release_year,omitempty"`
	AvgRating   float64 `json:"avg_rating"`
}

type Bookmark struct {
	ID        int64     `json:"bookmark_id"`
	UserID    int64     `json:"user_id"`
	MovieID   int64     `json:"movie_id"`
	Folder    string    `json:"folder"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	Movie *MovieRef `json:"movie,omitempty"`
}

// ReviewLike records who liked a review; the counter lives on the review row.
type ReviewLike struct {
	ReviewID  int64     `json:"review_id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	User *UserRef `json:"user,omitempty"`
}

// FolderCount is one bookmark folder with its size.
type FolderCount struct {
	Folder string `json:"folder"`
	Count  int    `json:"count"`
}

// RoleCount is the number of users holding a role.
type RoleCount struct {
	Role  UserRole `json:"role"`
	Count int      `json:"count"`
}

// ReviewerStat aggregates a user's review activity.
type ReviewerStat struct {
	User        UserRef `json:"user"`
	ReviewCount int     `json:"review_count"`
	AvgRating   float64 `json:"avg_rating"`
}
