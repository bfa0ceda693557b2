package store

import (
	"time"

	"gorm.io/datatypes"
)

// GORM models used for persistence.
type UserModel struct {
	ID               int64  `gorm:"column:user_id;primaryKey;autoIncrement"`
	Username         string `gorm:"size:50;uniqueIndex;not null"`
	Email            string `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash     string `gorm:"size:255;not null"`
	AvatarURL        string `gorm:"column:avatar_url;size:500"`
	About            string `gorm:"type:text"`
	Role             string `gorm:"size:10;not null;default:USER;index"`
	IsActive         bool   `gorm:"not null;default:true"`
	RegistrationDate time.Time `gorm:"not null;autoCreateTime"`
	LastLogin        *time.Time
}

func (UserModel) TableName() string { return "users" }

type MovieModel struct {
	ID            int64  `gorm:"column:movie_id;primaryKey;autoIncrement"`
	Title         string `gorm:"size:150;not null;index"`
	OriginalTitle string `gorm:"size:150"`
	Slug          string `gorm:"size:170;uniqueIndex;not null"`
	PosterURL     string `gorm:"column:poster_url;size:500"`
	BackdropURL   string `gorm:"column:backdrop_url;size:500"`
	Description   string `gorm:"type:text"`
	ReleaseDate   *datatypes.Date
	ReleaseYear   *int     `gorm:"index"`
	Country       string   `gorm:"size:100"`
	Duration      *int     `gorm:"type:smallint"`
	Budget        *float64 `gorm:"type:decimal(15,2)"`
	Revenue       *float64 `gorm:"type:decimal(15,2)"`
	DirectorID    *int64   `gorm:"index"`
	AvgRating     float64  `gorm:"type:decimal(4,2);not null;default:0;index"`
	RatingCount   int      `gorm:"not null;default:0"`
	LikesCount    int      `gorm:"not null;default:0"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"not null;autoUpdateTime"`

	Director *DirectorModel `gorm:"foreignKey:DirectorID;constraint:OnDelete:SET NULL"`
}

func (MovieModel) TableName() string { return "movies" }

type GenreModel struct {
	ID          int64  `gorm:"column:genre_id;primaryKey;autoIncrement"`
	Name        string `gorm:"size:50;uniqueIndex;not null"`
	Slug        string `gorm:"size:60;uniqueIndex;not null"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime"`
}

func (GenreModel) TableName() string { return "genres" }

type DirectorModel struct {
	ID        int64  `gorm:"column:director_id;primaryKey;autoIncrement"`
	FullName  string `gorm:"size:100;not null;index"`
	BirthDate *datatypes.Date
	DeathDate *datatypes.Date
	Country   string `gorm:"size:100;index"`
	Biography string `gorm:"type:text"`
	PhotoURL  string `gorm:"column:photo_url;size:500"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"`
}

func (DirectorModel) TableName() string { return "directors" }

type ActorModel struct {
	ID        int64  `gorm:"column:actor_id;primaryKey;autoIncrement"`
	FullName  string `gorm:"size:100;not null;index"`
	BirthDate *datatypes.Date
	DeathDate *datatypes.Date
	Country   string `gorm:"size:100;index"`
	Biography string `gorm:"type:text"`
	PhotoURL  string `gorm:"column:photo_url;size:500"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"`
}

func (ActorModel) TableName() string { return "actors" }

// ReviewModel enforces one review per (user, movie) with a unique index so
// concurrent submits surface as a constraint violation instead of racing a
// check-then-insert.
type ReviewModel struct {
	ID         int64  `gorm:"column:review_id;primaryKey;autoIncrement"`
	UserID     int64  `gorm:"not null;uniqueIndex:uq_reviews_user_movie;index"`
	MovieID    int64  `gorm:"not null;uniqueIndex:uq_reviews_user_movie;index"`
	Rating     int    `gorm:"not null;check:rating >= 1 AND rating <= 10"`
	Title      string `gorm:"size:200"`
	ReviewText string `gorm:"type:text"`
	LikesCount int    `gorm:"not null;default:0"`
	IsApproved bool   `gorm:"not null;default:true"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime;index"`
	UpdatedAt  time.Time `gorm:"not null;autoUpdateTime"`

	User  *UserModel  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Movie *MovieModel `gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE"`
}

func (ReviewModel) TableName() string { return "reviews" }

type ReviewLikeModel struct {
	ReviewID  int64     `gorm:"primaryKey;autoIncrement:false"`
	UserID    int64     `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`

	Review *ReviewModel `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE"`
	User   *UserModel   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (ReviewLikeModel) TableName() string { return "review_likes" }

type MovieLikeModel struct {
	MovieID   int64     `gorm:"primaryKey;autoIncrement:false"`
	UserID    int64     `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`

	Movie *MovieModel `gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE"`
	User  *UserModel  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (MovieLikeModel) TableName() string { return "movie_likes" }

type BookmarkModel struct {
	ID        int64  `gorm:"column:bookmark_id;primaryKey;autoIncrement"`
	UserID    int64  `gorm:"not null;uniqueIndex:uq_bookmarks_user_movie_folder;index"`
	MovieID   int64  `gorm:"not null;uniqueIndex:uq_bookmarks_user_movie_folder;index"`
	Folder    string `gorm:"size:50;not null;default:default;uniqueIndex:uq_bookmarks_user_movie_folder"`
	Notes     string `gorm:"type:text"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`

	User  *UserModel  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Movie *MovieModel `gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE"`
}

func (BookmarkModel) TableName() string { return "bookmarks" }

type MovieGenreModel struct {
	MovieID   int64     `gorm:"primaryKey;autoIncrement:false"`
	GenreID   int64     `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`

	Movie *MovieModel `gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE"`
	Genre *GenreModel `gorm:"foreignKey:GenreID;constraint:OnDelete:CASCADE"`
}

func (MovieGenreModel) TableName() string { return "movie_genres" }

type MovieActorModel struct {
	MovieID       int64  `gorm:"primaryKey;autoIncrement:false"`
	ActorID       int64  `gorm:"primaryKey;autoIncrement:false"`
	RoleName      string `gorm:"size:150"`
	CharacterName string `gorm:"size:150"`
	Ord           int    `gorm:"not null;default:0"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime"`

	Movie *MovieModel `gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE"`
	Actor *ActorModel `gorm:"foreignKey:ActorID;constraint:OnDelete:CASCADE"`
}

func (MovieActorModel) TableName() string { return "movie_actors" }
