package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"cinelog/internal/util"
	"cinelog/pkg/domain"
	"cinelog/pkg/store"
)

// Page is a generic paged listing.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (a *App) ListMovies(ctx context.Context, q store.MovieQuery) (Page[domain.Movie], error) {
	q.Page, q.Limit = a.clampPage(q.Page, q.Limit)
	movies, total, err := a.store.ListMovies(ctx, q)
	if err != nil {
		return Page[domain.Movie]{}, Internal(err)
	}
	return Page[domain.Movie]{Items: movies, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

func (a *App) GetMovie(ctx context.Context, id int64) (domain.Movie, error) {
	movie, err := a.store.GetMovie(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Movie{}, NotFoundf("movie not found")
	}
	if err != nil {
		return domain.Movie{}, Internal(err)
	}
	return movie, nil
}

func (a *App) GetMovieBySlug(ctx context.Context, slug string) (domain.Movie, error) {
	movie, err := a.store.GetMovieBySlug(ctx, slug)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Movie{}, NotFoundf("movie not found")
	}
	if err != nil {
		return domain.Movie{}, Internal(err)
	}
	return movie, nil
}

func (a *App) PopularMovies(ctx context.Context, limit int) ([]domain.Movie, error) {
	_, limit = a.clampPage(1, limit)
	movies, err := a.store.PopularMovies(ctx, limit)
	if err != nil {
		return nil, Internal(err)
	}
	return movies, nil
}

// MovieInput is the admin create/update payload. Genres resolve by ids or
// names (names win); actors replace the full credit list when provided.
type MovieInput struct {
	Title         string         `json:"title"`
	OriginalTitle string         `json:"original_title"`
	Slug          string         `json:"slug"`
	Description   string         `json:"description"`
	ReleaseDate   *time.Time     `json:"release_date"`
	ReleaseYear   *int           `json:"release_year"`
	Country       string         `json:"country"`
	Duration      *int           `json:"duration"`
	Budget        *float64       `json:"budget"`
	Revenue       *float64       `json:"revenue"`
	PosterURL     string         `json:"poster_url"`
	BackdropURL   string         `json:"backdrop_url"`
	DirectorID    *int64         `json:"director_id"`
	DirectorName  string         `json:"director_name"`
	GenreIDs      []int64        `json:"genre_ids"`
	GenreNames    string         `json:"genres"` // comma-separated display names
	Actors        []CreditInput  `json:"actors"`
	SetGenres     bool           `json:"-"`
	SetActors     bool           `json:"-"`
}

type CreditInput struct {
	ActorID       int64  `json:"actor_id"`
	FullName      string `json:"full_name"`
	RoleName      string `json:"role_name"`
	CharacterName string `json:"character_name"`
	Ord           int    `json:"order"`
}

func (in MovieInput) toChange(id int64) (store.MovieChange, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return store.MovieChange{}, Validationf("title is required")
	}
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = util.Slugify(title)
	}
	if in.ReleaseYear == nil && in.ReleaseDate != nil {
		year := in.ReleaseDate.Year()
		in.ReleaseYear = &year
	}
	var names []string
	for _, raw := range strings.Split(in.GenreNames, ",") {
		if name := strings.TrimSpace(raw); name != "" {
			names = append(names, name)
		}
	}
	credits := make([]store.ActorCredit, 0, len(in.Actors))
	for _, c := range in.Actors {
		credits = append(credits, store.ActorCredit{
			ActorID:       c.ActorID,
			FullName:      strings.TrimSpace(c.FullName),
			RoleName:      c.RoleName,
			CharacterName: c.CharacterName,
			Ord:           c.Ord,
		})
	}
	return store.MovieChange{
		Movie: domain.Movie{
			ID:            id,
			Title:         title,
			OriginalTitle: strings.TrimSpace(in.OriginalTitle),
			Slug:          slug,
			PosterURL:     in.PosterURL,
			BackdropURL:   in.BackdropURL,
			Description:   in.Description,
			ReleaseDate:   in.ReleaseDate,
			ReleaseYear:   in.ReleaseYear,
			Country:       in.Country,
			Duration:      in.Duration,
			Budget:        in.Budget,
			Revenue:       in.Revenue,
			DirectorID:    in.DirectorID,
		},
		DirectorName: strings.TrimSpace(in.DirectorName),
		SetGenres:    in.SetGenres || len(in.GenreIDs) > 0 || len(names) > 0,
		GenreIDs:     in.GenreIDs,
		GenreNames:   names,
		SetCredits:   in.SetActors || len(credits) > 0,
		Credits:      credits,
	}, nil
}

func (a *App) CreateMovie(ctx context.Context, actor domain.User, in MovieInput) (domain.Movie, error) {
	if err := requireAdmin(actor); err != nil {
		return domain.Movie{}, err
	}
	change, err := in.toChange(0)
	if err != nil {
		return domain.Movie{}, err
	}
	movie, err := a.store.CreateMovie(ctx, change)
	if errors.Is(err, store.ErrDuplicate) {
		return domain.Movie{}, Conflictf("a movie with this slug already exists")
	}
	if err != nil {
		return domain.Movie{}, Internal(err)
	}
	a.log.Info("movie created", "movie_id", movie.ID, "slug", movie.Slug, "admin_id", actor.ID)
	return movie, nil
}

func (a *App) UpdateMovie(ctx context.Context, actor domain.User, id int64, in MovieInput) (domain.Movie, error) {
	if err := requireAdmin(actor); err != nil {
		return domain.Movie{}, err
	}
	change, err := in.toChange(id)
	if err != nil {
		return domain.Movie{}, err
	}
	movie, err := a.store.UpdateMovie(ctx, change)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Movie{}, NotFoundf("movie not found")
	}
	if errors.Is(err, store.ErrDuplicate) {
		return domain.Movie{}, Conflictf("a movie with this slug already exists")
	}
	if err != nil {
		return domain.Movie{}, Internal(err)
	}
	return movie, nil
}

func (a *App) DeleteMovie(ctx context.Context, actor domain.User, id int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	err := a.store.DeleteMovie(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return NotFoundf("movie not found")
	}
	if err != nil {
		return Internal(err)
	}
	a.log.Info("movie deleted", "movie_id", id, "admin_id", actor.ID)
	return nil
}

// genres

func (a *App) ListGenres(ctx context.Context) ([]domain.Genre, error) {
	genres, err := a.store.ListGenres(ctx)
	if err != nil {
		return nil, Internal(err)
	}
	return genres, nil
}

func (a *App) GetGenre(ctx context.Context, id int64) (domain.Genre, error) {
	genre, err := a.store.GetGenre(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Genre{}, NotFoundf("genre not found")
	}
	if err != nil {
		return domain.Genre{}, Internal(err)
	}
	return genre, nil
}

type GenreInput struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

func (in GenreInput) toDomain(id int64) (domain.Genre, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Genre{}, Validationf("name is required")
	}
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = util.Slugify(name)
	}
	return domain.Genre{ID: id, Name: name, Slug: slug, Description: in.Description}, nil
}

func (a *App) CreateGenre(ctx context.Context, actor domain.User, in GenreInput) (domain.Genre, error) {
	if err := requireAdmin(actor); err != nil {
		return domain.Genre{}, err
	}
	genre, err := in.toDomain(0)
	if err != nil {
		return domain.Genre{}, err
	}
	created, err := a.store.CreateGenre(ctx, genre)
	if errors.Is(err, store.ErrDuplicate) {
		return domain.Genre{}, Conflictf("a genre with this name already exists")
	}
	if err != nil {
		return domain.Genre{}, Internal(err)
	}
	return created, nil
}

func (a *App) UpdateGenre(ctx context.Context, actor domain.User, id int64, in GenreInput) (domain.Genre, error) {
	if err := requireAdmin(actor); err != nil {
		return domain.Genre{}, err
	}
	genre, err := in.toDomain(id)
	if err != nil {
		return domain.Genre{}, err
	}
	updated, err := a.store.UpdateGenre(ctx, genre)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Genre{}, NotFoundf("genre not found")
	}
	if errors.Is(err, store.ErrDuplicate) {
		return domain.Genre{}, Conflictf("a genre with this name already exists")
	}
	if err != nil {
		return domain.Genre{}, Internal(err)
	}
	return updated, nil
}

func (a *App) DeleteGenre(ctx context.Context, actor domain.User, id int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	err := a.store.DeleteGenre(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return NotFoundf("genre not found")
	}
	if err != nil {
		return Internal(err)
	}
	return nil
}

// people

type PersonInput struct {
	FullName  string     `json:"full_name"`
	BirthDate *time.Time `json:"birth_date"`
	DeathDate *time.Time `json:"death_date"`
	Country   string     `json:"country"`
	Biography string     `json:"biography"`
	PhotoURL  string     `json:"photo_url"`
}

func (in PersonInput) validate() error {
	if strings.TrimSpace(in.FullName) == "" {
		return Validationf("full_name is required")
	}
	return nil
}

func (a *App) ListActors(ctx context.Context, q store.PersonQuery) (Page[domain.Actor], error) {
	q.Page, q.Limit = a.clampPage(q.Page, q.Limit)
	actors, total, err := a.store.ListActors(ctx, q)
	if err != nil {
		return Page[domain.Actor]{}, Internal(err)
	}
	return Page[domain.Actor]{Items: actors, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

func (a *App) GetActor(ctx context.Context, id int64) (domain.Actor, error) {
	actor, err := a.store.GetActor(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Actor{}, NotFoundf("actor not found")
	}
	if err != nil {
		return domain.Actor{}, Internal(err)
	}
	return actor, nil
}

func (a *App) ActorMovies(ctx context.Context, id int64) ([]domain.Movie, error) {
	if _, err := a.GetActor(ctx, id); err != nil {
		return nil, err
	}
	movies, err := a.store.ActorMovies(ctx, id)
	if err != nil {
		return nil, Internal(err)
	}
	return movies, nil
}

func (a *App) CreateActor(ctx context.Context, actor domain.User, in PersonInput) (domain.Actor, error) {
	if err := requireAdmin(actor); err != nil {
		return domain.Actor{}, err
	}
	if err := in.validate(); err != nil {
		return domain.Actor{}, err
	}
	created, err := a.store.CreateActor(ctx, domain.Actor{
		FullName:  strings.TrimSpace(in.FullName),
		BirthDate: in.BirthDate,
		DeathDate: in.DeathDate,
		Country:   in.Country,
		Biography: in.Biography,
		PhotoURL:  in.PhotoURL,
	})
	if err != nil {
		return domain.Actor{}, Internal(err)
	}
	return created, nil
}

func (a *App) UpdateActor(ctx context.Context, actor domain.User, id int64, in PersonInput) (domain.Actor, error) {
	if err := requireAdmin(actor); err != nil {
		return domain.Actor{}, err
	}
	if err := in.validate(); err != nil {
		return domain.Actor{}, err
	}
	updated, err := a.store.UpdateActor(ctx, domain.Actor{
		ID:        id,
		FullName:  strings.TrimSpace(in.FullName),
		BirthDate: in.BirthDate,
		DeathDate: in.DeathDate,
		Country:   in.Country,
		Biography: in.Biography,
		PhotoURL:  in.PhotoURL,
	})
	if errors.Is(err, store.ErrNotFound) {
		return domain.Actor{}, NotFoundf("actor not found")
	}
	if err != nil {
		return domain.Actor{}, Internal(err)
	}
	return updated, nil
}

func (a *App) DeleteActor(ctx context.Context, actor domain.User, id int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	err := a.store.DeleteActor(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return NotFoundf("actor not found")
	}
	if err != nil {
		return Internal(err)
	}
	return nil
}

func (a *App) ListDirectors(ctx context.Context, q store.PersonQuery) (Page[domain.Director], error) {
	q.Page, q.Limit = a.clampPage(q.Page, q.Limit)
	directors, total, err := a.store.ListDirectors(ctx, q)
	if err != nil {
		return Page[domain.Director]{}, Internal(err)
	}
	return Page[domain.Director]{Items: directors, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

func (a *App) GetDirector(ctx context.Context, id int64) (domain.Director, error) {
	director, err := a.store.GetDirector(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Director{}, NotFoundf("director not found")
	}
	if err != nil {
		return domain.Director{}, Internal(err)
	}
	return director, nil
}

func (a *App) DirectorMovies(ctx context.Context, id int64) ([]domain.Movie, error) {
	if _, err := a.GetDirector(ctx, id); err != nil {
		return nil, err
	}
	movies, err := a.store.DirectorMovies(ctx, id)
	if err != nil {
		return nil, Internal(err)
	}
	return movies, nil
}

func (a *App) CreateDirector(ctx context.Context, actor domain.User, in PersonInput) (domain.Director, error) {
	if err := requireAdmin(actor); err != nil {
		return domain.Director{}, err
	}
	if err := in.validate(); err != nil {
		return domain.Director{}, err
	}
	created, err := a.store.CreateDirector(ctx, domain.Director{
		FullName:  strings.TrimSpace(in.FullName),
		BirthDate: in.BirthDate,
		DeathDate: in.DeathDate,
		Country:   in.Country,
		Biography: in.Biography,
		PhotoURL:  in.PhotoURL,
	})
	if err != nil {
		return domain.Director{}, Internal(err)
	}
	return created, nil
}

func (a *App) UpdateDirector(ctx context.Context, actor domain.User, id int64, in PersonInput) (domain.Director, error) {
	if err := requireAdmin(actor); err != nil {
		return domain.Director{}, err
	}
	if err := in.validate(); err != nil {
		return domain.Director{}, err
	}
	updated, err := a.store.UpdateDirector(ctx, domain.Director{
		ID:        id,
		FullName:  strings.TrimSpace(in.FullName),
		BirthDate: in.BirthDate,
		DeathDate: in.DeathDate,
		Country:   in.Country,
		Biography: in.Biography,
		PhotoURL:  in.PhotoURL,
	})
	if errors.Is(err, store.ErrNotFound) {
		return domain.Director{}, NotFoundf("director not found")
	}
	if err != nil {
		return domain.Director{}, Internal(err)
	}
	return updated, nil
}

func (a *App) DeleteDirector(ctx context.Context, actor domain.User, id int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	err := a.store.DeleteDirector(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return NotFoundf("director not found")
	}
	if err != nil {
		return Internal(err)
	}
	return nil
}
