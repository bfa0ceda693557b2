package store

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cinelog/internal/util"
	"cinelog/pkg/domain"
)

const movieDetailReviewLimit = 10

// CreateMovie inserts a movie with its genre and actor associations in one
// transaction. Genre and actor names resolve find-or-create; a duplicate
// slug maps to ErrDuplicate.
func (s *GormStore) CreateMovie(ctx context.Context, mc MovieChange) (domain.Movie, error) {
	var id int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := movieToModel(mc.Movie)
		if model.DirectorID == nil && mc.DirectorName != "" {
			director, err := findOrCreateDirector(tx, mc.DirectorName)
			if err != nil {
				return err
			}
			model.DirectorID = &director.ID
		}
		if err := tx.Create(&model).Error; err != nil {
			return err
		}
		id = model.ID
		if mc.SetGenres {
			if err := writeMovieGenres(tx, id, mc.GenreIDs, mc.GenreNames); err != nil {
				return err
			}
		}
		if mc.SetCredits {
			if err := writeMovieCredits(tx, id, mc.Credits); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Movie{}, translate(err)
	}
	return s.GetMovie(ctx, id)
}

// UpdateMovie rewrites the movie row and, when requested, replaces the full
// genre/actor association sets (clear-then-add).
func (s *GormStore) UpdateMovie(ctx context.Context, mc MovieChange) (domain.Movie, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockMovie(tx, mc.Movie.ID); err != nil {
			return err
		}
		model := movieToModel(mc.Movie)
		if model.DirectorID == nil && mc.DirectorName != "" {
			director, err := findOrCreateDirector(tx, mc.DirectorName)
			if err != nil {
				return err
			}
			model.DirectorID = &director.ID
		}
		if err := tx.Model(&MovieModel{}).
			Where("movie_id = ?", mc.Movie.ID).
			Select("Title", "OriginalTitle", "Slug", "PosterURL", "BackdropURL",
				"Description", "ReleaseDate", "ReleaseYear", "Country", "Duration",
				"Budget", "Revenue", "DirectorID", "UpdatedAt").
			Updates(&model).Error; err != nil {
			return err
		}
		if mc.SetGenres {
			if err := tx.Delete(&MovieGenreModel{}, "movie_id = ?", mc.Movie.ID).Error; err != nil {
				return err
			}
			if err := writeMovieGenres(tx, mc.Movie.ID, mc.GenreIDs, mc.GenreNames); err != nil {
				return err
			}
		}
		if mc.SetCredits {
			if err := tx.Delete(&MovieActorModel{}, "movie_id = ?", mc.Movie.ID).Error; err != nil {
				return err
			}
			if err := writeMovieCredits(tx, mc.Movie.ID, mc.Credits); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Movie{}, translate(err)
	}
	return s.GetMovie(ctx, mc.Movie.ID)
}

func (s *GormStore) DeleteMovie(ctx context.Context, id int64) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockMovie(tx, id); err != nil {
			return err
		}
		for _, del := range []any{
			&MovieGenreModel{}, &MovieActorModel{}, &MovieLikeModel{}, &BookmarkModel{},
		} {
			if err := tx.Delete(del, "movie_id = ?", id).Error; err != nil {
				return err
			}
		}
		var reviewIDs []int64
		if err := tx.Model(&ReviewModel{}).
			Where("movie_id = ?", id).
			Pluck("review_id", &reviewIDs).Error; err != nil {
			return err
		}
		if len(reviewIDs) > 0 {
			if err := tx.Delete(&ReviewLikeModel{}, "review_id IN ?", reviewIDs).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&ReviewModel{}, "movie_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&MovieModel{}, "movie_id = ?", id).Error
	}))
}

func (s *GormStore) GetMovie(ctx context.Context, id int64) (domain.Movie, error) {
	var model MovieModel
	if err := s.db.WithContext(ctx).First(&model, "movie_id = ?", id).Error; err != nil {
		return domain.Movie{}, translate(err)
	}
	return s.movieDetail(ctx, model)
}

func (s *GormStore) GetMovieBySlug(ctx context.Context, slug string) (domain.Movie, error) {
	var model MovieModel
	if err := s.db.WithContext(ctx).First(&model, "slug = ?", slug).Error; err != nil {
		return domain.Movie{}, translate(err)
	}
	return s.movieDetail(ctx, model)
}

// movieDetail assembles the full detail view: genres, director, ordered
// credits, and the top approved reviews with their authors.
func (s *GormStore) movieDetail(ctx context.Context, model MovieModel) (domain.Movie, error) {
	movie := movieFromModel(model)
	db := s.db.WithContext(ctx)

	genres, err := genresForMovies(db, []int64{movie.ID})
	if err != nil {
		return domain.Movie{}, err
	}
	movie.Genres = genres[movie.ID]

	if model.DirectorID != nil {
		var dm DirectorModel
		if err := db.First(&dm, "director_id = ?", *model.DirectorID).Error; err == nil {
			d := directorFromModel(dm)
			movie.Director = &d
		}
	}

	var creditRows []struct {
		ActorModel
		RoleName      string
		CharacterName string
		Ord           int
	}
	if err := db.Table("movie_actors").
		Select("actors.*, movie_actors.role_name, movie_actors.character_name, movie_actors.ord").
		Joins("JOIN actors ON actors.actor_id = movie_actors.actor_id").
		Where("movie_actors.movie_id = ?", movie.ID).
		Order("movie_actors.ord ASC, actors.full_name ASC").
		Scan(&creditRows).Error; err != nil {
		return domain.Movie{}, err
	}
	for _, row := range creditRows {
		movie.Credits = append(movie.Credits, domain.Credit{
			Actor:         actorFromModel(row.ActorModel),
			RoleName:      row.RoleName,
			CharacterName: row.CharacterName,
			Ord:           row.Ord,
		})
	}

	var reviewModels []ReviewModel
	if err := db.Where("movie_id = ? AND is_approved = ?", movie.ID, true).
		Order("likes_count DESC, created_at DESC").
		Limit(movieDetailReviewLimit).
		Find(&reviewModels).Error; err != nil {
		return domain.Movie{}, err
	}
	reviews, err := s.attachReviewUsers(ctx, reviewModels)
	if err != nil {
		return domain.Movie{}, err
	}
	movie.Reviews = reviews
	return movie, nil
}

func (s *GormStore) ListMovies(ctx context.Context, q MovieQuery) ([]domain.Movie, int, error) {
	tx := s.db.WithContext(ctx).Model(&MovieModel{})
	if q.Search != "" {
		tx = tx.Where("title ILIKE ?", "%"+q.Search+"%")
	}
	if q.YearFrom != nil {
		tx = tx.Where("release_year >= ?", *q.YearFrom)
	}
	if q.YearTo != nil {
		tx = tx.Where("release_year <= ?", *q.YearTo)
	}
	if q.MinRating != nil {
		tx = tx.Where("avg_rating >= ?", *q.MinRating)
	}
	if q.Genre != "" {
		tx = tx.Where(`movie_id IN (
			SELECT mg.movie_id FROM movie_genres mg
			JOIN genres g ON g.genre_id = mg.genre_id
			WHERE g.slug = ? OR g.name = ?)`, q.Genre, q.Genre)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch q.SortBy {
	case "title":
		tx = tx.Order("title ASC")
	case "year_asc":
		tx = tx.Order("release_year ASC")
	case "year_desc":
		tx = tx.Order("release_year DESC")
	default:
		tx = tx.Order("avg_rating DESC, rating_count DESC")
	}

	var models []MovieModel
	if err := tx.Offset(pageOffset(q.Page, q.Limit)).Limit(q.Limit).Find(&models).Error; err != nil {
		return nil, 0, err
	}
	movies, err := s.moviesWithGenres(ctx, models)
	if err != nil {
		return nil, 0, err
	}
	return movies, int(total), nil
}

func (s *GormStore) PopularMovies(ctx context.Context, limit int) ([]domain.Movie, error) {
	var models []MovieModel
	if err := s.db.WithContext(ctx).
		Where("rating_count >= ?", 1).
		Order("avg_rating DESC, rating_count DESC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, err
	}
	return s.moviesWithGenres(ctx, models)
}

func (s *GormStore) CountMovies(ctx context.Context) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&MovieModel{}).Count(&count).Error
	return int(count), err
}

func (s *GormStore) MostPopularMovie(ctx context.Context) (domain.Movie, error) {
	var model MovieModel
	if err := s.db.WithContext(ctx).
		Order("rating_count DESC, avg_rating DESC").
		First(&model).Error; err != nil {
		return domain.Movie{}, translate(err)
	}
	return movieFromModel(model), nil
}

func (s *GormStore) moviesWithGenres(ctx context.Context, models []MovieModel) ([]domain.Movie, error) {
	ids := make([]int64, 0, len(models))
	for _, m := range models {
		ids = append(ids, m.ID)
	}
	genres, err := genresForMovies(s.db.WithContext(ctx), ids)
	if err != nil {
		return nil, err
	}
	movies := make([]domain.Movie, 0, len(models))
	for _, m := range models {
		movie := movieFromModel(m)
		movie.Genres = genres[m.ID]
		movies = append(movies, movie)
	}
	return movies, nil
}

func genresForMovies(db *gorm.DB, movieIDs []int64) (map[int64][]domain.Genre, error) {
	res := make(map[int64][]domain.Genre, len(movieIDs))
	if len(movieIDs) == 0 {
		return res, nil
	}
	var rows []struct {
		GenreModel
		MovieID int64
	}
	if err := db.Table("movie_genres").
		Select("genres.*, movie_genres.movie_id").
		Joins("JOIN genres ON genres.genre_id = movie_genres.genre_id").
		Where("movie_genres.movie_id IN ?", movieIDs).
		Order("genres.name ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		res[row.MovieID] = append(res[row.MovieID], genreFromModel(row.GenreModel))
	}
	return res, nil
}

func writeMovieGenres(tx *gorm.DB, movieID int64, genreIDs []int64, genreNames []string) error {
	var resolved []int64
	if len(genreNames) > 0 {
		for _, name := range genreNames {
			g, err := findOrCreateGenre(tx, name)
			if err != nil {
				return err
			}
			resolved = append(resolved, g.ID)
		}
	} else if len(genreIDs) > 0 {
		// keep only ids that exist, matching the lenient lookup semantics
		if err := tx.Model(&GenreModel{}).
			Where("genre_id IN ?", genreIDs).
			Pluck("genre_id", &resolved).Error; err != nil {
			return err
		}
	}
	for _, gid := range resolved {
		edge := MovieGenreModel{MovieID: movieID, GenreID: gid}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge).Error; err != nil {
			return err
		}
	}
	return nil
}

func writeMovieCredits(tx *gorm.DB, movieID int64, credits []ActorCredit) error {
	for _, c := range credits {
		actorID := c.ActorID
		if actorID == 0 {
			if c.FullName == "" {
				continue
			}
			actor, err := findOrCreateActor(tx, c.FullName)
			if err != nil {
				return err
			}
			actorID = actor.ID
		} else {
			var exists int64
			if err := tx.Model(&ActorModel{}).
				Where("actor_id = ?", actorID).
				Count(&exists).Error; err != nil {
				return err
			}
			if exists == 0 {
				continue
			}
		}
		edge := MovieActorModel{
			MovieID:       movieID,
			ActorID:       actorID,
			RoleName:      c.RoleName,
			CharacterName: c.CharacterName,
			Ord:           c.Ord,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge).Error; err != nil {
			return err
		}
	}
	return nil
}

func findOrCreateGenre(tx *gorm.DB, name string) (GenreModel, error) {
	var g GenreModel
	err := tx.Where("name = ?", name).First(&g).Error
	if err == nil {
		return g, nil
	}
	if err != gorm.ErrRecordNotFound {
		return GenreModel{}, err
	}
	g = GenreModel{Name: name, Slug: util.Slugify(name)}
	if err := tx.Create(&g).Error; err != nil {
		return GenreModel{}, err
	}
	return g, nil
}

func findOrCreateDirector(tx *gorm.DB, fullName string) (DirectorModel, error) {
	var d DirectorModel
	err := tx.Where("full_name = ?", fullName).First(&d).Error
	if err == nil {
		return d, nil
	}
	if err != gorm.ErrRecordNotFound {
		return DirectorModel{}, err
	}
	d = DirectorModel{FullName: fullName}
	if err := tx.Create(&d).Error; err != nil {
		return DirectorModel{}, err
	}
	return d, nil
}

func findOrCreateActor(tx *gorm.DB, fullName string) (ActorModel, error) {
	var a ActorModel
	err := tx.Where("full_name = ?", fullName).First(&a).Error
	if err == nil {
		return a, nil
	}
	if err != gorm.ErrRecordNotFound {
		return ActorModel{}, err
	}
	a = ActorModel{FullName: fullName}
	if err := tx.Create(&a).Error; err != nil {
		return ActorModel{}, err
	}
	return a, nil
}

// genres

func (s *GormStore) ListGenres(ctx context.Context) ([]domain.Genre, error) {
	var models []GenreModel
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	genres := make([]domain.Genre, 0, len(models))
	for _, m := range models {
		genres = append(genres, genreFromModel(m))
	}
	return genres, nil
}

func (s *GormStore) GetGenre(ctx context.Context, id int64) (domain.Genre, error) {
	var model GenreModel
	if err := s.db.WithContext(ctx).First(&model, "genre_id = ?", id).Error; err != nil {
		return domain.Genre{}, translate(err)
	}
	return genreFromModel(model), nil
}

func (s *GormStore) CreateGenre(ctx context.Context, g domain.Genre) (domain.Genre, error) {
	model := GenreModel{Name: g.Name, Slug: g.Slug, Description: g.Description}
	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.Genre{}, translate(err)
	}
	return genreFromModel(model), nil
}

func (s *GormStore) UpdateGenre(ctx context.Context, g domain.Genre) (domain.Genre, error) {
	err := s.db.WithContext(ctx).Model(&GenreModel{}).
		Where("genre_id = ?", g.ID).
		Select("Name", "Slug", "Description").
		Updates(&GenreModel{Name: g.Name, Slug: g.Slug, Description: g.Description}).Error
	if err != nil {
		return domain.Genre{}, translate(err)
	}
	return s.GetGenre(ctx, g.ID)
}

func (s *GormStore) DeleteGenre(ctx context.Context, id int64) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&MovieGenreModel{}, "genre_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&GenreModel{}, "genre_id = ?", id).Error
	}))
}

func (s *GormStore) CountGenres(ctx context.Context) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&GenreModel{}).Count(&count).Error
	return int(count), err
}

// actors

const actorMoviesCountExpr = "(SELECT COUNT(*) FROM movie_actors WHERE movie_actors.actor_id = actors.actor_id)"

func (s *GormStore) ListActors(ctx context.Context, q PersonQuery) ([]domain.Actor, int, error) {
	tx := s.db.WithContext(ctx).Model(&ActorModel{})
	if q.Search != "" {
		tx = tx.Where("full_name ILIKE ?", "%"+q.Search+"%")
	}
	if q.Country != "" {
		tx = tx.Where("country = ?", q.Country)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []struct {
		ActorModel
		MoviesCount int
	}
	if err := tx.Select("actors.*, " + actorMoviesCountExpr + " AS movies_count").
		Order(personOrder(q.SortBy)).
		Offset(pageOffset(q.Page, q.Limit)).
		Limit(q.Limit).
		Scan(&rows).Error; err != nil {
		return nil, 0, err
	}
	actors := make([]domain.Actor, 0, len(rows))
	for _, row := range rows {
		a := actorFromModel(row.ActorModel)
		a.MoviesCount = row.MoviesCount
		actors = append(actors, a)
	}
	return actors, int(total), nil
}

func personOrder(sortBy string) string {
	switch sortBy {
	case "name_desc":
		return "full_name DESC"
	case "birth_date_asc":
		return "birth_date ASC"
	case "birth_date_desc":
		return "birth_date DESC"
	default:
		return "full_name ASC"
	}
}

func (s *GormStore) GetActor(ctx context.Context, id int64) (domain.Actor, error) {
	var model ActorModel
	if err := s.db.WithContext(ctx).First(&model, "actor_id = ?", id).Error; err != nil {
		return domain.Actor{}, translate(err)
	}
	return actorFromModel(model), nil
}

func (s *GormStore) ActorMovies(ctx context.Context, id int64) ([]domain.Movie, error) {
	var models []MovieModel
	if err := s.db.WithContext(ctx).
		Where(`movie_id IN (SELECT movie_id FROM movie_actors WHERE actor_id = ?)`, id).
		Order("release_year DESC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	return s.moviesWithGenres(ctx, models)
}

func (s *GormStore) CreateActor(ctx context.Context, a domain.Actor) (domain.Actor, error) {
	model := actorToModel(a)
	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.Actor{}, translate(err)
	}
	return actorFromModel(model), nil
}

func (s *GormStore) UpdateActor(ctx context.Context, a domain.Actor) (domain.Actor, error) {
	model := actorToModel(a)
	err := s.db.WithContext(ctx).Model(&ActorModel{}).
		Where("actor_id = ?", a.ID).
		Select("FullName", "BirthDate", "DeathDate", "Country", "Biography", "PhotoURL", "UpdatedAt").
		Updates(&model).Error
	if err != nil {
		return domain.Actor{}, translate(err)
	}
	return s.GetActor(ctx, a.ID)
}

func (s *GormStore) DeleteActor(ctx context.Context, id int64) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&MovieActorModel{}, "actor_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&ActorModel{}, "actor_id = ?", id).Error
	}))
}

func (s *GormStore) CountActors(ctx context.Context) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&ActorModel{}).Count(&count).Error
	return int(count), err
}

// directors

func (s *GormStore) ListDirectors(ctx context.Context, q PersonQuery) ([]domain.Director, int, error) {
	tx := s.db.WithContext(ctx).Model(&DirectorModel{})
	if q.Search != "" {
		tx = tx.Where("full_name ILIKE ?", "%"+q.Search+"%")
	}
	if q.Country != "" {
		tx = tx.Where("country = ?", q.Country)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []struct {
		DirectorModel
		MoviesCount int
	}
	if err := tx.Select("directors.*, (SELECT COUNT(*) FROM movies WHERE movies.director_id = directors.director_id) AS movies_count").
		Order(personOrder(q.SortBy)).
		Offset(pageOffset(q.Page, q.Limit)).
		Limit(q.Limit).
		Scan(&rows).Error; err != nil {
		return nil, 0, err
	}
	directors := make([]domain.Director, 0, len(rows))
	for _, row := range rows {
		d := directorFromModel(row.DirectorModel)
		d.MoviesCount = row.MoviesCount
		directors = append(directors, d)
	}
	return directors, int(total), nil
}

func (s *GormStore) GetDirector(ctx context.Context, id int64) (domain.Director, error) {
	var model DirectorModel
	if err := s.db.WithContext(ctx).First(&model, "director_id = ?", id).Error; err != nil {
		return domain.Director{}, translate(err)
	}
	return directorFromModel(model), nil
}

func (s *GormStore) DirectorMovies(ctx context.Context, id int64) ([]domain.Movie, error) {
	var models []MovieModel
	if err := s.db.WithContext(ctx).
		Where("director_id = ?", id).
		Order("release_year DESC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	return s.moviesWithGenres(ctx, models)
}

func (s *GormStore) CreateDirector(ctx context.Context, d domain.Director) (domain.Director, error) {
	model := directorToModel(d)
	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.Director{}, translate(err)
	}
	return directorFromModel(model), nil
}

func (s *GormStore) UpdateDirector(ctx context.Context, d domain.Director) (domain.Director, error) {
	model := directorToModel(d)
	err := s.db.WithContext(ctx).Model(&DirectorModel{}).
		Where("director_id = ?", d.ID).
		Select("FullName", "BirthDate", "DeathDate", "Country", "Biography", "PhotoURL", "UpdatedAt").
		Updates(&model).Error
	if err != nil {
		return domain.Director{}, translate(err)
	}
	return s.GetDirector(ctx, d.ID)
}

func (s *GormStore) DeleteDirector(ctx context.Context, id int64) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&MovieModel{}).
			Where("director_id = ?", id).
			Update("director_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&DirectorModel{}, "director_id = ?", id).Error
	}))
}

func (s *GormStore) CountDirectors(ctx context.Context) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&DirectorModel{}).Count(&count).Error
	return int(count), err
}

// conversions

func movieToModel(m domain.Movie) MovieModel {
	return MovieModel{
		ID:            m.ID,
		Title:         m.Title,
		OriginalTitle: m.OriginalTitle,
		Slug:          m.Slug,
		PosterURL:     m.PosterURL,
		BackdropURL:   m.BackdropURL,
		Description:   m.Description,
		ReleaseDate:   dateToModel(m.ReleaseDate),
		ReleaseYear:   m.ReleaseYear,
		Country:       m.Country,
		Duration:      m.Duration,
		Budget:        m.Budget,
		Revenue:       m.Revenue,
		DirectorID:    m.DirectorID,
		AvgRating:     m.AvgRating,
		RatingCount:   m.RatingCount,
		LikesCount:    m.LikesCount,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     time.Now().UTC(),
	}
}

func movieFromModel(m MovieModel) domain.Movie {
	return domain.Movie{
		ID:            m.ID,
		Title:         m.Title,
		OriginalTitle: m.OriginalTitle,
		Slug:          m.Slug,
		PosterURL:     m.PosterURL,
		BackdropURL:   m.BackdropURL,
		Description:   m.Description,
		ReleaseDate:   dateFromModel(m.ReleaseDate),
		ReleaseYear:   m.ReleaseYear,
		Country:       m.Country,
		Duration:      m.Duration,
		Budget:        m.Budget,
		Revenue:       m.Revenue,
		DirectorID:    m.DirectorID,
		AvgRating:     m.AvgRating,
		RatingCount:   m.RatingCount,
		LikesCount:    m.LikesCount,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func genreFromModel(m GenreModel) domain.Genre {
	return domain.Genre{
		ID:          m.ID,
		Name:        m.Name,
		Slug:        m.Slug,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
	}
}

func actorToModel(a domain.Actor) ActorModel {
	return ActorModel{
		ID:        a.ID,
		FullName:  a.FullName,
		BirthDate: dateToModel(a.BirthDate),
		DeathDate: dateToModel(a.DeathDate),
		Country:   a.Country,
		Biography: a.Biography,
		PhotoURL:  a.PhotoURL,
		CreatedAt: a.CreatedAt,
		UpdatedAt: time.Now().UTC(),
	}
}

func actorFromModel(m ActorModel) domain.Actor {
	return domain.Actor{
		ID:        m.ID,
		FullName:  m.FullName,
		BirthDate: dateFromModel(m.BirthDate),
		DeathDate: dateFromModel(m.DeathDate),
		Country:   m.Country,
		Biography: m.Biography,
		PhotoURL:  m.PhotoURL,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func directorToModel(d domain.Director) DirectorModel {
	return DirectorModel{
		ID:        d.ID,
		FullName:  d.FullName,
		BirthDate: dateToModel(d.BirthDate),
		DeathDate: dateToModel(d.DeathDate),
		Country:   d.Country,
		Biography: d.Biography,
		PhotoURL:  d.PhotoURL,
		CreatedAt: d.CreatedAt,
		UpdatedAt: time.Now().UTC(),
	}
}

func directorFromModel(m DirectorModel) domain.Director {
	return domain.Director{
		ID:        m.ID,
		FullName:  m.FullName,
		BirthDate: dateFromModel(m.BirthDate),
		DeathDate: dateFromModel(m.DeathDate),
		Country:   m.Country,
		Biography: m.Biography,
		PhotoURL:  m.PhotoURL,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
