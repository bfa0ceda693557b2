package server

import (
	"net/http"
	"strconv"

	"cinelog/internal/app"
	"cinelog/pkg/domain"
	"cinelog/pkg/store"
)

func movieQueryFromRequest(r *http.Request) store.MovieQuery {
	q := store.MovieQuery{
		Search: r.URL.Query().Get("search"),
		Genre:  r.URL.Query().Get("genre"),
		SortBy: r.URL.Query().Get("sort"),
		Page:   queryInt(r, "page"),
		Limit:  queryInt(r, "limit"),
	}
	if v := r.URL.Query().Get("year_from"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.YearFrom = &n
		}
	}
	if v := r.URL.Query().Get("year_to"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.YearTo = &n
		}
	}
	if v := r.URL.Query().Get("min_rating"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			q.MinRating = &f
		}
	}
	return q
}

func personQueryFromRequest(r *http.Request) store.PersonQuery {
	return store.PersonQuery{
		Search:  r.URL.Query().Get("search"),
		Country: r.URL.Query().Get("country"),
		SortBy:  r.URL.Query().Get("sort"),
		Page:    queryInt(r, "page"),
		Limit:   queryInt(r, "limit"),
	}
}

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	page, err := s.app.ListMovies(r.Context(), movieQueryFromRequest(r))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handlePopularMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := s.app.PopularMovies(r.Context(), queryInt(r, "limit"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	movie, err := s.app.GetMovie(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

func (s *Server) handleGetMovieBySlug(w http.ResponseWriter, r *http.Request) {
	movie, err := s.app.GetMovieBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

func (s *Server) handleCreateMovie(w http.ResponseWriter, r *http.Request, user domain.User) {
	var in app.MovieInput
	if err := decodeBody(r, &in); err != nil {
		writeAppError(w, err)
		return
	}
	movie, err := s.app.CreateMovie(r.Context(), user, in)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, movie)
}

func (s *Server) handleUpdateMovie(w http.ResponseWriter, r *http.Request, user domain.User) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	var in app.MovieInput
	if err := decodeBody(r, &in); err != nil {
		writeAppError(w, err)
		return
	}
	movie, err := s.app.UpdateMovie(r.Context(), user, id, in)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

func (s *Server) handleDeleteMovie(w http.ResponseWriter, r *http.Request, user domain.User) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if err := s.app.DeleteMovie(r.Context(), user, id); err != nil {
		writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// genres

func (s *Server) handleListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := s.app.ListGenres(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, genres)
}

func (s *Server) handleGetGenre(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	genre, err := s.app.GetGenre(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, genre)
}

func (s *Server) handleCreateGenre(w http.ResponseWriter, r *http.Request, user domain.User) {
	var in app.GenreInput
	if err := decodeBody(r, &in); err != nil {
		writeAppError(w, err)
		return
	}
	genre, err := s.app.CreateGenre(r.Context(), user, in)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, genre)
}

func (s *Server) handleUpdateGenre(w http.ResponseWriter, r *http.Request, user domain.User) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	var in app.GenreInput
	if err := decodeBody(r, &in); err != nil {
		writeAppError(w, err)
		return
	}
	genre, err := s.app.UpdateGenre(r.Context(), user, id, in)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, genre)
}

func (s *Server) handleDeleteGenre(w http.ResponseWriter, r *http.Request, user domain.User) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if err := s.app.DeleteGenre(r.Context(), user, id); err != nil {
		writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// actors

func (s *Server) handleListActors(w http.ResponseWriter, r *http.Request) {
	page, err := s.app.ListActors(r.Context(), personQueryFromRequest(r))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleGetActor(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	actor, err := s.app.GetActor(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, actor)
}

func (s *Server) handleActorMovies(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	movies, err := s.app.ActorMovies(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

func (s *Server) handleCreateActor(w http.ResponseWriter, r *http.Request, user domain.User) {
	var in app.PersonInput
	if err := decodeBody(r, &in); err != nil {
		writeAppError(w, err)
		return
	}
	actor, err := s.app.CreateActor(r.Context(), user, in)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, actor)
}

func (s *Server) handleUpdateActor(w http.ResponseWriter, r *http.Request, user domain.User) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	var in app.PersonInput
	if err := decodeBody(r, &in); err != nil {
		writeAppError(w, err)
		return
	}
	actor, err := s.app.UpdateActor(r.Context(), user, id, in)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, actor)
}

func (s *Server) handleDeleteActor(w http.ResponseWriter, r *http.Request, user domain.User) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if err := s.app.DeleteActor(r.Context(), user, id); err != nil {
		writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// directors

func (s *Server) handleListDirectors(w http.ResponseWriter, r *http.Request) {
	page, err := s.app.ListDirectors(r.Context(), personQueryFromRequest(r))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleGetDirector(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	director, err := s.app.GetDirector(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, director)
}

func (s *Server) handleDirectorMovies(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	movies, err := s.app.DirectorMovies(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

func (s *Server) handleCreateDirector(w http.ResponseWriter, r *http.Request, user domain.User) {
	var in app.PersonInput
	if err := decodeBody(r, &in); err != nil {
		writeAppError(w, err)
		return
	}
	director, err := s.app.CreateDirector(r.Context(), user, in)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, director)
}

func (s *Server) handleUpdateDirector(w http.ResponseWriter, r *http.Request, user domain.User) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	var in app.PersonInput
	if err := decodeBody(r, &in); err != nil {
		writeAppError(w, err)
		return
	}
	director, err := s.app.UpdateDirector(r.Context(), user, id, in)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, director)
}

func (s *Server) handleDeleteDirector(w http.ResponseWriter, r *http.Request, user domain.User) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if err := s.app.DeleteDirector(r.Context(), user, id); err != nil {
		writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
