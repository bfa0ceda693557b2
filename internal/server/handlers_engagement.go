package server

import (
	"net/http"

	"cinelog/internal/app"
	"cinelog/pkg/domain"
)

func (s *Server) handleMovieReviews(w http.ResponseWriter, r *http.Request, viewer *domain.User) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	page, err := s.app.ListMovieReviews(r.Context(), viewer, id, queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request, user domain.User) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	var in app.ReviewInput
	if err := decodeBody(r, &in); err != nil {
		writeAppError(w, err)
		return
	}
	review, err := s.app.CreateReview(r.Context(), user, id, in)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (s *Server) handleLatestReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := s.app.LatestReviews(r.Context(), queryInt(r, "limit"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (s *Server) handleGetReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	review, err := s.app.GetReview(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func (s *Server) handleUpdateReview(w http.ResponseWriter, r *http.Request, user domain.User) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	var in app.ReviewUpdateInput
	if err := decodeBody(r, &in); err != nil {
		writeAppError(w, err)
		return
	}
	review, err := s.app.UpdateReview(r.Context(), user, id, in)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request, user domain.User) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if err := s.app.DeleteReview(r.Context(), user, id); err != nil {
		writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUserReviews(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	page, err := s.app.ListUserReviews(r.Context(), id, queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// likes

func (s *Server) handleLikeReview(w http.ResponseWriter, r *http.Request, user domain.User) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	review, err := s.app.LikeReview(r.Context(), user, id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func (s *Server) handleUnlikeReview(w http.ResponseWriter, r *http.Request, user domain.User) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	review, err := s.app.UnlikeReview(r.Context(), user, id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func (s *Server) handleReviewLikes(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	likes, err := s.app.ReviewLikes(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, likes)
}

func (s *Server) handleLikeMovie(w http.ResponseWriter, r *http.Request, user domain.User) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	movie, err := s.app.LikeMovie(r.Context(), user, id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

func (s *Server) handleUnlikeMovie(w http.ResponseWriter, r *http.Request, user domain.User) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	movie, err := s.app.UnlikeMovie(r.Context(), user, id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

// bookmarks

func (s *Server) handleAddBookmark(w http.ResponseWriter, r *http.Request, user domain.User) {
	var in app.BookmarkInput
	if err := decodeBody(r, &in); err != nil {
		writeAppError(w, err)
		return
	}
	bookmark, err := s.app.AddBookmark(r.Context(), user, in)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, bookmark)
}

func (s *Server) handleListBookmarks(w http.ResponseWriter, r *http.Request, user domain.User) {
	bookmarks, err := s.app.ListBookmarks(r.Context(), user, r.URL.Query().Get("folder"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookmarks)
}

func (s *Server) handleBookmarkFolders(w http.ResponseWriter, r *http.Request, user domain.User) {
	folders, err := s.app.BookmarkFolders(r.Context(), user)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, folders)
}

func (s *Server) handleUpdateBookmark(w http.ResponseWriter, r *http.Request, user domain.User) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	var in app.BookmarkUpdateInput
	if err := decodeBody(r, &in); err != nil {
		writeAppError(w, err)
		return
	}
	bookmark, err := s.app.UpdateBookmark(r.Context(), user, id, in)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookmark)
}

func (s *Server) handleDeleteBookmark(w http.ResponseWriter, r *http.Request, user domain.User) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if err := s.app.RemoveBookmark(r.Context(), user, id); err != nil {
		writeAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
