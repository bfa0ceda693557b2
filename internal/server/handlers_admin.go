package server

import (
	"mime/multipart"
	"net/http"

	"cinelog/internal/app"
	"cinelog/pkg/domain"
	"cinelog/pkg/store"
)

func (s *Server) handleAdminListUsers(w http.ResponseWriter, r *http.Request, user domain.User) {
	page, err := s.app.AdminListUsers(r.Context(), user, store.UserQuery{
		Search: r.URL.Query().Get("search"),
		Page:   queryInt(r, "page"),
		Limit:  queryInt(r, "limit"),
	})
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleAdminUpdateUser(w http.ResponseWriter, r *http.Request, user domain.User) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	var in app.AdminUserUpdate
	if err := decodeBody(r, &in); err != nil {
		writeAppError(w, err)
		return
	}
	updated, err := s.app.AdminUpdateUser(r.Context(), user, id, in)
	if err != nil {
		s.audit(r, "admin.user.update", "fail", "admin_id", user.ID, "target_id", id)
		writeAppError(w, err)
		return
	}
	s.audit(r, "admin.user.update", "success", "admin_id", user.ID, "target_id", id)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleAdminDeleteUser(w http.ResponseWriter, r *http.Request, user domain.User) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if err := s.app.AdminDeleteUser(r.Context(), user, id); err != nil {
		s.audit(r, "admin.user.delete", "fail", "admin_id", user.ID, "target_id", id)
		writeAppError(w, err)
		return
	}
	s.audit(r, "admin.user.delete", "success", "admin_id", user.ID, "target_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleApproveReview(w http.ResponseWriter, r *http.Request, user domain.User) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	review, err := s.app.ApproveReview(r.Context(), user, id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func (s *Server) handleRejectReview(w http.ResponseWriter, r *http.Request, user domain.User) {
	id, err := pathID(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	var in struct {
		Reason string `json:"reason"`
	}
	// the body is optional; a bare reject is allowed
	_ = decodeBody(r, &in)
	review, err := s.app.RejectReview(r.Context(), user, id, in.Reason)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request, user domain.User) {
	stats, err := s.app.AdminStats(r.Context(), user)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// uploadKinds maps URL path segments onto object key prefixes.
var uploadKinds = map[string]string{
	"posters":   "poster",
	"backdrops": "backdrop",
	"people":    "photo",
}

func (s *Server) handleAdminUpload(w http.ResponseWriter, r *http.Request, user domain.User) {
	kind, ok := uploadKinds[r.PathValue("kind")]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown upload kind")
		return
	}
	file, header, err := s.openUpload(w, r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	defer file.Close()
	upload, err := s.app.UploadImage(r.Context(), user, kind, header.Filename, header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		writeAppError(w, err)
		return
	}
	s.audit(r, "admin.upload", "success", "admin_id", user.ID, "kind", kind, "key", upload.Key)
	writeJSON(w, http.StatusCreated, upload)
}

// openUpload pulls the "file" part out of a size-capped multipart form.
func (s *Server) openUpload(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		return nil, nil, app.Validationf("invalid or oversized multipart body")
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, app.Validationf("a \"file\" form field is required")
	}
	return file, header, nil
}
