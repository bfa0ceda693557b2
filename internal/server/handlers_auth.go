package server

import (
	"net/http"

	"cinelog/internal/app"
	"cinelog/pkg/domain"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !s.allowRate(w, r, s.registerLimiter, "too many registration attempts, try again later") {
		s.audit(r, "auth.register", "rate_limited")
		return
	}
	var in app.RegisterInput
	if err := decodeBody(r, &in); err != nil {
		writeAppError(w, err)
		return
	}
	sess, err := s.app.Register(r.Context(), in)
	if err != nil {
		s.audit(r, "auth.register", "fail", "reason", app.MessageOf(err))
		writeAppError(w, err)
		return
	}
	s.audit(r, "auth.register", "success", "user_id", sess.User.ID)
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.allowRate(w, r, s.loginLimiter, "too many login attempts, try again later") {
		s.audit(r, "auth.login", "rate_limited")
		return
	}
	var in app.LoginInput
	if err := decodeBody(r, &in); err != nil {
		writeAppError(w, err)
		return
	}
	sess, err := s.app.Login(r.Context(), in)
	if err != nil {
		s.audit(r, "auth.login", "fail", "reason", app.MessageOf(err))
		writeAppError(w, err)
		return
	}
	s.audit(r, "auth.login", "success", "user_id", sess.User.ID)
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleMe(w http.ResponseWriter, _ *http.Request, user domain.User) {
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request, user domain.User) {
	var in app.ProfileUpdate
	if err := decodeBody(r, &in); err != nil {
		writeAppError(w, err)
		return
	}
	updated, err := s.app.UpdateProfile(r.Context(), user, in)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request, user domain.User) {
	var in struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := decodeBody(r, &in); err != nil {
		writeAppError(w, err)
		return
	}
	if in.CurrentPassword == "" || in.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "current_password and new_password are required")
		return
	}
	if err := s.app.ChangePassword(r.Context(), user, in.CurrentPassword, in.NewPassword); err != nil {
		s.audit(r, "auth.password.change", "fail", "user_id", user.ID)
		writeAppError(w, err)
		return
	}
	s.audit(r, "auth.password.change", "success", "user_id", user.ID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}

func (s *Server) handleUploadAvatar(w http.ResponseWriter, r *http.Request, user domain.User) {
	file, header, err := s.openUpload(w, r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	defer file.Close()
	updated, err := s.app.UploadAvatar(r.Context(), user, header.Filename, header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
