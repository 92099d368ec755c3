package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/respond"
	"github.com/dmitrijs2005/gophauth/internal/server/validation"
)

// AuthResponse is returned by register and login. The token is also set as
// the auth_token cookie.
type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req validation.RegisterRequest
	if err := decode(w, r, &req); err != nil {
		s.errors.Error(w, err)
		return
	}

	user, token, err := s.users.Register(r.Context(), req)
	if err != nil {
		s.fail(w, r, "registration rejected", err)
		return
	}

	s.setAuthCookie(w, token)
	respond.JSON(w, http.StatusOK, AuthResponse{User: user, Token: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req validation.LoginRequest
	if err := decode(w, r, &req); err != nil {
		s.errors.Error(w, err)
		return
	}

	user, token, err := s.users.Login(r.Context(), req)
	if err != nil {
		s.fail(w, r, "login rejected", err)
		return
	}

	s.setAuthCookie(w, token)
	respond.JSON(w, http.StatusOK, AuthResponse{User: user, Token: token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   s.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	respond.JSON(w, http.StatusOK, messageResponse{Message: "logged out"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFromContext(r.Context())

	user, err := s.users.Me(r.Context(), claims.Subject)
	if err != nil {
		s.fail(w, r, "me lookup failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, user)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.ListUsers(r.Context())
	if err != nil {
		s.fail(w, r, "list users failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, users)
}

func (s *Server) handleAssignGroup(w http.ResponseWriter, r *http.Request) {
	var req validation.AssignGroupRequest
	if err := decode(w, r, &req); err != nil {
		s.errors.Error(w, err)
		return
	}

	if err := s.users.AssignGroup(r.Context(), chi.URLParam(r, "id"), req); err != nil {
		s.fail(w, r, "assign group failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, messageResponse{Message: "group assigned"})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if respond.Status(err) >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), msg, "error", err)
	} else {
		s.logger.Debug(r.Context(), msg, "error", err)
	}
	s.errors.Error(w, err)
}

func (s *Server) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.cookie.MaxAge / time.Second),
		HttpOnly: true,
		Secure:   s.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// decode reads a JSON body into v. Anything that is not a single JSON object
// of the expected shape is unprocessable.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", common.ErrorUnprocessable, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: invalid JSON body: trailing data", common.ErrorUnprocessable)
	}
	return nil
}
