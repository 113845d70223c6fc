package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/diewo77/faculty-records/internal/auth"
	"github.com/diewo77/faculty-records/internal/httpx"
	"github.com/diewo77/faculty-records/internal/models"
	"github.com/diewo77/faculty-records/internal/services"
	"github.com/diewo77/faculty-records/internal/validation"
)

type AuthHandler struct {
	DB       *gorm.DB
	Accounts *services.AccountService
}

func NewAuthHandler(db *gorm.DB, accounts *services.AccountService) *AuthHandler {
	return &AuthHandler{DB: db, Accounts: accounts}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("username", in.Username, v)
	validation.MaxLen("username", in.Username, 64, v)
	validation.Required("email", in.Email, v)
	validation.MaxLen("email", in.Email, 120, v)
	validation.Required("password", in.Password, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	user, err := h.Accounts.Register(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	user, err := h.Accounts.Authenticate(r.Context(), in.Username, in.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	auth.CreateSession(w, user.ID)
	httpx.JSON(w, http.StatusOK, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// Me returns the logged-in account with roles and, when present, its faculty
// profile id.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var user models.User
	if err := h.DB.WithContext(r.Context()).Preload("Roles").First(&user, uid).Error; err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	out := map[string]any{"user": user}
	var f models.Faculty
	if err := h.DB.WithContext(r.Context()).Select("id").Where("user_id = ?", uid).First(&f).Error; err == nil {
		out["faculty_id"] = f.ID
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var in struct {
		Current string `json:"current_password"`
		Next    string `json:"new_password"`
	}
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if in.Next == "" {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", validation.Violations{"new_password": "required"})
		return
	}
	if err := h.Accounts.ChangePassword(r.Context(), uid, in.Current, in.Next); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "password_changed"})
}
