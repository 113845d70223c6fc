package handlers

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/diewo77/faculty-records/internal/httpx"
	"github.com/diewo77/faculty-records/internal/models"
	"github.com/diewo77/faculty-records/internal/policy"
	"github.com/diewo77/faculty-records/internal/services"
	"github.com/diewo77/faculty-records/internal/validation"
)

// AdminHandler covers account administration, the org structure (colleges,
// departments, programs) and the institution dashboard.
type AdminHandler struct {
	DB       *gorm.DB
	Accounts *services.AccountService
	Actors   policy.ActorResolver
}

func NewAdminHandler(db *gorm.DB, accounts *services.AccountService, actors policy.ActorResolver) *AdminHandler {
	return &AdminHandler{DB: db, Accounts: accounts, Actors: actors}
}

// require resolves the actor and enforces the admin role (principal counts
// when wide is set).
func (h *AdminHandler) require(w http.ResponseWriter, r *http.Request, wide bool) (policy.Actor, bool) {
	actor, ok := resolveActor(w, r, h.Actors)
	if !ok {
		return policy.Actor{}, false
	}
	if actor.Admin || (wide && actor.Principal) {
		return actor, true
	}
	httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
	return policy.Actor{}, false
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.require(w, r, true); !ok {
		return
	}
	var users []models.User
	if err := h.DB.WithContext(r.Context()).Preload("Roles").Order("id").Find(&users).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, users)
}

func (h *AdminHandler) SetRoles(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.require(w, r, false); !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in struct {
		Roles []string `json:"roles"`
	}
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if err := h.Accounts.SetRoles(r.Context(), id, in.Roles); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "roles_updated"})
}

func (h *AdminHandler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.require(w, r, false)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if id == actor.UserID {
		httpx.JSONError(w, http.StatusConflict, "cannot_deactivate_self", nil)
		return
	}
	if err := h.Accounts.Deactivate(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

func (h *AdminHandler) CreateCollege(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.require(w, r, false); !ok {
		return
	}
	var in models.College
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.Required("code", in.Code, v)
	validation.MaxLen("code", in.Code, 20, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	in.ID = 0
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	taken, err := h.codeTaken(r, &models.College{}, in.Code)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	if taken {
		writeServiceError(w, services.ErrDuplicateCode)
		return
	}
	if err := h.DB.WithContext(r.Context()).Create(&in).Error; err != nil {
		if isDuplicateKey(err) {
			writeServiceError(w, services.ErrDuplicateCode)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, in)
}

func (h *AdminHandler) ListColleges(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.require(w, r, true); !ok {
		return
	}
	var out []models.College
	if err := h.DB.WithContext(r.Context()).Preload("Departments").Order("id").Find(&out).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *AdminHandler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.require(w, r, false); !ok {
		return
	}
	var in models.Department
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.Required("code", in.Code, v)
	validation.MaxLen("code", in.Code, 20, v)
	if in.CollegeID == 0 {
		v["college_id"] = "required"
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	in.ID = 0
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	taken, err := h.codeTaken(r, &models.Department{}, in.Code)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	if taken {
		writeServiceError(w, services.ErrDuplicateCode)
		return
	}
	var college models.College
	if err := h.DB.WithContext(r.Context()).First(&college, in.CollegeID).Error; err != nil {
		writeServiceError(w, services.ErrNotFound)
		return
	}
	if err := h.DB.WithContext(r.Context()).Create(&in).Error; err != nil {
		if isDuplicateKey(err) {
			writeServiceError(w, services.ErrDuplicateCode)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, in)
}

func (h *AdminHandler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.require(w, r, true); !ok {
		return
	}
	var out []models.Department
	if err := h.DB.WithContext(r.Context()).Preload("Programs").Order("id").Find(&out).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

// DeleteDepartment refuses when the department still has faculty profiles.
func (h *AdminHandler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.require(w, r, false); !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var count int64
	if err := h.DB.WithContext(r.Context()).Model(&models.Faculty{}).Where("department_id = ?", id).Count(&count).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	if count > 0 {
		writeServiceError(w, services.ErrDepartmentInUse)
		return
	}
	res := h.DB.WithContext(r.Context()).Delete(&models.Department{}, id)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	if res.RowsAffected == 0 {
		writeServiceError(w, services.ErrNotFound)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// AssignHOD grants the hod role to the user and records them on the
// department.
func (h *AdminHandler) AssignHOD(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.require(w, r, false); !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in struct {
		UserID uint `json:"user_id"`
	}
	if err := httpx.Decode(r, &in); err != nil || in.UserID == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	var dept models.Department
	if err := h.DB.WithContext(r.Context()).First(&dept, id).Error; err != nil {
		writeServiceError(w, services.ErrNotFound)
		return
	}
	var user models.User
	if err := h.DB.WithContext(r.Context()).Preload("Roles").First(&user, in.UserID).Error; err != nil {
		writeServiceError(w, services.ErrNotFound)
		return
	}
	names := make([]string, 0, len(user.Roles)+1)
	for _, role := range user.Roles {
		names = append(names, role.Name)
	}
	if !user.IsHOD() {
		names = append(names, models.RoleHOD)
	}
	if err := h.Accounts.SetRoles(r.Context(), user.ID, names); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := h.DB.WithContext(r.Context()).Model(&dept).Update("hod_user_id", user.ID).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "hod_assigned"})
}

func (h *AdminHandler) CreateProgram(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.require(w, r, false); !ok {
		return
	}
	var in models.Program
	if err := httpx.Decode(r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.Required("code", in.Code, v)
	if in.DepartmentID == 0 {
		v["department_id"] = "required"
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	in.ID = 0
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	taken, err := h.codeTaken(r, &models.Program{}, in.Code)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	if taken {
		writeServiceError(w, services.ErrDuplicateCode)
		return
	}
	if err := h.DB.WithContext(r.Context()).Create(&in).Error; err != nil {
		if isDuplicateKey(err) {
			writeServiceError(w, services.ErrDuplicateCode)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, in)
}

// Dashboard reports profile counts per status and totals for the admin and
// principal home pages.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.require(w, r, true); !ok {
		return
	}
	ctx := r.Context()
	byStatus := map[string]int64{}
	for _, st := range []models.ProfileStatus{models.StatusPending, models.StatusApproved, models.StatusFrozen, models.StatusUnfrozen} {
		var n int64
		if err := h.DB.WithContext(ctx).Model(&models.Faculty{}).Where("profile_status = ?", st).Count(&n).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			return
		}
		byStatus[string(st)] = n
	}
	var users, departments int64
	if err := h.DB.WithContext(ctx).Model(&models.User{}).Count(&users).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	if err := h.DB.WithContext(ctx).Model(&models.Department{}).Count(&departments).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}

	type roleCount struct {
		Name  string `json:"name"`
		Count int64  `json:"count"`
	}
	var roles []roleCount
	if err := h.DB.WithContext(ctx).Model(&models.Role{}).
		Select("roles.name AS name, COUNT(user_roles.user_id) AS count").
		Joins("LEFT JOIN user_roles ON user_roles.role_id = roles.id").
		Group("roles.name").
		Scan(&roles).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"profiles_by_status": byStatus,
		"users":              users,
		"departments":        departments,
		"roles":              roles,
	})
}

// Lookups serves the seeded dropdown values for one lookup type. Open to all
// authenticated users.
func (h *AdminHandler) Lookups(w http.ResponseWriter, r *http.Request) {
	typ := r.PathValue("type")
	var out []models.LookupValue
	if err := h.DB.WithContext(r.Context()).Where("type = ?", typ).Order("id").Find(&out).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *AdminHandler) codeTaken(r *http.Request, model any, code string) (bool, error) {
	var count int64
	if err := h.DB.WithContext(r.Context()).Model(model).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// isDuplicateKey recognizes a unique-constraint violation that slipped past
// the codeTaken pre-check, for both the postgres and sqlite drivers.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")
}
