package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/diewo77/faculty-records/internal/httpx"
	"github.com/diewo77/faculty-records/internal/models"
	"github.com/diewo77/faculty-records/internal/policy"
	"github.com/diewo77/faculty-records/internal/services"
)

// HODHandler serves the department views of a head of department. The
// department is always the actor's own; there is no department parameter to
// widen.
type HODHandler struct {
	DB       *gorm.DB
	Profiles *services.ProfileService
	Actors   policy.ActorResolver
}

func NewHODHandler(db *gorm.DB, profiles *services.ProfileService, actors policy.ActorResolver) *HODHandler {
	return &HODHandler{DB: db, Profiles: profiles, Actors: actors}
}

// require resolves the actor and enforces an HOD with a faculty profile. An
// HOD account without a profile has no department and gets nothing.
func (h *HODHandler) require(w http.ResponseWriter, r *http.Request) (policy.Actor, bool) {
	actor, ok := resolveActor(w, r, h.Actors)
	if !ok {
		return policy.Actor{}, false
	}
	if !actor.Hod || !actor.HasProfile() {
		httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
		return policy.Actor{}, false
	}
	return actor, true
}

// Faculty lists the department's profiles, optionally filtered by
// ?status=pending|approved|frozen|unfrozen.
func (h *HODHandler) Faculty(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.require(w, r)
	if !ok {
		return
	}
	status := models.ProfileStatus(r.URL.Query().Get("status"))
	switch status {
	case "", models.StatusPending, models.StatusApproved, models.StatusFrozen, models.StatusUnfrozen:
	default:
		httpx.JSONError(w, http.StatusBadRequest, "invalid_status", nil)
		return
	}
	rows, err := h.Profiles.ListDepartment(r.Context(), actor.DepartmentID, status)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

// Pending is the approval queue.
func (h *HODHandler) Pending(w http.ResponseWriter, r *http.Request) {
	h.byStatus(w, r, models.StatusPending)
}

// Frozen lists profiles waiting for an unfreeze.
func (h *HODHandler) Frozen(w http.ResponseWriter, r *http.Request) {
	h.byStatus(w, r, models.StatusFrozen)
}

// Report aggregates the department: profile counts per status plus record
// totals and per-faculty averages.
func (h *HODHandler) Report(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.require(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	deptID := actor.DepartmentID

	byStatus := map[string]int64{}
	var total int64
	for _, st := range []models.ProfileStatus{models.StatusPending, models.StatusApproved, models.StatusFrozen, models.StatusUnfrozen} {
		var n int64
		if err := h.DB.WithContext(ctx).Model(&models.Faculty{}).
			Where("department_id = ? AND profile_status = ?", deptID, st).Count(&n).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			return
		}
		byStatus[string(st)] = n
		total += n
	}

	records := map[string]int64{}
	counts := []struct {
		name  string
		model any
	}{
		{"publications", &models.ResearchPublication{}},
		{"workshops", &models.WorkshopSeminar{}},
		{"awards", &models.HonoursAward{}},
		{"projects", &models.ResearchConsultancy{}},
	}
	for _, c := range counts {
		var n int64
		err := h.DB.WithContext(ctx).Model(c.model).
			Where("faculty_id IN (?)", h.DB.Model(&models.Faculty{}).Select("id").Where("department_id = ?", deptID)).
			Count(&n).Error
		if err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			return
		}
		records[c.name] = n
	}

	averages := map[string]float64{}
	if total > 0 {
		for name, n := range records {
			averages[name] = float64(n) / float64(total)
		}
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"department_id":      deptID,
		"faculty_total":      total,
		"profiles_by_status": byStatus,
		"record_totals":      records,
		"per_faculty":        averages,
	})
}

func (h *HODHandler) byStatus(w http.ResponseWriter, r *http.Request, status models.ProfileStatus) {
	actor, ok := h.require(w, r)
	if !ok {
		return
	}
	rows, err := h.Profiles.ListDepartment(r.Context(), actor.DepartmentID, status)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}
