package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/faculty-records/internal/auth"
	"github.com/diewo77/faculty-records/internal/handlers"
	"github.com/diewo77/faculty-records/internal/httpx"
	"github.com/diewo77/faculty-records/internal/models"
	"github.com/diewo77/faculty-records/internal/notify"
	"github.com/diewo77/faculty-records/internal/policy"
	"github.com/diewo77/faculty-records/internal/services"
	"github.com/diewo77/faculty-records/internal/storage"
)

// Deps carries everything the router needs wired in.
type Deps struct {
	DB            *gorm.DB
	Store         storage.Store
	Notifier      notify.Notifier
	ActorCacheTTL time.Duration
}

// New constructs the root http.Handler with all routes and middlewares
// applied.
func New(deps Deps) http.Handler {
	mux := http.NewServeMux()
	db := deps.DB

	// Sessions survive account deactivation; the verifier cuts them off.
	auth.SetUserVerifier(func(ctx context.Context, uid uint) bool {
		var count int64
		if err := db.Model(&models.User{}).Where("id = ? AND is_active = ?", uid, true).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	actors := policy.NewCachedResolver(policy.NewDBResolver(db), deps.ActorCacheTTL)
	accounts := services.NewAccountService(db, actors)
	profiles := services.NewProfileService(db, deps.Store, deps.Notifier, actors)
	records := services.NewRecordService(db, deps.Store)

	// --- Health endpoints ---
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	protect := func(h http.HandlerFunc) http.Handler {
		return auth.Middleware(auth.RequireAuth(h))
	}

	// Auth endpoints
	ah := handlers.NewAuthHandler(db, accounts)
	mux.HandleFunc("POST /api/auth/register", ah.Register)
	mux.HandleFunc("POST /api/auth/login", ah.Login)
	mux.HandleFunc("POST /api/auth/logout", ah.Logout)
	mux.Handle("GET /api/auth/me", protect(ah.Me))
	mux.Handle("POST /api/auth/change-password", protect(ah.ChangePassword))

	// Faculty profile lifecycle
	fh := handlers.NewFacultyHandler(profiles, actors)
	mux.Handle("POST /api/faculty", protect(fh.Create))
	mux.Handle("GET /api/faculty/{id}", protect(fh.Get))
	mux.Handle("PUT /api/faculty/{id}", protect(fh.Update))
	mux.Handle("PUT /api/faculty/{id}/details", protect(fh.UpsertDetails))
	mux.Handle("POST /api/faculty/{id}/approve", protect(fh.Approve))
	mux.Handle("POST /api/faculty/{id}/freeze", protect(fh.Freeze))
	mux.Handle("POST /api/faculty/{id}/unfreeze", protect(fh.Unfreeze))
	mux.Handle("POST /api/faculty/{id}/attachments/{slot}", protect(fh.UploadAttachment))

	// Record collections
	rh := handlers.NewRecordHandler(records, profiles, actors)
	mux.Handle("GET /api/faculty/{id}/records/{collection}", protect(rh.List))
	mux.Handle("POST /api/faculty/{id}/records/{collection}", protect(rh.Add))
	mux.Handle("DELETE /api/faculty/{id}/records/{collection}/{recordID}", protect(rh.Delete))

	// HOD department views
	hh := handlers.NewHODHandler(db, profiles, actors)
	mux.Handle("GET /api/hod/faculty", protect(hh.Faculty))
	mux.Handle("GET /api/hod/pending", protect(hh.Pending))
	mux.Handle("GET /api/hod/frozen", protect(hh.Frozen))
	mux.Handle("GET /api/hod/report", protect(hh.Report))

	// Administration
	adm := handlers.NewAdminHandler(db, accounts, actors)
	mux.Handle("GET /api/admin/users", protect(adm.ListUsers))
	mux.Handle("POST /api/admin/users/{id}/roles", protect(adm.SetRoles))
	mux.Handle("POST /api/admin/users/{id}/deactivate", protect(adm.DeactivateUser))
	mux.Handle("GET /api/admin/colleges", protect(adm.ListColleges))
	mux.Handle("POST /api/admin/colleges", protect(adm.CreateCollege))
	mux.Handle("GET /api/admin/departments", protect(adm.ListDepartments))
	mux.Handle("POST /api/admin/departments", protect(adm.CreateDepartment))
	mux.Handle("DELETE /api/admin/departments/{id}", protect(adm.DeleteDepartment))
	mux.Handle("POST /api/admin/departments/{id}/hod", protect(adm.AssignHOD))
	mux.Handle("POST /api/admin/programs", protect(adm.CreateProgram))
	mux.Handle("GET /api/admin/dashboard", protect(adm.Dashboard))
	mux.Handle("GET /api/lookups/{type}", protect(adm.Lookups))

	return withRecover(withLogging(mux))
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
