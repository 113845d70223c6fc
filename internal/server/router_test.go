package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/faculty-records/internal/db"
	"github.com/diewo77/faculty-records/internal/notify"
	"github.com/diewo77/faculty-records/internal/storage"
)

type nullStore struct{}

func (nullStore) Store(storage.Upload) (string, error) { return "k", nil }
func (nullStore) Delete(string) error                  { return nil }

type nullNotifier struct{}

func (nullNotifier) Notify(context.Context, notify.Event, string, string) {}

func newTestRouter(t *testing.T, name string) http.Handler {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := gdb.AutoMigrate(db.AllModels()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.Seed(gdb); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return New(Deps{DB: gdb, Store: nullStore{}, Notifier: nullNotifier{}, ActorCacheTTL: time.Minute})
}

func TestHealthEndpoints(t *testing.T) {
	h := newTestRouter(t, t.Name())

	for _, path := range []string{"/health", "/healthz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status %d", path, rec.Code)
		}
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	h := newTestRouter(t, t.Name())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("/api/auth/me without session: %d, want 401", rec.Code)
	}
}

func TestRegisterLoginMe(t *testing.T) {
	h := newTestRouter(t, t.Name())

	post := func(path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := post("/api/auth/register", `{"username":"asha","email":"asha@example.edu","password":"secret123","first_name":"Asha"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", rec.Code, rec.Body)
	}

	rec = post("/api/auth/login", `{"username":"asha","password":"secret123"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rec.Code, rec.Body)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("login set no session cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusOK {
		t.Fatalf("me: %d %s", rec2.Code, rec2.Body)
	}
	var out map[string]any
	if err := json.Unmarshal(rec2.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if _, ok := out["user"]; !ok {
		t.Errorf("me body = %s", rec2.Body)
	}

	rec = post("/api/auth/login", `{"username":"asha","password":"wrong"}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad login: %d, want 401", rec.Code)
	}
}

func TestLookupRouteRequiresAuth(t *testing.T) {
	h := newTestRouter(t, t.Name())

	req := httptest.NewRequest(http.MethodGet, "/api/lookups/publication_type", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("lookups without session: %d, want 401", rec.Code)
	}
}
