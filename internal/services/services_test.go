package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/faculty-records/internal/db"
	"github.com/diewo77/faculty-records/internal/models"
	"github.com/diewo77/faculty-records/internal/notify"
	"github.com/diewo77/faculty-records/internal/policy"
	"github.com/diewo77/faculty-records/internal/storage"
)

func setupTestDB(t *testing.T, name string) *gorm.DB {
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
	return gdb
}

// fakeStore keeps uploads in memory and records deletes.
type fakeStore struct {
	mu      sync.Mutex
	n       int
	files   map[string]bool
	deleted []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{files: map[string]bool{}}
}

func (s *fakeStore) Store(up storage.Upload) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	key := fmt.Sprintf("file-%d", s.n)
	s.files[key] = true
	return key, nil
}

func (s *fakeStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, key)
	s.deleted = append(s.deleted, key)
	return nil
}

// fakeNotifier records delivered events.
type fakeNotifier struct {
	mu     sync.Mutex
	events []notify.Event
	emails []string
}

func (n *fakeNotifier) Notify(_ context.Context, ev notify.Event, email, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
	n.emails = append(n.emails, email)
}

// seedFaculty creates a department, a user and its faculty profile.
func seedFaculty(t *testing.T, gdb *gorm.DB, regdno string, deptID uint) *models.Faculty {
	t.Helper()
	u := models.User{Username: "u-" + regdno, Email: regdno + "@example.edu", PasswordHash: "x"}
	if err := gdb.Create(&u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	f := models.Faculty{
		UserID:        u.ID,
		Regdno:        regdno,
		FirstName:     "Test",
		Email:         regdno + "@faculty.example.edu",
		JoinDate:      time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:      true,
		EditEnabled:   true,
		ProfileStatus: models.StatusPending,
		DepartmentID:  deptID,
	}
	if err := gdb.Create(&f).Error; err != nil {
		t.Fatalf("seed faculty: %v", err)
	}
	return &f
}

func seedDepartment(t *testing.T, gdb *gorm.DB, code string) *models.Department {
	t.Helper()
	c := models.College{Name: "College " + code, Code: "C" + code}
	if err := gdb.Create(&c).Error; err != nil {
		t.Fatalf("seed college: %v", err)
	}
	d := models.Department{Name: "Dept " + code, Code: code, CollegeID: c.ID}
	if err := gdb.Create(&d).Error; err != nil {
		t.Fatalf("seed department: %v", err)
	}
	return &d
}

func uploadFixture(name string) storage.Upload {
	return storage.Upload{Name: name, Content: strings.NewReader("data")}
}

func adminActor() policy.Actor { return policy.Actor{UserID: 1000, Admin: true} }

func ownerActor(f *models.Faculty) policy.Actor {
	return policy.Actor{UserID: f.UserID, Faculty: true, FacultyID: f.ID, DepartmentID: f.DepartmentID}
}
