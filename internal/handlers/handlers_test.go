package handlers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/faculty-records/internal/db"
	"github.com/diewo77/faculty-records/internal/models"
	"github.com/diewo77/faculty-records/internal/notify"
	"github.com/diewo77/faculty-records/internal/policy"
	"github.com/diewo77/faculty-records/internal/services"
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

type nullStore struct{}

func (nullStore) Store(storage.Upload) (string, error) { return "stored-key", nil }
func (nullStore) Delete(string) error                  { return nil }

type nullNotifier struct{}

func (nullNotifier) Notify(context.Context, notify.Event, string, string) {}

type fixture struct {
	db       *gorm.DB
	profiles *services.ProfileService
	records  *services.RecordService
	actors   policy.ActorResolver
}

func newFixture(t *testing.T, name string) *fixture {
	gdb := setupTestDB(t, name)
	return &fixture{
		db:       gdb,
		profiles: services.NewProfileService(gdb, nullStore{}, nullNotifier{}, nil),
		records:  services.NewRecordService(gdb, nullStore{}),
		actors:   policy.NewDBResolver(gdb),
	}
}

func newAccounts(fx *fixture) *services.AccountService {
	return services.NewAccountService(fx.db, nil)
}

func mustActor(t *testing.T, fx *fixture, userID uint) policy.Actor {
	t.Helper()
	actor, err := fx.actors.Resolve(context.Background(), userID)
	if err != nil {
		t.Fatal(err)
	}
	return actor
}

// seedUser creates an account with the given roles.
func seedUser(t *testing.T, gdb *gorm.DB, username string, roleNames ...string) *models.User {
	t.Helper()
	var roles []models.Role
	if len(roleNames) > 0 {
		if err := gdb.Where("name IN ?", roleNames).Find(&roles).Error; err != nil {
			t.Fatal(err)
		}
	}
	u := models.User{Username: username, Email: username + "@example.edu", PasswordHash: "x", IsActive: true, Roles: roles}
	if err := gdb.Create(&u).Error; err != nil {
		t.Fatal(err)
	}
	return &u
}

func seedDept(t *testing.T, gdb *gorm.DB, code string) *models.Department {
	t.Helper()
	c := models.College{Name: "College " + code, Code: "C" + code}
	if err := gdb.Create(&c).Error; err != nil {
		t.Fatal(err)
	}
	d := models.Department{Name: "Dept " + code, Code: code, CollegeID: c.ID}
	if err := gdb.Create(&d).Error; err != nil {
		t.Fatal(err)
	}
	return &d
}

func seedProfile(t *testing.T, gdb *gorm.DB, user *models.User, deptID uint, regdno string) *models.Faculty {
	t.Helper()
	f := models.Faculty{
		UserID:        user.ID,
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
		t.Fatal(err)
	}
	return &f
}
