package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/diewo77/faculty-records/internal/models"
	"github.com/diewo77/faculty-records/internal/policy"
)

func newRecordService(t *testing.T, name string) (*RecordService, *fakeStore) {
	gdb := setupTestDB(t, name)
	store := newFakeStore()
	return NewRecordService(gdb, store), store
}

func TestAddRecord(t *testing.T) {
	svc, _ := newRecordService(t, t.Name())
	dept := seedDepartment(t, svc.DB, "CSE")
	f := seedFaculty(t, svc.DB, "REC001", dept.ID)

	pub := &models.ResearchPublication{Title: "A Study", JournalName: "J. of Examples"}
	if err := svc.Add(context.Background(), ownerActor(f), f.ID, pub, nil); err != nil {
		t.Fatalf("add: %v", err)
	}
	if pub.FacultyID != f.ID {
		t.Errorf("faculty_id = %d, want %d", pub.FacultyID, f.ID)
	}

	rows, err := ListRecords[models.ResearchPublication](context.Background(), svc.DB, f.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Title != "A Study" {
		t.Errorf("rows = %+v", rows)
	}
}

func TestAddRecordOverridesFacultyRef(t *testing.T) {
	svc, _ := newRecordService(t, t.Name())
	dept := seedDepartment(t, svc.DB, "ECE")
	f := seedFaculty(t, svc.DB, "REC010", dept.ID)
	victim := seedFaculty(t, svc.DB, "REC011", dept.ID)

	// a row aimed at someone else's profile lands on the caller's target
	w := &models.WorkExperience{FacultyID: victim.ID, InstitutionName: "Example Inst", ExperienceType: models.ExperienceTeaching}
	if err := svc.Add(context.Background(), ownerActor(f), f.ID, w, nil); err != nil {
		t.Fatalf("add: %v", err)
	}
	if w.FacultyID != f.ID {
		t.Errorf("faculty_id = %d, want %d", w.FacultyID, f.ID)
	}
}

func TestAddRecordBlockedWhenFrozen(t *testing.T) {
	svc, _ := newRecordService(t, t.Name())
	dept := seedDepartment(t, svc.DB, "MEC")
	f := seedFaculty(t, svc.DB, "REC020", dept.ID)
	if err := svc.DB.Model(&models.Faculty{}).Where("id = ?", f.ID).
		Updates(map[string]any{"profile_status": models.StatusFrozen, "edit_enabled": false}).Error; err != nil {
		t.Fatal(err)
	}

	err := svc.Add(context.Background(), adminActor(), f.ID, &models.Activity{Title: "Committee"}, nil)
	if !errors.Is(err, ErrEditBlocked) {
		t.Errorf("add on frozen profile: got %v, want edit_blocked", err)
	}
}

func TestAddRecordDeniedForOtherFaculty(t *testing.T) {
	svc, _ := newRecordService(t, t.Name())
	dept := seedDepartment(t, svc.DB, "CIV")
	f := seedFaculty(t, svc.DB, "REC030", dept.ID)
	other := seedFaculty(t, svc.DB, "REC031", dept.ID)

	err := svc.Add(context.Background(), ownerActor(other), f.ID, &models.Activity{Title: "X"}, nil)
	if !errors.Is(err, policy.ErrDenied) {
		t.Errorf("got %v, want forbidden", err)
	}
}

func TestAddRecordWithAttachment(t *testing.T) {
	svc, store, f := recordFixture(t, t.Name(), "REC040")

	up := uploadFixture("cert.pdf")
	hon := &models.HonoursAward{AwardTitle: "Best Teacher"}
	if err := svc.Add(context.Background(), ownerActor(f), f.ID, hon, &up); err != nil {
		t.Fatalf("add: %v", err)
	}
	if hon.AttachmentID == nil {
		t.Fatal("attachment not linked")
	}
	var att models.Attachment
	if err := svc.DB.First(&att, *hon.AttachmentID).Error; err != nil {
		t.Fatal(err)
	}
	if !store.files[att.FilePath] {
		t.Errorf("stored file %s missing", att.FilePath)
	}
}

func TestDeleteRecordReleasesAttachment(t *testing.T) {
	svc, store, f := recordFixture(t, t.Name(), "REC050")

	up := uploadFixture("cert.pdf")
	hon := &models.HonoursAward{AwardTitle: "Research Award"}
	if err := svc.Add(context.Background(), ownerActor(f), f.ID, hon, &up); err != nil {
		t.Fatal(err)
	}
	attID := *hon.AttachmentID

	if err := svc.Delete(context.Background(), ownerActor(f), f.ID, &models.HonoursAward{}, hon.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var count int64
	if err := svc.DB.Model(&models.HonoursAward{}).Where("id = ?", hon.ID).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Error("record row still present")
	}
	if err := svc.DB.Model(&models.Attachment{}).Where("id = ?", attID).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Error("attachment row still present")
	}
	if len(store.deleted) != 1 {
		t.Errorf("deleted files = %v", store.deleted)
	}
}

func TestDeleteRecordOfOtherFaculty(t *testing.T) {
	svc, _, f := recordFixture(t, t.Name(), "REC060")
	other := seedFaculty(t, svc.DB, "REC061", f.DepartmentID)

	w := &models.WorkExperience{InstitutionName: "Inst", ExperienceType: models.ExperienceIndustry}
	if err := svc.Add(context.Background(), ownerActor(other), other.ID, w, nil); err != nil {
		t.Fatal(err)
	}

	// addressing someone else's record through my own profile id fails
	err := svc.Delete(context.Background(), ownerActor(f), f.ID, &models.WorkExperience{}, w.ID)
	if !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("got %v, want invalid_record", err)
	}

	err = svc.Delete(context.Background(), ownerActor(f), f.ID, &models.WorkExperience{}, 9999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("missing record: got %v, want not_found", err)
	}
}

func TestWorkExperienceDerivesYears(t *testing.T) {
	svc, _, f := recordFixture(t, t.Name(), "REC070")

	from := time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	w := &models.WorkExperience{InstitutionName: "Inst", ExperienceType: models.ExperienceTeaching, FromDate: &from, ToDate: &to}
	if err := svc.Add(context.Background(), ownerActor(f), f.ID, w, nil); err != nil {
		t.Fatal(err)
	}

	var got models.WorkExperience
	if err := svc.DB.First(&got, w.ID).Error; err != nil {
		t.Fatal(err)
	}
	if got.NumberOfYears != 3 {
		t.Errorf("number_of_years = %d, want 3", got.NumberOfYears)
	}
}

func recordFixture(t *testing.T, name, regdno string) (*RecordService, *fakeStore, *models.Faculty) {
	t.Helper()
	svc, store := newRecordService(t, name)
	dept := seedDepartment(t, svc.DB, "D"+regdno)
	f := seedFaculty(t, svc.DB, regdno, dept.ID)
	return svc, store, f
}
