package services

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/diewo77/faculty-records/internal/models"
	"github.com/diewo77/faculty-records/internal/policy"
	"github.com/diewo77/faculty-records/internal/storage"
)

// RecordService adds and removes rows in the per-faculty record collections
// (work experience, publications and so on). Every mutation goes through the
// parent profile's edit gate and the edit permission, the same checks the
// profile itself uses.
type RecordService struct {
	DB    *gorm.DB
	Store storage.Store
}

func NewRecordService(db *gorm.DB, store storage.Store) *RecordService {
	return &RecordService{DB: db, Store: store}
}

// Add inserts rec into facultyID's collection, optionally storing an
// attachment first. rec's own faculty reference is overwritten; callers
// cannot smuggle a row into another profile.
func (s *RecordService) Add(ctx context.Context, actor policy.Actor, facultyID uint, rec models.Record, up *storage.Upload) error {
	f, err := s.gate(ctx, actor, facultyID)
	if err != nil {
		return err
	}
	rec.SetFacultyRef(f.ID)

	var attKey string
	if up != nil {
		key, err := s.Store.Store(*up)
		if err != nil {
			return err
		}
		att := models.Attachment{FilePath: key, Kind: models.AttachmentKindDocument, Visibility: models.VisibilityShow}
		if err := s.DB.WithContext(ctx).Create(&att).Error; err != nil {
			if delErr := s.Store.Delete(key); delErr != nil {
				log.Printf("orphaned upload %s: %v", key, delErr)
			}
			return err
		}
		attKey = key
		id := att.ID
		rec.SetAttachmentRef(&id)
	}

	if err := s.DB.WithContext(ctx).Create(rec).Error; err != nil {
		if ref := rec.AttachmentRef(); ref != nil {
			if delErr := s.Store.Delete(attKey); delErr != nil {
				log.Printf("orphaned upload %s: %v", attKey, delErr)
			}
			s.DB.WithContext(ctx).Delete(&models.Attachment{}, *ref)
		}
		return err
	}
	return nil
}

// Delete removes the record with the given id from facultyID's collection,
// releasing its attachment file and row first. A record belonging to a
// different profile is rejected, not deleted.
func (s *RecordService) Delete(ctx context.Context, actor policy.Actor, facultyID uint, rec models.Record, recordID uint) error {
	f, err := s.gate(ctx, actor, facultyID)
	if err != nil {
		return err
	}
	err = s.DB.WithContext(ctx).First(rec, recordID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if rec.FacultyRef() != f.ID {
		return ErrInvalidRecord
	}
	if ref := rec.AttachmentRef(); ref != nil {
		var att models.Attachment
		if err := s.DB.WithContext(ctx).First(&att, *ref).Error; err == nil {
			if delErr := s.Store.Delete(att.FilePath); delErr != nil {
				log.Printf("delete attachment file %s: %v", att.FilePath, delErr)
			}
			if delErr := s.DB.WithContext(ctx).Delete(&att).Error; delErr != nil {
				log.Printf("delete attachment row %d: %v", att.ID, delErr)
			}
		}
	}
	return s.DB.WithContext(ctx).Delete(rec, recordID).Error
}

// gate loads the parent profile and enforces the edit permission plus the
// edit gate.
func (s *RecordService) gate(ctx context.Context, actor policy.Actor, facultyID uint) (*models.Faculty, error) {
	var f models.Faculty
	err := s.DB.WithContext(ctx).First(&f, facultyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.TargetOf(&f), policy.ActionEdit); err != nil {
		return nil, err
	}
	if !f.CanEdit() {
		return nil, ErrEditBlocked
	}
	return &f, nil
}

// ListRecords returns facultyID's rows of the given record type, newest
// first. Listing is read-only, so it bypasses the edit gate; view access is
// checked by the caller against the parent profile.
func ListRecords[T any](ctx context.Context, gdb *gorm.DB, facultyID uint) ([]T, error) {
	var out []T
	if err := gdb.WithContext(ctx).Where("faculty_id = ?", facultyID).Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
