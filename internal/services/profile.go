package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/faculty-records/internal/models"
	"github.com/diewo77/faculty-records/internal/notify"
	"github.com/diewo77/faculty-records/internal/policy"
	"github.com/diewo77/faculty-records/internal/storage"
	"github.com/diewo77/faculty-records/internal/validation"
)

// Attachment slots on the profile itself.
const (
	SlotPhoto  = "photo"
	SlotAadhar = "aadhar"
	SlotPan    = "pan"
)

// ProfileService owns the faculty profile lifecycle: creation, edits behind
// the edit gate, and the approve/freeze/unfreeze transitions.
//
// Every transition is a single compare-and-set UPDATE keyed on the status the
// caller read, so two racing transitions cannot both win and status and
// edit_enabled can never drift apart.
type ProfileService struct {
	DB     *gorm.DB
	Store  storage.Store
	Notify notify.Notifier
	Cache  ActorCache
}

func NewProfileService(db *gorm.DB, store storage.Store, n notify.Notifier, cache ActorCache) *ProfileService {
	return &ProfileService{DB: db, Store: store, Notify: n, Cache: cache}
}

// Get loads a profile with its department after a view check.
func (s *ProfileService) Get(ctx context.Context, actor policy.Actor, id uint) (*models.Faculty, error) {
	f, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.TargetOf(f), policy.ActionView); err != nil {
		return nil, err
	}
	return f, nil
}

// CreateProfileInput is the profile creation request. UserID is the owning
// account; zero means the actor's own.
type CreateProfileInput struct {
	UserID       uint       `json:"user_id"`
	Regdno       string     `json:"regdno"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Gender       string     `json:"gender"`
	DOB          *time.Time `json:"dob"`
	ContactNo    string     `json:"contact_no"`
	Email        string     `json:"email"`
	Address      string     `json:"address"`
	JoinDate     time.Time  `json:"join_date"`
	DepartmentID uint       `json:"department_id"`
}

// Validate reports field-level problems.
func (in CreateProfileInput) Validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("regdno", in.Regdno, v)
	validation.MaxLen("regdno", in.Regdno, 20, v)
	validation.Required("first_name", in.FirstName, v)
	validation.MaxLen("first_name", in.FirstName, 50, v)
	validation.MaxLen("last_name", in.LastName, 50, v)
	validation.Required("email", in.Email, v)
	validation.MaxLen("email", in.Email, 100, v)
	validation.OneOf("gender", in.Gender, []string{"male", "female", "other"}, v)
	if in.DepartmentID == 0 {
		v["department_id"] = "required"
	}
	if in.JoinDate.IsZero() {
		v["join_date"] = "required"
	}
	return v
}

// Create makes a pending profile for the given account. Faculty may only
// create their own; admins and principals may create for anyone.
func (s *ProfileService) Create(ctx context.Context, actor policy.Actor, in CreateProfileInput) (*models.Faculty, error) {
	ownerID := in.UserID
	if ownerID == 0 {
		ownerID = actor.UserID
	}
	if ownerID != actor.UserID && !actor.Admin && !actor.Principal {
		return nil, policy.ErrDenied
	}

	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Faculty{}).Where("user_id = ?", ownerID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrProfileExists
	}
	if err := s.DB.WithContext(ctx).Model(&models.Faculty{}).Where("regdno = ?", in.Regdno).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateRegdno
	}
	if err := s.DB.WithContext(ctx).Model(&models.Faculty{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateEmail
	}
	var dept models.Department
	if err := s.DB.WithContext(ctx).First(&dept, in.DepartmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	f := models.Faculty{
		UserID:        ownerID,
		Regdno:        strings.TrimSpace(in.Regdno),
		FirstName:     strings.TrimSpace(in.FirstName),
		LastName:      strings.TrimSpace(in.LastName),
		Gender:        in.Gender,
		DOB:           in.DOB,
		ContactNo:     in.ContactNo,
		Email:         strings.ToLower(strings.TrimSpace(in.Email)),
		Address:       in.Address,
		JoinDate:      in.JoinDate,
		IsActive:      true,
		EditEnabled:   true,
		ProfileStatus: models.StatusPending,
		DepartmentID:  in.DepartmentID,
		Visibility:    models.VisibilityShow,
	}
	if err := s.DB.WithContext(ctx).Create(&f).Error; err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Create(&models.FacultyDetails{FacultyID: f.ID, Visibility: models.VisibilityShow}).Error; err != nil {
		return nil, err
	}
	// the owner's actor now carries a faculty identity
	if s.Cache != nil {
		s.Cache.Invalidate(ownerID)
	}
	return &f, nil
}

// UpdateProfileInput carries the editable profile fields.
type UpdateProfileInput struct {
	FirstName  string            `json:"first_name"`
	LastName   string            `json:"last_name"`
	Gender     string            `json:"gender"`
	DOB        *time.Time        `json:"dob"`
	ContactNo  string            `json:"contact_no"`
	Address    string            `json:"address"`
	Visibility models.Visibility `json:"visibility"`
}

func (in UpdateProfileInput) Validate() validation.Violations {
	v := validation.Violations{}
	validation.Required("first_name", in.FirstName, v)
	validation.MaxLen("first_name", in.FirstName, 50, v)
	validation.MaxLen("last_name", in.LastName, 50, v)
	validation.OneOf("gender", in.Gender, []string{"male", "female", "other"}, v)
	validation.OneOf("visibility", string(in.Visibility), []string{string(models.VisibilityShow), string(models.VisibilityHide)}, v)
	return v
}

// Update edits profile fields. Requires the edit permission and an open edit
// gate; the write is fenced on the status the caller read, so a freeze that
// lands in between makes this return ErrConflict instead of writing.
func (s *ProfileService) Update(ctx context.Context, actor policy.Actor, id uint, in UpdateProfileInput) (*models.Faculty, error) {
	f, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.TargetOf(f), policy.ActionEdit); err != nil {
		return nil, err
	}
	if !f.CanEdit() {
		return nil, ErrEditBlocked
	}
	updates := map[string]any{
		"first_name": strings.TrimSpace(in.FirstName),
		"last_name":  strings.TrimSpace(in.LastName),
		"gender":     in.Gender,
		"dob":        in.DOB,
		"contact_no": in.ContactNo,
		"address":    in.Address,
	}
	if in.Visibility != "" {
		updates["visibility"] = in.Visibility
	}
	// a first edit takes the profile out of pending
	if f.ProfileStatus == models.StatusPending {
		updates["profile_status"] = models.StatusUnfrozen
	}
	res := s.DB.WithContext(ctx).Model(&models.Faculty{}).
		Where("id = ? AND profile_status = ?", f.ID, f.ProfileStatus).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrConflict
	}
	return s.load(ctx, id)
}

// UpsertDetails creates or updates the extended-details row behind the same
// edit gate as the profile itself.
func (s *ProfileService) UpsertDetails(ctx context.Context, actor policy.Actor, facultyID uint, details models.FacultyDetails) (*models.FacultyDetails, error) {
	f, err := s.load(ctx, facultyID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.TargetOf(f), policy.ActionEdit); err != nil {
		return nil, err
	}
	if !f.CanEdit() {
		return nil, ErrEditBlocked
	}
	var existing models.FacultyDetails
	err = s.DB.WithContext(ctx).Where("faculty_id = ?", facultyID).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		details.ID = 0
		details.FacultyID = facultyID
		if err := s.DB.WithContext(ctx).Create(&details).Error; err != nil {
			return nil, err
		}
		return &details, nil
	case err != nil:
		return nil, err
	}
	details.ID = existing.ID
	details.FacultyID = facultyID
	details.CreatedAt = existing.CreatedAt
	if err := s.DB.WithContext(ctx).Save(&details).Error; err != nil {
		return nil, err
	}
	return &details, nil
}

// Approve marks the profile approved and notifies the owner. Approval is a
// review outcome, not an edit, so it ignores the edit gate; approving a
// frozen profile is unusual but allowed, and leaves the freeze in place.
func (s *ProfileService) Approve(ctx context.Context, actor policy.Actor, id uint) (*models.Faculty, error) {
	f, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.TargetOf(f), policy.ActionApprove); err != nil {
		return nil, err
	}
	if f.ProfileStatus == models.StatusFrozen {
		log.Printf("approving frozen profile %d; freeze stays in place", f.ID)
	}
	res := s.DB.WithContext(ctx).Model(&models.Faculty{}).
		Where("id = ? AND profile_status = ?", f.ID, f.ProfileStatus).
		Update("profile_status", models.StatusApproved)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrConflict
	}
	s.Notify.Notify(ctx, notify.EventProfileApproved, f.Email, f.FullName())
	return s.load(ctx, id)
}

// Freeze locks the profile: status and the edit flag flip in one statement.
// Faculty may freeze their own profile; only wider roles can undo it.
func (s *ProfileService) Freeze(ctx context.Context, actor policy.Actor, id uint) (*models.Faculty, error) {
	f, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.TargetOf(f), policy.ActionFreeze); err != nil {
		return nil, err
	}
	if f.ProfileStatus == models.StatusFrozen {
		return nil, ErrConflict
	}
	res := s.DB.WithContext(ctx).Model(&models.Faculty{}).
		Where("id = ? AND profile_status = ?", f.ID, f.ProfileStatus).
		Updates(map[string]any{
			"profile_status": models.StatusFrozen,
			"edit_enabled":   false,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrConflict
	}
	s.Notify.Notify(ctx, notify.EventProfileFrozen, f.Email, f.FullName())
	return s.load(ctx, id)
}

// Unfreeze reopens a frozen profile for edits. The guard is in the WHERE
// clause: only a currently frozen row transitions.
func (s *ProfileService) Unfreeze(ctx context.Context, actor policy.Actor, id uint) (*models.Faculty, error) {
	f, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.TargetOf(f), policy.ActionUnfreeze); err != nil {
		return nil, err
	}
	res := s.DB.WithContext(ctx).Model(&models.Faculty{}).
		Where("id = ? AND profile_status = ?", f.ID, models.StatusFrozen).
		Updates(map[string]any{
			"profile_status": models.StatusUnfrozen,
			"edit_enabled":   true,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrConflict
	}
	s.Notify.Notify(ctx, notify.EventProfileUnfrozen, f.Email, f.FullName())
	return s.load(ctx, id)
}

// ReplaceAttachment stores a new file for one of the profile slots (photo,
// aadhar, pan) and releases the previous one. File first, then row, then the
// pointer; a failed row insert removes the orphaned file.
func (s *ProfileService) ReplaceAttachment(ctx context.Context, actor policy.Actor, id uint, slot string, up storage.Upload) (*models.Attachment, error) {
	f, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.TargetOf(f), policy.ActionEdit); err != nil {
		return nil, err
	}
	if !f.CanEdit() {
		return nil, ErrEditBlocked
	}
	var column string
	var oldID *uint
	switch slot {
	case SlotPhoto:
		column, oldID = "photo_attachment_id", f.PhotoAttachmentID
	case SlotAadhar:
		column, oldID = "aadhar_attachment_id", f.AadharAttachmentID
	case SlotPan:
		column, oldID = "pan_attachment_id", f.PanAttachmentID
	default:
		return nil, ErrInvalidRecord
	}

	att, err := s.storeAttachment(ctx, up)
	if err != nil {
		return nil, err
	}
	res := s.DB.WithContext(ctx).Model(&models.Faculty{}).
		Where("id = ? AND profile_status = ?", f.ID, f.ProfileStatus).
		Update(column, att.ID)
	if res.Error != nil || res.RowsAffected == 0 {
		s.releaseAttachment(ctx, att.ID)
		if res.Error != nil {
			return nil, res.Error
		}
		return nil, ErrConflict
	}
	if oldID != nil {
		s.releaseAttachment(ctx, *oldID)
	}
	return att, nil
}

func (s *ProfileService) storeAttachment(ctx context.Context, up storage.Upload) (*models.Attachment, error) {
	key, err := s.Store.Store(up)
	if err != nil {
		return nil, err
	}
	att := models.Attachment{FilePath: key, Kind: models.AttachmentKindDocument, Visibility: models.VisibilityShow, UploadedAt: time.Now()}
	if err := s.DB.WithContext(ctx).Create(&att).Error; err != nil {
		if delErr := s.Store.Delete(key); delErr != nil {
			log.Printf("orphaned upload %s: %v", key, delErr)
		}
		return nil, err
	}
	return &att, nil
}

// releaseAttachment removes the stored file and its row. Failures are logged,
// not propagated: the owning operation already succeeded.
func (s *ProfileService) releaseAttachment(ctx context.Context, id uint) {
	var att models.Attachment
	if err := s.DB.WithContext(ctx).First(&att, id).Error; err != nil {
		return
	}
	if err := s.Store.Delete(att.FilePath); err != nil {
		log.Printf("delete attachment file %s: %v", att.FilePath, err)
	}
	if err := s.DB.WithContext(ctx).Delete(&att).Error; err != nil {
		log.Printf("delete attachment row %d: %v", id, err)
	}
}

// ListDepartment returns the department's profiles, optionally filtered by
// status. Used by HOD views and dashboards.
func (s *ProfileService) ListDepartment(ctx context.Context, deptID uint, status models.ProfileStatus) ([]models.Faculty, error) {
	q := s.DB.WithContext(ctx).Where("department_id = ?", deptID)
	if status != "" {
		q = q.Where("profile_status = ?", status)
	}
	var out []models.Faculty
	if err := q.Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ProfileService) load(ctx context.Context, id uint) (*models.Faculty, error) {
	var f models.Faculty
	err := s.DB.WithContext(ctx).Preload("Department").First(&f, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}
