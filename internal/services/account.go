package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/diewo77/faculty-records/internal/models"
)

// ActorCache is the slice of the resolver cache the account service needs:
// role changes must drop the stale cached actor.
type ActorCache interface {
	Invalidate(userID uint)
}

// AccountService handles authentication and account administration.
type AccountService struct {
	DB    *gorm.DB
	Cache ActorCache
}

func NewAccountService(db *gorm.DB, cache ActorCache) *AccountService {
	return &AccountService{DB: db, Cache: cache}
}

// Authenticate checks username and password and returns the user with roles
// preloaded. Deactivated accounts cannot log in.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Preload("Roles").Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactive
	}
	return &user, nil
}

// RegisterInput is a new account request.
type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Register creates an account with the faculty role.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateUsername
	}
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	var role models.Role
	if err := s.DB.WithContext(ctx).Where("name = ?", models.RoleFaculty).First(&role).Error; err != nil {
		return nil, err
	}
	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		IsActive:     true,
		Roles:        []models.Role{role},
	}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword verifies the current password before setting a new one.
func (s *AccountService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Model(&user).Update("password_hash", string(hash)).Error
}

// SetRoles replaces the user's role set and drops the cached actor so the
// change takes effect on the next request.
func (s *AccountService) SetRoles(ctx context.Context, userID uint, roleNames []string) error {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	var roles []models.Role
	if err := s.DB.WithContext(ctx).Where("name IN ?", roleNames).Find(&roles).Error; err != nil {
		return err
	}
	if len(roles) != len(roleNames) {
		return ErrUnknownRole
	}
	if err := s.DB.WithContext(ctx).Model(&user).Association("Roles").Replace(roles); err != nil {
		return err
	}
	if s.Cache != nil {
		s.Cache.Invalidate(userID)
	}
	return nil
}

// Deactivate disables login for the account without deleting it. Accounts
// referenced by faculty profiles must stay resolvable.
func (s *AccountService) Deactivate(ctx context.Context, userID uint) error {
	res := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	if s.Cache != nil {
		s.Cache.Invalidate(userID)
	}
	return nil
}
