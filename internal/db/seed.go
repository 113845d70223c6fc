package db

import (
	"errors"

	"gorm.io/gorm"

	"github.com/diewo77/faculty-records/internal/models"
)

// Seed upserts roles, their permissions and the lookup tables the record
// forms depend on. Safe to run on every startup.
func Seed(gdb *gorm.DB) error {
	if err := seedRoles(gdb); err != nil {
		return err
	}
	return seedLookups(gdb)
}

func seedRoles(gdb *gorm.DB) error {
	perms := map[string]string{
		"profile:view":     "view any faculty profile",
		"profile:edit":     "edit faculty profiles",
		"profile:approve":  "approve pending profiles",
		"profile:freeze":   "freeze profiles",
		"profile:unfreeze": "unfreeze profiles",
		"users:manage":     "manage accounts and roles",
	}
	byName := map[string]*models.Permission{}
	for name, desc := range perms {
		var p models.Permission
		err := gdb.Where("name = ?", name).First(&p).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			p = models.Permission{Name: name, Description: desc}
			if err := gdb.Create(&p).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		byName[name] = &p
	}

	roles := []struct {
		name, desc string
		perms      []string
	}{
		{models.RoleAdmin, "full access", []string{"profile:view", "profile:edit", "profile:approve", "profile:freeze", "profile:unfreeze", "users:manage"}},
		{models.RolePrincipal, "institution-wide access", []string{"profile:view", "profile:edit", "profile:approve", "profile:freeze", "profile:unfreeze"}},
		{models.RoleHOD, "department-scoped access", []string{"profile:view", "profile:edit", "profile:approve", "profile:freeze", "profile:unfreeze"}},
		{models.RoleFaculty, "own profile only", []string{"profile:view", "profile:edit", "profile:freeze"}},
		{models.RoleStudent, "public pages only", nil},
	}
	for _, r := range roles {
		var role models.Role
		err := gdb.Where("name = ?", r.name).First(&role).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			role = models.Role{Name: r.name, Description: r.desc}
			for _, pn := range r.perms {
				role.Permissions = append(role.Permissions, *byName[pn])
			}
			if err := gdb.Create(&role).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}

func seedLookups(gdb *gorm.DB) error {
	groups := map[string][]string{
		models.LookupPublicationType: {"Journal", "Conference", "Book Chapter", "Book", "Patent"},
		models.LookupWorkshopType:    {"Attended", "Organized", "Conducted"},
		models.LookupFdpMdpType:      {"Faculty Development Program", "Management Development Program", "Staff Development Program", "Training Program"},
		models.LookupAwardCategory:   {"Teaching Excellence", "Research", "Innovation", "Service", "Leadership", "Lifetime Achievement"},
	}
	for typ, values := range groups {
		for _, v := range values {
			var existing models.LookupValue
			err := gdb.Where("type = ? AND value = ?", typ, v).First(&existing).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if err := gdb.Create(&models.LookupValue{Type: typ, Value: v}).Error; err != nil {
					return err
				}
			} else if err != nil {
				return err
			}
		}
	}
	return nil
}
