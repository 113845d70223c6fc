package policy

import (
	"errors"

	"github.com/diewo77/faculty-records/internal/models"
)

// ErrDenied is returned by Authorize for any rule that does not allow the
// action. Handlers map it to 403.
var ErrDenied = errors.New("forbidden")

// Target is the authorization view of the faculty profile being acted on.
type Target struct {
	OwnerUserID  uint
	DepartmentID uint
}

// TargetOf builds a Target from a faculty row.
func TargetOf(f *models.Faculty) Target {
	return Target{OwnerUserID: f.UserID, DepartmentID: f.DepartmentID}
}

// Can decides whether actor may perform action on target. Pure function,
// first matching rule wins:
//
//  1. admin and principal may do anything
//  2. an HOD may act on profiles in their own department; an HOD without a
//     faculty profile of their own has no department and is denied
//  3. a faculty member may view and edit their own profile, and freeze it
//     themselves
//  4. everything else is denied
func Can(actor Actor, target Target, action Action) bool {
	if actor.Admin || actor.Principal {
		return true
	}
	if actor.Hod {
		if !actor.HasProfile() {
			return false
		}
		return actor.DepartmentID == target.DepartmentID
	}
	if actor.Faculty && actor.HasProfile() && actor.UserID == target.OwnerUserID {
		switch action {
		case ActionView, ActionEdit, ActionFreeze:
			return true
		}
	}
	return false
}

// Authorize is Can with an error result for call sites that propagate.
func Authorize(actor Actor, target Target, action Action) error {
	if !Can(actor, target, action) {
		return ErrDenied
	}
	return nil
}
