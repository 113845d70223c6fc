package policy

import "testing"

var allActions = []Action{ActionView, ActionEdit, ActionApprove, ActionFreeze, ActionUnfreeze}

func TestCanAdminAndPrincipal(t *testing.T) {
	target := Target{OwnerUserID: 99, DepartmentID: 5}
	for _, actor := range []Actor{
		{UserID: 1, Admin: true},
		{UserID: 2, Principal: true},
	} {
		for _, action := range allActions {
			if !Can(actor, target, action) {
				t.Errorf("actor %+v denied %s", actor, action)
			}
		}
	}
}

func TestCanHOD(t *testing.T) {
	hod := Actor{UserID: 3, Hod: true, FacultyID: 10, DepartmentID: 5}
	same := Target{OwnerUserID: 99, DepartmentID: 5}
	other := Target{OwnerUserID: 99, DepartmentID: 6}

	for _, action := range allActions {
		if !Can(hod, same, action) {
			t.Errorf("hod denied %s in own department", action)
		}
		if Can(hod, other, action) {
			t.Errorf("hod allowed %s in another department", action)
		}
	}
}

func TestCanHODWithoutProfile(t *testing.T) {
	// an HOD account with no faculty profile has no department to scope to
	hod := Actor{UserID: 3, Hod: true}
	target := Target{OwnerUserID: 99, DepartmentID: 0}
	for _, action := range allActions {
		if Can(hod, target, action) {
			t.Errorf("profileless hod allowed %s", action)
		}
	}
}

func TestCanFaculty(t *testing.T) {
	self := Actor{UserID: 7, Faculty: true, FacultyID: 20, DepartmentID: 5}
	own := Target{OwnerUserID: 7, DepartmentID: 5}
	other := Target{OwnerUserID: 8, DepartmentID: 5}

	cases := []struct {
		action Action
		want   bool
	}{
		{ActionView, true},
		{ActionEdit, true},
		{ActionFreeze, true},
		{ActionApprove, false},
		{ActionUnfreeze, false},
	}
	for _, tc := range cases {
		if got := Can(self, own, tc.action); got != tc.want {
			t.Errorf("faculty on own profile, %s = %v, want %v", tc.action, got, tc.want)
		}
	}
	for _, action := range allActions {
		if Can(self, other, action) {
			t.Errorf("faculty allowed %s on another profile in same department", action)
		}
	}
}

func TestCanStudent(t *testing.T) {
	student := Actor{UserID: 11}
	target := Target{OwnerUserID: 11, DepartmentID: 5}
	for _, action := range allActions {
		if Can(student, target, action) {
			t.Errorf("roleless actor allowed %s", action)
		}
	}
}

func TestAuthorize(t *testing.T) {
	if err := Authorize(Actor{Admin: true}, Target{}, ActionApprove); err != nil {
		t.Errorf("admin approve: %v", err)
	}
	if err := Authorize(Actor{}, Target{}, ActionView); err != ErrDenied {
		t.Errorf("expected ErrDenied, got %v", err)
	}
}
