package library

import "testing"

func TestMemberEmailUnique(t *testing.T) {
	db := tempDB(t)

	start := date(t, "2024-01-15")
	if _, err := db.AddMember("Paul", "Atreides", "paul@arrakis.example", "555-0100", "Arrakeen", start); err != nil {
		t.Fatalf("add member: %v", err)
	}
	if _, err := db.AddMember("Paul", "Smith", "paul@arrakis.example", "", "", start); !isConstraintErr(err) {
		t.Fatalf("want uniqueness violation for duplicate email, got %v", err)
	}

	members, err := db.ListMembers()
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 1 {
		t.Fatalf("want 1 member, got %d", len(members))
	}
	m := members[0]
	if m.Email != "paul@arrakis.example" || !m.MembershipStart.Equal(start) {
		t.Fatalf("member roundtrip: %+v", m)
	}
}

func TestStaffEmailUnique(t *testing.T) {
	db := tempDB(t)

	hired := date(t, "2023-06-01")
	if _, err := db.AddStaff("Irulan", "Corrino", "irulan@library.example", "", "Archivist", hired); err != nil {
		t.Fatalf("add staff: %v", err)
	}
	if _, err := db.AddStaff("Other", "Person", "irulan@library.example", "", "", hired); !isConstraintErr(err) {
		t.Fatalf("want uniqueness violation for duplicate staff email, got %v", err)
	}
}

func TestStaffRoles(t *testing.T) {
	db := tempDB(t)

	staffID, err := db.AddStaff("Irulan", "Corrino", "irulan@library.example", "", "Archivist", date(t, "2023-06-01"))
	if err != nil {
		t.Fatalf("add staff: %v", err)
	}
	adminID, err := db.AddStaffRole("Administrator")
	if err != nil {
		t.Fatalf("add role: %v", err)
	}
	deskID, _ := db.AddStaffRole("Front Desk")

	// Role names are unique.
	if _, err := db.AddStaffRole("Administrator"); !isConstraintErr(err) {
		t.Fatalf("want uniqueness violation for duplicate role name, got %v", err)
	}

	if err := db.AssignStaffRole(staffID, adminID); err != nil {
		t.Fatalf("assign role: %v", err)
	}
	if err := db.AssignStaffRole(staffID, deskID); err != nil {
		t.Fatalf("assign role: %v", err)
	}
	if err := db.AssignStaffRole(staffID, adminID); !isConstraintErr(err) {
		t.Fatalf("want composite-PK violation for duplicate assignment, got %v", err)
	}
	if err := db.AssignStaffRole(99999, adminID); !isConstraintErr(err) {
		t.Fatalf("want FK violation for unknown staff, got %v", err)
	}

	roles, err := db.RolesOfStaff(staffID)
	if err != nil {
		t.Fatalf("roles of staff: %v", err)
	}
	if len(roles) != 2 {
		t.Fatalf("want 2 roles, got %d", len(roles))
	}

	if err := db.RevokeStaffRole(staffID, deskID); err != nil {
		t.Fatalf("revoke role: %v", err)
	}
	if err := db.RevokeStaffRole(staffID, deskID); err == nil {
		t.Fatal("want error revoking an absent assignment")
	}
	roles, _ = db.RolesOfStaff(staffID)
	if len(roles) != 1 || roles[0].Name != "Administrator" {
		t.Fatalf("unexpected roles after revoke: %+v", roles)
	}
}
