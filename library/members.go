package library

import (
	"fmt"
	"time"
)

// ---------------------------------------------------------------------------
// Members
// ---------------------------------------------------------------------------

// AddMember registers a member. Email is globally unique.
func (d *Database) AddMember(firstName, lastName, email, phone, address string, membershipStart time.Time) (int64, error) {
	return d.stmtInsertID(d.addMemberStmt, firstName, lastName, email, phone, address, membershipStart)
}

func (d *Database) GetMember(id int64) (*Member, error) {
	var m Member
	err := d.db.QueryRow(d.q(`
        SELECT member_id, first_name, last_name, email, COALESCE(phone_number, ''), COALESCE(address, ''), membership_start_date
        FROM members WHERE member_id = ?`), id).
		Scan(&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.PhoneNumber, &m.Address, &m.MembershipStart)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (d *Database) ListMembers() ([]*Member, error) {
	rows, err := d.db.Query(`
        SELECT member_id, first_name, last_name, email, COALESCE(phone_number, ''), COALESCE(address, ''), membership_start_date
        FROM members ORDER BY member_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.PhoneNumber, &m.Address, &m.MembershipStart); err != nil {
			return nil, err
		}
		members = append(members, &m)
	}
	return members, rows.Err()
}

// ---------------------------------------------------------------------------
// Staff and roles
// ---------------------------------------------------------------------------

func (d *Database) AddStaff(firstName, lastName, email, phone, jobTitle string, hireDate time.Time) (int64, error) {
	return d.insertID(`
        INSERT INTO library_staff (first_name, last_name, email, phone_number, job_title, hire_date)
        VALUES (?, ?, ?, ?, ?, ?)`, "staff_id",
		firstName, lastName, email, phone, jobTitle, hireDate)
}

func (d *Database) GetStaff(id int64) (*LibraryStaff, error) {
	var s LibraryStaff
	err := d.db.QueryRow(d.q(`
        SELECT staff_id, first_name, last_name, email, COALESCE(phone_number, ''), COALESCE(job_title, ''), hire_date
        FROM library_staff WHERE staff_id = ?`), id).
		Scan(&s.ID, &s.FirstName, &s.LastName, &s.Email, &s.PhoneNumber, &s.JobTitle, &s.HireDate)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (d *Database) ListStaff() ([]*LibraryStaff, error) {
	rows, err := d.db.Query(`
        SELECT staff_id, first_name, last_name, email, COALESCE(phone_number, ''), COALESCE(job_title, ''), hire_date
        FROM library_staff ORDER BY staff_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var staff []*LibraryStaff
	for rows.Next() {
		var s LibraryStaff
		if err := rows.Scan(&s.ID, &s.FirstName, &s.LastName, &s.Email, &s.PhoneNumber, &s.JobTitle, &s.HireDate); err != nil {
			return nil, err
		}
		staff = append(staff, &s)
	}
	return staff, rows.Err()
}

// AddStaffRole creates a named role. Role names are unique.
func (d *Database) AddStaffRole(name string) (int64, error) {
	return d.insertID(`INSERT INTO staff_roles (role_name) VALUES (?)`, "role_id", name)
}

// AssignStaffRole links a staff record to a role. Assigning the same role
// twice fails on the junction's composite primary key.
func (d *Database) AssignStaffRole(staffID, roleID int64) error {
	_, err := d.db.Exec(d.q(`INSERT INTO library_staff_roles (staff_id, role_id) VALUES (?, ?)`), staffID, roleID)
	return err
}

func (d *Database) RolesOfStaff(staffID int64) ([]*StaffRole, error) {
	rows, err := d.db.Query(d.q(`
        SELECT r.role_id, r.role_name
        FROM library_staff_roles sr
        JOIN staff_roles r ON r.role_id = sr.role_id
        WHERE sr.staff_id = ?
        ORDER BY r.role_name`), staffID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []*StaffRole
	for rows.Next() {
		var r StaffRole
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, err
		}
		roles = append(roles, &r)
	}
	return roles, rows.Err()
}

// RevokeStaffRole removes a role assignment.
func (d *Database) RevokeStaffRole(staffID, roleID int64) error {
	res, err := d.db.Exec(d.q(`DELETE FROM library_staff_roles WHERE staff_id = ? AND role_id = ?`), staffID, roleID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("staff %d does not hold role %d", staffID, roleID)
	}
	return nil
}
