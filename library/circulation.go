package library

import (
	"database/sql"
	"fmt"
	"time"
)

// ---------------------------------------------------------------------------
// Loans
// ---------------------------------------------------------------------------

// CreateLoan records a book going out to a member. The row starts with a NULL
// return_date, which is the only marker of an outstanding loan; the schema
// imposes no ordering between loan_date and due_date.
func (d *Database) CreateLoan(bookID, memberID int64, loanDate, dueDate time.Time) (int64, error) {
	return d.insertID(`
        INSERT INTO loans (book_id, member_id, loan_date, due_date)
        VALUES (?, ?, ?, ?)`, "loan_id",
		bookID, memberID, loanDate, dueDate)
}

func (d *Database) GetLoan(id int64) (*Loan, error) {
	var (
		l   Loan
		ret sql.NullTime
	)
	err := d.db.QueryRow(d.q(`
        SELECT loan_id, book_id, member_id, loan_date, due_date, return_date
        FROM loans WHERE loan_id = ?`), id).
		Scan(&l.ID, &l.BookID, &l.MemberID, &l.LoanDate, &l.DueDate, &ret)
	if err != nil {
		return nil, err
	}
	l.ReturnDate = timePtr(ret)
	return &l, nil
}

// RecordReturn sets the loan's return_date. Overwriting an earlier return is
// permitted; the schema tracks no lifecycle beyond the column itself.
func (d *Database) RecordReturn(loanID int64, when time.Time) error {
	res, err := d.db.Exec(d.q(`UPDATE loans SET return_date = ? WHERE loan_id = ?`), when, loanID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("loan %d does not exist", loanID)
	}
	return nil
}

// OutstandingLoans lists a member's loans with no return recorded yet.
func (d *Database) OutstandingLoans(memberID int64) ([]*Loan, error) {
	rows, err := d.db.Query(d.q(`
        SELECT loan_id, book_id, member_id, loan_date, due_date, return_date
        FROM loans
        WHERE member_id = ? AND return_date IS NULL
        ORDER BY due_date`), memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLoans(rows)
}

// LoansForBook lists every loan of a book, newest first.
func (d *Database) LoansForBook(bookID int64) ([]*Loan, error) {
	rows, err := d.db.Query(d.q(`
        SELECT loan_id, book_id, member_id, loan_date, due_date, return_date
        FROM loans
        WHERE book_id = ?
        ORDER BY loan_date DESC, loan_id DESC`), bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLoans(rows)
}

func scanLoans(rows *sql.Rows) ([]*Loan, error) {
	var loans []*Loan
	for rows.Next() {
		var (
			l   Loan
			ret sql.NullTime
		)
		if err := rows.Scan(&l.ID, &l.BookID, &l.MemberID, &l.LoanDate, &l.DueDate, &ret); err != nil {
			return nil, err
		}
		l.ReturnDate = timePtr(ret)
		loans = append(loans, &l)
	}
	return loans, rows.Err()
}

// ---------------------------------------------------------------------------
// Fines
// ---------------------------------------------------------------------------

// IssueFine attaches a fine to a loan. How the amount is computed is the
// caller's business; this only stores the row.
func (d *Database) IssueFine(loanID, amountCents int64) (int64, error) {
	return d.insertID(`INSERT INTO fines (loan_id, amount) VALUES (?, ?)`, "fine_id",
		loanID, centsToDecimal(amountCents))
}

func (d *Database) GetFine(id int64) (*Fine, error) {
	var (
		f      Fine
		amount float64
		paid   sql.NullTime
	)
	err := d.db.QueryRow(d.q(`SELECT fine_id, loan_id, amount, payment_date FROM fines WHERE fine_id = ?`), id).
		Scan(&f.ID, &f.LoanID, &amount, &paid)
	if err != nil {
		return nil, err
	}
	f.AmountCents = decimalToCents(amount)
	f.PaymentDate = timePtr(paid)
	return &f, nil
}

// RecordFinePayment sets payment_date; NULL until then means unpaid.
func (d *Database) RecordFinePayment(fineID int64, when time.Time) error {
	res, err := d.db.Exec(d.q(`UPDATE fines SET payment_date = ? WHERE fine_id = ?`), when, fineID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("fine %d does not exist", fineID)
	}
	return nil
}

// UnpaidFines lists a member's unpaid fines across all their loans.
func (d *Database) UnpaidFines(memberID int64) ([]*Fine, error) {
	rows, err := d.db.Query(d.q(`
        SELECT f.fine_id, f.loan_id, f.amount, f.payment_date
        FROM fines f
        JOIN loans l ON l.loan_id = f.loan_id
        WHERE l.member_id = ? AND f.payment_date IS NULL
        ORDER BY f.fine_id`), memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fines []*Fine
	for rows.Next() {
		var (
			f      Fine
			amount float64
			paid   sql.NullTime
		)
		if err := rows.Scan(&f.ID, &f.LoanID, &amount, &paid); err != nil {
			return nil, err
		}
		f.AmountCents = decimalToCents(amount)
		f.PaymentDate = timePtr(paid)
		fines = append(fines, &f)
	}
	return fines, rows.Err()
}

// ---------------------------------------------------------------------------
// Reservations
// ---------------------------------------------------------------------------

// CreateReservation queues a reservation in the Pending state.
func (d *Database) CreateReservation(bookID, memberID int64, date time.Time) (int64, error) {
	return d.insertID(`
        INSERT INTO book_reservations (book_id, member_id, reservation_date)
        VALUES (?, ?, ?)`, "reservation_id",
		bookID, memberID, date)
}

// SetReservationStatus moves a reservation between Pending, Active, Cancelled
// and Completed. Values outside that set are rejected by the schema.
func (d *Database) SetReservationStatus(reservationID int64, status ReservationStatus) error {
	res, err := d.db.Exec(d.q(`UPDATE book_reservations SET status = ? WHERE reservation_id = ?`), string(status), reservationID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("reservation %d does not exist", reservationID)
	}
	return nil
}

func (d *Database) GetReservation(id int64) (*BookReservation, error) {
	var r BookReservation
	err := d.db.QueryRow(d.q(`
        SELECT reservation_id, book_id, member_id, reservation_date, status
        FROM book_reservations WHERE reservation_id = ?`), id).
		Scan(&r.ID, &r.BookID, &r.MemberID, &r.ReservationDate, &r.Status)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ReservationsForBook lists a book's reservations in queue order.
func (d *Database) ReservationsForBook(bookID int64) ([]*BookReservation, error) {
	rows, err := d.db.Query(d.q(`
        SELECT reservation_id, book_id, member_id, reservation_date, status
        FROM book_reservations
        WHERE book_id = ?
        ORDER BY reservation_date, reservation_id`), bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []*BookReservation
	for rows.Next() {
		var r BookReservation
		if err := rows.Scan(&r.ID, &r.BookID, &r.MemberID, &r.ReservationDate, &r.Status); err != nil {
			return nil, err
		}
		reservations = append(reservations, &r)
	}
	return reservations, rows.Err()
}
