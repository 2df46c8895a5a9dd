package library

import "time"

// Publisher is a book publisher. Books reference it through publisher_id.
type Publisher struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Book is a catalogued title. ISBN is globally unique; PublisherID and
// PublishedDate may be absent.
type Book struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	ISBN          string     `json:"isbn"`
	PublishedDate *time.Time `json:"published_date,omitempty"`
	PublisherID   *int64     `json:"publisher_id,omitempty"`
}

// Author of one or more books, linked through the book_authors junction.
type Author struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Member is a registered library member. Email is globally unique.
type Member struct {
	ID              int64     `json:"id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Email           string    `json:"email"`
	PhoneNumber     string    `json:"phone_number"`
	Address         string    `json:"address"`
	MembershipStart time.Time `json:"membership_start_date"`
}

// Loan records a book lent to a member. A nil ReturnDate means the book is
// still out; the schema enforces nothing beyond that.
type Loan struct {
	ID         int64      `json:"id"`
	BookID     int64      `json:"book_id"`
	MemberID   int64      `json:"member_id"`
	LoanDate   time.Time  `json:"loan_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
}

// Fine is a charge attached to a loan. Amounts are integer cents; a nil
// PaymentDate means the fine is unpaid.
type Fine struct {
	ID          int64      `json:"id"`
	LoanID      int64      `json:"loan_id"`
	AmountCents int64      `json:"amount_cents"`
	PaymentDate *time.Time `json:"payment_date,omitempty"`
}

// ReservationStatus is the lifecycle tag on a book reservation. The set is
// closed at the schema level (ENUM on MySQL, CHECK elsewhere).
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "Pending"
	ReservationActive    ReservationStatus = "Active"
	ReservationCancelled ReservationStatus = "Cancelled"
	ReservationCompleted ReservationStatus = "Completed"
)

// BookReservation is a member's reservation on a book.
type BookReservation struct {
	ID              int64             `json:"id"`
	BookID          int64             `json:"book_id"`
	MemberID        int64             `json:"member_id"`
	ReservationDate time.Time         `json:"reservation_date"`
	Status          ReservationStatus `json:"status"`
}

// Category is a book category; name is unique. Linked through book_categories.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Review is a member's rating of a book. Rating is 1..5, enforced by the
// schema; ReviewDate defaults to the insert time.
type Review struct {
	ID         int64     `json:"id"`
	BookID     int64     `json:"book_id"`
	MemberID   int64     `json:"member_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	ReviewDate time.Time `json:"review_date"`
}

// LibraryStaff is an employee. Email is globally unique.
type LibraryStaff struct {
	ID          int64     `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	JobTitle    string    `json:"job_title"`
	HireDate    time.Time `json:"hire_date"`
}

// StaffRole is a named role; staff are linked through library_staff_roles.
type StaffRole struct {
	ID   int64  `json:"id"`
	Name string `json:"role_name"`
}

// SystemSetting is one row of the process-wide configuration table.
type SystemSetting struct {
	ID          int64  `json:"id"`
	Name        string `json:"setting_name"`
	Value       string `json:"setting_value"`
	Description string `json:"description"`
}

// RecipientType discriminates the polymorphic notification recipient.
type RecipientType string

const (
	RecipientMember RecipientType = "Member"
	RecipientStaff  RecipientType = "Staff"
)

// NotificationStatus is the delivery state of a notification.
type NotificationStatus string

const (
	NotificationSent     NotificationStatus = "Sent"
	NotificationRead     NotificationStatus = "Read"
	NotificationArchived NotificationStatus = "Archived"
)

// Notification is a message for a member or staff record. RecipientID is not
// a foreign key; the store validates the recipient before inserting, the
// schema does not.
type Notification struct {
	ID            int64              `json:"id"`
	RecipientID   int64              `json:"recipient_id"`
	RecipientType RecipientType      `json:"recipient_type"`
	Message       string             `json:"message"`
	Date          time.Time          `json:"notification_date"`
	Status        NotificationStatus `json:"status"`
}
