package model

import "time"

type BookStatus string

const (
	BookAvailable   BookStatus = "AVAILABLE"
	BookBorrowed    BookStatus = "BORROWED"
	BookReserved    BookStatus = "RESERVED"
	BookLost        BookStatus = "LOST"
	BookMaintenance BookStatus = "MAINTENANCE"
)

var validBookStatuses = map[BookStatus]bool{
	BookAvailable:   true,
	BookBorrowed:    true,
	BookReserved:    true,
	BookLost:        true,
	BookMaintenance: true,
}

func (s BookStatus) Valid() bool {
	return validBookStatuses[s]
}

type ReaderType string

const (
	ReaderStudent ReaderType = "STUDENT"
	ReaderTeacher ReaderType = "TEACHER"
	ReaderVIP     ReaderType = "VIP"
)

type ReaderStatus string

const (
	ReaderActive    ReaderStatus = "ACTIVE"
	ReaderSuspended ReaderStatus = "SUSPENDED"
)

type LoanStatus string

const (
	LoanActive   LoanStatus = "ACTIVE"
	LoanReturned LoanStatus = "RETURNED"
	// LoanOverdue exists for clients that display it. The store never
	// persists it: overdue is always computed from an ACTIVE loan whose
	// due date has passed.
	LoanOverdue LoanStatus = "OVERDUE"
)

// Book is a single catalog entry. Status is driven by circulation
// (AVAILABLE <-> BORROWED) or set administratively.
type Book struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Author      string     `json:"author"`
	ISBN        string     `json:"isbn"`
	Category    string     `json:"category"`
	Publisher   string     `json:"publisher"`
	PublishDate string     `json:"publish_date"`
	Status      BookStatus `json:"status"`
	Location    string     `json:"location"`
	CoverURL    string     `json:"cover_url"`
	Description string     `json:"description,omitempty"`
	Price       float64    `json:"price"`
}

type Reader struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Type           ReaderType   `json:"type"`
	Email          string       `json:"email"`
	Phone          string       `json:"phone"`
	RegisteredDate string       `json:"registered_date"`
	AvatarURL      string       `json:"avatar_url"`
	Status         ReaderStatus `json:"status"`
}

// LoanRecord links a Book to a Reader by id only; the referenced entities
// are resolved by lookup, never embedded. Dates carry day precision
// (midnight UTC). ReturnDate is set exactly once, on return.
type LoanRecord struct {
	ID         string     `json:"id"`
	BookID     string     `json:"book_id"`
	ReaderID   string     `json:"reader_id"`
	BorrowDate time.Time  `json:"borrow_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	Status     LoanStatus `json:"status"`
}

// LibraryStats is the dashboard aggregate.
type LibraryStats struct {
	TotalBooks   int `json:"total_books"`
	TotalReaders int `json:"total_readers"`
	ActiveLoans  int `json:"active_loans"`
	OverdueLoans int `json:"overdue_loans"`
}
