package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/library-circulation/pkg/model"
)

const (
	DefaultLoanPeriodDays = 30

	UnknownReaderLabel = "Unknown Reader"
	UnknownBookLabel   = "Unknown Book"
)

// Clock supplies the current time. Injected so date-driven behavior
// (due dates, overdue detection) is deterministic in tests.
type Clock func() time.Time

// Snapshot is an immutable copy of the collections at a point in time.
type Snapshot struct {
	Books   []model.Book       `json:"books"`
	Readers []model.Reader     `json:"readers"`
	Loans   []model.LoanRecord `json:"loans"`
}

// Store is the single authoritative holder of books, readers and loans.
// All cross-entity invariants are enforced here; external callers never
// touch the collections directly. A process runs one Store, constructed
// at startup and never torn down.
type Store struct {
	mu      sync.RWMutex
	books   []model.Book
	readers []model.Reader
	loans   []model.LoanRecord

	clock      Clock
	loanPeriod int // days

	subMu       sync.RWMutex
	subscribers []func(Snapshot)
}

type Option func(*Store)

func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

func WithLoanPeriod(days int) Option {
	return func(s *Store) {
		if days > 0 {
			s.loanPeriod = days
		}
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		clock:      time.Now,
		loanPeriod: DefaultLoanPeriodDays,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers fn to receive the post-mutation snapshot after every
// successful mutation, before the mutating call returns.
func (s *Store) Subscribe(fn func(Snapshot)) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// notify runs outside the store lock so subscribers may read back freely.
func (s *Store) notify(snap Snapshot) {
	s.subMu.RLock()
	subs := make([]func(Snapshot), len(s.subscribers))
	copy(subs, s.subscribers)
	s.subMu.RUnlock()
	for _, fn := range subs {
		fn(snap)
	}
}

// today truncates the injected clock to midnight UTC. All circulation
// dates carry day precision only.
func (s *Store) today() time.Time {
	t := s.clock().UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *Store) bookIndex(id string) int {
	for i := range s.books {
		if s.books[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) readerIndex(id string) int {
	for i := range s.readers {
		if s.readers[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) loanIndex(id string) int {
	for i := range s.loans {
		if s.loans[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Books:   make([]model.Book, len(s.books)),
		Readers: make([]model.Reader, len(s.readers)),
		Loans:   make([]model.LoanRecord, len(s.loans)),
	}
	copy(snap.Books, s.books)
	copy(snap.Readers, s.readers)
	copy(snap.Loans, s.loans)
	return snap
}

// Snapshot returns a copy of all three collections.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) Books() []model.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	books := make([]model.Book, len(s.books))
	copy(books, s.books)
	return books
}

func (s *Store) Readers() []model.Reader {
	s.mu.RLock()
	defer s.mu.RUnlock()
	readers := make([]model.Reader, len(s.readers))
	copy(readers, s.readers)
	return readers
}

func (s *Store) Loans() []model.LoanRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	loans := make([]model.LoanRecord, len(s.loans))
	copy(loans, s.loans)
	return loans
}

// AddBook appends a new catalog entry. The caller supplies the id; an id
// collision is rejected, never silently overwritten.
func (s *Store) AddBook(b model.Book) error {
	if b.ID == "" {
		return fmt.Errorf("book id must not be empty: %w", ErrInvalidState)
	}
	if !b.Status.Valid() {
		return fmt.Errorf("book status %q: %w", b.Status, ErrInvalidState)
	}
	s.mu.Lock()
	if s.bookIndex(b.ID) >= 0 {
		s.mu.Unlock()
		return fmt.Errorf("book %s: %w", b.ID, ErrDuplicateID)
	}
	s.books = append(s.books, b)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

// AddReader appends a new roster entry with the same duplicate rules as
// AddBook.
func (s *Store) AddReader(r model.Reader) error {
	if r.ID == "" {
		return fmt.Errorf("reader id must not be empty: %w", ErrInvalidState)
	}
	s.mu.Lock()
	if s.readerIndex(r.ID) >= 0 {
		s.mu.Unlock()
		return fmt.Errorf("reader %s: %w", r.ID, ErrDuplicateID)
	}
	s.readers = append(s.readers, r)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

// UpdateBookStatus sets a book's status directly, independent of loan
// state. This is the administrative path (MAINTENANCE, LOST); it can
// desynchronize book status from loan existence, and callers bypassing
// borrow/return own that consistency.
func (s *Store) UpdateBookStatus(bookID string, status model.BookStatus) error {
	if !status.Valid() {
		return fmt.Errorf("book status %q: %w", status, ErrInvalidState)
	}
	s.mu.Lock()
	i := s.bookIndex(bookID)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("book %s: %w", bookID, ErrNotFound)
	}
	s.books[i].Status = status
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

// BorrowBook creates an ACTIVE loan and marks the book BORROWED in one
// step. The due date is fixed here as borrow date plus the configured
// loan period and never changes afterwards.
func (s *Store) BorrowBook(bookID, readerID string) (model.LoanRecord, error) {
	s.mu.Lock()
	bi := s.bookIndex(bookID)
	if bi < 0 {
		s.mu.Unlock()
		return model.LoanRecord{}, fmt.Errorf("book %s: %w", bookID, ErrNotFound)
	}
	ri := s.readerIndex(readerID)
	if ri < 0 {
		s.mu.Unlock()
		return model.LoanRecord{}, fmt.Errorf("reader %s: %w", readerID, ErrNotFound)
	}
	if s.books[bi].Status != model.BookAvailable {
		status := s.books[bi].Status
		s.mu.Unlock()
		return model.LoanRecord{}, fmt.Errorf("book %s is %s: %w", bookID, status, ErrBookUnavailable)
	}
	if s.readers[ri].Status == model.ReaderSuspended {
		s.mu.Unlock()
		return model.LoanRecord{}, fmt.Errorf("reader %s: %w", readerID, ErrReaderSuspended)
	}

	borrowDate := s.today()
	loan := model.LoanRecord{
		ID:         uuid.NewString(),
		BookID:     bookID,
		ReaderID:   readerID,
		BorrowDate: borrowDate,
		DueDate:    borrowDate.AddDate(0, 0, s.loanPeriod),
		Status:     model.LoanActive,
	}
	s.loans = append(s.loans, loan)
	s.books[bi].Status = model.BookBorrowed
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return loan, nil
}

// ReturnBook closes an ACTIVE loan and puts the book back on the shelf.
// Returning an already-closed loan is a reported failure, not a no-op, so
// double-return bugs surface instead of passing silently.
func (s *Store) ReturnBook(loanID string) (model.LoanRecord, error) {
	s.mu.Lock()
	li := s.loanIndex(loanID)
	if li < 0 {
		s.mu.Unlock()
		return model.LoanRecord{}, fmt.Errorf("loan %s: %w", loanID, ErrNotFound)
	}
	if s.loans[li].Status != model.LoanActive {
		status := s.loans[li].Status
		s.mu.Unlock()
		return model.LoanRecord{}, fmt.Errorf("loan %s is %s: %w", loanID, status, ErrInvalidState)
	}

	returned := s.today()
	s.loans[li].Status = model.LoanReturned
	s.loans[li].ReturnDate = &returned
	if bi := s.bookIndex(s.loans[li].BookID); bi >= 0 {
		s.books[bi].Status = model.BookAvailable
	}
	loan := s.loans[li]
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
	return loan, nil
}

// ReaderName resolves a reader id to a display label. Unknown ids yield a
// placeholder rather than an error; this exists for labels, not logic.
func (s *Store) ReaderName(readerID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.readerIndex(readerID); i >= 0 {
		return s.readers[i].Name
	}
	return UnknownReaderLabel
}

// BookTitle is the book-side counterpart of ReaderName.
func (s *Store) BookTitle(bookID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.bookIndex(bookID); i >= 0 {
		return s.books[i].Title
	}
	return UnknownBookLabel
}
