package store

import (
	"time"

	"github.com/yourusername/library-circulation/pkg/model"
)

// LoanDetail is a loan joined with display fields from its book and
// reader. Dangling references resolve to placeholder labels; these views
// are for display, never for invariant enforcement.
type LoanDetail struct {
	Loan        model.LoanRecord `json:"loan"`
	BookTitle   string           `json:"book_title"`
	ReaderName  string           `json:"reader_name"`
	ReaderEmail string           `json:"reader_email,omitempty"`
	Overdue     bool             `json:"overdue"`
}

func overdue(l model.LoanRecord, today time.Time) bool {
	return l.Status == model.LoanActive && l.DueDate.Before(today)
}

// Stats computes the dashboard aggregate. Overdue means ACTIVE with a due
// date strictly before today; a loan due today is not overdue.
func (s *Store) Stats() model.LibraryStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	today := s.today()

	stats := model.LibraryStats{
		TotalBooks:   len(s.books),
		TotalReaders: len(s.readers),
	}
	for _, l := range s.loans {
		if l.Status != model.LoanActive {
			continue
		}
		stats.ActiveLoans++
		if overdue(l, today) {
			stats.OverdueLoans++
		}
	}
	return stats
}

// CategoryHistogram maps each distinct category to its book count.
func (s *Store) CategoryHistogram() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int)
	for _, b := range s.books {
		counts[b.Category]++
	}
	return counts
}

func (s *Store) loanDetailLocked(l model.LoanRecord, today time.Time) LoanDetail {
	d := LoanDetail{
		Loan:       l,
		BookTitle:  UnknownBookLabel,
		ReaderName: UnknownReaderLabel,
		Overdue:    overdue(l, today),
	}
	if i := s.bookIndex(l.BookID); i >= 0 {
		d.BookTitle = s.books[i].Title
	}
	if i := s.readerIndex(l.ReaderID); i >= 0 {
		d.ReaderName = s.readers[i].Name
		d.ReaderEmail = s.readers[i].Email
	}
	return d
}

// ActiveLoanDetails lists every ACTIVE loan joined for display.
func (s *Store) ActiveLoanDetails() []LoanDetail {
	s.mu.RLock()
	defer s.mu.RUnlock()
	today := s.today()

	details := make([]LoanDetail, 0)
	for _, l := range s.loans {
		if l.Status == model.LoanActive {
			details = append(details, s.loanDetailLocked(l, today))
		}
	}
	return details
}

// OverdueLoans lists the ACTIVE loans past their due date. Feeds the
// overdue notifier and the dashboard.
func (s *Store) OverdueLoans() []LoanDetail {
	s.mu.RLock()
	defer s.mu.RUnlock()
	today := s.today()

	details := make([]LoanDetail, 0)
	for _, l := range s.loans {
		if overdue(l, today) {
			details = append(details, s.loanDetailLocked(l, today))
		}
	}
	return details
}
