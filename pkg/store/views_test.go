package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/library-circulation/pkg/model"
)

func TestCategoryHistogram(t *testing.T) {
	s := newTestStore(&testClock{now: date(2024, 1, 1)})
	require.NoError(t, s.AddBook(model.Book{ID: "b1", Category: "Fiction", Status: model.BookAvailable}))
	require.NoError(t, s.AddBook(model.Book{ID: "b2", Category: "Fiction", Status: model.BookAvailable}))
	require.NoError(t, s.AddBook(model.Book{ID: "b3", Category: "History", Status: model.BookAvailable}))

	assert.Equal(t, map[string]int{"Fiction": 2, "History": 1}, s.CategoryHistogram())
}

func TestStatsCounts(t *testing.T) {
	clk := &testClock{now: date(2024, 1, 1)}
	s := newTestStore(clk)
	for _, id := range []string{"b1", "b2", "b3"} {
		require.NoError(t, s.AddBook(testBook(id, model.BookAvailable)))
	}
	require.NoError(t, s.AddReader(testReader("r1", model.ReaderActive)))
	require.NoError(t, s.AddReader(testReader("r2", model.ReaderActive)))

	_, err := s.BorrowBook("b1", "r1")
	require.NoError(t, err)
	loan, err := s.BorrowBook("b2", "r2")
	require.NoError(t, err)
	_, err = s.ReturnBook(loan.ID)
	require.NoError(t, err)

	stats := s.Stats()
	assert.Equal(t, model.LibraryStats{
		TotalBooks:   3,
		TotalReaders: 2,
		ActiveLoans:  1,
		OverdueLoans: 0,
	}, stats)
}

func TestActiveLoanDetailsJoin(t *testing.T) {
	clk := &testClock{now: date(2024, 1, 1)}
	s := newTestStore(clk)
	require.NoError(t, s.AddBook(testBook("b1", model.BookAvailable)))
	require.NoError(t, s.AddReader(testReader("r1", model.ReaderActive)))
	_, err := s.BorrowBook("b1", "r1")
	require.NoError(t, err)

	details := s.ActiveLoanDetails()
	require.Len(t, details, 1)
	assert.Equal(t, "Book b1", details[0].BookTitle)
	assert.Equal(t, "Reader r1", details[0].ReaderName)
	assert.Equal(t, "r1@example.com", details[0].ReaderEmail)
	assert.False(t, details[0].Overdue)
}

// A dangling book or reader reference must produce a placeholder, not an
// error. Injected directly because circulation never creates one itself.
func TestLoanDetailToleratesDanglingReferences(t *testing.T) {
	clk := &testClock{now: date(2024, 1, 1)}
	s := newTestStore(clk)

	s.mu.Lock()
	s.loans = append(s.loans, model.LoanRecord{
		ID:         "l1",
		BookID:     "ghost-book",
		ReaderID:   "ghost-reader",
		BorrowDate: date(2023, 12, 1),
		DueDate:    date(2023, 12, 31),
		Status:     model.LoanActive,
	})
	s.mu.Unlock()

	details := s.ActiveLoanDetails()
	require.Len(t, details, 1)
	assert.Equal(t, UnknownBookLabel, details[0].BookTitle)
	assert.Equal(t, UnknownReaderLabel, details[0].ReaderName)
	assert.True(t, details[0].Overdue)
}

func TestOverdueLoansListsOnlyPastDueActives(t *testing.T) {
	clk := &testClock{now: date(2024, 1, 1)}
	s := newTestStore(clk)
	for _, id := range []string{"b1", "b2"} {
		require.NoError(t, s.AddBook(testBook(id, model.BookAvailable)))
	}
	require.NoError(t, s.AddReader(testReader("r1", model.ReaderActive)))

	overdueLoan, err := s.BorrowBook("b1", "r1")
	require.NoError(t, err)

	// Second loan starts a week later and is still current when the
	// first one lapses.
	clk.now = date(2024, 1, 8)
	_, err = s.BorrowBook("b2", "r1")
	require.NoError(t, err)

	clk.now = date(2024, 2, 3)
	details := s.OverdueLoans()
	require.Len(t, details, 1)
	assert.Equal(t, overdueLoan.ID, details[0].Loan.ID)
	assert.True(t, details[0].Overdue)

	// Returning the loan clears it from the overdue view.
	_, err = s.ReturnBook(overdueLoan.ID)
	require.NoError(t, err)
	assert.Empty(t, s.OverdueLoans())
}

func TestTodayTruncatesClock(t *testing.T) {
	clk := &testClock{now: time.Date(2024, 3, 15, 23, 59, 12, 0, time.UTC)}
	s := newTestStore(clk)
	require.NoError(t, s.AddBook(testBook("b1", model.BookAvailable)))
	require.NoError(t, s.AddReader(testReader("r1", model.ReaderActive)))

	loan, err := s.BorrowBook("b1", "r1")
	require.NoError(t, err)
	assert.Equal(t, date(2024, 3, 15), loan.BorrowDate)
	assert.Equal(t, date(2024, 4, 14), loan.DueDate)
}
