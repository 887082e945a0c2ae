package repositories

import "errors"

// Sentinel errors shared by all repository implementations. Services
// and handlers match on these with errors.Is instead of comparing
// error strings.
var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrNoCopiesAvailable is returned by IssueBook when the book has
	// no copies left to lend.
	ErrNoCopiesAvailable = errors.New("no copies available")

	// ErrAlreadyReturned is returned by ReturnBook when the issue has
	// already been marked returned.
	ErrAlreadyReturned = errors.New("issue already returned")

	// ErrAlreadyReserved is returned when a reservation for the same
	// (email, book) pair already exists, regardless of its status.
	ErrAlreadyReserved = errors.New("already reserved")
)
