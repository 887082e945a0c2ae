package repositories

import (
	"time"

	"perpus/internal/models"
)

// IssueRepository defines the interface for issue data access.
//
// IssueBook and ReturnBook are transactional: the copies adjustment on
// the related book and the issue write happen together or not at all,
// so a partial failure can never leave the catalog inconsistent.
type IssueRepository interface {
	GetByID(id string) (*models.Issue, error)
	GetByEmail(email string) ([]models.Issue, error)
	GetIssuedSince(since time.Time) ([]models.Issue, error)
	// IssueBook decrements the book's copies (only while copies > 0)
	// and persists the issue in one transaction. Returns ErrNotFound
	// when the book does not exist and ErrNoCopiesAvailable when no
	// copies are left.
	IssueBook(issue *models.Issue) error
	// ReturnBook marks the issue returned, sets the return date and
	// increments the book's copies in one transaction. Returns
	// ErrNotFound for a missing issue and ErrAlreadyReturned when the
	// issue was returned before. The updated issue is returned for
	// fine computation.
	ReturnBook(id string, returnedAt time.Time) (*models.Issue, error)
}
