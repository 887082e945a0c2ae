package repositories

import (
	"errors"
	"fmt"
	"time"

	"perpus/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMIssueRepository is a GORM implementation of IssueRepository.
type GORMIssueRepository struct {
	db *gorm.DB
}

// NewGORMIssueRepository creates a new instance of GORMIssueRepository.
func NewGORMIssueRepository(db *gorm.DB) *GORMIssueRepository {
	return &GORMIssueRepository{
		db: db,
	}
}

// GetByID retrieves a single issue by its ID from the database.
func (r *GORMIssueRepository) GetByID(id string) (*models.Issue, error) {
	var issue models.Issue
	if err := r.db.First(&issue, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("issue with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get issue by ID %s: %w", id, err)
	}
	return &issue, nil
}

// GetByEmail retrieves all issues belonging to the given user.
func (r *GORMIssueRepository) GetByEmail(email string) ([]models.Issue, error) {
	var issues []models.Issue
	if err := r.db.Where("email = ?", email).Find(&issues).Error; err != nil {
		return nil, fmt.Errorf("failed to get issues for %s: %w", email, err)
	}
	return issues, nil
}

// GetIssuedSince retrieves all issues with an issued date at or after
// the given instant.
func (r *GORMIssueRepository) GetIssuedSince(since time.Time) ([]models.Issue, error) {
	var issues []models.Issue
	if err := r.db.Where("issued_date >= ?", since).Find(&issues).Error; err != nil {
		return nil, fmt.Errorf("failed to get issues since %s: %w", since, err)
	}
	return issues, nil
}

// IssueBook decrements the book's copies and creates the issue record
// in a single transaction. The decrement is conditional on copies > 0,
// so concurrent issues can never drive copies negative.
func (r *GORMIssueRepository) IssueBook(issue *models.Issue) error {
	if issue.ID == "" {
		issue.ID = uuid.New().String()
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Book{}).
			Where("id = ? AND copies > 0", issue.BookID).
			UpdateColumn("copies", gorm.Expr("copies - 1"))
		if res.Error != nil {
			return fmt.Errorf("failed to decrement copies: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// Distinguish a missing book from one that is out of stock.
			var count int64
			if err := tx.Model(&models.Book{}).Where("id = ?", issue.BookID).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to check book existence: %w", err)
			}
			if count == 0 {
				return fmt.Errorf("book with ID %s: %w", issue.BookID, ErrNotFound)
			}
			return ErrNoCopiesAvailable
		}
		if err := tx.Create(issue).Error; err != nil {
			return fmt.Errorf("failed to create issue: %w", err)
		}
		return nil
	})
}

// ReturnBook marks the issue returned and increments the book's copies
// in a single transaction. A second return of the same issue is
// rejected with ErrAlreadyReturned rather than incrementing twice.
func (r *GORMIssueRepository) ReturnBook(id string, returnedAt time.Time) (*models.Issue, error) {
	var issue models.Issue
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&issue, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("issue with ID %s: %w", id, ErrNotFound)
			}
			return fmt.Errorf("failed to get issue by ID %s: %w", id, err)
		}
		if issue.Returned {
			return ErrAlreadyReturned
		}
		updates := map[string]interface{}{
			"returned":    true,
			"return_date": returnedAt,
		}
		if err := tx.Model(&models.Issue{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to mark issue returned: %w", err)
		}
		// The book may have been deleted since the issue was created;
		// the increment is then a no-op on a dangling reference.
		res := tx.Model(&models.Book{}).
			Where("id = ?", issue.BookID).
			UpdateColumn("copies", gorm.Expr("copies + 1"))
		if res.Error != nil {
			return fmt.Errorf("failed to increment copies: %w", res.Error)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	issue.Returned = true
	issue.ReturnDate = &returnedAt
	return &issue, nil
}
