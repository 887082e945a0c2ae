package repositories

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"perpus/internal/models"

	"github.com/google/uuid"
)

// MockIssueRepository is an in-memory implementation of IssueRepository.
// It shares a MockBookRepository so that issue and return adjust the
// same copies counters the GORM implementation would.
type MockIssueRepository struct {
	issues map[string]models.Issue
	books  *MockBookRepository
	mu     sync.RWMutex
}

// NewMockIssueRepository creates a new instance of MockIssueRepository.
func NewMockIssueRepository(books *MockBookRepository) *MockIssueRepository {
	return &MockIssueRepository{
		issues: make(map[string]models.Issue),
		books:  books,
	}
}

// GetByID returns an issue by its ID.
func (r *MockIssueRepository) GetByID(id string) (*models.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	issue, ok := r.issues[id]
	if !ok {
		return nil, fmt.Errorf("issue with ID %s: %w", id, ErrNotFound)
	}
	return &issue, nil
}

// GetByEmail returns all issues belonging to the given user.
func (r *MockIssueRepository) GetByEmail(email string) ([]models.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	issueList := make([]models.Issue, 0)
	for _, issue := range r.issues {
		if issue.Email == email {
			issueList = append(issueList, issue)
		}
	}
	return issueList, nil
}

// GetIssuedSince returns all issues issued at or after the given instant.
func (r *MockIssueRepository) GetIssuedSince(since time.Time) ([]models.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	issueList := make([]models.Issue, 0)
	for _, issue := range r.issues {
		if !issue.IssuedDate.Before(since) {
			issueList = append(issueList, issue)
		}
	}
	return issueList, nil
}

// IssueBook decrements the book's copies and stores the issue.
func (r *MockIssueRepository) IssueBook(issue *models.Issue) error {
	if issue.ID == "" {
		issue.ID = uuid.New().String()
	}
	if err := r.books.adjustCopies(issue.BookID, -1); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.issues[issue.ID] = *issue
	return nil
}

// ReturnBook marks the issue returned and increments the book's copies.
func (r *MockIssueRepository) ReturnBook(id string, returnedAt time.Time) (*models.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	issue, ok := r.issues[id]
	if !ok {
		return nil, fmt.Errorf("issue with ID %s: %w", id, ErrNotFound)
	}
	if issue.Returned {
		return nil, ErrAlreadyReturned
	}

	if err := r.books.adjustCopies(issue.BookID, 1); err != nil && !errors.Is(err, ErrNotFound) {
		// A dangling book reference makes the increment a no-op, like
		// the GORM implementation.
		return nil, err
	}

	issue.Returned = true
	issue.ReturnDate = &returnedAt
	r.issues[id] = issue
	return &issue, nil
}
