package services

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"perpus/internal/models"
	"perpus/internal/repositories"
)

// Circulation constants: loan period and flat fine per late day.
const (
	LoanDays    = 7
	FinePerDay  = 5
	hoursPerDay = 24
)

// CirculationService handles the issue and return workflow.
type CirculationService struct {
	issueRepo repositories.IssueRepository
	bookRepo  repositories.BookRepository
	publisher EventPublisher
}

// NewCirculationService creates a new CirculationService.
func NewCirculationService(issueRepo repositories.IssueRepository, bookRepo repositories.BookRepository, publisher EventPublisher) *CirculationService {
	return &CirculationService{
		issueRepo: issueRepo,
		bookRepo:  bookRepo,
		publisher: publisher,
	}
}

// IssueBook lends a book to a user. The due date is seven days after
// the issue date. There is no limit on how many times the same user
// may hold the same title.
func (s *CirculationService) IssueBook(email, bookID string) (*models.Issue, error) {
	now := time.Now().UTC()
	issue := &models.Issue{
		Email:      email,
		BookID:     bookID,
		IssuedDate: now,
		DueDate:    now.AddDate(0, 0, LoanDays),
		Returned:   false,
	}

	if err := s.issueRepo.IssueBook(issue); err != nil {
		return nil, err
	}

	s.publishEvent("library.book_issued", map[string]interface{}{
		"issueID": issue.ID,
		"email":   issue.Email,
		"bookID":  issue.BookID,
		"dueDate": issue.DueDate,
	})

	return issue, nil
}

// ReturnBook marks an issue returned and computes the fine: zero when
// on time, FinePerDay per whole day late otherwise. The fine is
// returned to the caller but never persisted.
func (s *CirculationService) ReturnBook(issueID string) (int, *models.Issue, error) {
	issue, err := s.issueRepo.ReturnBook(issueID, time.Now().UTC())
	if err != nil {
		return 0, nil, err
	}

	lateDays := int(issue.ReturnDate.Sub(issue.DueDate).Hours() / hoursPerDay)
	fine := 0
	if lateDays > 0 {
		fine = lateDays * FinePerDay
	}

	s.publishEvent("library.book_returned", map[string]interface{}{
		"issueID": issue.ID,
		"email":   issue.Email,
		"bookID":  issue.BookID,
		"fine":    fine,
	})

	return fine, issue, nil
}

// StudentIssues returns all issues belonging to the user, each joined
// with the title of the related book. A deleted book shows up as
// "Unknown".
func (s *CirculationService) StudentIssues(email string) ([]models.IssueWithTitle, error) {
	issues, err := s.issueRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}

	out := make([]models.IssueWithTitle, 0, len(issues))
	for _, issue := range issues {
		title := "Unknown"
		book, err := s.bookRepo.GetByID(issue.BookID)
		if err == nil {
			title = book.Title
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		out = append(out, models.IssueWithTitle{Issue: issue, BookTitle: title})
	}
	return out, nil
}

func (s *CirculationService) publishEvent(routingKey string, payload map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := s.publisher.Publish(routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}
