package repositories

import (
	"fmt"
	"strings"
	"sync"

	"perpus/internal/models"

	"github.com/google/uuid"
)

// MockBookRepository is an in-memory implementation of BookRepository.
type MockBookRepository struct {
	books map[string]models.Book
	mu    sync.RWMutex
}

// NewMockBookRepository creates a new instance of MockBookRepository.
func NewMockBookRepository() *MockBookRepository {
	return &MockBookRepository{
		books: make(map[string]models.Book),
	}
}

// GetAll returns all books.
func (r *MockBookRepository) GetAll() ([]models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bookList := make([]models.Book, 0, len(r.books))
	for _, b := range r.books {
		bookList = append(bookList, b)
	}
	return bookList, nil
}

// GetByID returns a book by its ID.
func (r *MockBookRepository) GetByID(id string) (*models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	book, ok := r.books[id]
	if !ok {
		return nil, fmt.Errorf("book with ID %s: %w", id, ErrNotFound)
	}
	return &book, nil
}

// Search returns books whose title or author contains the query,
// case-insensitively.
func (r *MockBookRepository) Search(query string) ([]models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	results := make([]models.Book, 0)
	for _, b := range r.books {
		if strings.Contains(strings.ToLower(b.Title), q) || strings.Contains(strings.ToLower(b.Author), q) {
			results = append(results, b)
		}
	}
	return results, nil
}

// Create adds a new book.
func (r *MockBookRepository) Create(book *models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if book.ID == "" {
		book.ID = uuid.New().String()
	}
	r.books[book.ID] = *book
	return nil
}

// Update applies a partial update to a book.
func (r *MockBookRepository) Update(id string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	book, ok := r.books[id]
	if !ok {
		return fmt.Errorf("book with ID %s: %w", id, ErrNotFound)
	}
	for key, value := range fields {
		switch key {
		case "title":
			book.Title = value.(string)
		case "author":
			book.Author = value.(string)
		case "copies":
			book.Copies = value.(int)
		case "section":
			book.Section = value.(string)
		case "shelf":
			book.Shelf = value.(string)
		}
	}
	r.books[id] = book
	return nil
}

// Delete removes a book by its ID.
func (r *MockBookRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.books[id]
	if !ok {
		return fmt.Errorf("book with ID %s: %w", id, ErrNotFound)
	}
	delete(r.books, id)
	return nil
}

// adjustCopies changes the copies count of a book by delta under the
// repository lock. Used by MockIssueRepository to mirror the
// transactional behavior of the GORM implementation.
func (r *MockBookRepository) adjustCopies(id string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	book, ok := r.books[id]
	if !ok {
		return fmt.Errorf("book with ID %s: %w", id, ErrNotFound)
	}
	if delta < 0 && book.Copies <= 0 {
		return ErrNoCopiesAvailable
	}
	book.Copies += delta
	r.books[id] = book
	return nil
}
