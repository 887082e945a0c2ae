package services

import (
	"perpus/internal/models"
	"perpus/internal/repositories"
)

// CatalogService handles business logic related to the book catalog.
type CatalogService struct {
	bookRepo repositories.BookRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(bookRepo repositories.BookRepository) *CatalogService {
	return &CatalogService{
		bookRepo: bookRepo,
	}
}

// GetAllBooks retrieves the whole catalog.
func (s *CatalogService) GetAllBooks() ([]models.Book, error) {
	return s.bookRepo.GetAll()
}

// SearchBooks finds books whose title or author contains the query,
// case-insensitively. An empty query matches everything.
func (s *CatalogService) SearchBooks(query string) ([]models.Book, error) {
	return s.bookRepo.Search(query)
}

// GetBookByID retrieves a single book.
func (s *CatalogService) GetBookByID(id string) (*models.Book, error) {
	return s.bookRepo.GetByID(id)
}

// AddBook creates a new book.
func (s *CatalogService) AddBook(book *models.Book) error {
	return s.bookRepo.Create(book)
}

// EditBook applies a partial update to a book.
func (s *CatalogService) EditBook(id string, fields map[string]interface{}) error {
	return s.bookRepo.Update(id, fields)
}

// DeleteBook deletes a book. Outstanding issues and reservations keep
// their book_id as a dangling reference; readers resolve those to an
// "Unknown" title.
func (s *CatalogService) DeleteBook(id string) error {
	return s.bookRepo.Delete(id)
}
