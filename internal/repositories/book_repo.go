package repositories

import (
	"perpus/internal/models"
)

// BookRepository defines the interface for book data access.
type BookRepository interface {
	GetAll() ([]models.Book, error)
	GetByID(id string) (*models.Book, error)
	Search(query string) ([]models.Book, error)
	Create(book *models.Book) error
	Update(id string, fields map[string]interface{}) error
	Delete(id string) error
}
