package handlers

import (
	"errors"
	"log"

	"perpus/internal/models"
	"perpus/internal/repositories"
	"perpus/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// BookHandler handles HTTP requests for the book catalog.
type BookHandler struct {
	service  *services.CatalogService
	validate *validator.Validate
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(service *services.CatalogService) *BookHandler {
	return &BookHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterPublicRoutes registers the read-only catalog routes.
func (h *BookHandler) RegisterPublicRoutes(router fiber.Router) {
	router.Get("/books", h.HandleGetBooks)
	router.Get("/search", h.HandleSearch)
	router.Get("/book/:id", h.HandleGetBook)
}

// RegisterLibrarianRoutes registers the catalog mutation routes. The
// caller is expected to wrap the router group in the librarian role
// gate.
func (h *BookHandler) RegisterLibrarianRoutes(router fiber.Router) {
	router.Post("/add_book", h.HandleAddBook)
	router.Post("/edit_book", h.HandleEditBook)
	router.Post("/delete_book", h.HandleDeleteBook)
}

// HandleGetBooks returns the whole catalog.
func (h *BookHandler) HandleGetBooks(c *fiber.Ctx) error {
	books, err := h.service.GetAllBooks()
	if err != nil {
		log.Printf("Error getting all books: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not retrieve books",
		})
	}
	if books == nil {
		books = []models.Book{}
	}
	return c.JSON(books)
}

// HandleSearch returns books matching the q parameter. An empty query
// matches every book.
func (h *BookHandler) HandleSearch(c *fiber.Ctx) error {
	books, err := h.service.SearchBooks(c.Query("q"))
	if err != nil {
		log.Printf("Error searching books: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not search books",
		})
	}
	if books == nil {
		books = []models.Book{}
	}
	return c.JSON(books)
}

// HandleGetBook returns a single book by ID.
func (h *BookHandler) HandleGetBook(c *fiber.Ctx) error {
	book, err := h.service.GetBookByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Not found",
			})
		}
		log.Printf("Error getting book %s: %v", c.Params("id"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not retrieve book",
		})
	}
	return c.JSON(book)
}

// AddBookRequest is the POST /api/add_book body. The catalog takes an
// explicit schema; unknown fields are dropped by the parser rather
// than merged into the stored document.
type AddBookRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=200"`
	Author  string `json:"author" validate:"required,min=1,max=100"`
	Copies  int    `json:"copies" validate:"gte=0"`
	Section string `json:"section" validate:"omitempty,max=10"`
	Shelf   string `json:"shelf" validate:"omitempty,max=10"`
}

// HandleAddBook creates a new book.
func (h *BookHandler) HandleAddBook(c *fiber.Ctx) error {
	var req AddBookRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Validation failed: " + err.Error(),
		})
	}

	book := models.Book{
		Title:   req.Title,
		Author:  req.Author,
		Copies:  req.Copies,
		Section: req.Section,
		Shelf:   req.Shelf,
	}
	if err := h.service.AddBook(&book); err != nil {
		log.Printf("Error adding book: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not add book",
		})
	}
	return c.JSON(fiber.Map{
		"msg": "Book added",
		"id":  book.ID,
	})
}

// EditBookRequest is the POST /api/edit_book body. Pointer fields
// distinguish "leave unchanged" from an explicit zero value.
type EditBookRequest struct {
	ID      string  `json:"id" validate:"required"`
	Title   *string `json:"title" validate:"omitempty,min=1,max=200"`
	Author  *string `json:"author" validate:"omitempty,min=1,max=100"`
	Copies  *int    `json:"copies" validate:"omitempty,gte=0"`
	Section *string `json:"section" validate:"omitempty,max=10"`
	Shelf   *string `json:"shelf" validate:"omitempty,max=10"`
}

// HandleEditBook applies a partial update to a book.
func (h *BookHandler) HandleEditBook(c *fiber.Ctx) error {
	var req EditBookRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Validation failed: " + err.Error(),
		})
	}

	fields := make(map[string]interface{})
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Author != nil {
		fields["author"] = *req.Author
	}
	if req.Copies != nil {
		fields["copies"] = *req.Copies
	}
	if req.Section != nil {
		fields["section"] = *req.Section
	}
	if req.Shelf != nil {
		fields["shelf"] = *req.Shelf
	}
	if len(fields) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No fields to update",
		})
	}

	if err := h.service.EditBook(req.ID, fields); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Not found",
			})
		}
		log.Printf("Error editing book %s: %v", req.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update book",
		})
	}
	return c.JSON(fiber.Map{
		"msg": "Book updated",
	})
}

// HandleDeleteBook deletes a book.
func (h *BookHandler) HandleDeleteBook(c *fiber.Ctx) error {
	var req struct {
		ID string `json:"id" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Book id is required",
		})
	}

	if err := h.service.DeleteBook(req.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Not found",
			})
		}
		log.Printf("Error deleting book %s: %v", req.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete book",
		})
	}
	return c.JSON(fiber.Map{
		"msg": "Book deleted",
	})
}
