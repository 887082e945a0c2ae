package handlers

import (
	"errors"
	"log"

	"perpus/internal/middleware"
	"perpus/internal/models"
	"perpus/internal/repositories"
	"perpus/internal/services"
	"perpus/internal/session"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CirculationHandler handles HTTP requests for issuing and returning
// books.
type CirculationHandler struct {
	service  *services.CirculationService
	sessions *session.Store
	validate *validator.Validate
}

// NewCirculationHandler creates a new CirculationHandler.
func NewCirculationHandler(service *services.CirculationService, sessions *session.Store) *CirculationHandler {
	return &CirculationHandler{
		service:  service,
		sessions: sessions,
		validate: validator.New(),
	}
}

// RegisterSessionRoutes registers the routes that require a session.
// The caller wraps the router group in the session gate.
func (h *CirculationHandler) RegisterSessionRoutes(router fiber.Router) {
	router.Post("/issue", h.HandleIssueBook)
	router.Post("/return", h.HandleReturnBook)
}

// RegisterPublicRoutes registers the routes that degrade gracefully
// without a session instead of rejecting the request.
func (h *CirculationHandler) RegisterPublicRoutes(router fiber.Router) {
	router.Get("/student/issues", h.HandleStudentIssues)
}

// HandleIssueBook lends a book to the logged-in user.
func (h *CirculationHandler) HandleIssueBook(c *fiber.Ctx) error {
	email, _ := c.Locals(middleware.ContextEmail).(string)

	var req struct {
		BookID string `json:"book_id" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "book_id is required",
		})
	}

	if _, err := h.service.IssueBook(email, req.BookID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Book not found",
			})
		case errors.Is(err, repositories.ErrNoCopiesAvailable):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "No copies available",
			})
		default:
			log.Printf("Error issuing book %s to %s: %v", req.BookID, email, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not issue book",
			})
		}
	}
	return c.JSON(fiber.Map{
		"msg": "Book issued successfully",
	})
}

// HandleReturnBook marks an issue returned and reports the fine.
func (h *CirculationHandler) HandleReturnBook(c *fiber.Ctx) error {
	var req struct {
		IssueID string `json:"issue_id" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "issue_id is required",
		})
	}

	fine, _, err := h.service.ReturnBook(req.IssueID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Issue not found",
			})
		case errors.Is(err, repositories.ErrAlreadyReturned):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Book already returned",
			})
		default:
			log.Printf("Error returning issue %s: %v", req.IssueID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not return book",
			})
		}
	}
	return c.JSON(fiber.Map{
		"fine": fine,
	})
}

// HandleStudentIssues lists the logged-in user's issues with book
// titles. Without a session it answers an empty list rather than an
// error.
func (h *CirculationHandler) HandleStudentIssues(c *fiber.Ctx) error {
	sess, ok := h.sessions.Get(c.Cookies(middleware.SessionCookie))
	if !ok {
		return c.JSON([]models.IssueWithTitle{})
	}

	issues, err := h.service.StudentIssues(sess.Email)
	if err != nil {
		log.Printf("Error listing issues for %s: %v", sess.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not retrieve issues",
		})
	}
	return c.JSON(issues)
}
