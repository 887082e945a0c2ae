package handlers

import (
	"errors"
	"log"

	"perpus/internal/middleware"
	"perpus/internal/repositories"
	"perpus/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ReservationHandler handles HTTP requests for reservations.
type ReservationHandler struct {
	service  *services.ReservationService
	validate *validator.Validate
}

// NewReservationHandler creates a new ReservationHandler.
func NewReservationHandler(service *services.ReservationService) *ReservationHandler {
	return &ReservationHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the reservation routes. The caller wraps
// the router group in the session gate.
func (h *ReservationHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/reservations", h.HandleGetReservations)
	router.Post("/reserve", h.HandleReserve)
}

// HandleGetReservations lists reservations: all of them for a
// librarian, only the caller's own for a student.
func (h *ReservationHandler) HandleGetReservations(c *fiber.Ctx) error {
	email, _ := c.Locals(middleware.ContextEmail).(string)
	role, _ := c.Locals(middleware.ContextRole).(string)

	reservations, err := h.service.ListReservations(email, role)
	if err != nil {
		log.Printf("Error listing reservations for %s: %v", email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not retrieve reservations",
		})
	}
	return c.JSON(reservations)
}

// HandleReserve queues a reservation for the logged-in user.
func (h *ReservationHandler) HandleReserve(c *fiber.Ctx) error {
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

	if _, err := h.service.Reserve(email, req.BookID); err != nil {
		if errors.Is(err, repositories.ErrAlreadyReserved) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Already reserved",
			})
		}
		log.Printf("Error reserving book %s for %s: %v", req.BookID, email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not add reservation",
		})
	}
	return c.JSON(fiber.Map{
		"msg": "Reservation added",
	})
}
