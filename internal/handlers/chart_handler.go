package handlers

import (
	"log"

	"perpus/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ChartHandler serves the two dashboard chart aggregations.
type ChartHandler struct {
	service *services.AnalyticsService
}

// NewChartHandler creates a new ChartHandler.
func NewChartHandler(service *services.AnalyticsService) *ChartHandler {
	return &ChartHandler{
		service: service,
	}
}

// RegisterRoutes registers the chart routes with the Fiber app.
func (h *ChartHandler) RegisterRoutes(router fiber.Router) {
	charts := router.Group("/charts")
	charts.Get("/popular_books", h.HandlePopularBooks)
	charts.Get("/weekly_issued", h.HandleWeeklyIssued)
}

// HandlePopularBooks returns issue counts per book over the trailing
// week.
func (h *ChartHandler) HandlePopularBooks(c *fiber.Ctx) error {
	counts, err := h.service.PopularBooks()
	if err != nil {
		log.Printf("Error building popular books chart: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not build chart",
		})
	}
	return c.JSON(counts)
}

// HandleWeeklyIssued returns issue counts per weekday over the
// trailing week.
func (h *ChartHandler) HandleWeeklyIssued(c *fiber.Ctx) error {
	counts, err := h.service.WeeklyIssued()
	if err != nil {
		log.Printf("Error building weekly issued chart: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not build chart",
		})
	}
	return c.JSON(counts)
}
