package repositories

import (
	"perpus/internal/models"
)

// ReservationRepository defines the interface for reservation data access.
type ReservationRepository interface {
	// GetAll returns every reservation ordered by reservation time,
	// oldest first.
	GetAll() ([]models.Reservation, error)
	// Create stores the reservation. Returns ErrAlreadyReserved when a
	// reservation for the same (email, book_id) pair already exists.
	Create(reservation *models.Reservation) error
}
