package repositories

import (
	"fmt"

	"perpus/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMReservationRepository is a GORM implementation of ReservationRepository.
type GORMReservationRepository struct {
	db *gorm.DB
}

// NewGORMReservationRepository creates a new instance of GORMReservationRepository.
func NewGORMReservationRepository(db *gorm.DB) *GORMReservationRepository {
	return &GORMReservationRepository{
		db: db,
	}
}

// GetAll retrieves all reservations ordered by reservation time, oldest first.
func (r *GORMReservationRepository) GetAll() ([]models.Reservation, error) {
	var reservations []models.Reservation
	if err := r.db.Order("time ASC").Find(&reservations).Error; err != nil {
		return nil, fmt.Errorf("failed to get all reservations: %w", err)
	}
	return reservations, nil
}

// Create stores the reservation unless one already exists for the same
// (email, book_id) pair. The existence check and the insert run in one
// transaction.
func (r *GORMReservationRepository) Create(reservation *models.Reservation) error {
	if reservation.ID == "" {
		reservation.ID = uuid.New().String()
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.Reservation{}).
			Where("email = ? AND book_id = ?", reservation.Email, reservation.BookID).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check existing reservations: %w", err)
		}
		if count > 0 {
			return ErrAlreadyReserved
		}
		if err := tx.Create(reservation).Error; err != nil {
			return fmt.Errorf("failed to create reservation: %w", err)
		}
		return nil
	})
}
