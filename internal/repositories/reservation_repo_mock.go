package repositories

import (
	"sort"
	"sync"

	"perpus/internal/models"

	"github.com/google/uuid"
)

// MockReservationRepository is an in-memory implementation of ReservationRepository.
type MockReservationRepository struct {
	reservations map[string]models.Reservation
	mu           sync.RWMutex
}

// NewMockReservationRepository creates a new instance of MockReservationRepository.
func NewMockReservationRepository() *MockReservationRepository {
	return &MockReservationRepository{
		reservations: make(map[string]models.Reservation),
	}
}

// GetAll returns all reservations ordered by reservation time, oldest first.
func (r *MockReservationRepository) GetAll() ([]models.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reservationList := make([]models.Reservation, 0, len(r.reservations))
	for _, res := range r.reservations {
		reservationList = append(reservationList, res)
	}
	sort.Slice(reservationList, func(i, j int) bool {
		return reservationList[i].Time.Before(reservationList[j].Time)
	})
	return reservationList, nil
}

// Create stores the reservation unless one already exists for the same
// (email, book_id) pair.
func (r *MockReservationRepository) Create(reservation *models.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.reservations {
		if existing.Email == reservation.Email && existing.BookID == reservation.BookID {
			return ErrAlreadyReserved
		}
	}

	if reservation.ID == "" {
		reservation.ID = uuid.New().String()
	}
	r.reservations[reservation.ID] = *reservation
	return nil
}
