package services

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"perpus/internal/models"
	"perpus/internal/repositories"
)

// ReservationService handles the reservation queue.
type ReservationService struct {
	reservationRepo repositories.ReservationRepository
	bookRepo        repositories.BookRepository
	publisher       EventPublisher
}

// NewReservationService creates a new ReservationService.
func NewReservationService(reservationRepo repositories.ReservationRepository, bookRepo repositories.BookRepository, publisher EventPublisher) *ReservationService {
	return &ReservationService{
		reservationRepo: reservationRepo,
		bookRepo:        bookRepo,
		publisher:       publisher,
	}
}

// ListReservations returns reservations ordered by reservation time,
// oldest first, each joined with its book title. A librarian sees
// every reservation; a student sees only their own. The student filter
// is applied after the fetch, matching the read path it replaces.
func (s *ReservationService) ListReservations(email, role string) ([]models.ReservationWithTitle, error) {
	reservations, err := s.reservationRepo.GetAll()
	if err != nil {
		return nil, err
	}

	out := make([]models.ReservationWithTitle, 0, len(reservations))
	for _, res := range reservations {
		if role == models.RoleStudent && res.Email != email {
			continue
		}
		title := "Unknown"
		book, err := s.bookRepo.GetByID(res.BookID)
		if err == nil {
			title = book.Title
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		out = append(out, models.ReservationWithTitle{Reservation: res, BookTitle: title})
	}
	return out, nil
}

// Reserve queues the user's interest in a book. A second reservation
// for the same (email, book) pair fails with ErrAlreadyReserved no
// matter the status of the first.
func (s *ReservationService) Reserve(email, bookID string) (*models.Reservation, error) {
	reservation := &models.Reservation{
		Email:  email,
		BookID: bookID,
		Time:   time.Now().UTC(),
		Status: models.ReservationStatusWaiting,
	}

	if err := s.reservationRepo.Create(reservation); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		body, err := json.Marshal(map[string]interface{}{
			"reservationID": reservation.ID,
			"email":         reservation.Email,
			"bookID":        reservation.BookID,
		})
		if err == nil {
			if err := s.publisher.Publish("library.book_reserved", body); err != nil {
				log.Printf("Warning: failed to publish reservation event: %v", err)
			}
		}
	}

	return reservation, nil
}
