package models

import "time"

// ReservationStatusWaiting is the only status a reservation takes; no
// fulfilment transition is implemented.
const ReservationStatusWaiting = "waiting"

// Reservation is a queued request for a book. At most one reservation
// exists per (email, book_id) pair, regardless of status.
type Reservation struct {
	ID     string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email  string    `json:"email" gorm:"index;type:varchar(255)"`
	BookID string    `json:"book_id" gorm:"index;type:varchar(36)"`
	Time   time.Time `json:"time"`
	Status string    `json:"status" gorm:"type:varchar(20)"`
}

// ReservationWithTitle is a Reservation joined with the title of the
// related book.
type ReservationWithTitle struct {
	Reservation
	BookTitle string `json:"book_title"`
}
