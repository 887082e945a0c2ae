package models

import "time"

// Issue records a book lent to a user. DueDate is always seven days
// after IssuedDate. Returned flips to true exactly once; overdue is a
// derived fact, not a stored state.
type Issue struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email      string     `json:"email" gorm:"index;type:varchar(255)"`
	BookID     string     `json:"book_id" gorm:"index;type:varchar(36)"`
	IssuedDate time.Time  `json:"issued_date"`
	DueDate    time.Time  `json:"due_date"`
	Returned   bool       `json:"returned"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
}

// IssueWithTitle is an Issue joined with the title of the related book
// for display on the student dashboard.
type IssueWithTitle struct {
	Issue
	BookTitle string `json:"book_title"`
}
