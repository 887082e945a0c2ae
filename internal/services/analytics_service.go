package services

import (
	"errors"
	"time"

	"perpus/internal/repositories"
)

// analyticsWindowDays is the trailing window both charts aggregate over.
const analyticsWindowDays = 7

// weekdayOrder fixes the bucket order of the weekly chart.
var weekdayOrder = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// BookCount is one slice of the popular-books chart.
type BookCount struct {
	Title string `json:"title"`
	Count int    `json:"count"`
}

// DayCount is one bar of the weekly-issued chart.
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// AnalyticsService aggregates issue records into chart data at read
// time; nothing is persisted.
type AnalyticsService struct {
	issueRepo repositories.IssueRepository
	bookRepo  repositories.BookRepository
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(issueRepo repositories.IssueRepository, bookRepo repositories.BookRepository) *AnalyticsService {
	return &AnalyticsService{
		issueRepo: issueRepo,
		bookRepo:  bookRepo,
	}
}

// PopularBooks counts issues within the trailing window grouped by
// book and joins each group to its title. Order is unspecified; a
// deleted book shows up as "Unknown".
func (s *AnalyticsService) PopularBooks() ([]BookCount, error) {
	weekAgo := time.Now().UTC().AddDate(0, 0, -analyticsWindowDays)
	issues, err := s.issueRepo.GetIssuedSince(weekAgo)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, issue := range issues {
		counts[issue.BookID]++
	}

	out := make([]BookCount, 0, len(counts))
	for bookID, count := range counts {
		title := "Unknown"
		book, err := s.bookRepo.GetByID(bookID)
		if err == nil {
			title = book.Title
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		out = append(out, BookCount{Title: title, Count: count})
	}
	return out, nil
}

// WeeklyIssued buckets issues within the trailing window by weekday
// abbreviation. All seven buckets are always present, zero-filled, in
// Mon..Sun order.
func (s *AnalyticsService) WeeklyIssued() ([]DayCount, error) {
	weekAgo := time.Now().UTC().AddDate(0, 0, -analyticsWindowDays)
	issues, err := s.issueRepo.GetIssuedSince(weekAgo)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(weekdayOrder))
	for _, day := range weekdayOrder {
		counts[day] = 0
	}
	for _, issue := range issues {
		counts[issue.IssuedDate.Format("Mon")]++
	}

	out := make([]DayCount, 0, len(weekdayOrder))
	for _, day := range weekdayOrder {
		out = append(out, DayCount{Day: day, Count: counts[day]})
	}
	return out, nil
}
