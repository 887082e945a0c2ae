// Command seed populates the database with the starter accounts,
// catalog and sample circulation records. It is a one-shot tool meant
// to run once against a fresh database.
package main

import (
	"log"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"perpus/internal/models"
	"perpus/internal/repositories"
)

type seedUser struct {
	Email    string
	Password string
	Role     string
	Name     string
}

func main() {
	viper.AutomaticEnv()
	dbURL := viper.GetString("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	db, err := gorm.Open(postgres.Open(dbURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Book{},
		&models.Issue{},
		&models.Reservation{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	userRepo := repositories.NewGORMUserRepository(db)
	bookRepo := repositories.NewGORMBookRepository(db)
	issueRepo := repositories.NewGORMIssueRepository(db)
	reservationRepo := repositories.NewGORMReservationRepository(db)

	users := []seedUser{
		{Email: "librarian@library.com", Password: "admin123", Role: models.RoleLibrarian, Name: "Head Librarian"},
		{Email: "student1@college.com", Password: "student123", Role: models.RoleStudent, Name: "Student One"},
		{Email: "student2@college.com", Password: "student123", Role: models.RoleStudent, Name: "Student Two"},
	}

	log.Println("Seeding users...")
	for _, u := range users {
		hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash password for %s: %v", u.Email, err)
		}
		user := models.User{
			Email:        u.Email,
			PasswordHash: string(hashed),
			Role:         u.Role,
			Name:         u.Name,
		}
		if err := userRepo.Create(&user); err != nil {
			log.Printf("Error seeding user %s: %v", u.Email, err)
			continue
		}
		log.Printf("Seeded user: %s", u.Email)
	}

	books := []models.Book{
		{Title: "Introduction to Algorithms", Author: "Cormen", Copies: 5, Section: "A1", Shelf: "S1"},
		{Title: "Data Structures in Python", Author: "Narasimha Karumanchi", Copies: 3, Section: "A2", Shelf: "S4"},
		{Title: "Operating System Concepts", Author: "Silberschatz", Copies: 4, Section: "B1", Shelf: "S2"},
		{Title: "Computer Networks", Author: "Tanenbaum", Copies: 2, Section: "B3", Shelf: "S3"},
	}

	log.Println("Seeding books...")
	for i := range books {
		if err := bookRepo.Create(&books[i]); err != nil {
			log.Printf("Error seeding book %s: %v", books[i].Title, err)
			continue
		}
		log.Printf("Seeded book: %s (ID: %s)", books[i].Title, books[i].ID)
	}

	// One sample issue and one sample reservation so the dashboards
	// have something to show right away.
	now := time.Now().UTC()
	issue := &models.Issue{
		Email:      "student1@college.com",
		BookID:     books[0].ID,
		IssuedDate: now,
		DueDate:    now.AddDate(0, 0, 7),
		Returned:   false,
	}
	if err := issueRepo.IssueBook(issue); err != nil {
		log.Printf("Error seeding sample issue: %v", err)
	} else {
		log.Printf("Seeded sample issue: %s", issue.ID)
	}

	reservation := &models.Reservation{
		Email:  "student2@college.com",
		BookID: books[1].ID,
		Time:   now,
		Status: models.ReservationStatusWaiting,
	}
	if err := reservationRepo.Create(reservation); err != nil {
		log.Printf("Error seeding sample reservation: %v", err)
	} else {
		log.Printf("Seeded sample reservation: %s", reservation.ID)
	}

	log.Println("Seeding completed")
}
