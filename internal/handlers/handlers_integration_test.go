package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"perpus/internal/handlers"
	"perpus/internal/middleware"
	"perpus/internal/models"
	"perpus/internal/repositories"
	"perpus/internal/services"
	"perpus/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupApp sets up a Fiber app for testing with in-memory SQLite, an
// in-memory session store and all handlers/services wired the way the
// server binary wires them.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB, error) {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to in-memory database: %w", err)
	}
	err = db.AutoMigrate(&models.User{}, &models.Book{}, &models.Issue{}, &models.Reservation{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	userRepo := repositories.NewGORMUserRepository(db)
	bookRepo := repositories.NewGORMBookRepository(db)
	issueRepo := repositories.NewGORMIssueRepository(db)
	reservationRepo := repositories.NewGORMReservationRepository(db)

	authService := services.NewAuthService(userRepo)
	catalogService := services.NewCatalogService(bookRepo)
	circulationService := services.NewCirculationService(issueRepo, bookRepo, nil)
	reservationService := services.NewReservationService(reservationRepo, bookRepo, nil)
	analyticsService := services.NewAnalyticsService(issueRepo, bookRepo)

	sessionStore := session.NewStore(time.Hour)

	authHandler := handlers.NewAuthHandler(authService, sessionStore, time.Hour)
	pageHandler := handlers.NewPageHandler(sessionStore)
	bookHandler := handlers.NewBookHandler(catalogService)
	circulationHandler := handlers.NewCirculationHandler(circulationService, sessionStore)
	reservationHandler := handlers.NewReservationHandler(reservationService)
	chartHandler := handlers.NewChartHandler(analyticsService)

	app := fiber.New()

	pageHandler.RegisterRoutes(app)
	authHandler.RegisterRoutes(app)

	api := app.Group("/api")
	bookHandler.RegisterPublicRoutes(api)
	circulationHandler.RegisterPublicRoutes(api)
	chartHandler.RegisterRoutes(api)

	sessionAPI := api.Group("", middleware.SessionRequired(sessionStore))
	circulationHandler.RegisterSessionRoutes(sessionAPI)
	reservationHandler.RegisterRoutes(sessionAPI)

	librarianAPI := api.Group("",
		middleware.SessionRequired(sessionStore),
		middleware.RoleRequired(models.RoleLibrarian),
	)
	bookHandler.RegisterLibrarianRoutes(librarianAPI)

	seedUsersForTest(userRepo)
	seedBooksForTest(bookRepo)

	return app, db, nil
}

// seedUsersForTest populates the user repository with one account per role.
func seedUsersForTest(repo repositories.UserRepository) {
	users := []struct {
		email, password, role, name string
	}{
		{"librarian@library.com", "admin123", models.RoleLibrarian, "Head Librarian"},
		{"student1@college.com", "student123", models.RoleStudent, "Student One"},
		{"student2@college.com", "student123", models.RoleStudent, "Student Two"},
	}
	for _, u := range users {
		hashed, _ := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		user := models.User{Email: u.email, PasswordHash: string(hashed), Role: u.role, Name: u.name}
		if err := repo.Create(&user); err != nil {
			log.Printf("Failed to seed user %s: %v", u.email, err)
		}
	}
}

// seedBooksForTest populates the catalog for tests.
func seedBooksForTest(repo repositories.BookRepository) {
	books := []models.Book{
		{Title: "Introduction to Algorithms", Author: "Cormen", Copies: 5, Section: "A1", Shelf: "S1"},
		{Title: "Computer Networks", Author: "Tanenbaum", Copies: 1, Section: "B3", Shelf: "S3"},
	}
	for i := range books {
		if err := repo.Create(&books[i]); err != nil {
			log.Printf("Failed to seed book %s: %v", books[i].Title, err)
		}
	}
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// login posts credentials and returns the session cookie.
func login(t *testing.T, app *fiber.App, email, password string) *http.Cookie {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.SessionCookie {
			return cookie
		}
	}
	t.Fatal("login response carried no session cookie")
	return nil
}

func doJSON(t *testing.T, app *fiber.App, method, target string, payload interface{}, cookie *http.Cookie) (*http.Response, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if payload != nil {
		body, _ := json.Marshal(payload)
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func TestLoginFlow(t *testing.T) {
	app, _, err := setupApp(t)
	assert.NoError(t, err)

	// Unknown account.
	resp, body := doJSON(t, app, http.MethodPost, "/login", map[string]string{
		"email":    "ghost@college.com",
		"password": "whatever",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "User does not exist", body["error"])

	// Wrong password.
	resp, body = doJSON(t, app, http.MethodPost, "/login", map[string]string{
		"email":    "student1@college.com",
		"password": "wrongpassword",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid password", body["error"])

	// Successful login answers the role and the dashboard redirect.
	resp, body = doJSON(t, app, http.MethodPost, "/login", map[string]string{
		"email":    "librarian@library.com",
		"password": "admin123",
	}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.RoleLibrarian, body["role"])
	assert.Equal(t, "/librarian", body["redirect"])
}

func TestLogoutInvalidatesSession(t *testing.T) {
	app, _, err := setupApp(t)
	assert.NoError(t, err)

	cookie := login(t, app, "student1@college.com", "student123")

	resp, _ := doJSON(t, app, http.MethodGet, "/api/reservations", nil, cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/logout", nil, cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The server-side record is gone; the old token no longer works.
	resp, body := doJSON(t, app, http.MethodGet, "/api/reservations", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Not logged in", body["error"])
}

func TestCatalogEndpoints(t *testing.T) {
	app, _, err := setupApp(t)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var books []models.Book
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&books))
	assert.Len(t, books, 2)
	resp.Body.Close()

	req = httptest.NewRequest(http.MethodGet, "/api/search?q=tanen", nil)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	books = nil
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&books))
	assert.Len(t, books, 1)
	assert.Equal(t, "Computer Networks", books[0].Title)
	resp.Body.Close()

	req = httptest.NewRequest(http.MethodGet, "/api/book/"+books[0].ID, nil)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	respJSON, body := doJSON(t, app, http.MethodGet, "/api/book/no-such-id", nil, nil)
	assert.Equal(t, http.StatusNotFound, respJSON.StatusCode)
	assert.Equal(t, "Not found", body["error"])
}

func TestBookMutationsRequireLibrarian(t *testing.T) {
	app, _, err := setupApp(t)
	assert.NoError(t, err)

	payload := map[string]interface{}{
		"title":  "Operating System Concepts",
		"author": "Silberschatz",
		"copies": 4,
	}

	// No session at all.
	resp, body := doJSON(t, app, http.MethodPost, "/api/add_book", payload, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Not logged in", body["error"])

	// A student session is rejected with 403.
	studentCookie := login(t, app, "student1@college.com", "student123")
	resp, body = doJSON(t, app, http.MethodPost, "/api/add_book", payload, studentCookie)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Forbidden", body["error"])

	// A librarian can add, edit and delete.
	librarianCookie := login(t, app, "librarian@library.com", "admin123")
	resp, body = doJSON(t, app, http.MethodPost, "/api/add_book", payload, librarianCookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	bookID, _ := body["id"].(string)
	assert.NotEmpty(t, bookID)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/edit_book", map[string]interface{}{
		"id":     bookID,
		"copies": 9,
	}, librarianCookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	respGet, _ := doJSON(t, app, http.MethodGet, "/api/book/"+bookID, nil, nil)
	assert.Equal(t, http.StatusOK, respGet.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/delete_book", map[string]string{
		"id": bookID,
	}, librarianCookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/delete_book", map[string]string{
		"id": bookID,
	}, librarianCookie)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestIssueAndReturnFlow(t *testing.T) {
	app, db, err := setupApp(t)
	assert.NoError(t, err)

	cookie := login(t, app, "student1@college.com", "student123")

	// Computer Networks was seeded with a single copy.
	var book models.Book
	assert.NoError(t, db.First(&book, "title = ?", "Computer Networks").Error)

	resp, body := doJSON(t, app, http.MethodPost, "/api/issue", map[string]string{
		"book_id": book.ID,
	}, cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Book issued successfully", body["msg"])

	// The last copy is out.
	otherCookie := login(t, app, "student2@college.com", "student123")
	resp, body = doJSON(t, app, http.MethodPost, "/api/issue", map[string]string{
		"book_id": book.ID,
	}, otherCookie)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No copies available", body["error"])

	resp, body = doJSON(t, app, http.MethodPost, "/api/issue", map[string]string{
		"book_id": "no-such-book",
	}, cookie)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Book not found", body["error"])

	// The student dashboard lists the issue with its title.
	req := httptest.NewRequest(http.MethodGet, "/api/student/issues", nil)
	req.AddCookie(cookie)
	rawResp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rawResp.StatusCode)
	var issues []models.IssueWithTitle
	assert.NoError(t, json.NewDecoder(rawResp.Body).Decode(&issues))
	rawResp.Body.Close()
	assert.Len(t, issues, 1)
	assert.Equal(t, "Computer Networks", issues[0].BookTitle)

	// Return on time: fine is zero and the copy is back.
	resp, body = doJSON(t, app, http.MethodPost, "/api/return", map[string]string{
		"issue_id": issues[0].ID,
	}, cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), body["fine"])

	// A second return of the same issue conflicts.
	resp, body = doJSON(t, app, http.MethodPost, "/api/return", map[string]string{
		"issue_id": issues[0].ID,
	}, cookie)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Book already returned", body["error"])

	// Now the other student can issue the freed copy.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/issue", map[string]string{
		"book_id": book.ID,
	}, otherCookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStudentIssuesWithoutSession(t *testing.T) {
	app, _, err := setupApp(t)
	assert.NoError(t, err)

	// Without a session the endpoint answers an empty list, not an error.
	req := httptest.NewRequest(http.MethodGet, "/api/student/issues", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var issues []models.IssueWithTitle
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&issues))
	assert.Empty(t, issues)
	resp.Body.Close()
}

func TestReservationFlow(t *testing.T) {
	app, db, err := setupApp(t)
	assert.NoError(t, err)

	var book models.Book
	assert.NoError(t, db.First(&book, "title = ?", "Introduction to Algorithms").Error)

	studentCookie := login(t, app, "student1@college.com", "student123")
	otherCookie := login(t, app, "student2@college.com", "student123")

	resp, body := doJSON(t, app, http.MethodPost, "/api/reserve", map[string]string{
		"book_id": book.ID,
	}, studentCookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Reservation added", body["msg"])

	// Reserving the same book twice fails.
	resp, body = doJSON(t, app, http.MethodPost, "/api/reserve", map[string]string{
		"book_id": book.ID,
	}, studentCookie)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Already reserved", body["error"])

	// A different student can still reserve it.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/reserve", map[string]string{
		"book_id": book.ID,
	}, otherCookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Students see only their own reservation.
	req := httptest.NewRequest(http.MethodGet, "/api/reservations", nil)
	req.AddCookie(studentCookie)
	rawResp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rawResp.StatusCode)
	var mine []models.ReservationWithTitle
	assert.NoError(t, json.NewDecoder(rawResp.Body).Decode(&mine))
	rawResp.Body.Close()
	assert.Len(t, mine, 1)
	assert.Equal(t, "student1@college.com", mine[0].Email)
	assert.Equal(t, "Introduction to Algorithms", mine[0].BookTitle)

	// The librarian sees both.
	librarianCookie := login(t, app, "librarian@library.com", "admin123")
	req = httptest.NewRequest(http.MethodGet, "/api/reservations", nil)
	req.AddCookie(librarianCookie)
	rawResp, err = app.Test(req, -1)
	assert.NoError(t, err)
	var all []models.ReservationWithTitle
	assert.NoError(t, json.NewDecoder(rawResp.Body).Decode(&all))
	rawResp.Body.Close()
	assert.Len(t, all, 2)
}

func TestChartEndpoints(t *testing.T) {
	app, db, err := setupApp(t)
	assert.NoError(t, err)

	var book models.Book
	assert.NoError(t, db.First(&book, "title = ?", "Introduction to Algorithms").Error)

	cookie := login(t, app, "student1@college.com", "student123")
	resp, _ := doJSON(t, app, http.MethodPost, "/api/issue", map[string]string{
		"book_id": book.ID,
	}, cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/api/charts/popular_books", nil)
	rawResp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rawResp.StatusCode)
	var popular []services.BookCount
	assert.NoError(t, json.NewDecoder(rawResp.Body).Decode(&popular))
	rawResp.Body.Close()
	assert.Len(t, popular, 1)
	assert.Equal(t, "Introduction to Algorithms", popular[0].Title)
	assert.Equal(t, 1, popular[0].Count)

	req = httptest.NewRequest(http.MethodGet, "/api/charts/weekly_issued", nil)
	rawResp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rawResp.StatusCode)
	var weekly []services.DayCount
	assert.NoError(t, json.NewDecoder(rawResp.Body).Decode(&weekly))
	rawResp.Body.Close()
	assert.Len(t, weekly, 7)
	assert.Equal(t, "Mon", weekly[0].Day)
	assert.Equal(t, "Sun", weekly[6].Day)
	total := 0
	for _, d := range weekly {
		total += d.Count
	}
	assert.Equal(t, 1, total)
}

func TestPages(t *testing.T) {
	app, _, err := setupApp(t)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	resp.Body.Close()

	// Dashboards bounce to the login page without a matching session.
	req = httptest.NewRequest(http.MethodGet, "/librarian", nil)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	resp.Body.Close()

	cookie := login(t, app, "librarian@library.com", "admin123")
	req = httptest.NewRequest(http.MethodGet, "/librarian", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// A student session cannot open the librarian dashboard.
	studentCookie := login(t, app, "student1@college.com", "student123")
	req = httptest.NewRequest(http.MethodGet, "/librarian", nil)
	req.AddCookie(studentCookie)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	resp.Body.Close()
}
