package handlers

import (
	"perpus/internal/middleware"
	"perpus/internal/models"
	"perpus/internal/session"

	"github.com/gofiber/fiber/v2"
)

const loginPage = `<!DOCTYPE html>
<html>
<head><title>Library Login</title></head>
<body>
<h1>Library Login</h1>
<form method="post" action="/login">
  <input type="email" name="email" placeholder="Email" required>
  <input type="password" name="password" placeholder="Password" required>
  <button type="submit">Login</button>
</form>
</body>
</html>`

const studentPage = `<!DOCTYPE html>
<html>
<head><title>Student Dashboard</title></head>
<body><h1>Student Dashboard</h1></body>
</html>`

const librarianPage = `<!DOCTYPE html>
<html>
<head><title>Librarian Dashboard</title></head>
<body><h1>Librarian Dashboard</h1></body>
</html>`

// PageHandler serves the login page and the two role-gated dashboard
// pages. Unlike the JSON API, the dashboards redirect unauthenticated
// browsers back to the login page.
type PageHandler struct {
	sessions *session.Store
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(sessions *session.Store) *PageHandler {
	return &PageHandler{
		sessions: sessions,
	}
}

// RegisterRoutes registers the page routes with the Fiber app.
func (h *PageHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleLoginPage)
	router.Get("/student", h.dashboard(models.RoleStudent, studentPage))
	router.Get("/librarian", h.dashboard(models.RoleLibrarian, librarianPage))
}

// HandleLoginPage serves the login page.
func (h *PageHandler) HandleLoginPage(c *fiber.Ctx) error {
	c.Type("html")
	return c.SendString(loginPage)
}

func (h *PageHandler) dashboard(role, page string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := h.sessions.Get(c.Cookies(middleware.SessionCookie))
		if !ok || sess.Role != role {
			return c.Redirect("/")
		}
		c.Type("html")
		return c.SendString(page)
	}
}
