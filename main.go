package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"perpus/internal/handlers"
	"perpus/internal/middleware"
	"perpus/internal/models"
	"perpus/internal/repositories"
	"perpus/internal/services"
	"perpus/internal/session"
	"perpus/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("SESSION_TTL_MINUTES", 60)
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	sessionTTL := time.Duration(viper.GetInt("SESSION_TTL_MINUTES")) * time.Minute

	// DATABASE_URL is the one required setting; refuse to start
	// without store credentials.
	dbURL := viper.GetString("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	// --- Database ---
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

	// --- RabbitMQ (optional) ---
	// Event publication is best-effort; without a broker URL the
	// services simply skip it.
	var publisher services.EventPublisher
	if mqURL := viper.GetString("RABBITMQ_URL"); mqURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: mqURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		publisher = mqClient

		// Consume the library events queue so published events are
		// visible in the server log.
		go func() {
			log.Println("Starting RabbitMQ consumer for library events...")
			if consumerErr := mqClient.Consume(rabbitmq.LogDelivery); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	} else {
		log.Println("RABBITMQ_URL not set, event publication disabled")
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	bookRepo := repositories.NewGORMBookRepository(db)
	issueRepo := repositories.NewGORMIssueRepository(db)
	reservationRepo := repositories.NewGORMReservationRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo)
	catalogService := services.NewCatalogService(bookRepo)
	circulationService := services.NewCirculationService(issueRepo, bookRepo, publisher)
	reservationService := services.NewReservationService(reservationRepo, bookRepo, publisher)
	analyticsService := services.NewAnalyticsService(issueRepo, bookRepo)

	// --- Sessions ---
	sessionStore := session.NewStore(sessionTTL)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService, sessionStore, sessionTTL)
	pageHandler := handlers.NewPageHandler(sessionStore)
	bookHandler := handlers.NewBookHandler(catalogService)
	circulationHandler := handlers.NewCirculationHandler(circulationService, sessionStore)
	reservationHandler := handlers.NewReservationHandler(reservationService)
	chartHandler := handlers.NewChartHandler(analyticsService)

	// --- Fiber App ---
	app := fiber.New()
	app.Use(logger.New())

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

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
