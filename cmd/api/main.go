package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/caredesk/caredesk-api/internal/http/handlers"
	httpmw "github.com/caredesk/caredesk-api/internal/http/middleware"
	"github.com/caredesk/caredesk-api/internal/mailer"
	"github.com/caredesk/caredesk-api/internal/repo/postgres"
	"github.com/caredesk/caredesk-api/internal/service"
	"github.com/caredesk/caredesk-api/pkg/config"
	"github.com/caredesk/caredesk-api/pkg/database"
	"github.com/caredesk/caredesk-api/pkg/events"
	"github.com/caredesk/caredesk-api/pkg/logger"
	mw "github.com/caredesk/caredesk-api/pkg/middleware"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	// Repositories
	userRepo := postgres.NewUserRepository(pool)
	patientRepo := postgres.NewPatientRepository(pool)
	doctorRepo := postgres.NewDoctorRepository(pool)
	requestRepo := postgres.NewCareRequestRepository(pool)
	appointmentRepo := postgres.NewAppointmentRepository(pool)

	// Services
	mailSvc := buildMailer(cfg)
	profileSvc := service.NewProfileService(patientRepo, doctorRepo)
	accountSvc := service.NewAccountService(userRepo, profileSvc, mailSvc, eventBus, cfg)
	relationshipSvc := service.NewRelationshipService(userRepo, requestRepo, appointmentRepo, doctorRepo)
	careSvc := service.NewCareService(requestRepo, appointmentRepo, doctorRepo, eventBus)

	h := handlers.New(accountSvc, relationshipSvc, careSvc, cfg)

	// Anonymous account endpoints share one limiter so activation, reset and
	// registration abuse is throttled per client IP.
	signupLimiter := httpmw.NewRateLimiter(pool, httpmw.RateLimitConfig{
		Requests: 10,
		Window:   time.Minute,
		KeyFunc:  httpmw.IPKeyFunc,
	})

	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("caredesk-api"))
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		// Anonymous account lifecycle
		r.Group(func(r chi.Router) {
			r.Use(signupLimiter.Middleware())
			r.Post("/register", h.Register)
			r.Get("/activate", h.Activate)
			r.Post("/authenticate", h.Authenticate)
			r.Post("/account/reset-password/init", h.RequestPasswordReset)
			r.Post("/account/reset-password/finish", h.FinishPasswordReset)
		})

		// Authenticated account
		r.Group(func(r chi.Router) {
			r.Use(h.RequireJWT(""))
			r.Get("/authenticate", h.CurrentLogin)
			r.Get("/account", h.GetAccount)
			r.Post("/account", h.SaveAccount)
			r.Post("/account/change-password", h.ChangePassword)

			// Relationship views for the logged-in user
			r.Get("/user/my-doctors", h.MyDoctors)
			r.Get("/user/my-appointments", h.MyAppointments)
			r.Get("/user/my-appointment-doctors", h.MyAppointmentDoctors)

			// Care scheduling
			r.Get("/doctors", h.ListDoctors)
			r.Post("/requests", h.CreateCareRequest)
			r.Get("/requests", h.ListCareRequests)
			r.Post("/appointments", h.CreateAppointment)
			r.Get("/appointments", h.ListAppointments)
		})

		// Admin user management
		r.Route("/users", func(r chi.Router) {
			r.Use(h.RequireJWT("ROLE_ADMIN"))
			r.Post("/", h.CreateUser)
			r.Get("/", h.ListUsers)
			r.Get("/authorities", h.ListAuthorities)
			r.Get("/{login}", h.GetUser)
			r.Put("/{login}", h.UpdateUser)
			r.Delete("/{login}", h.DeleteUser)
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down caredesk-api...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Shutdown error", "error", err)
		}
	}()

	logger.Info("Starting caredesk-api", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}

func buildMailer(cfg *config.Config) mailer.Service {
	switch {
	case cfg.Email.DevMode:
		logger.Info("Using dev mailer (emails printed to logs)")
		return mailer.NewDevMailer()
	case cfg.Email.MailerSendKey != "":
		return mailer.NewMailerSend(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.SMTPFrom)
	case cfg.Email.SMTPHost != "":
		return mailer.NewSMTPMailer(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.SMTPFrom, cfg.Email.SMTPUser, cfg.Email.SMTPPass, cfg.Email.SMTPUseTLS)
	default:
		logger.Warn("No mailer configured, falling back to dev mailer")
		return mailer.NewDevMailer()
	}
}
