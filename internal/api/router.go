package api

import (
	"fmt"
	"log"
	"net/http"

	_ "github.com/skillproof/server/docs"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/skillproof/server/internal/api/handlers"
	"github.com/skillproof/server/internal/api/middleware"
	"github.com/skillproof/server/internal/config"
	"github.com/rs/cors"
)

func SetupRouter() http.Handler {
	mainMux := http.NewServeMux()
	c := cors.New(config.Envs.CorsConfig)

	// ---------- PUBLIC ROUTES ----------
	mainMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mainMux.HandleFunc("/docs/", httpSwagger.WrapHandler)
	mainMux.Handle("/metrics", promhttp.Handler())

	authMux := http.NewServeMux()
	authMux.HandleFunc("/sign-up", handlers.SignUp)
	authMux.HandleFunc("/login", handlers.Login)
	authMux.HandleFunc("/logout", handlers.Logout)
	authMux.HandleFunc("/google/login", handlers.HandleGoogleLogin)
	authMux.HandleFunc("/google/callback", handlers.HandleGoogleCallback)

	mainMux.Handle("/api/v1/auth/",
		http.StripPrefix("/api/v1/auth", authMux),
	)

	// The employer surface and its event stream carry only the derived
	// verified-profiles view, so they take no gate at all.
	mainMux.HandleFunc("/api/v1/employer/profiles", handlers.VerifiedProfiles)

	eventsMux := http.NewServeMux()
	eventsMux.HandleFunc("/profiles", handlers.ProfileEvents)
	eventsMux.Handle("/users", middleware.AdminMiddleware(http.HandlerFunc(handlers.UserEvents)))
	eventsMux.Handle("/certificates", middleware.AdminMiddleware(http.HandlerFunc(handlers.CertificateEvents)))

	mainMux.Handle("/api/v1/events/",
		http.StripPrefix("/api/v1/events", eventsMux),
	)

	// ---------- ADMIN ROUTES ----------
	adminMux := http.NewServeMux()
	adminMux.HandleFunc("/stats", handlers.AdminStats)
	adminMux.HandleFunc("/certificates", handlers.PendingCertificates)
	adminMux.HandleFunc("/certificates/{uid}/{cid}/approve", handlers.ApproveCertificate)

	mainMux.Handle("/api/v1/admin/",
		http.StripPrefix(
			"/api/v1/admin",
			middleware.AdminMiddleware(adminMux),
		),
	)

	// ---------- PROTECTED ROUTES ----------
	protectedMux := http.NewServeMux()
	protectedMux.HandleFunc("/me", handlers.Me)
	protectedMux.HandleFunc("/profile", handlers.SaveProfile)
	protectedMux.HandleFunc("/profile/skills", handlers.AddSkill)
	protectedMux.HandleFunc("/profile/certificates", handlers.SubmitCertificate)
	protectedMux.HandleFunc("/profile/photo/presign", handlers.PresignPhoto)

	mainMux.Handle("/api/v1/",
		http.StripPrefix(
			"/api/v1",
			middleware.AuthMiddleware(protectedMux),
		),
	)

	log.Println("Router initialized")
	handler := c.Handler(mainMux)
	handler = middleware.Metrics(handler)
	handler = middleware.Logger(handler)
	return handler
}
