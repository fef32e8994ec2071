package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/smartspend/smartspend-api/config"
	"github.com/smartspend/smartspend-api/handlers"
	"github.com/smartspend/smartspend-api/middleware"
	"github.com/smartspend/smartspend-api/routes"
	"github.com/smartspend/smartspend-api/services"
	"github.com/smartspend/smartspend-api/store"
	"github.com/smartspend/smartspend-api/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default command)",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	st, backend, err := openStore(cfg, true)
	if err != nil {
		return err
	}
	defer st.Close()

	wsHandler := handlers.NewWSHandler()
	defer wsHandler.Close()

	deps := buildDeps(cfg, st, wsHandler)

	if cfg.Admin.Password != "" {
		if err := seedAdmin(ctx, deps.Auth, cfg.Admin); err != nil {
			return err
		}
	}

	go deps.RateLimiter.RunCleanup(ctx)

	router := routes.NewRouter(deps)
	utils.LogStartup("SmartSpend API", routes.Version, cfg.Server.Port, backend)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Println("🛑 Shutting down...")
		shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
		defer stop()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	}
}

// buildDeps wires services to the store and the websocket notifier.
func buildDeps(cfg config.Config, st store.Store, ws *handlers.WSHandler) routes.Deps {
	var mailer services.AlertMailer
	email := services.NewEmailService(cfg.Email.ResendAPIKey, cfg.Email.From, cfg.Server.FrontendURL)
	if email.Enabled() {
		mailer = email
	} else {
		log.Println("⚠️ RESEND_API_KEY not set, budget alert emails disabled")
	}

	return routes.Deps{
		Auth:       services.NewAuthService(st, cfg.Auth.DataEncryptionKey),
		Finance:    services.NewFinanceService(st, ws, mailer),
		Budgets:    services.NewBudgetService(st),
		Summary:    services.NewSummaryService(st),
		Moderation: services.NewModerationService(st, ws),
		WS:         ws,
		Session: handlers.SessionConfig{
			Secret:       cfg.Auth.SessionSecret,
			TTL:          time.Duration(cfg.Auth.SessionTTLHours) * time.Hour,
			CookieSecure: cfg.Auth.CookieSecure,
		},
		AllowedOrigins: cfg.Origins(),
		RateLimiter:    middleware.NewRateLimiter(cfg.Server.RateLimitPerMinute, time.Minute),
	}
}

func seedAdmin(ctx context.Context, auth *services.AuthService, a config.AdminConfig) error {
	user, created, err := auth.EnsureAdmin(ctx, services.AdminAccount{
		Username: a.Username,
		Email:    a.Email,
		Password: a.Password,
		FullName: a.FullName,
	})
	if err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	if created {
		log.Printf("👤 Admin account %s created", user.Username)
	} else {
		log.Printf("👤 Admin account %s ready", user.Username)
	}
	return nil
}
