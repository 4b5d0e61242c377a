package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"invoicedash/config"
	_ "invoicedash/docs"
	"invoicedash/internal/adapters/email"
	deliveryhttp "invoicedash/internal/delivery/http"
	"invoicedash/internal/delivery/http/controllers"
	"invoicedash/internal/delivery/http/middleware"
	"invoicedash/internal/delivery/web"
	"invoicedash/internal/repository/postgres"
	"invoicedash/internal/services"

	"github.com/prometheus/client_golang/prometheus"
)

const serviceTimeout = 10 * time.Second

// @title invoicedash API
// @version 1.0
// @description JSON API for the invoicedash invoice-management application.
// @BasePath /
func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "invoicedash",
		Short:         "Invoice management web application",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(serveCmd(), migrateCmd())
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := postgres.Open(cfg.DBUrl)
			if err != nil {
				return err
			}
			defer db.Close()
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			if err := postgres.Migrate(ctx, db); err != nil {
				return err
			}
			fmt.Println("schema applied")
			return nil
		},
	}
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := config.NewLogger()

	db, err := postgres.Open(cfg.DBUrl)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	invoiceRepo := postgres.NewInvoiceRepository(db)
	customerRepo := postgres.NewCustomerRepository(db)

	// The page cache doubles as the revalidation hook: registering no paths
	// turns it into a pass-through whose Revalidate is a no-op.
	var cachePaths []string
	if cfg.ListingCache {
		cachePaths = append(cachePaths, "/dashboard/invoices")
	}
	pageCache := deliveryhttp.NewPageCache(cachePaths...)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:          cfg.Email.SESRegion,
			AccessKeyID:     cfg.Email.SESAccessKeyID,
			SecretAccessKey: cfg.Email.SESSecretAccessKey,
		},
	})
	if err != nil {
		return fmt.Errorf("create mailer: %w", err)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())

	invoiceService := services.NewInvoiceService(invoiceRepo, customerRepo, pageCache, emailService, serviceTimeout)

	renderer, err := web.NewRenderer()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	pageController := controllers.NewInvoicePageController(logger, invoiceService, renderer)
	apiController := controllers.NewInvoiceAPIController(logger, invoiceService)
	metrics := middleware.NewMetrics(prometheus.DefaultRegisterer)

	mux := deliveryhttp.NewRouter(pageController, apiController, metrics)

	var handler http.Handler = pageCache.Middleware(mux)
	if len(cfg.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.AllowedOrigins, handler)
	}
	handler = middleware.LoggingMiddleware(logger, handler)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}
