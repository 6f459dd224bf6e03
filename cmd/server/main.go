package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/stemsi/records-admin/internal/catalog"
	"github.com/stemsi/records-admin/internal/client"
	"github.com/stemsi/records-admin/internal/config"
	"github.com/stemsi/records-admin/internal/database"
	"github.com/stemsi/records-admin/internal/endpoint"
	"github.com/stemsi/records-admin/internal/handler"
	"github.com/stemsi/records-admin/internal/logger"
	"github.com/stemsi/records-admin/internal/middleware"
	"github.com/stemsi/records-admin/internal/router"
	"github.com/stemsi/records-admin/internal/service"
	"github.com/stemsi/records-admin/internal/validator"
	"github.com/stemsi/records-admin/internal/view"
	"github.com/stemsi/records-admin/internal/web"
	"github.com/stemsi/records-admin/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Str("api_base_url", cfg.APIBaseURL).
		Msg("Starting Records Admin")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── View State and E-mail Queue ───────────────────────────────────
	stores := database.OpenStores(ctx, cfg, log)
	defer stores.Close()

	var storePinger handler.Pinger
	if stores.Backend == "redis" {
		storePinger = stores
	}

	// ─── Semester Catalog ──────────────────────────────────────────────
	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.CatalogFile).Msg("Failed to load catalog")
	}

	// ─── Initialize Services ──────────────────────────────────────────
	apiClient := client.New(cfg.APITimeout, log)
	resolver := endpoint.NewResolver(cfg.APIBaseURL)

	studentService := service.NewStudentService(apiClient, resolver)
	courseService := service.NewCourseService(apiClient, resolver)
	gradeService := service.NewGradeService(apiClient, resolver)
	termService := service.NewTermService(apiClient, cfg.TermInfoURL, cat, log)
	exportService := service.NewExportService()
	pdfService := service.NewTranscriptPDFService(cfg.TranscriptFontPath)
	mailer := service.NewMailer(cfg.SendgridAPIKey, cfg.MailFrom, cfg.MailFromName, log)

	if !pdfService.Available() {
		log.Warn().Str("font", cfg.TranscriptFontPath).Msg("Transcript font missing, PDF downloads disabled")
	}

	// ─── Initialize Views ─────────────────────────────────────────────
	studentList := view.NewStudentList(studentService, stores.State, log)
	courseList := view.NewCourseList(courseService, stores.State, log)
	gradeList := view.NewGradeList(gradeService, stores.State, log)

	studentForms := view.NewStudentForms(studentService, cfg.RedirectDelay, log)
	courseForms := view.NewCourseForms(courseService, cfg.RedirectDelay, log)
	gradeForms := view.NewGradeForms(gradeService, studentService, courseService, termService.Semesters(), cfg.RedirectDelay, log)

	details := view.NewDetails(studentService, courseService, gradeService, log)
	transcripts := view.NewTranscripts(studentService, gradeService, log)
	dashboards := view.NewDashboards(studentService, courseService, gradeService, termService, log)
	liveFilter := view.NewLiveFilter(stores.State, studentList, courseList, gradeList)

	renderer, err := web.NewRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse templates")
	}

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Dashboard:  handler.NewDashboardHandler(dashboards, log),
		Student:    handler.NewStudentHandler(studentList, studentForms, details, log),
		Course:     handler.NewCourseHandler(courseList, courseForms, details, log),
		Grade:      handler.NewGradeHandler(gradeList, gradeForms, exportService, log),
		Transcript: handler.NewTranscriptHandler(transcripts, pdfService, stores.Queue, log),
		LiveFilter: handler.NewLiveFilterHandler(liveFilter, log, cfg.AllowedOrigins),
		Validate:   handler.NewValidateHandler(),
		System:     handler.NewSystemHandler(storePinger, stores.Queue, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	emailWorker := worker.NewTranscriptEmailWorker(stores.Queue, transcripts, pdfService, mailer, log)
	workers.Add(1)
	go func() {
		defer workers.Done()
		emailWorker.Start(workerCtx)
	}()

	// ─── Setup Router ──────────────────────────────────────────────────
	emailLimiter := middleware.NewRateLimiter(ctx, cfg.EmailRatePerMinute, time.Minute)
	r := router.SetupRouter(handlers, renderer, emailLimiter, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Str("store", stores.Backend).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the e-mail worker and wait for it to drain the queue.
	workerCancel()
	workers.Wait()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
