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
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agentflow/agentflow-api/internal/ai"
	"github.com/agentflow/agentflow-api/internal/cache"
	"github.com/agentflow/agentflow-api/internal/config"
	"github.com/agentflow/agentflow-api/internal/infra/database"
	"github.com/agentflow/agentflow-api/internal/infra/http/handlers"
	"github.com/agentflow/agentflow-api/internal/infra/http/middleware"
	"github.com/agentflow/agentflow-api/internal/infra/integration/whatsapp"
	"github.com/agentflow/agentflow-api/internal/infra/mail"
	"github.com/agentflow/agentflow-api/internal/infra/queue"
	"github.com/agentflow/agentflow-api/internal/logger"
	"github.com/agentflow/agentflow-api/internal/perf"
	"github.com/agentflow/agentflow-api/internal/usecase"
)

func main() {
	cfg := config.Load()
	log := logger.New("agentflow", cfg.LogLevel, cfg.IsProduction())

	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database connection failed", err)
	}
	defer db.Close()

	rabbit, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		log.Fatal("rabbitmq connection failed", err)
	}
	defer rabbit.Close()

	// Caches: one instance per namespace, injected where needed. The static
	// namespace backs asset responses served by the edge; it is constructed
	// here so the admin surface reports all four.
	apiCache := cache.New("api", 5*time.Minute, log, cfg.IsProduction())
	blogCache := cache.New("blog", 30*time.Minute, log, cfg.IsProduction())
	templatesCache := cache.New("templates", time.Hour, log, cfg.IsProduction())
	staticCache := cache.New("static", 24*time.Hour, log, cfg.IsProduction())

	collector := perf.NewCollector(log)
	stopSampler := make(chan struct{})
	collector.StartSystemSampler(stopSampler)
	defer close(stopSampler)

	// Repositories
	leadRepo := database.NewLeadRepository(db, log)
	blogRepo := database.NewBlogRepository(db, log)
	newsletterRepo := database.NewNewsletterRepository(db, log)
	assessmentRepo := database.NewAssessmentRepository(db, log)
	needRepo := database.NewNeedRepository(db, log)
	whatsappRepo := database.NewWhatsappRepository(db, log)

	// Integrations
	waClient := whatsapp.NewClient(cfg.WhatsAppToken, cfg.WhatsAppPhoneID, log)
	mailSender := mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom, log)
	analyzer := ai.NewRemoteAnalyzer(cfg.AIEndpoint, cfg.AIAPIKey, ai.NewKeywordAnalyzer(), log)

	// Background pipeline: webhook tasks land on the queue, the worker runs
	// the conversation flow detached from any request.
	producer := queue.NewProducer(rabbit.Ch)
	processInbound := usecase.NewProcessInboundUseCase(whatsappRepo, analyzer, waClient, templatesCache, log)
	worker := queue.NewWorker(rabbit.Ch, processInbound, log)
	go func() {
		if err := worker.Start(queue.QueueName); err != nil {
			log.Error("worker stopped", err)
		}
	}()

	// Use cases + handlers
	createLead := usecase.NewCreateLeadUseCase(leadRepo, assessmentRepo, mailSender, cfg.NotifyEmail, log)

	resp := handlers.NewResponder(log, cfg.IsProduction())
	blogHandler := handlers.NewBlogHandler(blogRepo, blogCache, apiCache, resp)
	leadHandler := handlers.NewLeadHandler(createLead, resp)
	newsletterHandler := handlers.NewNewsletterHandler(newsletterRepo, mailSender, resp, log)
	needHandler := handlers.NewNeedHandler(needRepo, assessmentRepo, resp)
	whatsappHandler := handlers.NewWhatsappHandler(producer, waClient, cfg.WhatsAppVerifyToken, resp, log)
	adminHandler := handlers.NewAdminHandler(collector, map[string]*cache.Service{
		"api":       apiCache,
		"blog":      blogCache,
		"templates": templatesCache,
		"static":    staticCache,
	}, resp)
	healthHandler := handlers.NewHealthHandler(db, rabbit.Conn, cfg.WhatsAppToken != "")

	limiter := handlers.NewRateLimiter(10, time.Minute)

	r := chi.NewRouter()
	r.Use(resp.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-API-Key"},
	}))
	r.Use(middleware.Metrics)
	r.Use(collector.Middleware)

	r.Route("/api", func(r chi.Router) {
		r.Get("/blog", blogHandler.List)
		r.Get("/blog/search", blogHandler.Search)
		r.Get("/blog/category/{category}", blogHandler.ListByCategory)
		r.Get("/blog/{slug}", blogHandler.GetBySlug)

		r.Group(func(r chi.Router) {
			r.Use(limiter.Middleware(resp))
			r.Post("/leads", leadHandler.Create)
			r.Post("/newsletter", newsletterHandler.Subscribe)
			r.Post("/business-needs", needHandler.Create)
		})

		r.Get("/whatsapp/webhook", whatsappHandler.Verify)
		r.Post("/whatsapp/webhook", whatsappHandler.Receive)
		r.Post("/whatsapp/send", whatsappHandler.Send)

		r.Route("/admin", func(r chi.Router) {
			r.Use(handlers.APIKeyAuth(cfg.APIKey, cfg.IsProduction(), resp))
			r.Get("/performance", adminHandler.Performance)
			r.Get("/cache", adminHandler.CacheStats)
			r.Post("/cache/flush", adminHandler.FlushCache)
		})
	})

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info("server listening", map[string]any{"port": cfg.Port, "env": cfg.Env})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown incomplete", err)
	}
}
