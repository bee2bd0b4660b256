package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/ligue-solar/internal/analytics"
	"github.com/xavierca1/ligue-solar/internal/boundary"
	"github.com/xavierca1/ligue-solar/internal/cache"
	"github.com/xavierca1/ligue-solar/internal/config"
	"github.com/xavierca1/ligue-solar/internal/entity"
	"github.com/xavierca1/ligue-solar/internal/export/document"
	"github.com/xavierca1/ligue-solar/internal/health"
	"github.com/xavierca1/ligue-solar/internal/infra/database"
	"github.com/xavierca1/ligue-solar/internal/infra/http/handlers"
	appmw "github.com/xavierca1/ligue-solar/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-solar/internal/infra/integration/kommo"
	"github.com/xavierca1/ligue-solar/internal/infra/integration/supabase"
	"github.com/xavierca1/ligue-solar/internal/infra/integration/viacep"
	"github.com/xavierca1/ligue-solar/internal/infra/integration/whatsapp"
	"github.com/xavierca1/ligue-solar/internal/infra/kv"
	"github.com/xavierca1/ligue-solar/internal/infra/mail"
	"github.com/xavierca1/ligue-solar/internal/infra/queue"
	"github.com/xavierca1/ligue-solar/internal/persistence"
	"github.com/xavierca1/ligue-solar/internal/usecase"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	reporter, flush, err := boundary.NewReporter(cfg.Env, cfg.SentryDSN)
	if err != nil {
		log.Printf("⚠️ %v", err)
	}
	defer flush()
	guard := boundary.New(reporter)

	// 1. Banco
	if cfg.RunMigrations {
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatalf("❌ %v", err)
		}
	}

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Banco indisponível: %v", err)
	}
	defer db.Close()
	log.Println("✅ Conectado ao Postgres")

	monitor := health.NewConnectivityMonitor(db, health.DefaultThreshold)

	// 2. Repositórios e persistência
	proposalRepo := database.NewProposalRepository(db)
	roleRepo := database.NewRoleRepository(db)

	client := persistence.NewClient(proposalRepo, persistence.Notifiers{persistence.LogNotifier{}, monitor})
	proposalCache := cache.New(cache.Options[[]entity.Proposal]{
		DefaultTTL:   cfg.CacheTTL,
		MaxEntries:   200,
		MaxSizeBytes: 20 << 20,
	})
	store := persistence.NewCachedClient(client, proposalCache, cfg.CacheTTL)

	// 3. Cache compartilhado (CEP)
	var kvStore viacep.Store = kv.NewMemoryStore(5000)
	var redisPinger handlers.Pinger
	if cfg.RedisAddr != "" {
		rdb := kv.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)
		defer rdb.Close()
		redisStore := kv.NewRedisStore(rdb, "solar:")
		kvStore, redisPinger = redisStore, redisStore
		log.Println("✅ Redis configurado")
	} else {
		log.Println("⚠️ REDIS_ADDR não definido, cache de CEP em memória")
	}
	addressLookup := viacep.NewCachedLookup(viacep.NewClient(cfg.ViaCEPURL), kvStore, 24*time.Hour)

	// 4. Eventos
	var events usecase.EventPublisher = queue.LogProducer{}
	var rabbitConn *amqp091.Connection
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			log.Printf("⚠️ %v (eventos só no log)", err)
		} else {
			defer rabbitMQ.Close()
			events = queue.NewProducer(rabbitMQ.Ch)
			rabbitConn = rabbitMQ.Conn
			log.Println("✅ RabbitMQ conectado")
		}
	}

	// 5. Notificações
	mailSender := mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom)
	crm := kommo.NewClient(cfg.KommoToken, cfg.KommoBaseURL)
	var whatsappSender usecase.WhatsAppService
	if cfg.WhatsAppToken != "" {
		whatsappSender = mail.NewWhatsAppSender(whatsapp.NewClient(cfg.WhatsAppToken, cfg.WhatsAppPhoneID), cfg.WhatsAppTemplate)
	}

	// 6. UseCases
	exporter := document.NewExporter(document.NewRasterizer(document.DefaultScale), document.NewHTTPImageLoader())
	renderPDF := usecase.NewRenderProposalPDF(exporter, guard, document.LayoutOptions{
		CompanyName: "Ligue Solar",
		LogoURL:     cfg.CompanyLogoURL,
	})
	aggregator := analytics.NewAggregator()

	saveUC := usecase.NewSaveProposalUseCase(store, events, mailSender, whatsappSender, crm, renderPDF)
	exportUC := usecase.NewExportProposalsUseCase(store, aggregator)
	resolveUC := usecase.NewResolveUserUseCase(roleRepo, cache.New(cache.Options[entity.Role]{
		DefaultTTL: time.Minute,
		MaxEntries: 1000,
	}))

	// 7. Handlers
	healthHandler := handlers.NewHealthHandler(db, redisPinger, rabbitConn, monitor)
	healthHandler.Cache = store
	calculationHandler := handlers.NewCalculationHandler()
	formHandler := handlers.NewFormHandler(addressLookup)
	addressHandler := handlers.NewAddressHandler(addressLookup)
	proposalHandler := handlers.NewProposalHandler(
		usecase.NewListProposalsUseCase(store),
		usecase.NewGetProposalUseCase(store),
		saveUC,
		usecase.NewDeleteProposalUseCase(store, events),
		renderPDF,
		exportUC,
	)
	dashboardHandler := handlers.NewDashboardHandler(usecase.NewDashboardUseCase(store, aggregator), exportUC)

	sessions := cache.New(cache.Options[entity.User]{DefaultTTL: supabase.SessionTTL, MaxEntries: 1000})
	auth := appmw.NewAuth(supabase.NewCachedAuth(supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey), sessions), resolveUC)
	exportLimiter := appmw.NewRateLimiter(20, time.Minute)

	// 8. Router
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(guard.Middleware)
	r.Use(appmw.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Page-Count"},
		AllowCredentials: true,
	}))
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/calculations", calculationHandler.Handle)
	r.Post("/forms/derive", formHandler.Handle)
	r.Get("/address/{cep}", addressHandler.Handle)

	r.Group(func(r chi.Router) {
		r.Use(auth.Handler)

		r.Get("/me", proposalHandler.HandleMe)
		r.Get("/proposals", proposalHandler.HandleList)
		r.Post("/proposals", proposalHandler.HandleCreate)
		r.Get("/proposals/{id}", proposalHandler.HandleGet)
		r.Delete("/proposals/{id}", proposalHandler.HandleDelete)

		r.Group(func(r chi.Router) {
			r.Use(exportLimiter.Handler)
			r.Get("/proposals/{id}/pdf", proposalHandler.HandlePDF)
			r.Get("/proposals/export.csv", proposalHandler.HandleExportCSV)
			r.Get("/proposals/export.xlsx", proposalHandler.HandleExportXLSX)
		})

		r.Group(func(r chi.Router) {
			r.Use(appmw.RequireAdmin)
			r.Get("/dashboard", dashboardHandler.Handle)
			r.With(exportLimiter.Handler).Get("/dashboard/report.pdf", dashboardHandler.HandleReport)
		})
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("🔥 Server Ligue Solar rodando na porta %s (%s)", cfg.Port, cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Encerrando servidor...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Shutdown: %v", err)
	}
}
