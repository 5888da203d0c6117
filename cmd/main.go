package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jessevdk/go-flags"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	blockSlotHandler "github.com/m04kA/SMC-StadiumBooking/internal/api/handlers/block_slot"
	cancelBookingHandler "github.com/m04kA/SMC-StadiumBooking/internal/api/handlers/cancel_booking"
	confirmBookingHandler "github.com/m04kA/SMC-StadiumBooking/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/m04kA/SMC-StadiumBooking/internal/api/handlers/create_booking"
	getAvailabilityHandler "github.com/m04kA/SMC-StadiumBooking/internal/api/handlers/get_availability"
	getBookingHandler "github.com/m04kA/SMC-StadiumBooking/internal/api/handlers/get_booking"
	getFacilityHandler "github.com/m04kA/SMC-StadiumBooking/internal/api/handlers/get_facility"
	getFacilityBookingsHandler "github.com/m04kA/SMC-StadiumBooking/internal/api/handlers/get_facility_bookings"
	getUserBookingsHandler "github.com/m04kA/SMC-StadiumBooking/internal/api/handlers/get_user_bookings"
	getUserCreditsHandler "github.com/m04kA/SMC-StadiumBooking/internal/api/handlers/get_user_credits"
	unblockSlotHandler "github.com/m04kA/SMC-StadiumBooking/internal/api/handlers/unblock_slot"
	updateFacilityHandler "github.com/m04kA/SMC-StadiumBooking/internal/api/handlers/update_facility"
	"github.com/m04kA/SMC-StadiumBooking/internal/api/middleware"
	"github.com/m04kA/SMC-StadiumBooking/internal/config"
	"github.com/m04kA/SMC-StadiumBooking/internal/infra/cache"
	blockRepo "github.com/m04kA/SMC-StadiumBooking/internal/infra/storage/blockedslot"
	bookingRepo "github.com/m04kA/SMC-StadiumBooking/internal/infra/storage/booking"
	claimRepo "github.com/m04kA/SMC-StadiumBooking/internal/infra/storage/claim"
	creditRepo "github.com/m04kA/SMC-StadiumBooking/internal/infra/storage/credit"
	facilityRepo "github.com/m04kA/SMC-StadiumBooking/internal/infra/storage/facility"
	"github.com/m04kA/SMC-StadiumBooking/internal/integrations/notifier"
	bookingsService "github.com/m04kA/SMC-StadiumBooking/internal/service/bookings"
	"github.com/m04kA/SMC-StadiumBooking/internal/service/expiry"
	facilitiesService "github.com/m04kA/SMC-StadiumBooking/internal/service/facilities"
	"github.com/m04kA/SMC-StadiumBooking/internal/service/ledger"
	blockSlotUC "github.com/m04kA/SMC-StadiumBooking/internal/usecase/block_slot"
	cancelBookingUC "github.com/m04kA/SMC-StadiumBooking/internal/usecase/cancel_booking"
	createBookingUC "github.com/m04kA/SMC-StadiumBooking/internal/usecase/create_booking"
	getAvailabilityUC "github.com/m04kA/SMC-StadiumBooking/internal/usecase/get_availability"
	unblockSlotUC "github.com/m04kA/SMC-StadiumBooking/internal/usecase/unblock_slot"
	"github.com/m04kA/SMC-StadiumBooking/migrations"
	"github.com/m04kA/SMC-StadiumBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-StadiumBooking/pkg/logger"
	"github.com/m04kA/SMC-StadiumBooking/pkg/metrics"
	"github.com/m04kA/SMC-StadiumBooking/pkg/txmanager"
)

type options struct {
	Config string `short:"c" long:"config" env:"BOOKING_CONFIG" default:"config.toml" description:"path to TOML config"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(opts.Config)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-StadiumBooking...")
	log.Info("Configuration loaded from %s", opts.Config)

	rules, err := cfg.BookingRules()
	if err != nil {
		log.Fatal("Invalid booking rules: %v", err)
	}
	periods, err := cfg.PeriodSet()
	if err != nil {
		log.Fatal("Invalid periods: %v", err)
	}
	operators := cfg.Operators()
	policy := cfg.CancellationPolicy()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Метрики (nil-коллектор ничего не пишет)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	stopMetricsCh := make(chan struct{})
	defer close(stopMetricsCh)

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	// Проверяем соединение
	if err := wrappedDB.PingContext(ctx); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Database.AutoMigrate {
		if err := migrations.Apply(ctx, wrappedDB); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		log.Info("Migrations applied")
	}

	// Уведомления о доменных событиях
	var sender notifier.Sender
	if cfg.Notifications.Enabled {
		publisher, err := notifier.NewPublisher(cfg.Notifications.URL, cfg.Notifications.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
		sender = publisher
		log.Info("Notifications enabled (exchange=%s)", cfg.Notifications.Exchange)
	} else {
		sender = notifier.NewLogSender(log)
		log.Info("Notifications disabled, events are only logged")
	}
	events := notifier.New(sender, metricsCollector, time.Duration(cfg.Notifications.Timeout)*time.Second, log)

	// Идемпотентность создания брони
	var idem createBookingHandler.IdempotencyStore
	if cfg.Redis.Enabled {
		rdb, err := cache.NewClient(ctx, cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis: %v", err)
		}
		defer rdb.Close()
		idem = cache.NewIdempotencyStore(rdb, time.Duration(cfg.Redis.IdempotencyTTL)*time.Second)
		log.Info("Idempotency store enabled (redis=%s)", cfg.Redis.Addr)
	}

	// Репозитории
	facilityRepository := facilityRepo.NewRepository(wrappedDB)
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	blockRepository := blockRepo.NewRepository(wrappedDB)
	claimRepository := claimRepo.NewRepository(wrappedDB)
	creditRepository := creditRepo.NewRepository(wrappedDB)

	txMgr := txmanager.NewTransactionManager(wrappedDB, metricsCollector, log)

	// Сервисы
	creditLedger := ledger.NewService(creditRepository, operators, log)
	expiryService := expiry.NewService(bookingRepository, claimRepository, creditLedger, rules, log)
	bookingSvc := bookingsService.NewService(bookingRepository, facilityRepository, txMgr, events, operators, rules, log)
	facilitySvc := facilitiesService.NewService(facilityRepository, log)

	// Use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		facilityRepository,
		bookingRepository,
		blockRepository,
		txMgr,
		periods,
		rules,
		log,
	)
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		facilityRepository,
		claimRepository,
		creditLedger,
		expiryService,
		txMgr,
		events,
		metricsCollector,
		rules,
		log,
	)
	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingRepository,
		facilityRepository,
		claimRepository,
		creditLedger,
		expiryService,
		txMgr,
		events,
		metricsCollector,
		policy,
		operators,
		rules,
		log,
	)
	blockSlotUseCase := blockSlotUC.NewUseCase(
		blockRepository,
		facilityRepository,
		claimRepository,
		expiryService,
		txMgr,
		events,
		operators,
		rules,
		log,
	)
	unblockSlotUseCase := unblockSlotUC.NewUseCase(
		blockRepository,
		facilityRepository,
		claimRepository,
		txMgr,
		operators,
		log,
	)

	// Handlers
	getFacility := getFacilityHandler.NewHandler(facilitySvc, log)
	updateFacility := updateFacilityHandler.NewHandler(facilitySvc, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	getFacilityBookings := getFacilityBookingsHandler.NewHandler(bookingSvc, log)
	blockSlot := blockSlotHandler.NewHandler(blockSlotUseCase, log)
	unblockSlot := unblockSlotHandler.NewHandler(unblockSlotUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, idem, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	confirmBooking := confirmBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getUserCredits := getUserCreditsHandler.NewHandler(creditLedger, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/facilities/{facilityId:[0-9]+}", getFacility.Handle).Methods(http.MethodGet)
	api.HandleFunc("/facilities/{facilityId:[0-9]+}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Площадки (владелец и операторы) ---
	protected.HandleFunc("/facilities/{facilityId:[0-9]+}", updateFacility.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/facilities/{facilityId:[0-9]+}/bookings", getFacilityBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/facilities/{facilityId:[0-9]+}/blocks", blockSlot.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/facilities/{facilityId:[0-9]+}/blocks/{date}/{hour}", unblockSlot.Handle).Methods(http.MethodDelete)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/confirm", confirmBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// --- Пользователь ---
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/users/{userId}/credits", getUserCredits.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
		)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error: %v", err)
	}

	// Дожидаемся отправки событий последних запросов
	events.Wait()

	log.Info("Server stopped gracefully")
}
