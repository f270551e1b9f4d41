package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	createProductHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/create_product"
	createRentalHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/create_rental"
	deleteProductHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/delete_product"
	deleteRentalHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/delete_rental"
	getInstanceHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/get_instance"
	getInstancesHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/get_instances"
	getProductHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/get_product"
	getQuoteHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/get_quote"
	getRentabilityHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/get_rentability"
	getRentalHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/get_rental"
	listProductsHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/list_products"
	listRentalsHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/list_rentals"
	updateProductHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/update_product"
	updateRentalHandler "github.com/m04kA/SMC-RentalService/internal/api/handlers/update_rental"
	"github.com/m04kA/SMC-RentalService/internal/api/middleware"
	"github.com/m04kA/SMC-RentalService/internal/config"
	productRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/product"
	rentalRepo "github.com/m04kA/SMC-RentalService/internal/infra/storage/rental"
	productsService "github.com/m04kA/SMC-RentalService/internal/service/products"
	rentalsService "github.com/m04kA/SMC-RentalService/internal/service/rentals"
	createRentalUC "github.com/m04kA/SMC-RentalService/internal/usecase/create_rental"
	getQuoteUC "github.com/m04kA/SMC-RentalService/internal/usecase/get_quote"
	getRentabilityUC "github.com/m04kA/SMC-RentalService/internal/usecase/get_rentability"
	updateRentalUC "github.com/m04kA/SMC-RentalService/internal/usecase/update_rental"
	"github.com/m04kA/SMC-RentalService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RentalService/pkg/logger"
	"github.com/m04kA/SMC-RentalService/pkg/metrics"
	"github.com/m04kA/SMC-RentalService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-RentalService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting SMC-RentalService...")
	log.Info("Configuration loaded from config.toml")

	defaultExchangeCost, err := decimal.NewFromString(cfg.Offers.DefaultExchangeCost)
	if err != nil {
		log.Fatal("Invalid offers.default_exchange_cost %q: %v", cfg.Offers.DefaultExchangeCost, err)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

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

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем репозитории (с метриками или без)
	var (
		productRepository *productRepo.Repository
		rentalRepository  *rentalRepo.Repository
	)

	// Интерфейс для transaction manager (используется в сервисах и usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		productRepository = productRepo.NewRepository(wrappedDB)
		rentalRepository = rentalRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		productRepository = productRepo.NewRepository(db)
		rentalRepository = rentalRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	productSvc := productsService.NewService(productRepository, txMgr, log)
	rentalSvc := rentalsService.NewService(rentalRepository, log)

	// Инициализируем use cases
	getRentabilityUseCase := getRentabilityUC.NewUseCase(productRepository, rentalRepository, log)
	getQuoteUseCase := getQuoteUC.NewUseCase(productRepository, rentalRepository, defaultExchangeCost, log)
	createRentalUseCase := createRentalUC.NewUseCase(productRepository, rentalRepository, txMgr, log)
	updateRentalUseCase := updateRentalUC.NewUseCase(productRepository, rentalRepository, txMgr, log)

	// Инициализируем handlers
	createProduct := createProductHandler.NewHandler(productSvc, log)
	getProduct := getProductHandler.NewHandler(productSvc, log)
	listProducts := listProductsHandler.NewHandler(productSvc, log)
	updateProduct := updateProductHandler.NewHandler(productSvc, log)
	deleteProduct := deleteProductHandler.NewHandler(productSvc, log)
	getInstances := getInstancesHandler.NewHandler(productSvc, log)
	getInstance := getInstanceHandler.NewHandler(productSvc, log)
	getRentability := getRentabilityHandler.NewHandler(getRentabilityUseCase, log)
	getQuote := getQuoteHandler.NewHandler(getQuoteUseCase, log)
	createRental := createRentalHandler.NewHandler(createRentalUseCase, log)
	getRental := getRentalHandler.NewHandler(rentalSvc, log)
	listRentals := listRentalsHandler.NewHandler(rentalSvc, log)
	updateRental := updateRentalHandler.NewHandler(updateRentalUseCase, log)
	deleteRental := deleteRentalHandler.NewHandler(rentalSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Каталог продуктов
	api.HandleFunc("/products", listProducts.Handle).Methods(http.MethodGet)
	api.HandleFunc("/products/{productId}", getProduct.Handle).Methods(http.MethodGet)
	api.HandleFunc("/products/{productId}/instances", getInstances.Handle).Methods(http.MethodGet)
	api.HandleFunc("/products/{productId}/instances/{instanceId}", getInstance.Handle).Methods(http.MethodGet)

	// Доступность с учетом существующих аренд
	api.HandleFunc("/products/{productId}/rentability", getRentability.Handle).Methods(http.MethodGet)

	// Подбор оффера на окно аренды
	api.HandleFunc("/products/{productId}/quote", getQuote.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Управление каталогом (требует capability manageProducts) ---
	protected.HandleFunc("/products", createProduct.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/products/{productId}", updateProduct.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/products/{productId}", deleteProduct.Handle).Methods(http.MethodDelete)

	// --- Аренды ---
	protected.HandleFunc("/rentals", createRental.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/rentals", listRentals.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/rentals/{rentalId}", getRental.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/rentals/{rentalId}", updateRental.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/rentals/{rentalId}", deleteRental.Handle).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
