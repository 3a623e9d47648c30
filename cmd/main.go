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

	addHistoryHandler "github.com/medzap/HMS-BookingService/internal/api/handlers/add_history"
	addTimeSlotsHandler "github.com/medzap/HMS-BookingService/internal/api/handlers/add_time_slots"
	cancelBookingHandler "github.com/medzap/HMS-BookingService/internal/api/handlers/cancel_booking"
	changeBookingTimeHandler "github.com/medzap/HMS-BookingService/internal/api/handlers/change_booking_time"
	configureDoctorSlotsHandler "github.com/medzap/HMS-BookingService/internal/api/handlers/configure_doctor_slots"
	configureHospitalSlotsHandler "github.com/medzap/HMS-BookingService/internal/api/handlers/configure_hospital_slots"
	confirmBookingHandler "github.com/medzap/HMS-BookingService/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/medzap/HMS-BookingService/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/medzap/HMS-BookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/medzap/HMS-BookingService/internal/api/handlers/get_booking"
	getDoctorBookingsHandler "github.com/medzap/HMS-BookingService/internal/api/handlers/get_doctor_bookings"
	getDoctorSlotsHandler "github.com/medzap/HMS-BookingService/internal/api/handlers/get_doctor_slots"
	getHistoryHandler "github.com/medzap/HMS-BookingService/internal/api/handlers/get_history"
	getUserBookingsHandler "github.com/medzap/HMS-BookingService/internal/api/handlers/get_user_bookings"
	grantLeaveHandler "github.com/medzap/HMS-BookingService/internal/api/handlers/grant_leave"
	listTimeSlotsHandler "github.com/medzap/HMS-BookingService/internal/api/handlers/list_time_slots"
	"github.com/medzap/HMS-BookingService/internal/api/middleware"
	"github.com/medzap/HMS-BookingService/internal/app"
	"github.com/medzap/HMS-BookingService/internal/config"
	bookingRepo "github.com/medzap/HMS-BookingService/internal/infra/storage/booking"
	historyRepo "github.com/medzap/HMS-BookingService/internal/infra/storage/history"
	leaveRepo "github.com/medzap/HMS-BookingService/internal/infra/storage/leave"
	timeslotRepo "github.com/medzap/HMS-BookingService/internal/infra/storage/timeslot"
	notifyServiceClient "github.com/medzap/HMS-BookingService/internal/integrations/notifyservice"
	staffServiceClient "github.com/medzap/HMS-BookingService/internal/integrations/staffservice"
	bookingsService "github.com/medzap/HMS-BookingService/internal/service/bookings"
	timeslotsService "github.com/medzap/HMS-BookingService/internal/service/timeslots"
	changeBookingTimeUC "github.com/medzap/HMS-BookingService/internal/usecase/change_booking_time"
	createBookingUC "github.com/medzap/HMS-BookingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/medzap/HMS-BookingService/internal/usecase/get_available_slots"
	grantLeaveUC "github.com/medzap/HMS-BookingService/internal/usecase/grant_leave"
	"github.com/medzap/HMS-BookingService/pkg/dbmetrics"
	"github.com/medzap/HMS-BookingService/pkg/logger"
	"github.com/medzap/HMS-BookingService/pkg/metrics"
	"github.com/medzap/HMS-BookingService/pkg/simpletxmanager"
	"github.com/medzap/HMS-BookingService/pkg/txmanager"
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

	log.Info("Starting HMS-BookingService...")
	log.Info("Configuration loaded from config.toml")

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

	// Применяем миграции (если включены)
	if cfg.Migrations.Enabled {
		if err := app.RunMigrations(db, log); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
	}

	// Инициализируем интеграционных клиентов
	staffClient := staffServiceClient.NewClient(
		cfg.StaffService.URL,
		time.Duration(cfg.StaffService.Timeout)*time.Second,
		log,
	)
	notifyClient := notifyServiceClient.NewClient(
		cfg.NotifyService.URL,
		time.Duration(cfg.NotifyService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (StaffService=%s timeout=%ds, NotifyService=%s timeout=%ds)",
		cfg.StaffService.URL, cfg.StaffService.Timeout, cfg.NotifyService.URL, cfg.NotifyService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		timeslotRepository *timeslotRepo.Repository
		leaveRepository    *leaveRepo.Repository
		historyRepository  *historyRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases и сервисах)
	// TODO: Точно нужно переделать эту шл
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		// Инициализируем репозитории с обёрткой метрик
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		timeslotRepository = timeslotRepo.NewRepository(wrappedDB)
		leaveRepository = leaveRepo.NewRepository(wrappedDB)
		historyRepository = historyRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		// Инициализируем репозитории без метрик
		bookingRepository = bookingRepo.NewRepository(db)
		timeslotRepository = timeslotRepo.NewRepository(db)
		leaveRepository = leaveRepo.NewRepository(db)
		historyRepository = historyRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		timeslotRepository,
		historyRepository,
		staffClient,
		notifyClient,
		&bookingsService.RealTimeProvider{},
		log,
	)
	timeslotSvc := timeslotsService.NewService(
		timeslotRepository,
		staffClient,
		txMgr,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		timeslotRepository,
		leaveRepository,
		staffClient,
		txMgr,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		timeslotRepository,
		leaveRepository,
		bookingRepository,
		staffClient,
		log,
	)
	grantLeaveUseCase := grantLeaveUC.NewUseCase(
		timeslotRepository,
		leaveRepository,
		bookingRepository,
		staffClient,
		notifyClient,
		txMgr,
		log,
	)
	changeBookingTimeUseCase := changeBookingTimeUC.NewUseCase(
		bookingRepository,
		timeslotRepository,
		leaveRepository,
		staffClient,
		notifyClient,
		txMgr,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	grantLeave := grantLeaveHandler.NewHandler(grantLeaveUseCase, log)
	changeBookingTime := changeBookingTimeHandler.NewHandler(changeBookingTimeUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	confirmBooking := confirmBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	addHistory := addHistoryHandler.NewHandler(bookingSvc, log)
	getHistory := getHistoryHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getDoctorBookings := getDoctorBookingsHandler.NewHandler(bookingSvc, log)
	getDoctorSlots := getDoctorSlotsHandler.NewHandler(getAvailableSlotsUseCase, timeslotSvc, log)
	listTimeSlots := listTimeSlotsHandler.NewHandler(timeslotSvc, log)
	addTimeSlots := addTimeSlotsHandler.NewHandler(timeslotSvc, log)
	configureHospitalSlots := configureHospitalSlotsHandler.NewHandler(timeslotSvc, log)
	configureDoctorSlots := configureDoctorSlotsHandler.NewHandler(timeslotSvc, log)

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

	// Свободные слоты врача на дату
	api.HandleFunc("/doctors/{doctorId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Каталог тайм-слотов
	api.HandleFunc("/timeslots", listTimeSlots.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Подтверждение или отклонение врачом
	protected.HandleFunc("/bookings/{bookingId}/confirmation", confirmBooking.Handle).Methods(http.MethodPatch)

	// Отмена подтверждённого бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Перенос бронирования на другой слот
	protected.HandleFunc("/bookings/{bookingId}/time", changeBookingTime.Handle).Methods(http.MethodPatch)

	// Запись о приёме
	protected.HandleFunc("/bookings/{bookingId}/history", addHistory.Handle).Methods(http.MethodPost)

	// Бронирования пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Кабинет врача ---
	// Бронирования врача с фильтрами
	protected.HandleFunc("/doctors/{doctorId}/bookings", getDoctorBookings.Handle).Methods(http.MethodGet)

	// Рабочие слоты врача
	protected.HandleFunc("/doctors/{doctorId}/slots", getDoctorSlots.Handle).Methods(http.MethodGet)

	// Записи о приёмах врача
	protected.HandleFunc("/doctors/{doctorId}/history", getHistory.Handle).Methods(http.MethodGet)

	// Оформление отсутствия
	protected.HandleFunc("/doctors/{doctorId}/leaves", grantLeave.Handle).Methods(http.MethodPost)

	// --- Администрирование каталога ---
	// Добавление тайм-слотов в каталог
	protected.HandleFunc("/timeslots", addTimeSlots.Handle).Methods(http.MethodPost)

	// Настройка слотов больницы
	protected.HandleFunc("/hospitals/{hospitalId}/timeslots", configureHospitalSlots.Handle).Methods(http.MethodPut)

	// Настройка слотов врача
	protected.HandleFunc("/doctors/{doctorId}/timeslots", configureDoctorSlots.Handle).Methods(http.MethodPut)

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
