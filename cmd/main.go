package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/facultydesk/consultation-core/internal/config"
	"github.com/facultydesk/consultation-core/internal/db"
	"github.com/facultydesk/consultation-core/internal/handler"
	"github.com/facultydesk/consultation-core/internal/handler/middleware"
	"github.com/facultydesk/consultation-core/internal/logger"
	"github.com/facultydesk/consultation-core/internal/model"
	"github.com/facultydesk/consultation-core/internal/repository"
	"github.com/facultydesk/consultation-core/internal/service"
	croncore "github.com/facultydesk/consultation-core/internal/service/cron"
)

func main() {
	// 1. Конфиг из env.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog := logger.New(cfg.Env)
	defer zlog.Sync() //nolint:errcheck

	// 2. Подключаемся к БД через GORM.
	gormDB, err := db.NewGormDB(&cfg.DB)
	if err != nil {
		zlog.Fatal("init db", zap.Error(err))
	}

	// 3. Миграции моделей.
	if err := model.AutoMigrate(gormDB); err != nil {
		zlog.Fatal("auto migrate", zap.Error(err))
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		zlog.Fatal("sql DB", zap.Error(err))
	}
	defer sqlDB.Close()

	// 4. Репозитории (реализации на GORM).
	slotRepo := repository.NewGormSlotRepository(gormDB)
	bookingRepo := repository.NewGormBookingRepository(gormDB)
	notificationRepo := repository.NewGormNotificationRepository(gormDB)
	subjectRepo := repository.NewGormSubjectRepository(gormDB)
	userRepo := repository.NewGormUserRepository(gormDB)

	// 5. Сервисы ядра.
	notificationSvc := service.NewNotificationService(gormDB, notificationRepo, zlog)
	scheduleSvc := service.NewScheduleService(slotRepo, subjectRepo, bookingRepo, userRepo, zlog)
	bookingSvc := service.NewBookingService(gormDB, bookingRepo, slotRepo, userRepo, notificationSvc, zlog)

	// 6. HTTP-сервер и маршруты.
	app := fiber.New(fiber.Config{
		AppName:               "consultation-core",
		DisableStartupMessage: cfg.Env == "production",
	})

	auth := middleware.NewAuthMiddleware(cfg.JWTSecret)
	handler.Register(
		app,
		auth,
		handler.NewScheduleHandler(scheduleSvc),
		handler.NewBookingHandler(bookingSvc),
		handler.NewNotificationHandler(notificationSvc),
	)

	// 7. Фоновая реконсиляция уведомлений.
	cronMgr := croncore.NewManager(notificationSvc, zlog)
	if err := cronMgr.Start(cfg.ReconcileSpec); err != nil {
		zlog.Fatal("start cron", zap.Error(err))
	}

	// 8. Запускаем сервер в горутине.
	go func() {
		if err := app.Listen(cfg.HTTPAddr); err != nil {
			zlog.Fatal("http listen", zap.Error(err))
		}
	}()
	zlog.Info("consultation core listening", zap.String("addr", cfg.HTTPAddr))

	// 9. Грейсфул-шатдаун по сигналу.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zlog.Info("shutting down...")
	cronMgr.Stop()
	if err := app.Shutdown(); err != nil {
		zlog.Warn("http shutdown", zap.Error(err))
	}
}
