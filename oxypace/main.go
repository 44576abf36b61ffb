package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"oxypace/oxypace/config"
	"oxypace/oxypace/controllers"
	"oxypace/oxypace/middlewares"
	"oxypace/oxypace/realtime"
	"oxypace/oxypace/routes"
	"oxypace/oxypace/services/bots"
	"oxypace/oxypace/services/ingest"
	"oxypace/oxypace/sources/mail"
	"oxypace/oxypace/sources/psql"
	"oxypace/oxypace/sources/psql/dao"
	"oxypace/oxypace/sources/storage"
	"oxypace/oxypace/utils/logging"
	"oxypace/oxypace/utils/metrics"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	cfg := config.LoadConfig()
	logging.InitLogger(cfg.LogDir)
	defer logging.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		logging.ErrorLogger.Error("database connection error", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()
	sqlDB, err := db.DB.DB()
	if err != nil {
		logging.ErrorLogger.Error("database handle error", zap.Error(err))
		os.Exit(1)
	}

	var mediaStore controllers.MediaStore
	if cfg.MinIOEndpoint != "" {
		minioClient, err := storage.NewMinIOClient(ctx, cfg)
		if err != nil {
			logging.ErrorLogger.Error("minio connection error", zap.Error(err))
			os.Exit(1)
		}
		mediaStore = minioClient
	} else {
		logging.AppLogger.Warn("MINIO_ENDPOINT not set, media uploads disabled")
	}

	hub := realtime.NewHub()
	metrics.SetClientCounter(hub.Count)

	userDAO := dao.NewUserDAO(db.DB)
	portalDAO := dao.NewPortalDAO(db.DB)
	postDAO := dao.NewPostDAO(db.DB)
	commentDAO := dao.NewCommentDAO(db.DB)
	messageDAO := dao.NewMessageDAO(db.DB)
	contactDAO := dao.NewContactMessageDAO(db.DB)

	limiter := middlewares.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	stop := make(chan struct{})
	defer close(stop)
	limiter.StartCleanup(time.Minute, stop)

	r := routes.NewRouter(routes.Handlers{
		Auth:     controllers.NewAuthController(userDAO, cfg),
		Users:    controllers.NewUserController(userDAO, postDAO),
		Portals:  controllers.NewPortalController(portalDAO, postDAO),
		Posts:    controllers.NewPostController(postDAO, portalDAO, userDAO, hub),
		Comments: controllers.NewCommentController(commentDAO, postDAO, userDAO, hub),
		Messages: controllers.NewMessageController(messageDAO, userDAO, hub),
		Contact:  controllers.NewContactController(contactDAO, userDAO, mail.NewMailer(cfg)),
		Media:    controllers.NewMediaController(mediaStore),
		Health:   controllers.NewHealthController(sqlDB),
		Hub:      hub,
		Limiter:  limiter,
	}, cfg)

	if scheduler := startIngestSchedule(cfg, db.DB, hub); scheduler != nil {
		defer func() { <-scheduler.Stop().Done() }()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logging.AppLogger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
		}
	}()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}

// startIngestSchedule runs bot ingestion on INGEST_SCHEDULE when it is set.
func startIngestSchedule(cfg config.Config, db *gorm.DB, hub *realtime.Hub) *cron.Cron {
	if cfg.IngestSchedule == "" {
		return nil
	}
	defs, err := bots.LoadDefinitions(cfg.BotsFile)
	if err != nil {
		logging.ErrorLogger.Error("scheduled ingest disabled", zap.Error(err))
		return nil
	}
	ingester := ingest.NewIngester(db, nil, hub)
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err = c.AddFunc(cfg.IngestSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		created := 0
		for _, res := range ingester.RunAll(ctx, defs) {
			created += res.Created
		}
		logging.AppLogger.Info("scheduled ingest done", zap.Int("created", created))
	})
	if err != nil {
		logging.ErrorLogger.Error("invalid INGEST_SCHEDULE", zap.String("schedule", cfg.IngestSchedule), zap.Error(err))
		return nil
	}
	c.Start()
	logging.AppLogger.Info("scheduled ingest enabled", zap.String("schedule", cfg.IngestSchedule), zap.Int("bots", len(defs)))
	return c
}
