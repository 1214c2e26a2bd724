// File: cmd/archiver/main.go
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"genomics-annotation-service/internal/config"
	"genomics-annotation-service/internal/domain/ports/repository"
	"genomics-annotation-service/internal/infra/aws/awscfg"
	"genomics-annotation-service/internal/infra/aws/dynamostore"
	"genomics-annotation-service/internal/infra/aws/glaciervault"
	"genomics-annotation-service/internal/infra/aws/s3store"
	"genomics-annotation-service/internal/infra/aws/sqsqueue"
	pg "genomics-annotation-service/internal/infra/db/postgres"
	"genomics-annotation-service/internal/infra/logging"
	"genomics-annotation-service/internal/infra/metrics"
	red "genomics-annotation-service/internal/infra/redis"
	"genomics-annotation-service/internal/infra/web"
	"genomics-annotation-service/internal/infra/worker"
	"genomics-annotation-service/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log)
	metrics.MustRegister()

	awsCfg, err := awscfg.Load(ctx, cfg.AWS.Region)
	if err != nil {
		log.Fatalf("aws config: %v", err)
	}

	jobs := dynamostore.NewJobRepo(awsCfg, cfg.DynamoDB.Table, cfg.DynamoDB.UserIndex)
	store := s3store.New(awsCfg)
	vault := glaciervault.New(awsCfg, cfg.Glacier.Vault)
	queue := sqsqueue.New(awsCfg, cfg.Queues.Archive.URL)

	pool, err := pg.Connect(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	var profiles repository.UserProfileRepository = pg.NewUserProfileRepo(pool)
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer redisClient.Close()
		profiles = red.NewProfileCacheDecorator(profiles, redisClient, cfg.Redis.TTL)
	}

	uc := usecase.NewArchiveUseCase(jobs, profiles, store, vault, logger)
	drv := worker.NewDriver(
		"archive", queue, uc.HandleRequest,
		cfg.Queues.Archive.MaxMessages,
		time.Duration(cfg.Queues.Archive.WaitSeconds)*time.Second,
		logger,
	)
	go func() { _ = drv.Run(ctx) }()

	ops := web.NewOpsServer(cfg.Ops.Port, logger)
	go ops.Start()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()
	ops.Shutdown(context.Background())
}
