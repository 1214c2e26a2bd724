// File: cmd/thawer/main.go
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
	"genomics-annotation-service/internal/domain/ports/adapter"
	"genomics-annotation-service/internal/infra/aws/awscfg"
	"genomics-annotation-service/internal/infra/aws/dynamostore"
	"genomics-annotation-service/internal/infra/aws/glaciervault"
	"genomics-annotation-service/internal/infra/aws/lambdafn"
	"genomics-annotation-service/internal/infra/aws/s3store"
	"genomics-annotation-service/internal/infra/aws/snstopic"
	"genomics-annotation-service/internal/infra/aws/sqsqueue"
	"genomics-annotation-service/internal/infra/localrestore"
	"genomics-annotation-service/internal/infra/logging"
	"genomics-annotation-service/internal/infra/metrics"
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
	vault := glaciervault.New(awsCfg, cfg.Glacier.Vault)
	queue := sqsqueue.New(awsCfg, cfg.Queues.Thaw.URL)
	thawPub := snstopic.New(awsCfg, cfg.Queues.Thaw.TopicARN)

	var restorer adapter.RestoreInvoker
	switch cfg.Restore.Mode {
	case "local":
		store := s3store.New(awsCfg)
		restorer = localrestore.New(usecase.NewRestoreUseCase(jobs, store, vault, logger))
		logger.Info().Msg("restore mode: local (in-process)")
	default:
		restorer = lambdafn.New(awsCfg, cfg.Restore.FunctionName)
		logger.Info().Str("function", cfg.Restore.FunctionName).Msg("restore mode: lambda")
	}

	uc := usecase.NewThawUseCase(jobs, vault, thawPub, restorer, logger)
	drv := worker.NewDriver(
		"thaw", queue, uc.HandleEvent,
		cfg.Queues.Thaw.MaxMessages,
		time.Duration(cfg.Queues.Thaw.WaitSeconds)*time.Second,
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
