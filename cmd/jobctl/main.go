// File: cmd/jobctl/main.go
//
// jobctl drives the pipeline from the submission boundary: it stands in
// for the out-of-scope web layer.
//
//	jobctl -config config.yaml submit  -user <id> -file <path>
//	jobctl -config config.yaml upgrade -user <id>
//	jobctl -config config.yaml status  -job <id>
//	jobctl -config config.yaml url     -job <id> [-expires 10m]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"genomics-annotation-service/internal/config"
	"genomics-annotation-service/internal/infra/aws/awscfg"
	"genomics-annotation-service/internal/infra/aws/dynamostore"
	"genomics-annotation-service/internal/infra/aws/s3store"
	"genomics-annotation-service/internal/infra/aws/snstopic"
	pg "genomics-annotation-service/internal/infra/db/postgres"
	"genomics-annotation-service/internal/infra/logging"
	"genomics-annotation-service/internal/usecase"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
	}
	cmd, args := flag.Arg(0), flag.Args()[1:]

	ctx := context.Background()
	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log)

	awsCfg, err := awscfg.Load(ctx, cfg.AWS.Region)
	if err != nil {
		log.Fatalf("aws config: %v", err)
	}
	jobs := dynamostore.NewJobRepo(awsCfg, cfg.DynamoDB.Table, cfg.DynamoDB.UserIndex)
	store := s3store.New(awsCfg)
	subPub := snstopic.New(awsCfg, cfg.Queues.Submission.TopicARN)
	thawPub := snstopic.New(awsCfg, cfg.Queues.Thaw.TopicARN)

	pool, err := pg.Connect(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()
	users := pg.NewUserProfileRepo(pool)

	uc := usecase.NewSubmissionUseCase(
		jobs, users, store, subPub, thawPub,
		cfg.Storage.InputsBucket, cfg.Storage.KeyPrefix, logger,
	)

	switch cmd {
	case "submit":
		fs := flag.NewFlagSet("submit", flag.ExitOnError)
		user := fs.String("user", "", "owning user id")
		file := fs.String("file", "", "local VCF file to annotate")
		_ = fs.Parse(args)
		jobID, err := uc.Submit(ctx, *user, *file)
		if err != nil {
			log.Fatalf("submit: %v", err)
		}
		fmt.Println(jobID)

	case "upgrade":
		fs := flag.NewFlagSet("upgrade", flag.ExitOnError)
		user := fs.String("user", "", "user id to promote to premium")
		_ = fs.Parse(args)
		n, err := uc.Upgrade(ctx, *user)
		if err != nil {
			log.Fatalf("upgrade: %v", err)
		}
		fmt.Printf("upgraded; %d thaw request(s) published\n", n)

	case "status":
		fs := flag.NewFlagSet("status", flag.ExitOnError)
		job := fs.String("job", "", "job id")
		_ = fs.Parse(args)
		rec, err := uc.Status(ctx, *job)
		if err != nil {
			log.Fatalf("status: %v", err)
		}
		out, _ := json.MarshalIndent(rec, "", "  ")
		fmt.Println(string(out))

	case "url":
		fs := flag.NewFlagSet("url", flag.ExitOnError)
		job := fs.String("job", "", "job id")
		expires := fs.Duration("expires", 10*time.Minute, "presigned URL lifetime")
		_ = fs.Parse(args)
		u, err := uc.ResultURL(ctx, *job, *expires)
		if err != nil {
			log.Fatalf("url: %v", err)
		}
		fmt.Println(u)

	default:
		usage()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: jobctl [-config path] submit|upgrade|status|url [flags]")
	os.Exit(2)
}
