package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/amankumarsingh77/waveform-service/internal/config"
	"github.com/amankumarsingh77/waveform-service/internal/converter"
	"github.com/amankumarsingh77/waveform-service/internal/extractor"
	peaksRepository "github.com/amankumarsingh77/waveform-service/internal/waveform/repository"
	peaksUsecase "github.com/amankumarsingh77/waveform-service/internal/waveform/usecase"
	"github.com/amankumarsingh77/waveform-service/internal/worker"
	"github.com/amankumarsingh77/waveform-service/pkg/db/aws"
	"github.com/amankumarsingh77/waveform-service/pkg/db/postgres"
	clientRedis "github.com/amankumarsingh77/waveform-service/pkg/db/redis"
	"github.com/amankumarsingh77/waveform-service/pkg/logger"
)

func main() {
	configFile := "config.yml"
	cfgFile, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("loadConfig: %v", err)
	}
	cfg, err := config.ParseConfig(cfgFile)
	if err != nil {
		log.Fatalf("parseConfig: %v", err)
	}
	appLogger := logger.NewApiLogger(cfg)
	appLogger.InitLogger()
	appLogger.Infof("AppVersion: %s, LogLevel: %s, Mode: %s", cfg.Server.AppVersion, cfg.Logger.Level, cfg.Server.Mode)

	psqlDB, err := postgres.NewPsqlDB(cfg)
	if err != nil {
		appLogger.Fatalf("could not connect to db: %s", err)
	}
	appLogger.Infof("db connected, status: %#v", psqlDB.Stats())
	defer psqlDB.Close()

	redisClient, err := clientRedis.NewRedisClient(cfg)
	if err != nil {
		appLogger.Fatalf("could not connect to redis: %s", err)
	}
	appLogger.Infof("redis connected")
	defer redisClient.Close()

	s3Client, presignClient, err := aws.NewAWSClient(cfg.S3.Endpoint, cfg.S3.Region, cfg.S3.AccessKey, cfg.S3.SecretKey)
	if err != nil {
		appLogger.Fatalf("could not connect to s3: %s", err)
	}

	pRepo := peaksRepository.NewPeaksRepo(psqlDB)
	pRedisRepo := peaksRepository.NewPeaksRedisRepo(redisClient, cfg.Redis.ResultTTL)
	pAWSRepo := peaksRepository.NewAwsRepository(s3Client, presignClient)

	initiator := converter.NewClient(cfg, nil, appLogger)
	monitor := converter.NewMonitor(cfg, nil, appLogger)
	engine := extractor.NewEngine(cfg, nil, appLogger)

	peaksUC := peaksUsecase.NewPeaksUseCase(cfg, pRepo, pRedisRepo, pAWSRepo, initiator, monitor, engine, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("shutting down workers")
		cancel()
	}()

	w := worker.NewWorker(cfg, appLogger, pRedisRepo, peaksUC)
	w.Start(ctx)
	w.Wait()
}
