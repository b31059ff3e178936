package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	app "github.com/Praneshrajan137/matching-engine-sub002/internal/app/engine"
	"github.com/Praneshrajan137/matching-engine-sub002/internal/usecase/marketdata"
	matchpublisher "github.com/Praneshrajan137/matching-engine-sub002/internal/usecase/match-publisher"
	"github.com/Praneshrajan137/matching-engine-sub002/internal/usecase/matching"
	orderreader "github.com/Praneshrajan137/matching-engine-sub002/internal/usecase/order-reader"
	snapshot "github.com/Praneshrajan137/matching-engine-sub002/internal/usecase/snapshot"
	"github.com/Praneshrajan137/matching-engine-sub002/internal/usecase/tradelog"
	"github.com/Praneshrajan137/matching-engine-sub002/pkg/config"
	"github.com/Praneshrajan137/matching-engine-sub002/pkg/logger"
	"github.com/Praneshrajan137/matching-engine-sub002/pkg/redis"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	var err error
	cfg = &config.Config{}
	err = config.Load(cfg)
	if err != nil {
		panic(err)
	}

	logger, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}

	log = logger
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	redisConfig := redis.DefaultConfig()
	redisConfig.Addrs = strings.Split(cfg.RedisConfig.Addrs, ",")
	redisConfig.Password = cfg.RedisConfig.Password
	redisConfig.Username = cfg.RedisConfig.Username
	redisConfig.DB = cfg.RedisConfig.DB

	rclient := redis.NewClient(log, redisConfig)
	if err := rclient.Connect(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "connect_redis",
		})
		return
	}

	ledger, err := tradelog.Open(cfg.LedgerConfig.Dir)
	if err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "open_ledger",
		})
		return
	}
	defer ledger.Close()

	// Initialize components
	matcher := matching.NewEngine(cfg.DepthLevels)
	oReader := orderreader.NewReader(cfg.KafkaConfig, log)
	snapshotStore := snapshot.NewStore(rclient, cfg.RedisConfig.SnapshotPrefix, cfg.Symbol, log)
	matchPublisher := matchpublisher.NewPublisher(cfg.MatchPublisherConfig, log)
	marketData := marketdata.NewPublisher(rclient, cfg.RedisConfig, log)

	engine := app.NewEngine(
		matcher,
		oReader,
		snapshotStore,
		matchPublisher,
		marketData,
		ledger,
		log,
		cfg,
	)

	if err := engine.Start(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "start_engine",
		})
		return
	}

	log.Info("Matching engine started successfully", logger.Field{
		Key:   "symbol",
		Value: cfg.Symbol,
	})

	// Wait for shutdown signal
	sig := <-sigChan
	log.Info("Received shutdown signal", logger.Field{
		Key:   "signal",
		Value: sig.String(),
	})

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := engine.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "stop_engine",
		})
	}

	if err := rclient.Disconnect(shutdownCtx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "disconnect_redis",
		})
	}

	log.Info("Matching engine shutdown complete")
}
