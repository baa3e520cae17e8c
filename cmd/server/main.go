package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/fleshka4/swap-pool/internal/config"
	"github.com/fleshka4/swap-pool/internal/infra/uniswap"
	"github.com/fleshka4/swap-pool/internal/ledger"
	"github.com/fleshka4/swap-pool/internal/logging"
	"github.com/fleshka4/swap-pool/internal/seed"
	"github.com/fleshka4/swap-pool/internal/service"
	transport "github.com/fleshka4/swap-pool/internal/transport/http"
)

func main() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "cfg/config.yaml"
	}

	cfg := config.Load(path)

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logging.New: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	l := ledger.NewMemory()
	svc := service.NewPoolService(l, cfg.Constraints(), cfg.Admin, logger)

	var reader uniswap.Reader
	for _, p := range cfg.Pools {
		if !p.FromPair() {
			continue
		}
		reader, err = uniswap.NewReader(cfg.RPCURL, cfg.CallTimeout)
		if err != nil {
			logger.Fatal("uniswap.NewReader", zap.Error(err))
		}
		break
	}

	if err = seed.New(l, svc, reader, cfg.Admin, logger).Run(context.Background(), cfg); err != nil {
		logger.Fatal("seed.Run", zap.Error(err))
	}

	srv := transport.NewServer(svc, cfg, logger)
	if err = srv.ListenAndServe(cfg.ListenAddr); err != nil {
		logger.Fatal("srv.ListenAndServe", zap.Error(err))
	}
}
