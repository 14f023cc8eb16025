package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/reasonware/inferlab/internal/web"
	"github.com/reasonware/inferlab/pkg/inferlab"
	"github.com/reasonware/inferlab/pkg/inferlab/config"
	"github.com/reasonware/inferlab/pkg/inferlab/store"
	"github.com/reasonware/inferlab/pkg/inferlab/store/memstore"
	"github.com/reasonware/inferlab/pkg/inferlab/store/sqlite"
)

func main() {
	var (
		configPath = flag.String("config", "", "Server config YAML (optional)")
		addr       = flag.String("addr", "", "Listen address (overrides config)")
		outputDir  = flag.String("out", "", "Graph output directory (overrides config)")
		keep       = flag.Int("keep", 0, "Runs to keep in history (overrides config)")
		storePath  = flag.String("store", "", "SQLite history file (default: in-memory history)")
	)
	flag.Parse()

	cfg := config.DefaultServer()
	if *configPath != "" {
		loaded, err := config.LoadServer(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if *keep > 0 {
		cfg.KeepHistory = *keep
	}
	if *storePath != "" {
		cfg.StorePath = *storePath
	}

	ctx := context.Background()
	var st store.Store
	if cfg.StorePath != "" {
		opened, err := sqlite.Open(ctx, cfg.StorePath)
		if err != nil {
			log.Fatal(err)
		}
		st = opened
	} else {
		st = memstore.New()
	}

	engine := inferlab.New(inferlab.Options{Store: st})
	defer engine.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	server := web.New(cfg, engine, logger)
	if err := server.Run(); err != nil {
		log.Fatal(err)
	}
}
