package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"sort"

	"github.com/Sigma-Eleven/model/internal/config"
	"github.com/Sigma-Eleven/model/internal/db"
	"github.com/Sigma-Eleven/model/internal/logger"
)

func main() {
	apply := flag.Bool("apply", false, "apply migrations instead of listing them")
	dir := flag.String("dir", filepath.Join("internal", "migrations"), "migrations directory")
	flag.Parse()

	cfg := config.LoadConsole()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database connection failed", "error", err)
	}
	defer pool.Close()

	files, err := filepath.Glob(filepath.Join(*dir, "*.sql"))
	if err != nil {
		logger.Fatal("read migrations dir", "error", err)
	}
	sort.Strings(files)

	for _, f := range files {
		name := filepath.Base(f)
		if !*apply {
			logger.Info("pending migration", "file", name)
			continue
		}
		b, err := os.ReadFile(f)
		if err != nil {
			logger.Fatal("read migration", "file", name, "error", err)
		}
		if _, err := pool.Exec(ctx, string(b)); err != nil {
			logger.Fatal("apply migration", "file", name, "error", err)
		}
		logger.Info("applied migration", "file", name)
	}
}
