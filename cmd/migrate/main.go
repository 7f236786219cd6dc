package main

import (
	"flag"
	"log/slog"
	"os"

	"entitlement-service/internal/infra/db"
	"entitlement-service/internal/pkg/config"
)

// usage: migrate [-down N]
func main() {
	down := flag.Int("down", 0, "roll back N migrations instead of applying pending ones")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("設定の読み込みに失敗しました", "error", err)
		os.Exit(1)
	}

	pool, cleanup, err := db.Connect(cfg.DB)
	if err != nil {
		slog.Error("データベースに接続できません", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	if *down > 0 {
		err = db.MigrateDown(pool, *down)
	} else {
		err = db.MigrateUp(pool)
	}
	if err != nil {
		slog.Error("マイグレーションに失敗しました", "error", err)
		cleanup()
		os.Exit(1)
	}
	slog.Info("マイグレーションが完了しました", "down", *down)
}
