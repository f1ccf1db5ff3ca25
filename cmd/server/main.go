package main

import (
	"os"

	"github.com/foundercrm/backend/internal/config"
	"github.com/foundercrm/backend/pkg/logger"
	"github.com/foundercrm/backend/pkg/response"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Server.LogLevel)
	response.SetIncludeErrorDetail(cfg.Server.Debug)

	app := bootstrap(cfg)
	defer app.shutdown()

	r := buildRouter(cfg, app)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	logger.Infof("Server starting on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
