package main

import (
	"flag"
	"net/http"

	"gokaraju-backend/lib/artifact"
	"gokaraju-backend/lib/browser"
	"gokaraju-backend/lib/configutil"
	"gokaraju-backend/lib/serviceutil"
	"gokaraju-backend/services/portal"
)

type Config struct {
	Port      int    `json:"port"`
	OutputDir string `json:"output_dir"`
}

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	InitTelemetry(ctx, *verbose)

	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("read config", err)
	}
	if cfg.Port == 0 {
		cfg.Port = 5000
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "output"
	}

	store, err := artifact.NewStore(cfg.OutputDir)
	if err != nil {
		serviceutil.Fatal("init artifact store", err)
	}

	mux := http.NewServeMux()
	portal.NewService(browser.DefaultLauncher, store).Register(mux)

	go serviceutil.StartHttpServer(cfg.Port, mux)
	<-ctx.Done()
}
