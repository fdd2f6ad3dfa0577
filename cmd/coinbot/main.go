package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/m3rciful/coinbot/bot/app"
	corecmd "github.com/m3rciful/coinbot/core/cmd"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			cfg, err := app.LoadConfig(path)
			if err != nil {
				return nil, err
			}
			return cfg, nil
		},
		Bootstrap: func(ctx context.Context, carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			cfg, ok := carrier.(*app.Config)
			if !ok {
				return nil, fmt.Errorf("unexpected config type %T", carrier)
			}
			return app.Bootstrap(ctx, cfg)
		},
	})
	if err != nil {
		log.Printf("coinbot: %v", err)
		os.Exit(1)
	}
}
