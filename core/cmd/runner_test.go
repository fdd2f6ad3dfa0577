package cmd

import (
	"context"
	"errors"
	"testing"

	coreconfig "github.com/m3rciful/coinbot/core/config"
	coretelegram "github.com/m3rciful/coinbot/core/telegram"
)

type carrier struct{ cfg *coreconfig.Config }

func (c carrier) CoreConfig() *coreconfig.Config { return c.cfg }

type app struct{ opts coretelegram.RunOptions }

func (a app) TelegramRunOptions() (coretelegram.RunOptions, error) { return a.opts, nil }

func TestRunStopsOnConfigError(t *testing.T) {
	bootstrapped := false
	err := Run(Options{
		DefaultConfigPath: "missing.yaml",
		LoadConfig: func(string) (ConfigCarrier, error) {
			return nil, errors.New("telegram token is required")
		},
		Bootstrap: func(context.Context, ConfigCarrier) (TelegramApp, error) {
			bootstrapped = true
			return app{}, nil
		},
	})
	if err == nil {
		t.Fatal("expected config error")
	}
	if bootstrapped {
		t.Fatal("bootstrap must not run after a config error")
	}
}

func TestRunWrapsLifecycleHooks(t *testing.T) {
	t.Setenv("CONFIG_PATH", "from-env.yaml")
	var gotPath string
	started, stopped := false, false

	err := Run(Options{
		DefaultConfigPath: "default.yaml",
		LoadConfig: func(path string) (ConfigCarrier, error) {
			gotPath = path
			return carrier{cfg: &coreconfig.Config{}}, nil
		},
		Bootstrap: func(context.Context, ConfigCarrier) (TelegramApp, error) {
			return app{opts: coretelegram.RunOptions{
				OnStart: func(context.Context, coretelegram.Runtime) error { started = true; return nil },
				OnStop:  func(context.Context, coretelegram.Runtime) error { stopped = true; return nil },
			}}, nil
		},
		ShutdownLogger: func() error { return nil },
		RunTelegram: func(ctx context.Context, opts coretelegram.RunOptions) error {
			if err := opts.OnStart(ctx, coretelegram.Runtime{}); err != nil {
				return err
			}
			return opts.OnStop(ctx, coretelegram.Runtime{})
		},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if gotPath != "from-env.yaml" {
		t.Fatalf("config path = %q", gotPath)
	}
	if !started || !stopped {
		t.Fatalf("hooks not chained: started=%v stopped=%v", started, stopped)
	}
}
