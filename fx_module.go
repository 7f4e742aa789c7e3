// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// fx_module.go - Fx wiring: a *Packer built from *FileConfig and, when a
// relay address is configured, a *Relay whose Run loop follows the app
// lifecycle.

package wirepack

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// FXModule provides *Packer and *Relay from a *FileConfig in the container.
//
// Usage:
//
//	app := fx.New(
//	    wirepack.FXModule,
//	    fx.Provide(func() (*wirepack.FileConfig, error) {
//	        return wirepack.LoadConfig("wirepack.yaml")
//	    }),
//	)
var FXModule = fx.Module("wirepack",
	fx.Provide(
		NewPackerWithDI,
		NewRelayWithDI,
	),
	fx.Invoke(RegisterRelayLifecycle),
)

// PackerParams groups the dependencies needed to create a Packer.
type PackerParams struct {
	fx.In

	Config     *FileConfig
	Logger     *zap.Logger           `optional:"true"`
	Registerer prometheus.Registerer `optional:"true"`
}

// NewPackerWithDI builds a Packer with NewFromConfig. Without a *zap.Logger
// in the container one is built from the config's log section.
func NewPackerWithDI(params PackerParams) (*Packer, error) {
	zl := params.Logger
	if zl == nil {
		var err error
		if zl, err = SetupZap(params.Config.Log); err != nil {
			return nil, err
		}
	}
	return NewFromConfig(params.Config, NewZapLogger(zl), params.Registerer)
}

// NewRelayWithDI dials the configured relay. It returns a nil *Relay when no
// relay address is configured.
func NewRelayWithDI(cfg *FileConfig, p *Packer) (*Relay, error) {
	if cfg.Relay.Addr == "" {
		return nil, nil
	}
	return DialRelay(p, cfg.Relay)
}

// RelayLifecycleParams groups the dependencies for relay lifecycle management.
type RelayLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Packer    *Packer
	Relay     *Relay `optional:"true"`
}

// RegisterRelayLifecycle starts Relay.Run on application start and stops it,
// closing the relay, on application stop.
func RegisterRelayLifecycle(params RelayLifecycleParams) {
	r := params.Relay
	if r == nil {
		return
	}
	var (
		cancel context.CancelFunc
		wg     sync.WaitGroup
	)
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			var ctx context.Context
			ctx, cancel = context.WithCancel(context.Background())
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := r.Run(ctx); err != nil {
					params.Packer.logger.Warn("wirepack: relay exited", "err", err)
				}
			}()
			params.Packer.logger.Info("wirepack: relay started", "channel", r.Channel())
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			wg.Wait()
			params.Packer.logger.Info("wirepack: relay stopped", "channel", r.Channel())
			return r.Close()
		},
	})
}
