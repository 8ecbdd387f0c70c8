// Package app wires configuration, upstream clients, boards and the HTTP
// server into one runnable process.
package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"assetscope/internal/config"
	"assetscope/internal/logger"
	dashboardhttp "assetscope/internal/transport/http/dashboard"
	"assetscope/internal/view"
)

// App owns the long-lived dashboard state and the server exposing it.
type App struct {
	cfg     *config.Config
	crypto  *view.CryptoBoard
	economy *view.EconomyBoard
	http    *dashboardhttp.Server
	Summary *StartupSummary
}

// NewApp builds the application without starting anything.
func NewApp(cfg *config.Config, opts ...BuilderOption) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)
	return NewBuilder(cfg, opts...).Build()
}

// Run starts both boards and the HTTP server and blocks until ctx is
// cancelled or the server fails. Boards are closed on the way out.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.cfg == nil {
		return fmt.Errorf("app not initialized")
	}
	if a.Summary != nil {
		a.Summary.Print()
	}

	group, ctx := errgroup.WithContext(ctx)
	if a.http != nil {
		group.Go(func() error {
			if err := a.http.Start(ctx); err != nil {
				return fmt.Errorf("dashboard http server error: %w", err)
			}
			return nil
		})
	}
	group.Go(func() error {
		a.crypto.Start()
		a.economy.Start()
		<-ctx.Done()
		a.crypto.Close()
		a.economy.Close()
		return nil
	})
	err := group.Wait()
	a.crypto.Wait()
	a.economy.Wait()
	return err
}

func (a *App) Crypto() *view.CryptoBoard { return a.crypto }

func (a *App) Economy() *view.EconomyBoard { return a.economy }

func (a *App) Server() *dashboardhttp.Server { return a.http }
