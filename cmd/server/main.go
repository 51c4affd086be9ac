package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kjannette/fourmeme-abis/internal/abis"
	"github.com/kjannette/fourmeme-abis/internal/api"
	"github.com/kjannette/fourmeme-abis/internal/config"
	"github.com/kjannette/fourmeme-abis/internal/db"
	"github.com/kjannette/fourmeme-abis/internal/ethereum"
	"github.com/kjannette/fourmeme-abis/internal/notifications"
	"github.com/kjannette/fourmeme-abis/internal/repository"
	"github.com/kjannette/fourmeme-abis/internal/scheduler"
)

const banner = `
╔══════════════════════════════════════╗
║     four.meme ABI Registry v0.1      ║
║                                      ║
╚══════════════════════════════════════╝
`

func main() {
	fmt.Print(banner)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	cfg.Print()

	// Graceful shutdown context
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Registry
	reg, err := abis.Load(cfg.ABIDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ABI] Load failed: %v\n", err)
		os.Exit(1)
	}
	for _, e := range reg.Entries() {
		fmt.Printf("[ABI] %-18s %2d fragments  %s\n", e.Symbol(), e.FragmentCount, e.Source)
	}

	// Database (optional)
	var pool *pgxpool.Pool
	var snapshotRepo *repository.SnapshotRepo
	if cfg.DBEnabled {
		fmt.Printf("\n[DB] Connecting to %s:%d/%s ...\n", cfg.DBHost, cfg.DBPort, cfg.DBName)
		pool, err = db.Connect(ctx, cfg.DSN())
		if err != nil {
			fmt.Fprintf(os.Stderr, "[DB] Connection failed: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			pool.Close()
			fmt.Println("[DB] Connection pool closed")
		}()

		if err := db.TestConnection(ctx, pool); err != nil {
			fmt.Fprintf(os.Stderr, "[DB] Test query failed: %v\n", err)
			os.Exit(1)
		}
		if err := db.EnsureSchema(ctx, pool); err != nil {
			fmt.Fprintf(os.Stderr, "[DB] %v\n", err)
			os.Exit(1)
		}
		snapshotRepo = repository.NewSnapshotRepo(pool)
	}

	// Chain bindings (optional; registry serving does not need a node)
	var contracts atomic.Pointer[ethereum.Contracts]
	if cfg.RPCURL != "" {
		dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		client, err := ethereum.NewClient(dialCtx, cfg.RPCURL, int64(cfg.ChainID))
		cancel()
		if err != nil {
			fmt.Printf("[RPC] Unavailable: %v\n", err)
		} else {
			defer client.Close()
			cs, err := ethereum.NewContracts(reg, ethereum.Addresses{
				TokenManager:  cfg.TokenManagerAddress,
				Helper3:       cfg.Helper3Address,
				PancakeRouter: cfg.PancakeRouterAddress,
			}, client)
			if err != nil {
				fmt.Fprintf(os.Stderr, "[RPC] Bind contracts: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("[RPC] Connected to chain %s\n", client.ChainID())
			contracts.Store(cs)
			logBindings(cs, cfg.WBNBAddress)
		}
	}

	notify := notifications.NewSender(cfg.WebhookURL, cfg.ServiceName)
	if notify.Enabled() {
		fmt.Println("[NOTIFY] Webhook enabled")
	} else {
		fmt.Println("[NOTIFY] No WEBHOOK_URL set, change notifications disabled")
	}

	// 1. Reload scheduler
	var store scheduler.SnapshotStore
	if snapshotRepo != nil {
		store = snapshotRepo
	}
	reloader := scheduler.NewReloadScheduler(reg, store, notify, scheduler.ReloadConfig{
		Dir:      cfg.ABIDir,
		Interval: time.Duration(cfg.ReloadIntervalMinutes) * time.Minute,
		OnChange: func(next *abis.Registry, changed []abis.Name) {
			cs := contracts.Load()
			if cs == nil {
				return
			}
			rebound, err := cs.Rebind(next)
			if err != nil {
				fmt.Printf("[RPC] Rebind failed, keeping previous bindings: %v\n", err)
				return
			}
			contracts.Store(rebound)
			logBindings(rebound, cfg.WBNBAddress)
		},
	})
	reloader.Start()

	// 2. API server
	opts := api.Options{
		Port:       cfg.APIPort,
		APIKey:     cfg.APIKey,
		CORSOrigin: cfg.CORSAllowOrigin,
		Registry:   reloader.Current,
		Reloader:   reloader,
	}
	if snapshotRepo != nil {
		opts.Snapshots = snapshotRepo
		opts.DB = pool
	}
	srv := api.NewServer(opts)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "[API] Server error: %v\n", err)
			os.Exit(1)
		}
	}()

	fmt.Println("\nAll services started successfully")

	// Wait for shutdown signal
	<-ctx.Done()
	fmt.Println("\nShutting down gracefully...")

	reloader.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "[API] Shutdown error: %v\n", err)
	}
	fmt.Println("[API] Server closed")
	fmt.Println("Shutdown complete")
}

func logBindings(cs *ethereum.Contracts, wbnb string) {
	for _, n := range []abis.Name{abis.TokenManager, abis.Helper3, abis.PancakeRouter} {
		c, err := cs.ByName(n)
		if err != nil {
			continue
		}
		fmt.Printf("[RPC] %-14s @ %s: %d methods\n", c.Name(), c.Address().Hex(), len(c.Methods()))
	}
	if wbnb == "" {
		return
	}
	token, err := cs.ERC20At(wbnb)
	if err != nil {
		fmt.Printf("[RPC] WBNB: %v\n", err)
		return
	}
	fmt.Printf("[RPC] %-14s @ %s: %d methods (ERC20)\n", "WBNB", token.Address().Hex(), len(token.Methods()))
}
