package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"qr_ordering/internal/config"
	"qr_ordering/internal/logger"
	"qr_ordering/internal/models"
	"qr_ordering/internal/notify"
	"qr_ordering/internal/reconcile"
	"qr_ordering/pkg/client"

	"golang.org/x/sync/errgroup"
)

// The reconciler is a headless staff view: it holds the active orders, flips
// items to ready as their timers run out and completes fully ready orders.
func main() {
	cfg := config.LoadClient()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := client.NewClient(cfg.APIURL, cfg.WSURL, log)
	if err := api.Login(ctx, cfg.StaffUsername, cfg.StaffPassword); err != nil {
		log.WithError(err).Fatal("Failed to sign in")
	}

	reconciler := reconcile.New(api, log)
	refresh := make(chan struct{}, 1)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return reconciler.Run(ctx, cfg.Tick(), cfg.Refetch(), refresh)
	})
	g.Go(func() error {
		return api.Watch(ctx, func(batch []client.Event) {
			needRefresh := false
			for _, event := range batch {
				if event.Type != notify.EventNewOrder {
					needRefresh = true
					continue
				}
				var order models.Order
				if err := json.Unmarshal(event.Data, &order); err != nil {
					log.WithError(err).Warn("Unreadable new_order event")
					needRefresh = true
					continue
				}
				reconciler.Hold(order)
			}
			if needRefresh {
				select {
				case refresh <- struct{}{}:
				default:
				}
			}
		})
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Fatal("Reconciler stopped with error")
	}
	log.Info("Reconciler stopped")
}
