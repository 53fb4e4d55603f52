package main

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/pasarkita/pasar-backend/internal/account"
	"github.com/pasarkita/pasar-backend/internal/catalog"
	"github.com/pasarkita/pasar-backend/internal/config"
	"github.com/pasarkita/pasar-backend/internal/database"
	"github.com/pasarkita/pasar-backend/internal/market"
	"github.com/pasarkita/pasar-backend/internal/promo"
	"github.com/pasarkita/pasar-backend/internal/trade"
	"github.com/pasarkita/pasar-backend/migrations"
)

// @title Pasar Backend API
// @version 1.0
// @description Multi-role marketplace backend: carts, orders, deliveries and balance settlement.
// @BasePath /api/v1
func main() {
	cfg := config.Load()

	if cfg.RunMigrations {
		if err := database.Migrate(cfg.PostgresDSN, migrations.FS, "."); err != nil {
			log.Fatalf("[server] migrate: %v", err)
		}
		log.Printf("[server] migrations up to date")
	}

	pool, err := pgxpool.New(context.Background(), cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("[server] connect: %v", err)
	}
	defer pool.Close()

	r := newRouter(deps{
		cfg:      cfg,
		accounts: account.NewPGRepo(pool),
		products: catalog.NewPGRepo(pool),
		promos:   promo.NewPGRepo(pool),
		agens:    market.NewPGRepo(pool),
		trades:   trade.NewPGRepo(pool),
		carts:    trade.NewCartService(pool),
		orders:   trade.NewOrderService(pool),
		settler:  trade.NewSettlementService(pool),
		wallets:  trade.NewWalletService(pool),
	})

	log.Printf("[server] listening on %s", cfg.ListenAddr)
	log.Fatal(r.Run(cfg.ListenAddr))
}
