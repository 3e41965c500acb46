package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vendora/salesdesk/config"
	"github.com/vendora/salesdesk/internal/app"
	"github.com/vendora/salesdesk/internal/auth"
	"github.com/vendora/salesdesk/internal/domain"
	"github.com/vendora/salesdesk/internal/inventory"
	"github.com/vendora/salesdesk/internal/orders"
	"github.com/vendora/salesdesk/internal/reports"
	"github.com/vendora/salesdesk/internal/salesapi"
	"github.com/vendora/salesdesk/internal/webserver"
)

var (
	configFile = flag.String("c", "salesdesk.yml", "config file path")
	initDB     = flag.Bool("initdb", false, "drop and recreate all tables, then exit")
	showVer    = flag.Bool("v", false, "print version and exit")
)

const version = "1.2.0"

func main() {
	flag.Parse()

	if *showVer {
		fmt.Printf("salesd %s\n", version)
		return
	}

	cfg := config.LoadConfig(*configFile)
	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initDB {
		application.InitDb()
		zap.S().Info("database initialized")
		return
	}

	db := application.DB()

	sellerStore := auth.NewGormSellerStore(db)
	authSvc := auth.NewService(sellerStore, cfg.Web.JwtSecret,
		time.Duration(cfg.Web.JwtExpireHours)*time.Hour)

	productStore := inventory.NewGormProductStore(db)
	ledger := inventory.NewLedger(productStore)

	orderRepo := orders.NewGormOrderRepository(db)
	clientDir := orders.NewGormClientDirectory(db)
	orderSvc := orders.NewService(orderRepo, clientDir, productStore, ledger, orders.StatusPolicy{
		Strict:  cfg.Orders.StrictStatus,
		Default: domain.OrderStatus(cfg.Orders.DefaultStatus),
	})

	reportSvc := reports.NewService(reports.NewGormSpendStore(db))

	server := webserver.Init(cfg, db, authSvc)
	salesapi.Init(authSvc, orderSvc, reportSvc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application.StartBackgroundJobs(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start()
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Echo().Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		zap.S().Errorf("server error: %v", err)
		os.Exit(1)
	}
	zap.S().Info("server stopped")
}
