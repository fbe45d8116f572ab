package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"

	"github.com/baohm88/mycabs/internal/broker"
	"github.com/baohm88/mycabs/internal/repo"
	"github.com/baohm88/mycabs/internal/server"
	"github.com/baohm88/mycabs/internal/service"
	"github.com/baohm88/mycabs/pkg"
)

func main() {
	slogger := pkg.CustomSlog("market-service")
	cfg, err := pkg.ParseConfig()
	if err != nil {
		slogger.Error("cannot parse config", "action", "parse config", "error", err)
		os.Exit(1)
	}

	pool, err := pkg.NewDB(context.Background(), &cfg.DatabaseCfg)
	if err != nil {
		slogger.Error("cannot create connection to db", "action", "connect to db", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	hiringRabbit, err := broker.NewHiringRabbit(cfg.RabbitMQCfg, slogger)
	if err != nil {
		slogger.Error("cannot create connection to rabbitMQ", "action", "connect to rabbitMQ", "error", err)
		os.Exit(1)
	}
	defer hiringRabbit.CloseRabbit()

	notifyRabbit, err := broker.NewNotifyRabbit(cfg.RabbitMQCfg, slogger, false)
	if err != nil {
		slogger.Error("cannot create connection to rabbitMQ", "action", "connect to rabbitMQ", "error", err)
		os.Exit(1)
	}
	defer notifyRabbit.CloseRabbit()

	wallets := repo.NewWalletRepo(pool)
	txs := repo.NewTransactionRepo(pool)
	apps := repo.NewApplicationRepo(pool)
	invites := repo.NewInvitationRepo(pool)
	drivers := repo.NewDriverRepo(pool)
	companies := repo.NewCompanyRepo(pool)
	users := repo.NewUserRepo(pool)
	notifs := repo.NewNotificationRepo(pool)

	authService := service.NewAuthService(slogger, users, companies, []byte(cfg.ServicesCfg.Secret))
	notifService := service.NewNotificationService(slogger, notifs, notifyRabbit)
	hiringService := service.NewHiringService(slogger, apps, invites, drivers, companies, users, hiringRabbit)
	financeService := service.NewFinanceService(slogger, wallets, txs, drivers, companies,
		notifService, notifService, decimal.NewFromInt(cfg.FinanceCfg.LowBalanceThreshold))

	go cascadeWorker(context.Background(), slogger, hiringRabbit, hiringService)

	myServer := server.NewMarketServer(cfg.ServicesCfg.MarketService, cfg.ServicesCfg.Secret,
		authService, hiringService, financeService, notifService, companies)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		slogger.Info("starting the server", "action", "start the server")
		err := myServer.StartServer()
		slog.Error("server stopped", "error", err)
		quit <- nil
	}()
	<-quit
	myServer.ShutDownServer(context.Background())
}

// cascadeWorker drains the hiring cascade queue: each message names a driver
// whose competing Pending applications must be rejected. Failures are nacked
// back to the queue.
func cascadeWorker(ctx context.Context, slogger *slog.Logger, rabbit *broker.HiringBroker, hiring *service.HiringService) {
	for msg := range rabbit.GiveCascadeChannel() {
		err := hiring.RejectCompeting(ctx, msg.DriverID, msg.ExceptID)
		if err != nil {
			slogger.Error("cannot run hiring cascade", "action", "hiring cascade", "error", err)
			msg.Nack()
			continue
		}
		msg.Ack()
	}
}
