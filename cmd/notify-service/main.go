package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/baohm88/mycabs/internal/broker"
	"github.com/baohm88/mycabs/internal/ws"
	"github.com/baohm88/mycabs/pkg"
)

func main() {
	slogger := pkg.CustomSlog("notify-service")
	cfg, err := pkg.ParseConfig()
	if err != nil {
		slogger.Error("cannot parse config", "action", "parse config", "error", err)
		os.Exit(1)
	}

	rabbit, err := broker.NewNotifyRabbit(cfg.RabbitMQCfg, slogger, true)
	if err != nil {
		slogger.Error("cannot create connection to rabbitMQ", "action", "connect to rabbitMQ", "error", err)
		os.Exit(1)
	}
	defer rabbit.CloseRabbit()

	hub := ws.NewNotifyHub(slogger, []byte(cfg.ServicesCfg.Secret), cfg.WebSocketCfg.Port)

	go func() {
		for ev := range rabbit.GiveEventChannel() {
			if ev.UserID == "" {
				hub.BroadcastAdmin(ev)
				continue
			}
			hub.GiveToUser(ev.UserID, ev)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		slogger.Info("starting the ws hub", "action", "start the server")
		err := hub.StartServer()
		slog.Error("server stopped", "error", err)
		quit <- nil
	}()
	<-quit
	hub.CloseServer()
}
