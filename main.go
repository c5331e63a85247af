package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coinvault/database"
	"coinvault/jobs"
	"coinvault/market"
	"coinvault/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("no .env file found, using environment")
	}
	setupLogger()

	database.Connect()

	host := os.Getenv("HOST")
	port := os.Getenv("PORT")
	if host == "" {
		host = "127.0.0.1"
	}
	if port == "" {
		port = "3000"
	}

	app := fiber.New()
	routes.Setup(app)

	expiry := jobs.StartSecondsExpiryJob()

	stopMarket := make(chan struct{})
	market.StartPoller(30*time.Second, stopMarket)

	addr := fmt.Sprintf("%s:%s", host, port)
	logrus.Infof("server running at %s", addr)

	go func() {
		if err := app.Listen(addr); err != nil {
			logrus.WithError(err).Panic("failed to start server")
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	logrus.Info("gracefully shutting down...")
	close(stopMarket)
	expiry.Stop()
	if err := app.Shutdown(); err != nil {
		logrus.WithError(err).Fatal("server forced to shutdown")
	}
	logrus.Info("server exited cleanly")
}

func setupLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if file := os.Getenv("LOG_FILE"); file != "" {
		rotator := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    50, // MB
			MaxBackups: 5,
			MaxAge:     30, // days
		}
		logrus.SetOutput(io.MultiWriter(os.Stdout, rotator))
	}
}
