// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"context"
	"errors"
	"locale-tracker/commons"
	"locale-tracker/db"
	"locale-tracker/handlers"
	"locale-tracker/locale"
	"locale-tracker/notifications"
	"locale-tracker/rabbitmq"
	"locale-tracker/regdomain"
	"locale-tracker/routes"
	"locale-tracker/telephony"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

func newDispatcher() (*notifications.Dispatcher, *rabbitmq.Publisher) {
	provider := notifications.NotificationProviders(strings.ToLower(commons.GetEnv("NOTIFICATION_PROVIDER", string(notifications.Mock))))
	if provider != notifications.AMQP {
		return notifications.NewDispatcher(provider, nil, notifications.DefaultQueueSize), nil
	}

	publisher, err := rabbitmq.NewPublisher(rabbitmq.RabbitMQConfig{})
	if err != nil {
		commons.Logger.Errorf("RabbitMQ unavailable, falling back to mock notifications: %v", err)
		return notifications.NewDispatcher(notifications.Mock, nil, notifications.DefaultQueueSize), nil
	}
	return notifications.NewDispatcher(notifications.AMQP, publisher, notifications.DefaultQueueSize), publisher
}

func trackerOptions() []locale.Option {
	var opts []locale.Option
	if v := commons.GetEnv("LOCALE_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			opts = append(opts, locale.WithPollInterval(d))
		} else {
			commons.Logger.Warnf("Invalid LOCALE_POLL_INTERVAL=%q, using default", v)
		}
	}
	if v := commons.GetEnv("LOCALE_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			opts = append(opts, locale.WithRequestTimeout(d))
		} else {
			commons.Logger.Warnf("Invalid LOCALE_REQUEST_TIMEOUT=%q, using default", v)
		}
	}
	return opts
}

// seedTracker replays the radio state configured for the simulated phone.
func seedTracker(tracker *locale.Tracker) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if v, ok := os.LookupEnv("SIM_OPERATOR_NUMERIC"); ok {
		if err := tracker.UpdateOperatorNumeric(ctx, v); err != nil {
			commons.Logger.Errorf("Failed to seed operator numeric: %v", err)
		}
	}
	if v := commons.GetEnv("SIM_SERVICE_STATE"); v != "" {
		state, err := telephony.ParseServiceState(v)
		if err != nil {
			commons.Logger.Errorf("Invalid SIM_SERVICE_STATE: %v", err)
			return
		}
		if err := tracker.NotifyServiceState(ctx, state); err != nil {
			commons.Logger.Errorf("Failed to seed service state: %v", err)
		}
	}
}

func main() {
	commons.LoadEnvFile()
	commons.InitLogger()
	commons.InitMCCMNC()

	e := echo.New()
	e.HideBanner = true

	e.Logger.SetLevel(commons.Logger.Level())
	e.Logger.SetHeader(commons.LogHeader)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logMsg := func(format string, args ...any) {
				switch {
				case v.Status >= 500:
					e.Logger.Errorf(format, args...)
				case v.Status >= 400:
					e.Logger.Warnf(format, args...)
				default:
					e.Logger.Infof(format, args...)
				}
			}
			logMsg("%s %s - %d - %.2fms - %s",
				v.Method,
				v.URI,
				v.Status,
				float64(v.Latency.Microseconds())/1000.0,
				v.RemoteIP,
			)
			return nil
		},
	}))
	debugMode := slices.Contains(os.Args[1:], "--debug")
	if debugMode {
		e.Logger.Warn("Debug mode is enabled.")
		e.Debug = true
		e.Logger.SetLevel(log.DEBUG)
		commons.Logger.SetLevel(log.DEBUG)
	}

	e.Use(middleware.Recover())

	db.InitDB()
	if slices.Contains(os.Args[1:], "--migrate-db") {
		commons.Logger.Debug("--migrate-db flag detected, running migrations")
		db.MigrateDB()
	}

	phone, err := telephony.NewSimulatedPhoneFromEnv()
	if err != nil {
		commons.Logger.Fatalf("Invalid simulated phone configuration: %v", err)
	}
	setter, err := regdomain.New()
	if err != nil {
		commons.Logger.Fatalf("Invalid regulatory domain configuration: %v", err)
	}
	commons.Logger.Infof("Regulatory domain backend: %s", setter.Backend())

	dispatcher, publisher := newDispatcher()
	history := handlers.NewHistoryRecorder(handlers.DefaultHistoryQueueSize)

	opts := append(trackerOptions(),
		locale.WithListener(history.Listener()),
		locale.WithListener(dispatcher.Listener()),
	)
	tracker := locale.New(phone, setter, opts...)
	tracker.Start()
	seedTracker(tracker)

	if err := routes.RegisterRoutes(e, handlers.NewLocaleHandler(tracker, phone)); err != nil {
		commons.Logger.Fatalf("Failed to register routes: %v", err)
	}

	port := commons.GetEnv("PORT", ":8080")
	if port[0] != ':' {
		port = ":" + port
	}

	go func() {
		if err := e.Start(port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	commons.Logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		commons.Logger.Errorf("HTTP shutdown failed: %v", err)
	}
	tracker.Stop()
	history.Close()
	dispatcher.Close()
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			commons.Logger.Errorf("Failed to close RabbitMQ publisher: %v", err)
		}
	}
}
