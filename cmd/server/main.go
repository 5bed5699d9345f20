package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/lorenzaCara/enjoypark/internal/config"
	"github.com/lorenzaCara/enjoypark/internal/database"
	"github.com/lorenzaCara/enjoypark/internal/handler"
	"github.com/lorenzaCara/enjoypark/internal/middleware"
	"github.com/lorenzaCara/enjoypark/internal/planning"
	"github.com/lorenzaCara/enjoypark/internal/queue"
	"github.com/lorenzaCara/enjoypark/internal/repository"
	"github.com/lorenzaCara/enjoypark/internal/router"
	"github.com/lorenzaCara/enjoypark/internal/service"
)

func main() {
	cfg := config.Load()
	if cfg.Env == "local" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DBMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("migrate schema")
		}
	}

	rdb := config.NewRedisClient()
	if rdb != nil {
		defer rdb.Close()
	}

	tickets := repository.NewTicketRepo(db)
	planners := repository.NewPlannerRepo(db)
	catalog := repository.NewCatalogRepo(db)
	bookings := repository.NewBookingRepo(db)

	var events service.EventPublisher = service.NopPublisher{}
	if cfg.AMQPURL != "" {
		events = service.NewAMQPPublisher(cfg.AMQPURL)
	} else {
		log.Warn().Msg("RABBITMQ_URL not set; activity events disabled")
	}

	plannerSvc := service.NewPlanner(tickets, planners, catalog, events)
	bookingSvc := service.NewBookings(bookings, tickets, catalog, plannerSvc, events, planning.NewBookingBuilder(cfg.ParkTZ))

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.AccessLog())

	router.RegisterRoutes(e, db)
	router.RegisterPublic(e, handler.NewCatalogHandler(catalog), rdb)
	router.RegisterVisitor(e, handler.NewVisitorHandler(tickets, planners, plannerSvc, bookingSvc), cfg.JWTSecret, rdb)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("env", cfg.Env).Str("park_tz", cfg.ParkTZ.String()).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})
	if cfg.AMQPURL != "" {
		g.Go(func() error {
			err := queue.StartActivityConsumer(gctx, cfg.AMQPURL, cfg.LogDir)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}
