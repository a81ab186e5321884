package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/courtsideinc/tennis-score-backend/internal/config"
	"github.com/courtsideinc/tennis-score-backend/internal/events"
	"github.com/courtsideinc/tennis-score-backend/internal/repository"
	"github.com/courtsideinc/tennis-score-backend/internal/repository/storage"
	"github.com/courtsideinc/tennis-score-backend/internal/usecase"
	"github.com/courtsideinc/tennis-score-backend/transport/console"
	"github.com/courtsideinc/tennis-score-backend/transport/rest"
)

var (
	ErrAddrNotFound   = errors.New("redis address string is empty")
	ErrUnknownStorage = errors.New("unknown storage kind")
)

// RunApp - builds the whole bundle explicitly and runs the servers.
// Construction happens once, here; nothing is wired through globals.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	gameRepo, cleanup, err := buildGameRepository(ctx, log, conf)
	if err != nil {
		return err
	}
	defer cleanup()

	emitter := events.NewEmitter()
	emitter.Subscribe(func(event events.Event) {
		log.Info("game event", "type", event.Type, "game_id", event.GameID, "score", event.Score)
	})

	manager := usecase.NewGameManager(logger, gameRepo, emitter)

	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.New(logger, manager).Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	consoleErrCh := make(chan error, 1)
	if conf.Console {
		go func() {
			loop := console.New(logger, manager, os.Stdin, os.Stdout)
			if consoleErr := loop.Run(ctx, conf.Players.NameA, conf.Players.NameB); consoleErr != nil {
				log.Error("console loop error", "error", consoleErr)
				consoleErrCh <- consoleErr
				return
			}
			// a clean quit from the console stops the whole app
			cancel()
		}()
	}

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-consoleErrCh:
		return fmt.Errorf("console loop error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

func buildGameRepository(ctx context.Context, log *slog.Logger, conf *config.Config) (repository.GameRepository, func(), error) {
	switch conf.Storage {
	case config.StorageRedis:
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return nil, nil, ErrAddrNotFound
		}

		redisStorage, err := storage.New(ctx, redisAddrString)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		cleanup := func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}

		return repository.NewGameRepository(redisStorage.Connection), cleanup, nil
	case config.StorageMemory:
		return repository.NewMemoryGameRepository(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownStorage, conf.Storage)
	}
}
