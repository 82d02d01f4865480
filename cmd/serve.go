package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ziadkadry99/pagenav/internal/config"
	"github.com/ziadkadry99/pagenav/internal/db"
	"github.com/ziadkadry99/pagenav/internal/journal"
	"github.com/ziadkadry99/pagenav/internal/library"
	"github.com/ziadkadry99/pagenav/internal/logging"
	mcpserver "github.com/ziadkadry99/pagenav/internal/mcp"
	"github.com/ziadkadry99/pagenav/internal/progress"
	"github.com/ziadkadry99/pagenav/internal/server"
	"github.com/ziadkadry99/pagenav/internal/session"
	"github.com/ziadkadry99/pagenav/internal/site"
)

var (
	servePort int
	serveOpen bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the documents with live navigation",
	Long: `Renders every document under the docs directory and serves them over
HTTP. Each open page holds a websocket session that tracks the current
section. With watch enabled, edited documents are re-rendered and open
pages reload.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (overrides config)")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false, "open the index in a browser")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) (err error) {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Server.Port = servePort
	}

	logger, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	defer logging.RedirectStdLog(logger)()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lib, err := loadLibrary(ctx, cfg, logger, progress.NewReporter())
	if err != nil {
		return err
	}
	logger.Info("documents loaded", zap.String("root", lib.Root()), zap.Int("documents", lib.Len()))

	var recorder journal.Recorder = journal.Discard{}
	var store *journal.Store
	if cfg.Journal.Enabled {
		database, oerr := db.Open(cfg.Journal.Path)
		if oerr != nil {
			return fmt.Errorf("opening journal: %w", oerr)
		}
		defer func() { err = multierr.Append(err, database.Close()) }()
		store = journal.NewStore(database)
		recorder = store
		logger.Info("journal enabled", zap.String("path", database.Path()))
	}

	hub := session.NewHub(sessionOptions(cfg), recorder, logger)
	defer hub.Close()

	pages, err := site.New(lib, site.Options{
		SectionClass: cfg.Classes.Section,
		EntryClass:   cfg.Classes.Entry,
	}, logger)
	if err != nil {
		return err
	}

	mcpserver.Version = Version
	srv := server.New(server.Config{Port: cfg.Server.Port, AllowAll: cfg.Server.AllowAll}, logger)
	r := srv.Router()
	pages.RegisterRoutes(r)
	session.RegisterRoutes(r, hub, libraryLookup(lib))
	if store != nil {
		journal.RegisterRoutes(r, store)
	}
	r.Handle("/mcp", mcpserver.NewServer(lib, hub).Handler())

	if cfg.Watch {
		go func() {
			werr := lib.Watch(ctx, library.DefaultDebounce, func(slug string) {
				n := hub.Broadcast(ctx, slug, session.ReloadMessage{})
				logger.Info("document changed", zap.String("document", slug), zap.Int("sessions", n))
			})
			if werr != nil {
				logger.Error("watch stopped", zap.Error(werr))
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	url := fmt.Sprintf("http://localhost:%d/", cfg.Server.Port)
	logger.Info("serving", zap.String("url", url))
	if serveOpen {
		if oerr := site.OpenBrowser(url); oerr != nil {
			logger.Warn("could not open browser", zap.Error(oerr))
		}
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if serr := srv.Shutdown(shutdownCtx); serr != nil && !errors.Is(serr, context.DeadlineExceeded) {
		return serr
	}
	return <-errCh
}

func sessionOptions(cfg *config.Config) session.Options {
	return session.Options{
		Thresholds: cfg.ThresholdValues(),
		Classes:    session.Classes{Section: cfg.Classes.Section, Entry: cfg.Classes.Entry},
		Scroll:     cfg.ScrollOptions(),
	}
}

// libraryLookup resolves a page slug to the registry its session reads.
func libraryLookup(lib *library.Library) session.Lookup {
	return func(slug string) (session.Source, bool) {
		reg, ok := lib.Registry(slug)
		if !ok {
			return nil, false
		}
		return reg, true
	}
}
