// Package cli is the shared scaffolding for the player commands: common
// flags, config layering, client construction, pool wiring, and signal
// handling. Each command contributes only its strategy.
package cli

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mugloar/mugomatic/internal/config"
	"github.com/mugloar/mugomatic/internal/eventlog"
	"github.com/mugloar/mugomatic/internal/game"
	"github.com/mugloar/mugomatic/internal/mugloar"
	"github.com/mugloar/mugomatic/internal/runner"
	"github.com/mugloar/mugomatic/internal/status"
	"github.com/mugloar/mugomatic/internal/strategy"
)

// multiValue collects a repeatable string flag.
type multiValue []string

func (m *multiValue) String() string { return strings.Join(*m, ",") }

func (m *multiValue) Set(v string) error {
	*m = append(*m, v)
	return nil
}

// StrategyFactory builds one strategy instance per worker.
type StrategyFactory func(worker int, logger *log.Logger) (strategy.Strategy, error)

// App carries the common flag set and the run wiring.
type App struct {
	name string
	fs   *flag.FlagSet

	workers    int
	eventLog   string
	scoreLog   string
	dumpPath   string
	statusAddr string
	configPath string
	once       bool
	autoRep    bool
	resume     multiValue
}

// NewApp registers the common flags.
func NewApp(name string) *App {
	a := &App{name: name, fs: flag.NewFlagSet(name, flag.ExitOnError)}
	a.fs.IntVar(&a.workers, "p", 1, "number of concurrent workers")
	a.fs.StringVar(&a.eventLog, "o", "", "append move event lines to this file")
	a.fs.StringVar(&a.scoreLog, "s", "", "append finished-game score lines to this file")
	a.fs.StringVar(&a.dumpPath, "d", "", "write scoreboard dumps to this file instead of the log")
	a.fs.StringVar(&a.statusAddr, "status-addr", "", "serve /status and /health on this address")
	a.fs.StringVar(&a.configPath, "c", "", "YAML config file")
	a.fs.BoolVar(&a.once, "1", false, "play one game per worker, then exit")
	a.fs.BoolVar(&a.autoRep, "rep", false, "fetch reputation every turn (each fetch costs a turn)")
	a.fs.Var(&a.resume, "r", "resume this game id instead of starting fresh (repeatable)")
	return a
}

// FlagSet exposes the flag set so commands can add their own flags before
// Run parses.
func (a *App) FlagSet() *flag.FlagSet { return a.fs }

// Run parses flags, layers in the config file and environment, and drives
// the pool until the context ends or, with -1, until every worker has
// finished a game.
func (a *App) Run(args []string, newStrategy StrategyFactory) error {
	if err := a.fs.Parse(args); err != nil {
		return err
	}
	logger := log.New(os.Stderr, "["+strings.ToUpper(a.name)+"] ", log.LstdFlags)

	if a.configPath != "" {
		file, err := config.LoadFile(a.configPath)
		if err != nil {
			return err
		}
		a.applyFile(file)
	}

	envCfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	client := mugloar.NewClient(mugloar.Config{
		BaseURL:    envCfg.BaseURL,
		MaxRetries: envCfg.MaxRetries,
		UserAgent:  envCfg.UserAgent,
		HTTPClient: &http.Client{Timeout: envCfg.HTTPTimeout},
	})

	var events, scores *eventlog.Writer
	if a.eventLog != "" {
		if events, err = eventlog.OpenFile(a.eventLog); err != nil {
			return err
		}
		defer events.Close()
	}
	if a.scoreLog != "" {
		if scores, err = eventlog.OpenFile(a.scoreLog); err != nil {
			return err
		}
		defer scores.Close()
	}

	queue := &runner.HijackQueue{}
	for _, id := range a.resume {
		queue.Push(id)
	}

	pool := runner.New(runner.Config{
		Workers: a.workers,
		Client:  client,
		Strategy: func(worker int) (strategy.Strategy, error) {
			return newStrategy(worker, logger)
		},
		Events:      events,
		Scores:      scores,
		Hijack:      queue,
		SessionOpts: game.Options{AutoReputation: a.autoRep},
		Once:        a.once,
		Logger:      logger,
	})

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	dumps := make(chan struct{}, 1)
	usr1 := make(chan os.Signal, 1)
	signal.Notify(usr1, syscall.SIGUSR1)
	defer signal.Stop(usr1)

	logger.Printf("run %s: %d worker(s), %d game(s) to resume", pool.Scoreboard().RunID(), a.workers, queue.Len())

	var g errgroup.Group
	g.Go(func() error {
		defer cancel()
		return pool.Run(ctx)
	})
	g.Go(func() error {
		return runner.WatchDumps(ctx, dumps, pool.Scoreboard(), a.dumpPath, logger)
	})
	g.Go(func() error {
		// The handler goroutine only forwards; formatting happens in
		// the dump watcher.
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-usr1:
				select {
				case dumps <- struct{}{}:
				default:
				}
			}
		}
	})

	if a.statusAddr != "" {
		srv := &http.Server{
			Addr:    a.statusAddr,
			Handler: status.NewServer(pool.Scoreboard()).Routes(),
		}
		g.Go(func() error {
			logger.Printf("status server on %s", a.statusAddr)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, release := context.WithTimeout(context.Background(), 5*time.Second)
			defer release()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Printf("scoreboard:\n%s", pool.Scoreboard().Snapshot().Format())
	return nil
}

// applyFile adopts config-file values for flags the command line left
// untouched. Resume ids from the file are always appended.
func (a *App) applyFile(f config.File) {
	set := map[string]bool{}
	a.fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	if !set["p"] && f.Workers > 0 {
		a.workers = f.Workers
	}
	if !set["o"] && f.EventLog != "" {
		a.eventLog = f.EventLog
	}
	if !set["s"] && f.ScoreLog != "" {
		a.scoreLog = f.ScoreLog
	}
	if !set["d"] && f.DumpPath != "" {
		a.dumpPath = f.DumpPath
	}
	if !set["status-addr"] && f.StatusAddr != "" {
		a.statusAddr = f.StatusAddr
	}
	if !set["rep"] && f.AutoReputation {
		a.autoRep = true
	}
	a.resume = append(a.resume, f.Resume...)
}
