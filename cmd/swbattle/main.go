// swbattle runs one turn-based battle scenario and prints its event log.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/swbattle/server/internal/command"
	"github.com/swbattle/server/internal/config"
	"github.com/swbattle/server/internal/core/event"
	"github.com/swbattle/server/internal/data"
	"github.com/swbattle/server/internal/eventlog"
	"github.com/swbattle/server/internal/persist"
	"github.com/swbattle/server/internal/scripting"
	"github.com/swbattle/server/internal/sim"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := flag.String("config", "", "config file (default $SWBATTLE_CONFIG or config/swbattle.toml)")
	seed := flag.Int64("seed", 0, "random seed, overrides [simulation] seed")
	maxTurns := flag.Uint("max-turns", 0, "turn limit, overrides [simulation] max_turns")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: swbattle [flags] <scenario.txt|scenario.yaml>")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		return errors.New("missing scenario path")
	}
	scenarioPath := flag.Arg(0)

	// 1. Load config
	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}
	if *maxTurns != 0 {
		cfg.Simulation.MaxTurns = uint32(*maxTurns)
	}
	if cfg.Simulation.Seed == 0 {
		cfg.Simulation.Seed = time.Now().UnixNano()
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// 3. Event sinks
	bus := event.NewBus()
	var text *eventlog.TextSink
	if cfg.Output.Format == "text" {
		text = eventlog.NewTextSink(os.Stdout)
		bus.Attach(text)
	}
	bus.Attach(eventlog.NewZapSink(log))
	digest := eventlog.NewDigestSink()
	bus.Attach(digest)
	var archive *persist.Archive
	if cfg.Database.Enabled {
		archive = persist.NewArchive()
		bus.Attach(archive)
	}
	event.Subscribe(bus, func(turn uint32, ev event.UnitDied) {
		log.Info("unit died", zap.Uint32("turn", turn), zap.Uint32("unit", ev.UnitID))
	})

	// 4. Optional scripting and unit templates
	opts := []sim.Option{
		sim.WithSink(bus),
		sim.WithSeed(cfg.Simulation.Seed),
		sim.WithLogger(log),
		sim.WithStalemateStop(cfg.Simulation.StalemateStop),
	}
	if cfg.Scripting.Enabled {
		engine, err := scripting.NewEngine(cfg.Scripting.Dir, log)
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer engine.Close()
		opts = append(opts, sim.WithScripting(engine))
	}
	if cfg.Data.UnitTemplates != "" {
		table, err := data.LoadUnitTable(cfg.Data.UnitTemplates)
		if err != nil {
			return fmt.Errorf("load unit templates: %w", err)
		}
		log.Info("unit templates loaded", zap.Int("count", table.Count()))
		opts = append(opts, sim.WithTemplates(table))
	}

	// 5. Build the battle
	cmds, err := command.Load(scenarioPath)
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}
	s := sim.New(opts...)
	res, err := command.Apply(s, cmds)
	if err != nil {
		return err
	}
	log.Info("scenario applied",
		zap.String("path", scenarioPath),
		zap.Int("spawned", res.Spawned),
		zap.Int("marches", res.Marches),
		zap.Int64("seed", cfg.Simulation.Seed),
	)

	// 6. Run
	if !res.MapCreated || s.ActiveUnitCount() <= 1 {
		log.Info("nothing to simulate", zap.Bool("map", res.MapCreated), zap.Int("units", s.ActiveUnitCount()))
		return nil
	}
	limit := uint32(sim.Unlimited)
	if cfg.Simulation.MaxTurns != 0 {
		limit = cfg.Simulation.MaxTurns
	}
	if err := s.Run(limit); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	if text != nil && text.Err() != nil {
		return fmt.Errorf("write events: %w", text.Err())
	}
	if cfg.Output.Digest {
		log.Info("run digest", zap.String("blake2b", digest.Sum()), zap.Int("events", digest.Count()))
	}

	// 7. Archive
	if archive != nil {
		if err := saveRun(cfg, log, archive, scenarioPath, digest.Sum()); err != nil {
			return fmt.Errorf("archive: %w", err)
		}
	}
	return nil
}

// loadConfig resolves the config path from the flag, then SWBATTLE_CONFIG,
// then the default location. Only the default location may be absent.
func loadConfig(flagPath string) (*config.Config, error) {
	if flagPath != "" {
		return config.Load(flagPath)
	}
	if p := os.Getenv("SWBATTLE_CONFIG"); p != "" {
		return config.Load(p)
	}
	return config.LoadOrDefault("config/swbattle.toml")
}

func saveRun(cfg *config.Config, log *zap.Logger, archive *persist.Archive, scenario, sum string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	if err := persist.RunMigrations(ctx, db.Pool, log); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	summary := persist.RunSummary{
		Scenario: scenario,
		Seed:     cfg.Simulation.Seed,
		Digest:   sum,
	}
	if end, ok := archive.Final(); ok {
		summary.FinalTurn = end.FinalTurn
		summary.Survivors = end.Survivors
	}
	id, err := archive.Save(ctx, persist.NewRunRepo(db), summary)
	if err != nil {
		return err
	}
	log.Info("run archived", zap.Int64("run_id", id), zap.Int("events", archive.Len()))
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
