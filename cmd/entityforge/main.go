// entityforge builds entities from templates and prints the resulting
// hierarchy with the components attached to each entity.
//
// Usage:
//
//	entityforge [-config path] [-list] <entity-name>...
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/l1jgo/entityforge/internal/builder"
	"github.com/l1jgo/entityforge/internal/component"
	"github.com/l1jgo/entityforge/internal/config"
	"github.com/l1jgo/entityforge/internal/core/ecs"
	"github.com/l1jgo/entityforge/internal/core/event"
	"github.com/l1jgo/entityforge/internal/data"
	"github.com/l1jgo/entityforge/internal/factory"
	"github.com/l1jgo/entityforge/internal/persist"
	"github.com/l1jgo/entityforge/internal/scripting"
	"github.com/l1jgo/entityforge/internal/template"
	"github.com/l1jgo/entityforge/internal/types"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	defaultConfigPath = "config/entityforge.toml"
	configEnv         = "ENTITYFORGE_CONFIG"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Flags and config
	var cfgPath string
	flags := pflag.NewFlagSet("entityforge", pflag.ContinueOnError)
	flags.StringVarP(&cfgPath, "config", "c", defaultConfigPath, "path to the TOML config (or $"+configEnv+")")
	list := flags.BoolP("list", "l", false, "list loaded entity templates and exit")
	backend := flags.String("backend", "", "override templates.backend (yaml, lua, postgres)")
	dir := flags.String("dir", "", "override templates.dir")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfgPath, explicit := configSource(cfgPath, flags.Changed("config"), os.Getenv(configEnv))
	cfg, err := config.Load(cfgPath, !explicit)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Override(*backend, *dir); err != nil {
		return fmt.Errorf("config overrides: %w", err)
	}

	// 2. Logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// 3. Component types and templates
	reg := types.NewRegistry()
	if err := component.Register(reg); err != nil {
		return fmt.Errorf("register components: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, names, closeStore, err := openStore(ctx, cfg, reg, log)
	if err != nil {
		return fmt.Errorf("templates: %w", err)
	}
	defer closeStore()

	if lc := cfg.Templates.Legacy; lc.NpcList != "" {
		legacy, err := data.LoadLegacy(data.LegacyFiles{
			NpcList:   lc.NpcList,
			SpawnList: lc.SpawnList,
			DropList:  lc.DropList,
		}, reg, data.LoadOptions{Encoding: cfg.Templates.Encoding})
		if err != nil {
			return fmt.Errorf("legacy tables: %w", err)
		}
		store = template.Chain{store, legacy}
		names = append(names, legacy.EntityNames()...)
		log.Info("legacy tables imported",
			zap.Int("entities", legacy.EntityCount()), zap.Int("shared_components", legacy.ComponentCount()))
	}
	log.Info("templates ready",
		zap.String("backend", cfg.Templates.Backend), zap.Int("entities", len(names)))

	if *list {
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	}
	if flags.NArg() == 0 {
		return errors.New("no entity names given (use -list to see the templates)")
	}

	// 4. World, materializer, builder
	world := ecs.NewWorld()
	bus := event.NewBus()
	world.SetBus(bus)
	event.Subscribe(bus, func(ev ecs.ComponentAttached) {
		log.Debug("component attached", zap.Stringer("entity", ev.Entity), zap.Stringer("type", ev.Type))
	})
	event.Subscribe(bus, func(ev ecs.ParentSet) {
		log.Debug("parent set", zap.Stringer("child", ev.Child), zap.Stringer("parent", ev.Parent))
	})

	components := factory.New(store, log.Named("factory"))
	b := builder.New(store, world, components, log.Named("builder"))

	for _, name := range flags.Args() {
		root, ok, err := b.TryCreateByName(name)
		if err != nil {
			return err
		}
		if !ok {
			log.Warn("entity template not built", zap.String("name", name))
			continue
		}
		printTree(world, name, root)
	}

	bus.SwapBuffers()
	bus.DispatchAll()
	log.Info("done", zap.Int("entities", world.Len()), zap.Int("shared_components", components.SharedCount()))
	return nil
}

// openStore opens the configured template backend and lists its entity names.
func openStore(ctx context.Context, cfg *config.Config, reg *types.Registry, log *zap.Logger) (template.Store, []string, func(), error) {
	noop := func() {}
	switch cfg.Templates.Backend {
	case config.BackendYAML:
		s, err := data.LoadTemplateDir(cfg.Templates.Dir, reg, data.LoadOptions{Encoding: cfg.Templates.Encoding})
		if err != nil {
			return nil, nil, noop, err
		}
		return s, s.EntityNames(), noop, nil

	case config.BackendLua:
		s, err := scripting.LoadTemplates(cfg.Templates.Dir, reg, log.Named("lua"))
		if err != nil {
			return nil, nil, noop, err
		}
		return s, s.EntityNames(), noop, nil

	case config.BackendPostgres:
		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return nil, nil, noop, fmt.Errorf("database: %w", err)
		}
		if cfg.Database.Migrate {
			if err := db.RunMigrations(ctx); err != nil {
				db.Close()
				return nil, nil, noop, fmt.Errorf("migrations: %w", err)
			}
		}
		repo := persist.NewTemplateRepo(db, reg)
		names, err := repo.EntityNames(ctx)
		if err != nil {
			db.Close()
			return nil, nil, noop, err
		}
		return repo.Store(cfg.Database.LookupTimeout, log.Named("postgres")), names, db.Close, nil
	}
	return nil, nil, noop, fmt.Errorf("unknown template backend %q", cfg.Templates.Backend)
}

func printTree(w *ecs.World, name string, root ecs.EntityID) {
	fmt.Printf("%s\n", name)
	w.Hierarchy().Walk(root, func(id ecs.EntityID, depth int) {
		comps := w.Registry().TypesOf(id)
		parts := make([]string, len(comps))
		for i, t := range comps {
			parts[i] = t.String()
		}
		fmt.Printf("%s└─ entity %s  [%s]\n", strings.Repeat("   ", depth), id, strings.Join(parts, ", "))
	})
}

// configSource picks the config path: the flag, then the environment, then
// the default. Only the default may be missing.
func configSource(flagPath string, flagSet bool, env string) (string, bool) {
	switch {
	case flagSet:
		return flagPath, true
	case env != "":
		return env, true
	}
	return flagPath, false
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
