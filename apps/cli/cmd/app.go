package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/hitref/packages/builtin"
	"github.com/abdul-hamid-achik/hitref/packages/core/config"
	"github.com/abdul-hamid-achik/hitref/packages/core/runner"
	"github.com/abdul-hamid-achik/hitref/packages/core/template"
	"github.com/abdul-hamid-achik/hitref/packages/logging"
	"github.com/abdul-hamid-achik/hitref/packages/output"
	"github.com/abdul-hamid-achik/hitref/packages/resolver"
	"github.com/abdul-hamid-achik/hitref/packages/store"
	"github.com/abdul-hamid-achik/hitref/packages/templatefn"
)

// variablePrefix marks process environment variables exposed as template
// variables, e.g. HITREF_VAR_baseUrl becomes {{baseUrl}}.
const variablePrefix = "HITREF_VAR_"

// app wires the store, template engine, runner and resolver for one command.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *store.Store
	bodies    *store.BodyStore
	engine    *template.Engine
	runner    *runner.Runner
	resolver  *resolver.Resolver
	formatter output.Formatter
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, withExitCode(ExitConfigError, fmt.Errorf("loading config: %w", err))
	}

	override := &config.Config{
		Database:  databaseFlag,
		BodyDir:   bodyDirFlag,
		Workspace: workspaceFlag,
		EnvFile:   envFileFlag,
		LogLevel:  logLevelFlag,
		LogFormat: logFormatFlag,
	}
	if noColorFlag {
		override.NoColor = config.BoolPtr(true)
	}
	return cfg.Merge(override), nil
}

func newLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, withExitCode(ExitConfigError, err)
	}
	format, err := logging.ParseFormat(cfg.LogFormat)
	if err != nil {
		return nil, withExitCode(ExitConfigError, err)
	}
	return logging.New(logging.Config{Level: level, Format: format, Output: os.Stderr}), nil
}

func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	if dir := filepath.Dir(cfg.Database); !strings.HasPrefix(cfg.Database, "sqlite:") && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, withExitCode(ExitConfigError, fmt.Errorf("creating database directory: %w", err))
		}
	}
	st, err := store.Open(cfg.Database)
	if err != nil {
		return nil, withExitCode(ExitConfigError, err)
	}
	bodies := store.NewBodyStore(cfg.BodyDir)

	engine := template.New(logger)
	engine.SetWarnFunc(func(format string, args ...any) {
		logger.Debug(fmt.Sprintf(format, args...))
	})
	builtin.Register(engine)
	for k, v := range cfg.Variables {
		engine.SetVariable(k, v)
	}
	if cfg.EnvFile != "" {
		vars, err := template.LoadDotEnv(cfg.EnvFile)
		if err != nil {
			_ = st.Close()
			return nil, withExitCode(ExitConfigError, err)
		}
		engine.SetVariables(vars)
	}
	engine.SetVariables(template.SystemVariables(variablePrefix))

	run := runner.NewRunner(&runner.Config{
		Timeout:        cfg.TimeoutDuration(),
		FollowRedirect: cfg.GetFollowRedirects(),
		MaxRedirects:   cfg.MaxRedirects,
		ValidateSSL:    cfg.GetValidateSSL(),
		Proxy:          cfg.Proxy,
		Headers:        cfg.Headers,
		Logger:         logger,
	}, engine, st, bodies)

	res := resolver.New(run, st, logger)
	templatefn.Register(engine, templatefn.New(res, bodies,
		templatefn.WithRequests(run, engine),
		templatefn.WithDefaultBehavior(resolver.ParseBehavior(cfg.DefaultBehavior)),
		templatefn.WithLogger(logger),
	))

	return &app{
		cfg:       cfg,
		logger:    logger,
		store:     st,
		bodies:    bodies,
		engine:    engine,
		runner:    run,
		resolver:  res,
		formatter: output.New(outputFlag, os.Stdout, cfg.GetNoColor(), verboseFlag),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}
