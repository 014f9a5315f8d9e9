package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	serveradapter "github.com/osvalOrd/TrelloClone/internal/adapters/server"
	servercommon "github.com/osvalOrd/TrelloClone/internal/adapters/server/common"
	"github.com/osvalOrd/TrelloClone/internal/adapters/storage/sqlite"
	"github.com/osvalOrd/TrelloClone/internal/app"
	"github.com/osvalOrd/TrelloClone/internal/config"
	"github.com/osvalOrd/TrelloClone/internal/domain"
	"github.com/osvalOrd/TrelloClone/internal/fixture"
	"github.com/osvalOrd/TrelloClone/internal/platform"
	"github.com/osvalOrd/TrelloClone/internal/tui"
	"github.com/spf13/cobra"
)

// version is replaced at link time for release builds.
var version = "dev"

// program is the part of *tea.Program the CLI drives.
type program interface {
	Run() (tea.Model, error)
	Send(msg tea.Msg)
}

var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

// serveCommandRunner starts the HTTP+MCP serve flow.
var serveCommandRunner = func(ctx context.Context, cfg serveradapter.Config, deps serveradapter.Dependencies) error {
	return serveradapter.Run(ctx, cfg, deps)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	root := newRootCommand(os.Stdout, os.Stderr)
	err := fang.Execute(ctx, root, fang.WithVersion(version))
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// run executes one CLI invocation without fang's styled output.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if args == nil {
		args = []string{}
	}
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	stdout     io.Writer
	stderr     io.Writer
	configPath string
	seedPath   string
	appName    string
	devMode    bool
}

// serveOptions holds endpoint overrides. Blank values fall back to config.
type serveOptions struct {
	httpBind    string
	apiEndpoint string
	mcpEndpoint string
}

func (s *serveOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.httpBind, "http", "", "HTTP listen address (default from config)")
	cmd.Flags().StringVar(&s.apiEndpoint, "api-endpoint", "", "HTTP API base endpoint (default from config)")
	cmd.Flags().StringVar(&s.mcpEndpoint, "mcp-endpoint", "", "MCP streamable HTTP endpoint (default from config)")
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	opts := &rootOptions{
		stdout:  stdout,
		stderr:  stderr,
		appName: platform.DefaultAppName,
		devMode: version == "dev",
	}
	if envDev, ok := parseBoolEnv("TRELLOCLONE_DEV_MODE"); ok {
		opts.devMode = envDev
	}
	if envApp := strings.TrimSpace(os.Getenv("TRELLOCLONE_APP_NAME")); envApp != "" {
		opts.appName = envApp
	}

	var (
		serve      bool
		serveFlags serveOptions
	)
	cmd := &cobra.Command{
		Use:   "trelloclone",
		Short: "A kanban board in the terminal",
		Long: `trelloclone opens a kanban board in the terminal.

Cards and columns are moved with the keyboard. Pass --serve to expose the
same board over a JSON API and MCP while the board is open.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.runTUI(cmd.Context(), serve, serveFlags)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "path to config TOML")
	pf.StringVar(&opts.seedPath, "seed", "", "path to a YAML board seed file")
	pf.StringVar(&opts.appName, "app", opts.appName, "application name for config/data path resolution")
	pf.BoolVar(&opts.devMode, "dev", opts.devMode, "use dev mode paths (<app>-dev)")
	cmd.Flags().BoolVar(&serve, "serve", false, "serve the HTTP API and MCP endpoints while the board is open")
	serveFlags.bind(cmd)

	cmd.AddCommand(
		newServeCommand(opts),
		newShowCommand(opts),
		newPathsCommand(opts),
		newInitConfigCommand(opts),
	)
	return cmd
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	var flags serveOptions
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board over HTTP and MCP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.open("serve")
			if err != nil {
				return err
			}
			defer s.Close()

			cfg := s.serverConfig(flags)
			s.logger.Info("command flow start", "command", "serve", "http", cfg.HTTPBind, "api", cfg.APIEndpoint, "mcp", cfg.MCPEndpoint)
			if err := serveCommandRunner(cmd.Context(), cfg, s.serverDeps()); err != nil {
				s.logger.Error("command flow failed", "command", "serve", "err", err)
				return fmt.Errorf("run serve command: %w", err)
			}
			s.logger.Info("command flow complete", "command", "serve")
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}

func newShowCommand(opts *rootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the board and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.open("show")
			if err != nil {
				return err
			}
			defer s.Close()

			s.logger.Info("command flow start", "command", "show", "format", format)
			if err := writeBoard(cmd.Context(), cmd.OutOrStdout(), s.svc, format, time.Now()); err != nil {
				s.logger.Error("command flow failed", "command", "show", "err", err)
				return fmt.Errorf("run show command: %w", err)
			}
			s.logger.Info("command flow complete", "command", "show")
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, json, or yaml")
	return cmd
}

func newPathsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config and data locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths, err := opts.paths()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "app: %s\n", opts.appName)
			_, _ = fmt.Fprintf(out, "dev_mode: %t\n", opts.devMode)
			_, _ = fmt.Fprintf(out, "config: %s\n", opts.resolveConfigPath(paths))
			_, _ = fmt.Fprintf(out, "data_dir: %s\n", paths.DataDir)
			_, _ = fmt.Fprintf(out, "seed: %s\n", paths.SeedPath)
			_, _ = fmt.Fprintf(out, "log_dir: %s\n", paths.LogDir)
			return nil
		},
	}
}

func newInitConfigCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init-config",
		Short: "Write the default config file if none exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths, err := opts.paths()
			if err != nil {
				return err
			}
			path := opts.resolveConfigPath(paths)
			if err := config.WriteDefault(path, config.Default("")); err != nil {
				return fmt.Errorf("write default config %q: %w", path, err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "config: %s\n", path)
			return nil
		},
	}
}

func (o *rootOptions) paths() (platform.Paths, error) {
	return platform.DefaultPathsWithOptions(platform.Options{
		AppName: o.appName,
		DevMode: o.devMode,
	})
}

// resolveConfigPath prefers --config, then TRELLOCLONE_CONFIG, then the platform default.
func (o *rootOptions) resolveConfigPath(paths platform.Paths) string {
	if p := strings.TrimSpace(o.configPath); p != "" {
		return p
	}
	if p := strings.TrimSpace(os.Getenv("TRELLOCLONE_CONFIG")); p != "" {
		return p
	}
	return paths.ConfigPath
}

// session is the runtime wired up for one command.
type session struct {
	appName string
	cfg     config.Config
	logger  *runtimeLogger
	stderr  io.Writer
	journal *sqlite.Journal
	svc     *app.Service
}

// open resolves config, loads the board and builds the service for command.
func (o *rootOptions) open(command string) (*session, error) {
	paths, err := o.paths()
	if err != nil {
		return nil, err
	}
	configPath := o.resolveConfigPath(paths)
	seedOverride := strings.TrimSpace(o.seedPath)
	if seedOverride == "" {
		seedOverride = strings.TrimSpace(os.Getenv("TRELLOCLONE_SEED"))
	}

	cfg, err := config.Load(configPath, config.Default(""))
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", configPath, err)
	}
	if seedOverride != "" {
		cfg.Board.SeedPath = seedOverride
	}

	logger, err := newRuntimeLogger(o.stderr, o.appName, o.devMode, cfg.Logging, time.Now)
	if err != nil {
		return nil, fmt.Errorf("configure runtime logger: %w", err)
	}
	if command == "tui" {
		// The board owns the terminal; runtime logs go to the dev file only.
		logger.SetConsoleEnabled(false)
	}
	s := &session{appName: o.appName, cfg: cfg, logger: logger, stderr: o.stderr}

	logger.Info("startup configuration resolved", "app", o.appName, "dev_mode", o.devMode, "command", command)
	logger.Debug("runtime paths resolved", "config_path", configPath, "data_dir", paths.DataDir, "seed_path", paths.SeedPath)
	logger.Info("configuration loaded", "config_path", configPath, "seed_path", cfg.Board.SeedPath, "log_level", cfg.Logging.Level, "ids", cfg.IDs.Strategy)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}

	board, source, err := loadBoard(cfg.Board.SeedPath, paths.SeedPath, time.Now())
	if err != nil {
		logger.Error("board load failed", "seed_path", cfg.Board.SeedPath, "err", err)
		s.Close()
		return nil, err
	}
	logger.Info("board loaded", "source", source, "columns", len(board.Columns))

	journal, err := sqlite.OpenInMemory(o.appName)
	if err != nil {
		logger.Error("sqlite open failed", "err", err)
		s.Close()
		return nil, fmt.Errorf("open change journal: %w", err)
	}
	s.journal = journal

	idGen := app.UUIDGenerator()
	if cfg.UseSequenceIDs() {
		idGen = app.SequenceIDGenerator()
	}
	s.svc = app.NewService(app.NewStore(board), journal, idGen, time.Now, app.ServiceConfig{
		SearchLimit:   cfg.Search.Limit,
		ActivityLimit: cfg.Search.ActivityLimit,
	})
	logger.Debug("application service initialized", "search_limit", cfg.Search.Limit, "activity_limit", cfg.Search.ActivityLimit)
	return s, nil
}

// Close releases the journal and the log file.
func (s *session) Close() {
	if s.journal != nil {
		if err := s.journal.Close(); err != nil {
			s.logger.Warn("sqlite close failed", "err", err)
		}
	}
	if err := s.logger.Close(); err != nil && s.logger.shouldLogToSink(s.logger.consoleSink) {
		_, _ = fmt.Fprintf(s.stderr, "warning: close runtime log sink: %v\n", err)
	}
}

func (s *session) serverConfig(flags serveOptions) serveradapter.Config {
	cfg := serveradapter.Config{
		HTTPBind:      s.cfg.Server.HTTPBind,
		APIEndpoint:   s.cfg.Server.APIEndpoint,
		MCPEndpoint:   s.cfg.Server.MCPEndpoint,
		ServerName:    s.appName,
		ServerVersion: version,
	}
	if v := strings.TrimSpace(flags.httpBind); v != "" {
		cfg.HTTPBind = v
	}
	if v := strings.TrimSpace(flags.apiEndpoint); v != "" {
		cfg.APIEndpoint = v
	}
	if v := strings.TrimSpace(flags.mcpEndpoint); v != "" {
		cfg.MCPEndpoint = v
	}
	return cfg
}

func (s *session) serverDeps() serveradapter.Dependencies {
	return serveradapter.Dependencies{
		Board: servercommon.NewAppServiceAdapter(s.svc, time.Now),
	}
}

// tuiOptions maps config sections onto model options.
func (s *session) tuiOptions() []tui.Option {
	cfg := s.cfg
	return []tui.Option{
		tui.WithCardFieldConfig(tui.CardFieldConfig{
			ShowLabels:      cfg.CardFields.ShowLabels,
			ShowDueDate:     cfg.CardFields.ShowDueDate,
			ShowDescription: cfg.CardFields.ShowDescription,
		}),
		tui.WithColumnWidth(cfg.Board.ColumnWidth),
		tui.WithSearchLimit(cfg.Search.Limit, cfg.Search.ActivityLimit),
		tui.WithKeyConfig(tui.KeyConfig{
			PickCard:    cfg.Keys.PickCard,
			PickColumn:  cfg.Keys.PickColumn,
			Search:      cfg.Keys.Search,
			ActivityLog: cfg.Keys.ActivityLog,
			CopyTitle:   cfg.Keys.CopyTitle,
		}),
	}
}

// runTUI runs the board program, optionally with the server in the same process.
func (o *rootOptions) runTUI(ctx context.Context, serve bool, flags serveOptions) error {
	s, err := o.open("tui")
	if err != nil {
		return err
	}
	s.logger.Info("command flow start", "command", "tui", "serve", serve)

	p := programFactory(tui.NewModel(s.svc, s.tuiOptions()...))
	if serve {
		unsubscribe := s.svc.Subscribe(func(board domain.Board, revision uint64) {
			// Listeners run under the store lock; Send blocks until the loop reads.
			go p.Send(tui.BoardChangedMsg{Board: board, Revision: revision})
		})
		defer unsubscribe()

		serveCtx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		cfg := s.serverConfig(flags)
		go func() {
			defer close(done)
			s.logger.Info("background server starting", "http", cfg.HTTPBind)
			if err := serveCommandRunner(serveCtx, cfg, s.serverDeps()); err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Error("background server stopped", "err", err)
			}
		}()
		defer func() {
			cancel()
			<-done
		}()
	}

	s.logger.Info("starting tui program loop")
	if _, err := p.Run(); err != nil {
		s.logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	s.logger.Info("command flow complete", "command", "tui")
	return nil
}

// loadBoard picks the board source. An explicit seed path must exist; the
// platform default seed is used only when present, otherwise the built-in board.
func loadBoard(seedPath, defaultSeedPath string, now time.Time) (domain.Board, string, error) {
	if seedPath = strings.TrimSpace(seedPath); seedPath != "" {
		board, err := fixture.Load(seedPath, now)
		if err != nil {
			return domain.Board{}, "", fmt.Errorf("load board: %w", err)
		}
		return board, seedPath, nil
	}
	if defaultSeedPath = strings.TrimSpace(defaultSeedPath); defaultSeedPath != "" {
		if _, err := os.Stat(defaultSeedPath); err == nil {
			board, err := fixture.Load(defaultSeedPath, now)
			if err != nil {
				return domain.Board{}, "", fmt.Errorf("load board: %w", err)
			}
			return board, defaultSeedPath, nil
		}
	}
	return fixture.Default(now), "built-in", nil
}

// parseBoolEnv reads a boolean env var. ok is false when unset or unparseable.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
