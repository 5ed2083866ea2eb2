package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/linanwx/uibridge/bridge"
	"github.com/linanwx/uibridge/config"
	"github.com/linanwx/uibridge/console"
	"github.com/linanwx/uibridge/host"
	"github.com/linanwx/uibridge/logger"
	"github.com/linanwx/uibridge/schedule"
	"github.com/linanwx/uibridge/tui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the text components with optional host links",
	Long: `Run the appender or the command bridge.

Host links (bridge mode):
  --listen   accept one host over WebSocket at <addr><path>
  --connect  dial a host WebSocket endpoint
  --stdio    exchange newline-delimited JSON on stdin/stdout
  --echo     log every outbound event

Examples:
  uibridge serve --mode appender
  uibridge serve --listen 127.0.0.1:8765
  uibridge serve --stdio`,
	RunE: runServe,
}

var (
	serveMode    string
	serveListen  string
	servePath    string
	serveConnect string
	serveStdio   bool
	serveEcho    bool
	servePlain   bool
)

func init() {
	serveCmd.Flags().StringVar(&serveMode, "mode", "", "Component to run: bridge or appender")
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "WebSocket listen address")
	serveCmd.Flags().StringVar(&servePath, "path", "", "WebSocket path (default /bridge)")
	serveCmd.Flags().StringVar(&serveConnect, "connect", "", "Host WebSocket URL to dial")
	serveCmd.Flags().BoolVar(&serveStdio, "stdio", false, "Use stdin/stdout as the host link")
	serveCmd.Flags().BoolVar(&serveEcho, "echo", false, "Log outbound events")
	serveCmd.Flags().BoolVar(&servePlain, "plain", false, "Use the plain line front end instead of the TUI")
	rootCmd.AddCommand(serveCmd)
}

// frontEnd owns the components. Deliver must be safe to call from any
// goroutine.
type frontEnd interface {
	Deliver(source, payload string)
	Run(ctx context.Context) error
}

type linkRunner func(ctx context.Context) error

// errHostClosed stops serve when the stdio host closes its end.
var errHostClosed = errors.New("host closed stdin")

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyServeFlags(cmd, cfg); err != nil {
		return err
	}

	if cfg.Host.Stdio {
		logger.Intercept(os.Stderr)
		defer logger.Restore()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var fe frontEnd
	dispatch := func(source string) host.Dispatch {
		return func(payload string) { fe.Deliver(source, payload) }
	}

	link, runners, closers, err := buildLinks(ctx, cfg, dispatch)
	if err != nil {
		return err
	}
	defer func() {
		for _, c := range closers {
			_ = c()
		}
	}()

	if usePlain(cfg) {
		fe = newConsole(cfg, link)
	} else {
		fe = newTUI(ctx, cfg, link)
	}

	sched := schedule.NewScheduler(func(job schedule.Job) {
		fe.Deliver(console.SourceSchedule, job.Payload)
	})
	if n := sched.Load(cfg.Schedules); n > 0 {
		logger.Info("scheduled commands loaded", "count", n)
	}
	sched.Start()
	defer sched.Stop()

	g, gctx := errgroup.WithContext(ctx)
	for _, run := range runners {
		g.Go(func() error { return run(gctx) })
	}
	g.Go(func() error {
		defer cancel()
		return fe.Run(gctx)
	})

	logger.Info("uibridge started", "mode", cfg.UI.Mode, "links", len(runners))
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, errHostClosed) {
		return err
	}
	logger.Info("uibridge stopped")
	return nil
}

// applyServeFlags overrides config values with explicitly set flags.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("mode") {
		mode := strings.ToLower(strings.TrimSpace(serveMode))
		if mode != config.ModeBridge && mode != config.ModeAppender {
			return fmt.Errorf("invalid --mode %q; use bridge or appender", serveMode)
		}
		cfg.UI.Mode = mode
	}
	if flags.Changed("listen") {
		cfg.Host.Listen = strings.TrimSpace(serveListen)
	}
	if flags.Changed("path") && strings.TrimSpace(servePath) != "" {
		cfg.Host.Path = strings.TrimSpace(servePath)
	}
	if flags.Changed("connect") {
		cfg.Host.Connect = strings.TrimSpace(serveConnect)
	}
	if flags.Changed("stdio") {
		cfg.Host.Stdio = serveStdio
	}
	if flags.Changed("echo") {
		cfg.Host.Echo = serveEcho
	}
	return nil
}

func usePlain(cfg *config.Config) bool {
	if servePlain || cfg.Host.Stdio {
		return true
	}
	return !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd()))
}

// buildLinks creates the configured host links. The returned host is nil
// when no link is configured, so the bridge reports events as dropped.
func buildLinks(ctx context.Context, cfg *config.Config, dispatch func(source string) host.Dispatch) (bridge.Host, []linkRunner, []func() error, error) {
	if cfg.UI.Mode == config.ModeAppender {
		return nil, nil, nil, nil
	}

	var (
		links   host.Multi
		runners []linkRunner
		closers []func() error
	)

	if cfg.Host.Listen != "" {
		srv := host.NewWSServer(host.WSConfig{
			Addr:           cfg.Host.Listen,
			Path:           cfg.Host.Path,
			OriginPatterns: cfg.Host.OriginPatterns,
		}, dispatch("ws"))
		links = append(links, srv)
		runners = append(runners, srv.Run)
		logger.Info("websocket host link enabled", "addr", cfg.Host.Listen, "path", cfg.Host.Path)
	}

	if cfg.Host.Connect != "" {
		client, err := host.Dial(ctx, cfg.Host.Connect, dispatch("ws-client"))
		if err != nil {
			return nil, nil, nil, err
		}
		links = append(links, client)
		runners = append(runners, client.Run)
		closers = append(closers, client.Close)
		logger.Info("connected to host", "url", cfg.Host.Connect)
	}

	if cfg.Host.Stdio {
		s := host.NewStdio(os.Stdin, os.Stdout, dispatch("stdio"))
		links = append(links, s)
		runners = append(runners, func(ctx context.Context) error {
			if err := s.Run(ctx); err != nil {
				return err
			}
			if ctx.Err() != nil {
				return nil
			}
			return errHostClosed
		})
		logger.Info("stdio host link enabled")
	}

	if cfg.Host.Echo {
		links = append(links, host.Echo{})
	}

	switch len(links) {
	case 0:
		logger.Warn("no host link configured, bridge events will be dropped")
		return nil, runners, closers, nil
	case 1:
		return links[0], runners, closers, nil
	default:
		return links, runners, closers, nil
	}
}

func newConsole(cfg *config.Config, link bridge.Host) *console.Console {
	opts := console.Options{
		Mode:         cfg.UI.Mode,
		ScrollBottom: cfg.UI.ScrollBottom,
		Appender:     cfg.AppenderOptions(),
		Bridge:       cfg.BridgeOptions(),
		Host:         link,
		Out:          os.Stdout,
		KeepRunning:  link != nil,
	}
	if cfg.Host.Stdio {
		opts.Out = os.Stderr
	} else {
		opts.In = os.Stdin
		if term.IsTerminal(int(os.Stdin.Fd())) {
			opts.Prompt = cfg.UI.Prompt
		}
	}
	return console.New(opts)
}

type tuiFrontEnd struct {
	program *tea.Program
}

func newTUI(ctx context.Context, cfg *config.Config, link bridge.Host) *tuiFrontEnd {
	app := tui.NewApp(tui.Options{
		Mode:     cfg.UI.Mode,
		Prompt:   cfg.UI.Prompt,
		LogRatio: cfg.UI.LogRatio,
		Appender: cfg.AppenderOptions(),
		Bridge:   cfg.BridgeOptions(),
		Host:     link,
	})
	program := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	return &tuiFrontEnd{program: program}
}

func (t *tuiFrontEnd) Deliver(source, payload string) {
	t.program.Send(tui.HostCommandMsg{Source: source, Payload: payload})
}

func (t *tuiFrontEnd) Run(ctx context.Context) error {
	lw := tui.NewLogWriter(t.program)
	logger.Intercept(lw)
	defer func() {
		logger.Restore()
		_ = lw.Close()
	}()

	if _, err := t.program.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
