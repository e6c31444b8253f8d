package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/noteandcode/sitelinks"
	"github.com/noteandcode/sitelinks/excelize"
	"github.com/noteandcode/sitelinks/fetch"
	lochttp "github.com/noteandcode/sitelinks/http"
	"github.com/noteandcode/sitelinks/rod"
	"github.com/noteandcode/sitelinks/scan"
	locslog "github.com/noteandcode/sitelinks/slog"
	"github.com/noteandcode/sitelinks/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	ScanService sitelinks.ScanService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sitelinks"),
		kong.Description("Find the other websites a page links to."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'sitelinks --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	var logger *slog.Logger
	if cli.Debug {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	// Only saved scans and the history commands need the database.
	if cmd != "scan" || cli.Scan.Save {
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set SITELINKS_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		defer m.Close()

		m.ScanService = sqlite.NewScanService(m.DB)
		deps.Scans = m.ScanService
		if logger != nil {
			deps.Scans = locslog.NewLoggingScanService(deps.Scans, logger)
		}
	}

	if cmd == "scan" {
		engine, closeEngine, err := newEngine(cli.Scan, logger)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed, or use --engine http")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		defer closeEngine()

		fetcher := fetch.NewLinkFetcher(engine)
		fetcher.LoadTimeout = cli.Scan.LoadTimeout
		fetcher.WaitTimeout = cli.Scan.WaitTimeout
		fetcher.PassTimeout = cli.Scan.PassTimeout
		fetcher.Retry.MaxAttempts = cli.Scan.Attempts
		fetcher.Retry.Delay = cli.Scan.RetryDelay

		var links sitelinks.LinkFetcher = fetcher
		var permissions sitelinks.PermissionChecker = lochttp.NewRobotsChecker()
		if logger != nil {
			fetcher.Log = func(format string, args ...any) {
				logger.Debug(fmt.Sprintf(format, args...))
			}
			links = locslog.NewLoggingLinkFetcher(links, logger)
			permissions = locslog.NewLoggingPermissionChecker(permissions, logger)
		}

		scanner := &scan.Scanner{
			Permissions: permissions,
			Fetcher:     links,
		}
		if cli.Scan.Save {
			scanner.Scans = deps.Scans
		}

		deps.Batch = &scan.Batch{
			Scanner:     scanner,
			RateLimiter: scan.NewDomainLimiter(cli.Scan.Rate),
			Concurrency: cli.Scan.Concurrency,
		}
	}

	if cmd == "export" {
		deps.Exporter = excelize.NewExporter()
	}

	return kongCtx.Run(deps)
}

// newEngine creates the engine selected on the command line.
func newEngine(c ScanCmd, logger *slog.Logger) (sitelinks.Engine, func() error, error) {
	switch c.Engine {
	case "http":
		var engine sitelinks.Engine = lochttp.NewEngine(lochttp.WithTimeout(c.LoadTimeout))
		if logger != nil {
			engine = rod.NewLoggingEngine(engine, logger)
		}
		return engine, func() error { return nil }, nil
	default:
		browser, err := rod.NewEngine()
		if err != nil {
			return nil, nil, err
		}
		var engine sitelinks.Engine = browser
		if logger != nil {
			engine = rod.NewLoggingEngine(engine, logger)
		}
		return engine, browser.Close, nil
	}
}

func defaultDBPath() string {
	if path := os.Getenv("SITELINKS_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "sitelinks.db"
	}
	dir := filepath.Join(home, ".sitelinks")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "sitelinks.db")
}
