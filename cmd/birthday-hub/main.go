package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"text/tabwriter"

	"fyne.io/fyne/v2/app"
	"github.com/tartampluch/birthday-hub/internal/config"
	"github.com/tartampluch/birthday-hub/internal/engine"
	"github.com/tartampluch/birthday-hub/internal/roster"
	"github.com/tartampluch/birthday-hub/internal/server"
	"github.com/tartampluch/birthday-hub/internal/ui"
)

// main is the application entry point.
// It delegates execution to runMain to ensure that deferred function calls
// (like closing log files) are executed before the process terminates.
// os.Exit() does not run defers, so we must return an integer code first.
func main() {
	os.Exit(runMain())
}

// runMain manages the application lifecycle, argument parsing, and exit codes.
// Returns config.ExitCodeSuccess on success, config.ExitCodeError on failure.
func runMain() int {
	// -------------------------------------------------------------------------
	// 1. CLI Argument Parsing
	// -------------------------------------------------------------------------
	showVersion := flag.Bool(config.FlagVersion, false, config.FlagDescVersion)
	debugMode := flag.Bool(config.FlagDebug, false, config.FlagDescDebug)
	upcoming := flag.Int(config.FlagUpcoming, 0, config.FlagDescUpcoming)
	rosterPath := flag.String(config.FlagRoster, "", config.FlagDescRoster)
	flag.Parse()

	if *showVersion {
		printVersion()
		return config.ExitCodeSuccess
	}

	// -------------------------------------------------------------------------
	// 2. Logging Initialization
	// -------------------------------------------------------------------------
	// We configure structured logging (slog) early to capture startup issues.
	// Headless listings own stdout; their logs go to stderr.
	console := io.Writer(os.Stdout)
	if *upcoming != 0 {
		console = os.Stderr
	}
	logCloser := setupLogging(*debugMode, console)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close() // Best effort close
		}()
	}

	// -------------------------------------------------------------------------
	// 3. Context & Signal Handling
	// -------------------------------------------------------------------------
	// Create a root context that cancels on SIGINT (Ctrl+C) or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	// -------------------------------------------------------------------------
	// 4. Application Logic
	// -------------------------------------------------------------------------
	var err error
	if *upcoming != 0 {
		err = listUpcoming(ctx, os.Stdout, *upcoming, rosterSource(*rosterPath))
	} else {
		err = run(ctx, *rosterPath)
	}
	if err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// run initializes the Fyne application, wires dependencies, and starts the UI loop.
func run(ctx context.Context, rosterPath string) error {
	// Initialize Fyne App.
	a := app.NewWithID(config.AppID)

	// Record the version for potential migration logic in future updates.
	a.Preferences().SetString(config.PrefLastRun, config.Version)

	// Dependency Injection.
	port := a.Preferences().StringWithFallback(config.PrefServerPort, config.DefaultPort)
	srv := server.NewFeedServer(port)
	fetcher := roster.NewHTTPFetcher()

	// Initialize the UI Controller (MVC pattern).
	gui := ui.NewHubApp(a, ctx, srv, fetcher)
	gui.RosterOverride = rosterPath

	// Lifecycle Bridge:
	// Watch for context cancellation to quit the UI gracefully.
	go func() {
		<-ctx.Done()
		slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompMain)
		a.Quit()
	}()

	// Start the Application (blocks until main window closes).
	gui.Run()

	return nil
}

// rosterSource picks the roster for headless runs: the given file, or the
// built-in roster.
func rosterSource(path string) roster.Source {
	if path == "" {
		return roster.Source{Mode: config.SourceModeEmbedded}
	}
	return roster.Source{Mode: config.SourceModeLocal, LocalPath: path}
}

// listUpcoming prints the next n birthdays as a table, without starting the UI.
func listUpcoming(ctx context.Context, out io.Writer, n int, src roster.Source) error {
	if n < 0 {
		return fmt.Errorf("%s: %d", config.ErrUpcomingCount, n)
	}

	loader := &roster.Loader{Clock: engine.RealClock{}}
	res, err := loader.Load(ctx, src)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrUpcomingList, err)
	}

	tw := tabwriter.NewWriter(out, 0, 0, config.TableCellPadding, ' ', 0)
	fmt.Fprint(tw, config.FormatUpcomingHeader)
	for _, occ := range engine.Upcoming(res.Records, loader.Clock.Now(), n) {
		in := config.UpcomingToday
		if !occ.IsToday {
			in = fmt.Sprintf(config.FormatUpcomingDays, occ.DaysUntil)
		}
		fmt.Fprintf(tw, config.FormatUpcomingRow, occ.OccursAt.Format(config.DateFormatDisplay), in, occ.Record.DisplayName)
	}
	return tw.Flush()
}

// printVersion outputs the build information to stdout and exits.
func printVersion() {
	fmt.Printf(config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyCommit, config.Commit),
			slog.String(config.LogKeyDate, config.Date),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger.
func setupLogging(debugMode bool, console io.Writer) io.Closer {
	var writers []io.Writer
	var logFile *os.File

	// 1. Always write to the console.
	writers = append(writers, console)

	// 2. Attempt to set up a file writer in the user's cache directory.
	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on restart to prevent indefinite growth.
		// Use centralized permission constants for security.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	logger := slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts))
	slog.SetDefault(logger)

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)

	// Ensure the directory exists with restricted permissions (700).
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}
