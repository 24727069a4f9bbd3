package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the rotating log file written under the log directory.
const FileName = "sprintlens.log"

// Options controls where and how verbosely the logger writes.
type Options struct {
	Verbose bool
	Dir     string
	Console io.Writer
	NoColor bool
}

// New builds a logger writing to the console writer and a rotating file in opts.Dir.
// The returned closer releases the file sink.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to create log directory %q: %w", opts.Dir, err)
	}

	// MkdirAll succeeds on existing read-only dirs, so probe for writability.
	testFile := filepath.Join(opts.Dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("log directory %q is not writable: %w", opts.Dir, err)
	}
	_ = os.Remove(testFile)

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	consoleWriter := zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.RFC3339,
		NoColor:    opts.NoColor,
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(opts.Dir, FileName),
		MaxSize:    16, // megabytes
		MaxBackups: 8,
		MaxAge:     90, // days
		Compress:   true,
	}

	level := zerolog.InfoLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}

	multi := zerolog.MultiLevelWriter(io.Writer(consoleWriter), fileWriter)
	logger := zerolog.New(multi).
		Level(level).
		With().
		Timestamp().
		Logger()
	return logger, fileWriter, nil
}

// DefaultDir resolves LOGS_FOLDER, falling back to a logs folder next to the binary.
func DefaultDir() string {
	if dir := os.Getenv("LOGS_FOLDER"); dir != "" {
		return dir
	}
	if exePath, err := os.Executable(); err == nil {
		return filepath.Join(filepath.Dir(exePath), "logs")
	}
	return "logs"
}

// Init initializes the global logger with dual sinks: os.Stderr and a rotating file.
func Init(verbose bool) {
	// Init runs before config.Load, so pull LOGS_FOLDER from the binary's .env here.
	if exePath, err := os.Executable(); err == nil {
		_ = godotenv.Load(filepath.Join(filepath.Dir(exePath), ".env"))
	}

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	isTerminal := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())

	logger, _, err := New(Options{
		Verbose: verbose,
		Dir:     DefaultDir(),
		Console: os.Stderr,
		NoColor: !isTerminal,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log.Logger = logger
}
