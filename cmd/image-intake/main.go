package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ironsheep/image-intake/internal/config"
	"github.com/ironsheep/image-intake/internal/logger"
	"github.com/ironsheep/image-intake/internal/server"
)

// osExit is replaced in tests.
var osExit = os.Exit

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("image-intake %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("image-intake - MCP server that classifies a selected file as an image")
			fmt.Println()
			fmt.Println("Usage: image-intake [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  IMAGE_INTAKE_LOG_LEVEL=info           debug, info, warn or error")
			fmt.Println("  IMAGE_INTAKE_MAX_FILE_SIZE=0          Largest file read, in bytes (0 = no limit)")
			fmt.Println("  IMAGE_INTAKE_LOAD_TIMEOUT=0s          Deadline for reading a file (0 = none)")
			fmt.Println("  IMAGE_INTAKE_DECODE_TIMEOUT=0s        Deadline for decoding an image (0 = none)")
			fmt.Println("  IMAGE_INTAKE_DISPLAY_MAX_WIDTH=400    Display rendition width bound")
			fmt.Println("  IMAGE_INTAKE_DISPLAY_MAX_HEIGHT=500   Display rendition height bound")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr; stdout is for MCP protocol
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Debug("starting image-intake",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("commit", GitCommit))

	server.Version = Version
	srv := server.New(cfg, log)
	if err := srv.Run(); err != nil {
		exitOnError(log, "server error", err)
	}
}

// exitOnError logs err, flushes the logger and exits with status 1.
func exitOnError(log *zap.Logger, msg string, err error) {
	log.Error(msg, zap.Error(err))
	_ = log.Sync()
	osExit(1)
}
