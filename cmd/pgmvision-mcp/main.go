package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"

	"github.com/ironsheep/pgm-vision/internal/config"
	"github.com/ironsheep/pgm-vision/internal/server"
)

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
			fmt.Printf("pgmvision-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("pgmvision-mcp - MCP server for PGM image analysis")
			fmt.Println()
			fmt.Println("Usage: pgmvision-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  PGMVISION_LOG_LEVEL=debug    Enable debug logging")
			fmt.Println("  PGMVISION_THRESHOLD=<n>      Default labeling threshold")
			fmt.Println()
			fmt.Println("Defaults are also read from .pgmvision.yaml in the current or home directory.")
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	server.Version = Version
	if cfg.Debug() {
		log.Printf("PGM Vision MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("Defaults: threshold=%d hough.threshold=%d workers=%d", cfg.Threshold, cfg.Hough.Threshold, cfg.Batch.Workers)
	}

	srv := server.NewWithConfig(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func loadConfig() (config.Config, error) {
	v := viper.New()
	v.SetConfigName(".pgmvision")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	config.BindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config.Config{}, fmt.Errorf("reading config: %w", err)
		}
	}
	return config.LoadFrom(v)
}
