package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"rpd/internal/di"
	"rpd/internal/structures"
)

func main() {
	configPath := flag.String("config", "./config.yaml", "path to the yaml config file")
	debug := flag.Bool("debug", false, "duplicate logs to stdout")
	user := flag.String("user", "", "analyze a single user and exit instead of serving")
	outputDir := flag.String("out", ".", "directory for one-shot persona reports")
	flag.Parse()

	// .env is optional; real environment variables win either way
	_ = godotenv.Load()

	flags := &structures.CliFlags{
		ConfigPath: *configPath,
		DebugMode:  *debug,
		User:       *user,
		OutputDir:  *outputDir,
	}

	if flags.User != "" {
		analyzer, err := di.InitAnalyzer(flags)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		path, err := analyzer.Run(context.Background(), flags.User, flags.OutputDir)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println("Analysis complete! Saved to " + path)
		return
	}

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
