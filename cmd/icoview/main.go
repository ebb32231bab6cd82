package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"icoview/internal/app"
	"icoview/internal/config"
	"icoview/internal/geometry"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	level := flag.Int("level", 0, fmt.Sprintf("initial icosphere tessellation level (0-%d)", geometry.MaxIcosphereLevel))
	shader := flag.String("shader", "", "initial shader program (lambert or gradient)")
	verbose := flag.Bool("v", false, "enable debug logging")
	dumpConfig := flag.Bool("dump-config", false, "print the effective config and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "icoview: %v\n", err)
		os.Exit(1)
	}
	var levelErr error
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "level" {
			levelErr = cfg.SetTessellation(*level)
		}
	})
	if levelErr != nil {
		fmt.Fprintf(os.Stderr, "icoview: -level: %v\n", levelErr)
		os.Exit(2)
	}
	if *shader != "" {
		cfg.Scene.Shader = *shader
	}
	cfg.Clamp()

	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	if *verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	if *dumpConfig {
		out, err := cfg.Marshal()
		if err != nil {
			slog.Error("marshal config", "err", err)
			os.Exit(1)
		}
		os.Stdout.Write(out)
		return
	}

	if err := run(cfg); err != nil {
		slog.Error("icoview failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Settings) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw: %w", err)
	}
	defer glfw.Terminate()

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Dispose()

	slog.Info("viewer started",
		"tessellation", cfg.Scene.Tessellation,
		"shader", cfg.Scene.Shader,
		"visible", cfg.Scene.Visible)
	a.Run()
	return nil
}
