// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

// Command example shows a web page in an Ebitengine window. A loading page is
// served from embedded files until the local start page server is up.
package main

import (
	"embed"
	"fmt"
	"image/color"
	"io/fs"
	"os"

	framebridge "github.com/YindSoft/ultralight-framebridge"
	"github.com/YindSoft/ultralight-framebridge/ebitenhost"
	"github.com/YindSoft/ultralight-framebridge/hosting"
	"github.com/YindSoft/ultralight-framebridge/ultralight"
	"github.com/fsnotify/fsnotify"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

//go:embed ui
var uiFiles embed.FS

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var configFile string

	cmd := &cobra.Command{
		Use:          "example",
		Short:        "Render a web page into an Ebitengine window",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := framebridge.LoadSettings(v, configFile)
			if err != nil {
				return err
			}
			return run(cmd, v, configFile != "", settings)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&configFile, "config", "c", "", "config file (yaml, toml or json)")
	flags.String("start-url", "", "page to load once the server is up")
	flags.String("addr", "", "address to serve the asset dir on; empty disables the server")
	flags.String("asset-dir", "", "directory with the start page, cache and resources")
	flags.Int("width", 0, "window and view width")
	flags.Int("height", 0, "window and view height")
	flags.String("toggle-key", "", "key that shows and hides the page")
	flags.String("log-level", "", "trace, debug, info, warn or error")
	flags.String("log-file", "", "write logs to this file instead of stderr")
	flags.Bool("debug", false, "make the native bridge write its own log files")

	for key, flag := range map[string]string{
		"start_url":        "start-url",
		"server.addr":      "addr",
		"asset_dir":        "asset-dir",
		"width":            "width",
		"height":           "height",
		"input.toggle_key": "toggle-key",
		"log.level":        "log-level",
		"log.file":         "log-file",
		"engine.debug":     "debug",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}
	return cmd
}

func run(cmd *cobra.Command, v *viper.Viper, watch bool, settings framebridge.Settings) error {
	logCfg := settings.LogConfig()
	if settings.Log.File != "" {
		f, err := os.Create(settings.Log.File)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logCfg.Output = f
	}
	logger := framebridge.NewLogger(logCfg)
	ctx := logger.WithContext(cmd.Context())

	ui, err := fs.Sub(uiFiles, "ui")
	if err != nil {
		return err
	}
	engine := ultralight.NewEngine(ultralight.Options{
		LibraryDir: settings.Engine.LibraryDir,
		Debug:      settings.Engine.Debug,
	})
	if err := engine.RegisterFS(ui); err != nil {
		return fmt.Errorf("register ui files: %w", err)
	}
	logger.Debug().Int("files", engine.FileCount()).Msg("ui files registered")

	svc := hosting.New(hosting.Config{
		Addr:   settings.Server.Addr,
		Assets: assetFS(settings.Server.Root, ui, logger),
	}, logger)

	owner := framebridge.NewContextOwner(engine, logger)
	defer func() {
		if err := owner.Close(); err != nil {
			logger.Warn().Err(err).Msg("close render context")
		}
	}()

	return svc.Run(ctx, func() error {
		opts, err := settings.BridgeOptions(svc.ServiceAvailable())
		if err != nil {
			return err
		}
		target := ebitenhost.NewTarget(0, 0, settings.Width, settings.Height)
		bridge, err := framebridge.Start(ctx, owner, target, opts)
		if err != nil {
			return err
		}
		defer bridge.Stop()
		bridge.OnMessage = func(msg string) { handleMessage(bridge, logger, msg) }
		if watch {
			watchVisibility(v, bridge, logger)
		}

		frames := 0
		game := &ebitenhost.Game{
			Bridge:     bridge,
			Target:     target,
			Input:      ebitenhost.NewInput(target, bridge),
			Lifecycle:  svc,
			Done:       svc.Done(),
			Width:      settings.Width,
			Height:     settings.Height,
			Background: color.RGBA{30, 30, 40, 255},
			ShowFPS:    true,
			OnUpdate: func() error {
				frames++
				if frames%60 == 0 && bridge.State() == framebridge.Steady {
					_, _ = bridge.Eval(fmt.Sprintf("if(typeof updateCounter==='function')updateCounter(%d)", frames/60))
				}
				return nil
			},
		}

		ebiten.SetWindowSize(settings.Width, settings.Height)
		ebiten.SetWindowTitle("ultralight framebridge")
		ebiten.SetWindowClosingHandled(true)
		return ebiten.RunGame(game)
	})
}

// watchVisibility applies edits of the visible key while running. Other
// settings need a restart.
func watchVisibility(v *viper.Viper, bridge *framebridge.Bridge, logger zerolog.Logger) {
	v.OnConfigChange(func(e fsnotify.Event) {
		want := v.GetBool("visible")
		if want != bridge.Visible() {
			bridge.ToggleVisible()
		}
		logger.Info().Str("file", e.Name).Bool("visible", want).Msg("config file changed")
	})
	v.WatchConfig()
}

// assetFS serves root when it exists and the embedded pages otherwise.
func assetFS(root string, fallback fs.FS, logger zerolog.Logger) fs.FS {
	if fi, err := os.Stat(root); err == nil && fi.IsDir() {
		return os.DirFS(root)
	}
	logger.Info().Str("root", root).Msg("asset dir not found, serving embedded pages")
	return fallback
}

func handleMessage(bridge *framebridge.Bridge, logger zerolog.Logger, msg string) {
	parsed, err := framebridge.ParseMessage(msg)
	if err != nil {
		logger.Warn().Err(err).Str("raw", msg).Msg("bad message from page")
		return
	}
	logger.Info().Interface("message", parsed).Msg("message from page")

	switch msg {
	case "greet":
		_, _ = bridge.Eval("showMessage('Hello from Go!')")
	default:
		if err := bridge.Send(map[string]any{"echo": parsed, "status": "ok"}); err != nil {
			logger.Warn().Err(err).Msg("reply to page")
		}
	}
}
