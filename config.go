// Copyright (c) 2026 Javier Podavini (YindSoft)
// Licensed under the MIT License. See LICENSE file in the project root.

package framebridge

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Settings is the file/env configuration of a bridge host.
type Settings struct {
	// AssetDir holds the html files. Cache and resource paths default to
	// subdirectories of it.
	AssetDir       string `mapstructure:"asset_dir"`
	PlaceholderURL string `mapstructure:"placeholder_url"`
	StartURL       string `mapstructure:"start_url"`
	Width          int    `mapstructure:"width"`
	Height         int    `mapstructure:"height"`
	Visible        bool   `mapstructure:"visible"`
	StartupScript  string `mapstructure:"startup_script"`

	Engine  EngineSettings  `mapstructure:"engine"`
	Session SessionSettings `mapstructure:"session"`
	Input   InputSettings   `mapstructure:"input"`
	Server  ServerSettings  `mapstructure:"server"`
	Log     LogSettings     `mapstructure:"log"`
}

type EngineSettings struct {
	CachePath    string `mapstructure:"cache_path"`
	ResourcePath string `mapstructure:"resource_path"`
	GPURenderer  bool   `mapstructure:"gpu_renderer"`
	Images       bool   `mapstructure:"images"`
	JavaScript   bool   `mapstructure:"javascript"`
	// LibraryDir contains the native bridge and engine libraries.
	LibraryDir string `mapstructure:"library_dir"`
	Debug      bool   `mapstructure:"debug"`
}

type SessionSettings struct {
	Persistent bool   `mapstructure:"persistent"`
	Path       string `mapstructure:"path"`
}

type InputSettings struct {
	ToggleKey        string `mapstructure:"toggle_key"`
	ForwardArrowKeys bool   `mapstructure:"forward_arrow_keys"`
}

type ServerSettings struct {
	// Addr is where the start page is served. Empty disables the server.
	Addr string `mapstructure:"addr"`
	Root string `mapstructure:"root"`
}

type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

const envPrefix = "FRAMEBRIDGE"

func setDefaults(v *viper.Viper) {
	v.SetDefault("asset_dir", "wwwroot")
	v.SetDefault("placeholder_url", "file:///loading.html")
	v.SetDefault("start_url", "http://localhost:5000/")
	v.SetDefault("width", 800)
	v.SetDefault("height", 600)
	v.SetDefault("visible", true)
	v.SetDefault("startup_script", "")

	v.SetDefault("engine.cache_path", "")
	v.SetDefault("engine.resource_path", "")
	v.SetDefault("engine.gpu_renderer", false)
	v.SetDefault("engine.images", true)
	v.SetDefault("engine.javascript", true)
	v.SetDefault("engine.library_dir", "")
	v.SetDefault("engine.debug", false)

	v.SetDefault("session.persistent", false)
	v.SetDefault("session.path", "")

	v.SetDefault("input.toggle_key", "F10")
	v.SetDefault("input.forward_arrow_keys", false)

	v.SetDefault("server.addr", "127.0.0.1:5000")
	v.SetDefault("server.root", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
}

// LoadSettings reads path (if non-empty) and FRAMEBRIDGE_* environment
// variables into v, which may carry flag bindings. A nil v uses a fresh viper.
func LoadSettings(v *viper.Viper, path string) (Settings, error) {
	if v == nil {
		v = viper.New()
	}
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}
	s.normalize()
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return s, nil
}

func (s *Settings) normalize() {
	if s.Engine.CachePath == "" {
		s.Engine.CachePath = filepath.Join(s.AssetDir, "Cache")
	}
	if s.Engine.ResourcePath == "" {
		s.Engine.ResourcePath = filepath.Join(s.AssetDir, "resources")
	}
	if s.Server.Root == "" {
		s.Server.Root = s.AssetDir
	}
}

// Validate checks fields that can be verified without touching the disk.
// Path usability is checked when the render context is created.
func (s Settings) Validate() error {
	var errs []error
	if s.StartURL == "" {
		errs = append(errs, errors.New("start_url is required"))
	}
	if s.PlaceholderURL == "" {
		errs = append(errs, errors.New("placeholder_url is required"))
	}
	if s.Width <= 0 || s.Height <= 0 {
		errs = append(errs, fmt.Errorf("invalid size %dx%d", s.Width, s.Height))
	}
	if _, err := ParseKey(s.Input.ToggleKey); err != nil {
		errs = append(errs, fmt.Errorf("input.toggle_key: %w", err))
	}
	return errors.Join(errs...)
}

// EngineConfig returns the render context configuration.
func (s Settings) EngineConfig() EngineConfig {
	return EngineConfig{
		CachePath:        s.Engine.CachePath,
		ResourcePath:     s.Engine.ResourcePath,
		UseGPURenderer:   s.Engine.GPURenderer,
		EnableImages:     s.Engine.Images,
		EnableJavaScript: s.Engine.JavaScript,
	}
}

// BridgeOptions converts the settings into Start options. serviceAvailable is
// the readiness condition at the time of the call.
func (s Settings) BridgeOptions(serviceAvailable bool) (Options, error) {
	toggle, err := ParseKey(s.Input.ToggleKey)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Engine:            s.EngineConfig(),
		PlaceholderURL:    s.PlaceholderURL,
		StartURL:          s.StartURL,
		ServiceAvailable:  serviceAvailable,
		SessionPersistent: s.Session.Persistent,
		SessionPath:       s.Session.Path,
		Hidden:            !s.Visible,
		ToggleKey:         toggle,
		ForwardArrowKeys:  s.Input.ForwardArrowKeys,
		StartupScript:     s.StartupScript,
	}, nil
}

// LogConfig returns the logger configuration.
func (s Settings) LogConfig() LogConfig {
	return LogConfig{Level: s.Log.Level, Format: s.Log.Format}
}
