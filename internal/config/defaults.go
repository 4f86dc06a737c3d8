package config

import (
	"runtime"
	"time"
)

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerCfg{
			Host: "127.0.0.1",
			Port: "8080",
		},
		Render: RenderCfg{
			Oversample:      2.0,
			JPEGQuality:     90,
			FirstPaintPages: 6,
			BackgroundDelay: time.Second,
			Workers:         runtime.NumCPU(),
		},
		Viewer: ViewerCfg{
			MinScale:  0.25,
			MaxScale:  4.0,
			ScaleStep: 0.25,
		},
	}
}
