package config

import "time"

// Config holds folio configuration.
// Stored at: ./config.yaml or ~/.folio/config.yaml
type Config struct {
	Server ServerCfg `mapstructure:"server" yaml:"server"`
	Render RenderCfg `mapstructure:"render" yaml:"render"`
	Viewer ViewerCfg `mapstructure:"viewer" yaml:"viewer"`
}

// ServerCfg configures the HTTP listener.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port string `mapstructure:"port" yaml:"port"`
}

// RenderCfg configures the page rendering pipeline.
type RenderCfg struct {
	// Oversample is the rasterization scale relative to the nominal page
	// size. Pages are rendered once at this scale and reused at every
	// on-screen zoom level.
	Oversample float64 `mapstructure:"oversample" yaml:"oversample"`
	// JPEGQuality is the encode quality for cached page bitmaps (1-100).
	JPEGQuality int `mapstructure:"jpeg_quality" yaml:"jpeg_quality"`
	// FirstPaintPages is the number of leading pages rendered before a
	// viewer session is reported ready.
	FirstPaintPages int `mapstructure:"first_paint_pages" yaml:"first_paint_pages"`
	// BackgroundDelay is how long to wait after readiness before the
	// remaining pages start rendering.
	BackgroundDelay time.Duration `mapstructure:"background_delay" yaml:"background_delay"`
	// Workers caps concurrent page renders (default: NumCPU).
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// ViewerCfg configures viewer navigation limits.
type ViewerCfg struct {
	MinScale  float64 `mapstructure:"min_scale" yaml:"min_scale"`
	MaxScale  float64 `mapstructure:"max_scale" yaml:"max_scale"`
	ScaleStep float64 `mapstructure:"scale_step" yaml:"scale_step"`
}
