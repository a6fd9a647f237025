package config

import (
	"strings"
	"time"
)

// AnalyzerConfig holds the analytics backend settings
type AnalyzerConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"` // 0 disables the timeout
}

// IsEnabled returns true if a backend URL is configured
func (c AnalyzerConfig) IsEnabled() bool {
	return c.BaseURL != ""
}

// Endpoint returns the full URL of the analyze call
func (c AnalyzerConfig) Endpoint() string {
	return strings.TrimRight(c.BaseURL, "/") + "/analyze"
}

// Timeout returns the per-request timeout, zero meaning none
func (c AnalyzerConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
