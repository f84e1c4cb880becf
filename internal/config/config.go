/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package config loads process-level configuration from environment
// variables and scheduling scenarios from YAML files.
package config

import (
	"os"
	"strconv"
)

// Config covers process level configuration read from environment
// variables. Scheduling inputs come from scenario files instead.
type Config struct {
	Environment       string
	MetricsBind       string // empty disables the metrics listener
	TracingEnabled    bool
	OTLPEndpoint      string
	TracingSampleRate float64
}

// Load reads the process configuration from COURTPLAN_* environment
// variables.
func Load() *Config {
	return &Config{
		Environment:       getEnv("COURTPLAN_ENV", "development"),
		MetricsBind:       getEnv("COURTPLAN_METRICS_BIND", ""),
		TracingEnabled:    getEnvBool("COURTPLAN_TRACING_ENABLED", false),
		OTLPEndpoint:      getEnv("COURTPLAN_OTLP_ENDPOINT", "localhost:4317"),
		TracingSampleRate: getEnvFloat("COURTPLAN_TRACING_SAMPLE_RATE", 1.0),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return def
}
