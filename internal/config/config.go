// Package config provides configuration loading, validation, and hot
// reload for a SCIM service built on the core patch engine.
package config

import "time"

// Config holds the complete service configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Schema  SchemaConfig  `yaml:"schema"`
	Storage StorageConfig `yaml:"storage"`
	Logging LogConfig     `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServerConfig holds the HTTP listener configuration.
type ServerConfig struct {
	Address      string        `yaml:"address"`
	TLSAddress   string        `yaml:"tlsAddress"`
	TLSCert      string        `yaml:"tlsCert"`
	TLSKey       string        `yaml:"tlsKey"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
}

// SchemaConfig controls which resource types and schema extensions the
// registry loads at startup.
type SchemaConfig struct {
	ResourceTypes     []string `yaml:"resourceTypes"`
	EnterpriseExtension bool   `yaml:"enterpriseExtension"`
	SchemaDir         string   `yaml:"schemaDir"`
}

// StorageConfig selects and configures the resource store.
type StorageConfig struct {
	Driver string `yaml:"driver"` // "memory" or "postgres"
	DSN    string `yaml:"dsn"`
}

// LogConfig holds structured logging configuration.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// MetricsConfig controls the Prometheus metrics endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}
