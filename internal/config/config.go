// Package config loads and validates the daemon configuration.
package config

import (
	"github.com/geomarket/geomarketd/internal/storage/archive"
)

// Config represents the complete geomarketd configuration.
type Config struct {
	// Server section
	Server ServerConfig `toml:"server" mapstructure:"server"`

	// Database section
	Database DatabaseConfig `toml:"database" mapstructure:"database"`

	// Archive section
	Archive ArchiveConfig `toml:"archive" mapstructure:"archive"`

	// Market section
	Market MarketConfig `toml:"market" mapstructure:"market"`

	// Standalone runs the daemon with store-backed collaborator registries
	// instead of external custody and currency systems.
	Standalone bool `toml:"standalone" mapstructure:"standalone"`

	configPath string
}

// ServerConfig holds the listener settings.
type ServerConfig struct {
	// RPCAddress is the HTTP JSON-RPC listen address.
	RPCAddress string `toml:"rpc_address" mapstructure:"rpc_address"`

	// GRPCAddress is the gRPC listen address; empty disables gRPC.
	GRPCAddress string `toml:"grpc_address" mapstructure:"grpc_address"`

	// AdminEnabled exposes the admin RPC methods on the listener.
	AdminEnabled bool `toml:"admin_enabled" mapstructure:"admin_enabled"`

	// RequestTimeoutSeconds bounds each RPC request.
	RequestTimeoutSeconds int `toml:"request_timeout_seconds" mapstructure:"request_timeout_seconds"`
}

// DatabaseConfig selects the key-value store.
type DatabaseConfig struct {
	// Backend is one of pebble, bbolt, memory.
	Backend string `toml:"backend" mapstructure:"backend"`

	// Path is the on-disk location for persistent backends.
	Path string `toml:"path" mapstructure:"path"`

	// Compression names the value compressor: none or lz4.
	Compression string `toml:"compression" mapstructure:"compression"`
}

// ArchiveConfig configures the optional SQL event archive.
type ArchiveConfig struct {
	Enabled bool   `toml:"enabled" mapstructure:"enabled"`
	Driver  string `toml:"driver" mapstructure:"driver"`
	DSN     string `toml:"dsn" mapstructure:"dsn"`
}

// SQL returns the archive package's config form.
func (c ArchiveConfig) SQL() archive.Config {
	return archive.Config{Driver: c.Driver, DSN: c.DSN}
}

// MarketConfig holds the marketplace parameters.
type MarketConfig struct {
	// Operator is the marketplace account: allowance spender and the only
	// sender of admin transactions.
	Operator string `toml:"operator" mapstructure:"operator"`

	// NativeWrapper is the wrapped form of the native currency.
	NativeWrapper string `toml:"native_wrapper" mapstructure:"native_wrapper"`

	// GraceSeconds bounds how far in the past a listing start may lie.
	GraceSeconds uint64 `toml:"grace_seconds" mapstructure:"grace_seconds"`

	// FeeRecipient and FeeBps seed the platform fee.
	FeeRecipient string `toml:"fee_recipient" mapstructure:"fee_recipient"`
	FeeBps       uint64 `toml:"fee_bps" mapstructure:"fee_bps"`
}

// Path returns the config file the configuration was loaded from, empty when
// defaults-only.
func (c *Config) Path() string {
	return c.configPath
}
