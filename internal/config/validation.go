package config

import (
	"fmt"
	"net"

	"github.com/geomarket/geomarketd/internal/core/market"
	"github.com/geomarket/geomarketd/internal/storage/archive"
	"github.com/geomarket/geomarketd/internal/storage/kv"
	"github.com/geomarket/geomarketd/internal/storage/kv/compression"
)

// ValidateConfig performs validation on the complete configuration.
func ValidateConfig(config *Config) error {
	if err := validateServer(&config.Server); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}
	if err := validateDatabase(&config.Database); err != nil {
		return fmt.Errorf("database config validation failed: %w", err)
	}
	if err := validateArchive(&config.Archive); err != nil {
		return fmt.Errorf("archive config validation failed: %w", err)
	}
	if err := validateMarket(&config.Market); err != nil {
		return fmt.Errorf("market config validation failed: %w", err)
	}
	return nil
}

func validateServer(cfg *ServerConfig) error {
	if cfg.RPCAddress == "" {
		return fmt.Errorf("rpc_address is required")
	}
	if _, _, err := net.SplitHostPort(cfg.RPCAddress); err != nil {
		return fmt.Errorf("invalid rpc_address: %w", err)
	}
	if cfg.GRPCAddress != "" {
		if _, _, err := net.SplitHostPort(cfg.GRPCAddress); err != nil {
			return fmt.Errorf("invalid grpc_address: %w", err)
		}
	}
	if cfg.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("request_timeout_seconds cannot be negative")
	}
	return nil
}

func validateDatabase(cfg *DatabaseConfig) error {
	if !kv.ValidBackend(cfg.Backend) {
		return fmt.Errorf("unknown database backend: %s", cfg.Backend)
	}
	if cfg.Backend != kv.BackendMemory && cfg.Path == "" {
		return fmt.Errorf("database path is required for backend %s", cfg.Backend)
	}
	if _, err := compression.Get(cfg.Compression); err != nil {
		return fmt.Errorf("unknown compression: %s", cfg.Compression)
	}
	return nil
}

func validateArchive(cfg *ArchiveConfig) error {
	if !cfg.Enabled {
		return nil
	}
	switch cfg.Driver {
	case archive.DriverPostgres, archive.DriverSQLite:
	default:
		return fmt.Errorf("unknown archive driver: %s", cfg.Driver)
	}
	if cfg.DSN == "" {
		return fmt.Errorf("archive dsn is required when the archive is enabled")
	}
	return nil
}

func validateMarket(cfg *MarketConfig) error {
	if cfg.FeeBps > market.MaxFeeBps {
		return fmt.Errorf("fee_bps %d above maximum %d", cfg.FeeBps, market.MaxFeeBps)
	}
	if cfg.FeeBps > 0 && cfg.FeeRecipient == "" {
		return fmt.Errorf("fee_recipient is required when fee_bps is nonzero")
	}
	if cfg.NativeWrapper == "" {
		return fmt.Errorf("native_wrapper is required")
	}
	return nil
}
