package config

import "github.com/spf13/viper"

// setDefaults sets every default value.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.rpc_address", "127.0.0.1:8080")
	v.SetDefault("server.grpc_address", "")
	v.SetDefault("server.admin_enabled", false)
	v.SetDefault("server.request_timeout_seconds", 30)

	// Database defaults
	v.SetDefault("database.backend", "pebble")
	v.SetDefault("database.path", "data")
	v.SetDefault("database.compression", "lz4")

	// Archive defaults
	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.driver", "sqlite")
	v.SetDefault("archive.dsn", "file:archive.db")

	// Market defaults
	v.SetDefault("market.operator", "")
	v.SetDefault("market.native_wrapper", "WNATIVE")
	v.SetDefault("market.grace_seconds", 3600)
	v.SetDefault("market.fee_recipient", "")
	v.SetDefault("market.fee_bps", 0)

	v.SetDefault("standalone", false)
}
