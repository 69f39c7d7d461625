// Package config provides configuration management for camkit.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Log: logging level, format and dedup window
//   - TweakDB: tunable store backend (memory, sqlite, mysql)
//   - Presets: preset hierarchy root, extension and baseline threshold
//   - Camera: combat bias tuning
//   - Session: initial enable state and options file
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
