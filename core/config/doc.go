// Package config provides configuration management for strava-gear.
//
// It utilizes Viper for loading configuration from environment variables,
// with an optional .env file overlay for local development.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings,
// divided into subsections:
//   - Strava: remote API access token, base URL, page size
//   - Database: directory holding the per-athlete store files
//   - Log: logging level and format
//   - Gear: path to the gear rules text file
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Gear.RulesPath)
package config
