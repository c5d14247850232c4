package database

// Config holds configuration for the embedded store.
type Config struct {
	// Dir is the directory where per-athlete store files are created.
	Dir string `mapstructure:"dir" default:"."`
}
