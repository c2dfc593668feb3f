// Package config loads margindefense settings from defaults, an optional
// YAML file and MARGINDEFENSE_* environment variables.
package config

// DefaultConfigDir holds config.yaml.
const DefaultConfigDir = "~/.config/margindefense"

// DefaultDataDir holds the ledger database.
const DefaultDataDir = "~/.margindefense"

// DefaultDBName is the filename for the SQLite ledger.
const DefaultDBName = "margindefense.db"

// EnvPrefix namespaces environment overrides, e.g. MARGINDEFENSE_DB_PATH.
const EnvPrefix = "MARGINDEFENSE"

// DefaultWindowDays is the rolling window used by period metrics.
const DefaultWindowDays = 7

// DefaultShameLimit caps the hall of shame.
const DefaultShameLimit = 5

// DefaultLog keeps use-case logging off unless asked for.
var DefaultLog = Log{
	Enabled: false,
	Level:   "info",
	Format:  "text",
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
}
