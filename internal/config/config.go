package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/margindefense/internal/analytics"
	"github.com/spf13/viper"
)

// Config is the top-level margindefense configuration.
type Config struct {
	DBPath     string               `mapstructure:"db_path"`
	WindowDays int                  `mapstructure:"window_days"`
	ShameLimit int                  `mapstructure:"shame_limit"`
	Log        Log                  `mapstructure:"log"`
	Output     Output               `mapstructure:"output"`
	Thresholds analytics.Thresholds `mapstructure:"thresholds"`
}

// Log controls service use-case logging.
type Log struct {
	Enabled bool   `mapstructure:"enabled"`
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// DefaultDBPath returns the expanded default ledger location.
func DefaultDBPath() string {
	return filepath.Join(expandPath(DefaultDataDir), DefaultDBName)
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db_path", DefaultDBPath())
	v.SetDefault("window_days", DefaultWindowDays)
	v.SetDefault("shame_limit", DefaultShameLimit)
	v.SetDefault("log.enabled", DefaultLog.Enabled)
	v.SetDefault("log.level", DefaultLog.Level)
	v.SetDefault("log.format", DefaultLog.Format)
	v.SetDefault("output.color", DefaultOutput.Color)

	th := analytics.DefaultThresholds()
	for _, d := range []struct {
		key string
		val any
	}{
		{"margin_critical_pct", th.MarginCriticalPct},
		{"margin_warning_pct", th.MarginWarningPct},
		{"margin_critical_risk", th.MarginCriticalRisk},
		{"margin_warning_risk", th.MarginWarningRisk},
		{"pending_many_count", th.PendingManyCount},
		{"pending_many_risk", th.PendingManyRisk},
		{"pending_some_risk", th.PendingSomeRisk},
		{"burn_over_revenue_risk", th.BurnOverRevenueRisk},
		{"retainer_utilization_pct", th.RetainerUtilizationPct},
		{"retainer_utilization_risk", th.RetainerUtilizationRisk},
		{"health_critical_score", th.HealthCriticalScore},
		{"health_warning_score", th.HealthWarningScore},
		{"health_good_score", th.HealthGoodScore},
		{"concerned_pending_count", th.ConcernedPendingCount},
		{"trend_improving_pct", th.TrendImprovingPct},
		{"trend_declining_pct", th.TrendDecliningPct},
		{"scope_alert_min_pending", th.ScopeAlertMinPending},
		{"scope_alert_critical_pending", th.ScopeAlertCriticalPending},
		{"burn_ratio_warning_pct", th.BurnRatioWarningPct},
		{"burn_ratio_critical_pct", th.BurnRatioCriticalPct},
		{"severity_low_below", th.SeverityLowBelow},
		{"severity_medium_below", th.SeverityMediumBelow},
		{"severity_high_below", th.SeverityHighBelow},
		{"ratio_trend_delta_pct", th.RatioTrendDeltaPct},
	} {
		v.SetDefault("thresholds."+d.key, d.val)
	}
}

// Load reads configuration from cfgFile, or config.yaml in the default
// directory, and returns a Config with defaults applied. A missing file is
// not an error.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		v.AddConfigPath(ConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	cfg.DBPath = expandPath(cfg.DBPath)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the analytics layer cannot work with.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("config: db_path must not be empty")
	}
	if c.WindowDays <= 0 {
		return fmt.Errorf("config: window_days must be positive, got %d", c.WindowDays)
	}
	if c.ShameLimit <= 0 {
		return fmt.Errorf("config: shame_limit must be positive, got %d", c.ShameLimit)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("config: log.format must be text or json, got %q", c.Log.Format)
	}
	if err := c.Thresholds.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
