package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

const dateLayout = "2006-01-02"

// GlobalFlags are the persistent flags main needs before the command tree
// exists: they decide which config and database the services are built on.
type GlobalFlags struct {
	ConfigFile string
	DBPath     string
	Verbose    bool
	NoColor    bool
}

func (g *GlobalFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&g.ConfigFile, "config", "", "Config file (default ~/.config/margindefense/config.yaml)")
	fs.StringVar(&g.DBPath, "db", "", "Ledger database path (overrides db_path)")
	fs.BoolVarP(&g.Verbose, "verbose", "v", false, "Log use-case events to stderr")
	fs.BoolVar(&g.NoColor, "no-color", false, "Disable colored output")
}

// ParseGlobalFlags pre-parses args for the global flags only. Unknown flags
// and positional arguments are left for cobra.
func ParseGlobalFlags(args []string) (GlobalFlags, error) {
	var g GlobalFlags
	fs := pflag.NewFlagSet("margindefense", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	g.register(fs)
	fs.BoolP("help", "h", false, "")

	if err := fs.Parse(args); err != nil && !errors.Is(err, pflag.ErrHelp) {
		return g, err
	}
	return g, nil
}

// addDaysFlag registers the rolling-window flag shared by the report commands.
func addDaysFlag(fs *pflag.FlagSet, days *int, def int) {
	fs.IntVarP(days, "days", "d", def, "Rolling window in days")
}

func addLimitFlag(fs *pflag.FlagSet, limit *int, def int) {
	fs.IntVarP(limit, "limit", "n", def, "Maximum number of entries")
}

// optionalFloat returns a pointer to v only when the flag was set.
func optionalFloat(fs *pflag.FlagSet, name string, v float64) *float64 {
	if !fs.Changed(name) {
		return nil
	}
	return &v
}

func optionalString(fs *pflag.FlagSet, name string, v string) *string {
	if !fs.Changed(name) {
		return nil
	}
	return &v
}

// parseDate reads a YYYY-MM-DD flag as midnight UTC. Empty input yields nil.
func parseDate(flag, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s date %q (want YYYY-MM-DD)", flag, value)
	}
	return &t, nil
}
