package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/arthur-debert/savesvc/pkg/errors"
	"github.com/arthur-debert/savesvc/pkg/paths"
)

// Settings is the resolved service configuration.
type Settings struct {
	// Output is the final configuration file path.
	Output string `koanf:"output"`

	// Trigger is the trigger variable name.
	Trigger string `koanf:"trigger"`

	// Verbose is the logging verbosity count.
	Verbose int `koanf:"verbose"`
}

// envPrefix namespaces the environment variable overrides,
// e.g. SAVESVC_OUTPUT and SAVESVC_TRIGGER.
const envPrefix = "SAVESVC_"

// Load resolves the service settings by layering, lowest to highest
// priority: built-in defaults, a settings file (explicit path or the
// first hit in paths.ConfigSearchPaths), SAVESVC_* environment
// variables, and explicitly set CLI flags.
func Load(cfgFile string, flags *pflag.FlagSet) (*Settings, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"output":  paths.DefaultOutputFile,
		"trigger": paths.DefaultTriggerVar,
		"verbose": 0,
	}, "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. Settings file, if one exists
	configFileUsed := findConfigFile(cfgFile)
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), parserFor(configFileUsed)); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "error reading config file %s", configFileUsed)
		}
	}

	// 3. Environment variables: SAVESVC_OUTPUT -> output
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Flags that were explicitly set (highest priority)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			// The --config flag selects the file above; it is not a setting.
			if f.Name == "config" {
				return "", nil
			}
			return f.Name, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load flags")
		}
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "unable to decode settings")
	}

	// An explicitly emptied trigger variable is a startup error; the
	// service must not enter the wait loop without one.
	if s.Trigger == "" {
		return nil, errors.New(errors.ErrConfigLoad, "no trigger variable specified")
	}
	if s.Output == "" {
		return nil, errors.New(errors.ErrConfigLoad, "no output file specified")
	}

	return &s, nil
}

// findConfigFile picks the settings file: an explicit path wins,
// otherwise the first existing search path. Empty means no file.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, candidate := range paths.ConfigSearchPaths() {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// parserFor selects the koanf parser from the file extension.
// TOML is the default; .yaml/.yml get the YAML parser.
func parserFor(path string) koanf.Parser {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}
