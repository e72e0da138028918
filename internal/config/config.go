package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	pipeerrors "github.com/petra-ci/pipecheck/internal/errors"
	"github.com/petra-ci/pipecheck/internal/yamlutil"
)

// DefaultConfigFile is the config path used when --config is not given.
const DefaultConfigFile = "pipecheck.yml"

// envPrefix is the prefix for environment variable overrides, e.g.
// PIPECHECK_VERIFICATION_LEVEL=detailed.
const envPrefix = "PIPECHECK_"

// Load loads configuration from defaults, the given config file, and
// environment overrides, then validates the result.
// An empty path falls back to DefaultConfigFile when that file exists.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	for key, value := range GetDefaults() {
		k.Set(key, value)
	}

	if err := loadFile(k, path); err != nil {
		return nil, err
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, pipeerrors.WrapWithMessage(err, pipeerrors.Configuration,
			"loading environment overrides")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, pipeerrors.WrapWithMessage(err, pipeerrors.Configuration,
			"unmarshaling configuration")
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadFile loads the config file, validating YAML syntax first so parse
// failures carry line information. JSON files are accepted by extension.
func loadFile(k *koanf.Koanf, path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	if !yamlutil.FileExists(path) {
		if explicit {
			return pipeerrors.NewConfigError(
				fmt.Sprintf("config file not found: %s", path),
				"check the --config path",
				"run 'pipecheck config init' to generate a template")
		}
		// No default config file: defaults + env only.
		return nil
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return pipeerrors.WrapWithMessage(err, pipeerrors.Configuration,
				fmt.Sprintf("loading config %s", path))
		}
		return nil
	}

	if err := yamlutil.ValidateFile(path); err != nil {
		return pipeerrors.WrapWithMessage(err, pipeerrors.Configuration,
			"validating config syntax",
			"fix the YAML syntax error reported above")
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return pipeerrors.WrapWithMessage(err, pipeerrors.Configuration,
			fmt.Sprintf("loading config %s", path))
	}
	return nil
}

// envTransform converts environment variable names to config keys.
// Example: PIPECHECK_VERIFICATION_LEVEL -> verification.level.
// Only top-level section prefixes are mapped; deeper keys keep underscores.
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	for _, section := range []string{
		"global_settings", "log_parsing", "registry_verifier",
		"state_tracking", "report_generator", "verification",
	} {
		if strings.HasPrefix(key, section+"_") {
			return section + "." + strings.TrimPrefix(key, section+"_")
		}
	}
	return key
}
