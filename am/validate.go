package am

import (
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"

	"github.com/teranos/qntx-ctags/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Ctags.Executable == "" {
		return errors.New("ctags.executable cannot be empty (omit for default \"ctags\")")
	}

	if c.Ctags.MinVersion != "" {
		if _, err := semver.NewConstraint(c.Ctags.MinVersion); err != nil {
			return errors.Wrapf(err, "ctags.min_version %q is not a valid version constraint", c.Ctags.MinVersion)
		}
	}

	switch c.Discovery.Walker {
	case WalkerFind, WalkerGlob:
	default:
		return errors.Newf("discovery.walker must be %q or %q, got %q", WalkerFind, WalkerGlob, c.Discovery.Walker)
	}

	if c.Discovery.Walker == WalkerFind && c.Discovery.FindExecutable == "" {
		return errors.New("discovery.find_executable cannot be empty when discovery.walker = \"find\"")
	}

	// 0 = no timeout, negative = invalid
	if c.Gather.TimeoutSeconds < 0 {
		return errors.Newf("gather.timeout_seconds must be >= 0, got %d", c.Gather.TimeoutSeconds)
	}

	if c.Server.MaxGathersPerMinute < 0 {
		return errors.Newf("server.max_gathers_per_minute must be >= 0, got %d", c.Server.MaxGathersPerMinute)
	}

	if c.Log.Verbosity < 0 {
		return errors.Newf("log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}

	return nil
}

// UnknownKeys decodes a TOML file strictly against Config and returns the keys
// that do not map onto any field (typos such as "executible").
func UnknownKeys(configPath string) ([]string, error) {
	var cfg Config
	meta, err := toml.DecodeFile(configPath, &cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", configPath)
	}

	var unknown []string
	for _, key := range meta.Undecoded() {
		unknown = append(unknown, key.String())
	}
	sort.Strings(unknown)
	return unknown, nil
}
