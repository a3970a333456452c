package am

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Ctags:     CtagsConfig{Executable: "ctags"},
		Discovery: DiscoveryConfig{Walker: WalkerFind, FindExecutable: "find"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	// Isolated viper instance without user/project config
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.Equal(t, "ctags", cfg.Ctags.Executable)
	assert.Empty(t, cfg.Ctags.MinVersion)
	assert.False(t, cfg.Discovery.Enabled)
	assert.Empty(t, cfg.Discovery.Suffixes)
	assert.Equal(t, WalkerFind, cfg.Discovery.Walker)
	assert.Equal(t, "find", cfg.Discovery.FindExecutable)
	assert.Equal(t, 0, cfg.Gather.TimeoutSeconds)
	assert.Equal(t, "everforest", cfg.Log.Theme)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	content := `[ctags]
executable = "/opt/uctags/bin/ctags"
min_version = ">= 5.9"

[discovery]
enabled = true
suffixes = [".py", ".pyi"]
walker = "glob"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "/opt/uctags/bin/ctags", cfg.Ctags.Executable)
	assert.Equal(t, ">= 5.9", cfg.Ctags.MinVersion)
	assert.True(t, cfg.Discovery.Enabled)
	assert.Equal(t, []string{".py", ".pyi"}, cfg.Discovery.Suffixes)
	assert.Equal(t, WalkerGlob, cfg.Discovery.Walker)
	// Untouched keys keep their defaults
	assert.Equal(t, "find", cfg.Discovery.FindExecutable)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{name: "empty executable is invalid", mutate: func(c *Config) { c.Ctags.Executable = "" }, wantErr: true},
		{name: "valid constraint", mutate: func(c *Config) { c.Ctags.MinVersion = ">= 6.0, < 7" }},
		{name: "garbage constraint", mutate: func(c *Config) { c.Ctags.MinVersion = "newest please" }, wantErr: true},
		{name: "glob walker", mutate: func(c *Config) { c.Discovery.Walker = WalkerGlob }},
		{name: "unknown walker", mutate: func(c *Config) { c.Discovery.Walker = "fd" }, wantErr: true},
		{name: "find walker needs a binary", mutate: func(c *Config) { c.Discovery.FindExecutable = "" }, wantErr: true},
		{name: "zero timeout is valid (disabled)", mutate: func(c *Config) { c.Gather.TimeoutSeconds = 0 }},
		{name: "negative timeout is invalid", mutate: func(c *Config) { c.Gather.TimeoutSeconds = -1 }, wantErr: true},
		{name: "negative verbosity is invalid", mutate: func(c *Config) { c.Log.Verbosity = -2 }, wantErr: true},
		{name: "rate limit", mutate: func(c *Config) { c.Server.MaxGathersPerMinute = 120 }},
		{name: "negative rate limit is invalid", mutate: func(c *Config) { c.Server.MaxGathersPerMinute = -5 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	content := `[ctags]
executible = "ctags"

[discovery]
walker = "glob"
recursive = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	unknown, err := UnknownKeys(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"ctags.executible", "discovery.recursive"}, unknown)
}

func TestUnknownKeys_Clean(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("[gather]\ntimeout_seconds = 5\n"), 0644))

	unknown, err := UnknownKeys(path)
	require.NoError(t, err)
	assert.Empty(t, unknown)
}

func TestFindProjectConfig_WalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "pkg")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte(""), 0644))

	assert.Equal(t, filepath.Join(root, ConfigFileName), findProjectConfig(nested))
}

func TestMergeConfigFiles_TracksSources(t *testing.T) {
	defer Reset()
	Reset()

	dir := t.TempDir()
	first := filepath.Join(dir, "first.toml")
	second := filepath.Join(dir, "second.toml")
	require.NoError(t, os.WriteFile(first, []byte("[ctags]\nexecutable = \"uctags\"\n[gather]\ntimeout_seconds = 3\n"), 0644))
	require.NoError(t, os.WriteFile(second, []byte("[gather]\ntimeout_seconds = 9\n"), 0644))

	v := viper.New()
	SetDefaults(v)
	mergeConfigFiles(v, []string{first, filepath.Join(dir, "missing.toml"), second})

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)
	assert.Equal(t, "uctags", cfg.Ctags.Executable)
	assert.Equal(t, 9, cfg.Gather.TimeoutSeconds, "later files override earlier ones")

	assert.Equal(t, first, ConfigSources["ctags.executable"].Path)
	assert.Equal(t, second, ConfigSources["gather.timeout_seconds"].Path)
	assert.Equal(t, SourceProject, ConfigSources["gather.timeout_seconds"].Source)
}

func TestFlattenSettingsWithSources(t *testing.T) {
	t.Setenv("QNTX_CTAGS_LOG_THEME", "gruvbox")

	settings := map[string]interface{}{
		"ctags": map[string]interface{}{"executable": "uctags"},
		"log":   map[string]interface{}{"theme": "gruvbox"},
	}
	sources := map[string]SourceInfo{
		"ctags.executable": {Source: SourceUser, Path: "/home/me/.qntx/ctags.toml"},
	}

	intro := &ConfigIntrospection{}
	flattenSettingsWithSources(settings, "", intro, sources)

	require.Len(t, intro.Settings, 2)
	assert.Equal(t, "ctags.executable", intro.Settings[0].Key)
	assert.Equal(t, SourceUser, intro.Settings[0].Source)
	assert.Equal(t, "log.theme", intro.Settings[1].Key)
	assert.Equal(t, SourceEnvironment, intro.Settings[1].Source)
	assert.Equal(t, "QNTX_CTAGS_LOG_THEME", intro.Settings[1].SourcePath)
}

func TestEnvVarName(t *testing.T) {
	assert.Equal(t, "QNTX_CTAGS_DISCOVERY_FIND_EXECUTABLE", EnvVarName("discovery.find_executable"))
}
