package am

import "github.com/spf13/viper"

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("ctags.executable", "ctags")
	v.SetDefault("ctags.min_version", "")

	v.SetDefault("discovery.enabled", false)
	v.SetDefault("discovery.suffixes", []string{})
	v.SetDefault("discovery.walker", WalkerFind)
	v.SetDefault("discovery.find_executable", "find")

	v.SetDefault("gather.timeout_seconds", 0) // Hung ctags hangs the request unless set
	v.SetDefault("gather.echo_progress", false)

	v.SetDefault("server.listen", "")
	v.SetDefault("server.max_gathers_per_minute", 0)

	v.SetDefault("log.json", false)
	v.SetDefault("log.theme", "everforest")
	v.SetDefault("log.verbosity", 0)
}
