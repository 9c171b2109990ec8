package config

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = ".intentlang.yml"

// DefaultExcludes are glob patterns excluded from language folders by default.
var DefaultExcludes = []string{
	"**/*.bak.yaml",
	"**/*.draft.yaml",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Agent:          "agent.yml",
		LanguageDir:    "language",
		Include:        []string{"**/*.yaml"},
		Exclude:        DefaultExcludes,
		Database:       ".intentlang/catalog.db",
		MaxConcurrency: 4,
		LogLevel:       "info",
		Server: ServerConfig{
			Port:            8080,
			AllowAllOrigins: false,
		},
	}
}
