package config

// Config is the top-level intentlang configuration, corresponding to
// .intentlang.yml.
type Config struct {
	Agent          string       `yaml:"agent" koanf:"agent"`
	LanguageDir    string       `yaml:"language_dir" koanf:"language_dir"`
	Languages      []string     `yaml:"languages,omitempty" koanf:"languages"`
	Include        []string     `yaml:"include" koanf:"include"`
	Exclude        []string     `yaml:"exclude" koanf:"exclude"`
	Database       string       `yaml:"database" koanf:"database"`
	MaxConcurrency int          `yaml:"max_concurrency" koanf:"max_concurrency"`
	LogLevel       string       `yaml:"log_level" koanf:"log_level"`
	Server         ServerConfig `yaml:"server" koanf:"server"`
}

// ServerConfig holds settings of the HTTP API.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}
