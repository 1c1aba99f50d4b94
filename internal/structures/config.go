package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type RedditConfig struct {
	BaseURL           string        `yaml:"baseURL" validate:"required|fullUrl"`
	OAuthURL          string        `yaml:"oauthURL" validate:"required|fullUrl"`
	UserAgent         string        `yaml:"userAgent" validate:"required"`
	ClientID          string        `yaml:"clientID"`
	ClientSecret      string        `yaml:"clientSecret"`
	Limit             int           `yaml:"limit" validate:"required|uint|min:1"`
	RequestsPerMinute int           `yaml:"requestsPerMinute" validate:"required|uint|min:1"`
	Timeout           time.Duration `yaml:"timeout" validate:"required|min:1"`
}

type PersonaConfig struct {
	TopSubreddits int `yaml:"topSubreddits" validate:"required|uint|min:1"`
	TopKeywords   int `yaml:"topKeywords" validate:"required|uint|min:1"`
	TopHours      int `yaml:"topHours" validate:"required|uint|min:1"`
	SnippetLength int `yaml:"snippetLength" validate:"required|uint|min:1"`
}

type ArchiveConfig struct {
	FilePath      string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval  time.Duration `yaml:"saveInterval" validate:"required|min:1"`
	PruneInterval time.Duration `yaml:"pruneInterval" validate:"required|min:1"`
	TTL           time.Duration `yaml:"ttl" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	Reddit    RedditConfig  `yaml:"reddit"`
	Persona   PersonaConfig `yaml:"persona"`
	WebServer Server        `yaml:"webServer"`
	Archive   ArchiveConfig `yaml:"archive"`
	Logger    LoggerConfig  `yaml:"logger"`
	Cache     CacheConfig   `yaml:"cache"`
	Metrics   MetricsConfig `yaml:"metrics"`
}
