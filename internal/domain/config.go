package domain

import "time"

// CacheBackend selects the cache store implementation.
type CacheBackend string

const (
	CacheFile   CacheBackend = "file"
	CacheSQLite CacheBackend = "sqlite"
	CacheRedis  CacheBackend = "redis"
	CacheNone   CacheBackend = "none"
)

// Settings represents the engine settings loaded from apix.yaml and APIX_* variables.
type Settings struct {
	Cache  CacheSettings  `koanf:"cache"`
	HTTP   HTTPSettings   `koanf:"http"`
	Paths  PathsSettings  `koanf:"paths"`
	Log    LogSettings    `koanf:"log"`
	Dotenv DotenvSettings `koanf:"dotenv"`
}

type CacheSettings struct {
	Backend  CacheBackend  `koanf:"backend"`
	Dir      string        `koanf:"dir"`
	Compress bool          `koanf:"compress"`
	Redis    RedisSettings `koanf:"redis"`
}

type RedisSettings struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

type HTTPSettings struct {
	Timeout time.Duration `koanf:"timeout"`
}

type PathsSettings struct {
	// Global is the user-wide root (holds services/, cache/, logs/, apix.yaml).
	Global string `koanf:"global"`
	// Local is the project root; empty means "search upward from cwd".
	Local string `koanf:"local"`
}

type LogSettings struct {
	Debug bool   `koanf:"debug"`
	Dir   string `koanf:"dir"`
}

type DotenvSettings struct {
	Files []string `koanf:"files"`
}

// DefaultSettings provides sane defaults if apix.yaml is partially missing.
// Empty directories are derived from Paths.Global by the settings loader.
func DefaultSettings() Settings {
	return Settings{
		Cache: CacheSettings{
			Backend: CacheFile,
			Redis: RedisSettings{
				Addr: "localhost:6379",
			},
		},
		HTTP: HTTPSettings{
			Timeout: 30 * time.Second,
		},
		Dotenv: DotenvSettings{
			Files: []string{".env"},
		},
	}
}
