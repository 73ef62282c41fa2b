package config

import "os"

type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Token    TokenConfig
	Hash     HashConfig
	Media    MediaConfig
}

type AppConfig struct {
	ListenAddr     string
	AllowedOrigins string
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

type TokenConfig struct {
	AccessTTL         string
	RefreshTTL        string
	PrivateKeyPath    string
	PublicKeyPath     string
	RefreshCookieName string
	CookiePath        string
	CookieDomain      string
	CookieSecure      string
	CookieSameSite    string
}

type HashConfig struct {
	Cost string
}

type MediaConfig struct {
	Root      string
	ChunkSize string
}

func Load() Config {
	return Config{
		App: AppConfig{
			ListenAddr:     getenv("LISTEN_ADDR", ":8080"),
			AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
		Token: TokenConfig{
			AccessTTL:         getenv("TOKEN_ACCESS_TTL", "15m"),
			RefreshTTL:        getenv("TOKEN_REFRESH_TTL", "720h"),
			PrivateKeyPath:    getenv("TOKEN_PRIVATE_KEY_PATH", "certs/jwt-private.pem"),
			PublicKeyPath:     getenv("TOKEN_PUBLIC_KEY_PATH", "certs/jwt-public.pem"),
			RefreshCookieName: getenv("TOKEN_REFRESH_COOKIE", "vidstream_refresh"),
			CookiePath:        getenv("TOKEN_COOKIE_PATH", "/"),
			CookieDomain:      os.Getenv("TOKEN_COOKIE_DOMAIN"),
			CookieSecure:      os.Getenv("TOKEN_COOKIE_SECURE"),
			CookieSameSite:    os.Getenv("TOKEN_COOKIE_SAMESITE"),
		},
		Hash: HashConfig{
			Cost: os.Getenv("HASH_COST"),
		},
		Media: MediaConfig{
			Root:      getenv("MEDIA_ROOT", "media"),
			ChunkSize: os.Getenv("MEDIA_CHUNK_SIZE"),
		},
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
