package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Language           string
	DataDir            string
	NormalizeQuality   bool
	ClusterJewelRanges bool
	SettingsFile       string
	WorkerCount        int
	DatabaseURL        string
	CacheExpiration    string
	Neo4jURI           string
	Neo4jUser          string
	Neo4jPassword      string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		Language:           getEnv("POE_LANGUAGE", "english"),
		DataDir:            getEnv("POE_DATA_DIR", ""),
		NormalizeQuality:   getEnvBool("POE_NORMALIZE_QUALITY", true),
		ClusterJewelRanges: getEnvBool("POE_CLUSTER_JEWEL_RANGES", true),
		SettingsFile:       getEnv("POE_SETTINGS_FILE", "settings.yaml"),
		WorkerCount:        getEnvInt("WORKER_COUNT", 8),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		CacheExpiration:    getEnv("CACHE_EXPIRATION", "five-min"),
		Neo4jURI:           getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:          getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:      getEnv("NEO4J_PASSWORD", "password"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("Invalid boolean, using default")
		return fallback
	}
	return b
}
