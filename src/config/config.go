package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds every runtime option of the pipeline. Database coordinates
// come in two sets: the staging store (normalized trades) and the downstream
// operational store (summaries and chains).
type AppConfig struct {
	LogLevel string

	StagingHost     string
	StagingPort     int
	StagingUser     string
	StagingPassword string
	StagingDB       string

	DownstreamHost     string
	DownstreamPort     int
	DownstreamUser     string
	DownstreamPassword string
	DownstreamDB       string

	// InputPaths lists the vendor workbooks ingested by parsern, in order.
	InputPaths []string
}

var Cfg *AppConfig

func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading pipeline configuration...")

	Cfg = &AppConfig{
		LogLevel: getEnv("LOG_LEVEL", "info"),

		StagingHost:     getEnv("STAGING_HOST", "localhost"),
		StagingPort:     getEnvAsInt("STAGING_PORT", 5432),
		StagingUser:     getEnv("STAGING_USER", "tradellama"),
		StagingPassword: getEnv("STAGING_PASSWORD", ""),
		StagingDB:       getEnv("STAGING_DB", "staging"),

		DownstreamHost:     getEnv("DOWNSTREAM_HOST", "localhost"),
		DownstreamPort:     getEnvAsInt("DOWNSTREAM_PORT", 5432),
		DownstreamUser:     getEnv("DOWNSTREAM_USER", "tradellama"),
		DownstreamPassword: getEnv("DOWNSTREAM_PASSWORD", ""),
		DownstreamDB:       getEnv("DOWNSTREAM_DB", "downstream"),

		InputPaths: splitPaths(getEnv("INPUT_PATHS", "/tmp/2019-09.xlsx,/tmp/2019-10.xlsx,/tmp/2019-11.xlsx")),
	}

	log.Printf("Configuration loaded: LogLevel=%s, StagingDB=%s@%s:%d, DownstreamDB=%s@%s:%d, InputFiles=%d",
		Cfg.LogLevel, Cfg.StagingDB, Cfg.StagingHost, Cfg.StagingPort,
		Cfg.DownstreamDB, Cfg.DownstreamHost, Cfg.DownstreamPort, len(Cfg.InputPaths))
}

// StagingDSN renders the staging store connection string in keyword form.
func (c *AppConfig) StagingDSN() string {
	return dsn(c.StagingHost, c.StagingPort, c.StagingUser, c.StagingPassword, c.StagingDB)
}

// DownstreamDSN renders the downstream store connection string.
func (c *AppConfig) DownstreamDSN() string {
	return dsn(c.DownstreamHost, c.DownstreamPort, c.DownstreamUser, c.DownstreamPassword, c.DownstreamDB)
}

func dsn(host string, port int, user, password, db string) string {
	parts := []string{
		fmt.Sprintf("host=%s", host),
		fmt.Sprintf("port=%d", port),
		fmt.Sprintf("user=%s", user),
	}
	if password != "" {
		parts = append(parts, fmt.Sprintf("password=%s", password))
	}
	parts = append(parts, fmt.Sprintf("dbname=%s", db), "sslmode=disable")
	return strings.Join(parts, " ")
}

func splitPaths(raw string) []string {
	var paths []string
	for _, p := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			paths = append(paths, trimmed)
		}
	}
	return paths
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Integer value for %s not set or empty, using default: %d", key, fallback)
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}
