package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/tefas"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Data     DataConfig
	Refresh  RefreshConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// DataConfig selects where funds, histories and transactions are read from.
type DataConfig struct {
	UseMockData bool
	MockDataDir string
	PortfolioID int64
}

// RefreshConfig holds the TEFAS refresh configuration.
// An empty Cron disables the scheduled refresh. With SyncFundList set, every refresh
// first adds the funds listed at FundListURL and in ExtraFundsFile to the directory.
type RefreshConfig struct {
	TefasBaseURL   string
	Cron           string
	SyncFundList   bool
	FundListURL    string
	ExtraFundsFile string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	useMock, err := strconv.ParseBool(getEnv("USE_MOCK_DATA", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid USE_MOCK_DATA: %w", err)
	}

	syncFundList, err := strconv.ParseBool(getEnv("SYNC_FUND_LIST", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid SYNC_FUND_LIST: %w", err)
	}

	portfolioID, err := strconv.ParseInt(getEnv("PORTFOLIO_ID", "1"), 10, 64)
	if err != nil || portfolioID <= 0 {
		return nil, fmt.Errorf("invalid PORTFOLIO_ID: must be a positive integer")
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/funds.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
		Data: DataConfig{
			UseMockData: useMock,
			MockDataDir: getEnv("MOCK_DATA_DIR", "./public"),
			PortfolioID: portfolioID,
		},
		Refresh: RefreshConfig{
			TefasBaseURL:   getEnv("TEFAS_BASE_URL", tefas.DefaultBaseURL),
			Cron:           os.Getenv("PRICE_REFRESH_CRON"),
			SyncFundList:   syncFundList,
			FundListURL:    getEnv("FUND_LIST_URL", tefas.DefaultFundListURL),
			ExtraFundsFile: getEnv("EXTRA_FUNDS_FILE", "./extra_funds_for_fund_list.json"),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// splitList splits a comma separated value, dropping empty entries.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
