package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	config     *Config
	configOnce sync.Once
)

// Config stores all configuration of the application
type Config struct {
	// Environment type
	EnvType string

	// Database
	DBDriver        string // mysql, postgres, sqlite
	DBHost          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBPort          string
	DBMigrationMode string // 数据库迁移模式: "auto"(默认), "drop"(删除重建)

	// Server
	ServerPort         string
	CORSAllowedOrigins []string

	// Redis
	RedisEnabled  bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	StatsCacheTTL time.Duration // 仪表盘统计缓存时长

	// Dashboard
	StatsTimezone string // 按日统计所使用的时区

	// MQTT配置
	MQTTEnabled     bool
	MQTTBrokerURL   string // MQTT服务器地址，如 tcp://broker.example.com:1883
	MQTTClientID    string // MQTT客户端ID
	MQTTUsername    string // MQTT用户名
	MQTTPassword    string // MQTT密码
	MQTTQoS         int    // 服务质量 (0, 1, 2)
	MQTTTopicPrefix string // 通话事件主题前缀

	// JWT Authentication
	JWTSecretKey       string
	JWTExpirationHours int

	// Bootstrap
	DefaultSupervisorEmail    string
	DefaultSupervisorPassword string
	SeedDemoData              bool

	// Logging
	LogLevel string
	LogDir   string
}

// LoadConfig loads config from environment variables based on ENV_TYPE
func LoadConfig() *Config {
	// Get environment type (default to LOCAL if not set)
	envType := strings.ToUpper(getEnv("ENV_TYPE", "LOCAL"))
	prefix := ""

	// Set prefix based on environment type
	switch envType {
	case "LOCAL":
		prefix = "LOCAL_"
	case "SERVER":
		prefix = "SERVER_"
	default:
		fmt.Printf("Warning: Unknown ENV_TYPE '%s', defaulting to LOCAL environment\n", envType)
		prefix = "LOCAL_"
		envType = "LOCAL"
	}

	// 优先读取带环境前缀的变量，其次读取通用变量
	env := func(key, defaultValue string) string {
		return getEnv(prefix+key, getEnv(key, defaultValue))
	}

	return &Config{
		// Environment type
		EnvType: envType,

		// Database config - use environment-specific variables if available
		DBDriver:        strings.ToLower(env("DB_DRIVER", "mysql")),
		DBHost:          env("DB_HOST", "localhost"),
		DBUser:          env("DB_USER", "root"),
		DBPassword:      env("DB_PASSWORD", ""),
		DBName:          env("DB_NAME", "konecta_calls"),
		DBPort:          env("DB_PORT", "3306"),
		DBMigrationMode: env("DB_MIGRATION_MODE", "auto"),

		// Server config
		ServerPort:         env("SERVER_PORT", "8080"),
		CORSAllowedOrigins: splitList(env("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),

		// Redis config
		RedisEnabled:  getEnvAsBool(prefix+"REDIS_ENABLED", getEnvAsBool("REDIS_ENABLED", true)),
		RedisHost:     env("REDIS_HOST", "localhost"),
		RedisPort:     env("REDIS_PORT", "6379"),
		RedisPassword: env("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		StatsCacheTTL: getEnvAsDuration("STATS_CACHE_TTL", 30*time.Second),

		StatsTimezone: getEnv("STATS_TIMEZONE", "UTC"),

		// MQTT配置
		MQTTEnabled:     getEnvAsBool("MQTT_ENABLED", false),
		MQTTBrokerURL:   getEnv("MQTT_BROKER_URL", "tcp://localhost:1883"),
		MQTTClientID:    getEnv("MQTT_CLIENT_ID", "konecta_server"),
		MQTTUsername:    getEnv("MQTT_USERNAME", ""),
		MQTTPassword:    getEnv("MQTT_PASSWORD", ""),
		MQTTQoS:         getEnvAsInt("MQTT_QOS", 1),
		MQTTTopicPrefix: getEnv("MQTT_TOPIC_PREFIX", "konecta"),

		// JWT Config
		JWTSecretKey:       getEnv("JWT_SECRET_KEY", "konecta-secret-key-change-in-production"),
		JWTExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),

		// Bootstrap Config
		DefaultSupervisorEmail:    getEnv("DEFAULT_SUPERVISOR_EMAIL", "supervisor@demo.com"),
		DefaultSupervisorPassword: getEnv("DEFAULT_SUPERVISOR_PASSWORD", "password123"),
		SeedDemoData:              getEnvAsBool("SEED_DEMO_DATA", false),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogDir:   getEnv("LOG_DIR", "logs"),
	}
}

// GetConfig returns the application configuration as a singleton
func GetConfig() *Config {
	configOnce.Do(func() {
		config = LoadConfig()
	})
	return config
}

// GetDSN returns the database connection string for the configured driver
func (c *Config) GetDSN() string {
	switch c.DBDriver {
	case "postgres":
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
	case "sqlite":
		// sqlite 使用 DB_NAME 作为文件路径
		return c.DBName
	default:
		return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?charset=utf8mb4&parseTime=True&loc=UTC"
	}
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// GetStatsLocation 返回按日统计使用的时区，非法配置回退为UTC
func (c *Config) GetStatsLocation() *time.Location {
	loc, err := time.LoadLocation(c.StatsTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GetJWTExpiration 返回令牌有效期
func (c *Config) GetJWTExpiration() time.Duration {
	if c.JWTExpirationHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.JWTExpirationHours) * time.Hour
}

// Helper function to get environment variable with default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variable as integer with default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variable as boolean with default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variable as duration with default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// splitList 解析逗号分隔的列表
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
