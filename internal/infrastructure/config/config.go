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
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	// Server
	ServerPort string

	// CORS
	DashboardOrigin string // 管理后台前端地址

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT / 会话
	JWTSecretKey      string
	SessionTTL        time.Duration // 会话有效期
	SessionCookieName string

	// 升级授权（PIN -> OTP -> 一次性令牌）
	AuthPinDefault   string        // 首次启动时写入的授权PIN，仅在库中无记录时生效
	AuthorizedEmail  string        // OTP 固定投递邮箱，不接受请求方指定
	OTPTTL           time.Duration // OTP 有效期
	OTPMaxAttempts   int           // OTP 最大尝试次数
	StepUpTokenTTL   time.Duration // 一次性创建令牌有效期
	PinMaxFailures   int           // PIN 错误次数上限
	PinLockoutWindow time.Duration // PIN 锁定冷却时间
	StepUpSessionTTL time.Duration // 升级授权会话整体存活时间

	// 通知网关 (MQTT)
	MQTTBrokerURL string // MQTT服务器地址，如 tcp://broker.example.com:1883
	MQTTClientID  string // MQTT客户端ID
	MQTTUsername  string // MQTT用户名
	MQTTPassword  string // MQTT密码
	MQTTQoS       int    // 服务质量 (0, 1, 2)

	// 默认超级管理员
	DefaultAdminEmail    string
	DefaultAdminPassword string
}

// LoadConfig loads config from environment variables based on ENV_TYPE
func LoadConfig() *Config {
	// Get environment type (default to LOCAL if not set)
	envType := getEnv("ENV_TYPE", "LOCAL")
	prefix := ""

	// Set prefix based on environment type
	if strings.ToUpper(envType) == "LOCAL" {
		prefix = "LOCAL_"
	} else if strings.ToUpper(envType) == "SERVER" {
		prefix = "SERVER_"
	} else {
		fmt.Printf("Warning: Unknown ENV_TYPE '%s', defaulting to LOCAL environment\n", envType)
		prefix = "LOCAL_"
		envType = "LOCAL"
	}

	fmt.Printf("Loading configuration for environment: %s\n", envType)

	return &Config{
		// Environment type
		EnvType: envType,

		// Database config - use environment-specific variables if available
		DBHost:     getEnvRequired(prefix + "DB_HOST"),
		DBUser:     getEnvRequired(prefix + "DB_USER"),
		DBPassword: getEnvRequired(prefix + "DB_PASSWORD"),
		DBName:     getEnvRequired(prefix + "DB_NAME"),
		DBPort:     getEnvRequired(prefix + "DB_PORT"),

		// Server config
		ServerPort: getEnv(prefix+"SERVER_PORT", getEnv("SERVER_PORT", "8080")),

		// CORS config
		DashboardOrigin: getEnv("DASHBOARD_ORIGIN", "http://localhost:5173"),

		// Redis config
		RedisHost:     getEnv(prefix+"REDIS_HOST", getEnv("REDIS_HOST", "localhost")),
		RedisPort:     getEnv(prefix+"REDIS_PORT", getEnv("REDIS_PORT", "6379")),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// JWT / 会话配置
		JWTSecretKey:      getEnv("JWT_SECRET_KEY", "grojet-secret-key-change-in-production"),
		SessionTTL:        time.Duration(getEnvAsInt("SESSION_TTL_HOURS", 24)) * time.Hour,
		SessionCookieName: getEnv("SESSION_COOKIE_NAME", "admin_session"),

		// 升级授权配置
		AuthPinDefault:   getEnvRequired("AUTH_PIN_DEFAULT"),
		AuthorizedEmail:  getEnvRequired("AUTHORIZED_EMAIL"),
		OTPTTL:           time.Duration(getEnvAsInt("OTP_TTL_MINUTES", 5)) * time.Minute,
		OTPMaxAttempts:   getEnvAsInt("OTP_MAX_ATTEMPTS", 5),
		StepUpTokenTTL:   time.Duration(getEnvAsInt("STEPUP_TOKEN_TTL_MINUTES", 30)) * time.Minute,
		PinMaxFailures:   getEnvAsInt("PIN_MAX_FAILURES", 5),
		PinLockoutWindow: time.Duration(getEnvAsInt("PIN_LOCKOUT_MINUTES", 15)) * time.Minute,
		StepUpSessionTTL: time.Duration(getEnvAsInt("STEPUP_SESSION_TTL_MINUTES", 60)) * time.Minute,

		// 通知网关配置
		MQTTBrokerURL: getEnv("MQTT_BROKER_URL", ""),
		MQTTClientID:  getEnv("MQTT_CLIENT_ID", "grojet_admin_server"),
		MQTTUsername:  getEnv("MQTT_USERNAME", ""),
		MQTTPassword:  getEnv("MQTT_PASSWORD", ""),
		MQTTQoS:       getEnvAsInt("MQTT_QOS", 1),

		// 默认超级管理员配置
		DefaultAdminEmail:    getEnv("DEFAULT_ADMIN_EMAIL", "admin@grojet.com"),
		DefaultAdminPassword: getEnvRequired("DEFAULT_ADMIN_PASSWORD"),
	}
}

// GetConfig returns the application configuration as a singleton
func GetConfig() *Config {
	configOnce.Do(func() {
		config = LoadConfig()
	})
	return config
}

// GetDSN returns the database connection string
func (c *Config) GetDSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?charset=utf8mb4&parseTime=True&loc=Local&allowNativePasswords=true&multiStatements=true"
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
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

// 要求必须提供环境变量的辅助函数
func getEnvRequired(key string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	panic(fmt.Sprintf("Required environment variable %s is not set", key))
}
