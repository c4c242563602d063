package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	SMTP       SMTPConfig
	Attendance AttendanceConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// AttendanceConfig seeds the system_settings row on first start. Runtime
// changes go through the settings endpoint, not the environment.
type AttendanceConfig struct {
	Timezone            string
	OfficeStartTime     string
	OfficeEndTime       string
	RequiredShiftHours  float64
	BreakThresholdHours float64
	BreakDeductionHours float64
	GraceMinutes        int
	EnableAutoClockout  bool
	SweepInterval       string // parsed as time.Duration

	EnableWeeklyReports       bool
	WeeklyReportDay           int // 0=Sunday .. 6=Saturday
	WeeklyReportHour          int // local hour, 24h clock
	EnableEarlyClockoutAlerts bool

	// TILBlockNegativeBalance makes approval of a USED request fail when it
	// would push the employee's balance below zero.
	TILBlockNegativeBalance bool
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	dbMaxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil || dbMaxConns < 1 {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %v", getEnv("DB_MAX_CONNS", "25"))
	}
	dbMinConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil || dbMinConns < 0 {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %v", getEnv("DB_MIN_CONNS", "5"))
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "cinetrack-attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(dbMaxConns),
		MinConns: int32(dbMinConns),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "8h"),
	}

	// SMTP configuration
	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	config.SMTP = SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     smtpPort,
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", "no-reply@cinetrack.example"),
		FromName: getEnv("SMTP_FROM_NAME", "Attendance System"),
	}

	// Attendance policy defaults
	requiredHours, err := strconv.ParseFloat(getEnv("REQUIRED_SHIFT_HOURS", "8.0"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid REQUIRED_SHIFT_HOURS: %w", err)
	}
	breakThreshold, err := strconv.ParseFloat(getEnv("BREAK_THRESHOLD_HOURS", "5.0"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid BREAK_THRESHOLD_HOURS: %w", err)
	}
	breakDeduction, err := strconv.ParseFloat(getEnv("BREAK_DEDUCTION_HOURS", "0.5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid BREAK_DEDUCTION_HOURS: %w", err)
	}
	graceMinutes, err := strconv.Atoi(getEnv("CLOCK_GRACE_MINUTES", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid CLOCK_GRACE_MINUTES: %w", err)
	}
	weeklyDay, err := strconv.Atoi(getEnv("WEEKLY_REPORT_DAY", "5"))
	if err != nil || weeklyDay < 0 || weeklyDay > 6 {
		return nil, fmt.Errorf("invalid WEEKLY_REPORT_DAY: %v", getEnv("WEEKLY_REPORT_DAY", "5"))
	}
	weeklyHour, err := strconv.Atoi(getEnv("WEEKLY_REPORT_HOUR", "17"))
	if err != nil || weeklyHour < 0 || weeklyHour > 23 {
		return nil, fmt.Errorf("invalid WEEKLY_REPORT_HOUR: %v", getEnv("WEEKLY_REPORT_HOUR", "17"))
	}

	config.Attendance = AttendanceConfig{
		Timezone:            getEnv("BUSINESS_TIMEZONE", "Australia/Sydney"),
		OfficeStartTime:     getEnv("OFFICE_START_TIME", "07:00"),
		OfficeEndTime:       getEnv("OFFICE_END_TIME", "17:00"),
		RequiredShiftHours:  requiredHours,
		BreakThresholdHours: breakThreshold,
		BreakDeductionHours: breakDeduction,
		GraceMinutes:        graceMinutes,
		EnableAutoClockout:  getEnv("ENABLE_AUTO_CLOCKOUT", "true") == "true",
		SweepInterval:       getEnv("AUTO_CLOCKOUT_INTERVAL", "10m"),

		EnableWeeklyReports:       getEnv("ENABLE_WEEKLY_REPORTS", "false") == "true",
		WeeklyReportDay:           weeklyDay,
		WeeklyReportHour:          weeklyHour,
		EnableEarlyClockoutAlerts: getEnv("ENABLE_EARLY_CLOCKOUT_ALERTS", "false") == "true",

		TILBlockNegativeBalance: getEnv("TIL_BLOCK_NEGATIVE_BALANCE", "false") == "true",
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
