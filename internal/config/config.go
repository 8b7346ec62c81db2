package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	JWT       JWTConfig
	Payment   PaymentConfig
	Scheduler SchedulerConfig
	LogLevel  string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int // seconds
}

// PaymentConfig holds payment-reconciliation configuration
type PaymentConfig struct {
	MinimumDeposit float64
	AutoTrustDwell time.Duration // minimum age before auto-trusted channels credit
	AdminGateDwell time.Duration // minimum age before admin-gated channels credit
}

// SchedulerConfig holds the cadences of the periodic background tasks
type SchedulerConfig struct {
	LifecycleInterval   time.Duration
	RampInterval        time.Duration
	ReconcileInterval   time.Duration
	ProfileSyncInterval time.Duration
	RestartDelay        time.Duration
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "5000")
	viper.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "smartlottery")
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("Payment.MinimumDeposit", 10.0)
	viper.SetDefault("Payment.AutoTrustDwell", 3*time.Minute)
	viper.SetDefault("Payment.AdminGateDwell", 5*time.Minute)
	viper.SetDefault("Scheduler.LifecycleInterval", 10*time.Second)
	viper.SetDefault("Scheduler.RampInterval", 30*time.Second)
	viper.SetDefault("Scheduler.ReconcileInterval", 15*time.Second)
	viper.SetDefault("Scheduler.ProfileSyncInterval", 30*time.Second)
	viper.SetDefault("Scheduler.RestartDelay", 60*time.Second)
	viper.SetDefault("LogLevel", "info")
}
