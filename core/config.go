package core

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Address         string
		Host            string
		DebugHost       string
		RequestTimeout  time.Duration
		ShutdownTimeout time.Duration
	}

	DatabaseConfig struct {
		Engine        string // postgres (lib/pq) | pgx
		Host          string
		Port          int
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Name          string
		DisableTLS    bool
	}

	CoverageConfig struct {
		MaxRangeDays     int
		DefaultRangeDays int
		Timezone         string
		TokenPattern     string
		DefaultTemplate  string
	}

	Config struct {
		Env          string
		Debug        bool
		TestMode     bool
		AppName      string
		Build        string
		RollbarToken string
		Server       ServerConfig
		Database     DatabaseConfig
		Coverage     CoverageConfig
	}
)

func (dc DatabaseConfig) Address() string {
	return fmt.Sprintf("%s:%d", dc.Host, dc.Port)
}

func setDefaults(v *viper.Viper) {
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "Kazi")
	v.SetDefault("build", "develop")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.requestTimeout", 5*time.Second)
	v.SetDefault("server.shutdownTimeout", 10*time.Second)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "kazi")
	v.SetDefault("database.password", "kazi")
	v.SetDefault("database.adminUser", "")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.name", "kazi")
	v.SetDefault("database.disableTLS", true)

	v.SetDefault("coverage.maxRangeDays", 31)
	v.SetDefault("coverage.defaultRangeDays", 7)
	v.SetDefault("coverage.timezone", "UTC")
	v.SetDefault("coverage.tokenPattern", `[,;\n]`)
	v.SetDefault("coverage.defaultTemplate", "periodic")
}

// NewConfig loads the configuration for the current ENV (DEV by default; TEST, QA, PROD).
// Values come from defaults, then config/.env.<env> if present, then <ENV>_* environment variables,
// e.g. PROD_COVERAGE_MAXRANGEDAYS.
func NewConfig() *Config {
	v := viper.New()
	setDefaults(v)

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return configFrom(v, env)
}

func configFrom(v *viper.Viper, env string) *Config {
	return &Config{
		Env:          env,
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		AppName:      v.GetString("appName"),
		Build:        v.GetString("build"),
		RollbarToken: v.GetString("rollbarToken"),
		Server: ServerConfig{
			Address:         v.GetString("server.address"),
			Host:            v.GetString("server.host"),
			DebugHost:       v.GetString("server.debugHost"),
			RequestTimeout:  v.GetDuration("server.requestTimeout"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetInt("database.port"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			Name:          v.GetString("database.name"),
			DisableTLS:    v.GetBool("database.disableTLS"),
		},
		Coverage: CoverageConfig{
			MaxRangeDays:     v.GetInt("coverage.maxRangeDays"),
			DefaultRangeDays: v.GetInt("coverage.defaultRangeDays"),
			Timezone:         v.GetString("coverage.timezone"),
			TokenPattern:     v.GetString("coverage.tokenPattern"),
			DefaultTemplate:  v.GetString("coverage.defaultTemplate"),
		},
	}
}

// NewTestConfig returns the defaults with test mode on, ignoring the environment.
func NewTestConfig() *Config {
	v := viper.New()
	setDefaults(v)
	v.Set("testMode", true)
	return configFrom(v, "TEST")
}
