package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var defineFlagsOnce sync.Once

// Load loads configuration with the following precedence:
// 1. Explicit overrides (used for password prompt and file indirection)
// 2. Command line flags
// 3. Environment variables (prefix NEXBI_)
// 4. Config file
// 5. Defaults
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	defineFlags()
	if !pflag.Parsed() {
		pflag.Parse()
	}

	cfgPath, _ := pflag.CommandLine.GetString("config")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.SetConfigName("nexbii")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/nexbii/")
		v.AddConfigPath("$HOME/.nexbii")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if cfgPath != "" {
			return nil, fmt.Errorf("failed to read config file %q: %w", cfgPath, err)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Env vars: NEXBI_DATABASE_MAX_OPEN etc.
	v.SetEnvPrefix("NEXBI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	bindChangedFlagsToViper(v)

	if v.GetString("database.dsn") == "" && v.GetString("database.dsn_file") != "" {
		dsn, err := readSecretFile(v.GetString("database.dsn_file"))
		if err != nil {
			return nil, fmt.Errorf("failed to read database DSN file: %w", err)
		}
		v.Set("database.dsn", dsn)
	}

	if v.GetString("database.password") == "" && v.GetString("database.password_file") != "" {
		pwd, err := readSecretFile(v.GetString("database.password_file"))
		if err != nil {
			return nil, fmt.Errorf("failed to read database password file: %w", err)
		}
		v.Set("database.password", pwd)
	}
	if v.GetString("database.password") == "" && v.GetBool("database.password_prompt") {
		pwd, err := promptPassword()
		if err != nil {
			return nil, fmt.Errorf("failed to read password: %w", err)
		}
		v.Set("database.password", pwd)
	}

	var cfg Config
	decodeHook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
	if err := v.Unmarshal(&cfg, viper.DecodeHook(decodeHook)); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func defineFlags() {
	defineFlagsOnce.Do(func() {
		pflag.String("config", "", "Path to config file")
		pflag.String("host", "", "HTTP listen host")
		pflag.Int("port", 0, "HTTP listen port")
		pflag.String("log-level", "", "Log level (debug, info, warn, error)")
		pflag.String("log-format", "", "Log format (json, text)")
		pflag.String("db-driver", "", "Database driver (mysql, postgres)")
		pflag.String("db-dsn", "", "Database DSN")
		pflag.String("db-host", "", "Database host")
		pflag.Int("db-port", 0, "Database port")
		pflag.String("db-user", "", "Database user")
		pflag.String("db-name", "", "Database name")
		pflag.Bool("db-password-prompt", false, "Prompt for database password")
	})
}

// bindChangedFlagsToViper copies only flags the user actually set, so unset
// flags do not shadow env or file values with zero values.
func bindChangedFlagsToViper(v *viper.Viper) {
	bindings := map[string]string{
		"host":               "server.host",
		"port":               "server.port",
		"log-level":          "logging.level",
		"log-format":         "logging.format",
		"db-driver":          "database.driver",
		"db-dsn":             "database.dsn",
		"db-host":            "database.host",
		"db-port":            "database.port",
		"db-user":            "database.user",
		"db-name":            "database.database",
		"db-password-prompt": "database.password_prompt",
	}
	pflag.CommandLine.Visit(func(f *pflag.Flag) {
		if key, ok := bindings[f.Name]; ok {
			v.Set(key, f.Value.String())
		}
	})
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.cors_enabled", true)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.pool.max_open", 25)
	v.SetDefault("database.pool.max_idle", 5)
	v.SetDefault("database.pool.max_lifetime", 5*time.Minute)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("observability.service_name", "nexbii")
	v.SetDefault("observability.environment", "development")
	v.SetDefault("observability.metrics_enabled", true)
	v.SetDefault("observability.tracing_enabled", false)
	v.SetDefault("observability.log_export_enabled", false)
	v.SetDefault("observability.trace_sample_ratio", 1.0)
	v.SetDefault("observability.otlp_endpoint", "localhost:4317")
	v.SetDefault("observability.otlp_protocol", "grpc")
	v.SetDefault("observability.otlp_insecure", true)
	v.SetDefault("observability.otlp_timeout", 10*time.Second)

	v.SetDefault("schema_refresh.enabled", true)
	v.SetDefault("schema_refresh.min_interval", 30*time.Second)
	v.SetDefault("schema_refresh.max_interval", 10*time.Minute)

	v.SetDefault("query.default_limit", 100)
	v.SetDefault("query.max_limit", 10000)
	v.SetDefault("query.exec_timeout", 30*time.Second)
}

func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Database password: ")
	pwd, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
