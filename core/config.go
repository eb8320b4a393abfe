package core

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const devSecretKey = "poq5-wer)enb$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy"

type (
	ServerConfig struct {
		Address         string        `mapstructure:"address"`
		Host            string        `mapstructure:"host"`
		DebugHost       string        `mapstructure:"debug_host"`
		ReadTimeout     time.Duration `mapstructure:"read_timeout"`
		WriteTimeout    time.Duration `mapstructure:"write_timeout"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
		LoginRate       float64       `mapstructure:"login_rate"`  // requests per second, per client IP
		LoginBurst      int           `mapstructure:"login_burst"` // 0 disables the login rate limiter
		CORSOrigins     []string      `mapstructure:"cors_origins"`
	}

	DatabaseConfig struct {
		Engine        string `mapstructure:"engine"`
		Host          string `mapstructure:"host"`
		Port          int    `mapstructure:"port"`
		Name          string `mapstructure:"name"`
		User          string `mapstructure:"user"`
		Password      string `mapstructure:"password"`
		AdminUser     string `mapstructure:"admin_user"`
		AdminPassword string `mapstructure:"admin_password"`
		DisableTLS    bool   `mapstructure:"disable_tls"`
		MaxOpenConns  int    `mapstructure:"max_open_conns"`
		MaxIdleConns  int    `mapstructure:"max_idle_conns"`
	}

	Config struct {
		AppName      string `mapstructure:"app_name"`
		Env          string `mapstructure:"env"`
		Build        string `mapstructure:"build"`
		Debug        bool   `mapstructure:"debug"`
		TestMode     bool   `mapstructure:"test_mode"`
		SecretKey    string `mapstructure:"secret_key"`
		RollbarToken string `mapstructure:"rollbar_token"`

		Server   ServerConfig   `mapstructure:"server"`
		Database DatabaseConfig `mapstructure:"database"`
	}
)

// Address returns the host:port of the database server.
func (c DatabaseConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// URL builds the connection URL for the given credentials.
func (c DatabaseConfig) URL(user, password string) *url.URL {
	sslMode := "require"
	if c.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	return &url.URL{
		Scheme:   c.Engine,
		User:     url.UserPassword(user, password),
		Host:     c.Address(),
		Path:     c.Name,
		RawQuery: q.Encode(),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "Darasa")
	v.SetDefault("env", "DEV")
	v.SetDefault("build", "develop")
	v.SetDefault("debug", true)
	v.SetDefault("test_mode", false)
	v.SetDefault("secret_key", devSecretKey)
	v.SetDefault("rollbar_token", "")

	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.host", "localhost:8000")
	v.SetDefault("server.debug_host", ":4000")
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 5*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.login_rate", 1.0)
	v.SetDefault("server.login_burst", 5)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "darasa")
	v.SetDefault("database.user", "darasa")
	v.SetDefault("database.password", "darasa")
	v.SetDefault("database.admin_user", "postgres")
	v.SetDefault("database.admin_password", "postgres")
	v.SetDefault("database.disable_tls", true)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
}

// NewConfig loads the app configuration from defaults, an optional `config/.env.<env>` file
// and environment variables prefixed with the environment name (e.g. PROD_SECRET_KEY).
func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetTypeByDefaultValue(true)
	setDefaults(v)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("test_mode", true)
	}
	v.SetDefault("env", env)
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(configDir(), ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "config.godotenv(%s)", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "config.os.Stat(%s)", dotEnvPath)
	}
	v.AutomaticEnv()

	conf := new(Config)
	if err := v.Unmarshal(conf); err != nil {
		return nil, errors.Wrap(err, "config.Unmarshal")
	}
	if err := conf.validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *Config) validate() error {
	if c.Debug {
		return nil
	}
	if c.SecretKey == "" || c.SecretKey == devSecretKey {
		return errors.Errorf("%s_SECRET_KEY must be set outside debug mode", c.Env)
	}
	return nil
}

func configDir() string {
	if dir := os.Getenv("CONFIG_DIR"); dir != "" {
		return dir
	}
	return "config"
}
