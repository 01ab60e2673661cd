package core

import (
	"fmt"
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppName          string
	Debug            bool
	Env              string // DEV (default) | TEST | QA | PROD
	Build            string
	SecretKey        string
	FrontendBaseURL  string
	DefaultFromEmail mail.Address
	SendgridAPIKey   string
	RollbarToken     string

	Server struct {
		Port            int
		ShutdownTimeout time.Duration
	}

	Database struct {
		Path string
	}
}

// NewConfig loads configuration from defaults, an optional .env file and the
// environment, in increasing order of precedence.
func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Shule")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "w3lp$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	v.SetDefault("frontendBaseUrl", "http://localhost:3000")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("port", 3001)
	v.SetDefault("shutdownTimeout", 5*time.Second)
	v.SetDefault("databasePath", filepath.Join(Getwd(), "database.db"))

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err = godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	}
	v.AutomaticEnv()

	conf := &Config{
		AppName:          v.GetString("appName"),
		Debug:            v.GetBool("debug"),
		Env:              env,
		Build:            v.GetString("build"),
		SecretKey:        v.GetString("secretKey"),
		FrontendBaseURL:  v.GetString("frontendBaseUrl"),
		DefaultFromEmail: mail.Address{Name: v.GetString("appName"), Address: v.GetString("defaultFromEmail")},
		SendgridAPIKey:   v.GetString("sendgrid_api_key"),
		RollbarToken:     v.GetString("rollbar_token"),
	}
	conf.Server.Port = v.GetInt("port")
	conf.Server.ShutdownTimeout = v.GetDuration("shutdownTimeout")
	conf.Database.Path = v.GetString("databasePath")

	if env == "PROD" && conf.SecretKey == "" {
		log.Fatal("config: secretKey is required in PROD")
	}
	return conf
}

func (conf *Config) ServerAddress() string {
	return fmt.Sprintf(":%d", conf.Server.Port)
}

func (conf *Config) TestMode() bool {
	return conf.Env == "TEST"
}
