package client

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// An Env holds the settings read from the environment (and the optional .env file).
type Env struct {
	Credentials string        `envconfig:"CREDENTIALS" default:".findit"`
	LogFile     string        `envconfig:"LOG_FILE" default:"findit.log"`
	Verbose     bool          `envconfig:"VERBOSE"`
	Timeout     time.Duration `envconfig:"TIMEOUT" default:"30s"`
}

// LoadEnv returns the FINDIT_* settings.
func LoadEnv() (Env, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Env{}, errors.Wrap(err, "could not load .env")
	}

	var env Env
	err := envconfig.Process("findit", &env)
	return env, errors.Wrap(err, "could not read environment")
}
