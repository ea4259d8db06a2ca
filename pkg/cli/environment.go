/*
Copyright The Factoriodl Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

/*Package cli describes the operating environment for the factoriodl CLI.

Credentials come from FACTORIO_USERNAME and FACTORIO_TOKEN, optionally
provided through a .env file in the working directory. Neither value is
ever written to disk or logged by this program.
*/
package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// EnvSettings describes all of the environment settings.
type EnvSettings struct {
	// Username is the factorio.com account name.
	Username string
	// Token is the API token from the account profile page.
	Token string
	// Debug indicates whether factoriodl is running in Debug mode.
	Debug bool
	// NoColor disables colored terminal output.
	NoColor bool
}

// ConfigurationError reports a fatal startup misconfiguration. It is
// always detected before any network call is made.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// New reads settings from the process environment, loading a .env file
// first when one is present.
func New() *EnvSettings {
	// Missing .env is the common case, not an error.
	_ = godotenv.Load()

	env := &EnvSettings{
		Username: os.Getenv("FACTORIO_USERNAME"),
		Token:    os.Getenv("FACTORIO_TOKEN"),
	}
	env.Debug, _ = strconv.ParseBool(os.Getenv("FACTORIO_DEBUG"))
	env.NoColor, _ = strconv.ParseBool(os.Getenv("FACTORIO_NO_COLOR"))
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		env.NoColor = true
	}
	return env
}

// AddFlags binds flags to the given flagset.
func (s *EnvSettings) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&s.Debug, "debug", s.Debug, "enable verbose output")
	fs.BoolVar(&s.NoColor, "no-color", s.NoColor, "disable colored output")
}

// Credentials returns the username/token pair, or a ConfigurationError
// when either is unset.
func (s *EnvSettings) Credentials() (string, string, error) {
	if s.Username == "" || s.Token == "" {
		return "", "", &ConfigurationError{
			Reason: "the environment variables FACTORIO_USERNAME and FACTORIO_TOKEN must be defined, optionally in a .env file",
		}
	}
	return s.Username, s.Token, nil
}

// EnvVars returns the resolved environment for display. The token value
// is redacted.
func (s *EnvSettings) EnvVars() map[string]string {
	token := ""
	if s.Token != "" {
		token = "<set>"
	}
	return map[string]string{
		"FACTORIO_USERNAME": s.Username,
		"FACTORIO_TOKEN":    token,
		"FACTORIO_DEBUG":    fmt.Sprint(s.Debug),
		"FACTORIO_NO_COLOR": fmt.Sprint(s.NoColor),
	}
}
