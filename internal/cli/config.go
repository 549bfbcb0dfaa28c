package cli

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// ConfigError reports missing or invalid configuration at startup. It is
// fatal: the run aborts before any article is processed.
type ConfigError struct {
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("configuration: %s", e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Config is the project configuration, loaded from a CUE file and
// validated against configSchema.
type Config struct {
	ContentDir  string `json:"contentDir"`
	Owner       string `json:"owner"`
	Repo        string `json:"repo"`
	Category    string `json:"category"`
	SiteBaseURL string `json:"siteBaseURL"`
	DBDriver    string `json:"dbDriver"`
}

// configSchema constrains the project config file. dbDriver defaults to
// sqlite3 when omitted.
const configSchema = `
contentDir:  string & !=""
owner:       string & !=""
repo:        string & !=""
category:    string & !=""
siteBaseURL: string & !=""
dbDriver:    *"sqlite3" | "mysql"
`

// DefaultConfigFile is the config path used when --config is not given.
const DefaultConfigFile = "kbsync.cue"

// LoadConfig reads and validates the CUE config file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Message: fmt.Sprintf("read config %s", path), Err: err}
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(configSchema)
	if err := schema.Err(); err != nil {
		return nil, &ConfigError{Message: "internal config schema", Err: err}
	}

	val := ctx.CompileBytes(data, cue.Filename(path))
	if err := val.Err(); err != nil {
		return nil, &ConfigError{Message: fmt.Sprintf("parse config %s", path), Err: err}
	}

	unified := schema.Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, &ConfigError{Message: fmt.Sprintf("invalid config %s", path), Err: err}
	}

	var cfg Config
	if err := unified.Decode(&cfg); err != nil {
		return nil, &ConfigError{Message: fmt.Sprintf("decode config %s", path), Err: err}
	}
	return &cfg, nil
}

// Secrets are credentials supplied through the environment, never the
// config file.
type Secrets struct {
	GitHubToken string
	DBDSN       string
}

// LoadSecrets reads credentials from the environment. Both are required
// for commands that touch the remote stores; a missing one aborts the
// whole run before any article is processed.
func LoadSecrets() (*Secrets, error) {
	token := firstEnv("KBSYNC_GITHUB_TOKEN", "GITHUB_TOKEN")
	if token == "" {
		return nil, &ConfigError{Message: "KBSYNC_GITHUB_TOKEN (or GITHUB_TOKEN) is not set"}
	}
	dsn := firstEnv("KBSYNC_DB_DSN", "DATABASE_URL")
	if dsn == "" {
		return nil, &ConfigError{Message: "KBSYNC_DB_DSN (or DATABASE_URL) is not set"}
	}
	return &Secrets{GitHubToken: token, DBDSN: dsn}, nil
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
