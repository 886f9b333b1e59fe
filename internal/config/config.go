package config

import (
	"errors"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	Board   Board   `yaml:"board"`
	HTTP    HTTP    `yaml:"http"`
	Log     Log     `yaml:"log"`
	Storage Storage `yaml:"storage"`
	Posting Posting `yaml:"posting"`
	Index   Index   `yaml:"index"`
}

type Board struct {
	Name              string `yaml:"name" validate:"required"`
	LocalRule         string `yaml:"local_rule"`
	DefaultAuthorName string `yaml:"default_author_name" validate:"required"`
}

type HTTP struct {
	Addr          string        `yaml:"addr" validate:"required"`
	ReadTimeout   time.Duration `yaml:"read_timeout" validate:"min=0"`
	WriteTimeout  time.Duration `yaml:"write_timeout" validate:"min=0"`
	SecureHeaders bool          `yaml:"secure_headers"` // send HSTS, only behind https
	// AllowedOrigins may read the /v1 JSON API from a browser.
	AllowedOrigins []string `yaml:"allowed_origins" validate:"dive,required"`
}

type Log struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	JSON  bool   `yaml:"json"`
}

type Storage struct {
	Driver     string `yaml:"driver" validate:"required,oneof=postgres sqlite"`
	SQLitePath string `yaml:"sqlite_path" validate:"required_if=Driver sqlite"`
}

type Posting struct {
	TitleMaxLen   int       `yaml:"title_max_len" validate:"min=1"`
	NameMaxLen    int       `yaml:"name_max_len" validate:"min=1"`
	MailMaxLen    int       `yaml:"mail_max_len" validate:"min=1"`
	ContentMaxLen int       `yaml:"content_max_len" validate:"min=1"`
	MaxResponses  int       `yaml:"max_responses" validate:"min=0"` // 0 means unlimited
	RateLimit     RateLimit `yaml:"rate_limit"`
}

// RateLimit allows Burst posts per client, refilled one per Interval.
type RateLimit struct {
	Interval time.Duration `yaml:"interval" validate:"min=0"`
	Burst    int           `yaml:"burst" validate:"min=1"`
}

type Index struct {
	ThreadCount int `yaml:"thread_count" validate:"min=1"`
	// DigestCount leading threads also show their latest DigestResponses responses.
	DigestCount     int `yaml:"digest_count" validate:"min=0,ltefield=ThreadCount"`
	DigestResponses int `yaml:"digest_responses" validate:"min=1"`
}

type Private struct {
	Pg       Pg     `yaml:"pg"`
	HashSalt string `yaml:"hash_salt"` // pepper of poster ids, random per process if empty
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// Default values, overwritten by whatever the yaml files set.
func Default() Config {
	return Config{
		Public: Public{
			Board: Board{
				Name:              "nanabbs",
				DefaultAuthorName: "名無しさん",
			},
			HTTP: HTTP{
				Addr:           ":8080",
				ReadTimeout:    10 * time.Second,
				WriteTimeout:   10 * time.Second,
				AllowedOrigins: []string{"*"},
			},
			Log:     Log{Level: "info"},
			Storage: Storage{Driver: "sqlite", SQLitePath: "nanabbs.db"},
			Posting: Posting{
				TitleMaxLen:   96,
				NameMaxLen:    32,
				MailMaxLen:    64,
				ContentMaxLen: 4096,
				MaxResponses:  1000,
				RateLimit:     RateLimit{Interval: 10 * time.Second, Burst: 3},
			},
			Index: Index{ThreadCount: 30, DigestCount: 10, DigestResponses: 10},
		},
		Private: Private{
			Pg: Pg{Host: "localhost", Port: 5432, SSLMode: "disable"},
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func loadPath(configPath string, output any, required bool) error {
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("can't read config file %s: %w", configPath, err)
	}
	if err := yaml.UnmarshalStrict(configFile, output); err != nil {
		return fmt.Errorf("can't unmarshal config file %s: %w", configPath, err)
	}
	return nil
}

// Load reads public.yaml (required) and private.yaml (optional) from configFolder,
// applies environment overrides and validates the result.
func Load(configFolder string) (*Config, error) {
	cfg := Default()
	if err := loadPath(path.Join(configFolder, "public.yaml"), &cfg.Public, true); err != nil {
		return nil, err
	}
	if err := loadPath(path.Join(configFolder, "private.yaml"), &cfg.Private, false); err != nil {
		return nil, err
	}
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func MustLoad(configFolder string) *Config {
	cfg, err := Load(configFolder)
	if err != nil {
		panic(err.Error())
	}
	return cfg
}

func (c *Config) Validate() error {
	if err := validate.Struct(c.Public); err != nil {
		return fmt.Errorf("invalid public config: %w", err)
	}
	if c.Public.Storage.Driver == "postgres" {
		if err := validate.Var(c.Private.Pg.Host, "required"); err != nil {
			return fmt.Errorf("invalid private config: pg.host: %w", err)
		}
		if err := validate.Var(c.Private.Pg.Dbname, "required"); err != nil {
			return fmt.Errorf("invalid private config: pg.dbname: %w", err)
		}
		if err := validate.Var(c.Private.Pg.Port, "min=1,max=65535"); err != nil {
			return fmt.Errorf("invalid private config: pg.port: %w", err)
		}
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("NANABBS_HTTP_ADDR"); v != "" {
		cfg.Public.HTTP.Addr = v
	}
	if v := os.Getenv("NANABBS_PG_PASSWORD"); v != "" {
		cfg.Private.Pg.Password = v
	}
	if v := os.Getenv("NANABBS_HASH_SALT"); v != "" {
		cfg.Private.HashSalt = v
	}
}
