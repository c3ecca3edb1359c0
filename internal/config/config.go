package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the project config file.
const FileName = "kontor.yaml"

// EnvFile holds local overrides that are kept out of version control.
const EnvFile = ".env"

// Environment overrides for the DATEV numbers.
const (
	EnvConsultantNumber = "KONTOR_CONSULTANT_NUMBER"
	EnvClientNumber     = "KONTOR_CLIENT_NUMBER"
)

// Config represents the top-level kontor.yaml configuration.
type Config struct {
	Business BusinessConfig `yaml:"business"`
	DATEV    DATEVConfig    `yaml:"datev"`
	Tax      TaxConfig      `yaml:"tax"`
	Export   ExportConfig   `yaml:"export"`
	Git      GitConfig      `yaml:"git"`
}

// BusinessConfig identifies the freelancer.
type BusinessConfig struct {
	Name      string `yaml:"name" validate:"required"`
	TaxNumber string `yaml:"tax_number,omitempty"`
}

// DATEVConfig selects the chart of accounts and the numbers printed in the
// XML header.
type DATEVConfig struct {
	Chart            string `yaml:"chart" validate:"oneof=SKR03 SKR04"`
	ConsultantNumber string `yaml:"consultant_number,omitempty" validate:"omitempty,numeric,min=4,max=7"`
	ClientNumber     string `yaml:"client_number,omitempty" validate:"omitempty,numeric,min=1,max=5"`
}

// TaxConfig controls the forecast.
type TaxConfig struct {
	FilingExtension bool `yaml:"filing_extension"`
	StandardRate    int  `yaml:"standard_rate" validate:"oneof=7 19"`
}

// ExportConfig controls where export files go.
type ExportConfig struct {
	Dir string `yaml:"dir" validate:"required"`
}

// GitConfig sets the identity used for project commits.
type GitConfig struct {
	AuthorName  string `yaml:"author_name" validate:"required"`
	AuthorEmail string `yaml:"author_email" validate:"required,email"`
}

// Load reads a kontor.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// LoadProject reads <dir>/kontor.yaml, applies <dir>/.env and the process
// environment, and validates the result.
func LoadProject(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		return nil, err
	}
	if err := ApplyEnv(dir, cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(businessName, chart string) *Config {
	return &Config{
		Business: BusinessConfig{Name: businessName},
		DATEV:    DATEVConfig{Chart: chart},
		Tax:      TaxConfig{StandardRate: 19},
		Export:   ExportConfig{Dir: "exports"},
		Git: GitConfig{
			AuthorName:  "kontor",
			AuthorEmail: "books@kontor.local",
		},
	}
}

// ApplyEnv overrides the DATEV numbers from <dir>/.env and the process
// environment. Non-empty process variables win over the file.
func ApplyEnv(dir string, cfg *Config) error {
	vars, err := godotenv.Read(filepath.Join(dir, EnvFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading %s: %w", EnvFile, err)
	}

	lookup := func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return vars[key]
	}
	if v := lookup(EnvConsultantNumber); v != "" {
		cfg.DATEV.ConsultantNumber = v
	}
	if v := lookup(EnvClientNumber); v != "" {
		cfg.DATEV.ClientNumber = v
	}
	return nil
}

var validate = validator.New()

// Validate checks the config against its struct tags. All violations are
// reported in one error.
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fmt.Sprintf("%s: failed %s", fe.Namespace(), ruleOf(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func ruleOf(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}
