package config

import (
	"fmt"
	"math"
	"net"
	"net/url"
	"os"
	"runtime"
	"strings"

	"github.com/konstantinfoerster/card-printings-go/internal/web"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Storage     Storage     `yaml:"storage"`
	Logging     Logging     `yaml:"logging"`
	Scryfall    Scryfall    `yaml:"scryfall"`
	Preferences Preferences `yaml:"preferences"`
	Database    Database    `yaml:"database"`
	View        View        `yaml:"view"`
}

type Database struct {
	Host           string `yaml:"host"`
	Port           string `yaml:"port"`
	Database       string `yaml:"database"`
	Username       string `yaml:"username"`
	Password       string `yaml:"password"`
	MaxConnections int32  `yaml:"maxConnections"`
}

func (d Database) ConnectionURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s", d.Username, d.Password, net.JoinHostPort(d.Host, d.Port), d.Database)
}

func (d Database) MaxConnectionsOrDefault() int32 {
	if d.MaxConnections == 0 {
		defaultSize := int32(2)
		numCPU := runtime.NumCPU()
		if numCPU <= 0 || numCPU > math.MaxInt32 {
			panic("unsupported cpu count > maxInt32 or cpu count <= 0")
		}
		// #nosec G115 checked above
		nCPU := int32(numCPU)
		if nCPU < defaultSize {
			return nCPU
		}

		return defaultSize
	}

	return d.MaxConnections
}

type Logging struct {
	Level string `yaml:"level"`
}

func (l Logging) LevelOrDefault() string {
	level := strings.TrimSpace(l.Level)
	if level == "" {
		level = "INFO"
	}

	return strings.ToLower(level)
}

const DefaultScryfallURL = "https://api.scryfall.com"

type Scryfall struct {
	BaseURL string     `yaml:"baseUrl"`
	Client  web.Config `yaml:"client"`
}

// EnsureBaseURL prefixes relative urls with the configured base url.
// Absolute urls are returned unchanged.
func (s Scryfall) EnsureBaseURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.IsAbs() {
		return rawURL, nil
	}

	base := strings.TrimSpace(s.BaseURL)
	if base == "" {
		base = DefaultScryfallURL
	}

	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(rawURL, "/"), nil
}

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Preferences struct {
	Driver     string `yaml:"driver"`
	SQLitePath string `yaml:"sqlitePath"`
}

func (p Preferences) DriverOrDefault() string {
	driver := strings.ToLower(strings.TrimSpace(p.Driver))
	if driver == "" {
		return DriverMemory
	}

	return driver
}

type View struct {
	SetOrder  string `yaml:"setOrder"`
	CardOrder string `yaml:"cardOrder"`
}

const (
	REPLACE = "REPLACE"
	CREATE  = "CREATE"
)

type Storage struct {
	Location string `yaml:"location"`
	Mode     string `yaml:"mode"`
}

func Load(path string) (*Config, error) {
	s, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if s.IsDir() {
		return nil, fmt.Errorf("'%s' is a directory, not a regular file", path)
	}

	return buildConfig(path)
}

func buildConfig(path string) (*Config, error) {
	// #nosec G304 config path is provided by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("can't read config file: %w", err)
	}

	config := &Config{}

	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("config unmarshal failed with: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.Preferences.DriverOrDefault() {
	case DriverMemory, DriverPostgres:
	case DriverSQLite:
		if strings.TrimSpace(c.Preferences.SQLitePath) == "" {
			return fmt.Errorf("preferences.sqlitePath is required for driver %s", DriverSQLite)
		}
	default:
		return fmt.Errorf("unsupported preferences driver %q", c.Preferences.Driver)
	}

	return nil
}
