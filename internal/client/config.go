package client

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

const DefaultServer = "http://localhost:8000"

// Config holds the information needed to connect to a tracker API server.
type Config struct {
	Service Service `json:"service"`
}

// Service contains information how to connect to and authenticate with the tracker API server.
type Service struct {
	// Server is the URL of the tracker API server (the part before /api/...).
	Server string `json:"server"`
	Token  string `json:"token,omitempty"`
}

func NewDefault() *Config {
	return &Config{Service: Service{Server: DefaultServer}}
}

// DefaultConfigPath returns $HOME/.config/tracker/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".config", "tracker", "config.yaml")
}

func ParseConfigFile(filename string) (*Config, error) {
	contents, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}
	config := NewDefault()
	if err := yaml.Unmarshal(contents, config); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Persist(filename string) error {
	contents, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0700); err != nil {
		return errors.Wrap(err, "writing config")
	}
	if err := os.WriteFile(filename, contents, 0600); err != nil {
		return errors.Wrap(err, "writing config")
	}
	return nil
}

func (c *Config) Validate() error {
	if len(c.Service.Server) == 0 {
		return errors.New("invalid configuration: no server found")
	}
	u, err := url.Parse(c.Service.Server)
	if err != nil {
		return errors.Wrapf(err, "invalid configuration: invalid server format %q", c.Service.Server)
	}
	if len(u.Hostname()) == 0 {
		return fmt.Errorf("invalid configuration: invalid server format %q: no hostname", c.Service.Server)
	}
	return nil
}
