// Package config handles jackc.toml build configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up by FindAndLoad.
const FileName = "jackc.toml"

// Config represents a jackc.toml file.
type Config struct {
	Output Output `toml:"output"`
	Build  Build  `toml:"build"`
	Log    Log    `toml:"log"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
}

// Output configures what is written next to each source file.
type Output struct {
	Extension      string `toml:"extension"`
	Trace          bool   `toml:"trace"`
	TraceExtension string `toml:"trace-extension"`
}

type Build struct {
	// Jobs bounds how many files are compiled at once; 0 means one per CPU.
	Jobs int `toml:"jobs"`
}

type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// Default returns the configuration used when no jackc.toml exists.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Output.Extension == "" {
		c.Output.Extension = ".vm"
	}
	if c.Output.TraceExtension == "" {
		c.Output.TraceExtension = ".xml"
	}
	if c.Build.Jobs < 0 {
		c.Build.Jobs = 0
	}
}

// Load parses a jackc.toml file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	c.Path = path
	c.applyDefaults()

	return &c, nil
}

// FindAndLoad walks up from startDir looking for jackc.toml and loads the
// first one found. Without one it returns Default().
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

// JobLimit is the effective number of concurrent compilations.
func (c *Config) JobLimit() int {
	if c.Build.Jobs > 0 {
		return c.Build.Jobs
	}
	return runtime.NumCPU()
}
