package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"extidy/internal/domain"
)

// FileName is the optional config file consulted in the working directory
// and then the home directory. Flags override env, env overrides the file.
const FileName = ".extidy.yaml"

type Config struct {
	SourceDir      string `yaml:"source"`
	DestDir        string `yaml:"dest"`
	RawExtensions  string `yaml:"extensions"`
	Move           bool   `yaml:"move"`
	Recursive      bool   `yaml:"recursive"`
	CreateDest     bool   `yaml:"create_dest"`
	SkipDuplicates bool   `yaml:"dedupe"`
	DryRun         bool   `yaml:"-"`
	Plain          bool   `yaml:"plain"`
	Verbose        bool   `yaml:"verbose"`

	Extensions domain.ExtensionSet `yaml:"-"`
}

// Load reads the config file (explicit path, else cwd, else home) and layers
// EXTIDY_* environment variables on top. Zero-valued fields stay untouched
// so flag values bound beforehand survive.
func (c *Config) Load(explicitPath string) error {
	path := explicitPath
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if explicitPath != "" {
				return fmt.Errorf("read config %s: %w", path, err)
			}
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(data, &fileCfg); err != nil {
				return fmt.Errorf("parse config %s: %w", path, err)
			}
			c.applyDefaults(fileCfg)
		}
	}

	c.applyEnv()
	return nil
}

// Finalize validates the assembled config and normalizes the extension list.
func (c *Config) Finalize() error {
	if c.SourceDir == "" {
		return errors.New("source directory is required")
	}
	if c.DestDir == "" {
		return errors.New("destination directory is required")
	}

	src, err := filepath.Abs(c.SourceDir)
	if err != nil {
		return fmt.Errorf("resolve source: %w", err)
	}
	dst, err := filepath.Abs(c.DestDir)
	if err != nil {
		return fmt.Errorf("resolve destination: %w", err)
	}
	if src == dst {
		return errors.New("source and destination must differ")
	}
	c.SourceDir = src
	c.DestDir = dst

	c.Extensions = domain.ParseExtensions(c.RawExtensions)
	if c.Extensions.Len() == 0 {
		return errors.New("at least one extension is required (e.g. --ext pdf,jpg)")
	}
	return nil
}

func (c *Config) applyDefaults(from Config) {
	if c.SourceDir == "" {
		c.SourceDir = from.SourceDir
	}
	if c.DestDir == "" {
		c.DestDir = from.DestDir
	}
	if c.RawExtensions == "" {
		c.RawExtensions = from.RawExtensions
	}
	c.Move = c.Move || from.Move
	c.Recursive = c.Recursive || from.Recursive
	c.CreateDest = c.CreateDest || from.CreateDest
	c.SkipDuplicates = c.SkipDuplicates || from.SkipDuplicates
	c.Plain = c.Plain || from.Plain
	c.Verbose = c.Verbose || from.Verbose
}

func (c *Config) applyEnv() {
	if c.SourceDir == "" {
		c.SourceDir = envOrEmpty("EXTIDY_SOURCE_DIR")
	}
	if c.DestDir == "" {
		c.DestDir = envOrEmpty("EXTIDY_DEST_DIR")
	}
	if c.RawExtensions == "" {
		c.RawExtensions = envOrEmpty("EXTIDY_EXTENSIONS")
	}
	if !c.Move {
		c.Move = envTruthy("EXTIDY_MOVE")
	}
	if !c.Recursive {
		c.Recursive = envTruthy("EXTIDY_RECURSIVE")
	}
	if !c.CreateDest {
		c.CreateDest = envTruthy("EXTIDY_CREATE_DEST")
	}
	if !c.SkipDuplicates {
		c.SkipDuplicates = envTruthy("EXTIDY_DEDUPE")
	}
	if !c.Plain {
		c.Plain = envTruthy("EXTIDY_PLAIN")
	}
	if !c.Verbose {
		c.Verbose = envTruthy("EXTIDY_VERBOSE")
	}
}

func findConfigFile() string {
	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(home, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

func envOrEmpty(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envTruthy(key string) bool {
	val := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	return val == "1" || val == "true" || val == "yes" || val == "y"
}
