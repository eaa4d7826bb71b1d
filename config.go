package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"medal-backup/archive"
	"medal-backup/style"
)

// Configuration object. The file is JSON; yaml.v3 reads it since JSON is valid YAML.
type Config struct {
	MedalClipsPath      string   `yaml:"medalClipsPath"`
	BackupDir           string   `yaml:"backupDir"`
	DirectoriesToBackup []string `yaml:"directoriesToBackup,omitempty"`
	StateFile           string   `yaml:"stateFile,omitempty"`
	BackupsToKeep       int      `yaml:"backupsToKeep,omitempty"`
	MinFreeSpace        string   `yaml:"minFreeSpace,omitempty"`
	Schedule            string   `yaml:"schedule,omitempty"`
	LogFile             string   `yaml:"logFile,omitempty"`

	minFreeSpaceParsed uint64 // set implicitly by parsing MinFreeSpace
	path               string
}

// INIT CONFIG WITH DEFAULT VALUES
func NewConfig() *Config {
	return &Config{
		DirectoriesToBackup: []string{},
	}
}

// LOAD CONFIG
// An explicitly given file must exist. Otherwise config.json is looked up in
// the working directory and then next to the executable; if neither exists
// the defaults are used.
func LoadConfig(explicit string) (*Config, error) {
	if explicit != "" {
		return readConfig(explicit)
	}

	for _, candidate := range configCandidates() {
		if _, err := os.Stat(candidate); err == nil {
			return readConfig(candidate)
		}
	}

	style.InfoLite("No %s found, using defaults.", ConfigFileDefault)
	return NewConfig(), nil
}

func configCandidates() []string {
	candidates := []string{ConfigFileDefault}
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), ConfigFileDefault))
	}
	return candidates
}

func readConfig(path string) (*Config, error) {
	style.Plain("Reading config file %q... ", path)
	data, err := os.ReadFile(path)
	if err != nil {
		style.PlainLn("")
		var perr *os.PathError
		if errors.As(err, &perr) {
			return nil, fmt.Errorf("%q: %v", perr.Path, perr.Err)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	style.Ok("")

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cfg.path = path
	return cfg, nil
}

// VALIDATE CONFIG
func (c *Config) validate() error {
	if c.BackupsToKeep < 0 {
		style.WarnLite("%q value increased from '%d' to '0' (keep all backups).", "backupsToKeep", c.BackupsToKeep)
		c.BackupsToKeep = 0
	}

	if c.MinFreeSpace != "" {
		parsed, err := humanize.ParseBytes(c.MinFreeSpace)
		if err != nil {
			return fmt.Errorf("%q value %q has invalid format (e.g. '500mb', '10gb'): %w", "minFreeSpace", c.MinFreeSpace, err)
		}
		c.minFreeSpaceParsed = parsed
	}

	if c.Schedule != "" {
		if _, err := cron.ParseStandard(c.Schedule); err != nil {
			return fmt.Errorf("%q value %q is not a valid cron expression: %w", "schedule", c.Schedule, err)
		}
	}

	// Extra directories must be plain names below the Medal directory; defaults and repeats are dropped.
	seen := map[string]bool{}
	for _, d := range archive.DefaultSubdirectories {
		seen[d] = true
	}
	extras := make([]string, 0, len(c.DirectoriesToBackup))
	for _, d := range c.DirectoriesToBackup {
		d = strings.TrimSpace(d)
		if d == "" || seen[d] {
			continue
		}
		if !filepath.IsLocal(d) {
			return fmt.Errorf("%q entry %q must be a path inside the Medal directory", "directoriesToBackup", d)
		}
		seen[d] = true
		extras = append(extras, d)
	}
	c.DirectoriesToBackup = extras

	return nil
}

// Subdirectories returns the default set followed by the configured extras.
func (c *Config) Subdirectories() []string {
	dirs := make([]string, 0, len(archive.DefaultSubdirectories)+len(c.DirectoriesToBackup))
	dirs = append(dirs, archive.DefaultSubdirectories...)
	return append(dirs, c.DirectoriesToBackup...)
}
