// Package config holds the settings for the cifmeta tools.
//
// Settings come from, in increasing order of priority, the defaults, a
// TOML file, a .env file, the environment (CIFMETA_*) and finally the
// command line, which is the caller's business.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/andrew-torda/cifmeta/pdb/cifio"
	"github.com/andrew-torda/cifmeta/pkg/crystal"
)

// ErrNotFound is returned when a config file was named but is not there.
var ErrNotFound = errors.New("config file not found")

// EnvPrefix starts the name of every environment variable we look at.
const EnvPrefix = "CIFMETA_"

// Config is everything that can be set. The toml names are the ones
// used in the file and, upper cased with EnvPrefix, in the environment.
type Config struct {
	MaxAtoms      int      `toml:"max_atoms"`      // unique positions allowed in a structure
	StrictFormula bool     `toml:"strict_formula"` // junk in a formula is an error
	Readers       int      `toml:"readers"`        // files read at once by scan
	LogLevel      string   `toml:"log_level"`
	LogFormat     string   `toml:"log_format"`
	CODBaseURL    string   `toml:"cod_base_url"`
	CODGzip       bool     `toml:"cod_gzip"`
	LoopTags      []string `toml:"loop_tags"` // empty means the standard atom_site names
}

// Default values.
const (
	DefaultMaxAtoms = 500
	DefaultReaders  = 4
)

// Default returns the settings used when nothing else is given.
func Default() *Config {
	return &Config{
		MaxAtoms:   DefaultMaxAtoms,
		Readers:    DefaultReaders,
		LogLevel:   "info",
		LogFormat:  "text",
		CODBaseURL: cifio.DefaultBaseURL,
	}
}

// Load starts from Default and reads the TOML file path over it.
// An empty path just gives the defaults. Keys we do not know are an
// error, since they are probably spelling mistakes.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	md, err := toml.DecodeFile(path, c)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if un := md.Undecoded(); len(un) > 0 {
		return nil, fmt.Errorf("config %s: unknown keys %v", path, un)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// LookupFunc has the same signature as os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// EnvLookup reads the .env file dotenv, if there is one, and returns a
// lookup that gives the real environment first and then the file.
// A missing .env file is not an error.
func EnvLookup(dotenv string) (LookupFunc, error) {
	vals := map[string]string{}
	if dotenv != "" {
		var err error
		vals, err = godotenv.Read(dotenv)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", dotenv, err)
		}
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := vals[key]
		return v, ok
	}, nil
}

// ApplyEnv overwrites settings with any CIFMETA_ variables that lookup
// finds.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		return strings.TrimSpace(v), ok
	}
	ints := []struct {
		name string
		dst  *int
	}{
		{"MAX_ATOMS", &c.MaxAtoms},
		{"READERS", &c.Readers},
	}
	for _, e := range ints {
		if v, ok := get(e.name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, e.name, err)
			}
			*e.dst = n
		}
	}
	bools := []struct {
		name string
		dst  *bool
	}{
		{"STRICT_FORMULA", &c.StrictFormula},
		{"COD_GZIP", &c.CODGzip},
	}
	for _, e := range bools {
		if v, ok := get(e.name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, e.name, err)
			}
			*e.dst = b
		}
	}
	strs := []struct {
		name string
		dst  *string
	}{
		{"LOG_LEVEL", &c.LogLevel},
		{"LOG_FORMAT", &c.LogFormat},
		{"COD_BASE_URL", &c.CODBaseURL},
	}
	for _, e := range strs {
		if v, ok := get(e.name); ok {
			*e.dst = v
		}
	}
	if v, ok := get("LOOP_TAGS"); ok {
		c.LoopTags = strings.Fields(strings.ReplaceAll(v, ",", " "))
	}
	return c.Validate()
}

// Validate checks the numbers are sensible and there are the right
// number of loop tags.
func (c *Config) Validate() error {
	if c.MaxAtoms < 0 {
		return fmt.Errorf("max_atoms %d is negative", c.MaxAtoms)
	}
	if c.Readers < 1 {
		return fmt.Errorf("readers is %d, need at least 1", c.Readers)
	}
	if n := len(c.LoopTags); n != 0 && n != crystal.NLoopCol {
		return fmt.Errorf("loop_tags has %d names, need %d", n, crystal.NLoopCol)
	}
	return nil
}

// SiteTags gives the tags to use for the site loop.
func (c *Config) SiteTags() [crystal.NLoopCol]string {
	if len(c.LoopTags) != crystal.NLoopCol {
		return crystal.GetLoopTags()
	}
	var t [crystal.NLoopCol]string
	copy(t[:], c.LoopTags)
	return t
}
