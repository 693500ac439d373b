// Package config holds the search settings that are unmarshalled from
// Viper: defaults, an optional YAML settings file, SWSEARCH_* environment
// variables and bound command line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/aria-lang/swsearch-go/internal/alignment"
	"github.com/aria-lang/swsearch-go/internal/search"
)

// Keys understood by Load.
const (
	KeyGapExistence     = "gap-existence"
	KeyGapExtension     = "gap-extension"
	KeyExpect           = "expect"
	KeyWorkers          = "workers"
	KeyMatrix           = "matrix"
	KeyProgress         = "progress"
	KeyFormat           = "format"
	KeyDescriptionWidth = "description-width"
	KeyServerAddr       = "server.addr"
	KeyServerDB         = "server.db"
	KeyServerIndex      = "server.index"
)

// Output formats.
const (
	FormatText = "text"
	FormatYAML = "yaml"
)

// EnvPrefix is prepended to environment variable names, so "gap-existence"
// is read from SWSEARCH_GAP_EXISTENCE.
const EnvPrefix = "SWSEARCH"

// ErrInvalid is wrapped by every validation error returned from Load.
var ErrInvalid = errors.New("invalid configuration")

// ServerConfig is read by swsearch-server only.
type ServerConfig struct {
	// address to listen on
	Addr string `mapstructure:"addr"`

	// FASTA database searched by /api/search, optional
	DB string `mapstructure:"db"`

	// index of DB, defaults to DB + ".idx"
	Index string `mapstructure:"index"`
}

// Config is the root-level settings struct.
type Config struct {
	// gap penalty for a gap of length k is GapExistence + (k-1)*GapExtension
	GapExistence int `mapstructure:"gap-existence"`
	GapExtension int `mapstructure:"gap-extension"`

	// hits with a larger E-value are dropped
	Expect float64 `mapstructure:"expect"`

	// parallel engines, 0 means one per CPU
	Workers int `mapstructure:"workers"`

	// "blosum62", "blosum50" or the path of a matrix file
	Matrix string `mapstructure:"matrix"`

	// show a progress bar on stderr
	Progress bool `mapstructure:"progress"`

	// "text" or "yaml"
	Format string `mapstructure:"format"`

	// columns given to the subject description in summary lines
	DescriptionWidth int `mapstructure:"description-width"`

	Server ServerConfig `mapstructure:"server"`

	matrix alignment.SubstitutionMatrix
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	gap := alignment.DefaultGapPenalty()
	v.SetDefault(KeyGapExistence, gap.Existence)
	v.SetDefault(KeyGapExtension, gap.Extension)
	v.SetDefault(KeyExpect, search.DefaultExpect)
	v.SetDefault(KeyWorkers, 0)
	v.SetDefault(KeyMatrix, "blosum62")
	v.SetDefault(KeyProgress, false)
	v.SetDefault(KeyFormat, FormatText)
	v.SetDefault(KeyDescriptionWidth, 60)
	v.SetDefault(KeyServerAddr, "localhost:8080")
	v.SetDefault(KeyServerDB, "")
	v.SetDefault(KeyServerIndex, "")
}

// New returns a Viper instance with defaults set and environment lookup
// enabled.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile merges the YAML settings file at path into v. An empty path is
// a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	return nil
}

// Load decodes v into a Config, resolves the substitution matrix and
// validates the result.
func Load(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	m, err := alignment.MatrixByName(c.Matrix)
	if err != nil {
		return Config{}, fmt.Errorf("%w: matrix %q: %v", ErrInvalid, c.Matrix, err)
	}
	if err := m.Validate(); err != nil {
		return Config{}, fmt.Errorf("%w: matrix %q: %v", ErrInvalid, c.Matrix, err)
	}
	c.matrix = m
	if c.Server.DB != "" && c.Server.Index == "" {
		c.Server.Index = c.Server.DB + ".idx"
	}
	return c, nil
}

func (c *Config) validate() error {
	switch {
	case c.GapExistence > 0:
		return fmt.Errorf("%w: gap-existence %d is positive", ErrInvalid, c.GapExistence)
	case c.GapExtension > 0:
		return fmt.Errorf("%w: gap-extension %d is positive", ErrInvalid, c.GapExtension)
	case c.Expect <= 0:
		return fmt.Errorf("%w: expect %g must be positive", ErrInvalid, c.Expect)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers %d is negative", ErrInvalid, c.Workers)
	case c.DescriptionWidth <= 0:
		return fmt.Errorf("%w: description-width %d must be positive", ErrInvalid, c.DescriptionWidth)
	}
	switch c.Format {
	case FormatText, FormatYAML:
	default:
		return fmt.Errorf("%w: unknown format %q", ErrInvalid, c.Format)
	}
	return nil
}

// SubstitutionMatrix returns the matrix resolved by Load, or BLOSUM-62 for
// a Config that did not come from Load.
func (c Config) SubstitutionMatrix() alignment.SubstitutionMatrix {
	if c.matrix == nil {
		return alignment.BLOSUM62()
	}
	return c.matrix
}

// GapPenalty returns the configured gap costs.
func (c Config) GapPenalty() alignment.GapPenalty {
	return alignment.GapPenalty{Existence: c.GapExistence, Extension: c.GapExtension}
}

// Scoring returns the matrix and gap costs as one scoring scheme.
func (c Config) Scoring() *alignment.Scoring {
	return &alignment.Scoring{Matrix: c.SubstitutionMatrix(), Gap: c.GapPenalty()}
}

// Search returns the settings of search.Run.
func (c Config) Search() search.Config {
	return search.Config{
		Workers: c.Workers,
		Expect:  c.Expect,
		Matrix:  c.SubstitutionMatrix(),
		Gap:     c.GapPenalty(),
	}
}
