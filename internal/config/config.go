// =============================================================================
// APT Notes Converter - Configuration Module
// =============================================================================
//
// This module is responsible for loading and validating the converter
// configuration. Everything that used to be process-wide state (the sheet
// allow-list, the category labels, the toolset marker) lives in a single
// Config value that is constructed once and passed to the converter.
//
// CONFIGURATION SOURCES (lowest to highest precedence):
//   1. Built-in defaults (see Default)
//   2. YAML config file (apt-notes.yaml, or --config)
//   3. Environment variables prefixed with APT_NOTES_ (e.g. APT_NOTES_LOG_FILE)
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned (wrapped) when a configuration fails validation.
var ErrInvalid = errors.New("invalid configuration")

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "APT_NOTES"

// DefaultWorkbookName is the workbook looked up next to the executable when
// no --file flag or workbook setting is given.
const DefaultWorkbookName = "APT Groups and Operations.xlsx"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the converter configuration.
type Config struct {
	// Workbook is the path to the input workbook.
	// Empty means DefaultWorkbookName in the executable's directory.
	Workbook string `yaml:"workbook"`

	// OutputDir is the root under which one directory per sheet is created.
	// Default: "." (sheet directories land in the working directory)
	OutputDir string `yaml:"output_dir"`

	// Sheets is the allow-list of sheet names to convert, in order.
	Sheets []string `yaml:"sheets"`

	// CategoryLabels is the closed set of code-name suffixes ("Bear",
	// "Panda", ...) that make a two-word line a group reference.
	// Matching is case-sensitive.
	CategoryLabels []string `yaml:"category_labels"`

	// ToolsetMarker is the heading prefix whose following line is treated
	// as a comma-separated tool list.
	ToolsetMarker string `yaml:"toolset_marker"`

	// HeaderRow is the 1-indexed row holding the field names.
	HeaderRow int `yaml:"header_row"`

	// DataStartRow is the 1-indexed row where group rows begin.
	DataStartRow int `yaml:"data_start_row"`

	// PlaceholderKey is the literal key value that marks an unnamed row.
	PlaceholderKey string `yaml:"placeholder_key"`

	// LogFile is the path of the log file. Log lines also go to stdout.
	LogFile string `yaml:"log_file"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when nothing else is supplied.
func Default() *Config {
	return &Config{
		OutputDir: ".",
		Sheets: []string{
			"China", "Russia", "North Korea", "Iran", "Israel",
			"NATO", "Middle East", "Others", "Unknown",
		},
		CategoryLabels: []string{
			"Panda", "Bear", "Chollima", "Crane", "Kitten", "Tiger",
			"Buffalo", "Hawk", "Leopard", "Lynx", "Wolf", "Ocelot",
			"Sphinx", "Saiga", "Spider", "Jackal", "Bat",
		},
		ToolsetMarker:  "## TOOLSET / MALWARE",
		HeaderRow:      2,
		DataStartRow:   3,
		PlaceholderKey: "?",
		LogFile:        "conversion.log",
		LogLevel:       "info",
	}
}

// =============================================================================
// CONFIGURATION LOADING
// =============================================================================

// Load builds a Config from defaults, an optional YAML file and the
// environment.
//
// PARAMETERS:
//   - configPath: Path to a YAML config file. If empty, apt-notes.yaml is
//     looked up in the current directory and silently skipped if absent.
//
// RETURNS:
//   - The validated configuration.
//   - An error if an explicit file cannot be read, or validation fails.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	registerDefaults(v, Default())

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("apt-notes")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Workbook:       v.GetString("workbook"),
		OutputDir:      v.GetString("output_dir"),
		Sheets:         listValue(v, "sheets"),
		CategoryLabels: listValue(v, "category_labels"),
		ToolsetMarker:  v.GetString("toolset_marker"),
		HeaderRow:      v.GetInt("header_row"),
		DataStartRow:   v.GetInt("data_start_row"),
		PlaceholderKey: v.GetString("placeholder_key"),
		LogFile:        v.GetString("log_file"),
		LogLevel:       v.GetString("log_level"),
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes a YAML document into a Config, applying defaults for any
// unset option.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// listValue reads a list option. Environment variables arrive as a single
// string and are split on commas, so names containing spaces ("North Korea")
// survive.
func listValue(v *viper.Viper, key string) []string {
	raw, ok := v.Get(key).(string)
	if !ok {
		return v.GetStringSlice(key)
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// registerDefaults makes every key known to viper so that AutomaticEnv
// can override it.
func registerDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("workbook", d.Workbook)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("sheets", d.Sheets)
	v.SetDefault("category_labels", d.CategoryLabels)
	v.SetDefault("toolset_marker", d.ToolsetMarker)
	v.SetDefault("header_row", d.HeaderRow)
	// Zero lets applyDefaults place the data right after a custom header row.
	v.SetDefault("data_start_row", 0)
	v.SetDefault("placeholder_key", d.PlaceholderKey)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("log_level", d.LogLevel)
}

// applyDefaults sets default values for any unset configuration options.
// Sheets and CategoryLabels are only defaulted when nil, so an explicit
// empty list in YAML survives.
func applyDefaults(cfg *Config) {
	d := Default()
	if cfg.OutputDir == "" {
		cfg.OutputDir = d.OutputDir
	}
	if cfg.Sheets == nil {
		cfg.Sheets = d.Sheets
	}
	if cfg.CategoryLabels == nil {
		cfg.CategoryLabels = d.CategoryLabels
	}
	if cfg.ToolsetMarker == "" {
		cfg.ToolsetMarker = d.ToolsetMarker
	}
	if cfg.HeaderRow == 0 {
		cfg.HeaderRow = d.HeaderRow
	}
	if cfg.DataStartRow == 0 {
		cfg.DataStartRow = cfg.HeaderRow + 1
	}
	if cfg.PlaceholderKey == "" {
		cfg.PlaceholderKey = d.PlaceholderKey
	}
	if cfg.LogFile == "" {
		cfg.LogFile = d.LogFile
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = d.LogLevel
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	var problems []string

	if len(c.Sheets) == 0 {
		problems = append(problems, "sheets must not be empty")
	}
	for i, name := range c.Sheets {
		if strings.TrimSpace(name) == "" {
			problems = append(problems, fmt.Sprintf("sheets[%d] is blank", i))
		}
	}
	if strings.TrimSpace(c.ToolsetMarker) == "" {
		problems = append(problems, "toolset_marker must not be blank")
	}
	if c.HeaderRow < 1 {
		problems = append(problems, fmt.Sprintf("header_row must be >= 1, got %d", c.HeaderRow))
	}
	if c.DataStartRow <= c.HeaderRow {
		problems = append(problems, fmt.Sprintf("data_start_row (%d) must be after header_row (%d)", c.DataStartRow, c.HeaderRow))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("unknown log_level %q", c.LogLevel))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// IsAllowedSheet reports whether name is in the sheet allow-list.
func (c *Config) IsAllowedSheet(name string) bool {
	for _, s := range c.Sheets {
		if s == name {
			return true
		}
	}
	return false
}
