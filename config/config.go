// Copyright (c) 2024 Neomantra Corp
//
// Package config loads and validates the YAML configuration surface named
// by spec.md §6's configuration table, in the shape of the teacher's
// LiveConfig: a plain struct, an explicit Validate step the caller runs
// before using it, and no hidden state.

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/NimbleMarkets/opra-fh/oprafh"
)

// LineConfig is one physical A-side or B-side multicast join, per spec.md
// §6's `a_lines[i] / b_lines[i]: enable, address, port, interface`.
type LineConfig struct {
	Enable    bool   `yaml:"enable"`
	Address   string `yaml:"address"`
	Port      int    `yaml:"port"`
	Interface string `yaml:"interface"`
}

// TopicFormatConfig is the `topic_fmt.*` option-topic rendering template,
// per spec.md §6.
type TopicFormatConfig struct {
	NumStanzas  int      `yaml:"num_stanzas"`
	StanzaDelim string   `yaml:"stanza_delim"`
	StanzaList  []string `yaml:"stanza_list"`
}

// ToTopicFormat converts the YAML-shaped config into an oprafh.TopicFormat.
// Nothing in this module calls it yet: the option table does not render
// topics, and OptionEntry.Topic is left empty.
func (t TopicFormatConfig) ToTopicFormat() oprafh.TopicFormat {
	return oprafh.TopicFormat{Stanzas: t.StanzaList, Delim: t.StanzaDelim}
}

// ProcessConfig is one process's CPU pinning and FT-line assignment, per
// spec.md §6's `processes[i]: cpu, line_from, line_to`.
type ProcessConfig struct {
	CPU      int `yaml:"cpu"`
	LineFrom int `yaml:"line_from"`
	LineTo   int `yaml:"line_to"`
}

// Config is the full configuration surface from spec.md §6.
type Config struct {
	TableSize int `yaml:"table_size"`

	// WrapLimitHigh and WrapLimitLow are accepted for file compatibility
	// but not acted on: the legacy sequence-number wrap path they gated is
	// vestigial in v2 with 32-bit counters, per spec.md's redesign flags --
	// seq_jump_threshold subsumes it.
	WrapLimitHigh int64 `yaml:"wrap_limit_high"`
	WrapLimitLow  int64 `yaml:"wrap_limit_low"`

	SeqJumpThreshold int64 `yaml:"seq_jump_threshold"`

	JitterStats bool `yaml:"jitter_stats"`

	// PartialPublish is "all" or "value_added", per spec.md §6.
	PartialPublish string `yaml:"partial_publish"`

	LineStatusEnable bool   `yaml:"line_status_enable"`
	LineStatusPeriod string `yaml:"line_status_period"`

	PeriodicStats         bool   `yaml:"periodic_stats"`
	PeriodicStatsInterval string `yaml:"periodic_stats_interval"`

	TopicFmt TopicFormatConfig `yaml:"topic_fmt"`

	ALines []LineConfig `yaml:"a_lines"`
	BLines []LineConfig `yaml:"b_lines"`

	Processes []ProcessConfig `yaml:"processes"`

	// ArchivePath, if non-empty, tees every published record to a
	// zstd-compressed file via internal/recio, for post-hoc replay. Ends in
	// ".zst" to be compressed, any other extension to be written raw.
	ArchivePath string `yaml:"archive_path"`

	Verbose bool `yaml:"verbose"`
}

// Load reads and parses a YAML config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &c, nil
}

// PartialPublishMode converts the config's string option to the
// oprafh.PartialPublishMode the processor uses.
func (c *Config) PartialPublishMode() (oprafh.PartialPublishMode, error) {
	switch c.PartialPublish {
	case "", "all":
		return oprafh.PartialPublishMode_All, nil
	case "value_added":
		return oprafh.PartialPublishMode_ValueAdded, nil
	default:
		return 0, fmt.Errorf("config: partial_publish: unknown mode %q", c.PartialPublish)
	}
}
