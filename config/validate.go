// Copyright (c) 2024 Neomantra Corp
//
// Validate fails closed: any malformed value aborts the process before the
// ingest loop starts, per spec.md §7's "configuration invalid" fatal-error
// category -- this is deliberately stricter than the per-packet error
// handling the ingest loop itself uses, since a bad config can't be
// recovered from mid-run.

package config

import (
	"fmt"
	"time"
)

// Validate checks every field spec.md §6 names and returns the first
// problem found.
func (c *Config) Validate() error {
	if c.TableSize <= 0 {
		return fmt.Errorf("config: table_size must be positive, got %d", c.TableSize)
	}
	if c.SeqJumpThreshold <= 0 {
		return fmt.Errorf("config: seq_jump_threshold must be positive, got %d", c.SeqJumpThreshold)
	}
	if _, err := c.PartialPublishMode(); err != nil {
		return err
	}

	if c.LineStatusEnable {
		if _, err := time.ParseDuration(c.LineStatusPeriod); err != nil {
			return fmt.Errorf("config: line_status_period: %w", err)
		}
	}
	if c.PeriodicStats {
		if _, err := time.ParseDuration(c.PeriodicStatsInterval); err != nil {
			return fmt.Errorf("config: periodic_stats_interval: %w", err)
		}
	}

	if err := c.TopicFmt.validate(); err != nil {
		return err
	}

	if len(c.ALines) != len(c.BLines) {
		return fmt.Errorf("config: a_lines and b_lines must have the same length, got %d and %d", len(c.ALines), len(c.BLines))
	}
	for i := range c.ALines {
		a, b := c.ALines[i], c.BLines[i]
		if a.Enable != b.Enable {
			return fmt.Errorf("config: line %d: a_lines and b_lines must be enabled/disabled together", i)
		}
		if !a.Enable {
			continue
		}
		if err := a.validate(i, "a_lines"); err != nil {
			return err
		}
		if err := b.validate(i, "b_lines"); err != nil {
			return err
		}
	}

	numLines := len(c.ALines)
	for _, p := range c.Processes {
		if p.LineFrom < 0 || p.LineTo < p.LineFrom || p.LineTo >= numLines {
			return fmt.Errorf("config: process cpu %d: line range [%d,%d] out of bounds for %d lines", p.CPU, p.LineFrom, p.LineTo, numLines)
		}
	}

	return nil
}

func (l LineConfig) validate(index int, field string) error {
	if l.Address == "" {
		return fmt.Errorf("config: %s[%d]: address is required", field, index)
	}
	if l.Port <= 0 || l.Port > 65535 {
		return fmt.Errorf("config: %s[%d]: port %d out of range", field, index, l.Port)
	}
	return nil
}

func (t TopicFormatConfig) validate() error {
	if len(t.StanzaList) == 0 {
		return fmt.Errorf("config: topic_fmt.stanza_list must not be empty")
	}
	if t.NumStanzas != 0 && t.NumStanzas != len(t.StanzaList) {
		return fmt.Errorf("config: topic_fmt.num_stanzas (%d) disagrees with stanza_list length (%d)", t.NumStanzas, len(t.StanzaList))
	}
	return nil
}
