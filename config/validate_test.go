// Copyright (c) 2024 Neomantra Corp

package config_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/NimbleMarkets/opra-fh/config"
)

func validConfig() *config.Config {
	return &config.Config{
		TableSize:        1024,
		SeqJumpThreshold: 1000,
		PartialPublish:   "all",
		TopicFmt: config.TopicFormatConfig{
			NumStanzas:  2,
			StanzaDelim: ".",
			StanzaList:  []string{"OPRA.$S", "$Y$M$D$C$I$F"},
		},
		ALines: []config.LineConfig{{Enable: true, Address: "239.1.1.1", Port: 12345}},
		BLines: []config.LineConfig{{Enable: true, Address: "239.1.1.2", Port: 12346}},
		Processes: []config.ProcessConfig{
			{CPU: 2, LineFrom: 0, LineTo: 0},
		},
	}
}

var _ = Describe("Config.Validate", func() {
	It("accepts a well-formed config", func() {
		Expect(validConfig().Validate()).To(Succeed())
	})

	It("rejects a non-positive table size", func() {
		c := validConfig()
		c.TableSize = 0
		Expect(c.Validate()).To(MatchError(ContainSubstring("table_size")))
	})

	It("rejects an unknown partial_publish mode", func() {
		c := validConfig()
		c.PartialPublish = "bogus"
		Expect(c.Validate()).To(MatchError(ContainSubstring("partial_publish")))
	})

	It("rejects mismatched a_lines/b_lines lengths", func() {
		c := validConfig()
		c.BLines = nil
		Expect(c.Validate()).To(MatchError(ContainSubstring("same length")))
	})

	It("rejects a_lines/b_lines enabled independently", func() {
		c := validConfig()
		c.BLines[0].Enable = false
		Expect(c.Validate()).To(MatchError(ContainSubstring("enabled/disabled together")))
	})

	It("rejects a line missing its address", func() {
		c := validConfig()
		c.ALines[0].Address = ""
		Expect(c.Validate()).To(MatchError(ContainSubstring("address is required")))
	})

	It("rejects an empty topic_fmt.stanza_list", func() {
		c := validConfig()
		c.TopicFmt.StanzaList = nil
		Expect(c.Validate()).To(MatchError(ContainSubstring("stanza_list")))
	})

	It("rejects a topic_fmt.num_stanzas that disagrees with stanza_list length", func() {
		c := validConfig()
		c.TopicFmt.NumStanzas = 5
		Expect(c.Validate()).To(MatchError(ContainSubstring("disagrees")))
	})

	It("rejects a process whose FT-line range is out of bounds", func() {
		c := validConfig()
		c.Processes[0].LineTo = 5
		Expect(c.Validate()).To(MatchError(ContainSubstring("out of bounds")))
	})

	It("requires line_status_period to parse when line_status_enable is set", func() {
		c := validConfig()
		c.LineStatusEnable = true
		c.LineStatusPeriod = "not-a-duration"
		Expect(c.Validate()).To(MatchError(ContainSubstring("line_status_period")))
	})
})
