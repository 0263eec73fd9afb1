// Copyright (c) 2024 Neomantra Corp

package ingest_test

import (
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/NimbleMarkets/opra-fh/arbiter"
	"github.com/NimbleMarkets/opra-fh/ingest"
	"github.com/NimbleMarkets/opra-fh/oprafh"
)

var _ = Describe("StatsObserver", func() {
	var records []slog.Record
	var observer *ingest.StatsObserver

	BeforeEach(func() {
		records = nil
		observer = &ingest.StatsObserver{Logger: slog.New(capturingHandler{records: &records})}
	})

	It("logs a line event by name", func() {
		observer.OnLineEvent(2, arbiter.EventWentStale)
		Expect(records).To(HaveLen(1))
		Expect(records[0].Message).To(Equal("ft line event"))

		v, ok := attrValue(records[0], "event")
		Expect(ok).To(BeTrue())
		Expect(v.String()).To(Equal(arbiter.EventWentStale.String()))
	})

	It("logs a line status heartbeat with both sides' counters", func() {
		sideA := arbiter.SideStats{Packets: 10, Duplicates: 1, Late: 2, Losses: 3, Recoveries: 1, Bytes: 2048}
		sideB := arbiter.SideStats{Packets: 9, Duplicates: 0, Late: 0, Losses: 0, Recoveries: 0, Bytes: 1024}
		observer.OnLineStatus(1, oprafh.LineState_OK, sideA, sideB)

		Expect(records).To(HaveLen(1))
		Expect(records[0].Message).To(Equal("ft line status"))

		v, ok := attrValue(records[0], "a_packets")
		Expect(ok).To(BeTrue())
		Expect(v.String()).To(Equal("10"))
	})

	It("tolerates a nil logger", func() {
		nilObserver := &ingest.StatsObserver{}
		Expect(func() {
			nilObserver.OnLineEvent(0, arbiter.EventRecoveredToOK)
			nilObserver.OnLineStatus(0, oprafh.LineState_Stale, arbiter.SideStats{}, arbiter.SideStats{})
		}).NotTo(Panic())
	})
})

var _ = Describe("RuntimeStats", func() {
	It("renders a periodic stats snapshot without panicking", func() {
		var records []slog.Record
		logger := slog.New(capturingHandler{records: &records})
		stats := ingest.RuntimeStats{Packets: 100, Bytes: 4096, Messages: 250, LateDrops: 3}

		stats.Log(logger)

		Expect(records).To(HaveLen(1))
		Expect(records[0].Message).To(Equal("periodic stats"))
	})

	It("tolerates a nil logger", func() {
		stats := ingest.RuntimeStats{}
		Expect(func() { stats.Log(nil) }).NotTo(Panic())
	})
})
