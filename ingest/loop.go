// Copyright (c) 2024 Neomantra Corp
//
// Loop is the Ingest Loop (C5): a single-threaded cooperative scheduler
// over all FT lines owned by one process, per spec.md §4.5. Per-socket
// reads are fanned into one channel by small reader goroutines -- the Go
// analogue of a blocking select() over many file descriptors -- but every
// packet is then arbitrated, decoded, and processed on the single loop
// goroutine, preserving the "no locks on the fast path, all per-FT-line
// state thread-local" invariant of spec.md §5.

package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/NimbleMarkets/opra-fh/arbiter"
	"github.com/NimbleMarkets/opra-fh/fast"
	"github.com/NimbleMarkets/opra-fh/oprafh"
	"github.com/NimbleMarkets/opra-fh/process"
)

// readinessTimeout bounds the loop's select-equivalent wait, per spec.md
// §4.5: "Select over all sockets ... with a 100 ms timeout."
const readinessTimeout = 100 * time.Millisecond

// maxDatagramSize bounds one OPRA packet, per spec.md §6 ("max ~2 KiB");
// doubled for headroom against jumbo or coalesced datagrams.
const maxDatagramSize = 4096

// LineEndpoint names one physical socket this Loop owns: which FT line
// it feeds and which of the two sides (A/B) it is.
type LineEndpoint struct {
	FTLineIndex int
	Side        oprafh.Side
	Socket      *LineSocket
}

// arrival is one datagram read off a socket, fanned into the loop's
// single select-equivalent channel.
type arrival struct {
	endpoint LineEndpoint
	buf      []byte
	n        int
	recvTime time.Time
}

// Loop owns one process's worth of FT lines: their sockets, a shared
// Arbiter and Processor, and the per-line jitter histograms.
type Loop struct {
	Arbiter       *arbiter.Arbiter
	Processor     *process.Processor
	Logger        *slog.Logger
	JitterEnabled bool

	// PeriodicStatsInterval, if positive, is how often Loop exports a
	// RuntimeStats snapshot via StatsFunc, per spec.md §6's
	// `periodic_stats_interval`.
	PeriodicStatsInterval time.Duration
	StatsFunc             func(RuntimeStats)

	// LineStatusInterval, if positive, is how often Loop calls
	// Arbiter.ReportLineStatus for every owned line, per spec.md §6's
	// `line_status_period`.
	LineStatusInterval time.Duration

	endpoints []LineEndpoint
	jitter    map[int]*JitterHistogram

	// decoders holds one fast.Decoder per FT line: decoder cache state is
	// per-(template,slot) and must not be shared across lines, which run
	// independent message streams.
	decoders map[int]*fast.Decoder
	stats    RuntimeStats

	lastStatsAt      time.Time
	lastLineStatusAt time.Time
}

// NewLoop constructs a Loop over the given endpoints.
func NewLoop(arb *arbiter.Arbiter, proc *process.Processor, endpoints []LineEndpoint, logger *slog.Logger) *Loop {
	jitter := make(map[int]*JitterHistogram)
	decoders := make(map[int]*fast.Decoder)
	for _, ep := range endpoints {
		if _, ok := jitter[ep.FTLineIndex]; !ok {
			jitter[ep.FTLineIndex] = NewJitterHistogram(ep.FTLineIndex, logger)
			decoders[ep.FTLineIndex] = fast.NewDecoder()
		}
	}
	return &Loop{
		Arbiter:   arb,
		Processor: proc,
		Logger:    logger,
		endpoints: endpoints,
		jitter:    jitter,
		decoders:  decoders,
	}
}

// Run drains arriving datagrams until ctx is canceled, per spec.md §5's
// "shutdown flag checked each loop iteration; the loop drains no pending
// work." One reader goroutine per socket does the blocking read; Run
// itself never blocks longer than readinessTimeout.
func (l *Loop) Run(ctx context.Context) {
	arrivals := make(chan arrival, len(l.endpoints)*4)
	for _, ep := range l.endpoints {
		go l.readSocket(ctx, ep, arrivals)
	}

	timer := time.NewTimer(readinessTimeout)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case a := <-arrivals:
			l.handleDatagram(a)
			if !timer.Stop() {
				<-timer.C
			}
			timer.Reset(readinessTimeout)
		case <-timer.C:
			l.onTimeout()
			timer.Reset(readinessTimeout)
		}
	}
}

func (l *Loop) readSocket(ctx context.Context, ep LineEndpoint, out chan<- arrival) {
	buf := make([]byte, maxDatagramSize)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		ep.Socket.SetReadDeadline(time.Now().Add(readinessTimeout))
		n, err := ep.Socket.ReadDatagram(buf)
		if err != nil {
			continue // deadline expiry or transient read error; loop again
		}
		cp := make([]byte, n)
		copy(cp, buf[:n])
		select {
		case out <- arrival{endpoint: ep, buf: cp, n: n, recvTime: time.Now()}:
		case <-ctx.Done():
			return
		}
	}
}

// onTimeout runs the work spec.md §4.5 assigns to an idle readiness
// timeout: periodic stats and line-status export.
func (l *Loop) onTimeout() {
	now := time.Now()
	if l.PeriodicStatsInterval > 0 && l.StatsFunc != nil && now.Sub(l.lastStatsAt) >= l.PeriodicStatsInterval {
		l.stats.LateDrops = l.Processor.LateCount()
		l.StatsFunc(l.stats)
		l.lastStatsAt = now
	}
	if l.LineStatusInterval > 0 && now.Sub(l.lastLineStatusAt) >= l.LineStatusInterval {
		reported := make(map[int]bool)
		for _, ep := range l.endpoints {
			if reported[ep.FTLineIndex] {
				continue
			}
			reported[ep.FTLineIndex] = true
			l.Arbiter.ReportLineStatus(ep.FTLineIndex)
		}
		l.lastLineStatusAt = now
	}
}

func (l *Loop) handleDatagram(a arrival) {
	hdr, body, err := ParsePacketHeader(a.buf[:a.n])
	if err != nil {
		if l.Logger != nil {
			l.Logger.Warn("dropped malformed packet", "ft_line", a.endpoint.FTLineIndex, "error", err)
		}
		return
	}
	if l.JitterEnabled {
		if h, ok := l.jitter[a.endpoint.FTLineIndex]; ok {
			h.Observe(time.Since(a.recvTime))
		}
	}

	firstCategory, firstType := oprafh.Category(0), oprafh.Type(0)
	if len(body) >= 2 {
		firstCategory = oprafh.Category(body[0])
		firstType = oprafh.Type(body[1])
	}

	decision := l.Arbiter.Arrive(a.endpoint.FTLineIndex, a.endpoint.Side, arbiter.Packet{
		Seq:               hdr.SequenceNumber,
		Count:             hdr.MessageCount,
		Bytes:             a.n,
		Category:          firstCategory,
		Type:              firstType,
		ParticipantMicros: a.recvTime.UnixMicro(),
	})
	l.stats.Packets++
	l.stats.Bytes += uint64(a.n)
	if decision != oprafh.ArbiterDecision_Deliver {
		return
	}

	decoder, ok := l.decoders[a.endpoint.FTLineIndex]
	if !ok {
		decoder = fast.NewDecoder()
		l.decoders[a.endpoint.FTLineIndex] = decoder
	}

	offset := 0
	for i := 0; i < hdr.MessageCount; i++ {
		if offset+2 > len(body) {
			if l.Logger != nil {
				l.Logger.Warn("packet truncated mid-message", "ft_line", a.endpoint.FTLineIndex, "error", ErrTruncatedMessage)
			}
			return
		}
		category := oprafh.Category(body[offset])
		typ := oprafh.Type(body[offset+1])
		msgBuf := body[offset+2:]

		if _, err := decoder.BeginMessage(msgBuf); err != nil {
			l.logDecodeError(a.endpoint.FTLineIndex, err)
			return
		}
		templateID, err := decoder.DecodeTemplateID()
		if err != nil {
			decoder.EndMessage()
			l.logDecodeError(a.endpoint.FTLineIndex, err)
			return
		}

		env := process.Envelope{
			TemplateID:  process.TemplateID(templateID),
			Category:    category,
			Type:        typ,
			FTLineIndex: a.endpoint.FTLineIndex,
		}
		if err := l.Processor.Process(env, decoder); err != nil {
			l.logDecodeError(a.endpoint.FTLineIndex, err)
			decoder.EndMessage()
			return // one bad message invalidates our position in this packet
		}
		consumed := decoder.Consumed()
		decoder.EndMessage()
		offset += 2 + consumed
		l.stats.Messages++
	}

	// For a singleton-message packet, the header's first-message-size byte
	// should equal what the decoder actually consumed, unless it carries
	// the runsToEndOfPacket sentinel (spec.md §6). A mismatch signals a
	// framing bug rather than a wire-corruption case we can recover from,
	// so it's logged, not acted on.
	if hdr.MessageCount == 1 && hdr.FirstMsgSize != runsToEndOfPacket && int(hdr.FirstMsgSize) != offset {
		if l.Logger != nil {
			l.Logger.Warn("first-message-size header byte disagrees with decoded length",
				"ft_line", a.endpoint.FTLineIndex, "header_size", hdr.FirstMsgSize, "decoded_size", offset)
		}
	}

	if err := l.Processor.Publisher.Flush(); err != nil && l.Logger != nil {
		l.Logger.Warn("publisher flush failed", "ft_line", a.endpoint.FTLineIndex, "error", err)
	}
}

func (l *Loop) logDecodeError(ftLineIndex int, err error) {
	if l.Logger != nil {
		l.Logger.Warn("dropped malformed message", "ft_line", ftLineIndex, "error", err)
	}
}
