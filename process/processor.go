// Copyright (c) 2024 Neomantra Corp
//
// Processor is the Message Processor (C4): per-category handlers that
// decode a FAST-framed message body into normalized wire records and
// hand them to the Publisher, per spec.md §4.4.

package process

import (
	"log/slog"
	"os"
	"time"

	"github.com/NimbleMarkets/opra-fh/directory"
	"github.com/NimbleMarkets/opra-fh/fast"
	"github.com/NimbleMarkets/opra-fh/oprafh"
)

// Processor owns the shared collaborators every category handler needs:
// the option table, the directory (for newly-inserted entries), the
// publisher, and the configured partial-publish baseline.
type Processor struct {
	Table     *oprafh.OptionTable
	Directory directory.Directory
	Publisher Publisher
	Logger    *slog.Logger
	Partial   oprafh.PartialPublishMode
	FeedType  byte

	pid         int32
	lateCounter uint64
}

// NewProcessor constructs a Processor. publisher may be nil, in which
// case NullPublisher is used; dir may be nil, in which case newly-seen
// options are inserted with no directory-backed security reference.
func NewProcessor(table *oprafh.OptionTable, dir directory.Directory, publisher Publisher, partial oprafh.PartialPublishMode, logger *slog.Logger) *Processor {
	if publisher == nil {
		publisher = NullPublisher{}
	}
	return &Processor{Table: table, Directory: dir, Publisher: publisher, Logger: logger, Partial: partial, pid: int32(os.Getpid())}
}

// perfHeader stamps the generation-time/process-id performance header
// prepended to every record this processor emits.
func (p *Processor) perfHeader(category oprafh.Category, t oprafh.Type, seq int64) PerfHeader {
	return PerfHeader{
		FeedType:         p.FeedType,
		Category:         category,
		Type:             t,
		ProcessID:        p.pid,
		GenerationMicros: time.Now().UnixMicro(),
		SequenceNumber:   seq,
	}
}

// Envelope carries the header fields the ingest loop (C5) has already
// extracted or the decoder has already read off the common header tags,
// before per-category dispatch.
type Envelope struct {
	TemplateID  TemplateID
	Category    oprafh.Category
	Type        oprafh.Type
	FTLineIndex int
}

// LateCount reports how many messages have been dropped by the
// option-level duplicate check (spec.md §4.4's defense-in-depth).
func (p *Processor) LateCount() uint64 { return p.lateCounter }

// header holds the common fields decoded off every message before
// category-specific dispatch.
type header struct {
	participant    byte
	sequenceNumber uint32
	timeMicros     uint32
	retransmission bool
}

func (p *Processor) decodeHeader(d *fast.Decoder) (header, error) {
	var h header
	participant, err := d.DecodeU32(tagParticipant)
	if err != nil {
		return h, err
	}
	seq, err := d.DecodeU32(tagSequenceNumber)
	if err != nil {
		return h, err
	}
	t, err := d.DecodeU32(tagTimeMicros)
	if err != nil {
		return h, err
	}
	retran, err := d.DecodeU32(tagRetransmission)
	if err != nil {
		return h, err
	}
	h.participant = byte(participant)
	h.sequenceNumber = seq
	h.timeMicros = t
	h.retransmission = retran != 0
	return h, nil
}

// decodeOptionFields reads the common key-bearing fields (root, year,
// day, month letter, exchange, denominator, raw strike) shared by every
// per-option template.
type optionFields struct {
	root        string
	year, day   uint8
	monthLetter byte
	exchange    byte
	denomCode   byte
	rawStrike   int64
}

func (p *Processor) decodeOptionFields(d *fast.Decoder) (optionFields, error) {
	var f optionFields
	buf := make([]byte, oprafh.RootSymbolLen)
	n, err := d.DecodeStr(tagRootSymbol, buf)
	if err != nil {
		return f, err
	}
	f.root = string(buf[:n])

	year, err := d.DecodeU32(tagExpiryYear)
	if err != nil {
		return f, err
	}
	day, err := d.DecodeU32(tagExpiryDay)
	if err != nil {
		return f, err
	}
	month, err := d.DecodeU32(tagMonthLetter)
	if err != nil {
		return f, err
	}
	exch, err := d.DecodeU32(tagExchange)
	if err != nil {
		return f, err
	}
	denom, err := d.DecodeU32(tagDenomCode)
	if err != nil {
		return f, err
	}
	strike, err := d.DecodeI32(tagRawStrike)
	if err != nil {
		return f, err
	}

	f.year = uint8(year)
	f.day = uint8(day)
	f.monthLetter = byte(month)
	f.exchange = byte(exch)
	f.denomCode = byte(denom)
	f.rawStrike = int64(strike)
	return f, nil
}

// lookupOrInsert finds the option entry for key, inserting it into the
// table (and registering its topic with the publisher) on first sighting.
func (p *Processor) lookupOrInsert(key oprafh.OptionKey, ftLineIndex int) (*oprafh.OptionEntry, error) {
	if entry, ok := p.Table.Lookup(key); ok {
		return entry, nil
	}
	var sec any
	if p.Directory != nil {
		if s, ok := p.Directory.Lookup(key.RootString()); ok {
			sec = s
		}
	}
	return p.Table.Insert(key, ftLineIndex, sec, p.Publisher)
}

// checkSupersededAndAdvance implements spec.md §4.4's option-level
// duplicate check: a message whose sequence number trails the entry's
// last-seen sequence number is dropped without mutating state.
func (p *Processor) checkSupersededAndAdvance(entry *oprafh.OptionEntry, seq uint32) bool {
	if entry.Initialized && seq < entry.LastSeqNum {
		p.lateCounter++
		return true
	}
	entry.LastSeqNum = seq
	entry.Initialized = true
	return false
}

// Process dispatches one message to its category handler by env's
// template id; the handler decodes the message body from d.
func (p *Processor) Process(env Envelope, d *fast.Decoder) error {
	switch env.TemplateID {
	case TemplateLastSale, TemplateFcoLastSale:
		return p.handleLastSale(env, d)
	case TemplateOpenInterest:
		return p.handleOpenInterest(env, d)
	case TemplateEod, TemplateFcoEod:
		return p.handleEod(env, d)
	case TemplateQuote, TemplateFcoQuote:
		return p.handleQuote(env, d)
	case TemplateUnderlying:
		return p.handleUnderlying(env, d)
	case TemplateControl:
		return p.handleControl(env, d)
	case TemplateAdmin:
		return p.handleAdmin(env, d)
	default:
		return unknownTemplateError(uint8(env.TemplateID))
	}
}
