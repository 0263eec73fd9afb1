// Copyright (c) 2024 Neomantra Corp
//
// Decoder implements the OPRA FAST v2 subset of the FIX Adapted for
// STreaming codec: three value types, four operators, and a presence-map
// framed message body, per spec.md §4.2. It is a decoder only -- it does
// not implement decimal fields, group/sequence templates, or encoding.

package fast

// cell is the decoder's per-(template,slot) cached value, per spec.md
// §4.2: "one cell per (template_id, slot_index), storing last-seen i32,
// u32, and string together with a 'valid' flag."
type cell struct {
	u32   uint32
	i32   int32
	str   []byte
	valid bool
}

// Decoder is a stateful FAST decoder. A Decoder must not be shared across
// concurrently-decoded packets; the ingest loop owns one Decoder per
// FT line.
type Decoder struct {
	cache [MaxTemplateID + 1][MaxSlot + 1]cell

	buf []byte
	pos int

	pmapBits   uint64
	pmapCursor int

	inMessage bool
}

// NewDecoder returns a Decoder with empty cached state.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// BeginMessage reads the presence map for a new message out of buf and
// arms the decoder to serve Decode* calls against it. It rejects nested
// calls (a prior BeginMessage without a matching EndMessage), per spec.md
// §4.2. The returned presenceBits is the raw presence-map bitmask, bit i
// set meaning the i'th optional field's bytes are on the wire.
func (d *Decoder) BeginMessage(buf []byte) (presenceBits uint64, err error) {
	if d.inMessage {
		return 0, ErrCallSeq
	}
	bits, _, nbytes, err := readPresenceMap(buf)
	if err != nil {
		return 0, err
	}
	d.buf = buf
	d.pos = nbytes
	d.pmapBits = bits
	d.pmapCursor = 0
	d.inMessage = true
	return bits, nil
}

// DecodeTemplateID reads the mandatory template-identifier field that
// immediately follows the presence map on every message, per spec.md §6:
// "a presence map, followed by a template-identifier field and the
// message body." The template id selects which per-(template,slot) cache
// space the rest of the message's tags address, so it cannot itself be
// read through the tag-cache system -- it is always present, never
// cached, and always a plain stop-bit unsigned integer.
func (d *Decoder) DecodeTemplateID() (uint8, error) {
	if !d.inMessage {
		return 0, ErrCallSeq
	}
	v, newPos, err := readVarUint(d.buf, d.pos)
	if err != nil {
		return 0, err
	}
	d.pos = newPos
	return uint8(v), nil
}

// EndMessage is a no-op consistency check: it clears the in-message flag
// and fails with ErrCallSeq if called without a matching BeginMessage.
func (d *Decoder) EndMessage() error {
	if !d.inMessage {
		return ErrCallSeq
	}
	d.inMessage = false
	return nil
}

// Consumed reports how many bytes of the buffer passed to BeginMessage
// have been read so far. The ingest loop uses this after a message's
// fields are fully decoded to find where the next message in the packet
// begins, since FAST messages are self-delimiting rather than length-
// prefixed.
func (d *Decoder) Consumed() int {
	return d.pos
}

// nextPresenceBit consumes and returns the next presence-map bit. Bits
// past the end of the presence map this message actually carried read as
// zero (absent), which only matters for malformed packets.
func (d *Decoder) nextPresenceBit() bool {
	bit := (d.pmapBits >> uint(d.pmapCursor)) & 1
	d.pmapCursor++
	return bit != 0
}

// DecodeU32 decodes an unsigned integer field per tag's operator.
func (d *Decoder) DecodeU32(tag Tag) (uint32, error) {
	if !d.inMessage {
		return 0, ErrCallSeq
	}
	if tag.Type() != ValueType_U32 {
		return 0, ErrBadTagType
	}
	c := &d.cache[tag.TemplateID()][tag.Slot()]

	if tag.Op() == Operator_Delta {
		if !d.nextPresenceBit() {
			if !c.valid {
				return 0, ErrMissingValue
			}
			return c.u32, nil
		}
		v, newPos, err := readVarUint(d.buf, d.pos)
		if err != nil {
			return 0, err
		}
		d.pos = newPos
		if c.valid {
			c.u32 += v
		} else {
			c.u32 = v
			c.valid = true
		}
		return c.u32, nil
	}

	present := d.nextPresenceBit()
	switch tag.Op() {
	case Operator_None:
		if !present {
			return 0, ErrMissingValue
		}
		v, newPos, err := readVarUint(d.buf, d.pos)
		if err != nil {
			return 0, err
		}
		d.pos = newPos
		return v, nil

	case Operator_Copy:
		if present {
			v, newPos, err := readVarUint(d.buf, d.pos)
			if err != nil {
				return 0, err
			}
			d.pos = newPos
			c.u32 = v
			c.valid = true
			return v, nil
		}
		if !c.valid {
			return 0, ErrMissingValue
		}
		return c.u32, nil

	case Operator_Incr:
		if present {
			v, newPos, err := readVarUint(d.buf, d.pos)
			if err != nil {
				return 0, err
			}
			d.pos = newPos
			c.u32 = v
			c.valid = true
			return v, nil
		}
		if !c.valid {
			return 0, ErrMissingValue
		}
		c.u32++
		return c.u32, nil

	default:
		return 0, ErrBadOp
	}
}

// DecodeI32 decodes a signed integer field per tag's operator.
func (d *Decoder) DecodeI32(tag Tag) (int32, error) {
	if !d.inMessage {
		return 0, ErrCallSeq
	}
	if tag.Type() != ValueType_I32 {
		return 0, ErrBadTagType
	}
	c := &d.cache[tag.TemplateID()][tag.Slot()]

	if tag.Op() == Operator_Delta {
		if !d.nextPresenceBit() {
			if !c.valid {
				return 0, ErrMissingValue
			}
			return c.i32, nil
		}
		v, newPos, err := readVarInt(d.buf, d.pos)
		if err != nil {
			return 0, err
		}
		d.pos = newPos
		if c.valid {
			c.i32 += v
		} else {
			c.i32 = v
			c.valid = true
		}
		return c.i32, nil
	}

	present := d.nextPresenceBit()
	switch tag.Op() {
	case Operator_None:
		if !present {
			return 0, ErrMissingValue
		}
		v, newPos, err := readVarInt(d.buf, d.pos)
		if err != nil {
			return 0, err
		}
		d.pos = newPos
		return v, nil

	case Operator_Copy:
		if present {
			v, newPos, err := readVarInt(d.buf, d.pos)
			if err != nil {
				return 0, err
			}
			d.pos = newPos
			c.i32 = v
			c.valid = true
			return v, nil
		}
		if !c.valid {
			return 0, ErrMissingValue
		}
		return c.i32, nil

	case Operator_Incr:
		if present {
			v, newPos, err := readVarInt(d.buf, d.pos)
			if err != nil {
				return 0, err
			}
			d.pos = newPos
			c.i32 = v
			c.valid = true
			return v, nil
		}
		if !c.valid {
			return 0, ErrMissingValue
		}
		c.i32++
		return c.i32, nil

	default:
		return 0, ErrBadOp
	}
}

// DecodeStr decodes a string field per tag's operator into buf, returning
// the decoded length. It fails with ErrSize if the decoded string does not
// fit in buf.
func (d *Decoder) DecodeStr(tag Tag, buf []byte) (int, error) {
	if !d.inMessage {
		return 0, ErrCallSeq
	}
	if tag.Type() != ValueType_Str {
		return 0, ErrBadTagType
	}
	c := &d.cache[tag.TemplateID()][tag.Slot()]

	if tag.Op() == Operator_Delta {
		if !d.nextPresenceBit() {
			if !c.valid {
				return 0, ErrMissingValue
			}
			return copyOut(buf, c.str, nil, false)
		}
		tail, newPos, err := readVarStr(d.buf, d.pos, nil)
		if err != nil {
			return 0, err
		}
		d.pos = newPos
		if !c.valid {
			// Baseline: the full string is on the wire.
			return copyOut(buf, tail, c, true)
		}
		if len(tail) > len(c.str) {
			return 0, ErrDeltaStringLength
		}
		prefixLen := len(c.str) - len(tail)
		merged := append(append([]byte(nil), c.str[:prefixLen]...), tail...)
		if len(merged) != len(c.str) {
			return 0, ErrDeltaStringLength
		}
		return copyOut(buf, merged, c, true)
	}

	present := d.nextPresenceBit()
	switch tag.Op() {
	case Operator_None:
		if !present {
			return 0, ErrMissingValue
		}
		v, newPos, err := readVarStr(d.buf, d.pos, nil)
		if err != nil {
			return 0, err
		}
		d.pos = newPos
		return copyOut(buf, v, nil, false)

	case Operator_Copy:
		if present {
			v, newPos, err := readVarStr(d.buf, d.pos, nil)
			if err != nil {
				return 0, err
			}
			d.pos = newPos
			return copyOut(buf, v, c, true)
		}
		if !c.valid {
			return 0, ErrMissingValue
		}
		return copyOut(buf, c.str, nil, false)

	default:
		return 0, ErrBadOp
	}
}

// copyOut copies src into dst, failing with ErrSize on overflow, and
// optionally updates the cache cell to the copied value.
func copyOut(dst []byte, src []byte, c *cell, store bool) (int, error) {
	if len(src) > len(dst) {
		return 0, ErrSize
	}
	n := copy(dst, src)
	if store && c != nil {
		c.str = append(c.str[:0], src...)
		c.valid = true
	}
	return n, nil
}
