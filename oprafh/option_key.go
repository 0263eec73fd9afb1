// Copyright (c) 2024 Neomantra Corp

package oprafh

import "fmt"

// RootSymbolLen is the fixed, zero-padded width of an option's root symbol.
const RootSymbolLen = 5

// OptionKey identifies a listed option. It is a fixed-size value carrying
// 16 bytes of key data (the Go struct is larger with alignment padding),
// equality-hashable, per spec.md §3: structural equality defines identity.
type OptionKey struct {
	Root      [RootSymbolLen]byte // up to 5 ASCII characters, zero-padded
	Year      uint8                // expiration year, 0-99
	Month     uint8                // expiration month, 1-12
	Day       uint8                // expiration day, 1-31
	PutCall   PutCall              // 'P' or 'C'
	Exchange  byte                 // exchange participant identifier
	Decimal   uint32               // strike-price decimal portion
	Fraction  uint16               // strike-price fractional portion
}

// NewOptionKey builds an OptionKey from a root symbol string, padding or
// truncating it to RootSymbolLen bytes.
func NewOptionKey(root string, year, month, day uint8, pc PutCall, exchange byte, decimal uint32, fraction uint16) OptionKey {
	var k OptionKey
	n := copy(k.Root[:], root)
	for i := n; i < RootSymbolLen; i++ {
		k.Root[i] = 0
	}
	k.Year = year
	k.Month = month
	k.Day = day
	k.PutCall = pc
	k.Exchange = exchange
	k.Decimal = decimal
	k.Fraction = fraction
	return k
}

// RootString returns the root symbol with its zero padding trimmed.
func (k OptionKey) RootString() string {
	return TrimPadding(k.Root[:])
}

// String renders a human-readable debug form, not the wire topic.
func (k OptionKey) String() string {
	return fmt.Sprintf("%s %02d%02d%02d%c %d.%d@%c", k.RootString(), k.Year, k.Month, k.Day,
		k.PutCall, k.Decimal, k.Fraction, k.Exchange)
}

// hash32 is a 32-bit mixing hash over the 16-byte key, per spec.md §4.1.
// It is an FNV-1a variant, matching the byte-at-a-time mixing style the
// rest of the corpus uses for small fixed-size keys.
func (k OptionKey) hash32() uint32 {
	const offsetBasis = 2166136261
	const prime = 16777619
	h := uint32(offsetBasis)
	mix := func(b byte) {
		h ^= uint32(b)
		h *= prime
	}
	for _, b := range k.Root {
		mix(b)
	}
	mix(k.Year)
	mix(k.Month)
	mix(k.Day)
	mix(byte(k.PutCall))
	mix(k.Exchange)
	mix(byte(k.Decimal))
	mix(byte(k.Decimal >> 8))
	mix(byte(k.Decimal >> 16))
	mix(byte(k.Decimal >> 24))
	mix(byte(k.Fraction))
	mix(byte(k.Fraction >> 8))
	return h
}
