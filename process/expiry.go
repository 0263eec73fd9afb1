// Copyright (c) 2024 Neomantra Corp
//
// Option-key construction from raw wire fields, per spec.md §4.4's
// expiry-parsing rules: a single calendar-month letter encodes both the
// month and the put/call bit, and the strike is split into decimal and
// fractional components relative to the message's denominator code.

package process

import "github.com/NimbleMarkets/opra-fh/oprafh"

// buildOptionKey derives an OptionKey from the raw fields every OPRA
// option message carries: a root symbol, two-digit year and day, a
// calendar-month letter, an exchange participant, a raw strike integer,
// and the strike denominator code.
func buildOptionKey(root string, year, day uint8, monthLetter byte, exchange byte, rawStrike int64, denomCode byte) (oprafh.OptionKey, error) {
	month, pc, err := oprafh.ExpiryFromLetter(monthLetter)
	if err != nil {
		return oprafh.OptionKey{}, err
	}
	decimal, fractional, err := oprafh.StrikeComponents(rawStrike, denomCode)
	if err != nil {
		return oprafh.OptionKey{}, err
	}
	return oprafh.NewOptionKey(root, year, uint8(month), day, pc, exchange, uint32(decimal), fractional), nil
}
