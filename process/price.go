// Copyright (c) 2024 Neomantra Corp
//
// Price-field decoding shared across category handlers: every OPRA price
// field is a (raw integer, denominator code) pair decoded off the wire
// and immediately normalized to the single shared denomination
// convention described in spec.md §4.4.

package process

import (
	"github.com/NimbleMarkets/opra-fh/fast"
	"github.com/NimbleMarkets/opra-fh/oprafh"
)

// decodePrice decodes a raw signed price field under priceTag and
// normalizes it using the denominator code already decoded for this
// message (OPRA messages carry one denominator code shared by all of a
// message's price fields).
func decodePrice(d *fast.Decoder, priceTag fast.Tag, denomCode byte) (float64, error) {
	raw, err := d.DecodeI32(priceTag)
	if err != nil {
		return 0, err
	}
	return oprafh.NormalizePrice(raw, denomCode), nil
}
