// Copyright (c) 2024 Neomantra Corp

package oprafh

import (
	"bytes"
	"time"
)

// TrimPadding removes trailing ASCII space/NUL padding from a fixed-width
// wire field and returns a string.
func TrimPadding(b []byte) string {
	return string(bytes.TrimRight(b, " \x00"))
}

// MicrosToTime converts a microseconds-since-epoch OPRA timestamp
// (halt_time, unhalt_time) to a time.Time.
func MicrosToTime(micros int64) time.Time {
	return time.UnixMicro(micros)
}

// TimeToMicros converts a time.Time to microseconds-since-epoch.
func TimeToMicros(t time.Time) int64 {
	return t.UnixMicro()
}

// pow10 computes 10^n for n >= 0 as an int64.
func pow10(n int) int64 {
	v := int64(1)
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}

// NormalizePrice shifts the decimal point of an OPRA raw price so that all
// published prices share a single denomination convention ("ISE format"),
// per spec.md §4.4. n is the denominator code's distance from 'D': positive
// n multiplies by 10^n, negative n divides.
func NormalizePrice(raw int32, denomCode byte) float64 {
	n := int(denomCode) - int('D')
	v := float64(raw)
	if n > 0 {
		return v * float64(pow10(n))
	} else if n < 0 {
		return v / float64(pow10(-n))
	}
	return v
}

// DenormalizePrice inverts NormalizePrice. It only round-trips exactly for
// non-negative shifts, per spec.md §8 property 6.
func DenormalizePrice(price float64, denomCode byte) int32 {
	n := int(denomCode) - int('D')
	if n > 0 {
		return int32(price / float64(pow10(n)))
	} else if n < 0 {
		return int32(price * float64(pow10(-n)))
	}
	return int32(price)
}

// ExpiryFromLetter decodes OPRA's single-letter calendar-month/put-call
// encoding: 'A'..'L' are call months 1..12, 'M'..'X' are put months 1..12.
func ExpiryFromLetter(letter byte) (month int, pc PutCall, err error) {
	switch {
	case letter >= 'A' && letter <= 'L':
		return int(letter-'A') + 1, PutCall_Call, nil
	case letter >= 'M' && letter <= 'X':
		return int(letter-'M') + 1, PutCall_Put, nil
	default:
		return 0, 0, unexpectedBytesError(int(letter), int('A'))
	}
}

// StrikeComponents splits an OPRA explicit-strike integer into its decimal
// and fractional parts given the denominator code, per spec.md §4.4. The
// denominator is 10^n where n is the code's distance from '@'; a negative n
// (a denominator code below '@') is malformed wire data and is rejected,
// per the Open Question resolution in spec.md §9.
func StrikeComponents(strike int64, denomCode byte) (decimal int32, fractional int16, err error) {
	n := int(denomCode) - int('@')
	if n < 0 {
		return 0, 0, ErrInvalidDenominator
	}
	divisor := pow10(n)
	if divisor == 0 {
		// Defensive guard mirroring the original ad-hoc default; n==0
		// already yields divisor==1, and this only triggers once pow10
		// overflows to 0 for very large n.
		divisor = 1
	}
	return int32(strike / divisor), int16(strike % divisor), nil
}
