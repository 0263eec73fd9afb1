// Copyright (c) 2024 Neomantra Corp

package process

import "fmt"

var (
	// ErrUnknownCategory is returned when a message's category byte is
	// not one of the categories this processor implements.
	ErrUnknownCategory = fmt.Errorf("process: unknown category")
	// ErrUnknownBBOIndicator is returned when a category-k message's BBO
	// indicator is not one of the four defined values.
	ErrUnknownBBOIndicator = fmt.Errorf("process: unknown bbo indicator")
	// ErrSuperseded is returned when an option-level duplicate check
	// (spec.md §4.4's defense-in-depth over C3) drops a message because
	// its sequence number trails the entry's last-seen sequence number.
	ErrSuperseded = fmt.Errorf("process: message superseded by sequence")
)

func unknownTemplateError(templateID uint8) error {
	return fmt.Errorf("process: unrecognized FAST template id %d", templateID)
}
