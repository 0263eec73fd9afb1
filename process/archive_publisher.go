// Copyright (c) 2024 Neomantra Corp
//
// ArchivePublisher tees every published record to a flat, optionally
// zstd-compressed file via internal/recio, for post-hoc replay -- the
// publisher's raw-record sink named in SPEC_FULL.md §3.

package process

import (
	"bufio"
	"fmt"
	"time"

	"github.com/NimbleMarkets/opra-fh/internal/recio"
	"github.com/NimbleMarkets/opra-fh/oprafh"
)

// ArchivePublisher writes one newline-delimited JSON record per Send call
// to a file opened via internal/recio.MakeCompressedWriter, and otherwise
// discards the record (it does not itself fan out to a live downstream
// bus; wrap it alongside another Publisher for that).
type ArchivePublisher struct {
	w      *bufio.Writer
	closer func()
}

// NewArchivePublisher opens pathTemplate for archival, zstd-compressing the
// stream if the resolved filename ends in ".zst"/".zstd" or useZstd is
// true. Any "YYYYMMDD" token in pathTemplate is replaced with sessionDate,
// so a config can name one archive file per trading session rather than
// appending to a single file across restarts.
func NewArchivePublisher(pathTemplate string, sessionDate time.Time, useZstd bool) (*ArchivePublisher, error) {
	filename := recio.SessionFilename(pathTemplate, sessionDate)
	w, closer, err := recio.MakeCompressedWriter(filename, useZstd)
	if err != nil {
		return nil, fmt.Errorf("process: open archive %s: %w", filename, err)
	}
	return &ArchivePublisher{w: bufio.NewWriter(w), closer: closer}, nil
}

// Send writes record followed by a newline. topic is not recorded in the
// archive; it is implicit in each record's own Key field.
func (a *ArchivePublisher) Send(topic string, record []byte) error {
	if _, err := a.w.Write(record); err != nil {
		return err
	}
	return a.w.WriteByte('\n')
}

// Flush flushes buffered writes to the underlying file.
func (a *ArchivePublisher) Flush() error {
	return a.w.Flush()
}

// RegisterTopic is a no-op; the archive records every option's updates
// under its own Key field rather than maintaining a topic index.
func (a *ArchivePublisher) RegisterTopic(*oprafh.OptionEntry) {}

// Close flushes and releases the underlying file.
func (a *ArchivePublisher) Close() error {
	if err := a.Flush(); err != nil {
		return err
	}
	if a.closer != nil {
		a.closer()
	}
	return nil
}
