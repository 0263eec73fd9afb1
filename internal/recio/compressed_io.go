// Copyright (c) 2025 Neomantra Corp
// Writer compression helper for the raw-record archive sink.
//
// Adapted from Neomantra's Gist, but simplified to only support zstd.:
//
// https://gist.github.com/neomantra/691a6028cdf2ac3fc6ec97d00e8ea802
//

package recio

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
)

///////////////////////////////////////////////////////////////////////////////

// SessionFilename substitutes the literal token "YYYYMMDD" in pathTemplate
// with sessionDate formatted as an 8-digit trading-session date, so an
// archive sink rotates to a new file per session rather than appending
// forever to one. A template with no such token is returned unchanged, so
// a single continuously-appended file is still a supported configuration.
func SessionFilename(pathTemplate string, sessionDate time.Time) string {
	return strings.ReplaceAll(pathTemplate, "YYYYMMDD", sessionDate.Format("20060102"))
}

// MakeCompressedWriter returns an io.Writer for filename, or os.Stdout if
// filename is "-". Also returns a closing function to defer and any error.
// If filename ends in ".zst"/".zstd", or useZstd is true, the writer
// zstd-compresses its output. Used by the publisher's archive sink
// (process.ArchivePublisher) to tee normalized records to a replay file alongside
// the live downstream bus, per SPEC_FULL.md §3.
func MakeCompressedWriter(filename string, useZstd bool) (io.Writer, func(), error) {
	var writer io.Writer
	var closer io.Closer
	fileCloser := func() {
		if closer != nil {
			closer.Close()
		}
	}
	if filename != "-" {
		file, err := os.Create(filename)
		if err != nil {
			return nil, nil, err
		}
		writer, closer = file, file
	} else {
		writer, closer = os.Stdout, nil
	}

	if useZstd || strings.HasSuffix(filename, ".zst") || strings.HasSuffix(filename, ".zstd") {
		zstdWriter, err := zstd.NewWriter(writer)
		if err != nil {
			fileCloser()
			return nil, nil, err
		}
		zstdCloser := func() {
			zstdWriter.Close()
			fileCloser()
		}
		return zstdWriter, zstdCloser, nil
	}
	return writer, fileCloser, nil
}
