// Copyright (c) 2024 Neomantra Corp
//
// Publisher is the narrow side-effect surface the message processor talks
// to, per spec.md §9's redesign note: the original's ~100 named plugin
// hooks are narrowed to send/flush/register_topic.

package process

import "github.com/NimbleMarkets/opra-fh/oprafh"

// Publisher is the collaborator that takes serialized records off the hot
// path. Implementations must not block the ingest loop for long; a
// network- or disk-backed Publisher should buffer internally and do its
// own backpressure handling out of band.
type Publisher interface {
	// Send hands one serialized wire record to the publisher. Topic
	// identifies which option (or control channel) the record concerns.
	Send(topic string, record []byte) error
	// Flush releases any batched transmission unit. Called once per
	// packet at the end of the ingest loop's per-packet iteration.
	Flush() error
	// RegisterTopic is called once, when an option entry is first
	// inserted into the table, satisfying oprafh.TopicRegistrar.
	RegisterTopic(entry *oprafh.OptionEntry)
}

// NullPublisher discards every record. Useful in tests and as the
// zero-value default for a processor constructed without an explicit
// Publisher.
type NullPublisher struct{}

func (NullPublisher) Send(string, []byte) error         { return nil }
func (NullPublisher) Flush() error                      { return nil }
func (NullPublisher) RegisterTopic(*oprafh.OptionEntry) {}
