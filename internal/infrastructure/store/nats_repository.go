// Copyright Advisorly and each contributor to Advisorly.
// SPDX-License-Identifier: MIT

// Package store contains the NATS JetStream key-value repositories for the
// consultation service. Each entity lives in its own KV bucket; updates use
// the entry revision as a compare-and-swap precondition.
package store

import (
	"context"

	"github.com/nats-io/nats.go/jetstream"
)

// NATS Key-Value store bucket names.
const (
	// KVStoreNameBookings is the name of the KV store for bookings.
	KVStoreNameBookings = "bookings"
	// KVStoreNameMeetings is the name of the KV store for meetings.
	KVStoreNameMeetings = "meetings"
	// KVStoreNameWaitingRoom is the name of the KV store for waiting room entries.
	KVStoreNameWaitingRoom = "waiting-room"
	// KVStoreNameChatMessages is the name of the KV store for meeting chat messages.
	KVStoreNameChatMessages = "chat-messages"
	// KVStoreNameChatAttachments is the name of the KV store for meeting file attachments.
	KVStoreNameChatAttachments = "chat-attachments"
)

// INatsKeyValue is the NATS KV interface needed by the repositories.
type INatsKeyValue interface {
	ListKeys(context.Context, ...jetstream.WatchOpt) (jetstream.KeyLister, error)
	Get(ctx context.Context, key string) (jetstream.KeyValueEntry, error)
	Put(context.Context, string, []byte) (uint64, error)
	Update(context.Context, string, []byte, uint64) (uint64, error)
	Delete(context.Context, string, ...jetstream.KVDeleteOpt) error
}
