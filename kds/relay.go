package kds

import "context"

// Relay carries published payloads between processes. Without a relay the
// hub delivers in-process only.
type Relay interface {
	Publish(ctx context.Context, group string, payload []byte) error
	// Subscribe blocks until ctx is done, calling deliver for every payload
	// published by any process, this one included.
	Subscribe(ctx context.Context, deliver func(group string, payload []byte)) error
	Close() error
}
