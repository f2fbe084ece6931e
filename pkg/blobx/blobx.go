// Package blobx abstracts the external blob store that holds ticket
// attachments. Objects are addressed by the public URL returned at
// upload time; the store derives the object key back from that URL
// when deleting.
package blobx

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable means the blob backend could not be reached or
	// rejected the call. Callers map this to an upstream failure.
	ErrUnavailable = errors.New("blobx: blob store unavailable")

	// ErrBadRef means a URL could not be resolved to an object key
	// owned by this store.
	ErrBadRef = errors.New("blobx: not a reference into this store")
)

// Store is a write/delete blob backend. Upload returns the public URL
// of the stored object; Delete removes the object a previous Upload
// returned url for. Both honour ctx cancellation and deadlines.
type Store interface {
	Upload(ctx context.Context, data []byte, contentType, folder string) (url string, err error)
	Delete(ctx context.Context, url string) error
}
