package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/opsdesk/pkg/blobx"
	"github.com/aussiebroadwan/opsdesk/pkg/slogx"
)

var (
	// ErrInvalidIndex means an image index outside [0, len) was given.
	ErrInvalidIndex = errors.New("image index out of range")
)

// ImageFile is one attachment upload as received from the handler.
type ImageFile struct {
	Data        []byte
	ContentType string
}

// The attachment lifecycle is identical for assets and tickets; only
// the owning document type differs. These helpers carry the shared
// sequencing so the two services cannot drift apart:
//
//   - add: upload every file, then append the returned references and
//     persist under a length precondition;
//   - remove: delete the blob FIRST, then splice and persist under a
//     length precondition. If the blob delete fails the document is
//     left untouched.
//
// Already-uploaded blobs from a failed add batch are not rolled back.
// That leaks objects on partial failure but never attaches a reference
// that was not uploaded.

func addImages[T any](
	ctx context.Context,
	blobs blobx.Store,
	folder string,
	id string,
	files []ImageFile,
	actor string,
	get func(ctx context.Context, id string) (T, error),
	images func(T) []string,
	replace func(ctx context.Context, id string, prevLen int, imgs []string, actor string) (T, error),
) (T, error) {
	var zero T
	l := slogx.FromContext(ctx)

	doc, err := get(ctx, id)
	if err != nil {
		return zero, err
	}
	current := images(doc)

	refs := make([]string, 0, len(files))
	for i, f := range files {
		ref, err := blobs.Upload(ctx, f.Data, f.ContentType, folder)
		if err != nil {
			l.Error("attachment upload failed mid-batch",
				slog.String("id", id),
				slog.Int("uploaded", i),
				slog.Int("batch", len(files)),
				slog.Any("error", err),
			)
			return zero, fmt.Errorf("upload image %d of %d: %w", i+1, len(files), err)
		}
		refs = append(refs, ref)
	}

	next := make([]string, 0, len(current)+len(refs))
	next = append(next, current...)
	next = append(next, refs...)

	return replace(ctx, id, len(current), next, actor)
}

func removeImage[T any](
	ctx context.Context,
	blobs blobx.Store,
	id string,
	index int,
	actor string,
	get func(ctx context.Context, id string) (T, error),
	images func(T) []string,
	replace func(ctx context.Context, id string, prevLen int, imgs []string, actor string) (T, error),
) (T, error) {
	var zero T

	doc, err := get(ctx, id)
	if err != nil {
		return zero, err
	}
	current := images(doc)

	if index < 0 || index >= len(current) {
		return zero, fmt.Errorf("%w: %d of %d", ErrInvalidIndex, index, len(current))
	}

	// Blob first. A failed delete leaves the document untouched so the
	// reference never dangles.
	if err := blobs.Delete(ctx, current[index]); err != nil {
		return zero, fmt.Errorf("delete image %d: %w", index, err)
	}

	next := make([]string, 0, len(current)-1)
	next = append(next, current[:index]...)
	next = append(next, current[index+1:]...)

	return replace(ctx, id, len(current), next, actor)
}
