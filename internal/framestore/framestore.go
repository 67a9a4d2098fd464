package framestore

import (
	"context"
	"io"
)

// FrameStore holds captured frame payloads. It is not authoritative for
// photo existence; the registry is. Frames are written once at capture and
// read back for regeneration and download.
type FrameStore interface {
	Save(ctx context.Context, mimeType string, r io.Reader) (storageKey string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, storageKey string) error
}
