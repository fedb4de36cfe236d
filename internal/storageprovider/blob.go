package storageprovider

import (
	"context"
	"io"

	"github.com/alloyengine/peek/internal/storageutil"
	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"
)

// Blob implements storageutil.ObjectHandler over a gocloud.dev bucket. It
// covers the file and in-memory buckets used for development and tests as
// well as any portable bucket URL.
type Blob struct {
	Bucket *blob.Bucket
}

// Put writes a file to the storage provider with name being the path.
func (b *Blob) Put(ctx context.Context, name string) (io.WriteCloser, error) {
	return b.Bucket.NewWriter(ctx, name, nil)
}

// Get reads a file from the storage provider with name being the path.
// If a key was not found, it will return ErrObjectNotFound.
func (b *Blob) Get(ctx context.Context, name string) (storageutil.ReadSizeCloser, error) {
	r, err := b.Bucket.NewReader(ctx, name, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, storageutil.ErrObjectNotFound
		}

		return nil, err
	}

	return r, nil
}
