package media

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	entrymodels "io.winapps.casportfolio/internal/models/entry"
)

// maxParallelUploads bounds the fan out of one batch
const maxParallelUploads = 4

// UploadBatch uploads every file concurrently and returns the media items in
// input order. Any failure cancels the rest and no items are returned.
func UploadBatch(ctx context.Context, up Uploader, kind entrymodels.MediaKind, files []File) ([]entrymodels.MediaItem, error) {
	items := make([]entrymodels.MediaItem, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelUploads)
	for i, f := range files {
		g.Go(func() error {
			url, err := up.Upload(gctx, f, kind)
			if err != nil {
				return fmt.Errorf("upload %s: %w", f.Name, err)
			}
			items[i] = entrymodels.MediaItem{Kind: kind, Name: f.Name, URL: url}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}
