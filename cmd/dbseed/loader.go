package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dbgate/internal/domain"
	"github.com/kailas-cloud/dbgate/internal/domain/listing"
)

// listingWriter stores a batch of listings.
type listingWriter interface {
	Put(ctx context.Context, listings []*listing.Listing) error
}

// loader streams listings from a reader into the store in batches.
type loader struct {
	writer    listingWriter
	embedder  domain.Embedder // nil leaves listings without embeddings untouched
	batchSize int
	logger    *zap.Logger
}

// Load decodes every listing from r and writes them. It returns the number
// of listings written.
func (l *loader) Load(ctx context.Context, r io.Reader) (int, error) {
	size := l.batchSize
	if size <= 0 {
		size = 100
	}

	dec := json.NewDecoder(r)
	batch := make([]*listing.Listing, 0, size)
	total := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := l.writer.Put(ctx, batch); err != nil {
			return fmt.Errorf("write batch at %d: %w", total, err)
		}
		total += len(batch)
		l.logger.Info("Batch written", zap.Int("size", len(batch)), zap.Int("total", total))
		batch = batch[:0]
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return total, fmt.Errorf("load interrupted: %w", err)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return total, fmt.Errorf("read listing %d: %w", total+len(batch)+1, err)
		}
		item, err := listing.Decode(raw)
		if err != nil {
			return total, err
		}
		if err := l.fillEmbedding(ctx, item); err != nil {
			return total, err
		}

		batch = append(batch, item)
		if len(batch) >= size {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}

	if err := flush(); err != nil {
		return total, err
	}
	return total, nil
}

func (l *loader) fillEmbedding(ctx context.Context, item *listing.Listing) error {
	if len(item.TextEmbeddings) > 0 || l.embedder == nil {
		return nil
	}
	res, err := l.embedder.Embed(ctx, embeddingText(item))
	if err != nil {
		return fmt.Errorf("embed listing %d: %w", item.ID, err)
	}
	item.TextEmbeddings = make([]float64, len(res.Embedding))
	for i, v := range res.Embedding {
		item.TextEmbeddings[i] = float64(v)
	}
	return nil
}

// embeddingText is the text a listing is embedded from.
func embeddingText(item *listing.Listing) string {
	parts := []string{item.Name}
	if item.Summary != nil {
		parts = append(parts, *item.Summary)
	}
	parts = append(parts, item.Description)
	return strings.Join(parts, "\n")
}
