package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"gorm.io/gorm"

	"github.com/Skotchmaster/catalog/internal/events"
	"github.com/Skotchmaster/catalog/internal/logging"
	"github.com/Skotchmaster/catalog/internal/models"
)

type ProductSource interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
}

type DocumentStore interface {
	IndexProduct(ctx context.Context, doc ProductDocument) error
	DeleteProduct(ctx context.Context, id int64) error
}

// Indexer keeps the search index in line with product_events.
type Indexer struct {
	Reader   *kafka.Reader
	Store    DocumentStore
	Products ProductSource
}

func NewReader(brokers []string, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    events.TopicProducts,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	})
}

// Run consumes until ctx is cancelled. A message is committed once handled,
// and undecodable messages are skipped.
func (ix *Indexer) Run(ctx context.Context) error {
	l := logging.FromContext(ctx).With("component", "indexer")
	for {
		msg, err := ix.Reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("fetch message: %w", err)
		}

		if err := ix.Handle(ctx, msg.Value); err != nil {
			l.Error("index_failed", "offset", msg.Offset, "key", string(msg.Key), "error", err)
			if ctx.Err() != nil {
				return nil
			}
			continue
		}
		if err := ix.Reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			l.Warn("commit_failed", "offset", msg.Offset, "error", err)
		}
	}
}

func (ix *Indexer) Handle(ctx context.Context, value []byte) error {
	var e events.Event
	if err := json.Unmarshal(value, &e); err != nil {
		logging.FromContext(ctx).Warn("skip_bad_event", "error", err)
		return nil
	}

	switch e.Type {
	case events.ProductCreated, events.ProductUpdated:
		p, err := ix.Products.GetProduct(ctx, e.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ix.Store.DeleteProduct(ctx, e.ID)
		}
		if err != nil {
			return fmt.Errorf("load product %d: %w", e.ID, err)
		}
		return ix.Store.IndexProduct(ctx, NewProductDocument(p))
	case events.ProductDeleted:
		return ix.Store.DeleteProduct(ctx, e.ID)
	default:
		return nil
	}
}
