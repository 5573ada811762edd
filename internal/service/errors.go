package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/Skotchmaster/catalog/internal/events"
	"github.com/Skotchmaster/catalog/internal/logging"
	"github.com/Skotchmaster/catalog/internal/repo"
)

var (
	ErrNotFound     = errors.New("not found")           // 404
	ErrDatabase     = errors.New("integrity violation") // 400
	ErrValidation   = errors.New("validation")          // 422
	ErrInvalidGrant = errors.New("bad credentials")
)

func mapRepoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, repo.ErrIntegrity):
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	default:
		return err
	}
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// publish never fails the caller; a lost event is only logged.
func publish(ctx context.Context, p events.Publisher, topic string, e events.Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, topic, strconv.FormatInt(e.ID, 10), e); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "topic", topic, "type", e.Type, "error", err)
	}
}
