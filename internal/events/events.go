package events

import (
	"context"
	"time"
)

const (
	TopicProducts   = "product_events"
	TopicCategories = "category_events"
	TopicUsers      = "user_events"
)

const (
	ProductCreated  = "product_created"
	ProductUpdated  = "product_updated"
	ProductDeleted  = "product_deleted"
	CategoryCreated = "category_created"
	CategoryUpdated = "category_updated"
	CategoryDeleted = "category_deleted"
	UserCreated     = "user_created"
	UserUpdated     = "user_updated"
	UserDeleted     = "user_deleted"
)

type Event struct {
	Type       string    `json:"type"`
	ID         int64     `json:"id"`
	Name       string    `json:"name,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

func New(eventType string, id int64, name string) Event {
	return Event{Type: eventType, ID: id, Name: name, OccurredAt: time.Now().UTC()}
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
}

// Nop drops every event. Used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, string, any) error { return nil }
