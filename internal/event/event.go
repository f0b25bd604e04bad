// Package event defines the domain events exchanged between services and the
// background publisher that hands them to the broker.
//
// Every consuming service subscribes with its own consumer group, so each
// service sees every event (broadcast), unlike a work queue where a record
// goes to exactly one consumer.
package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/PorePranav/CloudCart/internal/auth/models"
)

// Type names a kind of domain event. It doubles as the topic name.
type Type string

// TypeUserCreated is emitted once per successful account creation.
const TypeUserCreated Type = "user.created"

// SchemaVersion is embedded in every envelope for forward compatibility.
const SchemaVersion = 1

// Envelope is the wire format: one event per record, JSON encoded.
type Envelope struct {
	EventID       string          `json:"event_id"`
	Type          Type            `json:"event_type"`
	SchemaVersion int             `json:"schema_version"`
	Timestamp     time.Time       `json:"timestamp"`
	Data          json.RawMessage `json:"data"`
}

// NewUserCreated wraps a redacted user snapshot in an envelope. The snapshot
// must already have secret fields stripped; the publisher never sees raw
// user records.
func NewUserCreated(user models.UserResponse) (Envelope, error) {
	data, err := json.Marshal(user)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal user snapshot: %w", err)
	}
	return Envelope{
		EventID:       uuid.NewString(),
		Type:          TypeUserCreated,
		SchemaVersion: SchemaVersion,
		Timestamp:     time.Now().UTC(),
		Data:          data,
	}, nil
}

// DecodeUserCreated extracts the user snapshot from a user.created envelope.
func DecodeUserCreated(e Envelope) (models.UserResponse, error) {
	if e.Type != TypeUserCreated {
		return models.UserResponse{}, fmt.Errorf("unexpected event type %q", e.Type)
	}
	var user models.UserResponse
	if err := json.Unmarshal(e.Data, &user); err != nil {
		return models.UserResponse{}, fmt.Errorf("decode user snapshot: %w", err)
	}
	return user, nil
}
