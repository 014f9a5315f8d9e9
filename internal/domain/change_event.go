package domain

import (
	"slices"
	"strings"
	"time"
)

// ActorType describes who issued a board command.
type ActorType string

// ActorType values.
const (
	ActorTypeUser   ActorType = "user"
	ActorTypeAgent  ActorType = "agent"
	ActorTypeSystem ActorType = "system"
)

// NormalizeActorType lower-cases an actor type and falls back to user for unknown values.
func NormalizeActorType(actorType ActorType) ActorType {
	actorType = ActorType(strings.TrimSpace(strings.ToLower(string(actorType))))
	if !slices.Contains([]ActorType{ActorTypeUser, ActorTypeAgent, ActorTypeSystem}, actorType) {
		return ActorTypeUser
	}
	return actorType
}

// ChangeOperation describes an applied board command.
type ChangeOperation string

// ChangeOperation values used by the activity journal.
const (
	ChangeOperationCreate  ChangeOperation = "create"
	ChangeOperationUpdate  ChangeOperation = "update"
	ChangeOperationMove    ChangeOperation = "move"
	ChangeOperationReorder ChangeOperation = "reorder"
	ChangeOperationDelete  ChangeOperation = "delete"
)

// ChangeTarget names the kind of entity a change touched.
type ChangeTarget string

// ChangeTarget values.
const (
	ChangeTargetColumn ChangeTarget = "column"
	ChangeTargetCard   ChangeTarget = "card"
)

// ChangeEvent represents a single activity entry for the board.
type ChangeEvent struct {
	ID         int64           `json:"id"`
	Revision   uint64          `json:"revision"`
	Operation  ChangeOperation `json:"operation"`
	TargetType ChangeTarget    `json:"target_type"`
	TargetID   string          `json:"target_id"`
	Summary    string          `json:"summary"`
	ActorID    string          `json:"actor_id"`
	ActorType  ActorType       `json:"actor_type"`
	OccurredAt time.Time       `json:"occurred_at"`
}
