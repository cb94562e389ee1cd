package domain

import (
	"errors"
)

// Dialogue-specific validation errors
var (
	// ErrNoTurns is returned when a dialogue contains no turns.
	ErrNoTurns = errors.New("dialogue must contain at least one turn")

	// ErrTurnContentEmpty is returned when a turn has no text payload.
	ErrTurnContentEmpty = errors.New("turn content cannot be empty")

	// ErrRoleOrder is returned when turn roles do not alternate starting
	// with the user role at index 0.
	ErrRoleOrder = errors.New("turn roles must alternate starting with user")
)

// Role tags one side of a dialogue turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// RoleAt returns the role for a turn at the given position. Turns alternate
// strictly by position parity: even positions are user turns, odd positions
// are assistant turns.
func RoleAt(idx int) Role {
	if idx%2 == 0 {
		return RoleUser
	}
	return RoleAssistant
}

// Turn is one message in a dialogue, tagged with a role.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// TurnsFromTexts builds a turn sequence from ordered message texts,
// assigning roles by position parity.
func TurnsFromTexts(texts []string) []Turn {
	turns := make([]Turn, 0, len(texts))
	for i, text := range texts {
		turns = append(turns, Turn{Role: RoleAt(i), Content: text})
	}
	return turns
}

// ValidateTurns checks the dialogue invariants: at least one turn, no empty
// payloads, and roles alternating by parity starting with user.
func ValidateTurns(turns []Turn) error {
	if len(turns) == 0 {
		return ErrNoTurns
	}

	for i, turn := range turns {
		if turn.Content == "" {
			return ErrTurnContentEmpty
		}
		if turn.Role != RoleAt(i) {
			return ErrRoleOrder
		}
	}

	return nil
}
