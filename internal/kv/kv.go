// Package kv defines the string key-value contract used for all learner
// persistence, the key schema, and the memory and redis backends. The
// SQLite backend lives in the store package.
package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Store is a synchronous string key-value store. Writes are last-write-wins.
type Store interface {
	// Get returns the value at key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set overwrites the value at key.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	// Keys lists keys starting with prefix, in lexical order.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Key schema. Every learner-scoped key embeds the user id.

func ProgressKey(userID string) string { return "progress:" + userID }

func HistoryKey(userID, grade, subject string) string {
	return fmt.Sprintf("history:%s:%s:%s", userID, grade, subject)
}

// HistoryPrefix matches every history log belonging to userID.
func HistoryPrefix(userID string) string { return "history:" + userID + ":" }

func SessionKey(userID string) string { return "session:" + userID }

func PathKey(userID, grade, subject string) string {
	return fmt.Sprintf("path:%s:%s:%s", userID, grade, subject)
}

func SettingsKey(userID string) string { return "settings:" + userID }

func CardsKey(userID string) string { return "cards:" + userID }

func LastResultKey(userID string) string { return "last:" + userID }

const AssignmentsKey = "assignments"

func SubmissionsKey(assignmentID string) string { return "submissions:" + assignmentID }

// GetJSON decodes the JSON value at key into v. It returns false when the
// key does not exist.
func GetJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it at key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, string(b))
}

// SplitHistoryKey returns the grade and subject encoded in a history key.
func SplitHistoryKey(key string) (grade, subject string, ok bool) {
	parts := strings.SplitN(key, ":", 4)
	if len(parts) != 4 || parts[0] != "history" {
		return "", "", false
	}
	return parts[2], parts[3], true
}
