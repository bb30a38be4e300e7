package internal

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"
)

// Storage keys routed by the classifier.
const (
	KeyComposerData = "composer.composerData"
	KeyGenerations  = "aiService.generations"
	KeyPrompts      = "aiService.prompts"

	// ResponseKeyPrefix namespaces rows read from the cursorDiskKV table.
	ResponseKeyPrefix = "cursorDiskKV:"
)

// Buckets holds the classified records of one batch.
type Buckets struct {
	Composers   *ComposerCollection
	Generations []GenerationEntry
	Prompts     []PromptEntry
	Responses   []RawRecord
	Sessions    []ChatSession
}

// Classify routes each raw record into its bucket. Values that fail to parse
// and keys that match nothing are dropped; classification never fails.
//
// Routing priority: exact composer key, exact generation-log key, exact
// prompt-log key, response-cache key prefix, then any JSON object carrying a
// "tabs" field.
func Classify(records []RawRecord, log *zap.Logger) *Buckets {
	buckets := &Buckets{}

	for _, rec := range records {
		switch {
		case rec.Key == KeyComposerData:
			var collection ComposerCollection
			if err := json.Unmarshal([]byte(rec.Value), &collection); err != nil {
				log.Debug("skipping malformed composer data", zap.Error(err))
				continue
			}
			buckets.Composers = &collection

		case rec.Key == KeyGenerations:
			var generations []GenerationEntry
			if err := json.Unmarshal([]byte(rec.Value), &generations); err != nil {
				log.Debug("skipping malformed generation log", zap.Error(err))
				continue
			}
			buckets.Generations = generations

		case rec.Key == KeyPrompts:
			var prompts []PromptEntry
			if err := json.Unmarshal([]byte(rec.Value), &prompts); err != nil {
				log.Debug("skipping malformed prompt log", zap.Error(err))
				continue
			}
			buckets.Prompts = prompts

		case strings.HasPrefix(rec.Key, ResponseKeyPrefix):
			if !isStructured(rec.Value) {
				log.Debug("skipping malformed response record", zap.String("key", rec.Key))
				continue
			}
			buckets.Responses = append(buckets.Responses, rec)

		default:
			session, ok := parseSessionValue(rec.Value)
			if !ok {
				continue
			}
			buckets.Sessions = append(buckets.Sessions, session)
		}
	}

	return buckets
}

// isStructured reports whether the value parses as a JSON object or array.
func isStructured(value string) bool {
	var parsed any
	if err := json.Unmarshal([]byte(value), &parsed); err != nil {
		return false
	}
	switch parsed.(type) {
	case map[string]any, []any:
		return true
	}
	return false
}

// parseSessionValue parses a value as a tab-based chat session. Only JSON
// objects carrying a "tabs" field qualify.
func parseSessionValue(value string) (ChatSession, bool) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(value), &probe); err != nil {
		return ChatSession{}, false
	}
	if _, ok := probe["tabs"]; !ok {
		return ChatSession{}, false
	}

	var session ChatSession
	if err := json.Unmarshal([]byte(value), &session); err != nil {
		return ChatSession{}, false
	}
	return session, true
}
