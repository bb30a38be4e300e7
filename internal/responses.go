package internal

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"
)

// BuildResponseIndex maps generation identifiers to cached response text.
// The identifier comes from the payload's generationUUID when present,
// otherwise from the trailing segment of the record key. When two records
// share an identifier the later-scanned one wins; scan order follows the
// data source's row order, which is not guaranteed stable.
//
// The index is built once per batch and shared across all composer lookups.
func BuildResponseIndex(responses []RawRecord, log *zap.Logger) map[string]string {
	index := make(map[string]string, len(responses))

	for _, rec := range responses {
		var payload struct {
			Response       *string `json:"response"`
			GenerationUUID string  `json:"generationUUID"`
		}
		if err := json.Unmarshal([]byte(rec.Value), &payload); err != nil {
			log.Debug("skipping unparseable response record", zap.String("key", rec.Key))
			continue
		}
		if payload.Response == nil {
			continue
		}

		id := payload.GenerationUUID
		if id == "" {
			parts := strings.Split(rec.Key, ":")
			id = parts[len(parts)-1]
		}

		if _, exists := index[id]; exists {
			log.Debug("response identifier collision, keeping later record", zap.String("uuid", id))
		}
		index[id] = *payload.Response
		log.Debug("indexed response", zap.String("uuid", id))
	}

	return index
}
