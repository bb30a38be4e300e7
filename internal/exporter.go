package internal

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// FormatOptions controls one formatting run.
type FormatOptions struct {
	// ImageRoot is the directory bubble images are copied into. Empty
	// disables image export entirely.
	ImageRoot string
	// TabFilter restricts session rendering to the given 0-based tab
	// indices. Filtered-out tabs are skipped before any processing and do
	// not advance the chat counter. Nil renders all tabs.
	TabFilter map[int]bool
	// LatestTabOnly renders only the last tab of each session record.
	LatestTabOnly bool
}

// Exporter drives the classify -> reconcile -> render pipeline for one batch
// of raw records.
type Exporter struct {
	log        *zap.Logger
	reconciler *Reconciler
}

// NewExporter creates an Exporter.
func NewExporter(log *zap.Logger) *Exporter {
	return &Exporter{
		log:        log,
		reconciler: NewReconciler(log),
	}
}

// Format renders one document per non-empty conversation found in records.
// Malformed records degrade to skipped content; an unexpected panic anywhere
// in the pipeline is caught here, logged, and yields no documents at all
// rather than a partial batch.
func (e *Exporter) Format(records []RawRecord, opts FormatOptions) (docs []Document) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("chat formatting failed", zap.Any("panic", r))
			docs = nil
		}
	}()

	buckets := Classify(records, e.log)
	responses := BuildResponseIndex(buckets.Responses, e.log)

	// One monotonic counter names chat_<n> documents across the whole
	// batch; composer entries advance it too.
	chatCount := 0

	if buckets.Composers != nil {
		for _, composer := range buckets.Composers.AllComposers {
			chatCount++
			conv := e.reconciler.ReconcileComposer(composer, buckets.Prompts, buckets.Generations, responses)
			if conv == nil {
				continue
			}
			body := Render(conv)
			if strings.TrimSpace(body) == "" {
				continue
			}

			id := composer.ComposerID
			if id == "" {
				id = strconv.Itoa(chatCount)
			}
			docs = append(docs, Document{Name: "composer_" + id, Body: body})
		}
	}

	for _, session := range buckets.Sessions {
		for tabIndex, tab := range session.Tabs {
			if opts.TabFilter != nil && !opts.TabFilter[tabIndex] {
				continue
			}
			if opts.LatestTabOnly && tabIndex != len(session.Tabs)-1 {
				continue
			}

			conv := e.reconciler.ReconcileTab(tab, tabIndex, chatCount+1, opts.ImageRoot)
			if conv == nil {
				continue
			}
			body := Render(conv)
			if strings.TrimSpace(body) == "" {
				continue
			}

			chatCount++
			docs = append(docs, Document{Name: fmt.Sprintf("chat_%d", chatCount), Body: body})
		}
	}

	if len(docs) > 0 {
		e.log.Info("formatted chats", zap.Int("count", len(docs)))
	} else {
		e.log.Warn("no chat content found to format")
	}
	return docs
}
