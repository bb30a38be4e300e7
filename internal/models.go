package internal

import (
	"bytes"
	"encoding/json"
	"time"
)

// RawRecord is a single key/value row from the state database. The value is
// an opaque serialized structure and may be malformed.
type RawRecord struct {
	Key   string
	Value string
}

// ComposerCollection is the top-level composer metadata entry
// (key "composer.composerData").
type ComposerCollection struct {
	AllComposers []ComposerSession `json:"allComposers"`
}

// ComposerSession describes one composer conversation.
type ComposerSession struct {
	ComposerID    string `json:"composerId"`
	Name          string `json:"name,omitempty"`
	CreatedAt     int64  `json:"createdAt,omitempty"`
	LastUpdatedAt int64  `json:"lastUpdatedAt,omitempty"`
	UnifiedMode   string `json:"unifiedMode,omitempty"`
}

// Mode returns the composer mode, defaulting to "unknown".
func (c *ComposerSession) Mode() string {
	if c.UnifiedMode == "" {
		return "unknown"
	}
	return c.UnifiedMode
}

// PromptEntry is one entry of the prompt log (key "aiService.prompts").
// Entries arrive unordered; UnixMs is nil when the log predates timestamps.
type PromptEntry struct {
	Text           string `json:"text,omitempty"`
	GenerationUUID string `json:"generationUUID,omitempty"`
	UnixMs         *int64 `json:"unixMs,omitempty"`
}

// GenerationEntry is one entry of the generation log
// (key "aiService.generations"). TextDescription is the fallback assistant
// text when no cached response exists for the generation.
type GenerationEntry struct {
	GenerationUUID  string `json:"generationUUID"`
	TextDescription string `json:"textDescription,omitempty"`
	UnixMs          *int64 `json:"unixMs,omitempty"`
}

// ChatSession is a tab-based chat record (any value carrying a "tabs" field).
type ChatSession struct {
	Tabs []Tab `json:"tabs"`
}

// Tab is one chat tab with its ordered bubbles.
type Tab struct {
	ChatTitle string   `json:"chatTitle,omitempty"`
	Bubbles   []Bubble `json:"bubbles"`
}

// Bubble is a single turn inside a tab. User bubbles encode their text in one
// of several mutually exclusive shapes (delegate, text, initText, rawText);
// pointer fields keep field presence observable for the extraction chain.
// AI bubbles carry modelType and rawText.
type Bubble struct {
	Type       string          `json:"type"`
	Text       *string         `json:"text,omitempty"`
	Delegate   *BubbleDelegate `json:"delegate,omitempty"`
	InitText   *string         `json:"initText,omitempty"`
	RawText    json.RawMessage `json:"rawText,omitempty"`
	ModelType  string          `json:"modelType,omitempty"`
	Selections []Selection     `json:"selections,omitempty"`
	Image      *BubbleImage    `json:"image,omitempty"`
}

// BubbleDelegate is the delegated sub-object shape of a user bubble.
type BubbleDelegate struct {
	Answer string `json:"a"`
}

// Selection is a code excerpt attached to a user bubble.
type Selection struct {
	Text string `json:"text"`
}

// BubbleImage references an image file attached to a user bubble.
type BubbleImage struct {
	Path string `json:"path"`
}

// TextValue returns the direct text field, empty when absent.
func (b *Bubble) TextValue() string {
	if b.Text == nil {
		return ""
	}
	return *b.Text
}

// RawTextString returns rawText decoded as a string, or "" when it is absent
// or not a string. AI bubbles store their full reply here.
func (b *Bubble) RawTextString() string {
	if len(b.RawText) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(b.RawText, &s); err != nil {
		return ""
	}
	return s
}

// RawTextTruthy reports whether the rawText field holds a non-empty value.
// Older records store a flag here rather than text, so any JSON shape is
// accepted.
func (b *Bubble) RawTextTruthy() bool {
	trimmed := bytes.TrimSpace(b.RawText)
	switch string(trimmed) {
	case "", "null", "false", "0", `""`:
		return false
	}
	return true
}

// Role of a reconciled turn.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one reconciled user or assistant turn.
type Turn struct {
	Role       string
	Text       string
	Model      string // assistant turns: modelType or composer mode
	Selections string // user turns: joined selection excerpts
	HasImage   bool
	ImagePath  string // empty when the source image was missing
}

// Conversation is the reconciled output for one logical chat. Composer is set
// for composer-derived conversations and selects the composer document
// layout; it is nil for tab-derived ones.
type Conversation struct {
	Title    string
	Composer *ComposerSession
	Turns    []Turn
}

// Document is one rendered output unit, named composer_<id> or chat_<n>.
type Document struct {
	Name string
	Body string
}

// formatTimestamp formats a Unix millisecond timestamp as RFC3339.
func formatTimestamp(ms int64) string {
	return time.Unix(0, ms*int64(time.Millisecond)).Format(time.RFC3339)
}
