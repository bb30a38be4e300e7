package internal

import (
	"encoding/json"

	"go.uber.org/zap"
)

// NoUserText is the sentinel emitted when a user bubble carries no
// recognizable text encoding, or when its rich-text document cannot be
// descended.
const NoUserText = "[ERROR: no user text found]"

// textStrategy is one extraction strategy for user bubble text. present
// reports whether the bubble carries this encoding at all; extract returns
// the text and whether extraction failed structurally (which short-circuits
// the chain with the sentinel).
type textStrategy struct {
	name    string
	present func(*Bubble) bool
	extract func(*Bubble) (text string, failed bool)
}

// userTextStrategies is evaluated in order; the first non-empty result wins.
// Adding a future bubble encoding is one more entry here.
var userTextStrategies = []textStrategy{
	{
		name:    "delegate",
		present: func(b *Bubble) bool { return b.Delegate != nil },
		extract: func(b *Bubble) (string, bool) { return b.Delegate.Answer, false },
	},
	{
		name:    "text",
		present: func(b *Bubble) bool { return b.Text != nil },
		extract: func(b *Bubble) (string, bool) { return *b.Text, false },
	},
	{
		name:    "initText",
		present: func(b *Bubble) bool { return b.InitText != nil },
		extract: extractInitText,
	},
	{
		name:    "rawText",
		present: func(b *Bubble) bool { return len(b.RawText) > 0 },
		extract: func(b *Bubble) (string, bool) {
			if !b.RawTextTruthy() {
				return "", false
			}
			// Legacy records flag rawText and keep the text in the
			// direct field.
			return b.TextValue(), false
		},
	},
}

// ExtractUserText runs the strategy chain over a user bubble. A structural
// failure or a bubble with no recognized field yields the sentinel; a bubble
// whose fields are all present but empty yields "".
func ExtractUserText(b *Bubble, log *zap.Logger) string {
	anyPresent := false
	for _, strategy := range userTextStrategies {
		if !strategy.present(b) {
			continue
		}
		anyPresent = true

		text, failed := strategy.extract(b)
		if failed {
			log.Error("could not extract user text from bubble",
				zap.String("strategy", strategy.name))
			return NoUserText
		}
		if text != "" {
			return text
		}
	}

	if !anyPresent {
		log.Error("no user text field found in bubble")
		return NoUserText
	}
	return ""
}

// richTextDocument is the serialized editor document stored in initText.
// The text lives on the first leaf of the first top-level child.
type richTextDocument struct {
	Root struct {
		Children []struct {
			Children []struct {
				Text string `json:"text"`
			} `json:"children"`
		} `json:"children"`
	} `json:"root"`
}

// extractInitText descends the rich-text document tree. Any structural
// failure (bad JSON, wrong types, missing levels) is reported as failed
// rather than propagated.
func extractInitText(b *Bubble) (string, bool) {
	raw := *b.InitText
	if raw == "" {
		return "", false
	}

	var doc richTextDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return "", true
	}
	if len(doc.Root.Children) == 0 || len(doc.Root.Children[0].Children) == 0 {
		return "", true
	}
	return doc.Root.Children[0].Children[0].Text, false
}
