package internal

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// fenceWithPath matches fenced code-block openings annotated with a path,
// e.g. "```python:/some/file.py". The path annotation is stripped when
// rendering.
var fenceWithPath = regexp.MustCompile("```python:[^\n]+")

// Reconciler recovers ordered conversations from classified buckets. It runs
// two independent algorithms: a join of prompts against cached responses and
// the generation log for composer data, and an ordered bubble walk for tab
// sessions.
type Reconciler struct {
	log    *zap.Logger
	images *ImageExporter
}

// NewReconciler creates a Reconciler.
func NewReconciler(log *zap.Logger) *Reconciler {
	return &Reconciler{
		log:    log,
		images: NewImageExporter(log),
	}
}

// ReconcileComposer joins one composer's prompts with assistant replies.
// Each prompt with text becomes a user turn; its reply is looked up in the
// response index by generation identifier, falling back to the generation
// log's textDescription. A prompt with neither source leaves a silent gap.
// Returns nil when no non-empty turns result.
func (r *Reconciler) ReconcileComposer(
	composer ComposerSession,
	prompts []PromptEntry,
	generations []GenerationEntry,
	responses map[string]string,
) *Conversation {
	var turns []Turn
	mode := composer.Mode()

	for _, prompt := range sortPrompts(prompts) {
		if prompt.Text != "" {
			turns = append(turns, Turn{Role: RoleUser, Text: prompt.Text})
		}
		if prompt.GenerationUUID == "" {
			continue
		}

		r.log.Debug("looking up response", zap.String("uuid", prompt.GenerationUUID))
		if text, ok := responses[prompt.GenerationUUID]; ok {
			turns = append(turns, Turn{Role: RoleAssistant, Text: text, Model: mode})
			continue
		}

		for _, gen := range generations {
			if gen.GenerationUUID != prompt.GenerationUUID {
				continue
			}
			if gen.TextDescription != "" {
				turns = append(turns, Turn{Role: RoleAssistant, Text: gen.TextDescription, Model: mode})
			}
			break
		}
	}

	if len(turns) == 0 {
		return nil
	}

	title := composer.Name
	if title == "" {
		title = "Untitled Composer"
	}
	return &Conversation{
		Title:    title,
		Composer: &composer,
		Turns:    turns,
	}
}

// sortPrompts orders prompts by timestamp when every entry carries one.
// With any timestamp missing the arrival order is preserved, which is
// unstable across runs for such stores; a known limitation, not an error.
func sortPrompts(prompts []PromptEntry) []PromptEntry {
	for _, p := range prompts {
		if p.UnixMs == nil {
			return prompts
		}
	}

	sorted := make([]PromptEntry, len(prompts))
	copy(sorted, prompts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return *sorted[i].UnixMs < *sorted[j].UnixMs
	})
	return sorted
}

// ReconcileTab walks a tab's bubbles in stored order. chatNumber is the
// would-be chat counter, used only for the fallback title. imageRoot of ""
// disables image export. Returns nil when the tab yields no turns.
func (r *Reconciler) ReconcileTab(tab Tab, tabIndex, chatNumber int, imageRoot string) *Conversation {
	var turns []Turn

	for _, bubble := range tab.Bubbles {
		switch bubble.Type {
		case "user":
			if turn, ok := r.userTurn(&bubble, tabIndex, imageRoot); ok {
				turns = append(turns, turn)
			}
		case "ai":
			model := bubble.ModelType
			if model == "" {
				model = "Unknown"
			}
			turns = append(turns, Turn{
				Role:  RoleAssistant,
				Model: model,
				Text:  NormalizeCodeFences(bubble.RawTextString()),
			})
		}
	}

	if len(turns) == 0 {
		return nil
	}

	title := tab.ChatTitle
	if title == "" {
		title = fmt.Sprintf("Chat %d", chatNumber)
	}
	return &Conversation{Title: title, Turns: turns}
}

// userTurn extracts text, selections and image content from a user bubble.
// A bubble with none of the three produces nothing.
func (r *Reconciler) userTurn(bubble *Bubble, tabIndex int, imageRoot string) (Turn, bool) {
	turn := Turn{Role: RoleUser}

	if len(bubble.Selections) > 0 {
		excerpts := make([]string, 0, len(bubble.Selections))
		for _, sel := range bubble.Selections {
			excerpts = append(excerpts, sel.Text)
		}
		turn.Selections = strings.TrimSpace(strings.Join(excerpts, "\n"))
	}

	if bubble.Image != nil && imageRoot != "" {
		turn.HasImage = true
		newPath, err := r.images.Export(bubble.Image.Path, imageRoot, tabIndex)
		if err != nil {
			r.log.Error("image file not found for tab",
				zap.String("path", bubble.Image.Path),
				zap.Int("tab", tabIndex),
				zap.Error(err))
		} else {
			turn.ImagePath = newPath
		}
	}

	turn.Text = ExtractUserText(bubble, r.log)

	if turn.Text == "" && turn.Selections == "" && !turn.HasImage {
		return Turn{}, false
	}
	return turn, true
}

// NormalizeCodeFences strips the path annotation from fenced code-block
// openings of the form "```python:<path>".
func NormalizeCodeFences(text string) string {
	return fenceWithPath.ReplaceAllString(text, "```python")
}
