package internal

import (
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func int64Ptr(v int64) *int64 { return &v }

func TestReconcileComposer(t *testing.T) {
	r := NewReconciler(zap.NewNop())

	t.Run("prompt joined with cached response", func(t *testing.T) {
		conv := r.ReconcileComposer(
			ComposerSession{ComposerID: "c1", Name: "Session"},
			[]PromptEntry{{Text: "question", GenerationUUID: "g1"}},
			nil,
			map[string]string{"g1": "answer"},
		)
		if conv == nil {
			t.Fatal("ReconcileComposer() = nil, want conversation")
		}
		if len(conv.Turns) != 2 {
			t.Fatalf("turns = %d, want 2", len(conv.Turns))
		}
		if conv.Turns[0].Role != RoleUser || conv.Turns[0].Text != "question" {
			t.Errorf("turn 0 = %+v, want user question", conv.Turns[0])
		}
		if conv.Turns[1].Role != RoleAssistant || conv.Turns[1].Text != "answer" {
			t.Errorf("turn 1 = %+v, want assistant answer", conv.Turns[1])
		}
	})

	t.Run("generation log fallback on response miss", func(t *testing.T) {
		conv := r.ReconcileComposer(
			ComposerSession{ComposerID: "c1"},
			[]PromptEntry{{Text: "question", GenerationUUID: "g1"}},
			[]GenerationEntry{{GenerationUUID: "g1", TextDescription: "described answer"}},
			map[string]string{},
		)
		if conv == nil || len(conv.Turns) != 2 {
			t.Fatalf("ReconcileComposer() = %+v, want 2 turns", conv)
		}
		if conv.Turns[1].Text != "described answer" {
			t.Errorf("assistant turn = %q, want generation description", conv.Turns[1].Text)
		}
	})

	t.Run("silent gap when neither source has text", func(t *testing.T) {
		conv := r.ReconcileComposer(
			ComposerSession{ComposerID: "c1"},
			[]PromptEntry{{Text: "question", GenerationUUID: "g-missing"}},
			[]GenerationEntry{{GenerationUUID: "g-missing"}},
			map[string]string{},
		)
		if conv == nil || len(conv.Turns) != 1 {
			t.Fatalf("ReconcileComposer() = %+v, want the user turn only", conv)
		}
	})

	t.Run("no non-empty turns yields nil", func(t *testing.T) {
		conv := r.ReconcileComposer(
			ComposerSession{ComposerID: "c1"},
			[]PromptEntry{{GenerationUUID: "g-missing"}},
			nil,
			map[string]string{},
		)
		if conv != nil {
			t.Errorf("ReconcileComposer() = %+v, want nil", conv)
		}
	})

	t.Run("untitled composer gets fallback title", func(t *testing.T) {
		conv := r.ReconcileComposer(
			ComposerSession{ComposerID: "c1"},
			[]PromptEntry{{Text: "hi"}},
			nil,
			map[string]string{},
		)
		if conv == nil || conv.Title != "Untitled Composer" {
			t.Errorf("title = %+v, want Untitled Composer", conv)
		}
	})
}

func TestSortPrompts(t *testing.T) {
	t.Run("sorted when every entry has a timestamp", func(t *testing.T) {
		prompts := []PromptEntry{
			{Text: "third", UnixMs: int64Ptr(300)},
			{Text: "first", UnixMs: int64Ptr(100)},
			{Text: "second", UnixMs: int64Ptr(200)},
		}
		sorted := sortPrompts(prompts)
		want := []string{"first", "second", "third"}
		for i, text := range want {
			if sorted[i].Text != text {
				t.Errorf("sorted[%d] = %q, want %q", i, sorted[i].Text, text)
			}
		}
		// Input order is untouched.
		if prompts[0].Text != "third" {
			t.Errorf("input mutated: %+v", prompts)
		}
	})

	t.Run("arrival order kept when any timestamp is missing", func(t *testing.T) {
		prompts := []PromptEntry{
			{Text: "b", UnixMs: int64Ptr(300)},
			{Text: "a"},
		}
		sorted := sortPrompts(prompts)
		if sorted[0].Text != "b" || sorted[1].Text != "a" {
			t.Errorf("sortPrompts() = %+v, want arrival order", sorted)
		}
	})
}

func TestReconcileTab(t *testing.T) {
	r := NewReconciler(zap.NewNop())

	t.Run("user and ai bubbles in stored order", func(t *testing.T) {
		tab := Tab{
			ChatTitle: "T",
			Bubbles: []Bubble{
				{Type: "user", Text: strPtr("hi")},
				{Type: "ai", ModelType: "gpt", RawText: json.RawMessage(`"hello"`)},
			},
		}
		conv := r.ReconcileTab(tab, 0, 1, "")
		if conv == nil || len(conv.Turns) != 2 {
			t.Fatalf("ReconcileTab() = %+v, want 2 turns", conv)
		}
		if conv.Title != "T" {
			t.Errorf("title = %q, want T", conv.Title)
		}
		if conv.Turns[1].Model != "gpt" || conv.Turns[1].Text != "hello" {
			t.Errorf("ai turn = %+v", conv.Turns[1])
		}
	})

	t.Run("empty user bubble produces nothing", func(t *testing.T) {
		tab := Tab{
			Bubbles: []Bubble{
				{Type: "user", Text: strPtr(""), Selections: []Selection{}},
				{Type: "ai", ModelType: "gpt", RawText: json.RawMessage(`"hello"`)},
			},
		}
		conv := r.ReconcileTab(tab, 0, 1, "")
		if conv == nil || len(conv.Turns) != 1 {
			t.Fatalf("ReconcileTab() = %+v, want the ai turn only", conv)
		}
	})

	t.Run("tab with no renderable bubbles yields nil", func(t *testing.T) {
		tab := Tab{Bubbles: []Bubble{{Type: "user", Text: strPtr("")}}}
		if conv := r.ReconcileTab(tab, 0, 1, ""); conv != nil {
			t.Errorf("ReconcileTab() = %+v, want nil", conv)
		}
	})

	t.Run("selections joined with line breaks", func(t *testing.T) {
		tab := Tab{
			Bubbles: []Bubble{{
				Type:       "user",
				Selections: []Selection{{Text: "line one"}, {Text: "line two"}},
			}},
		}
		conv := r.ReconcileTab(tab, 0, 1, "")
		if conv == nil || len(conv.Turns) != 1 {
			t.Fatalf("ReconcileTab() = %+v, want 1 turn", conv)
		}
		if conv.Turns[0].Selections != "line one\nline two" {
			t.Errorf("selections = %q", conv.Turns[0].Selections)
		}
		// Selections alone keep the bubble even with sentinel text.
		if conv.Turns[0].Text != NoUserText {
			t.Errorf("text = %q, want sentinel", conv.Turns[0].Text)
		}
	})

	t.Run("missing title falls back to chat number", func(t *testing.T) {
		tab := Tab{Bubbles: []Bubble{{Type: "user", Text: strPtr("hi")}}}
		conv := r.ReconcileTab(tab, 0, 7, "")
		if conv == nil || conv.Title != "Chat 7" {
			t.Errorf("title = %+v, want Chat 7", conv)
		}
	})

	t.Run("unknown bubble types are ignored", func(t *testing.T) {
		tab := Tab{Bubbles: []Bubble{
			{Type: "system", Text: strPtr("ignored")},
			{Type: "user", Text: strPtr("hi")},
		}}
		conv := r.ReconcileTab(tab, 0, 1, "")
		if conv == nil || len(conv.Turns) != 1 {
			t.Fatalf("ReconcileTab() = %+v, want 1 turn", conv)
		}
	})
}

func TestNormalizeCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "path annotation stripped",
			in:   "```python:/some/path\nprint('hi')\n```",
			want: "```python\nprint('hi')\n```",
		},
		{
			name: "plain fence untouched",
			in:   "```python\nprint('hi')\n```",
			want: "```python\nprint('hi')\n```",
		},
		{
			name: "other languages untouched",
			in:   "```go:/main.go\nfunc main() {}\n```",
			want: "```go:/main.go\nfunc main() {}\n```",
		},
		{
			name: "multiple fences",
			in:   "```python:a.py\nx\n```\ntext\n```python:b.py\ny\n```",
			want: "```python\nx\n```\ntext\n```python\ny\n```",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeCodeFences(tt.in); got != tt.want {
				t.Errorf("NormalizeCodeFences() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReconcileTab_CodeBodyUnchanged(t *testing.T) {
	r := NewReconciler(zap.NewNop())
	raw := "look:\n```python:/app/main.py\nprint('hi')\n```"
	rawJSON, _ := json.Marshal(raw)
	tab := Tab{Bubbles: []Bubble{{Type: "ai", ModelType: "gpt", RawText: rawJSON}}}

	conv := r.ReconcileTab(tab, 0, 1, "")
	if conv == nil {
		t.Fatal("ReconcileTab() = nil")
	}
	if !strings.Contains(conv.Turns[0].Text, "```python\nprint('hi')\n```") {
		t.Errorf("ai text = %q, want normalized fence with unchanged body", conv.Turns[0].Text)
	}
}
