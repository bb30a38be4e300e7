package internal

import (
	"fmt"
	"strings"
)

// Render turns a reconciled conversation into one markdown document. Turn
// text is passed through verbatim; no escaping is performed.
//
// Composer documents open with the composer name and a metadata block; tab
// documents open with a "Chat Transcript" heading. User turns of tab
// conversations group their content kinds under bracketed labels in fixed
// order: selections, image, text.
func Render(conv *Conversation) string {
	var b strings.Builder

	if conv.Composer != nil {
		renderComposerHeader(&b, conv)
		for _, turn := range conv.Turns {
			renderPlainTurn(&b, turn)
		}
		return b.String()
	}

	fmt.Fprintf(&b, "# Chat Transcript - %s\n\n", conv.Title)
	for _, turn := range conv.Turns {
		renderLabeledTurn(&b, turn)
	}
	return b.String()
}

func renderComposerHeader(b *strings.Builder, conv *Conversation) {
	composer := conv.Composer

	fmt.Fprintf(b, "# %s\n\n", conv.Title)
	fmt.Fprintf(b, "Composer ID: %s  \n", composer.ComposerID)
	if composer.CreatedAt > 0 {
		fmt.Fprintf(b, "Created: %s  \n", formatTimestamp(composer.CreatedAt))
	}
	if composer.LastUpdatedAt > 0 {
		fmt.Fprintf(b, "Last Updated: %s  \n", formatTimestamp(composer.LastUpdatedAt))
	}
	fmt.Fprintf(b, "Mode: %s\n\n", composer.Mode())
	b.WriteString("## Conversation\n\n")
}

// renderPlainTurn renders a composer turn: a role subheading and the bare
// text body.
func renderPlainTurn(b *strings.Builder, turn Turn) {
	if turn.Role == RoleUser {
		fmt.Fprintf(b, "## User:\n\n%s\n\n", turn.Text)
		return
	}
	fmt.Fprintf(b, "## AI (%s):\n\n%s\n\n", turn.Model, turn.Text)
}

// renderLabeledTurn renders a tab turn. User content kinds appear under
// bracketed labels; absent kinds are omitted.
func renderLabeledTurn(b *strings.Builder, turn Turn) {
	if turn.Role != RoleUser {
		fmt.Fprintf(b, "## AI (%s):\n\n%s\n\n", turn.Model, turn.Text)
		return
	}

	b.WriteString("## User:\n\n")
	if turn.Selections != "" {
		fmt.Fprintf(b, "[selections]  \n%s\n\n", turn.Selections)
	}
	if turn.HasImage {
		fmt.Fprintf(b, "[image]  \n![User Image](%s)\n\n", turn.ImagePath)
	}
	if turn.Text != "" {
		fmt.Fprintf(b, "[text]  \n%s\n\n", turn.Text)
	}
}
