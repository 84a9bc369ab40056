package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/lexmap/internal/core/domain"
	"github.com/custodia-labs/lexmap/internal/core/ports/driven"
)

const excerptSeparator = "\n\n---\n\n"

// promptBuilder renders the offline pipeline's prompts from user-editable
// templates.
type promptBuilder struct {
	store driven.PromptStore
}

func (p promptBuilder) load(name string) (string, error) {
	if p.store == nil {
		return "", fmt.Errorf("%w: no prompt store", domain.ErrProvider)
	}
	tmpl, err := p.store.Load(name)
	if err != nil {
		return "", fmt.Errorf("%w: load prompt %s: %w", domain.ErrProvider, name, err)
	}
	return tmpl, nil
}

// topicSummary answers strictly from the retrieved excerpts.
func (p promptBuilder) topicSummary(chunks []domain.ScoredChunk, topic string) (string, error) {
	tmpl, err := p.load(driven.PromptTopicSummary)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(tmpl, joinExcerpts(chunks), topic), nil
}

// chat replays history as alternating user and assistant messages and
// appends the question together with its retrieved excerpts.
func (p promptBuilder) chat(
	history []domain.ConversationTurn, chunks []domain.ScoredChunk, question string,
) ([]driven.ChatMessage, error) {
	system, err := p.load(driven.PromptChatSystem)
	if err != nil {
		return nil, err
	}

	messages := make([]driven.ChatMessage, 0, 2*len(history)+2)
	messages = append(messages, driven.ChatMessage{Role: domain.RoleSystem, Content: system})
	for _, turn := range history {
		messages = append(messages,
			driven.ChatMessage{Role: domain.RoleUser, Content: turn.Human},
			driven.ChatMessage{Role: domain.RoleAssistant, Content: turn.AI},
		)
	}

	var b strings.Builder
	b.WriteString("Document excerpts:\n<context>\n")
	b.WriteString(joinExcerpts(chunks))
	b.WriteString("\n</context>\n\nQuestion: ")
	b.WriteString(question)
	messages = append(messages, driven.ChatMessage{Role: domain.RoleUser, Content: b.String()})

	return messages, nil
}

// documentSummary embeds the whole text; no retrieval is involved.
func (p promptBuilder) documentSummary(text string) (string, error) {
	tmpl, err := p.load(driven.PromptDocumentSummary)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(tmpl, text), nil
}

func joinExcerpts(chunks []domain.ScoredChunk) string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = strings.TrimSpace(c.Chunk.Text)
	}
	return strings.Join(texts, excerptSeparator)
}
