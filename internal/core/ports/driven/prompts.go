package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptTopicSummary summarises retrieved context about one topic.
	// The template expects %s (context) and %s (topic) placeholders.
	PromptTopicSummary = "topic_summary"

	// PromptChatSystem is the system prompt for document chat.
	// This prompt has no format placeholders.
	PromptChatSystem = "chat_system"

	// PromptDocumentSummary summarises a whole document.
	// The template expects a %s placeholder for the document text.
	PromptDocumentSummary = "document_summary"
)
