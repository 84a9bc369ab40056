package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderLocal is the in-process TF-IDF embedder. Embeddings only.
	AIProviderLocal AIProvider = "local"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderLocal, AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderLocal
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderLocal:
		return "Local TF-IDF (in-process)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() || l.Provider == AIProviderLocal {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// ModeSettings holds the online/offline toggle.
type ModeSettings struct {
	// Online is the configured mode flag. Connectivity still decides.
	Online bool
}

// RemoteSettings configures the remote document service.
type RemoteSettings struct {
	// BaseURL is the remote service root, e.g. http://localhost:5000.
	BaseURL string

	// Timeout bounds each remote request.
	Timeout time.Duration

	// RequestsPerSecond throttles outgoing calls. Zero means unlimited.
	RequestsPerSecond float64
}

// ChunkingSettings configures the offline chunker.
type ChunkingSettings struct {
	Size    int
	Overlap int
}

// RetrievalSettings configures similarity retrieval.
type RetrievalSettings struct {
	// TopK is the number of chunks retrieved per question.
	TopK int
}

// ConversationSettings configures the conversation store.
type ConversationSettings struct {
	// MaxTurns caps the stored history per conversation.
	MaxTurns int
}

// OfflineSettings configures the local pipeline.
type OfflineSettings struct {
	// CallTimeout bounds each embedding or generation call.
	CallTimeout time.Duration
}

// GraphSettings configures the heuristic graph deriver.
type GraphSettings struct {
	// VocabularyFile optionally replaces the built-in label vocabulary.
	VocabularyFile string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Mode         ModeSettings
	Remote       RemoteSettings
	Embedding    EmbeddingSettings
	LLM          LLMSettings
	Chunking     ChunkingSettings
	Retrieval    RetrievalSettings
	Conversation ConversationSettings
	Offline      OfflineSettings
	Graph        GraphSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The embedder defaults to the in-process TF-IDF model so the offline
// pipeline works without any model server; the LLM defaults to Ollama.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Mode: ModeSettings{Online: true},
		Remote: RemoteSettings{
			BaseURL: "http://localhost:5000",
			Timeout: 60 * time.Second,
		},
		Embedding: EmbeddingSettings{
			Provider: AIProviderLocal,
		},
		LLM: LLMSettings{
			Provider: AIProviderOllama,
			Model:    "llama3.2",
		},
		Chunking: ChunkingSettings{
			Size:    1000,
			Overlap: 200,
		},
		Retrieval: RetrievalSettings{
			TopK: 4,
		},
		Conversation: ConversationSettings{
			MaxTurns: DefaultMaxTurns,
		},
		Offline: OfflineSettings{
			CallTimeout: 120 * time.Second,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{AIProviderLocal, AIProviderOllama, AIProviderOpenAI}
}

// AllLLMProviders returns providers that support LLM.
func AllLLMProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
