// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Backend: Executes document operations (offline pipeline or remote service)
//   - TextExtractor: Decodes document bytes into plain text
//   - Chunker: Splits extracted text into overlapping chunks
//   - EmbeddingService: Generates vector embeddings for chunks and queries
//   - LLMService: Generates answers and summaries
//   - GraphDeriver: Derives the presentational knowledge graph
//   - ConnectivityProbe: Reports whether the remote service is reachable
//   - ConfigStore: Application configuration
//   - PromptStore: Prompt templates
//
// # Optional Interfaces
//
//   - CorpusFitter: Implemented by embedders that must be fitted to a corpus (TF-IDF)
//   - AIConfigValidator: Pings configured providers before they are used
//   - ConnectivityReporter: Accepts reachability observed by failed remote calls
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
