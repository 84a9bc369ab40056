// Package domain defines the core business entities for lexmap.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Source: A document handed to the system (PDF bytes or a URL)
//   - Chunk: A retrievable unit of extracted text
//   - GraphDescription: The presentational knowledge graph
//   - ProcessResult, AskResult, SummaryResult: Mode-independent results
//   - ConversationTurn: One human/assistant exchange
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
