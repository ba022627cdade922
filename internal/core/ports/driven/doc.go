// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for ingestion and retrieval to function:
//
//   - EmbeddingService: Generates vector embeddings (Ollama, OpenAI)
//   - VectorStore: Persistent chunk/embedding storage with similarity search (SQLite)
//   - ConfigStore: Application configuration (TOML file)
//
// # Optional Interfaces
//
// These can be absent - the application degrades gracefully:
//
//   - LLMService: Answer generation. Without it, queries fail with a
//     provider error at generation time; ingestion and listing still work.
//   - Converter: PDF-to-text conversion. Only needed for PDF ingestion.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
