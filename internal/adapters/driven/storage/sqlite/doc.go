// Package sqlite provides the persistent vector index backed by SQLite.
//
// Chunk text, metadata, and embeddings (stored as little-endian float32
// blobs) live in a single database file. Similarity search is an exact
// cosine scan over the stored vectors, which is ample for the corpus
// sizes a local documentation knowledge base holds.
//
// The store persists the embedder identity alongside the index and
// refuses to mix vectors from different embedder configurations: a
// mismatch at open time surfaces as domain.ErrIndexCorruption rather
// than silently degrading retrieval ranking.
package sqlite
