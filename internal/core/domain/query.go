package domain

// Query is an ephemeral retrieval request. It exists only for the
// duration of one call and is never persisted.
type Query struct {
	// Question is the user's question text.
	Question string

	// TopK overrides the number of passages to retrieve (0 = default).
	TopK int

	// DocumentType filters retrieval to documents with this type tag.
	DocumentType string

	// DocumentID filters retrieval to a single document.
	DocumentID string
}

// Citation references the chunk a statement in an answer came from.
type Citation struct {
	// DocumentID is the cited document.
	DocumentID string

	// Section is the heading of the cited chunk, when known.
	Section string

	// Position is the cited chunk's ordinal within its document.
	Position int

	// Similarity is the retrieval score of the cited passage.
	Similarity float64
}

// Answer is the generator's output for one query.
type Answer struct {
	// Text is the generated answer.
	Text string

	// Sources lists the citations in retrieval order.
	Sources []Citation

	// Confidence is a [0,1] reliability estimate derived from retrieval
	// similarity and answer heuristics.
	Confidence float64

	// Passages are the chunks actually provided to the model.
	Passages []Chunk

	// Model is the model name that produced the answer, if any.
	Model string

	// InsufficientContext is true when no relevant passages were found
	// and the answer is the fixed "not in the knowledge base" response.
	InsufficientContext bool
}

// InsufficientContextAnswer is the fixed response returned when
// retrieval finds nothing relevant. The generator is never invoked in
// that case.
func InsufficientContextAnswer(model string) *Answer {
	return &Answer{
		Text:                "I couldn't find any relevant information in the knowledge base for your question.",
		Sources:             []Citation{},
		Confidence:          0.0,
		Model:               model,
		InsufficientContext: true,
	}
}
