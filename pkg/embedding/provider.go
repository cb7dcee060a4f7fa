package embedding

// Task types distinguishing document vs query embeddings.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Generate(text string, taskType string) (*EmbeddingResponse, error)

	// ModelVersion identifies the model that produced the vectors. Stored
	// alongside each record so mixed-version comparisons can be detected.
	ModelVersion() string
}
