package embedding

// Embedder converts free text into a fixed-dimension numeric vector.
// Implementations fitted on a corpus need Prepare before the first Embed;
// remote backends treat Prepare as a no-op. EmbedBatch must preserve input
// order and match repeated Embed calls element-wise.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(text string) ([]float64, error)
	EmbedBatch(texts []string) ([][]float64, error)
}
