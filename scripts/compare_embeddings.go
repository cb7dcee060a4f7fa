//go:build ignore

package main

import (
	"fmt"
	"log"

	"specialist-match-be/internal/config"
	"specialist-match-be/pkg/embedding"
)

func main() {
	cfg := config.Load()

	// 1. Initialize Providers
	fmt.Println("--- Initializing Providers ---")
	gemini := embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
	nomic := embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)

	// 2. Define Test Cases: two profiles that should read as similar, one that shouldn't
	text1 := "Licensed therapist working with anxiety, panic attacks and burnout. Online CBT sessions."
	text2 := "Clinical psychologist helping clients manage stress, panic and professional exhaustion remotely."
	text3 := "Running coach building marathon training plans with weekly check-ins."

	fmt.Println("\n--- Generating Embeddings ---")

	generate := func(name string, p embedding.EmbeddingProvider, t1, t2, t3 string) ([]float32, []float32, []float32) {
		fmt.Printf("\n[%s] Generating...\n", name)

		v1, err := p.Generate(t1, embedding.TaskRetrievalDocument)
		if err != nil {
			log.Printf("Error %s (Text 1): %v", name, err)
			return nil, nil, nil
		}
		fmt.Printf("[%s] Text 1 Dimensions: %d\n", name, len(v1.Embedding.Values))

		v2, err := p.Generate(t2, embedding.TaskRetrievalDocument)
		if err != nil {
			log.Printf("Error %s (Text 2): %v", name, err)
			return nil, nil, nil
		}

		v3, err := p.Generate(t3, embedding.TaskRetrievalDocument)
		if err != nil {
			log.Printf("Error %s (Text 3): %v", name, err)
			return nil, nil, nil
		}

		return v1.Embedding.Values, v2.Embedding.Values, v3.Embedding.Values
	}

	// 3. Run Gemini
	g1, g2, g3 := generate("GEMINI", gemini, text1, text2, text3)

	// 4. Run Nomic
	n1, n2, n3 := generate("NOMIC", nomic, text1, text2, text3)

	// 5. Compare Similarity
	fmt.Println("\n--- Semantic Similarity Comparison ---")
	fmt.Println("(Higher is better, 1.0 = identical)")

	if g1 != nil && g2 != nil && g3 != nil {
		fmt.Printf("\n[GEMINI]\n")
		fmt.Printf("Similarity (Text 1 vs Text 2 - Similar): %.4f\n", embedding.Cosine(g1, g2))
		fmt.Printf("Similarity (Text 1 vs Text 3 - Different): %.4f\n", embedding.Cosine(g1, g3))
	}

	if n1 != nil && n2 != nil && n3 != nil {
		fmt.Printf("\n[NOMIC]\n")
		fmt.Printf("Similarity (Text 1 vs Text 2 - Similar): %.4f\n", embedding.Cosine(n1, n2))
		fmt.Printf("Similarity (Text 1 vs Text 3 - Different): %.4f\n", embedding.Cosine(n1, n3))
	}

	fmt.Println("\n--- Conclusion ---")
	fmt.Println("Both providers should score Text 1 & 2 well above Text 1 & 3.")
}
