// Command ragctl ingests reference documents into the vector index and runs
// grounded queries against it from the command line.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/tabletalk/rules-qa/internal/config"
	"github.com/tabletalk/rules-qa/internal/index"
	"github.com/tabletalk/rules-qa/internal/llm"
	"github.com/tabletalk/rules-qa/internal/llm/gemini"
	"github.com/tabletalk/rules-qa/internal/llm/ollama"
	"github.com/tabletalk/rules-qa/internal/service"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	persist := flag.String("persist", "", "index directory (overrides config)")
	docsDir := flag.String("docs", "", "documents directory (overrides config)")
	question := flag.String("question", "", "question for the query command")
	k := flag.Int("k", 4, "number of chunks to retrieve")
	flag.Parse()

	cmd := flag.Arg(0)
	if cmd != "ingest" && cmd != "query" {
		fmt.Fprintln(os.Stderr, "usage: ragctl [flags] ingest|query")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *persist != "" {
		cfg.Index.Path = *persist
	}
	if *docsDir != "" {
		cfg.Index.DocsDir = *docsDir
	}

	embedder := ollama.NewEmbedder(cfg.Embedding)
	indexService := index.NewService(embedder, cfg.Index)
	composer := llm.NewComposer(gemini.NewProvider(cfg.Gemini), cfg.Gemini.Workers)
	ragService := service.NewRAGService(indexService, composer, cfg.Index)

	ctx := context.Background()

	switch cmd {
	case "ingest":
		count, err := ragService.IngestDocs(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ingest failed: %v\n", err)
			os.Exit(1)
		}
		if count == 0 {
			fmt.Println("No documents found")
			return
		}
		fmt.Printf("Ingested %d documents\n", count)

	case "query":
		if *question == "" {
			fmt.Fprintln(os.Stderr, "please supply --question")
			os.Exit(2)
		}
		result, err := ragService.Query(ctx, *question, *k)
		if err != nil {
			fmt.Fprintf(os.Stderr, "query failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(result.Answer)
	}
}
