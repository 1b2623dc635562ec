package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"docchat/internal/chunker"
	"docchat/internal/config"
	"docchat/internal/conversation"
	"docchat/internal/domain"
	"docchat/internal/encoder"
	"docchat/internal/generate"
	"docchat/internal/registry"
	"docchat/internal/service"
	"docchat/internal/summarizer"
	"docchat/internal/tui"
	"docchat/internal/vectorstore/memory"
	"docchat/internal/vectorstore/qdrant"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/docchat/config.yaml if not provided)")
	flag.Parse()
	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Println("Usage: docchat [--config=config.yaml] file1.txt [file2.txt ...]")
		os.Exit(1)
	}

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := buildLogger(cfg.Logging.Mode)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ch, err := chunker.New(cfg.Chunker.MaxSize, cfg.Chunker.OverlapWords, chunker.WithMinWords(cfg.Chunker.MinWords))
	if err != nil {
		log.Fatalf("invalid chunker config: %v", err)
	}
	enc := encoder.New(encoder.WithBuckets(cfg.Encoder.Buckets))

	var store domain.VectorStore
	switch cfg.VectorStore.Type {
	case "memory", "":
		store = memory.New()
	case "qdrant":
		if cfg.VectorStore.Qdrant == nil {
			log.Fatalf("qdrant config missing")
		}
		store, err = qdrant.New(qdrant.Config{
			URL:        cfg.VectorStore.Qdrant.URL,
			APIKey:     cfg.VectorStore.Qdrant.APIKey,
			Collection: cfg.VectorStore.Qdrant.Collection,
			Timeout:    time.Duration(cfg.VectorStore.Qdrant.TimeoutSecs) * time.Second,
		})
		if err != nil {
			log.Fatalf("qdrant store init failed: %v", err)
		}
	default:
		log.Fatalf("unknown vector store: %s", cfg.VectorStore.Type)
	}

	regPath := cfg.Registry.Path
	if regPath == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			regPath = filepath.Join(dir, "docchat", "documents.db")
		}
	}
	var reg service.DocumentRegistry
	if regPath != "" {
		sqlReg, err := registry.Open(regPath)
		if err != nil {
			log.Fatalf("registry init failed: %v", err)
		}
		defer func() { _ = sqlReg.Close() }()
		reg = sqlReg
	}

	gen, err := generate.NewClient(generate.Config{
		BaseURL:   cfg.Generator.BaseURL,
		APIKeyEnv: cfg.Generator.APIKeyEnv,
		Model:     cfg.Generator.Model,
		MaxTokens: cfg.Generator.MaxTokens,
		Timeout:   time.Duration(cfg.Generator.TimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatalf("generator init failed: %v (set %s)", err, cfg.Generator.APIKeyEnv)
	}

	svc := service.New(service.Options{
		Chunker:    ch,
		Encoder:    enc,
		Store:      store,
		Window:     conversation.NewWindow(cfg.Conversation.MaxTurns),
		Registry:   reg,
		Generator:  gen,
		Summarizer: summarizer.NewFrequency(),
		Logger:     logger,
		TopK:       cfg.Retrieval.TopK,
	})

	ctx := context.Background()
	var lastDocID, lastSummary string
	for _, path := range inputs {
		res, err := svc.IngestFile(ctx, path)
		if err != nil {
			log.Fatalf("ingest %s failed: %v", path, err)
		}
		lastDocID = res.Info.ID
		lastSummary = res.Summary
	}

	// A single document scopes the chat to it; several span all scopes.
	scope := ""
	summary := fmt.Sprintf("%d documents ingested", len(inputs))
	if len(inputs) == 1 {
		scope = lastDocID
		summary = lastSummary
	}

	m := tui.New(svc, scope, summary)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}

func buildLogger(mode string) (*zap.Logger, error) {
	if mode == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
