package config

import (
	"strings"
	"testing"
)

func TestValidateDefaults(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestValidateRejectsUnknownModels(t *testing.T) {
	cfg := defaultConfig()
	cfg.LLM.Model = "gpt-99-ultra"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("unknown generation model must be rejected")
	}

	cfg = defaultConfig()
	cfg.LLM.EmbeddingModel = "some-embedding"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("unknown embedding model must be rejected")
	}
}

func TestValidateRejectsBadChunking(t *testing.T) {
	cfg := defaultConfig()
	cfg.RAG.ChunkOverlap = cfg.RAG.ChunkSize
	if err := cfg.Validate(); err == nil {
		t.Fatalf("overlap >= chunk size must be rejected")
	}

	cfg = defaultConfig()
	cfg.RAG.TopK = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("non-positive top_k must be rejected")
	}
}

func TestEmbeddingDimension(t *testing.T) {
	dim, ok := EmbeddingDimension("text-embedding-004")
	if !ok || dim != 768 {
		t.Fatalf("expected 768 for text-embedding-004, got %d %v", dim, ok)
	}
	if _, ok := EmbeddingDimension("nope"); ok {
		t.Fatalf("unknown model must not resolve a dimension")
	}
}

func TestMySQLDSNBoundsDriverIO(t *testing.T) {
	cfg := defaultConfig()
	dsn := cfg.MySQLDSN()
	for _, param := range []string{"timeout=", "readTimeout=", "writeTimeout="} {
		if !strings.Contains(dsn, param) {
			t.Fatalf("dsn must carry %s, got %q", param, dsn)
		}
	}
}

func TestValidateRejectsNonPositiveMilvusTimeout(t *testing.T) {
	cfg := defaultConfig()
	cfg.Milvus.TimeoutSeconds = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("non-positive milvus timeout must be rejected")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("RAG_TOP_K", "5")
	t.Setenv("MILVUS_COLLECTION", "test_chunks")

	cfg := defaultConfig()
	overrideByEnv(cfg)
	if cfg.RAG.TopK != 5 {
		t.Fatalf("expected top_k override 5, got %d", cfg.RAG.TopK)
	}
	if cfg.Milvus.Collection != "test_chunks" {
		t.Fatalf("expected collection override, got %q", cfg.Milvus.Collection)
	}
}
