// Package cli implements the Anchora command-line interface. Commands
// are thin: they parse flags, call the driving ports and render the
// results. All wiring of adapters into services happens here.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	configfile "github.com/custodia-labs/anchora/internal/adapters/driven/config/file"
	embeddingollama "github.com/custodia-labs/anchora/internal/adapters/driven/embedding/ollama"
	embeddingopenai "github.com/custodia-labs/anchora/internal/adapters/driven/embedding/openai"
	llmollama "github.com/custodia-labs/anchora/internal/adapters/driven/llm/ollama"
	llmopenai "github.com/custodia-labs/anchora/internal/adapters/driven/llm/openai"
	memoryfile "github.com/custodia-labs/anchora/internal/adapters/driven/memory/file"
	memorysqlite "github.com/custodia-labs/anchora/internal/adapters/driven/memory/sqlite"
	"github.com/custodia-labs/anchora/internal/adapters/driven/vector/chromem"
	"github.com/custodia-labs/anchora/internal/chunker"
	"github.com/custodia-labs/anchora/internal/core/ports/driven"
	"github.com/custodia-labs/anchora/internal/core/ports/driving"
	"github.com/custodia-labs/anchora/internal/core/services"
	"github.com/custodia-labs/anchora/internal/logger"
	"github.com/custodia-labs/anchora/internal/normalisers"
)

// version is set at build time via -ldflags.
var version = "0.1.0-dev"

// embedRateLimit paces embedding batches during bulk ingestion.
const embedRateLimit = rate.Limit(5)

var (
	verboseFlag bool
	configStore *configfile.ConfigStore

	ingestService driving.IngestService
	answerService driving.AnswerService
	memoryService driving.MemoryService

	// servicesReady short-circuits initServices; tests set it after
	// injecting mocks.
	servicesReady bool
)

var rootCmd = &cobra.Command{
	Use:   "anchora",
	Short: "Ground LLM answers in your documents, with citations",
	Long: `Anchora indexes local documents into a vector store and answers
questions grounded ONLY in what was indexed, citing the source and
location of every passage it used. High-signal conversation facts can
be persisted into durable per-target memory stores.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verboseFlag)
		return initServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "verbose logging to stderr")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initServices wires the configured adapters into the application
// services. LLM and embedding providers are optional: when neither is
// configured the services run in their degraded modes.
func initServices() error {
	if servicesReady {
		return nil
	}

	var err error
	configStore, err = configfile.NewConfigStore(os.Getenv("ANCHORA_CONFIG_DIR"))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	vectorDir := configStore.GetString(configfile.KeyVectorDir)
	if vectorDir == "" {
		vectorDir = filepath.Join(filepath.Dir(configStore.Path()), "index")
	}
	vectors, err := chromem.New(vectorDir)
	if err != nil {
		return fmt.Errorf("opening vector store: %w", err)
	}

	embedder := buildEmbedder()
	llm := buildLLM()

	factStore, err := buildFactStore()
	if err != nil {
		return fmt.Errorf("opening memory store: %w", err)
	}

	chunk := chunker.New(
		chunker.WithChunkSize(configStore.GetInt(configfile.KeyChunkSize, chunker.DefaultChunkSize)),
		chunker.WithOverlap(configStore.GetInt(configfile.KeyChunkOverlap, chunker.DefaultOverlap)),
	)

	ingestService = services.NewIngestService(
		normalisers.Defaults(),
		chunk,
		embedder,
		vectors,
		rate.NewLimiter(embedRateLimit, 1),
	)
	answerService = services.NewAnswerService(
		embedder,
		vectors,
		llm,
		configStore.GetInt(configfile.KeyMaxTopK, services.DefaultMaxTopK),
	)
	memoryService = services.NewMemoryService(llm, factStore)

	servicesReady = true
	return nil
}

// buildLLM selects an LLM provider from config and environment.
// Returns nil when nothing is configured; callers degrade gracefully.
// USE_OLLAMA=1 and OPENAI_API_KEY override the config file.
func buildLLM() driven.LLMService {
	provider := configStore.GetString(configfile.KeyLLMProvider)
	if os.Getenv("USE_OLLAMA") == "1" {
		provider = "ollama"
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		apiKey = configStore.GetString(configfile.KeyLLMAPIKey)
	}
	if provider == "" && apiKey != "" {
		provider = "openai"
	}

	switch provider {
	case "ollama":
		baseURL := os.Getenv("OLLAMA_BASE_URL")
		if baseURL == "" {
			baseURL = configStore.GetString(configfile.KeyLLMBaseURL)
		}
		model := os.Getenv("OLLAMA_MODEL")
		if model == "" {
			model = configStore.GetString(configfile.KeyLLMModel)
		}
		return llmollama.New(llmollama.Config{BaseURL: baseURL, Model: model})
	case "openai":
		svc, err := llmopenai.New(llmopenai.Config{
			APIKey:  apiKey,
			BaseURL: configStore.GetString(configfile.KeyLLMBaseURL),
			Model:   configStore.GetString(configfile.KeyLLMModel),
		})
		if err != nil {
			logger.Warn("OpenAI LLM not configured: %v", err)
			return nil
		}
		return svc
	default:
		logger.Debug("No LLM provider configured")
		return nil
	}
}

// buildEmbedder selects an embedding provider from config and
// environment, defaulting to the same provider family as the LLM.
func buildEmbedder() driven.EmbeddingService {
	provider := configStore.GetString(configfile.KeyEmbedProvider)
	if provider == "" && os.Getenv("USE_OLLAMA") == "1" {
		provider = "ollama"
	}

	apiKey := configStore.GetString(configfile.KeyEmbedAPIKey)
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if provider == "" && apiKey != "" {
		provider = "openai"
	}

	switch provider {
	case "ollama":
		return embeddingollama.New(embeddingollama.Config{
			BaseURL: configStore.GetString(configfile.KeyEmbedBaseURL),
			Model:   configStore.GetString(configfile.KeyEmbedModel),
		})
	case "openai":
		svc, err := embeddingopenai.New(embeddingopenai.Config{
			APIKey:  apiKey,
			BaseURL: configStore.GetString(configfile.KeyEmbedBaseURL),
			Model:   configStore.GetString(configfile.KeyEmbedModel),
		})
		if err != nil {
			logger.Warn("OpenAI embeddings not configured: %v", err)
			return nil
		}
		return svc
	default:
		logger.Debug("No embedding provider configured")
		return nil
	}
}

// buildFactStore selects the memory backend. The file store keeps the
// human-editable USER_MEMORY.md / COMPANY_MEMORY.md layout; sqlite
// trades that for index-enforced uniqueness.
func buildFactStore() (driven.FactStore, error) {
	dir := configStore.GetString(configfile.KeyMemoryDir)
	if dir == "" {
		dir = "."
	}

	switch backend := configStore.GetString(configfile.KeyMemoryBackend); backend {
	case "", "file":
		return memoryfile.New(dir)
	case "sqlite":
		return memorysqlite.New(dir)
	default:
		return nil, fmt.Errorf("unknown memory backend %q", backend)
	}
}
