package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change configuration values stored in config.toml.

Common keys:
  llm.provider        "openai" or "ollama"
  llm.api_key         API key for the LLM provider
  llm.model           chat model name
  embedding.provider  "openai" or "ollama"
  embedding.model     embedding model name
  ingest.chunk_size   character budget per chunk
  ingest.overlap      words carried into the next chunk
  search.max_top_k    retrieval cap
  memory.backend      "file" or "sqlite"`,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	value, ok := configStore.Get(args[0])
	if !ok {
		return fmt.Errorf("key %q is not set", args[0])
	}

	if maskedKey(args[0]) {
		cmd.Println(maskValue(fmt.Sprint(value)))
		return nil
	}
	cmd.Println(value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, raw := args[0], args[1]

	// Integers are stored typed so GetInt round-trips.
	if n, err := strconv.Atoi(raw); err == nil {
		configStore.Set(key, n)
	} else {
		configStore.Set(key, raw)
	}

	if err := configStore.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	cmd.Printf("Set %s\n", key)
	return nil
}

// maskedKey reports whether a key holds a secret that should not be
// echoed back in full.
func maskedKey(key string) bool {
	return strings.HasSuffix(key, ".api_key")
}

func maskValue(value string) string {
	if len(value) <= 8 {
		return "****"
	}
	return value[:4] + "..." + value[len(value)-4:]
}
