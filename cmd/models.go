package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hiresense/hiresense/internal/logger"
	"github.com/hiresense/hiresense/internal/ollama"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Inspect and manage models on the configured host",
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List models available on the host",
	Run: func(_ *cobra.Command, _ []string) {
		client := newHostClient()

		models, err := client.ListModels(context.Background())
		if err != nil {
			log.Fatalf("listing models: %v", err)
		}

		if len(models) == 0 {
			fmt.Println("no models found on the host")
			return
		}

		for _, m := range models {
			fmt.Println(m.Name)
		}
	},
}

var modelsPullCmd = &cobra.Command{
	Use:   "pull <name>",
	Short: "Pull a model onto the host",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		name := args[0]

		prompt := promptui.Select{
			Label: fmt.Sprintf("Pull %q? This may download several gigabytes", name),
			Items: []string{PromptYes, PromptNo},
		}

		_, answer, err := prompt.Run()
		if err != nil {
			log.Fatalf("prompt failed: %v", err)
		}
		if answer != PromptYes {
			fmt.Println("aborted")
			return
		}

		client := newHostClient()

		// Pulls are unbounded on purpose; large models take a while.
		if err := client.PullModel(context.Background(), name); err != nil {
			log.Fatalf("pulling model: %v", err)
		}

		fmt.Printf("model %s is ready\n", name)
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.AddCommand(modelsListCmd)
	modelsCmd.AddCommand(modelsPullCmd)
}

// newHostClient builds a gateway client from flags and environment only, so
// the models commands work without a config file.
func newHostClient() *ollama.Client {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	return ollama.New(viper.GetString("ollama.host"), logger, ollama.Timeouts{})
}
