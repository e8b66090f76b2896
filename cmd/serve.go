package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/hiresense/hiresense/internal/logger"
	"github.com/hiresense/hiresense/internal/ollama"
	"github.com/hiresense/hiresense/internal/resume"
	"github.com/hiresense/hiresense/internal/server"
	"github.com/hiresense/hiresense/internal/tasks"
)

const (
	defaultAddress         = ":8000"
	defaultExtractionModel = "llama3.2"
	defaultEmbeddingModel  = "nomic-embed-text"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the hiresense HTTP server",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("address", "a", "", "listen address, overrides server.address from the config")

	viper.BindPFlag("server.address", serveCmd.Flags().Lookup("address"))
}

// serve wires the whole service together and blocks until shutdown.
func serve(_ *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the hiresense server", zap.String("version", resolveVersion()))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		config = &Config{}
	}

	gateway := newGateway(config.Ollama, logger)

	models := resolveModels(config.Ollama)

	warmup(ctx, gateway, models, logger)

	runner := tasks.New(gateway, models, logger)
	parser := resume.NewParser(logger)
	handler := server.NewHandler(runner, parser, logger)

	address := defaultAddress
	if config.Server != nil && config.Server.Address != "" {
		address = config.Server.Address
	}

	logger.Info("listening", zap.String("address", address))

	srv := server.New(address, handler, logger)
	srv.Spin()
}

func newGateway(cfg *OllamaConfig, logger *zap.Logger) *ollama.Client {
	if cfg == nil {
		cfg = &OllamaConfig{}
	}

	var timeouts ollama.Timeouts
	if cfg.Timeouts != nil {
		timeouts = ollama.Timeouts{
			Generate: cfg.Timeouts.Generate,
			Chat:     cfg.Timeouts.Chat,
			Embed:    cfg.Timeouts.Embed,
		}
	}

	client := ollama.New(cfg.Host, logger, timeouts)

	opts, err := ollama.DecodeOptions(cfg.Options)
	if err != nil {
		logger.Fatal("parsing ollama.options", zap.Error(err))
	}
	client.SetOptions(opts)

	return client
}

func resolveModels(cfg *OllamaConfig) tasks.Models {
	models := tasks.Models{
		Extraction: defaultExtractionModel,
		Embedding:  defaultEmbeddingModel,
	}

	if cfg != nil && cfg.Models != nil {
		if cfg.Models.Extraction != "" {
			models.Extraction = cfg.Models.Extraction
		}
		if cfg.Models.Embedding != "" {
			models.Embedding = cfg.Models.Embedding
		}
	}

	return models
}

// warmup makes sure the configured models are present on the host before
// traffic arrives. A failed warm-up is logged and the server starts anyway;
// the first real call will surface the problem to the caller. No deadline
// here: a missing model triggers a blocking pull that may download gigabytes,
// and the list probe carries its own per-call timeout.
func warmup(ctx context.Context, gateway *ollama.Client, models tasks.Models, logger *zap.Logger) {
	names := []string{models.Extraction}
	if models.Embedding != models.Extraction {
		names = append(names, models.Embedding)
	}

	for _, name := range names {
		if err := gateway.EnsureModel(ctx, name); err != nil {
			logger.Warn("model warm-up failed, continuing",
				zap.String("model", name),
				zap.Error(err),
			)
			continue
		}
		logger.Info("model is available", zap.String("model", name))
	}
}
