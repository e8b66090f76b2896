package cmd

import (
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "hiresense"
)

type Config struct {
	Server *ServerConfig `mapstructure:"server"`
	Ollama *OllamaConfig `mapstructure:"ollama"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type OllamaConfig struct {
	Host     string          `mapstructure:"host"`
	Models   *ModelsConfig   `mapstructure:"models"`
	Timeouts *TimeoutsConfig `mapstructure:"timeouts"`
	Options  map[string]any  `mapstructure:"options"`
}

type ModelsConfig struct {
	Extraction string `mapstructure:"extraction"`
	Embedding  string `mapstructure:"embedding"`
}

type TimeoutsConfig struct {
	Generate time.Duration `mapstructure:"generate"`
	Chat     time.Duration `mapstructure:"chat"`
	Embed    time.Duration `mapstructure:"embed"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "hiresense is a recruitment-assistance backend on top of a local Ollama host",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ollama.host", "OLLAMA_HOST"); err != nil {
		log.Fatalf("binding OLLAMA_HOST environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is hiresense.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config is needed only for the serve command. Host-only commands work
	// from flags and the environment alone.
	if serveCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
