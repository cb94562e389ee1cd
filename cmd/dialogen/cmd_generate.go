package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/phrazzld/dialogen/internal/batch"
	"github.com/phrazzld/dialogen/internal/config"
	"github.com/phrazzld/dialogen/internal/dataset"
	"github.com/phrazzld/dialogen/internal/generation"
	"github.com/phrazzld/dialogen/internal/keypool"
	"github.com/phrazzld/dialogen/internal/platform/gemini"
	"github.com/phrazzld/dialogen/internal/platform/logger"
	"github.com/spf13/cobra"
)

var (
	generatePersonasFile string
	generateOutputFile   string
	generateTaskCount    int
	generatePolicy       string
)

func newGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run a batch of dialogue generation tasks",
		Long: `Run a batch of generation tasks against the Gemini API and write the
collected records as a single JSON document.

By default one task is created per non-blank line of the personas file.
With --count N, the batch instead runs N tasks, each sampling a random
scenario line. Failed tasks are logged and skipped; the output reflects
exactly the successful ones, in submission order.`,
		Args: cobra.NoArgs,
		RunE: generateCommandE,
	}

	cmd.Flags().StringVarP(&generatePersonasFile, "personas", "p", "", "Newline-delimited personas/scenarios file (overrides config)")
	cmd.Flags().StringVarP(&generateOutputFile, "output", "o", "", "Output file, or - for stdout (overrides config)")
	cmd.Flags().IntVarP(&generateTaskCount, "count", "n", 0, "Run N randomly sampled scenario tasks instead of one per persona")
	cmd.Flags().StringVar(&generatePolicy, "exhaustion-policy", "", "Full-pool exhaustion policy: cooldown or skip (overrides config)")

	return cmd
}

func generateCommandE(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Flags override config.
	if generatePersonasFile != "" {
		cfg.Batch.PersonasFile = generatePersonasFile
	}
	if generateOutputFile != "" {
		cfg.Batch.OutputFile = generateOutputFile
	}
	if generateTaskCount > 0 {
		cfg.Batch.TaskCount = generateTaskCount
	}
	if generatePolicy != "" {
		cfg.Generation.ExhaustionPolicy = generatePolicy
	}

	if cfg.Batch.PersonasFile == "" {
		return fmt.Errorf("%w: no personas file configured (set batch.personas_file or --personas)",
			generation.ErrInvalidConfig)
	}

	log := logger.Setup(cfg.Log)
	log.Info("configuration loaded",
		"model", cfg.LLM.ModelName,
		"credentials", len(cfg.LLM.APIKeys),
		"exhaustion_policy", cfg.Generation.ExhaustionPolicy)

	pool, err := keypool.New(cfg.LLM.APIKeys)
	if err != nil {
		return fmt.Errorf("%w: %v", generation.ErrInvalidConfig, err)
	}

	client, err := gemini.NewClient(log, cfg.LLM)
	if err != nil {
		return err
	}

	loop, err := generation.NewLoop(client, pool, policyFromConfig(cfg.Generation), log)
	if err != nil {
		return err
	}

	imageText, err := loadImageText(cfg.Batch.ImageTextFile)
	if err != nil {
		return err
	}

	driver, err := batch.NewDriver(loop, log, imageText)
	if err != nil {
		return err
	}

	personas, err := batch.LoadPersonas(cfg.Batch.PersonasFile)
	if err != nil {
		return err
	}
	if len(personas) == 0 {
		return fmt.Errorf("%w: personas file %s has no usable lines",
			generation.ErrInvalidConfig, cfg.Batch.PersonasFile)
	}

	var tasks []generation.Task
	if cfg.Batch.TaskCount > 0 {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		tasks = batch.ScenarioTasks(cfg.Batch.TaskCount, personas, rng)
	} else {
		tasks = batch.PersonaTasks(personas)
	}

	records := driver.Run(cmd.Context(), tasks)

	if err := dataset.WriteJSON(cfg.Batch.OutputFile, records); err != nil {
		return err
	}

	log.Info("wrote dialogue dataset",
		"records", len(records),
		"output", cfg.Batch.OutputFile)
	return nil
}

// policyFromConfig maps the configuration record onto the loop policy.
func policyFromConfig(gc config.GenerationConfig) generation.Policy {
	return generation.Policy{
		MaxParseRetries: gc.MaxParseRetries,
		RotateDelay:     time.Duration(gc.RotateDelaySeconds) * time.Second,
		ParseRetryDelay: time.Duration(gc.ParseRetryDelaySeconds) * time.Second,
		Exhaustion:      generation.ExhaustionPolicy(gc.ExhaustionPolicy),
		CooldownDelay:   time.Duration(gc.CooldownSeconds) * time.Second,
	}
}

// loadImageText reads the optional snippet attached to every persona record.
func loadImageText(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image text file %s: %w", path, err)
	}
	return string(data), nil
}
