package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/finetune"
	"github.com/CaoThanhNammm/chatbot-bank/internal/infrastructure/dataset"
	"github.com/CaoThanhNammm/chatbot-bank/internal/infrastructure/training"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/logger"

	"github.com/spf13/cobra"
)

const trainerStopGrace = 10 * time.Second

// FinetuneCommandHandler runs fine-tuning jobs in the foreground.
type FinetuneCommandHandler struct {
	logger logger.Logger
}

// NewFinetuneCommandHandler initializes a new FinetuneCommandHandler with logging.
func NewFinetuneCommandHandler() (*FinetuneCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	return &FinetuneCommandHandler{
		logger: loggerInstance,
	}, nil
}

// RunCmd prepares the dataset and runs the trainer until it exits or the process is interrupted
func (commandHandler *FinetuneCommandHandler) RunCmd(cmd *cobra.Command, _ []string) {
	spec, configPath, err := specFromFlags(cmd)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	if err := spec.Validate(); err != nil {
		commandHandler.logger.Error(err)
		return
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	outputPath := filepath.Join(cfg.Training.OutputDir, spec.OutputDir)
	if _, err := os.Stat(outputPath); err == nil {
		commandHandler.logger.Error(fmt.Errorf("%w: %s", finetune.ErrOutputExists, outputPath))
		return
	}

	preparer, err := dataset.NewPreparer(cfg.Training.DataDir, commandHandler.logger)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	trainer, err := training.NewCLITrainer(cfg.Training.CLIPath, trainerStopGrace, commandHandler.logger)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := commandHandler.train(ctx, spec, preparer, trainer, outputPath); err != nil {
		commandHandler.logger.Error("Fine-tuning failed: ", err)
		return
	}
	commandHandler.logger.Info("Fine-tuning completed, adapter written to ", outputPath)
}

func (commandHandler *FinetuneCommandHandler) train(
	ctx context.Context,
	spec *finetune.TaskSpec,
	preparer finetune.DatasetPreparer,
	trainer finetune.Trainer,
	outputPath string,
) error {
	task := finetune.NewTask(spec, time.Now().UTC())

	datasetName, err := preparer.Prepare(ctx, spec.Dataset)
	if err != nil {
		return fmt.Errorf("dataset preparation failed: %w", err)
	}

	commandHandler.logger.Info("Training ", spec.ModelNameOrPath, " on dataset ", datasetName)
	return trainer.Train(ctx, &finetune.TrainingJob{
		Task:        task,
		DatasetName: datasetName,
		DatasetDir:  preparer.DataDir(),
		OutputPath:  outputPath,
	})
}

// specFromFlags builds a TaskSpec from the defaults and the command flags
func specFromFlags(cmd *cobra.Command) (*finetune.TaskSpec, string, error) {
	flags := cmd.Flags()
	spec := finetune.NewTaskSpec()

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, "", fmt.Errorf("invalid config flag: %w", err)
	}
	if spec.ModelNameOrPath, err = flags.GetString("model"); err != nil {
		return nil, "", fmt.Errorf("invalid model flag: %w", err)
	}
	if spec.Dataset, err = flags.GetString("dataset"); err != nil {
		return nil, "", fmt.Errorf("invalid dataset flag: %w", err)
	}
	if spec.Template, err = flags.GetString("template"); err != nil {
		return nil, "", fmt.Errorf("invalid template flag: %w", err)
	}
	if spec.OutputDir, err = flags.GetString("output-dir"); err != nil {
		return nil, "", fmt.Errorf("invalid output-dir flag: %w", err)
	}

	// Hyperparameters keep their defaults unless set explicitly
	if flags.Changed("epochs") {
		if spec.NumTrainEpochs, err = flags.GetFloat64("epochs"); err != nil {
			return nil, "", fmt.Errorf("invalid epochs flag: %w", err)
		}
	}
	if flags.Changed("learning-rate") {
		if spec.LearningRate, err = flags.GetFloat64("learning-rate"); err != nil {
			return nil, "", fmt.Errorf("invalid learning-rate flag: %w", err)
		}
	}
	if flags.Changed("max-samples") {
		if spec.MaxSamples, err = flags.GetInt("max-samples"); err != nil {
			return nil, "", fmt.Errorf("invalid max-samples flag: %w", err)
		}
	}

	return spec, configPath, nil
}

// InitFinetuneCommands registers the finetune command group
func InitFinetuneCommands(rootCmd *cobra.Command) error {
	handler, err := NewFinetuneCommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create fine-tune command handler %w", err)
	}

	finetuneCmd := &cobra.Command{
		Use:   "finetune",
		Short: "Run fine-tuning jobs",
	}

	defaults := finetune.DefaultTrainingParams()

	var runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run a fine-tuning job in the foreground",
		Run:   handler.RunCmd,
	}
	runCmd.Flags().StringP("config", "", defaultConfigPath, "Path to the REST API YAML configuration")
	runCmd.Flags().StringP("model", "", finetune.DefaultBaseModel, "Base model name or path")
	runCmd.Flags().StringP("dataset", "", "", "Registered dataset name or path to a question/answer CSV file")
	runCmd.Flags().StringP("template", "", finetune.DefaultTemplate, "Chat template of the base model")
	runCmd.Flags().StringP("output-dir", "", finetune.DefaultOutputDir, "Adapter directory name under the training output root")
	runCmd.Flags().Float64P("epochs", "", defaults.NumTrainEpochs, "Number of training epochs")
	runCmd.Flags().Float64P("learning-rate", "", defaults.LearningRate, "Learning rate")
	runCmd.Flags().IntP("max-samples", "", defaults.MaxSamples, "Maximum samples taken from the dataset")
	finetuneCmd.AddCommand(runCmd)

	rootCmd.AddCommand(finetuneCmd)
	return nil
}
