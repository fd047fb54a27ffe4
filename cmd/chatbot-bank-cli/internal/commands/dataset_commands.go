package commands

import (
	"encoding/json"
	"fmt"

	"github.com/CaoThanhNammm/chatbot-bank/internal/infrastructure/dataset"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/logger"

	"github.com/spf13/cobra"
)

// DatasetCommandHandler converts, inspects and registers question/answer CSV files.
type DatasetCommandHandler struct {
	logger logger.Logger
}

// NewDatasetCommandHandler initializes a new DatasetCommandHandler with logging.
func NewDatasetCommandHandler() (*DatasetCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	return &DatasetCommandHandler{
		logger: loggerInstance,
	}, nil
}

// ConvertCmd writes train.json and validation.json for a CSV file
func (commandHandler *DatasetCommandHandler) ConvertCmd(cmd *cobra.Command, _ []string) {
	csvPath, err := cmd.Flags().GetString("csv")
	if err != nil {
		commandHandler.logger.Error("invalid csv flag: ", err)
		return
	}
	outDir, err := cmd.Flags().GetString("out-dir")
	if err != nil {
		commandHandler.logger.Error("invalid out-dir flag: ", err)
		return
	}
	split, err := cmd.Flags().GetFloat64("split")
	if err != nil {
		commandHandler.logger.Error("invalid split flag: ", err)
		return
	}
	if split <= 0 || split > 1 {
		commandHandler.logger.Error("split must be in (0, 1], got ", split)
		return
	}

	result, err := dataset.Convert(csvPath, outDir, split)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	commandHandler.logger.Info(fmt.Sprintf("Converted %d rows: %d to %s, %d to %s",
		result.Total, result.TrainCount, result.TrainPath, result.ValidationCount, result.ValidationPath))
}

// InspectCmd prints the columns, row count and first rows of a CSV file
func (commandHandler *DatasetCommandHandler) InspectCmd(cmd *cobra.Command, _ []string) {
	csvPath, err := cmd.Flags().GetString("csv")
	if err != nil {
		commandHandler.logger.Error("invalid csv flag: ", err)
		return
	}

	preview, err := dataset.Inspect(csvPath)
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}

	out, err := json.MarshalIndent(preview, "", "  ")
	if err != nil {
		commandHandler.logger.Error(err)
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
}

// RegisterCmd converts a CSV file into the data directory and adds it to dataset_info.json
func (commandHandler *DatasetCommandHandler) RegisterCmd(cmd *cobra.Command, _ []string) {
	csvPath, err := cmd.Flags().GetString("csv")
	if err != nil {
		commandHandler.logger.Error("invalid csv flag: ", err)
		return
	}
	dataDir, err := cmd.Flags().GetString("data-dir")
	if err != nil {
		commandHandler.logger.Error("invalid data-dir flag: ", err)
		return
	}
	name, err := cmd.Flags().GetString("name")
	if err != nil {
		commandHandler.logger.Error("invalid name flag: ", err)
		return
	}
	if name == "" {
		name = dataset.CSVDatasetName(csvPath)
	}

	if err := dataset.ConvertAndRegister(csvPath, dataDir, name); err != nil {
		commandHandler.logger.Error(err)
		return
	}

	commandHandler.logger.Info("Registered dataset ", name, " in ", dataDir)
}

// InitDatasetCommands registers the dataset command group
func InitDatasetCommands(rootCmd *cobra.Command) error {
	handler, err := NewDatasetCommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create dataset command handler %w", err)
	}

	datasetCmd := &cobra.Command{
		Use:   "dataset",
		Short: "Prepare question/answer CSV files for fine-tuning",
	}

	var convertCmd = &cobra.Command{
		Use:   "convert",
		Short: "Convert a CSV file into train.json and validation.json",
		Run:   handler.ConvertCmd,
	}
	convertCmd.Flags().StringP("csv", "", "", "Path to the question/answer CSV file")
	convertCmd.Flags().StringP("out-dir", "", "data", "Directory to write train.json and validation.json")
	convertCmd.Flags().Float64P("split", "", 0.9, "Share of rows written to train.json")
	datasetCmd.AddCommand(convertCmd)

	var inspectCmd = &cobra.Command{
		Use:   "inspect",
		Short: "Show the columns, row count and first rows of a CSV file",
		Run:   handler.InspectCmd,
	}
	inspectCmd.Flags().StringP("csv", "", "", "Path to the CSV file")
	datasetCmd.AddCommand(inspectCmd)

	var registerCmd = &cobra.Command{
		Use:   "register",
		Short: "Convert a CSV file and register it in dataset_info.json",
		Run:   handler.RegisterCmd,
	}
	registerCmd.Flags().StringP("csv", "", "", "Path to the question/answer CSV file")
	registerCmd.Flags().StringP("data-dir", "", "data", "Trainer data directory holding dataset_info.json")
	registerCmd.Flags().StringP("name", "", "", "Dataset name (defaults to csv_<file name>)")
	datasetCmd.AddCommand(registerCmd)

	rootCmd.AddCommand(datasetCmd)
	return nil
}
