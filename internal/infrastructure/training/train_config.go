package training

import (
	"fmt"
	"os"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/finetune"

	"gopkg.in/yaml.v3"
)

// TrainConfig is the YAML file passed to `llamafactory-cli train`
type TrainConfig struct {
	Stage           string `yaml:"stage"`
	DoTrain         bool   `yaml:"do_train"`
	ModelNameOrPath string `yaml:"model_name_or_path"`

	FinetuningType  string  `yaml:"finetuning_type"`
	LoraTarget      string  `yaml:"lora_target"`
	LoraplusLRRatio float64 `yaml:"loraplus_lr_ratio,omitempty"`

	Dataset    string `yaml:"dataset"`
	DatasetDir string `yaml:"dataset_dir"`
	Template   string `yaml:"template"`
	MaxSamples int    `yaml:"max_samples"`

	OutputDir          string `yaml:"output_dir"`
	OverwriteOutputDir bool   `yaml:"overwrite_output_dir"`
	LoggingSteps       int    `yaml:"logging_steps"`
	SaveSteps          int    `yaml:"save_steps"`
	ReportTo           string `yaml:"report_to"`

	PerDeviceTrainBatchSize   int     `yaml:"per_device_train_batch_size"`
	GradientAccumulationSteps int     `yaml:"gradient_accumulation_steps"`
	LearningRate              float64 `yaml:"learning_rate"`
	NumTrainEpochs            float64 `yaml:"num_train_epochs"`
	LRSchedulerType           string  `yaml:"lr_scheduler_type"`
	WarmupRatio               float64 `yaml:"warmup_ratio"`
	MaxGradNorm               float64 `yaml:"max_grad_norm"`
	FP16                      bool    `yaml:"fp16"`
}

// NewTrainConfig builds the supervised fine-tuning config of a job
func NewTrainConfig(job *finetune.TrainingJob) *TrainConfig {
	spec := job.Task.TaskSpec
	params := spec.TrainingParams
	return &TrainConfig{
		Stage:                     "sft",
		DoTrain:                   true,
		ModelNameOrPath:           spec.ModelNameOrPath,
		FinetuningType:            params.FinetuningType,
		LoraTarget:                params.LoraTarget,
		LoraplusLRRatio:           params.LoraplusLRRatio,
		Dataset:                   job.DatasetName,
		DatasetDir:                job.DatasetDir,
		Template:                  spec.Template,
		MaxSamples:                params.MaxSamples,
		OutputDir:                 job.OutputPath,
		LoggingSteps:              params.LoggingSteps,
		SaveSteps:                 params.SaveSteps,
		ReportTo:                  params.ReportTo,
		PerDeviceTrainBatchSize:   params.PerDeviceTrainBatchSize,
		GradientAccumulationSteps: params.GradientAccumulationSteps,
		LearningRate:              params.LearningRate,
		NumTrainEpochs:            params.NumTrainEpochs,
		LRSchedulerType:           params.LRSchedulerType,
		WarmupRatio:               params.WarmupRatio,
		MaxGradNorm:               params.MaxGradNorm,
		FP16:                      params.FP16,
	}
}

// WriteFile writes the config as YAML to path
func (c *TrainConfig) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create train config %s: %w", path, err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode train config: %w", err)
	}
	return enc.Close()
}

// ReadTrainConfig loads a YAML config written by WriteFile
func ReadTrainConfig(path string) (*TrainConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read train config %s: %w", path, err)
	}
	var cfg TrainConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse train config %s: %w", path, err)
	}
	return &cfg, nil
}
