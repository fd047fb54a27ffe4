package finetune

// TrainingParams holds the LoRA supervised fine-tuning hyperparameters
type TrainingParams struct {
	FinetuningType            string  `json:"finetuning_type" form:"finetuning_type" validate:"required,oneof=lora freeze full"`
	LoraTarget                string  `json:"lora_target" form:"lora_target" validate:"required"`
	PerDeviceTrainBatchSize   int     `json:"per_device_train_batch_size" form:"per_device_train_batch_size" validate:"min=1"`
	GradientAccumulationSteps int     `json:"gradient_accumulation_steps" form:"gradient_accumulation_steps" validate:"min=1"`
	LRSchedulerType           string  `json:"lr_scheduler_type" form:"lr_scheduler_type" validate:"required"`
	LoggingSteps              int     `json:"logging_steps" form:"logging_steps" validate:"min=1"`
	WarmupRatio               float64 `json:"warmup_ratio" form:"warmup_ratio" validate:"min=0,max=1"`
	SaveSteps                 int     `json:"save_steps" form:"save_steps" validate:"min=1"`
	LearningRate              float64 `json:"learning_rate" form:"learning_rate" validate:"gt=0"`
	NumTrainEpochs            float64 `json:"num_train_epochs" form:"num_train_epochs" validate:"gt=0"`
	MaxSamples                int     `json:"max_samples" form:"max_samples" validate:"min=1"`
	MaxGradNorm               float64 `json:"max_grad_norm" form:"max_grad_norm" validate:"gt=0"`
	LoraplusLRRatio           float64 `json:"loraplus_lr_ratio" form:"loraplus_lr_ratio" validate:"min=0"`
	FP16                      bool    `json:"fp16" form:"fp16"`
	ReportTo                  string  `json:"report_to" form:"report_to" validate:"required"`
}

// DefaultTrainingParams returns the defaults applied to every new task
func DefaultTrainingParams() TrainingParams {
	return TrainingParams{
		FinetuningType:            "lora",
		LoraTarget:                "all",
		PerDeviceTrainBatchSize:   2,
		GradientAccumulationSteps: 4,
		LRSchedulerType:           "cosine",
		LoggingSteps:              5,
		WarmupRatio:               0.1,
		SaveSteps:                 1000,
		LearningRate:              5e-5,
		NumTrainEpochs:            3.0,
		MaxSamples:                500,
		MaxGradNorm:               1.0,
		LoraplusLRRatio:           16.0,
		FP16:                      true,
		ReportTo:                  "none",
	}
}

// Auto fine-tune defaults
const (
	DefaultBaseModel = "meta-llama/Meta-Llama-3-8B-Instruct"
	DefaultTemplate  = "llama3"
	DefaultOutputDir = "llama3_lora_qa_human_hybrid"
)
