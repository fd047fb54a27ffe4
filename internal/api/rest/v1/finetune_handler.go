package v1

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/finetune"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// datasetFileField is the multipart field carrying an uploaded CSV
const datasetFileField = "dataset_file"

// FinetuneHandler defines the interface for handling fine-tuning processes
type FinetuneHandler interface {
	Start(ctx *gin.Context)
	GetStatus(ctx *gin.Context)
	ListTasks(ctx *gin.Context)
	ListModels(ctx *gin.Context)
	CheckCSVFile(ctx *gin.Context)
	AutoFinetune(ctx *gin.Context)
}

type finetuneHandler struct {
	finetuneService finetune.FinetuneService
	logger          logger.Logger
}

// NewFinetuneHandler creates a new FinetuneHandler
func NewFinetuneHandler(finetuneService finetune.FinetuneService, logger logger.Logger) FinetuneHandler {
	return &finetuneHandler{
		finetuneService: finetuneService,
		logger:          logger,
	}
}

// Start handles POST /finetune. It accepts a JSON spec or a multipart form with a dataset_file upload.
func (handler *finetuneHandler) Start(ctx *gin.Context) {
	spec := finetune.NewTaskSpec()

	if strings.HasPrefix(ctx.ContentType(), binding.MIMEMultipartPOSTForm) {
		if !handler.bindUpload(ctx, spec) {
			return
		}
	} else if !bindJSON(ctx, spec) {
		return
	}

	task, err := handler.finetuneService.Start(ctx, spec)
	if err != nil {
		respondServiceError(ctx, handler.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, StartFinetuneResponse{
		Success:   true,
		Message:   fmt.Sprintf("Fine-tuning task started with ID: %s", task.ID),
		TaskID:    task.ID,
		ProcessID: task.ProcessID,
	})
}

// bindUpload stores the uploaded CSV, points spec at it and binds the remaining form fields
func (handler *finetuneHandler) bindUpload(ctx *gin.Context, spec *finetune.TaskSpec) bool {
	fileHeader, err := ctx.FormFile(datasetFileField)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Message: "No dataset file part"})
		return false
	}
	if fileHeader.Filename == "" {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Message: "No file selected"})
		return false
	}

	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".csv") {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Message: finetune.ErrNotCSV.Error()})
		return false
	}

	if err := ctx.ShouldBindWith(spec, binding.FormMultipart); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Message: msgValidationError, Errors: []string{err.Error()}})
		return false
	}
	spec.Dataset = fileHeader.Filename
	if problems := validateRequest(spec); problems != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Message: msgValidationError, Errors: problems})
		return false
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(ctx, handler.logger, http.StatusInternalServerError, err)
		return false
	}
	defer file.Close()

	path, err := handler.finetuneService.SaveUpload(ctx, fileHeader.Filename, file)
	if err != nil {
		respondError(ctx, handler.logger, csvStatus(err), csvError(err))
		return false
	}
	spec.Dataset = path
	return true
}

// GetStatus handles GET /finetune/status/:process_id
func (handler *finetuneHandler) GetStatus(ctx *gin.Context) {
	task, err := handler.finetuneService.GetStatus(ctx, ctx.Param("process_id"))
	if err != nil {
		respondServiceError(ctx, handler.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Task status: %s", task.Status),
		"task":    NewTaskResponse(task),
	})
}

// ListTasks handles GET /finetune/tasks
func (handler *finetuneHandler) ListTasks(ctx *gin.Context) {
	tasks, err := handler.finetuneService.ListTasks(ctx)
	if err != nil {
		respondServiceError(ctx, handler.logger, err)
		return
	}

	response := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		response = append(response, NewTaskResponse(task))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"tasks":   response,
	})
}

// ListModels handles GET /finetune/models
func (handler *finetuneHandler) ListModels(ctx *gin.Context) {
	models, err := handler.finetuneService.ListFinetunedModels(ctx)
	if err != nil {
		respondServiceError(ctx, handler.logger, err)
		return
	}
	if models == nil {
		models = []*finetune.FinetunedModel{}
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"models":  models,
	})
}

// CheckCSVFile handles POST /check-csv-file
func (handler *finetuneHandler) CheckCSVFile(ctx *gin.Context) {
	var request FilePathRequest
	if !bindFilePath(ctx, &request) {
		return
	}

	preview, err := handler.finetuneService.CheckCSV(ctx, request.FilePath)
	if err != nil {
		respondError(ctx, handler.logger, csvStatus(err), csvError(err))
		return
	}

	ctx.JSON(http.StatusOK, CSVCheckResponse{
		Success:   true,
		Message:   "CSV file found and validated",
		RowsCount: preview.RowsCount,
		Preview:   preview.Preview,
	})
}

// AutoFinetune handles POST /auto-finetune. Omitted training fields take the auto fine-tune defaults.
func (handler *finetuneHandler) AutoFinetune(ctx *gin.Context) {
	request := AutoFinetuneRequest{TaskSpec: *finetune.NewTaskSpec()}
	if !bindFilePath(ctx, &request) {
		return
	}

	task, err := handler.finetuneService.AutoFinetune(ctx, request.FilePath, &request.TaskSpec)
	if err != nil {
		respondServiceError(ctx, handler.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, StartFinetuneResponse{
		Success:   true,
		Message:   fmt.Sprintf("Auto fine-tuning started with ID: %s", task.ID),
		TaskID:    task.ID,
		ProcessID: task.ProcessID,
	})
}

// filePathCarrier is implemented by requests naming a server-side CSV
type filePathCarrier interface {
	path() string
}

func (r *FilePathRequest) path() string     { return r.FilePath }
func (r *AutoFinetuneRequest) path() string { return r.FilePath }

// bindFilePath decodes request without struct validation and requires a file_path
func bindFilePath(ctx *gin.Context, request filePathCarrier) bool {
	if ctx.Request.Body == nil || ctx.Request.ContentLength == 0 {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Message: msgNoData})
		return false
	}
	if err := ctx.ShouldBindJSON(request); err != nil {
		respondBindError(ctx, err)
		return false
	}
	if strings.TrimSpace(request.path()) == "" {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Message: "No file path provided"})
		return false
	}
	return true
}

// csvStatus maps CSV read failures to 400 instead of 500
func csvStatus(err error) int {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		return http.StatusBadRequest
	}
	return status
}

func csvError(err error) error {
	if statusFor(err) == http.StatusInternalServerError {
		return fmt.Errorf("Error reading CSV file: %w", err)
	}
	return err
}
