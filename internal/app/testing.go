//go:build integration
// +build integration

package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/auth"
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/conversations"
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/finetune"
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/modelreg"
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/users"
	"github.com/CaoThanhNammm/chatbot-bank/internal/infrastructure/dataset"
	"github.com/CaoThanhNammm/chatbot-bank/internal/infrastructure/persistence"
	"github.com/CaoThanhNammm/chatbot-bank/internal/infrastructure/security"
	"github.com/CaoThanhNammm/chatbot-bank/internal/infrastructure/training"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/config"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/testutil"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// TestFrontendURL is the base of links in test emails
const TestFrontendURL = "http://frontend.test"

// TestStrongPassword satisfies the password policy
const TestStrongPassword = "Str0ng!Passw0rd"

// recordingMailer keeps every email it is asked to send
type recordingMailer struct {
	mu   sync.Mutex
	sent []*auth.Email
	err  error
}

func (m *recordingMailer) Send(_ context.Context, email *auth.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, email)
	return m.err
}

// Sent returns a copy of the recorded emails
func (m *recordingMailer) Sent() []*auth.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*auth.Email(nil), m.sent...)
}

// fakeTrainer writes a minimal adapter into the job output, fails with err,
// or blocks until cancelled when block is set
type fakeTrainer struct {
	mu    sync.Mutex
	jobs  []*finetune.TrainingJob
	err   error
	block bool
}

func (f *fakeTrainer) Train(ctx context.Context, job *finetune.TrainingJob) error {
	f.mu.Lock()
	f.jobs = append(f.jobs, job)
	err, block := f.err, f.block
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return ctx.Err()
	}
	if err != nil {
		return err
	}

	if err := os.MkdirAll(job.OutputPath, 0o755); err != nil {
		return err
	}
	cfg := fmt.Sprintf(`{"peft_type":"LORA","base_model_name_or_path":%q}`, job.Task.ModelNameOrPath)
	if err := os.WriteFile(filepath.Join(job.OutputPath, "adapter_config.json"), []byte(cfg), 0o600); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(job.OutputPath, "README.md"), []byte("# "+job.Task.OutputDir+"\n"), 0o600)
}

// Jobs returns a copy of the received jobs
func (f *fakeTrainer) Jobs() []*finetune.TrainingJob {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*finetune.TrainingJob(nil), f.jobs...)
}

// fakeChatModel echoes the last message, streaming it word by word
type fakeChatModel struct {
	args modelreg.ModelArgs
}

func (m *fakeChatModel) reply(messages []modelreg.ChatMessage) string {
	if len(messages) == 0 {
		return ""
	}
	return "echo: " + messages[len(messages)-1].Content
}

func (m *fakeChatModel) Chat(_ context.Context, messages []modelreg.ChatMessage, _ string) (*modelreg.ChatResponse, error) {
	text := m.reply(messages)
	return &modelreg.ChatResponse{
		Text:          text,
		GeneratedText: text,
		Usage:         modelreg.Usage{PromptTokens: len(messages), CompletionTokens: 2, TotalTokens: len(messages) + 2},
		ModelKey:      m.args.Key(),
	}, nil
}

func (m *fakeChatModel) StreamChat(ctx context.Context, messages []modelreg.ChatMessage, system string, onChunk modelreg.ChunkFunc) (*modelreg.ChatResponse, error) {
	resp, _ := m.Chat(ctx, messages, system)
	for _, chunk := range []string{"echo: ", resp.Text[len("echo: "):]} {
		if err := onChunk(ctx, chunk); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// fakeChatFactory records the args of every model it creates
type fakeChatFactory struct {
	mu      sync.Mutex
	created []modelreg.ModelArgs
}

func (f *fakeChatFactory) New(args modelreg.ModelArgs) (modelreg.ChatModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, args)
	return &fakeChatModel{args: args}, nil
}

// TestServices holds all application services and dependencies for testing
type TestServices struct {
	AuthService         auth.AuthService
	AdminService        users.AdminService
	ConversationService conversations.ConversationService
	FinetuneService     finetune.FinetuneService
	ModelRegistry       modelreg.ModelRegistry

	Mailer      *recordingMailer
	Trainer     *fakeTrainer
	ChatFactory *fakeChatFactory
	Hasher      auth.PasswordHasher
	Issuer      auth.TokenIssuer

	OutputRoot   string
	UploadFolder string
	DataDir      string

	// Infrastructure
	DBContext *persistence.TestContext
}

// SetupTestServices initializes all application services for integration tests.
// Jobs still running when the test ends are shut down.
func SetupTestServices(t *testing.T, dbType string) *TestServices {
	t.Helper()

	logger := testutil.SetupTestLogger(t)

	// Setup database
	dbContext := persistence.SetupTestDB(t, dbType)

	root := t.TempDir()
	outputRoot := filepath.Join(root, "output")
	uploadFolder := filepath.Join(root, "uploads")
	dataDir := filepath.Join(root, "data")

	// Setup security
	hasher, err := security.NewBcryptHasher(bcrypt.MinCost, logger)
	require.NoError(t, err, "Failed to create password hasher")

	issuer, err := security.NewJWTIssuer(&config.JWTSettings{SecretKey: "integration-test-key", ExpirationHours: 1})
	require.NoError(t, err, "Failed to create token issuer")

	mailer := &recordingMailer{}

	authService, err := NewAuthService(
		dbContext.UserRepo,
		dbContext.ResetTokenRepo,
		dbContext.ActivationRepo,
		hasher,
		issuer,
		security.NewSecretGenerator(),
		mailer,
		TestFrontendURL,
		logger,
	)
	require.NoError(t, err, "Failed to create AuthService")

	adminService, err := NewAdminService(dbContext.UserRepo, hasher, logger)
	require.NoError(t, err, "Failed to create AdminService")

	conversationService, err := NewConversationService(dbContext.ConversationRepo, logger)
	require.NoError(t, err, "Failed to create ConversationService")

	// Setup fine-tuning
	preparer, err := dataset.NewPreparer(dataDir, logger)
	require.NoError(t, err, "Failed to create dataset preparer")

	scanner, err := training.NewAdapterScanner(logger)
	require.NoError(t, err, "Failed to create adapter scanner")

	trainer := &fakeTrainer{}
	finetuneService, err := NewFinetuneService(
		dbContext.TaskRepo,
		preparer,
		trainer,
		scanner,
		FinetuneOptions{OutputRoot: outputRoot, UploadFolder: uploadFolder, MaxConcurrentJobs: 2},
		logger,
	)
	require.NoError(t, err, "Failed to create FinetuneService")
	t.Cleanup(func() {
		_ = finetuneService.Shutdown(context.Background())
	})

	chatFactory := &fakeChatFactory{}
	registry, err := NewModelRegistry(dbContext.ModelConfigRepo, dbContext.TaskRepo, chatFactory, outputRoot, logger)
	require.NoError(t, err, "Failed to create ModelRegistry")

	return &TestServices{
		AuthService:         authService,
		AdminService:        adminService,
		ConversationService: conversationService,
		FinetuneService:     finetuneService,
		ModelRegistry:       registry,
		Mailer:              mailer,
		Trainer:             trainer,
		ChatFactory:         chatFactory,
		Hasher:              hasher,
		Issuer:              issuer,
		OutputRoot:          outputRoot,
		UploadFolder:        uploadFolder,
		DataDir:             dataDir,
		DBContext:           dbContext,
	}
}
