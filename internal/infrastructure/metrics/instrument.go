package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/finetune"
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/modelreg"
)

type instrumentedTrainer struct {
	next    finetune.Trainer
	metrics *Metrics
}

// InstrumentTrainer wraps trainer to record running jobs, outcomes and durations
func (m *Metrics) InstrumentTrainer(trainer finetune.Trainer) finetune.Trainer {
	return &instrumentedTrainer{next: trainer, metrics: m}
}

func (t *instrumentedTrainer) Train(ctx context.Context, job *finetune.TrainingJob) error {
	t.metrics.trainingRunning.Inc()
	defer t.metrics.trainingRunning.Dec()

	start := time.Now()
	err := t.next.Train(ctx, job)
	t.metrics.trainingDuration.Observe(time.Since(start).Seconds())

	result := outcome(err)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		result = "cancelled"
	}
	t.metrics.trainingFinished.WithLabelValues(result).Inc()
	return err
}

type instrumentedFactory struct {
	next    modelreg.ChatModelFactory
	metrics *Metrics
}

// InstrumentChatModelFactory wraps factory so every created model records chat metrics
func (m *Metrics) InstrumentChatModelFactory(factory modelreg.ChatModelFactory) modelreg.ChatModelFactory {
	return &instrumentedFactory{next: factory, metrics: m}
}

func (f *instrumentedFactory) New(args modelreg.ModelArgs) (modelreg.ChatModel, error) {
	model, err := f.next.New(args)
	if err != nil {
		return nil, err
	}
	return &instrumentedChatModel{next: model, metrics: f.metrics}, nil
}

type instrumentedChatModel struct {
	next    modelreg.ChatModel
	metrics *Metrics
}

func (c *instrumentedChatModel) Chat(ctx context.Context, messages []modelreg.ChatMessage, system string) (*modelreg.ChatResponse, error) {
	start := time.Now()
	resp, err := c.next.Chat(ctx, messages, system)
	c.observe("chat", start, resp, err)
	return resp, err
}

func (c *instrumentedChatModel) StreamChat(ctx context.Context, messages []modelreg.ChatMessage, system string, onChunk modelreg.ChunkFunc) (*modelreg.ChatResponse, error) {
	start := time.Now()
	resp, err := c.next.StreamChat(ctx, messages, system, onChunk)
	c.observe("stream", start, resp, err)
	return resp, err
}

func (c *instrumentedChatModel) observe(mode string, start time.Time, resp *modelreg.ChatResponse, err error) {
	c.metrics.chatRequests.WithLabelValues(mode, outcome(err)).Inc()
	c.metrics.chatLatency.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	if resp != nil {
		c.metrics.chatTokens.WithLabelValues("prompt").Add(float64(resp.Usage.PromptTokens))
		c.metrics.chatTokens.WithLabelValues("completion").Add(float64(resp.Usage.CompletionTokens))
	}
}
