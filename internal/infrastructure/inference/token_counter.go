package inference

import (
	"strings"
	"sync"

	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/logger"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter estimates token counts when the server reports no usage
type TokenCounter interface {
	Count(text string) int
}

// tiktokenCounter loads its encoding on first use and falls back to whitespace
// word counts when the encoding cannot be loaded
type tiktokenCounter struct {
	encoding string
	logger   logger.Logger

	once sync.Once
	enc  *tiktoken.Tiktoken
}

// NewTokenCounter creates a TokenCounter for a tiktoken encoding such as cl100k_base
func NewTokenCounter(encoding string, logger logger.Logger) TokenCounter {
	if encoding == "" {
		encoding = tiktoken.MODEL_CL100K_BASE
	}
	return &tiktokenCounter{encoding: encoding, logger: logger}
}

func (c *tiktokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	c.once.Do(func() {
		enc, err := tiktoken.GetEncoding(c.encoding)
		if err != nil {
			c.logger.Warn("Token encoding ", c.encoding, " unavailable, counting words instead: ", err)
			return
		}
		c.enc = enc
	})
	if c.enc == nil {
		return len(strings.Fields(text))
	}
	return len(c.enc.Encode(text, nil, nil))
}
