// Package finetune defines fine-tuning tasks, their append-only status history and the
// trainer and dataset collaborators that run them.
package finetune
