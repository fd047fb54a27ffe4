// Package training runs LoRA fine-tuning through the llamafactory-cli
// command and scans the output root for trained adapters.
package training
