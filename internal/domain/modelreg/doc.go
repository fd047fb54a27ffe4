// Package modelreg defines the registry of loaded fine-tuned models, which of them are
// active, and chat dispatch to the active models.
package modelreg
