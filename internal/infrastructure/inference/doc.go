// Package inference talks to an OpenAI-compatible server (vLLM, LLaMA-Factory API)
// that hosts the base model and its LoRA adapters.
package inference
