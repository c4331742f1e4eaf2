package types

// Model represents a locally available GGUF model file.
type Model struct {
	// Stable identifier for the model (the filename without extension).
	// example: meta-llama-3-8b-instruct.Q4_K_M
	ID string `json:"id" example:"meta-llama-3-8b-instruct.Q4_K_M"`
	// Human-friendly name.
	// example: meta-llama-3-8b-instruct.Q4_K_M.gguf
	Name string `json:"name" example:"meta-llama-3-8b-instruct.Q4_K_M.gguf"`
	// Absolute path to the model file on disk.
	// example: /home/user/models/llm/meta-llama-3-8b-instruct.Q4_K_M.gguf
	Path string `json:"path" example:"/home/user/models/llm/meta-llama-3-8b-instruct.Q4_K_M.gguf"`
	// Quantization variant parsed from the filename, when present.
	// example: Q4_K_M
	Quant string `json:"quant,omitempty" example:"Q4_K_M"`
	// File size in bytes.
	// example: 4920000000
	SizeBytes int64 `json:"size_bytes,omitempty" example:"4920000000"`
}
