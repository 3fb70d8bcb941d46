package types

// GenerateRequest is the payload of POST /api/generate.
type GenerateRequest struct {
	// Sample text whose style should be imitated. Leading and trailing whitespace is trimmed by clients.
	// example: It was a bright cold day in April, and the clocks were striking thirteen.
	Text string `json:"text" example:"It was a bright cold day in April, and the clocks were striking thirteen."`
	// Sampling temperature, 0.1 to 1.0.
	// example: 0.7
	Temperature float64 `json:"temperature" example:"0.7"`
	// Maximum number of new tokens, 50 to 1000.
	// example: 350
	MaxTokens int `json:"max_tokens" example:"350"`
	// Model identifier from GET /api/models.
	// example: mistral-7b v0.1
	Model string `json:"model" example:"mistral-7b v0.1"`
	// LoRA rank, 1 to 64.
	// example: 12
	LoraR int `json:"lora_r" example:"12"`
	// LoRA alpha, 1 to 128.
	// example: 16
	LoraAlpha int `json:"lora_alpha" example:"16"`
	// LoRA dropout, 0.0 to 0.5.
	// example: 0.1
	LoraDropout float64 `json:"lora_dropout" example:"0.1"`
	// Model components to adapt.
	// example: ["query","key","value"]
	TargetModules []string `json:"target_modules" example:"query,key,value"`
	// Nucleus sampling probability. Only sent by clients configured to do so.
	// example: 0.9
	TopP *float64 `json:"top_p,omitempty" example:"0.9"`
}

// Clone returns a deep copy so the caller may keep it immutable.
func (r GenerateRequest) Clone() GenerateRequest {
	out := r
	out.TargetModules = append([]string(nil), r.TargetModules...)
	if r.TopP != nil {
		v := *r.TopP
		out.TopP = &v
	}
	return out
}

// StatusSuccess is the status reported by a successful generation.
const StatusSuccess = "success"

// GenerateResponse is returned by POST /api/generate.
type GenerateResponse struct {
	// Generated text.
	// example: Generated text based on: 'It was a bright cold day in April, and the clocks ...' with temperature 0.7
	GeneratedText string `json:"generated_text" example:"Generated text based on: 'It was a bright cold day in April, and the clocks ...' with temperature 0.7"`
	// Outcome status.
	// example: success
	Status string `json:"status" example:"success"`
}

// RootResponse is returned by GET /.
type RootResponse struct {
	// example: ai4l generation API is running
	Message string `json:"message" example:"ai4l generation API is running"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// ModelStatus summarizes admission state for one model in GET /api/status.
type ModelStatus struct {
	// example: llama-7b
	ModelID string `json:"model_id" example:"llama-7b"`
	// Requests waiting for or holding the generation slot.
	// example: 1
	QueueLen int `json:"queue_len" example:"1"`
	// Requests currently generating (0 or 1).
	// example: 1
	Inflight int `json:"inflight" example:"1"`
	// example: 32
	MaxQueueDepth int `json:"max_queue_depth" example:"32"`
	// Last time this model served a request (unix seconds).
	// example: 1700000000
	LastUsed int64 `json:"last_used_unix" example:"1700000000"`
}

// StatusResponse is returned by GET /api/status.
type StatusResponse struct {
	// Generation engine in use.
	// example: echo
	Engine string `json:"engine" example:"echo"`
	// Overall state (ready, unavailable, draining).
	// example: ready
	State string `json:"state" example:"ready"`
	// Models with admission state.
	Models []ModelStatus `json:"models"`
	// Successful generations since start.
	// example: 12
	GeneratedTotal uint64 `json:"generated_total" example:"12"`
	// Failed generations since start.
	// example: 1
	FailedTotal uint64 `json:"failed_total" example:"1"`
	// Last error observed by the service (if any).
	LastError string `json:"last_error,omitempty"`
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
