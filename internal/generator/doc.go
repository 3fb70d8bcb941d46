// Package generator is the generation service behind POST /api/generate.
// It is structured into small files by concern:
//
//   - service.go: Service type, Generate entry point, readiness.
//   - config.go: Config and package defaults; NewWithConfig applies defaults.
//   - validate.go: request defaults and parameter domain checks.
//   - admission.go: per-model queueing with a single in-flight generation.
//   - engine.go: Engine interface and the echo engine.
//   - engine_llama.go: go-llama.cpp engine, built with `-tags=llama`.
//     A stub reporting the dependency as unavailable is used otherwise.
//   - status.go: status reporting.
//   - errors.go: error types and helpers (IsTooBusy, IsModelNotFound, ...).
//
// LoRA settings in a request are adapter training knobs. The echo engine
// reports them back; the llama engine loads a pre-trained adapter from
// configuration and logs the requested settings.
package generator
