// Package docs registers the OpenAPI document of the generation API with swag.
// Regenerate with `swag init -g cmd/ai4l/docs.go -o docs`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "ai4l maintainers"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "produces": ["application/json"],
                "tags": ["meta"],
                "summary": "API liveness message",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/types.RootResponse"}
                    }
                }
            }
        },
        "/api/generate": {
            "post": {
                "description": "Validates the request against the parameter domains and returns generated text.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["generation"],
                "summary": "Generate text in the style of a sample",
                "parameters": [
                    {
                        "description": "Generation request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/types.GenerateRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.GenerateResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "504": {"description": "Gateway Timeout", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/api/models": {
            "get": {
                "description": "Returns the enumerations a client offers for model and target_modules.",
                "produces": ["application/json"],
                "tags": ["generation"],
                "summary": "List models and target modules",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.Catalog"}}
                }
            }
        },
        "/api/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["meta"],
                "summary": "Service status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}}
                }
            }
        }
    },
    "definitions": {
        "types.Catalog": {
            "type": "object",
            "properties": {
                "models": {"type": "array", "items": {"$ref": "#/definitions/types.Model"}},
                "target_modules": {"type": "array", "items": {"$ref": "#/definitions/types.TargetModule"}}
            }
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"description": "HTTP status code.", "type": "integer", "example": 400},
                "error": {"description": "Error message.", "type": "string", "example": "invalid JSON body"}
            }
        },
        "types.GenerateRequest": {
            "type": "object",
            "properties": {
                "lora_alpha": {"description": "LoRA alpha, 1 to 128.", "type": "integer", "example": 16},
                "lora_dropout": {"description": "LoRA dropout, 0.0 to 0.5.", "type": "number", "example": 0.1},
                "lora_r": {"description": "LoRA rank, 1 to 64.", "type": "integer", "example": 12},
                "max_tokens": {"description": "Maximum number of new tokens, 50 to 1000.", "type": "integer", "example": 350},
                "model": {"description": "Model identifier from GET /api/models.", "type": "string", "example": "mistral-7b v0.1"},
                "target_modules": {"description": "Model components to adapt.", "type": "array", "items": {"type": "string"}, "example": ["query", "key", "value"]},
                "temperature": {"description": "Sampling temperature, 0.1 to 1.0.", "type": "number", "example": 0.7},
                "text": {"description": "Sample text whose style should be imitated.", "type": "string", "example": "It was a bright cold day in April, and the clocks were striking thirteen."},
                "top_p": {"description": "Nucleus sampling probability. Only sent by clients configured to do so.", "type": "number", "example": 0.9}
            }
        },
        "types.GenerateResponse": {
            "type": "object",
            "properties": {
                "generated_text": {"description": "Generated text.", "type": "string"},
                "status": {"description": "Outcome status.", "type": "string", "example": "success"}
            }
        },
        "types.Model": {
            "type": "object",
            "properties": {
                "family": {"type": "string", "example": "mistral"},
                "id": {"type": "string", "example": "mistral-7b v0.1"},
                "name": {"type": "string", "example": "Mistral 7B v0.1"},
                "path": {"type": "string"}
            }
        },
        "types.ModelStatus": {
            "type": "object",
            "properties": {
                "inflight": {"type": "integer", "example": 1},
                "last_used_unix": {"type": "integer", "example": 1700000000},
                "max_queue_depth": {"type": "integer", "example": 32},
                "model_id": {"type": "string", "example": "llama-7b"},
                "queue_len": {"type": "integer", "example": 1}
            }
        },
        "types.RootResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string", "example": "ai4l generation API is running"}
            }
        },
        "types.StatusResponse": {
            "type": "object",
            "properties": {
                "engine": {"type": "string", "example": "echo"},
                "failed_total": {"type": "integer", "example": 1},
                "generated_total": {"type": "integer", "example": 12},
                "last_error": {"type": "string"},
                "models": {"type": "array", "items": {"$ref": "#/definitions/types.ModelStatus"}},
                "server_time_unix": {"type": "integer", "example": 1700000000},
                "state": {"type": "string", "example": "ready"},
                "uptime_seconds": {"type": "integer", "example": 3600}
            }
        },
        "types.TargetModule": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "example": "gate_proj"},
                "name": {"type": "string", "example": "Gate Proj"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "ai4l API",
	Description:      "HTTP API that generates text imitating the style of a sample under LoRA-style parameters.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
