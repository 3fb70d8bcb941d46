package main

import (
	"os"
	"strconv"
	"strings"

	"ai4l/internal/config"
)

// envConfig reads AI4L_* variables into a config overlay. Unset or
// unparseable values are left zero so Merge ignores them.
func envConfig() config.Config {
	return config.Config{
		Server: config.ServerConfig{
			Addr:                   os.Getenv("AI4L_ADDR"),
			ModelsDir:              os.Getenv("AI4L_MODELS_DIR"),
			DefaultModel:           os.Getenv("AI4L_DEFAULT_MODEL"),
			Engine:                 os.Getenv("AI4L_ENGINE"),
			MaxQueueDepth:          envInt("AI4L_MAX_QUEUE_DEPTH"),
			MaxWaitMs:              envInt("AI4L_MAX_WAIT_MS"),
			GenerateTimeoutSeconds: int64(envInt("AI4L_GENERATE_TIMEOUT_SECONDS")),
			CORSEnabled:            envBool("AI4L_CORS"),
			CORSAllowedOrigins:     splitCSV(os.Getenv("AI4L_CORS_ORIGINS")),
		},
		Client: config.ClientConfig{
			Endpoint:       os.Getenv("AI4L_ENDPOINT"),
			TimeoutSeconds: envInt("AI4L_CLIENT_TIMEOUT_SECONDS"),
			SendTopP:       envBool("AI4L_SEND_TOP_P"),
		},
		Log: config.LogConfig{
			Level:    os.Getenv("AI4L_LOG_LEVEL"),
			Format:   os.Getenv("AI4L_LOG_FORMAT"),
			FilePath: os.Getenv("AI4L_LOG_FILE"),
		},
	}
}

func envInt(key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return 0
	}
	return n
}

func envBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
