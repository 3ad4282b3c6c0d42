package main

import (
	"net/http"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/Lllllllleong/processdocumentflow/internal/app"
	"github.com/Lllllllleong/processdocumentflow/internal/config"
)

var (
	handler http.HandlerFunc
	once    sync.Once
)

func init() {
	// Register the HTTP function with the framework.
	// "HandleGrok" is the entry point name configured in GCP.
	functions.HTTP("HandleGrok", handleGrok)
}

// main is required by the Go Functions Framework.
func main() {}

// handleGrok sends the assembled prompt to the LLM.
func handleGrok(w http.ResponseWriter, r *http.Request) {
	// Configuration is read once per instance; missing values surface per request.
	once.Do(func() {
		cfg := config.Load()
		handler = app.New(cfg, nil, app.NewLogger(cfg)).GrokHandler()
	})
	handler(w, r)
}
