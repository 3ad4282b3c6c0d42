// Command server runs every function plus the lookup form on one local port.
package main

import (
	"log/slog"
	"os"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/Lllllllleong/processdocumentflow/internal/app"
	"github.com/Lllllllleong/processdocumentflow/internal/config"
)

var application *app.App

func init() {
	cfg := config.Load()
	logger := app.NewLogger(cfg)
	slog.SetDefault(logger)
	application = app.New(cfg, nil, logger)

	// With FUNCTION_TARGET unset the framework serves each function at "/<name>".
	functions.HTTP("HandleAuth", application.AuthHandler())
	functions.HTTP("HandleDocuments", application.DocumentsHandler())
	functions.HTTP("HandleGrok", application.GrokHandler())
	functions.HTTP("consulta", application.PageHandler().ServeHTTP)
}

func main() {
	defer application.Close()

	port := application.Config.Port
	slog.Info("Starting local server.", "port", port, "form", "http://localhost:"+port+"/consulta")
	if err := funcframework.Start(port); err != nil {
		slog.Error("Server stopped.", "error", err)
		application.Close()
		os.Exit(1)
	}
}
