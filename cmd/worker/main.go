package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yungbote/neurobridge-studyplan/internal/app"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/shutdown"
	"github.com/yungbote/neurobridge-studyplan/internal/temporalx/temporalworker"
)

func main() {
	ctx, stop := shutdown.NotifyContext(context.Background())
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		fmt.Printf("failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	runner, err := temporalworker.NewRunner(a.Log, a.Cfg.Temporal, a.Clients.Temporal, a.Services.StudyPlan)
	if err != nil {
		a.Log.Error("temporal worker unavailable", "error", err)
		a.Close()
		os.Exit(1)
	}
	if err := runner.Start(ctx); err != nil {
		a.Log.Error("temporal worker failed to start", "error", err)
		a.Close()
		os.Exit(1)
	}
	<-ctx.Done()
	a.Log.Info("Temporal worker stopping")
}
