package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/yungbote/neurobridge-studyplan/internal/app"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/shutdown"
)

func main() {
	path := flag.String("syllabus", "", "syllabus YAML file (default: $CURRICULUM_SYLLABUS_YAML or the embedded syllabus)")
	check := flag.Bool("check", false, "report curriculum integrity after seeding and exit non-zero on faults")
	flag.Parse()

	ctx, stop := shutdown.NotifyContext(context.Background())
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		fmt.Printf("failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	res, err := a.SeedCurriculum(ctx, *path)
	if err != nil {
		a.Log.Error("seed failed", "error", err)
		a.Close()
		os.Exit(1)
	}
	a.Log.Info("seed complete", "syllabus", res.Syllabus, "concepts", res.Concepts, "edges", res.Edges)

	if *check {
		report, err := a.Services.Curriculum.Integrity(ctx)
		if err != nil || !report.Healthy {
			a.Log.Error("curriculum integrity check failed", "error", err)
			a.Close()
			os.Exit(2)
		}
	}
}
