package internal

import (
	"context"

	"rpd/internal/archive/interfaces"
	"rpd/internal/providers"
	"rpd/internal/report"
	"rpd/internal/services"
	"rpd/internal/structures"
)

// Analyzer is the one-shot mode: analyze a single user and write the report
// to a file, reusing the daemon's archive so repeated runs within the ttl
// don't refetch.
type Analyzer struct {
	conf      *structures.Config
	logger    providers.Logger
	activity  services.ActivityServiceInterface
	persona   services.PersonaServiceInterface
	renderer  *report.Renderer
	writer    *report.Writer
	scheduler interfaces.SchedulerInterface
}

func NewAnalyzer(conf *structures.Config, logger providers.Logger, activity services.ActivityServiceInterface, persona services.PersonaServiceInterface, renderer *report.Renderer, writer *report.Writer, scheduler interfaces.SchedulerInterface) *Analyzer {
	return &Analyzer{
		conf:      conf,
		logger:    logger,
		activity:  activity,
		persona:   persona,
		renderer:  renderer,
		writer:    writer,
		scheduler: scheduler,
	}
}

// Run analyzes username and returns the path of the written report.
func (a *Analyzer) Run(ctx context.Context, username string, outputDir string) (string, error) {
	if err := a.scheduler.Restore(); err != nil {
		a.logger.Warnf(providers.TypeApp, "Restore error: %s", err)
	}

	a.logger.Infof(providers.TypeApp, "Analyzing u/%s", username)

	ua, _, err := a.activity.GetOrFetch(ctx, username, false)
	if err != nil {
		return "", err
	}

	persona, err := a.persona.Aggregate(&ua.Profile, ua.Activities)
	if err != nil {
		return "", err
	}

	path, err := a.writer.WriteReport(outputDir, username, a.renderer.Render(persona))
	if err != nil {
		return "", err
	}

	// Keep the archive for the next run; a failed save is not worth failing
	// the analysis the user already has on disk.
	if err := a.scheduler.Persist(); err != nil {
		a.logger.Warnf(providers.TypeApp, "Archive not saved: %s", err)
	}

	return path, nil
}
