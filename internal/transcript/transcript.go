package transcript

import (
	"context"
	"log/slog"
	"yorkgrades/lib/gpa"
	"yorkgrades/lib/platforms/yorksis"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("internal/transcript")

type Result struct {
	GPA    gpa.GPA
	Grades []yorksis.CourseData
}

// Fetch runs a full session against the portal: log in, read the course list,
// log out and compute the gpa. Any failure aborts the whole run.
func Fetch(ctx context.Context, client *yorksis.Client, creds yorksis.Credentials) (Result, error) {
	ctx, span := tracer.Start(ctx, "transcript.Fetch")
	defer span.End()

	ok, err := client.Authenticate(ctx, creds)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to authenticate")
		return Result{}, err
	}
	if !ok {
		span.SetStatus(codes.Error, "credentials rejected")
		return Result{}, yorksis.ErrAuthenticationFailed
	}

	grades, err := client.ScrapeGrades(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to scrape grades")
		return Result{}, err
	}

	err = client.Logout(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to log out")
		return Result{}, err
	}

	average, err := gpa.Compute(grades)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to compute gpa")
		return Result{}, err
	}
	slog.DebugContext(ctx, "fetched transcript", "courses", len(grades))

	return Result{
		GPA:    average,
		Grades: grades,
	}, nil
}
