package yorksis

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

var tracer = otel.Tracer("platforms/yorksis")
var meter = otel.Meter("platforms/yorksis")

const coursesScrapedName = "yorkgrades.courses_scraped"

var coursesScraped metric.Int64Counter

func init() {
	var err error
	coursesScraped, err = meter.Int64Counter(
		coursesScrapedName,
		metric.WithDescription("Grade rows read from the course list."),
		metric.WithUnit("{course}"),
	)
	if err != nil {
		slog.Warn("failed to create counter", "name", coursesScrapedName, "err", err)
		coursesScraped = noop.Int64Counter{}
	}
}
