package policy

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("github.com/docugate-io/docugate/internal/policy")

var (
	evaluationsTotal metric.Int64Counter
	rejectionsTotal  metric.Int64Counter
)

func init() {
	var err error
	evaluationsTotal, err = meter.Int64Counter("policy.evaluations.total",
		metric.WithDescription("Total payload evaluations"))
	if err != nil {
		evaluationsTotal, _ = meter.Int64Counter("policy.evaluations.total.fallback")
	}

	rejectionsTotal, err = meter.Int64Counter("policy.rejections.total",
		metric.WithDescription("Evaluations that produced a REJECT hint"))
	if err != nil {
		rejectionsTotal, _ = meter.Int64Counter("policy.rejections.total.fallback")
	}
}
