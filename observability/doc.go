// Package observability wires OpenTelemetry tracing and aggregates
// dependency health for the /healthz endpoint.
//
// Tracing:
//
//	shutdown, err := observability.InitTracer(ctx, cfg.Tracing)
//	defer shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanPipelineRun,
//		attribute.String(observability.AttrRecordingID, id))
//	defer observability.EndSpan(span, err)
//
// Health:
//
//	health := observability.Check(ctx, "scribe", version.GetVersionInfo().Version, db, rdb)
package observability
