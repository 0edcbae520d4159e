// Package observability wires OpenTelemetry tracing and metrics for adminctl.
//
// Export is off unless tracing.enabled is set; spans and instruments then
// go to the global no-op providers, so callers never need to check.
//
//	shutdown, err := observability.Setup(ctx, observability.FromAppConfig(cfg, version.Version), cfg.Tracing.Enabled)
//	defer shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanMutationExecute)
//	defer observability.EndSpan(span, err)
//
// Report collects dependency probes for the status command.
package observability
