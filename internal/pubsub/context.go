package pubsub

import "context"

type dryRunKey struct{}

// WithDryRun marks events published under ctx as dry runs. Notifiers log dry-run
// events instead of delivering them.
func WithDryRun(ctx context.Context, dryRun bool) context.Context {
	return context.WithValue(ctx, dryRunKey{}, dryRun)
}

// IsDryRun reports whether ctx was marked with WithDryRun.
func IsDryRun(ctx context.Context) bool {
	dryRun, ok := ctx.Value(dryRunKey{}).(bool)
	return ok && dryRun
}
