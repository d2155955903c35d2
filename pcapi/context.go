package pcapi

import "context"

type versionKey struct{}

// WithVersion selects the API version used by calls made with ctx.
func WithVersion(ctx context.Context, version string) context.Context {
	return context.WithValue(ctx, versionKey{}, version)
}

func VersionFrom(ctx context.Context) string {
	version, _ := ctx.Value(versionKey{}).(string)
	return version
}
