// internal/auth/context.go
//
// Admin identity on the request context.
//
// Usage
// -----
//     // acl.RequireAdmin attaches the verified username.
//     ctx = auth.WithAdmin(ctx, "admin")
//
//     // Handlers read it back.
//     name, ok := auth.Admin(ctx)   // "admin", true
//
// Notes
// -----
// • Only acl.RequireAdmin should call WithAdmin; the value is trusted.
// • Oxford commas, two spaces after periods.

package auth

import "context"

// adminKey is unexported to avoid context-key collisions.
type adminKey struct{}

// WithAdmin returns a new context carrying the verified admin username.
func WithAdmin(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, adminKey{}, name)
}

// Admin extracts the admin username from ctx.  It returns ("", false) when
// the request is not authenticated.
func Admin(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(adminKey{}).(string)
	return name, ok && name != ""
}
