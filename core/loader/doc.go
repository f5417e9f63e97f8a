// Package loader provides the feature loading system.
//
// Each feature implements the Feature interface and is registered with a
// Manager. LoadAll mounts the routes of every enabled feature on the router.
//
// # Feature Interface
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// Features like 'diff', 'templates' or 'history' are developed and tested in
// isolation and only meet in cmd/start.go.
package loader
