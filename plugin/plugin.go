// Package plugin holds build steps shared between boards. A plugin runs for every
// board that activates its scope.
package plugin

import (
	"context"

	"github.com/daedaleanai/pbt/platform"
	"github.com/daedaleanai/pbt/util"
)

// BuildPlugin hooks into the build before and after compilation.
type BuildPlugin interface {
	Name() string
	// Scope is the board scope that activates the plugin.
	Scope() string
	PreBuild(ctx context.Context, bc *platform.BuildContext) error
	PostBuild(ctx context.Context, bc *platform.BuildContext) error
}

// Active returns the plugins whose scope is in `scopes`, keeping their order.
func Active(plugins []BuildPlugin, scopes []string) []BuildPlugin {
	result := []BuildPlugin{}
	for _, p := range plugins {
		if util.ContainsFold(scopes, p.Scope()) {
			result = append(result, p)
		}
	}
	return result
}
