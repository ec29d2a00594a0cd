package pipeline

import (
	"context"

	"github.com/pkg/errors"

	"github.com/dcshock/pipedoc/ctxlog"
)

// Runner is implemented by modules that can execute. A module receives the
// output of the previous module and returns the input for the next one.
// Modules that only carry configuration need not implement it.
type Runner interface {
	Run(ctx context.Context, input interface{}) (interface{}, error)
}

// Run executes modules in order, piping each module's output into the next.
// Disabled modules are skipped. Modules that do not implement Runner pass the
// value through unchanged. A pause request is logged; honoring it is the
// caller's concern, not this loop's. Returns the last output or the first
// error, wrapped with the failing module's position and type name.
func Run(ctx context.Context, modules []Module, input interface{}) (interface{}, error) {
	logger := ctxlog.FromContext(ctx)
	out := input
	for i, m := range modules {
		attrs := m.Attributes()
		if !attrs.Enabled {
			logger.Debug("skipping disabled module", "module", m.TypeName(), "position", attrs.ModuleNum)
			continue
		}
		if attrs.WantsPause {
			logger.Info("module requests a pause before running", "module", m.TypeName(), "position", attrs.ModuleNum)
		}
		runner, ok := m.(Runner)
		if !ok {
			continue
		}
		next, err := runner.Run(ctx, out)
		if err != nil {
			return nil, errors.Wrapf(err, "module %d (%s)", i+1, m.TypeName())
		}
		out = next
	}
	return out, nil
}
