package pipeline

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runModule is a stubModule that appends a suffix to the value piped through.
type runModule struct {
	stubModule
	suffix string
	err    error
}

func (m *runModule) Run(ctx context.Context, input interface{}) (interface{}, error) {
	if m.err != nil {
		return nil, m.err
	}
	return input.(string) + m.suffix, nil
}

func TestRun_PipesValueThroughInOrder(t *testing.T) {
	modules := []Module{
		&runModule{stubModule: stubModule{name: "A", attrs: Attributes{Enabled: true}}, suffix: "-a"},
		&runModule{stubModule: stubModule{name: "B", attrs: Attributes{Enabled: true}}, suffix: "-b"},
	}
	out, err := Run(context.Background(), modules, "in")
	require.NoError(t, err)
	assert.Equal(t, "in-a-b", out)
}

func TestRun_SkipsDisabledModules(t *testing.T) {
	modules := []Module{
		&runModule{stubModule: stubModule{name: "A", attrs: Attributes{Enabled: true}}, suffix: "-a"},
		&runModule{stubModule: stubModule{name: "B", attrs: Attributes{Enabled: false}}, suffix: "-b"},
	}
	out, err := Run(context.Background(), modules, "in")
	require.NoError(t, err)
	assert.Equal(t, "in-a", out)
}

func TestRun_NonRunnerPassesThrough(t *testing.T) {
	modules := []Module{
		&stubModule{name: "Config", attrs: Attributes{Enabled: true}},
		&runModule{stubModule: stubModule{name: "A", attrs: Attributes{Enabled: true}}, suffix: "-a"},
	}
	out, err := Run(context.Background(), modules, "in")
	require.NoError(t, err)
	assert.Equal(t, "in-a", out)
}

func TestRun_ErrorNamesModule(t *testing.T) {
	modules := []Module{
		&runModule{stubModule: stubModule{name: "A", attrs: Attributes{Enabled: true}}, suffix: "-a"},
		&runModule{stubModule: stubModule{name: "Boom", attrs: Attributes{Enabled: true}}, err: errors.New("kaput")},
	}
	_, err := Run(context.Background(), modules, "in")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "module 2 (Boom)")
	assert.Contains(t, err.Error(), "kaput")
}
