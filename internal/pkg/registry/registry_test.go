package registry

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
)

type fakeModule struct {
	name     string
	priority int
	order    *[]string
	err      error
}

func (m *fakeModule) Name() string  { return m.name }
func (m *fakeModule) Priority() int { return m.priority }
func (m *fakeModule) Init(ctx *ModuleContext) error {
	*m.order = append(*m.order, m.name)
	ctx.AddJob(func(context.Context) error { return nil })
	return m.err
}

func withRegistry(t *testing.T, modules ...Module) {
	saved := moduleRegistry
	moduleRegistry = make(map[string]Module)
	for _, m := range modules {
		Register(m)
	}
	t.Cleanup(func() { moduleRegistry = saved })
}

func TestInitModulesOrder(t *testing.T) {
	var order []string
	withRegistry(t,
		&fakeModule{name: "order", priority: 30, order: &order},
		&fakeModule{name: "user", priority: 1, order: &order},
		&fakeModule{name: "catalog", priority: 10, order: &order},
		&fakeModule{name: "cart", priority: 10, order: &order},
	)

	ctx := &ModuleContext{}
	assert.NoError(t, InitModules(ctx))
	assert.Equal(t, []string{"user", "cart", "catalog", "order"}, order)
	assert.Len(t, ctx.Jobs(), 4)
}

func TestInitModulesStopsOnError(t *testing.T) {
	var order []string
	boom := errors.New("boom")
	withRegistry(t,
		&fakeModule{name: "a", priority: 1, order: &order, err: boom},
		&fakeModule{name: "b", priority: 2, order: &order},
	)

	assert.ErrorIs(t, InitModules(&ModuleContext{}), boom)
	assert.Equal(t, []string{"a"}, order)
}
