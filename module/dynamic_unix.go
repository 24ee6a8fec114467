//go:build unix

package module

import (
	"fmt"
	"plugin"

	"github.com/helios-engine/core/app"
)

// DynamicLoader loads a module from a platform-native shared library
// (.so/.dylib) via the standard plugin package, which is POSIX-only —
// hence this file's build tag. The library must export a
// CreateSymbol-named func() app.Module symbol; IDSymbol and NameSymbol
// are not looked up.
type DynamicLoader struct{}

// NewDynamicLoader returns the plugin.Open-backed Loader.
func NewDynamicLoader() DynamicLoader {
	return DynamicLoader{}
}

// Load opens the shared library at path and invokes its CreateSymbol
// constructor.
func (DynamicLoader) Load(path string) (app.Module, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("module: open %s: %w", path, err)
	}
	sym, err := p.Lookup(CreateSymbol)
	if err != nil {
		return nil, fmt.Errorf("module: %s missing %s: %w", path, CreateSymbol, err)
	}
	create, ok := sym.(func() app.Module)
	if !ok {
		return nil, fmt.Errorf("module: %s symbol %s has the wrong signature", path, CreateSymbol)
	}
	return create(), nil
}
