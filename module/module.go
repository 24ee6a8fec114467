// Package module defines the dynamic-module ABI and loader contract.
// The Module interface itself lives in package app (its methods take
// *app.App), so a loaded module is handed back to callers as an
// app.Module; this package only knows how to find and construct one.
package module

import "github.com/helios-engine/core/app"

// The three C-ABI entry point names a dynamically-loaded module library
// must export, per the core ABI contract. Only the names are specified
// here; how a library is actually opened is a loader concern.
const (
	CreateSymbol = "helios_create_module"
	IDSymbol     = "helios_module_id"
	NameSymbol   = "helios_module_name"
)

// Loader resolves a module by path (a shared-library path for a dynamic
// loader, or an arbitrary registration key for an in-process one) into a
// constructed app.Module.
type Loader interface {
	Load(path string) (app.Module, error)
}

// Registry is an in-process Loader: modules register a constructor under
// a key at init time (or via Register), and Load looks the key up
// instead of touching the filesystem. App.BuildModules does not consult
// any Loader; it builds the modules passed to App.AddModule, so a module
// loaded here still has to be added to the App by its caller.
type Registry struct {
	factories map[string]func() app.Module
}

// NewRegistry returns an empty in-process module registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]func() app.Module)}
}

// Register associates key with a module constructor.
func (r *Registry) Register(key string, factory func() app.Module) {
	r.factories[key] = factory
}

// Load constructs the module registered under key.
func (r *Registry) Load(key string) (app.Module, error) {
	factory, ok := r.factories[key]
	if !ok {
		return nil, ModuleNotFoundError{Key: key}
	}
	return factory(), nil
}

// ModuleNotFoundError reports a Load against an unregistered key.
type ModuleNotFoundError struct {
	Key string
}

func (e ModuleNotFoundError) Error() string {
	return "module: no module registered under key " + e.Key
}
