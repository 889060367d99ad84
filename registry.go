package variadic

import (
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/BurntSushi/toml"
	"github.com/puzpuzpuz/xsync/v4"
	"github.com/rs/zerolog"
)

// Registry resolves stable type names to descriptors. It is an injected
// collaborator: containers hold no registry reference, operations that need
// name resolution take one. A registry is safe for concurrent readers and
// writers; typical use registers everything at startup and only reads after.
type Registry struct {
	byName  *xsync.Map[string, *TypeDescriptor]
	byType  *xsync.Map[reflect.Type, *TypeDescriptor]
	aliases *xsync.Map[string, string]
	preload func(*TypeDescriptor)
	logger  zerolog.Logger
}

// RegistryOption configures a Registry at construction.
type RegistryOption func(*Registry)

// WithLogger installs the logger used for degraded-data diagnostics during
// loads. The default discards everything.
func WithLogger(l zerolog.Logger) RegistryOption {
	return func(r *Registry) { r.logger = l }
}

// WithPreload installs a hook invoked whenever a descriptor is resolved for
// deserialization, before its operations are used. Hosts use it to ensure a
// type's backing module is loaded.
func WithPreload(fn func(*TypeDescriptor)) RegistryOption {
	return func(r *Registry) { r.preload = fn }
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		byName:  xsync.NewMap[string, *TypeDescriptor](),
		byType:  xsync.NewMap[reflect.Type, *TypeDescriptor](),
		aliases: xsync.NewMap[string, string](),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a descriptor for the fixed-layout struct type T under a
// stable fully-qualified name. T must contain only fixed-size fields.
func Register[T any](r *Registry, name string, opts ...Option) (*TypeDescriptor, error) {
	t := reflect.TypeFor[T]()

	td, err := newDescriptor(t, name, opts...)
	if err != nil {
		return nil, err
	}

	if _, loaded := r.byName.LoadOrStore(name, td); loaded {
		return nil, fmt.Errorf("%w: name %q", ErrDuplicateType, name)
	}
	if _, loaded := r.byType.LoadOrStore(t, td); loaded {
		r.byName.Delete(name)
		return nil, fmt.Errorf("%w: go type %s", ErrDuplicateType, t)
	}
	return td, nil
}

// MustRegister is Register, panicking on error. Intended for startup wiring.
func MustRegister[T any](r *Registry, name string, opts ...Option) *TypeDescriptor {
	td, err := Register[T](r, name, opts...)
	if err != nil {
		panic(err)
	}
	return td
}

// Resolve returns the descriptor for a stable name, following the redirect
// table for renamed types and firing the preload hook.
func (r *Registry) Resolve(name string) (*TypeDescriptor, bool) {
	td, ok := r.byName.Load(r.Redirect(name))
	if ok && r.preload != nil {
		r.preload(td)
	}
	return td, ok
}

// Redirect maps an old type name to its current one. Chained renames are
// followed; unknown names pass through unchanged.
func (r *Registry) Redirect(name string) string {
	// Bounded walk so a redirect cycle in bad config cannot hang a load.
	for range 8 {
		next, ok := r.aliases.Load(name)
		if !ok {
			return name
		}
		name = next
	}
	return name
}

// AddRedirect records that values written under oldName should resolve to
// newName.
func (r *Registry) AddRedirect(oldName, newName string) {
	r.aliases.Store(oldName, newName)
}

// descriptorOf returns the descriptor registered for a Go type.
func (r *Registry) descriptorOf(t reflect.Type) (*TypeDescriptor, bool) {
	return r.byType.Load(t)
}

// redirectConfig is the on-disk shape of a redirect table.
type redirectConfig struct {
	Redirects map[string]string `toml:"redirects"`
}

// LoadRedirects merges a TOML redirect table into the registry:
//
//	[redirects]
//	"game.OldPoint" = "game.Point"
func (r *Registry) LoadRedirects(src io.Reader) error {
	var cfg redirectConfig
	if _, err := toml.NewDecoder(src).Decode(&cfg); err != nil {
		return fmt.Errorf("variadic: decoding redirect table: %w", err)
	}
	for oldName, newName := range cfg.Redirects {
		r.AddRedirect(oldName, newName)
	}
	return nil
}

// LoadRedirectsFile reads a TOML redirect table from disk.
func (r *Registry) LoadRedirectsFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.LoadRedirects(f)
}

// Dependencies lists the descriptors a container value depends on: its own
// type plus any registered struct types among its top-level fields. Hosts
// preload these before deserializing a batch.
func (r *Registry) Dependencies(v *VariadicStruct) []*TypeDescriptor {
	td := v.Descriptor()
	if td == nil {
		return nil
	}
	deps := []*TypeDescriptor{td}
	t := td.goType
	if t.Kind() != reflect.Struct {
		return deps
	}
	for i := range t.NumField() {
		if ft := t.Field(i).Type; ft.Kind() == reflect.Struct {
			if fd, ok := r.byType.Load(ft); ok && fd != td {
				deps = append(deps, fd)
			}
		}
	}
	return deps
}
