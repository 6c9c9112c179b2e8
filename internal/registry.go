package internal

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/samber/lo"
)

// DefaultPriority is the priority of inline middleware and of registrations
// that do not declare one. Lower priorities run earlier in the chain.
const DefaultPriority = 100

// Constructor builds a middleware instance from the string arguments bound
// at the use site, e.g. Use("role", "editor").
type Constructor func(args ...string) (Middleware, error)

// Entry describes one middleware use without holding the middleware itself:
// either a named reference with bound arguments, resolved through the
// Registry, or an inline function. Entries are plain values; routes carry
// them and the kernel expands them per dispatch.
type Entry struct {
	name     string
	args     []string
	inline   Middleware
	inlineID uint64
}

var inlineSeq atomic.Uint64

// Use references a registered middleware or group by name, with optional
// constructor arguments.
func Use(name string, args ...string) Entry {
	return Entry{name: name, args: args}
}

// UseFunc wraps a middleware function as an inline entry. Each UseFunc call
// yields a distinct identity: reusing the returned Entry deduplicates,
// calling UseFunc twice with the same function does not.
func UseFunc(m Middleware) Entry {
	return Entry{inline: m, inlineID: inlineSeq.Add(1)}
}

// IsInline reports whether the entry carries an inline function rather
// than a named reference.
func (e Entry) IsInline() bool {
	return e.inline != nil
}

// Name returns the referenced name, or "" for inline entries.
func (e Entry) Name() string {
	return e.name
}

// Args returns a copy of the bound constructor arguments.
func (e Entry) Args() []string {
	out := make([]string, len(e.args))
	copy(out, e.args)
	return out
}

// String renders the entry the way route definitions spell it.
func (e Entry) String() string {
	if e.IsInline() {
		return "inline#" + strconv.FormatUint(e.inlineID, 10)
	}
	if len(e.args) == 0 {
		return e.name
	}
	return e.name + ":" + strings.Join(e.args, ",")
}

// key is the dedup identity: name plus bound args for references, the
// creation serial for inline entries.
func (e Entry) key() string {
	if e.IsInline() {
		return "inline\x00" + strconv.FormatUint(e.inlineID, 10)
	}
	return "ref\x00" + e.name + "\x00" + strings.Join(e.args, "\x00")
}

type definition struct {
	ctor     Constructor
	priority int
}

// RegisterOption configures a middleware registration.
type RegisterOption func(*definition)

// WithPriority sets the chain priority of every use of this registration.
// Lower runs earlier; the default is DefaultPriority.
func WithPriority(p int) RegisterOption {
	return func(d *definition) {
		d.priority = p
	}
}

// Registry maps middleware names to constructors and group names to entry
// lists. Lookups happen when the kernel expands a dispatch; registration
// is expected to finish before the first dispatch.
type Registry struct {
	defs   map[string]definition
	groups map[string][]Entry

	mu    sync.Mutex
	cache map[string]Middleware
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		defs:   make(map[string]definition),
		groups: make(map[string][]Entry),
		cache:  make(map[string]Middleware),
	}
}

// Register binds a name to a middleware constructor. Names are unique
// across registrations and groups.
func (reg *Registry) Register(name string, ctor Constructor, opts ...RegisterOption) error {
	if name == "" {
		return fmt.Errorf("registry: middleware name is empty")
	}
	if ctor == nil {
		return fmt.Errorf("registry: middleware %q has a nil constructor", name)
	}
	if reg.taken(name) {
		return fmt.Errorf("registry: name %q is already registered", name)
	}

	def := definition{ctor: ctor, priority: DefaultPriority}
	for _, opt := range opts {
		opt(&def)
	}
	reg.defs[name] = def
	return nil
}

// RegisterFunc binds a name to a ready middleware that takes no arguments.
func (reg *Registry) RegisterFunc(name string, m Middleware, opts ...RegisterOption) error {
	if m == nil {
		return fmt.Errorf("registry: middleware %q is nil", name)
	}
	return reg.Register(name, func(args ...string) (Middleware, error) {
		if len(args) > 0 {
			return nil, fmt.Errorf("middleware %q takes no arguments", name)
		}
		return m, nil
	}, opts...)
}

// Group binds a name to an alias for a list of entries. Group references
// expand recursively; cycles are reported at expansion.
func (reg *Registry) Group(name string, entries ...Entry) error {
	if name == "" {
		return fmt.Errorf("registry: group name is empty")
	}
	if reg.taken(name) {
		return fmt.Errorf("registry: name %q is already registered", name)
	}
	reg.groups[name] = slices.Clone(entries)
	return nil
}

func (reg *Registry) taken(name string) bool {
	if _, ok := reg.defs[name]; ok {
		return true
	}
	_, ok := reg.groups[name]
	return ok
}

// Expand resolves entries into an executable middleware chain: group
// references flatten recursively, duplicates collapse to their first
// occurrence, and the result sorts stably by priority, lower first, so
// equal-priority entries keep their first-seen order.
func (reg *Registry) Expand(entries []Entry) ([]Middleware, error) {
	flat, err := reg.flatten(entries, nil)
	if err != nil {
		return nil, err
	}

	flat = lo.UniqBy(flat, Entry.key)
	slices.SortStableFunc(flat, func(a, b Entry) int {
		return cmp.Compare(reg.priorityOf(a), reg.priorityOf(b))
	})

	chain := make([]Middleware, 0, len(flat))
	for _, e := range flat {
		m, err := reg.resolve(e)
		if err != nil {
			return nil, err
		}
		chain = append(chain, m)
	}
	return chain, nil
}

func (reg *Registry) flatten(entries []Entry, visiting []string) ([]Entry, error) {
	var out []Entry
	for _, e := range entries {
		if e.IsInline() {
			out = append(out, e)
			continue
		}
		if group, ok := reg.groups[e.name]; ok {
			if len(e.args) > 0 {
				return nil, fmt.Errorf("registry: group %q cannot take arguments", e.name)
			}
			if slices.Contains(visiting, e.name) {
				return nil, fmt.Errorf("registry: group cycle through %q", e.name)
			}
			nested, err := reg.flatten(group, append(visiting, e.name))
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
			continue
		}
		if _, ok := reg.defs[e.name]; !ok {
			return nil, fmt.Errorf("registry: middleware %q is not registered", e.name)
		}
		out = append(out, e)
	}
	return out, nil
}

func (reg *Registry) priorityOf(e Entry) int {
	if e.IsInline() {
		return DefaultPriority
	}
	if def, ok := reg.defs[e.name]; ok {
		return def.priority
	}
	return DefaultPriority
}

// resolve returns the middleware instance for an entry, constructing it on
// first use. Instances are cached per name-and-args, so a reference used on
// many routes shares one instance.
func (reg *Registry) resolve(e Entry) (Middleware, error) {
	if e.IsInline() {
		return e.inline, nil
	}

	key := e.key()
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if m, ok := reg.cache[key]; ok {
		return m, nil
	}

	def, ok := reg.defs[e.name]
	if !ok {
		return nil, fmt.Errorf("registry: middleware %q is not registered", e.name)
	}
	m, err := def.ctor(e.args...)
	if err != nil {
		return nil, fmt.Errorf("registry: construct middleware %q: %w", e.String(), err)
	}
	if m == nil {
		return nil, fmt.Errorf("registry: middleware %q constructed nil", e.String())
	}
	reg.cache[key] = m
	return m, nil
}
