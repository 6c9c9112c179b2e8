package internal

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Arg is one path parameter extracted by a route match.
type Arg struct {
	Name  string
	Value string
}

// Args holds extracted parameters in pattern declaration order. An optional
// placeholder that did not match is present with an empty value, so the
// positional shape of a route is stable.
type Args []Arg

// Get returns the value of the named parameter, or "" when absent.
func (a Args) Get(name string) string {
	for _, arg := range a {
		if arg.Name == name {
			return arg.Value
		}
	}
	return ""
}

// Has reports whether the named parameter was extracted with a non-empty
// value.
func (a Args) Has(name string) bool {
	for _, arg := range a {
		if arg.Name == name {
			return arg.Value != ""
		}
	}
	return false
}

// Values returns the parameter values in declaration order.
func (a Args) Values() []string {
	out := make([]string, len(a))
	for i, arg := range a {
		out[i] = arg.Value
	}
	return out
}

// Matcher is a custom path matcher. It replaces the compiled pattern of a
// route entirely: return the extracted args and whether the path matched.
type Matcher func(path string) (Args, bool)

// QueryFilter rewrites the host's native query variables for a matched
// render. It receives the request and the host's current variables and
// returns the set the host should use.
type QueryFilter func(r *Request, vars url.Values) url.Values

// Route pairs a URL pattern with a handler and the middleware entries to
// run around it. Routes are assembled with the chainable With-style methods
// during registration and must not be mutated once dispatching starts.
//
// Patterns are absolute paths with literal segments and placeholders:
//
//	/posts/{id}             one segment, any value
//	/posts/{id:[0-9]+}      constrained by an inline regular expression
//	/archive/{page?}        optional, allowed on the final segment only
//
// Matching is case-sensitive and anchored to the whole path.
type Route struct {
	pattern string
	name    string
	methods []string
	handler HandlerFunc
	entries []Entry

	matcher   *regexp.Regexp
	names     []string
	custom    Matcher
	condition func(*Request) bool
	filter    QueryFilter
}

// NewRoute compiles a pattern into a Route. An empty method list matches
// every method. Malformed patterns and constraints fail here, at
// registration time, never during dispatch.
func NewRoute(pattern string, h HandlerFunc, methods ...string) (*Route, error) {
	matcher, names, err := compilePattern(pattern)
	if err != nil {
		return nil, err
	}

	normalized := make([]string, len(methods))
	for i, m := range methods {
		normalized[i] = strings.ToUpper(m)
	}

	return &Route{
		pattern: pattern,
		methods: normalized,
		handler: h,
		matcher: matcher,
		names:   names,
	}, nil
}

// Use appends middleware entries to run around this route's handler.
func (r *Route) Use(entries ...Entry) *Route {
	r.entries = append(r.entries, entries...)
	return r
}

// When guards the route with a predicate evaluated after the pattern
// matches. Routes without a condition are always satisfied.
func (r *Route) When(cond func(*Request) bool) *Route {
	r.condition = cond
	return r
}

// FilterQuery installs a rewrite of the host's query variables applied when
// this route wins a render dispatch.
func (r *Route) FilterQuery(f QueryFilter) *Route {
	r.filter = f
	return r
}

// MatchWith replaces the compiled pattern with a custom matcher.
func (r *Route) MatchWith(m Matcher) *Route {
	r.custom = m
	return r
}

// Named gives the route a name for logs.
func (r *Route) Named(name string) *Route {
	r.name = name
	return r
}

// Pattern returns the pattern the route was registered with.
func (r *Route) Pattern() string {
	return r.pattern
}

// Name returns the route name, or the pattern when unnamed.
func (r *Route) Name() string {
	if r.name != "" {
		return r.name
	}
	return r.pattern
}

// Methods returns a copy of the method set. Empty means any method.
func (r *Route) Methods() []string {
	out := make([]string, len(r.methods))
	copy(out, r.methods)
	return out
}

// Middleware returns a copy of the route's middleware entries.
func (r *Route) Middleware() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Handler returns the terminal handler.
func (r *Route) Handler() HandlerFunc {
	return r.handler
}

// Args re-runs the match against the request path and returns the extracted
// parameters in declaration order. A non-matching request yields nil.
func (r *Route) Args(req *Request) Args {
	args, ok := r.match(req.Path())
	if !ok {
		return nil
	}
	return args
}

// IsSatisfied reports whether the route's condition accepts the request.
func (r *Route) IsSatisfied(req *Request) bool {
	if r.condition == nil {
		return true
	}
	return r.condition(req)
}

// ApplyQueryFilter runs the route's query filter, if any, over the host's
// native query variables.
func (r *Route) ApplyQueryFilter(req *Request, vars url.Values) url.Values {
	if r.filter == nil {
		return vars
	}
	return r.filter(req, vars)
}

func (r *Route) allowsMethod(method string) bool {
	if len(r.methods) == 0 {
		return true
	}
	for _, m := range r.methods {
		if m == method {
			return true
		}
	}
	return false
}

func (r *Route) match(path string) (Args, bool) {
	if r.custom != nil {
		return r.custom(path)
	}

	matches := r.matcher.FindStringSubmatch(path)
	if matches == nil {
		return nil, false
	}
	args := make(Args, 0, len(r.names))
	for _, name := range r.names {
		value := ""
		if idx := r.matcher.SubexpIndex(name); idx > 0 && idx < len(matches) {
			value = matches[idx]
		}
		args = append(args, Arg{Name: name, Value: value})
	}
	return args, true
}

var placeholderName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// compilePattern turns a route pattern into an anchored regular expression
// plus the placeholder names in declaration order.
func compilePattern(pattern string) (*regexp.Regexp, []string, error) {
	if !strings.HasPrefix(pattern, "/") {
		return nil, nil, fmt.Errorf("route pattern %q must start with /", pattern)
	}

	trimmed := strings.TrimRight(pattern, "/")
	if trimmed == "" {
		re, err := regexp.Compile(`^/$`)
		return re, nil, err
	}

	segments := strings.Split(trimmed[1:], "/")
	var (
		expr  strings.Builder
		names []string
	)
	expr.WriteString("^")

	for i, seg := range segments {
		last := i == len(segments)-1

		switch {
		case strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") && len(seg) > 2:
			inner := seg[1 : len(seg)-1]

			if name, ok := strings.CutSuffix(inner, "?"); ok && !strings.Contains(inner, ":") {
				if !last {
					return nil, nil, fmt.Errorf("route pattern %q: optional placeholder {%s?} must be the final segment", pattern, name)
				}
				if !placeholderName.MatchString(name) {
					return nil, nil, fmt.Errorf("route pattern %q: invalid placeholder name %q", pattern, name)
				}
				names = append(names, name)
				if i == 0 {
					// A lone optional still has to match the bare root path.
					fmt.Fprintf(&expr, `/?(?P<%s>[^/]+)?`, name)
				} else {
					fmt.Fprintf(&expr, `(?:/(?P<%s>[^/]+))?`, name)
				}
				continue
			}

			name, constraint, constrained := strings.Cut(inner, ":")
			if !placeholderName.MatchString(name) {
				return nil, nil, fmt.Errorf("route pattern %q: invalid placeholder name %q", pattern, name)
			}
			if !constrained {
				constraint = `[^/]+`
			} else if constraint == "" {
				return nil, nil, fmt.Errorf("route pattern %q: empty constraint on {%s}", pattern, name)
			}
			names = append(names, name)
			fmt.Fprintf(&expr, `/(?P<%s>%s)`, name, constraint)

		case strings.ContainsAny(seg, "{}"):
			return nil, nil, fmt.Errorf("route pattern %q: segment %q mixes literals and placeholders", pattern, seg)

		default:
			expr.WriteString("/")
			expr.WriteString(regexp.QuoteMeta(seg))
		}
	}
	expr.WriteString("$")

	re, err := regexp.Compile(expr.String())
	if err != nil {
		return nil, nil, fmt.Errorf("route pattern %q: %w", pattern, err)
	}
	return re, names, nil
}
