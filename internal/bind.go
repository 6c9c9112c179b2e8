package internal

import "strconv"

// AttributeValue returns a typed request attribute, or the zero value when
// the attribute is absent or holds a different type.
func AttributeValue[T any](r *Request, name string) T {
	if v, ok := r.Attribute(name); ok {
		if typed, ok := v.(T); ok {
			return typed
		}
	}
	var zero T
	return zero
}

// Param returns a typed route parameter, or the zero value when the
// parameter is absent or does not parse.
func Param[T ~string | ~int | ~int64 | ~float64 | ~bool](args Args, name string) T {
	v, _ := convertParam[T](args.Get(name))
	return v
}

// ParamDefault returns a typed route parameter, falling back to
// defaultValue when the parameter is empty or cannot be parsed.
func ParamDefault[T ~string | ~int | ~int64 | ~float64 | ~bool](args Args, name string, defaultValue T) T {
	raw := args.Get(name)
	if raw == "" {
		return defaultValue
	}
	v, ok := convertParam[T](raw)
	if !ok {
		return defaultValue
	}
	return v
}

// QueryValue returns a typed query parameter from the request.
func QueryValue[T ~string | ~int | ~int64 | ~float64 | ~bool](r *Request, name string) T {
	v, _ := convertParam[T](r.Query(name))
	return v
}

// QueryDefault returns a typed query parameter, falling back to
// defaultValue when the parameter is empty or cannot be parsed.
func QueryDefault[T ~string | ~int | ~int64 | ~float64 | ~bool](r *Request, name string, defaultValue T) T {
	raw := r.Query(name)
	if raw == "" {
		return defaultValue
	}
	v, ok := convertParam[T](raw)
	if !ok {
		return defaultValue
	}
	return v
}

// convertParam converts a raw string to the target type T.
// Returns the converted value and true on success, or the zero value and false on failure.
func convertParam[T ~string | ~int | ~int64 | ~float64 | ~bool](raw string) (T, bool) {
	var zero T
	switch any(zero).(type) {
	case string:
		return any(raw).(T), true
	case int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return zero, false
		}
		return any(v).(T), true
	case int64:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return zero, false
		}
		return any(v).(T), true
	case float64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return zero, false
		}
		return any(v).(T), true
	case bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return zero, false
		}
		return any(v).(T), true
	}
	return zero, false
}
