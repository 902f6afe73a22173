package client

import (
	"fmt"
	"strings"
)

// Path is the location argument of every request. It is a closed set of
// shapes: a literal string, the first element of a list, or a field picked
// from a record such as a product image object.
type Path interface {
	resolve() string
}

// RecordPathKeys are the record fields consulted, in order, by FromRecord.
var RecordPathKeys = []string{"url", "href", "duongDanHinhAnh", "path"}

type literalPath string

type listPath []any

type recordPath map[string]any

type stringerPath struct{ s fmt.Stringer }

// Literal wraps a string path.
func Literal(s string) Path { return literalPath(s) }

// FromList resolves to the first element of items, or "" when there is none.
func FromList(items []any) Path { return listPath(items) }

// FromRecord resolves to the first present RecordPathKeys field of rec. A
// record without any of them resolves to its printed form.
func FromRecord(rec map[string]any) Path {
	if rec == nil {
		return literalPath("")
	}
	return recordPath(rec)
}

// PathOf maps a dynamically typed value, typically decoded JSON, onto a Path.
func PathOf(v any) Path {
	switch t := v.(type) {
	case nil:
		return literalPath("")
	case Path:
		return t
	case string:
		return literalPath(t)
	case []any:
		return listPath(t)
	case []string:
		items := make([]any, len(t))
		for i, s := range t {
			items[i] = s
		}
		return listPath(items)
	case map[string]any:
		return FromRecord(t)
	case fmt.Stringer:
		return stringerPath{t}
	default:
		return literalPath(fmt.Sprint(t))
	}
}

func (p literalPath) resolve() string { return string(p) }

// String runs at resolve time so a nil receiver panics inside BuildURL.
func (p stringerPath) resolve() string { return p.s.String() }

func (p listPath) resolve() string {
	if len(p) == 0 || p[0] == nil {
		return ""
	}
	return PathOf(p[0]).resolve()
}

func (p recordPath) resolve() string {
	for _, key := range RecordPathKeys {
		v, ok := p[key]
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString {
			if s == "" {
				continue
			}
			return s
		}
		return fmt.Sprint(v)
	}
	// No path field: the printed map, e.g. "map[id:7]". A browser would
	// stringify the object as "[object Object]" instead.
	return fmt.Sprint(map[string]any(p))
}

// BuildURL joins base, the resolved path and the encoded query. An empty
// path yields "". Absolute http(s) paths are returned as they are and the
// query is not applied to them. BuildURL never panics, so its result can go
// straight into an <img src>.
func BuildURL(base string, p Path, q Query) (u string) {
	defer func() {
		if recover() != nil {
			u = ""
		}
	}()

	if p == nil {
		return ""
	}
	path := strings.TrimSpace(p.resolve())
	if path == "" {
		return ""
	}
	if isAbsolute(path) {
		return path
	}

	joined := strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
	if encoded := q.Encode(); encoded != "" {
		joined += "?" + encoded
	}
	return joined
}

func isAbsolute(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
