package client

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"
)

// QueryParam is one key of a query mapping.
type QueryParam struct {
	Key   string
	Value any
}

// Query is an ordered query mapping. Order is kept on the wire, so
// Q("q", "sofa", "page", 2) encodes as q=sofa&page=2.
type Query []QueryParam

// Q builds a Query from alternating keys and values. A trailing key without
// a value is dropped.
func Q(kv ...any) Query {
	q := make(Query, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		q = append(q, QueryParam{Key: fmt.Sprint(kv[i]), Value: kv[i+1]})
	}
	return q
}

// QueryFromMap converts a map, sorting keys for a stable encoding.
func QueryFromMap(m map[string]any) Query {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	q := make(Query, 0, len(keys))
	for _, k := range keys {
		q = append(q, QueryParam{Key: k, Value: m[k]})
	}
	return q
}

// With returns a copy of q with key appended.
func (q Query) With(key string, value any) Query {
	out := make(Query, len(q), len(q)+1)
	copy(out, q)
	return append(out, QueryParam{Key: key, Value: value})
}

// Encode serialises q with standard query escaping. Nil values are skipped
// and slices repeat their key.
func (q Query) Encode() string {
	var b strings.Builder
	write := func(key string, value any) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(fmt.Sprint(value)))
	}

	for _, p := range q {
		if p.Value == nil {
			continue
		}
		rv := reflect.ValueOf(p.Value)
		if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Type().Elem().Kind() != reflect.Uint8 {
			for i := 0; i < rv.Len(); i++ {
				item := rv.Index(i).Interface()
				if item != nil {
					write(p.Key, item)
				}
			}
			continue
		}
		write(p.Key, p.Value)
	}
	return b.String()
}
