package client

import (
	"context"
	"fmt"
)

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, p Path, opts Options) (Payload, error) {
	return c.Do(ctx, MethodGet, p, opts)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, p Path, opts Options) (Payload, error) {
	return c.Do(ctx, MethodDelete, p, opts)
}

// Post issues a POST request. bodyOrOptions is either an options record or
// the body itself; see NormalizeOptions.
func (c *Client) Post(ctx context.Context, p Path, bodyOrOptions any) (Payload, error) {
	return c.Do(ctx, MethodPost, p, NormalizeOptions(bodyOrOptions))
}

// Put issues a PUT request. See Post.
func (c *Client) Put(ctx context.Context, p Path, bodyOrOptions any) (Payload, error) {
	return c.Do(ctx, MethodPut, p, NormalizeOptions(bodyOrOptions))
}

// Patch issues a PATCH request. See Post.
func (c *Client) Patch(ctx context.Context, p Path, bodyOrOptions any) (Payload, error) {
	return c.Do(ctx, MethodPatch, p, NormalizeOptions(bodyOrOptions))
}

// NormalizeOptions interprets the second argument of Post, Put and Patch.
// Options values are used as they are. A map holding any of the keys
// "body", "query" or "headers" is read as an options record. Anything else
// is the request body.
func NormalizeOptions(v any) Options {
	switch o := v.(type) {
	case Options:
		return o
	case *Options:
		if o == nil {
			return Options{}
		}
		return *o
	case map[string]any:
		if isOptionsRecord(o) {
			return optionsFromRecord(o)
		}
	}
	return Options{Body: v}
}

func isOptionsRecord(m map[string]any) bool {
	for _, key := range []string{"body", "query", "headers"} {
		if _, ok := m[key]; ok {
			return true
		}
	}
	return false
}

func optionsFromRecord(m map[string]any) Options {
	opts := Options{Body: m["body"]}

	switch q := m["query"].(type) {
	case Query:
		opts.Query = q
	case map[string]any:
		opts.Query = QueryFromMap(q)
	case map[string]string:
		converted := make(map[string]any, len(q))
		for k, v := range q {
			converted[k] = v
		}
		opts.Query = QueryFromMap(converted)
	}

	switch h := m["headers"].(type) {
	case map[string]string:
		opts.Headers = h
	case map[string]any:
		opts.Headers = make(map[string]string, len(h))
		for k, v := range h {
			if v != nil {
				opts.Headers[k] = fmt.Sprint(v)
			}
		}
	}
	return opts
}
