package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/vothnha26/final-sub001/internal/infrastructure/monitoring"
)

// Method is one of the verbs the client issues.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodPatch  Method = "PATCH"
	MethodDelete Method = "DELETE"
)

func (m Method) valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete:
		return true
	}
	return false
}

// Options is the per-call options record.
type Options struct {
	// Body is sent as multipart for *Form/Form, verbatim for string, []byte
	// and io.Reader, and JSON-encoded otherwise. Nil sends no body.
	Body any
	// Query is appended to relative paths only.
	Query Query
	// Headers override the defaults and the auth header.
	Headers map[string]string
}

// Do performs one request and returns the parsed body. Non-2xx responses
// return an *HTTPError; transport failures are returned unwrapped.
func (c *Client) Do(ctx context.Context, method Method, p Path, opts Options) (Payload, error) {
	resp, target, err := c.send(ctx, method, p, opts)
	if err != nil {
		return nil, err
	}

	payload := parsePayload(resp.Header().Get("Content-Type"), resp.Body())
	if !resp.IsSuccess() {
		return nil, newHTTPError(method, target, resp.StatusCode(), resp.Status(), resp.Header(), payload)
	}
	return payload, nil
}

// send issues the request and returns the raw response with the target URL.
func (c *Client) send(ctx context.Context, method Method, p Path, opts Options) (*resty.Response, string, error) {
	if !method.valid() {
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedMethod, string(method))
	}
	if method == MethodGet && opts.Body != nil {
		return nil, "", ErrBodyNotAllowed
	}
	if ctx == nil {
		ctx = context.Background()
	}

	target := c.BuildURL(p, opts.Query)

	req := c.resty.R().SetContext(ctx)

	form, multipart := asForm(opts.Body)
	if !multipart {
		req.SetHeader("Content-Type", "application/json")
	}
	for k, v := range c.AuthHeader() {
		req.SetHeader(k, v)
	}
	for k, v := range opts.Headers {
		req.SetHeader(k, v)
	}

	switch {
	case multipart:
		fields, err := form.multipartFields()
		if err != nil {
			return nil, target, err
		}
		req.SetMultipartFields(fields...)
	case opts.Body != nil:
		body, err := encodeBody(opts.Body)
		if err != nil {
			return nil, target, err
		}
		req.SetBody(body)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, target, err
		}
	}

	var done func(bool)
	if c.breaker != nil {
		d, err := c.breaker.Allow()
		if err != nil {
			return nil, target, err
		}
		done = d
	}

	timer := monitoring.NewTimer(c.metrics, string(method))
	resp, err := req.Execute(string(method), target)
	if err != nil {
		timer.Failed()
		if done != nil {
			done(false)
		}
		c.log.Debug("api request failed",
			zap.String("method", string(method)),
			zap.String("url", target),
			zap.Duration("duration", timer.Elapsed()),
			zap.Error(err))
		return nil, target, err
	}

	timer.Response(resp.StatusCode(), len(resp.Body()))
	if done != nil {
		done(resp.StatusCode() < 500)
	}
	c.log.Debug("api request",
		zap.String("method", string(method)),
		zap.String("url", target),
		zap.Int("status", resp.StatusCode()),
		zap.Int("bytes", len(resp.Body())),
		zap.Duration("duration", resp.Time()))

	return resp, target, nil
}

// encodeBody leaves pre-encoded bodies untouched and JSON-encodes the rest.
func encodeBody(body any) (any, error) {
	switch b := body.(type) {
	case string, []byte, io.Reader:
		return b, nil
	case json.RawMessage:
		return []byte(b), nil
	default:
		data, err := sonic.ConfigStd.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		return data, nil
	}
}
