package client_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vothnha26/final-sub001/internal/api/client"
	"github.com/vothnha26/final-sub001/tests/helpers/testutil"
)

func newClient(t *testing.T, b *testutil.Backend, opts ...client.Option) *client.Client {
	t.Helper()
	return client.New(append([]client.Option{client.WithBaseURL(b.URL)}, opts...)...)
}

func seedProducts(b *testutil.Backend) []string {
	return b.Seed("san-pham",
		map[string]any{"maSanPham": "SP01", "tenSanPham": "Sofa da", "gia": 12500000, "duongDanHinhAnh": "/files/sofa.png"},
		map[string]any{"maSanPham": "SP02", "tenSanPham": "Bàn trà gỗ sồi", "gia": 3200000, "duongDanHinhAnh": "/files/ban.png"},
	)
}

func TestGetJSON(t *testing.T) {
	b := testutil.NewBackend(t)
	seedProducts(b)
	c := newClient(t, b)

	payload, err := c.Get(context.Background(), client.Literal("/api/san-pham"), client.Options{Query: client.Q("q", "sofa")})
	require.NoError(t, err)

	list, ok := testutil.RequireJSON(t, payload).([]any)
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.Equal(t, "Sofa da", list[0].(map[string]any)["tenSanPham"])

	req := b.Last()
	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "/api/san-pham", req.Path)
	assert.Equal(t, "q=sofa", req.RawQuery)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestQueryOrderOnTheWire(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b)

	_, err := c.Get(context.Background(), client.Literal("api/san-pham"), client.Options{Query: client.Q("q", "sofa", "page", 2)})
	require.NoError(t, err)
	assert.Equal(t, "q=sofa&page=2", b.Last().RawQuery)
}

func TestTextResponses(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b)
	ctx := context.Background()

	t.Run("plain text", func(t *testing.T) {
		payload, err := c.Get(ctx, client.Literal("/text"), client.Options{})
		require.NoError(t, err)
		assert.Equal(t, "xin chào", testutil.RequireText(t, payload))
	})

	t.Run("malformed json", func(t *testing.T) {
		payload, err := c.Get(ctx, client.Literal("/malformed"), client.Options{})
		require.NoError(t, err)
		assert.Equal(t, `{"tenSanPham": "Sofa`, testutil.RequireText(t, payload))
	})

	t.Run("no content", func(t *testing.T) {
		ids := seedProducts(b)
		payload, err := c.Delete(ctx, client.Literal("/api/san-pham/"+ids[0]), client.Options{})
		require.NoError(t, err)
		assert.Equal(t, "", testutil.RequireText(t, payload))
	})
}

func TestHTTPErrors(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b)
	ctx := context.Background()

	t.Run("json body", func(t *testing.T) {
		_, err := c.Get(ctx, client.Literal("/status/404"), client.Options{})
		httpErr := testutil.RequireHTTPError(t, err, 404)
		assert.Equal(t, "Not Found", httpErr.StatusText)
		assert.Equal(t, "HTTP 404 Not Found", httpErr.Error())
		assert.Equal(t, "GET", httpErr.Method)
		assert.Equal(t, b.URL+"/status/404", httpErr.URL)

		data := testutil.RequireJSON(t, httpErr.Data).(map[string]any)
		assert.Equal(t, "Not Found", data["message"])
	})

	t.Run("server error", func(t *testing.T) {
		_, err := c.Get(ctx, client.Literal("/status/500"), client.Options{})
		testutil.RequireHTTPError(t, err, 500)
		assert.Equal(t, 500, client.StatusOf(err))
	})

	t.Run("mislabelled error body", func(t *testing.T) {
		_, err := c.Get(ctx, client.Literal("/malformed/502"), client.Options{})
		httpErr := testutil.RequireHTTPError(t, err, 502)
		assert.Equal(t, "<html>gateway error</html>", testutil.RequireText(t, httpErr.Data))
	})

	t.Run("text error body", func(t *testing.T) {
		_, err := c.Get(ctx, client.Literal("/text/400"), client.Options{})
		httpErr := testutil.RequireHTTPError(t, err, 400)
		assert.Equal(t, "plain failure", testutil.RequireText(t, httpErr.Data))
	})

	t.Run("missing record", func(t *testing.T) {
		_, err := c.Put(ctx, client.Literal("/api/san-pham/nope"), map[string]any{"gia": 1})
		httpErr := testutil.RequireHTTPError(t, err, 404)
		assert.Equal(t, "PUT", httpErr.Method)
	})
}

func TestTransportError(t *testing.T) {
	rt := &testutil.FailingTransport{}
	c := client.New(client.WithBaseURL("http://store.invalid"), client.WithTransport(rt))

	_, err := c.Get(context.Background(), client.Literal("/api/san-pham"), client.Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, testutil.ErrNetworkDown)
	assert.Equal(t, 0, client.StatusOf(err))
	assert.Equal(t, 1, rt.Attempts)
}

func TestUnsupportedMethod(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b)

	for _, m := range []client.Method{"HEAD", "OPTIONS", "get", ""} {
		_, err := c.Do(context.Background(), m, client.Literal("/echo"), client.Options{})
		assert.ErrorIs(t, err, client.ErrUnsupportedMethod)
	}
	assert.Empty(t, b.Requests())
}

func TestGetRejectsBody(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b)
	ctx := context.Background()

	_, err := c.Get(ctx, client.Literal("/echo"), client.Options{Body: map[string]any{"a": 1}})
	assert.ErrorIs(t, err, client.ErrBodyNotAllowed)

	_, err = c.Do(ctx, client.MethodGet, client.Literal("/echo"), client.Options{Body: ""})
	assert.ErrorIs(t, err, client.ErrBodyNotAllowed)
	assert.Empty(t, b.Requests())

	_, err = c.Delete(ctx, client.Literal("/echo"), client.Options{Body: map[string]any{"a": 1}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(b.Last().Body))
}

func TestHeaderPrecedence(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b)
	c.SetAuthToken("from-memory")
	ctx := context.Background()

	_, err := c.Get(ctx, client.Literal("/echo"), client.Options{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer from-memory", b.Last().Header.Get("Authorization"))
	assert.Equal(t, "application/json", b.Last().Header.Get("Content-Type"))

	_, err = c.Get(ctx, client.Literal("/echo"), client.Options{Headers: map[string]string{
		"Authorization": "Bearer override",
		"Content-Type":  "text/plain",
		"X-Request-Id":  "req-1",
	}})
	require.NoError(t, err)
	req := b.Last()
	assert.Equal(t, "Bearer override", req.Header.Get("Authorization"))
	assert.Equal(t, "text/plain", req.Header.Get("Content-Type"))
	assert.Equal(t, "req-1", req.Header.Get("X-Request-Id"))
}

func TestCRUDCycle(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b)
	ctx := context.Background()

	created, err := c.Post(ctx, client.Literal("/api/san-pham"), map[string]any{
		"tenSanPham": "Ghế gỗ",
		"gia":        1500000,
	})
	require.NoError(t, err)
	product := testutil.RequireJSON(t, created).(map[string]any)
	id, _ := product["id"].(string)
	require.NotEmpty(t, id)

	var sent map[string]any
	require.NoError(t, sonic.ConfigStd.Unmarshal(b.Last().Body, &sent))
	assert.Equal(t, map[string]any{"tenSanPham": "Ghế gỗ", "gia": float64(1500000)}, sent)

	path := client.Literal("/api/san-pham/" + id)

	updated, err := c.Patch(ctx, path, map[string]any{"gia": 1400000})
	require.NoError(t, err)
	assert.Equal(t, float64(1400000), testutil.RequireJSON(t, updated).(map[string]any)["gia"])
	assert.Equal(t, "Ghế gỗ", testutil.RequireJSON(t, updated).(map[string]any)["tenSanPham"])

	replaced, err := c.Put(ctx, path, map[string]any{
		"body":    map[string]any{"tenSanPham": "Ghế xoay"},
		"headers": map[string]string{"X-Source": "admin"},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": id, "tenSanPham": "Ghế xoay"}, testutil.RequireJSON(t, replaced))
	assert.Equal(t, "admin", b.Last().Header.Get("X-Source"))

	_, err = c.Delete(ctx, path, client.Options{})
	require.NoError(t, err)

	_, err = c.Get(ctx, path, client.Options{})
	testutil.RequireHTTPError(t, err, 404)
}

func TestRawBodies(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b)
	ctx := context.Background()

	_, err := c.Post(ctx, client.Literal("/echo"), `{"already":"encoded"}`)
	require.NoError(t, err)
	assert.Equal(t, `{"already":"encoded"}`, string(b.Last().Body))

	_, err = c.Post(ctx, client.Literal("/echo"), []byte("bytes"))
	require.NoError(t, err)
	assert.Equal(t, "bytes", string(b.Last().Body))

	_, err = c.Post(ctx, client.Literal("/echo"), nil)
	require.NoError(t, err)
	assert.Empty(t, b.Last().Body)
}

func TestPathShapes(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b)
	ctx := context.Background()

	payload, err := c.Get(ctx, client.FromRecord(map[string]any{"duongDanHinhAnh": "/text"}), client.Options{})
	require.NoError(t, err)
	assert.Equal(t, "xin chào", testutil.RequireText(t, payload))

	payload, err = c.Get(ctx, client.FromList([]any{"/text", "/status/500"}), client.Options{})
	require.NoError(t, err)
	assert.Equal(t, "xin chào", testutil.RequireText(t, payload))
}

func TestAbsolutePathIgnoresBaseAndQuery(t *testing.T) {
	b := testutil.NewBackend(t)
	c := client.New(client.WithBaseURL("http://store.invalid"))

	_, err := c.Get(context.Background(), client.Literal(b.URL+"/echo"), client.Options{Query: client.Q("page", 2)})
	require.NoError(t, err)
	assert.Equal(t, "/echo", b.Last().Path)
	assert.Empty(t, b.Last().RawQuery)
}

func TestSessionCookies(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b)
	ctx := context.Background()

	_, err := c.Get(ctx, client.Literal("/auth/me"), client.Options{})
	testutil.RequireHTTPError(t, err, 401)

	_, err = c.Post(ctx, client.Literal("/auth/login"), map[string]any{
		"tenDangNhap": testutil.AdminUser,
		"matKhau":     testutil.AdminPassword,
	})
	require.NoError(t, err)

	me, err := c.Get(ctx, client.Literal("/auth/me"), client.Options{})
	require.NoError(t, err)
	assert.Equal(t, testutil.AdminUser, testutil.RequireJSON(t, me).(map[string]any)["tenDangNhap"])

	var names []string
	for _, ck := range c.Cookies() {
		names = append(names, ck.Name)
	}
	assert.Contains(t, names, testutil.SessionCookie)
}

func TestContextCancellation(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Get(ctx, client.Literal("/echo"), client.Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, client.StatusOf(err))
}

func TestTimeout(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b, client.WithTimeout(50*time.Millisecond))

	start := time.Now()
	_, err := c.Get(context.Background(), client.Literal("/slow"), client.Options{})
	require.Error(t, err)
	assert.Equal(t, 0, client.StatusOf(err))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestConcurrentRequests(t *testing.T) {
	b := testutil.NewBackend(t)
	seedProducts(b)
	c := newClient(t, b)
	c.SetAuthToken(b.Token)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Get(context.Background(), client.Literal("/api/san-pham"), client.Options{})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Len(t, b.Requests(), 20)
}

func TestOptionsRecordOnTheWire(t *testing.T) {
	b := testutil.NewBackend(t)
	c := newClient(t, b)
	ctx := context.Background()

	_, err := c.Post(ctx, client.Literal("/echo"), map[string]any{"name": "x"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"x"}`, string(b.Last().Body))
	assert.Empty(t, b.Last().RawQuery)

	_, err = c.Post(ctx, client.Literal("/echo"), map[string]any{
		"body":  map[string]any{"name": "x"},
		"query": map[string]any{"a": 1},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"x"}`, string(b.Last().Body))
	assert.Equal(t, "a=1", b.Last().RawQuery)
	assert.Equal(t, "application/json", b.Last().Header.Get("Content-Type"))
}
