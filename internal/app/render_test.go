package app

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vothnha26/final-sub001/internal/api/client"
	"github.com/vothnha26/final-sub001/internal/infrastructure/monitoring"
)

func TestRenderPayload(t *testing.T) {
	t.Run("json is indented", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, renderPayload(&buf, client.JSON{Value: map[string]any{"gia": float64(5)}}, false))
		assert.Equal(t, "{\n  \"gia\": 5\n}\n", buf.String())
	})

	t.Run("text is printed as is", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, renderPayload(&buf, client.Text("xin chào"), false))
		assert.Equal(t, "xin chào\n", buf.String())
	})

	t.Run("empty text prints nothing", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, renderPayload(&buf, client.Text(""), true))
		assert.Empty(t, buf.String())
	})

	t.Run("records as table", func(t *testing.T) {
		var buf bytes.Buffer
		rows := []any{
			map[string]any{"id": "a1", "tenSanPham": "Sofa da", "gia": float64(12500000)},
			map[string]any{"id": "b2", "tenSanPham": "Ghế", "conHang": true},
		}
		require.NoError(t, renderPayload(&buf, client.JSON{Value: rows}, true))
		out := buf.String()
		assert.Contains(t, out, "Sofa da")
		assert.Contains(t, out, "12500000")
		assert.Contains(t, out, "true")
		assert.NotContains(t, out, "e+07")
	})

	t.Run("non-record json falls back to json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, renderPayload(&buf, client.JSON{Value: []any{"a", "b"}}, true))
		assert.Equal(t, "[\n  \"a\",\n  \"b\"\n]\n", buf.String())
	})
}

func TestColumns(t *testing.T) {
	got := columns([]map[string]any{
		{"tenSanPham": "x", "id": "1"},
		{"gia": 1, "maSanPham": "SP01"},
	})
	assert.Equal(t, []string{"id", "gia", "maSanPham", "tenSanPham"}, got)
}

func TestCell(t *testing.T) {
	assert.Equal(t, "", cell(nil))
	assert.Equal(t, "abc", cell("abc"))
	assert.Equal(t, "1500000", cell(float64(1500000)))
	assert.Equal(t, "0.5", cell(0.5))
	assert.Equal(t, "false", cell(false))
	assert.Equal(t, `{"url":"/a.png"}`, cell(map[string]any{"url": "/a.png"}))
}

func TestRenderSnapshot(t *testing.T) {
	m := monitoring.NewMetrics(nil)
	m.RecordRequest("GET", 200, 10*time.Millisecond, 10)
	m.RecordRequest("GET", 404, 30*time.Millisecond, 10)

	var buf bytes.Buffer
	require.NoError(t, renderSnapshot(&buf, m.Snapshot()))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "requests: 2  failures: 1  transport errors: 0  avg: 20ms\n"))
	assert.Contains(t, out, "404")
}
