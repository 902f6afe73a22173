package testutil

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PNG is a 1x1 transparent image served by /files.
var PNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

// Credentials accepted by /auth/login.
const (
	AdminUser     = "admin"
	AdminPassword = "secret"
	SessionCookie = "SESSION"
)

// UploadedFile describes a file part received by the backend.
type UploadedFile struct {
	Field       string
	FileName    string
	ContentType string
	Size        int64
}

// Recorded is one request as seen by the backend.
type Recorded struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
	Cookies  []*http.Cookie
	Fields   map[string][]string
	Files    []UploadedFile
}

// Backend is an in-memory stand-in for the furniture-store REST API.
type Backend struct {
	*httptest.Server
	Engine *gin.Engine
	// Token is the bearer token issued by /auth/login.
	Token string

	mu        sync.Mutex
	requests  []Recorded
	resources map[string]*collection
	sessions  map[string]bool
	flaky     int
}

type collection struct {
	order   []string
	records map[string]map[string]any
}

// NewBackend starts a backend that is closed when t finishes.
func NewBackend(t *testing.T) *Backend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := &Backend{
		Engine:    gin.New(),
		Token:     "tok-" + uuid.NewString(),
		resources: make(map[string]*collection),
		sessions:  make(map[string]bool),
	}
	b.Engine.Use(gin.Recovery(), b.record)
	b.routes()

	b.Server = httptest.NewServer(b.Engine)
	t.Cleanup(b.Server.Close)
	return b
}

// Requests returns every request received so far.
func (b *Backend) Requests() []Recorded {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Recorded, len(b.requests))
	copy(out, b.requests)
	return out
}

// Last returns the most recent request.
func (b *Backend) Last() Recorded {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.requests) == 0 {
		return Recorded{}
	}
	return b.requests[len(b.requests)-1]
}

// Seed stores records under resource and returns their ids.
func (b *Backend) Seed(resource string, records ...map[string]any) []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, b.insert(resource, r))
	}
	return ids
}

// FailNext makes the next n calls to /flaky answer 503.
func (b *Backend) FailNext(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.flaky = n
}

func (b *Backend) insert(resource string, record map[string]any) string {
	col, ok := b.resources[resource]
	if !ok {
		col = &collection{records: make(map[string]map[string]any)}
		b.resources[resource] = col
	}

	id, _ := record["id"].(string)
	if id == "" {
		id = uuid.NewString()
	}
	stored := make(map[string]any, len(record)+1)
	for k, v := range record {
		stored[k] = v
	}
	stored["id"] = id

	if _, exists := col.records[id]; !exists {
		col.order = append(col.order, id)
	}
	col.records[id] = stored
	return id
}

func (b *Backend) record(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	rec := Recorded{
		Method:   c.Request.Method,
		Path:     c.Request.URL.Path,
		RawQuery: c.Request.URL.RawQuery,
		Header:   c.Request.Header.Clone(),
		Body:     body,
		Cookies:  c.Request.Cookies(),
	}

	if mediaType, params, err := mime.ParseMediaType(c.GetHeader("Content-Type")); err == nil && mediaType == "multipart/form-data" {
		form, err := multipart.NewReader(bytes.NewReader(body), params["boundary"]).ReadForm(32 << 20)
		if err == nil {
			rec.Fields = form.Value
			for field, headers := range form.File {
				for _, fh := range headers {
					rec.Files = append(rec.Files, UploadedFile{
						Field:       field,
						FileName:    fh.Filename,
						ContentType: fh.Header.Get("Content-Type"),
						Size:        fh.Size,
					})
				}
			}
			sort.Slice(rec.Files, func(i, j int) bool { return rec.Files[i].Field < rec.Files[j].Field })
			form.RemoveAll()
		}
	}

	b.mu.Lock()
	b.requests = append(b.requests, rec)
	b.mu.Unlock()

	c.Next()
}

func (b *Backend) routes() {
	r := b.Engine

	r.POST("/auth/login", b.login)
	r.GET("/auth/me", b.me)

	api := r.Group("/api")
	api.GET("/:resource", b.list)
	api.POST("/:resource", b.create)
	api.GET("/:resource/:id", b.get)
	api.PUT("/:resource/:id", b.replace)
	api.PATCH("/:resource/:id", b.update)
	api.DELETE("/:resource/:id", b.remove)

	r.Any("/echo", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"query":       c.Request.URL.RawQuery,
			"contentType": c.GetHeader("Content-Type"),
			"auth":        c.GetHeader("Authorization"),
		})
	})

	r.GET("/status/:code", func(c *gin.Context) {
		code, err := strconv.Atoi(c.Param("code"))
		if err != nil {
			code = http.StatusBadRequest
		}
		c.JSON(code, gin.H{"message": http.StatusText(code), "code": code})
	})

	r.GET("/malformed", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(`{"tenSanPham": "Sofa`))
	})
	r.GET("/malformed/:code", func(c *gin.Context) {
		code, _ := strconv.Atoi(c.Param("code"))
		c.Data(code, "application/json", []byte("<html>gateway error</html>"))
	})

	r.GET("/text", func(c *gin.Context) {
		c.String(http.StatusOK, "xin chào")
	})
	r.GET("/text/:code", func(c *gin.Context) {
		code, _ := strconv.Atoi(c.Param("code"))
		c.String(code, "plain failure")
	})

	r.GET("/files/:name", func(c *gin.Context) {
		if c.Param("name") == "missing.png" {
			c.JSON(http.StatusNotFound, gin.H{"message": "Không tìm thấy tệp"})
			return
		}
		if !b.authorized(c) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Chưa đăng nhập"})
			return
		}
		c.Data(http.StatusOK, "application/octet-stream", PNG)
	})

	r.POST("/upload", func(c *gin.Context) {
		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		files := []gin.H{}
		for field, headers := range form.File {
			for _, fh := range headers {
				files = append(files, gin.H{"field": field, "fileName": fh.Filename, "size": fh.Size})
			}
		}
		c.JSON(http.StatusCreated, gin.H{"fields": form.Value, "files": files})
	})

	r.GET("/slow", func(c *gin.Context) {
		select {
		case <-c.Request.Context().Done():
		case <-time.After(5 * time.Second):
		}
		c.Status(http.StatusNoContent)
	})

	r.Any("/flaky", func(c *gin.Context) {
		b.mu.Lock()
		fail := b.flaky > 0
		if fail {
			b.flaky--
		}
		b.mu.Unlock()

		if fail {
			c.JSON(http.StatusServiceUnavailable, gin.H{"message": "thử lại sau"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
}

func (b *Backend) authorized(c *gin.Context) bool {
	if c.GetHeader("Authorization") == "Bearer "+b.Token {
		return true
	}
	cookie, err := c.Cookie(SessionCookie)
	if err != nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sessions[cookie]
}

func (b *Backend) login(c *gin.Context) {
	var creds struct {
		TenDangNhap string `json:"tenDangNhap"`
		MatKhau     string `json:"matKhau"`
	}
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Dữ liệu không hợp lệ"})
		return
	}
	if creds.TenDangNhap != AdminUser || creds.MatKhau != AdminPassword {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Sai tên đăng nhập hoặc mật khẩu"})
		return
	}

	session := uuid.NewString()
	b.mu.Lock()
	b.sessions[session] = true
	b.mu.Unlock()

	c.SetCookie(SessionCookie, session, 3600, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"token": b.Token, "tenDangNhap": creds.TenDangNhap})
}

func (b *Backend) me(c *gin.Context) {
	if !b.authorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Chưa đăng nhập"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tenDangNhap": AdminUser, "vaiTro": "QUAN_TRI"})
}

func (b *Backend) list(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	q := strings.ToLower(c.Query("q"))
	out := []map[string]any{}
	if col, ok := b.resources[c.Param("resource")]; ok {
		for _, id := range col.order {
			rec := col.records[id]
			if q == "" || matches(rec, q) {
				out = append(out, rec)
			}
		}
	}
	c.JSON(http.StatusOK, out)
}

func matches(rec map[string]any, q string) bool {
	for _, v := range rec {
		if s, ok := v.(string); ok && strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

func (b *Backend) lookup(c *gin.Context) (map[string]any, bool) {
	col, ok := b.resources[c.Param("resource")]
	if !ok {
		return nil, false
	}
	rec, ok := col.records[c.Param("id")]
	return rec, ok
}

func (b *Backend) get(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	rec, ok := b.lookup(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Không tìm thấy"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (b *Backend) create(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Dữ liệu không hợp lệ"})
		return
	}
	delete(body, "id")

	b.mu.Lock()
	id := b.insert(c.Param("resource"), body)
	rec := b.resources[c.Param("resource")].records[id]
	b.mu.Unlock()

	c.JSON(http.StatusCreated, rec)
}

func (b *Backend) replace(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Dữ liệu không hợp lệ"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.lookup(c); !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Không tìm thấy"})
		return
	}
	body["id"] = c.Param("id")
	id := b.insert(c.Param("resource"), body)
	c.JSON(http.StatusOK, b.resources[c.Param("resource")].records[id])
}

func (b *Backend) update(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Dữ liệu không hợp lệ"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	rec, ok := b.lookup(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Không tìm thấy"})
		return
	}
	for k, v := range body {
		if k != "id" {
			rec[k] = v
		}
	}
	c.JSON(http.StatusOK, rec)
}

func (b *Backend) remove(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	col, ok := b.resources[c.Param("resource")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Không tìm thấy"})
		return
	}
	id := c.Param("id")
	if _, ok := col.records[id]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Không tìm thấy"})
		return
	}
	delete(col.records, id)
	for i, v := range col.order {
		if v == id {
			col.order = append(col.order[:i], col.order[i+1:]...)
			break
		}
	}
	c.Status(http.StatusNoContent)
}
