package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/notes-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	return r
}

func TestBrotli_CompressesLargeBodies(t *testing.T) {
	payload := strings.Repeat("notes ", 500)
	r := newEngine(BrotliWithConfig(BrotliConfig{MinLength: 64}))
	r.GET("/big", func(c *gin.Context) {
		// Several small writes must all end up in the compressed stream.
		for i := 0; i < 500; i++ {
			_, _ = c.Writer.WriteString("notes ")
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/big", nil)
	req.Header.Set("Accept-Encoding", "gzip, br;q=0.9")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, "br", w.Header().Get("Content-Encoding"))
	assert.Equal(t, "Accept-Encoding", w.Header().Get("Vary"))

	decoded, err := io.ReadAll(brotli.NewReader(w.Body))
	require.NoError(t, err)
	assert.Equal(t, payload, string(decoded))
}

func TestBrotli_LeavesSmallBodiesAlone(t *testing.T) {
	r := newEngine(Brotli())
	r.GET("/small", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	req := httptest.NewRequest(http.MethodGet, "/small", nil)
	req.Header.Set("Accept-Encoding", "br")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, "ok", w.Body.String())
}

func TestBrotli_Skipper(t *testing.T) {
	r := newEngine(BrotliWithConfig(BrotliConfig{MinLength: 1, Skipper: SkipPrefix("/files")}))
	r.GET("/files/a.txt", func(c *gin.Context) { c.String(http.StatusOK, "raw bytes") })

	req := httptest.NewRequest(http.MethodGet, "/files/a.txt", nil)
	req.Header.Set("Accept-Encoding", "br")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, "raw bytes", w.Body.String())
}

func decodeUnhandled(t *testing.T, w *httptest.ResponseRecorder) unhandledBody {
	t.Helper()
	var body unhandledBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestErrors_WritesGenericBodyWithCORS(t *testing.T) {
	cfg := &config.Config{AllowedOrigins: []string{"https://notes.example"}, AllowCredentials: true}
	// Brotli sits inside Errors in the real chain; the late body must still reach the client.
	r := newEngine(Errors(cfg, zerolog.Nop()), Brotli())
	r.GET("/boom", func(c *gin.Context) { _ = c.Error(errors.New("database is on fire")) })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("Origin", "https://notes.example")
	req.Header.Set("Accept-Encoding", "br")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "https://notes.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	body := decodeUnhandled(t, w)
	assert.False(t, body.Status)
	assert.Nil(t, body.Data)
	assert.Equal(t, "Unhandled Exception :: database is on fire", body.Message)
}

func TestErrors_EchoesOriginWithCredentials(t *testing.T) {
	cfg := &config.Config{AllowCredentials: true}
	r := newEngine(Errors(cfg, zerolog.Nop()))
	r.GET("/boom", func(c *gin.Context) { _ = c.Error(errors.New("timeout")) })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("Origin", "https://app.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, w.Header().Values("Vary"), "Origin")
}

func TestErrors_IgnoresWrittenResponses(t *testing.T) {
	r := newEngine(Errors(&config.Config{}, zerolog.Nop()))
	r.GET("/", func(c *gin.Context) {
		_ = c.Error(errors.New("logged only"))
		c.String(http.StatusTeapot, "handled")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "handled", w.Body.String())
}

func TestRecovery(t *testing.T) {
	gin.DefaultErrorWriter = io.Discard
	r := newEngine(Recovery(&config.Config{AllowCredentials: false}, zerolog.Nop()))
	r.GET("/panic", func(c *gin.Context) { panic("nil map") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "false", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "Unhandled Exception :: nil map", decodeUnhandled(t, w).Message)
}

func TestCacheControl(t *testing.T) {
	for maxAge, want := range map[time.Duration]string{
		time.Minute: "public, max-age=60",
		0:           "no-cache",
	} {
		r := newEngine(CacheControl(maxAge))
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, want, w.Header().Get("Cache-Control"))
	}
}

func TestAccessLog(t *testing.T) {
	var buf strings.Builder
	r := newEngine(AccessLog(zerolog.New(&buf)))
	r.GET("/notes/course/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/notes/course/9", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(buf.String()), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, float64(404), entry["status"])
	assert.Equal(t, "/notes/course/9", entry["path"])
}
