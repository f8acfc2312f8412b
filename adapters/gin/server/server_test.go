package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Felo0o0/PrimeSecure/adapters/gin/server"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRoutesUnderBaseURL(t *testing.T) {
	s := server.NewServer(
		server.WithBaseURL("/v1"),
		server.WithGroup(server.NewGroup("/things",
			server.GET("", func(c *gin.Context) { c.String(http.StatusOK, "list") }),
			server.POST("/:id", func(c *gin.Context) { c.String(http.StatusOK, c.Param("id")) }),
			server.Route{Method: "TRACE", Path: "/ignored", Handlers: []gin.HandlerFunc{func(c *gin.Context) {}}},
		).Use(func(c *gin.Context) { c.Header("X-Group", "things") })),
		server.WithEngineHook(func(e *gin.Engine) {
			e.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
		}),
	)

	cases := []struct {
		method, path string
		code         int
		body         string
	}{
		{http.MethodGet, "/v1/things", http.StatusOK, "list"},
		{http.MethodPost, "/v1/things/7", http.StatusOK, "7"},
		{"TRACE", "/v1/things/ignored", http.StatusNotFound, ""},
		{http.MethodGet, "/health", http.StatusOK, "ok"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		s.Engine().ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, tc.code, rec.Code, tc.path)
		if tc.code == http.StatusOK && tc.path != "/health" {
			assert.Equal(t, "things", rec.Header().Get("X-Group"))
		}
		if tc.body != "" {
			assert.Equal(t, tc.body, rec.Body.String())
		}
	}
}

func TestRunStopsWithContext(t *testing.T) {
	s := server.NewServer(server.WithPort("0"), server.WithShutdownTimeout(time.Second))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestGroupUseDoesNotAlias(t *testing.T) {
	mw := func(c *gin.Context) {}
	base := server.NewGroup("/a").Use(mw)
	left := base.Use(mw)
	right := base.Use(mw, mw)

	assert.Len(t, base.Middlewares, 1)
	assert.Len(t, left.Middlewares, 2)
	assert.Len(t, right.Middlewares, 3)
}
