package router_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MartinEBravo/duech-go/internal/pkg/router"
	"github.com/stretchr/testify/assert"
)

func TestHandle(t *testing.T) {
	tbl := []struct {
		method       string
		path         string
		responseBody string
		status       int
	}{
		{"GET", "/hello", "ok", http.StatusOK},
		{"GET", "/notfound", "", http.StatusNotFound},
		{"DELETE", "/hello", "forbidden", http.StatusForbidden},
		{"GET", "/", "root hit", http.StatusOK},
		{"GET", "/long/path", "", http.StatusOK},
		{"POST", "/long/path/", "long", http.StatusOK},
	}

	for i, c := range tbl {
		t.Run(fmt.Sprintf("case_%d", i), func(t *testing.T) {
			r := router.New()

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(c.method, c.path, nil)

			r.Handle(c.path, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(c.status)
				fmt.Fprint(w, c.responseBody)
			}))
			r.ServeHTTP(rec, req)

			assert.Equal(t, c.status, rec.Code)
			assert.Equal(t, c.responseBody, rec.Body.String())
		})
	}
}

func TestHandle_MethodPattern(t *testing.T) {
	r := router.New()
	r.HandleFunc("GET /things/{id}", func(w http.ResponseWriter, req *http.Request) {
		fmt.Fprint(w, req.PathValue("id"))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/things/42", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "42", rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/things/42", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestSubRouter(t *testing.T) {
	r := router.New()
	api := r.SubRouter("/api/v1")
	api.HandleFunc("/ping", func(w http.ResponseWriter, req *http.Request) {
		fmt.Fprint(w, "pong")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestSubRouter_MiddlewareScoped(t *testing.T) {
	var hits []string
	tag := func(name string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits = append(hits, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := router.New()
	r.Use(tag("root"))
	api := r.SubRouter("/api")
	api.Use(tag("api"))
	api.HandleFunc("/x", func(w http.ResponseWriter, req *http.Request) {})
	r.HandleFunc("/y", func(w http.ResponseWriter, req *http.Request) {})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/x", nil))
	assert.Equal(t, []string{"root", "root", "api"}, hits)

	hits = nil
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/y", nil))
	assert.Equal(t, []string{"root"}, hits)
}
