package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/router"
)

func TestGroup_NamedRoutesAndURL(t *testing.T) {
	r := router.New()
	orders := r.Group("/orders")
	orders.Get("/{id}", "orders.show", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte("order " + chi.URLParam(req, "id")))
	})
	orders.Post("/{id}/status", "orders.status", func(w http.ResponseWriter, _ *http.Request) {})

	u, err := r.URL("orders.show", map[string]string{"id": "7"})
	require.NoError(t, err)
	assert.Equal(t, "/orders/7", u)

	_, err = r.URL("orders.status", nil)
	assert.ErrorContains(t, err, "missing parameters")

	_, err = r.URL("nope", nil)
	assert.ErrorContains(t, err, "not found")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/7", nil))
	assert.Equal(t, "order 7", rec.Body.String())
}

func TestGroup_MiddlewareOrder(t *testing.T) {
	var trail []string
	mark := func(tag string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				trail = append(trail, tag)
				next.ServeHTTP(w, req)
			})
		}
	}

	r := router.New()
	g := r.Group("/a", mark("group"))
	g.Get("/b", "", func(http.ResponseWriter, *http.Request) { trail = append(trail, "handler") }, mark("route"))

	r.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/a/b", nil))
	assert.Equal(t, []string{"group", "route", "handler"}, trail)
}

func TestRoutes_Sorted(t *testing.T) {
	r := router.New()
	noop := func(http.ResponseWriter, *http.Request) {}
	r.Post("/products", "products.store", noop)
	r.Get("/products", "products.index", noop)
	r.Handle("/metrics", "", http.NotFoundHandler())

	assert.Equal(t, []router.RouteInfo{
		{Method: "ANY", Path: "/metrics"},
		{Method: http.MethodGet, Path: "/products", Name: "products.index"},
		{Method: http.MethodPost, Path: "/products", Name: "products.store"},
	}, r.Routes())
}

func TestNotFoundHandler(t *testing.T) {
	r := router.New()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
