package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/response"
)

type ProductController struct {
	products   *services.ProductService
	categories *services.CategoryService
	urls       URLs
}

func NewProductController(products *services.ProductService, categories *services.CategoryService, urls URLs) *ProductController {
	return &ProductController{products: products, categories: categories, urls: urls}
}

// Index lists products matching q, cat and sort, plus the categories for
// the filter dropdown.
func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	filter := services.ParseProductFilter(r.URL.Query())

	products, err := c.products.List(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	cats, err := c.categories.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"products":   products,
		"categories": cats,
		"filter":     filter,
	})
}

func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	p, err := c.products.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, p)
}

func (c *ProductController) Store(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		respondError(w, r, err)
		return
	}
	if _, err := c.products.Create(r.Context(), services.ProductInputFromForm(r.PostForm)); err != nil {
		respondError(w, r, err)
		return
	}
	redirect(w, r, c.urls, "products.index", nil)
}

func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := parseForm(w, r); err != nil {
		respondError(w, r, err)
		return
	}
	if _, err := c.products.Update(r.Context(), id, services.ProductInputFromForm(r.PostForm)); err != nil {
		respondError(w, r, err)
		return
	}
	redirect(w, r, c.urls, "products.index", nil)
}

func (c *ProductController) Destroy(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := c.products.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	redirect(w, r, c.urls, "products.index", nil)
}

// Categories lists every category.
func (c *ProductController) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := c.categories.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, cats)
}
