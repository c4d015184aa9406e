package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/response"
)

type CustomerController struct {
	customers *services.CustomerService
	urls      URLs
}

func NewCustomerController(customers *services.CustomerService, urls URLs) *CustomerController {
	return &CustomerController{customers: customers, urls: urls}
}

func (c *CustomerController) Index(w http.ResponseWriter, r *http.Request) {
	list, err := c.customers.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, list)
}

func (c *CustomerController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	customer, err := c.customers.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, customer)
}

func (c *CustomerController) Store(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		respondError(w, r, err)
		return
	}
	if _, err := c.customers.Create(r.Context(), services.CustomerInputFromForm(r.PostForm)); err != nil {
		respondError(w, r, err)
		return
	}
	redirect(w, r, c.urls, "customers.index", nil)
}

func (c *CustomerController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := parseForm(w, r); err != nil {
		respondError(w, r, err)
		return
	}
	if _, err := c.customers.Update(r.Context(), id, services.CustomerInputFromForm(r.PostForm)); err != nil {
		respondError(w, r, err)
		return
	}
	redirect(w, r, c.urls, "customers.index", nil)
}

func (c *CustomerController) Destroy(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := c.customers.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	redirect(w, r, c.urls, "customers.index", nil)
}
