package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/response"
)

type OrderController struct {
	orders   *services.OrderService
	statuses *services.StatusService
	urls     URLs
}

func NewOrderController(orders *services.OrderService, statuses *services.StatusService, urls URLs) *OrderController {
	return &OrderController{orders: orders, statuses: statuses, urls: urls}
}

// Index lists orders filtered by status and date range. A bad status or
// date is a 400, not an empty list.
func (c *OrderController) Index(w http.ResponseWriter, r *http.Request) {
	filter, err := services.ParseOrderFilter(r.URL.Query())
	if err != nil {
		respondError(w, r, err)
		return
	}
	rows, err := c.orders.List(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, map[string]interface{}{
		"orders":   rows,
		"statuses": services.Statuses,
	})
}

func (c *OrderController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	detail, err := c.orders.Detail(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, detail)
}

// Store places an order from repeated product_id / quantity fields and
// redirects to it.
func (c *OrderController) Store(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		respondError(w, r, err)
		return
	}
	placed, err := c.orders.Place(r.Context(), services.PlaceOrderInputFromForm(r.PostForm))
	if err != nil {
		respondError(w, r, err)
		return
	}
	redirect(w, r, c.urls, "orders.show", map[string]string{"id": strconv.FormatUint(uint64(placed.Order.ID), 10)})
}

// UpdateStatus applies the submitted status and redirects back to the
// order.
func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		respondError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	if _, err := c.statuses.UpdateStatus(r.Context(), id, r.PostForm.Get("status")); err != nil {
		respondError(w, r, err)
		return
	}
	redirect(w, r, c.urls, "orders.show", map[string]string{"id": id})
}
