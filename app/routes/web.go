// Package routes maps URLs to controllers.
package routes

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/controllers"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/pkg/router"
)

// Register mounts the storefront admin routes on r, wiring controllers to
// services built on db.
func Register(r *router.Router, db *gorm.DB) {
	categorySvc := services.NewCategoryService(db)

	productCtl := controllers.NewProductController(services.NewProductService(db), categorySvc, r)
	customerCtl := controllers.NewCustomerController(services.NewCustomerService(db), r)
	orderCtl := controllers.NewOrderController(services.NewOrderService(db), services.NewStatusService(db), r)

	products := r.Group("/products")
	products.Get("/", "products.index", productCtl.Index)
	products.Post("/", "products.store", productCtl.Store)
	products.Get("/{id}", "products.show", productCtl.Show)
	products.Post("/{id}", "products.update", productCtl.Update)
	products.Post("/{id}/delete", "products.destroy", productCtl.Destroy)

	r.Get("/categories", "categories.index", productCtl.Categories)

	customers := r.Group("/customers")
	customers.Get("/", "customers.index", customerCtl.Index)
	customers.Post("/", "customers.store", customerCtl.Store)
	customers.Get("/{id}", "customers.show", customerCtl.Show)
	customers.Post("/{id}", "customers.update", customerCtl.Update)
	customers.Post("/{id}/delete", "customers.destroy", customerCtl.Destroy)

	orders := r.Group("/orders")
	orders.Get("/", "orders.index", orderCtl.Index)
	orders.Post("/", "orders.store", orderCtl.Store)
	orders.Get("/{id}", "orders.show", orderCtl.Show)
	orders.Post("/{id}/status", "orders.status", orderCtl.UpdateStatus)
}
