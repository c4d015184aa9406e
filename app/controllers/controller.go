// Package controllers adapts HTTP requests to the services. Reads answer
// with the JSON envelope; form submissions answer 303 See Other to the
// page that shows the result.
package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/response"
)

// URLs resolves named routes; satisfied by *router.Router.
type URLs interface {
	URL(name string, params map[string]string) (string, error)
}

var badRequest = []error{
	services.ErrInvalidID,
	services.ErrCustomerRequired,
	services.ErrLineCountMismatch,
	services.ErrInvalidStatus,
	services.ErrInvalidOrderID,
	services.ErrInvalidDate,
	errBadForm,
}

var errBadForm = errors.New("malformed form body")

// respondError maps service errors onto status codes.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		response.ValidationError(w, verr.Fields)
		return
	}
	if errors.Is(err, services.ErrNotFound) {
		response.NotFound(w)
		return
	}
	for _, target := range badRequest {
		if errors.Is(err, target) {
			response.BadRequest(w, err.Error())
			return
		}
	}

	logger.WithCtx(r.Context()).Error("request failed", "error", err)
	response.Error(w, http.StatusInternalServerError, "Internal Server Error")
}

// parseForm caps the body at MAX_BODY_BYTES and parses it.
func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxBodyBytes())
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("%w: %v", errBadForm, err)
	}
	return nil
}

func pathID(r *http.Request) (uint, error) {
	return services.ParseID(chi.URLParam(r, "id"))
}

// redirect sends 303 to the named route.
func redirect(w http.ResponseWriter, r *http.Request, urls URLs, name string, params map[string]string) {
	target, err := urls.URL(name, params)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.SeeOther(w, r, target)
}
