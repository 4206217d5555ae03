package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go-storefront/middleware"
	"go-storefront/services"
	"go-storefront/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductController handles catalog requests
type ProductController struct {
	Catalog *services.CatalogService
}

// NewProductController creates a new ProductController
func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{Catalog: catalog}
}

func productID(r *http.Request) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(mux.Vars(r)["id"])
}

// Create handles listing a new product (admin only)
func (pc *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := utils.Validate.Struct(input); err != nil {
		writeMessage(w, http.StatusBadRequest, utils.ValidationMessage(err))
		return
	}

	if _, err := pc.Catalog.Create(r.Context(), middleware.ClaimsFrom(r), input); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Product added successfully")
}

// ListActive returns the public view of active products
func (pc *ProductController) ListActive(w http.ResponseWriter, r *http.Request) {
	views, err := pc.Catalog.ListActive(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"activeProducts": views})
}

// ListAll returns the full catalog (admin only)
func (pc *ProductController) ListAll(w http.ResponseWriter, r *http.Request) {
	products, err := pc.Catalog.ListAll(r.Context(), middleware.ClaimsFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"products": products})
}

// View returns the public view of one product
func (pc *ProductController) View(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	view, err := pc.Catalog.View(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"product": view})
}

// Update applies partial changes to a product (admin only)
func (pc *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var input services.UpdateProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}

	name, err := pc.Catalog.Update(r.Context(), middleware.ClaimsFrom(r), id, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, fmt.Sprintf("%s updated", name))
}

// Archive deactivates a product (admin only)
func (pc *ProductController) Archive(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	name, err := pc.Catalog.Archive(r.Context(), middleware.ClaimsFrom(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, fmt.Sprintf("%s archived successfully", name))
}

// Unarchive reactivates a product (admin only)
func (pc *ProductController) Unarchive(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	name, err := pc.Catalog.Unarchive(r.Context(), middleware.ClaimsFrom(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, fmt.Sprintf("%s activated successfully", name))
}

// Delete removes a product (admin only)
func (pc *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if err := pc.Catalog.Delete(r.Context(), middleware.ClaimsFrom(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Product deleted successfully")
}
