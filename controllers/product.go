package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/middleware"
	"storefront/models"
	"storefront/services"
	"storefront/utils"
)

const (
	productListCacheKey = "products:all"
	productListCacheTTL = 30 * time.Second
)

// ProductController handles catalog requests. The public listing is cached
// in Redis when a client is configured; mutations invalidate the cache.
type ProductController struct {
	Products *services.ProductService
	Redis    *redis.Client
}

func NewProductController(products *services.ProductService, rdb *redis.Client) *ProductController {
	return &ProductController{Products: products, Redis: rdb}
}

// GetProducts retrieves the catalog, newest first.
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	if pc.Redis != nil {
		var cached []models.Product
		hit, err := utils.GetCache(ctx, pc.Redis, productListCacheKey, &cached)
		if err != nil {
			logrus.WithError(err).Warn("product cache read failed")
		} else if hit {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	products, err := pc.Products.List(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	if pc.Redis != nil {
		if err := utils.SetCache(ctx, pc.Redis, productListCacheKey, products, productListCacheTTL); err != nil {
			logrus.WithError(err).Warn("product cache write failed")
		}
	}
	writeJSON(w, http.StatusOK, products)
}

// GetProductByID retrieves a single product.
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	product, err := pc.Products.Get(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// CreateProduct adds a product, managers only.
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	created, err := pc.Products.Add(ctx, session, product)
	if err != nil {
		writeError(w, err)
		return
	}
	pc.invalidateCache(r)
	writeJSON(w, http.StatusCreated, created)
}

// UpdateProduct applies a partial update, managers only.
func (pc *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	var updates services.ProductUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	product, err := pc.Products.Update(ctx, session, id, updates)
	if err != nil {
		writeError(w, err)
		return
	}
	pc.invalidateCache(r)
	writeJSON(w, http.StatusOK, product)
}

// DeleteProduct removes a product, managers only.
func (pc *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	if err := pc.Products.Delete(ctx, session, id); err != nil {
		writeError(w, err)
		return
	}
	pc.invalidateCache(r)
	writeJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

// GetLowStock lists products below the stock threshold, managers only.
func (pc *ProductController) GetLowStock(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	threshold := 0
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "Invalid threshold", http.StatusBadRequest)
			return
		}
		threshold = parsed
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	products, err := pc.Products.LowStock(ctx, session, threshold)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (pc *ProductController) invalidateCache(r *http.Request) {
	if pc.Redis == nil {
		return
	}
	if err := utils.DeleteCache(r.Context(), pc.Redis, productListCacheKey); err != nil {
		logrus.WithError(err).Warn("product cache invalidation failed")
	}
}
