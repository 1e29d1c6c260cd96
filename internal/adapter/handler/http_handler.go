package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/mixbar/kitstore/internal/core/domain"
	"github.com/mixbar/kitstore/internal/core/service"
	"github.com/mixbar/kitstore/internal/logger"
)

// HTTPHandler exposes the composition engine to the storefront UI. The UI
// supplies an already-authenticated username; no session state lives here.
type HTTPHandler struct {
	catalog *service.CatalogService
	cart    *service.CartService
	builder *service.KitBuilder
	orders  *service.OrderService
	log     *logger.Logger
}

func NewHTTPHandler(catalog *service.CatalogService, cart *service.CartService, builder *service.KitBuilder, orders *service.OrderService, log *logger.Logger) *HTTPHandler {
	return &HTTPHandler{catalog: catalog, cart: cart, builder: builder, orders: orders, log: log}
}

// Router assembles the full route tree.
func (h *HTTPHandler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.requestLogger)

	r.Get("/health", h.healthCheck)

	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.getProduct)

	r.Get("/kits", h.searchKits)
	r.Get("/kits/{id}", h.getKit)
	r.Post("/kits/custom", h.buildCustomKit)

	r.Route("/cart/{user}", func(r chi.Router) {
		r.Get("/", h.getCart)
		r.Delete("/", h.clearCart)
		r.Get("/total", h.cartTotal)
		r.Post("/items", h.addToCart)
		r.Delete("/items", h.removeFromCart)
	})

	r.Route("/orders/{user}", func(r chi.Router) {
		r.Get("/", h.orderHistory)
		r.Get("/search", h.searchOrders)
		r.Get("/partitioned", h.partitionedOrders)
		r.Post("/purchase", h.purchase)
	})

	return r
}

// requestLogger tags every request with a request id and logs its outcome.
func (h *HTTPHandler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-Id", requestID)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		h.log.Info("request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
		)
	})
}

func (h *HTTPHandler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *HTTPHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *HTTPHandler) getKit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	kit, err := h.catalog.GetKit(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, kit)
}

func (h *HTTPHandler) searchKits(w http.ResponseWriter, r *http.Request) {
	kits, err := h.catalog.SearchKits(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, kits)
}

type customKitRequest struct {
	User       string `json:"user"`
	Name       string `json:"name"`
	ProductIDs string `json:"product_ids"`
	Purchase   bool   `json:"purchase"`
}

// buildCustomKit builds and prices a kit from a comma-separated product id
// list. With purchase=true it also buys the kit immediately through the
// regular checkout path: add to cart, then purchase.
func (h *HTTPHandler) buildCustomKit(w http.ResponseWriter, r *http.Request) {
	var req customKitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}

	kit, err := h.builder.BuildFromRaw(r.Context(), req.Name, req.ProductIDs)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if !req.Purchase {
		writeJSON(w, http.StatusCreated, kit)
		return
	}

	if req.User == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "user is required to purchase"})
		return
	}
	if err := h.cart.Add(r.Context(), req.User, kit.ID, 1); err != nil {
		h.writeError(w, err)
		return
	}
	order, err := h.orders.Purchase(r.Context(), req.User)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *HTTPHandler) getCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cart.Get(r.Context(), chi.URLParam(r, "user"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

type cartItemRequest struct {
	KitID    int64 `json:"kit_id"`
	Quantity int   `json:"quantity"`
}

func (h *HTTPHandler) addToCart(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}
	if err := h.cart.Add(r.Context(), chi.URLParam(r, "user"), req.KitID, req.Quantity); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Success: true})
}

func (h *HTTPHandler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}
	if err := h.cart.Remove(r.Context(), chi.URLParam(r, "user"), req.KitID, req.Quantity); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Success: true})
}

func (h *HTTPHandler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Clear(r.Context(), chi.URLParam(r, "user")); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Success: true})
}

func (h *HTTPHandler) cartTotal(w http.ResponseWriter, r *http.Request) {
	total, err := h.cart.Total(r.Context(), chi.URLParam(r, "user"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"total": total.StringFixed(2)})
}

type purchaseResponse struct {
	Empty   bool          `json:"empty,omitempty"`
	Message string        `json:"message,omitempty"`
	Order   *domain.Order `json:"order,omitempty"`
}

func (h *HTTPHandler) purchase(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Purchase(r.Context(), chi.URLParam(r, "user"))
	if errors.Is(err, service.ErrEmptyCart) {
		writeJSON(w, http.StatusOK, purchaseResponse{Empty: true, Message: "nothing to purchase"})
		return
	}
	var inconsistent *service.InconsistentStateError
	if errors.As(err, &inconsistent) {
		// The order is durable; only the cart clear needs retrying.
		writeJSON(w, http.StatusInternalServerError, purchaseResponse{
			Order:   order,
			Message: "order saved but cart clear failed; retry clearing the cart",
		})
		return
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, purchaseResponse{Order: order})
}

func (h *HTTPHandler) orderHistory(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.History(r.Context(), chi.URLParam(r, "user"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *HTTPHandler) searchOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.Search(r.Context(), chi.URLParam(r, "user"), r.URL.Query().Get("term"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

type partitionedResponse struct {
	Catalog []domain.Order `json:"catalog_orders"`
	Custom  []domain.Order `json:"custom_orders"`
}

func (h *HTTPHandler) partitionedOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.History(r.Context(), chi.URLParam(r, "user"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	catalog, custom := h.orders.Partition(orders)
	writeJSON(w, http.StatusOK, partitionedResponse{Catalog: catalog, Custom: custom})
}

func (h *HTTPHandler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "id must be an integer"})
		return 0, false
	}
	return id, true
}

type statusResponse struct {
	Success bool `json:"success"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, err error) {
	var (
		validation *service.ValidationError
		notFound   *service.NotFoundError
		resolution *service.ResolutionError
	)
	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: validation.Error()})
	case errors.As(err, &resolution):
		// a stale reference to a vanished record is the caller's 404;
		// only genuine catalog failures are an upstream 502
		if errors.As(resolution.Err, &notFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Message: resolution.Error()})
			return
		}
		writeJSON(w, http.StatusBadGateway, errorResponse{Message: resolution.Error()})
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: notFound.Error()})
	default:
		h.log.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
