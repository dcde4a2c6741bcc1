package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"bazaar/internal/pkg/logger"
	"bazaar/internal/service/order/application"
	"bazaar/internal/service/order/domain"
	"bazaar/internal/service/order/domain/apperr"
)

// StoragePinger checks that a tenant's storage is reachable. Implemented by
// the tenant connection registry.
type StoragePinger interface {
	Ping(ctx context.Context, tenant string) error
}

// OrderHandler exposes the order service's HTTP surface. Routes are
// tenant-prefixed; the tenant segment selects the storage partition.
type OrderHandler struct {
	service        *application.OrderApplicationService
	pinger         StoragePinger
	requestTimeout time.Duration
}

func NewOrderHandler(service *application.OrderApplicationService, pinger StoragePinger, requestTimeout time.Duration) *OrderHandler {
	return &OrderHandler{service: service, pinger: pinger, requestTimeout: requestTimeout}
}

// Router builds the service router.
func (h *OrderHandler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.middleware)

	r.HandleFunc("/health", h.health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.HandleFunc("/{tenant}/health", h.tenantHealth).Methods(http.MethodGet)
	r.HandleFunc("/{tenant}/checkout/{buyerId}", h.checkout).Methods(http.MethodPost)
	r.HandleFunc("/{tenant}/order", h.orderCreate).Methods(http.MethodPost)
	r.HandleFunc("/{tenant}/order/{orderId}", h.orderReadOne).Methods(http.MethodGet)
	r.HandleFunc("/{tenant}/order/{orderId}", h.orderUpdateOne).Methods(http.MethodPut)
	r.HandleFunc("/{tenant}/vendor_orders/{sellerId}", h.vendorOrders).Methods(http.MethodGet)
	r.HandleFunc("/{tenant}/buyer_orders/{buyerId}", h.buyerOrders).Methods(http.MethodGet)

	return r
}

// middleware extracts the incoming trace context, bounds request latency
// and logs every request.
func (h *OrderHandler) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		if h.requestTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, h.requestTimeout)
			defer cancel()
		}
		logger.Ctx(ctx).Info().Str("method", r.Method).Str("url", r.URL.String()).Msg("request")
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *OrderHandler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "OK"})
}

func (h *OrderHandler) tenantHealth(w http.ResponseWriter, r *http.Request) {
	tenant := mux.Vars(r)["tenant"]
	if tenant == "" {
		writeMessage(w, http.StatusBadRequest, "tenant required")
		return
	}
	if err := h.pinger.Ping(r.Context(), tenant); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "OK"})
}

type checkoutRequest struct {
	Address string `json:"address"`
}

func (h *OrderHandler) checkout(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.Checkout(r.Context(), vars["tenant"], vars["buyerId"], req.Address)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

type orderCreateRequest struct {
	Type        domain.Type   `json:"type"`
	BuyerID     string        `json:"buyerId"`
	SellerID    string        `json:"sellerId"`
	ProductID   string        `json:"productId"`
	Description string        `json:"description"`
	Price       *float64      `json:"price"`
	Quantity    int           `json:"quantity"`
	Date        *time.Time    `json:"date"`
	Address     string        `json:"address"`
	Status      domain.Status `json:"status"`
}

type orderResponse struct {
	Order   *domain.Order `json:"order"`
	Message string        `json:"message"`
}

func (h *OrderHandler) orderCreate(w http.ResponseWriter, r *http.Request) {
	tenant := mux.Vars(r)["tenant"]

	var req orderCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Boundary checks mirror the repository's invariants but are stricter
	// about identifier shape for directly submitted orders.
	switch {
	case len(req.BuyerID) != 24:
		writeMessage(w, http.StatusBadRequest, "buyerId required and must have 24 digits")
		return
	case len(req.SellerID) != 24:
		writeMessage(w, http.StatusBadRequest, "sellerId required and must have 24 digits")
		return
	case req.Quantity == 0:
		writeMessage(w, http.StatusBadRequest, "quantity required")
		return
	case req.Address == "":
		writeMessage(w, http.StatusBadRequest, "address required")
		return
	case req.Status == "":
		writeMessage(w, http.StatusBadRequest, "status required")
		return
	case req.Type == "":
		writeMessage(w, http.StatusBadRequest, "type required")
		return
	}

	draft := &domain.Order{
		Type:        req.Type,
		BuyerID:     req.BuyerID,
		SellerID:    req.SellerID,
		ProductID:   req.ProductID,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Address:     req.Address,
		Status:      req.Status,
	}
	if req.Date != nil {
		draft.Date = *req.Date
	}

	order, err := h.service.CreateOrder(r.Context(), tenant, draft)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, orderResponse{Order: order, Message: "order created"})
}

func (h *OrderHandler) orderReadOne(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	order, err := h.service.GetOrder(r.Context(), vars["tenant"], vars["orderId"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) orderUpdateOne(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var patch domain.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.service.UpdateOrder(r.Context(), vars["tenant"], vars["orderId"], patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orderResponse{Order: order, Message: "order updated"})
}

func (h *OrderHandler) vendorOrders(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orders, err := h.service.SellerOrders(r.Context(), vars["tenant"], vars["sellerId"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) buyerOrders(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orders, err := h.service.BuyerOrders(r.Context(), vars["tenant"], vars["buyerId"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// writeError maps the error taxonomy onto HTTP statuses. Validation is the
// client's fault, not-found is not-found, everything else (upstream,
// connection, storage) is an internal error with the message preserved.
func (h *OrderHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case apperr.IsValidation(err):
		status = http.StatusBadRequest
	case apperr.IsNotFound(err):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		logger.Ctx(r.Context()).Error().Err(err).Str("url", r.URL.String()).Msg("request failed")
	}
	writeMessage(w, status, err.Error())
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
