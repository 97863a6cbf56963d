package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	kafkax "github.com/fabrile/go-order-lifecycle/internal/kafka"
	"github.com/fabrile/go-order-lifecycle/internal/metrics"
	"github.com/fabrile/go-order-lifecycle/internal/orders"
	"github.com/fabrile/go-order-lifecycle/internal/redisx"
)

// Lifecycle is the order core as seen by the transport layer.
type Lifecycle interface {
	GetOrder(ctx context.Context, orderID string) (*orders.Order, error)
	GetHistory(ctx context.Context, orderID string) ([]orders.DeliveryEvent, error)
	RequestTransition(ctx context.Context, req orders.TransitionRequest) (*orders.TransitionOutcome, error)
}

// OrderCreator is the write path used by the external order-creation flow.
type OrderCreator interface {
	Create(ctx context.Context, in orders.CreateOrderInput) (*orders.Order, bool, error)
}

type OrdersHandler struct {
	Svc               Lifecycle
	Creator           OrderCreator
	Redis             *redis.Client
	ProducerStatus    *kafkax.Producer
	ProducerDelivered *kafkax.Producer
	Service           string
	Log               *logrus.Logger
}

type TransitionReq struct {
	Target    string `json:"target"`
	ActorRole string `json:"actor_role"`
	ActorID   string `json:"actor_id"`
	Location  string `json:"location,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

type TransitionResp struct {
	OrderID        string `json:"order_id"`
	Status         string `json:"status"`
	StatusDisplay  string `json:"status_display"`
	Version        int64  `json:"version"`
	AlreadyApplied bool   `json:"already_applied,omitempty"`
	InvoiceCreated bool   `json:"invoice_created"`
	InvoiceError   string `json:"invoice_error,omitempty"`
}

type OrderResp struct {
	orders.Order
	StatusDisplay string `json:"status_display"`
}

type TargetResp struct {
	Code    string `json:"code"`
	Display string `json:"display"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders", h.createOrder)
	r.Get("/orders/{id}", h.getOrder)
	r.Post("/orders/{id}/transition", h.requestTransition)
	r.Get("/orders/{id}/history", h.getHistory)
	r.Get("/orders/{id}/actions", h.getActions)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, orders.ErrOrderNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
	case errors.Is(err, orders.ErrUnauthorized):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	case errors.Is(err, orders.ErrIllegalTransition):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	case errors.Is(err, orders.ErrConcurrentModification):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "order modified concurrently, please refresh"})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, orders.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, orders.ErrIllegalTransition):
		return "illegal_transition"
	case errors.Is(err, orders.ErrOrderNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var in orders.CreateOrderInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if in.ClientID == "" || len(in.Items) == 0 || in.ShippingAddress == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing fields"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, existed, err := h.Creator.Create(ctx, in)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	h.cacheOrder(ctx, o)

	code := http.StatusCreated
	if existed {
		code = http.StatusOK
	}
	writeJSON(w, code, OrderResp{Order: *o, StatusDisplay: o.Status.DisplayName()})
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// fast path via cache
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(s))
		return
	}

	o, err := h.Svc.GetOrder(ctx, orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	h.cacheOrder(ctx, o)
	writeJSON(w, http.StatusOK, OrderResp{Order: *o, StatusDisplay: o.Status.DisplayName()})
}

func (h *OrdersHandler) requestTransition(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	var req TransitionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Target == "" || req.ActorRole == "" || req.ActorID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing fields"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	out, err := h.Svc.RequestTransition(ctx, orders.TransitionRequest{
		OrderID:   orderID,
		Target:    orders.Status(req.Target),
		ActorRole: orders.Role(req.ActorRole),
		ActorID:   req.ActorID,
		Location:  req.Location,
		Notes:     req.Notes,
	})
	if err != nil {
		if errors.Is(err, orders.ErrConcurrentModification) {
			metrics.TransitionConflictsTotal.Inc()
		} else {
			metrics.TransitionsRejectedTotal.WithLabelValues(rejectionReason(err)).Inc()
		}
		writeError(w, err)
		return
	}

	if !out.AlreadyApplied {
		metrics.TransitionsTotal.WithLabelValues(string(out.Status)).Inc()
		h.publishTransition(r, out, req)
		h.refreshCache(ctx, orderID)
	}

	resp := TransitionResp{
		OrderID:        out.OrderID,
		Status:         string(out.Status),
		StatusDisplay:  out.Status.DisplayName(),
		Version:        out.Version,
		AlreadyApplied: out.AlreadyApplied,
		InvoiceCreated: out.InvoiceCreated,
	}
	if out.InvoiceErr != nil {
		resp.InvoiceError = out.InvoiceErr.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *OrdersHandler) getHistory(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	evs, err := h.Svc.GetHistory(ctx, orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	if evs == nil {
		evs = []orders.DeliveryEvent{}
	}
	writeJSON(w, http.StatusOK, evs)
}

// getActions answers "what can this role do with this order right now".
// Every dashboard derives its buttons from this instead of re-implementing
// the matrix.
func (h *OrdersHandler) getActions(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	role := orders.Role(r.URL.Query().Get("role"))
	if role == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing role"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Svc.GetOrder(ctx, orderID)
	if err != nil {
		writeError(w, err)
		return
	}

	targets := []TargetResp{}
	for _, t := range orders.AllowedTargets(role, o.Status) {
		targets = append(targets, TargetResp{Code: string(t), Display: t.DisplayName()})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  o.Status,
		"targets": targets,
	})
}

func (h *OrdersHandler) publishTransition(r *http.Request, out *orders.TransitionOutcome, req TransitionReq) {
	trace := r.Header.Get("X-Request-Id")

	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventStatusChanged,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       trace,
		CorrelationID: out.OrderID,
		Payload: kafkax.MustMarshal(orders.StatusChangedPayload{
			OrderID:   out.OrderID,
			From:      out.From,
			To:        out.Status,
			Version:   out.Version,
			Sequence:  out.Sequence,
			ActorRole: orders.Role(req.ActorRole),
			ActorID:   req.ActorID,
		}),
	}
	h.ProducerStatus.Publish(orders.PartitionKey(out.OrderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventStatusChanged)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)

	if out.Status != orders.StatusDelivered {
		return
	}

	// delivered orders also go to the billing retry topic
	o, err := h.Svc.GetOrder(r.Context(), out.OrderID)
	if err != nil {
		h.Log.WithError(err).WithField("order_id", out.OrderID).Warn("load order for delivered event")
		return
	}
	dev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderDelivered,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       trace,
		CorrelationID: out.OrderID,
		Payload: kafkax.MustMarshal(orders.OrderDeliveredPayload{
			OrderID:     o.ID,
			OrderNumber: o.OrderNumber,
			ClientID:    o.ClientID,
			TotalCents:  o.TotalCents,
			DeliveredAt: time.Now().UTC(),
		}),
	}
	h.ProducerDelivered.Publish(orders.PartitionKey(out.OrderID), kafkax.MustMarshal(dev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderDelivered)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (h *OrdersHandler) cacheOrder(ctx context.Context, o *orders.Order) {
	b, err := json.Marshal(OrderResp{Order: *o, StatusDisplay: o.Status.DisplayName()})
	if err != nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyOrderStatus, o.ID)
	_ = h.Redis.Set(ctx, key, b, redisx.TTLStatusCache).Err()
}

func (h *OrdersHandler) refreshCache(ctx context.Context, orderID string) {
	o, err := h.Svc.GetOrder(ctx, orderID)
	if err != nil {
		key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
		_ = h.Redis.Del(ctx, key).Err()
		return
	}
	h.cacheOrder(ctx, o)
}
