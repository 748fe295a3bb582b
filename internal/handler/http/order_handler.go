package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"cartflow/internal/catalog"
	"cartflow/internal/order"
)

type CartAddRequest struct {
	SKU       string   `json:"sku" validate:"required"`
	Name      string   `json:"name" validate:"required"`
	UnitPrice *float64 `json:"unitPrice" validate:"required"`
	Qty       *int     `json:"qty" validate:"required"`
}

type CartRemoveRequest struct {
	SKU string `json:"sku" validate:"required"`
}

type DeliverRequest struct {
	DeliveredAtUtc *int64 `json:"deliveredAtUtc"`
}

type DeliverResponse struct {
	OK           bool         `json:"ok"`
	ArchivedFile string       `json:"archivedFile"`
	NewOrder     *order.Order `json:"newOrder"`
}

type ResetResponse struct {
	OK       bool         `json:"ok"`
	NewOrder *order.Order `json:"newOrder"`
}

func (h *Handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r.Context())
	h.logEvent(r, s, "catalog_read", nil)
	respondWithJSON(w, http.StatusOK, map[string]any{"products": catalog.Products()})
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r.Context())
	h.logEvent(r, s, "order_read", nil)
	respondWithJSON(w, http.StatusOK, s.Order)
}

func (h *Handler) handleCartAdd(w http.ResponseWriter, r *http.Request) {
	var req CartAddRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing fields: sku, name, unitPrice, qty")
		return
	}

	s := sessionFrom(r.Context())
	if err := s.Order.AddItem(req.SKU, req.Name, *req.UnitPrice, *req.Qty); err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "Invalid qty or unitPrice")
		return
	}

	h.logEvent(r, s, "cart_add", map[string]any{
		"sku":       req.SKU,
		"name":      req.Name,
		"qty":       *req.Qty,
		"unitPrice": *req.UnitPrice,
	})
	respondWithJSON(w, http.StatusOK, s.Order)
}

func (h *Handler) handleCartRemove(w http.ResponseWriter, r *http.Request) {
	var req CartRemoveRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing sku")
		return
	}

	s := sessionFrom(r.Context())
	s.Order.RemoveBySKU(req.SKU)
	h.logEvent(r, s, "cart_remove", map[string]any{"sku": req.SKU})
	respondWithJSON(w, http.StatusOK, s.Order)
}

func (h *Handler) handlePay(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r.Context())
	s.Order.CapturePayment(h.now())
	h.logEvent(r, s, "order_pay", nil)
	respondWithJSON(w, http.StatusOK, s.Order)
}

func (h *Handler) handleShip(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r.Context())
	s.Order.MarkShipped(h.now())
	h.logEvent(r, s, "order_ship", map[string]any{"shippedAtUtc": s.Order.TS.ShippedAtUtc})
	respondWithJSON(w, http.StatusOK, s.Order)
}

func (h *Handler) handleDeliver(w http.ResponseWriter, r *http.Request) {
	var req DeliverRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	ms := h.now().UnixMilli()
	if req.DeliveredAtUtc != nil {
		ms = *req.DeliveredAtUtc
	}

	s := sessionFrom(r.Context())
	if err := s.Order.MarkDelivered(ms); err != nil {
		respondWithError(w, mapErrorToStatusCode(err), "Bad deliveredAtUtc")
		return
	}

	archivedFile, err := h.archive.Store(s.Order)
	if err != nil {
		log.Error().Err(err).Str("order_id", s.Order.ID).Msg("Failed to archive delivered order")
	}
	h.logEvent(r, s, "order_deliver", map[string]any{
		"deliveredAtUtc": ms,
		"archivedFile":   archivedFile,
		"ok":             err == nil,
	})

	// the session moves on to a fresh order whether or not the archive
	// write succeeded
	s.Order = order.New(h.now())
	respondWithJSON(w, http.StatusOK, DeliverResponse{
		OK:           err == nil,
		ArchivedFile: archivedFile,
		NewOrder:     s.Order,
	})
}

// handleReset discards the current order without archiving it.
func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r.Context())
	h.logEvent(r, s, "order_reset", map[string]any{"discarded": s.Order.ID})
	s.Order = order.New(h.now())
	respondWithJSON(w, http.StatusOK, ResetResponse{OK: true, NewOrder: s.Order})
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r.Context())
	file, err := h.archive.Export(s.Order)
	if err != nil {
		log.Error().Err(err).Str("order_id", s.Order.ID).Msg("Failed to export order")
	}
	h.logEvent(r, s, "order_export", map[string]any{"file": file, "ok": err == nil})
	respondWithJSON(w, http.StatusOK, map[string]any{"ok": err == nil, "file": file})
}
