// Package admin serves the operator endpoints: warehouse and rule management
// and the per-driver audit trail.
package admin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	warehouse "geoclock/internal/warehouse/models"
	id "geoclock/pkg/domain"
	dErrors "geoclock/pkg/domain-errors"
	audit "geoclock/pkg/platform/audit"
	"geoclock/pkg/platform/httputil"
	adminmw "geoclock/pkg/platform/middleware/admin"
	request "geoclock/pkg/platform/middleware/request"
	"geoclock/pkg/platform/sentinel"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks WarehouseStore,AuditReader

// WarehouseStore is the read-write warehouse source.
type WarehouseStore interface {
	ListCandidateWarehouses(ctx context.Context) ([]warehouse.Warehouse, error)
	GetWarehouse(ctx context.Context, warehouseID id.WarehouseID) (*warehouse.Warehouse, error)
	GetAttendanceRule(ctx context.Context, warehouseID id.WarehouseID) (*warehouse.AttendanceRule, error)
	UpsertWarehouse(ctx context.Context, w warehouse.Warehouse) error
	UpsertAttendanceRule(ctx context.Context, r warehouse.AttendanceRule) error
}

type AuditReader interface {
	List(ctx context.Context, driverID id.DriverID) ([]audit.Event, error)
}

type Handler struct {
	warehouses WarehouseStore
	audits     AuditReader
	logger     *slog.Logger
	adminToken string
}

func New(warehouses WarehouseStore, audits AuditReader, logger *slog.Logger, adminToken string) *Handler {
	return &Handler{
		warehouses: warehouses,
		audits:     audits,
		logger:     logger,
		adminToken: adminToken,
	}
}

// Register mounts /admin behind the admin token.
func (h *Handler) Register(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(adminmw.RequireAdminToken(h.adminToken, h.logger))
		r.Get("/warehouses", h.HandleListWarehouses)
		r.Put("/warehouses/{id}", h.HandleUpsertWarehouse)
		r.Put("/warehouses/{id}/rule", h.HandleUpsertRule)
		r.Get("/audit/{driver_id}", h.HandleListAudit)
	})
}

func (h *Handler) HandleListWarehouses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := h.warehouses.ListCandidateWarehouses(ctx)
	if err != nil {
		h.writeStoreError(w, ctx, "failed to list warehouses", err)
		return
	}

	resp := WarehousesListResponse{
		Warehouses: make([]WarehouseResponse, 0, len(list)),
		Total:      len(list),
	}
	for _, wh := range list {
		rule, err := h.warehouses.GetAttendanceRule(ctx, wh.ID)
		if err != nil {
			h.writeStoreError(w, ctx, "failed to load attendance rule", err)
			return
		}
		resp.Warehouses = append(resp.Warehouses, toWarehouseResponse(wh, rule))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleUpsertWarehouse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	warehouseID, err := id.ParseWarehouseID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpsertWarehouseRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	wh := req.toModel(warehouseID)
	if err := h.warehouses.UpsertWarehouse(ctx, wh); err != nil {
		h.writeStoreError(w, ctx, "failed to upsert warehouse", err)
		return
	}
	h.logger.InfoContext(ctx, "warehouse upserted",
		"warehouse_id", warehouseID.String(),
		"geofence_radius_meters", wh.GeofenceRadiusMeters,
		"request_id", requestID,
	)

	rule, err := h.warehouses.GetAttendanceRule(ctx, warehouseID)
	if err != nil {
		h.writeStoreError(w, ctx, "failed to load attendance rule", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toWarehouseResponse(wh, rule))
}

func (h *Handler) HandleUpsertRule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	warehouseID, err := id.ParseWarehouseID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpsertRuleRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	rule := req.toModel(warehouseID)
	if err := h.warehouses.UpsertAttendanceRule(ctx, rule); err != nil {
		h.writeStoreError(w, ctx, "failed to upsert attendance rule", err)
		return
	}
	wh, err := h.warehouses.GetWarehouse(ctx, warehouseID)
	if err != nil {
		h.writeStoreError(w, ctx, "failed to load warehouse", err)
		return
	}
	h.logger.InfoContext(ctx, "attendance rule upserted",
		"warehouse_id", warehouseID.String(),
		"request_id", requestID,
	)
	httputil.WriteJSON(w, http.StatusOK, toWarehouseResponse(*wh, &rule))
}

func (h *Handler) HandleListAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	driverID, err := id.ParseDriverID(chi.URLParam(r, "driver_id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	events, err := h.audits.List(ctx, driverID)
	if err != nil {
		h.writeStoreError(w, ctx, "failed to list audit events", err)
		return
	}

	resp := AuditListResponse{
		DriverID: driverID.String(),
		Events:   make([]AuditEventResponse, 0, len(events)),
	}
	for _, e := range events {
		resp.Events = append(resp.Events, toAuditEventResponse(e))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeStoreError(w http.ResponseWriter, ctx context.Context, msg string, err error) {
	var de *dErrors.Error
	switch {
	case errors.As(err, &de):
		httputil.WriteError(w, err)
	case errors.Is(err, sentinel.ErrNotFound):
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "warehouse not found"))
	default:
		h.logger.ErrorContext(ctx, msg,
			"error", err,
			"request_id", request.GetRequestID(ctx),
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, msg))
	}
}
