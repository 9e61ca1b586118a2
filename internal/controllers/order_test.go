package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Innkaufhaus/kundenbestellung-v6/internal/dto"
	"github.com/Innkaufhaus/kundenbestellung-v6/internal/entities"
	apperrors "github.com/Innkaufhaus/kundenbestellung-v6/pkg/errors"
	"github.com/Innkaufhaus/kundenbestellung-v6/pkg/types"
	"github.com/Innkaufhaus/kundenbestellung-v6/pkg/utils"
)

type stubOrderService struct {
	orders []entities.Order
	detail *dto.OrderWithHistoryDTO
	count  int64
	err    error

	calls      int
	lastFilter types.Filter
	lastID     int64
	lastEmail  string
}

func (s *stubOrderService) CreateOrder(ctx context.Context, d dto.CreateOrderDTO) (*entities.Order, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &entities.Order{ID: 1, OrderNumber: "ORD250101120000123", OrderDate: time.Now(), CustomerName: d.CustomerName}, nil
}

func (s *stubOrderService) FindOrderByID(ctx context.Context, id int64) (*dto.OrderWithHistoryDTO, error) {
	s.calls++
	s.lastID = id
	if s.err != nil {
		return nil, s.err
	}
	return s.detail, nil
}

func (s *stubOrderService) SearchOrders(ctx context.Context, filter types.Filter) ([]entities.Order, error) {
	s.calls++
	s.lastFilter = filter
	return s.orders, s.err
}

func (s *stubOrderService) UpdateOrder(ctx context.Context, id int64, upd dto.UpdateOrderDTO) (*entities.Order, error) {
	s.calls++
	s.lastID = id
	if s.err != nil {
		return nil, s.err
	}
	return &entities.Order{ID: id, CustomerName: upd.CustomerName}, nil
}

func (s *stubOrderService) DeleteOrder(ctx context.Context, id int64) error {
	s.calls++
	s.lastID = id
	return s.err
}

func (s *stubOrderService) BulkUpdateStatus(ctx context.Context, d dto.BulkStatusUpdateDTO) (int64, error) {
	s.calls++
	return s.count, s.err
}

func (s *stubOrderService) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	s.calls++
	return s.count, s.err
}

func (s *stubOrderService) SendOrderEmail(ctx context.Context, id int64, toEmail string) error {
	s.calls++
	s.lastID = id
	s.lastEmail = toEmail
	return s.err
}

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = utils.NewValidator(validator.New())

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestOrderController_GetOrders(t *testing.T) {
	svc := &stubOrderService{orders: []entities.Order{{ID: 1, OrderNumber: "ORD250101120000123"}}}
	ctrl := NewOrderController(svc, zap.NewNop())

	ctx, rec := newTestContext(http.MethodGet, "/api/orders?search=Müller&status=offen", "")
	require.NoError(t, ctrl.GetOrders(ctx))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, types.Filter{Search: "Müller", Status: "offen"}, svc.lastFilter)

	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, true, envelope["status"])
}

func TestOrderController_CreateOrder(t *testing.T) {
	svc := &stubOrderService{}
	ctrl := NewOrderController(svc, zap.NewNop())

	ctx, rec := newTestContext(http.MethodPost, "/api/orders", `{"customer_name":"Müller"}`)
	require.NoError(t, ctrl.CreateOrder(ctx))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, svc.calls)
}

func TestOrderController_FindOrder_InvalidID(t *testing.T) {
	svc := &stubOrderService{}
	ctrl := NewOrderController(svc, zap.NewNop())

	ctx, rec := newTestContext(http.MethodGet, "/api/orders/abc", "")
	ctx.SetParamNames("id")
	ctx.SetParamValues("abc")
	require.NoError(t, ctrl.FindOrder(ctx))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, svc.calls, "the store is never touched for a bad id")
}

func TestOrderController_FindOrder_NotFound(t *testing.T) {
	svc := &stubOrderService{err: apperrors.ErrNotFound}
	ctrl := NewOrderController(svc, zap.NewNop())

	ctx, rec := newTestContext(http.MethodGet, "/api/orders/999", "")
	ctx.SetParamNames("id")
	ctx.SetParamValues("999")
	require.NoError(t, ctrl.FindOrder(ctx))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, int64(999), svc.lastID)
}

func TestOrderController_FindOrder(t *testing.T) {
	svc := &stubOrderService{detail: &dto.OrderWithHistoryDTO{
		Order:   entities.Order{ID: 7, OrderNumber: "ORD250101120000123"},
		History: []entities.OrderHistory{{OrderID: 7, ChangedField: "status", NewValue: null.StringFrom("erledigt")}},
	}}
	ctrl := NewOrderController(svc, zap.NewNop())

	ctx, rec := newTestContext(http.MethodGet, "/api/orders/7", "")
	ctx.SetParamNames("id")
	ctx.SetParamValues("7")
	require.NoError(t, ctrl.FindOrder(ctx))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"history"`)
}

func TestOrderController_BulkUpdateStatus_EmptyIDs(t *testing.T) {
	svc := &stubOrderService{}
	ctrl := NewOrderController(svc, zap.NewNop())

	ctx, rec := newTestContext(http.MethodPut, "/api/orders/bulk-status", `{"orderIds":[],"status":"erledigt"}`)
	require.NoError(t, ctrl.BulkUpdateStatus(ctx))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, svc.calls, "validation rejects an empty id list before the store")
}

func TestOrderController_BulkUpdateStatus_MissingStatus(t *testing.T) {
	svc := &stubOrderService{}
	ctrl := NewOrderController(svc, zap.NewNop())

	ctx, rec := newTestContext(http.MethodPut, "/api/orders/bulk-status", `{"orderIds":[1,2]}`)
	require.NoError(t, ctrl.BulkUpdateStatus(ctx))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, svc.calls)
}

func TestOrderController_BulkUpdateStatus(t *testing.T) {
	svc := &stubOrderService{count: 2}
	ctrl := NewOrderController(svc, zap.NewNop())

	ctx, rec := newTestContext(http.MethodPut, "/api/orders/bulk-status", `{"orderIds":[1,2],"status":"erledigt","status_employer":"Weber"}`)
	require.NoError(t, ctrl.BulkUpdateStatus(ctx))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":2`)
}

func TestOrderController_BulkDelete(t *testing.T) {
	svc := &stubOrderService{count: 3}
	ctrl := NewOrderController(svc, zap.NewNop())

	ctx, rec := newTestContext(http.MethodDelete, "/api/orders/bulk-delete", `{"orderIds":[1,2,3]}`)
	require.NoError(t, ctrl.BulkDelete(ctx))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":3`)
}

func TestOrderController_SendEmail_InvalidRecipient(t *testing.T) {
	svc := &stubOrderService{}
	ctrl := NewOrderController(svc, zap.NewNop())

	ctx, rec := newTestContext(http.MethodPost, "/api/orders/1/send-email", `{"toEmail":"not-an-address"}`)
	ctx.SetParamNames("id")
	ctx.SetParamValues("1")
	require.NoError(t, ctrl.SendEmail(ctx))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, svc.calls, "an invalid recipient never reaches the mailer")
}

func TestOrderController_SendEmail(t *testing.T) {
	svc := &stubOrderService{}
	ctrl := NewOrderController(svc, zap.NewNop())

	ctx, rec := newTestContext(http.MethodPost, "/api/orders/1/send-email", `{"toEmail":"kunde@example.com"}`)
	ctx.SetParamNames("id")
	ctx.SetParamValues("1")
	require.NoError(t, ctrl.SendEmail(ctx))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), svc.lastID)
	assert.Equal(t, "kunde@example.com", svc.lastEmail)
}

func TestOrderController_DeleteOrder_Conflicting(t *testing.T) {
	svc := &stubOrderService{err: apperrors.ErrNotFound}
	ctrl := NewOrderController(svc, zap.NewNop())

	ctx, rec := newTestContext(http.MethodDelete, "/api/orders/5", "")
	ctx.SetParamNames("id")
	ctx.SetParamValues("5")
	require.NoError(t, ctrl.DeleteOrder(ctx))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
