package payroll_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-empms/internal/domain"
	"go-empms/internal/payroll"
	payrollerrors "go-empms/internal/payroll/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func mustDecodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakePayrollService struct {
	processFn       func(ctx context.Context, actor domain.Actor, req payroll.ProcessPayrollRequest) (payroll.ProcessPayrollResponse, error)
	adjustFn        func(ctx context.Context, actor domain.Actor, id string, req payroll.AdjustPayrollRequest) (payroll.PayrollResponse, error)
	finalizeFn      func(ctx context.Context, actor domain.Actor, id string, req payroll.FinalizePayrollRequest) (payroll.PayrollResponse, error)
	markPaidFn      func(ctx context.Context, actor domain.Actor, id string) (payroll.PayrollResponse, error)
	getAllFn        func(ctx context.Context, actor domain.Actor, filter payroll.GetPayrollsFilterRequest) ([]payroll.PayrollResponse, error)
	getByIDFn       func(ctx context.Context, actor domain.Actor, id string) (payroll.PayrollResponse, error)
	statsFn         func(ctx context.Context, req payroll.StatsFilterRequest) (payroll.PayrollStatsResponse, error)
	renderPDFFn     func(ctx context.Context, actor domain.Actor, id string) ([]byte, error)
	generateSlipsFn func(ctx context.Context, payrollID, requestedBy string) error
}

func (f *fakePayrollService) Process(ctx context.Context, actor domain.Actor, req payroll.ProcessPayrollRequest) (payroll.ProcessPayrollResponse, error) {
	return f.processFn(ctx, actor, req)
}

func (f *fakePayrollService) Adjust(ctx context.Context, actor domain.Actor, id string, req payroll.AdjustPayrollRequest) (payroll.PayrollResponse, error) {
	return f.adjustFn(ctx, actor, id, req)
}

func (f *fakePayrollService) Finalize(ctx context.Context, actor domain.Actor, id string, req payroll.FinalizePayrollRequest) (payroll.PayrollResponse, error) {
	return f.finalizeFn(ctx, actor, id, req)
}

func (f *fakePayrollService) MarkPaid(ctx context.Context, actor domain.Actor, id string) (payroll.PayrollResponse, error) {
	return f.markPaidFn(ctx, actor, id)
}

func (f *fakePayrollService) GetAll(ctx context.Context, actor domain.Actor, filter payroll.GetPayrollsFilterRequest) ([]payroll.PayrollResponse, error) {
	return f.getAllFn(ctx, actor, filter)
}

func (f *fakePayrollService) GetByID(ctx context.Context, actor domain.Actor, id string) (payroll.PayrollResponse, error) {
	return f.getByIDFn(ctx, actor, id)
}

func (f *fakePayrollService) Stats(ctx context.Context, req payroll.StatsFilterRequest) (payroll.PayrollStatsResponse, error) {
	return f.statsFn(ctx, req)
}

func (f *fakePayrollService) RenderPayslipPDF(ctx context.Context, actor domain.Actor, id string) ([]byte, error) {
	return f.renderPDFFn(ctx, actor, id)
}

func (f *fakePayrollService) GeneratePayslip(ctx context.Context, payrollID, requestedBy string) error {
	return f.generateSlipsFn(ctx, payrollID, requestedBy)
}

func newTestContext(t *testing.T, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("user_id", uuid.NewString())
	c.Set("employee_id", uuid.NewString())
	c.Set("role", domain.RoleAdmin)

	return c, w
}

func TestPayrollHandler_Process(t *testing.T) {
	employeeID := uuid.NewString()
	svc := &fakePayrollService{
		processFn: func(ctx context.Context, actor domain.Actor, req payroll.ProcessPayrollRequest) (payroll.ProcessPayrollResponse, error) {
			assert.Equal(t, 3, req.Month)
			assert.Equal(t, 2026, req.Year)
			assert.Equal(t, domain.RoleAdmin, actor.Role)
			return payroll.ProcessPayrollResponse{
				Month:   req.Month,
				Year:    req.Year,
				Results: []payroll.EmployeeResult{{EmployeeID: employeeID, Status: payroll.ResultCreated}},
			}, nil
		},
	}

	h := payroll.NewHandler(svc)
	c, w := newTestContext(t, http.MethodPost, "/payrolls/process", `{"month":3,"year":2026}`)

	h.Process(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)

	var resp payroll.ProcessPayrollResponse
	assert.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Len(t, resp.Results, 1)
	assert.Equal(t, payroll.ResultCreated, resp.Results[0].Status)
}

func TestPayrollHandler_Process_MissingPeriod(t *testing.T) {
	h := payroll.NewHandler(&fakePayrollService{})
	c, w := newTestContext(t, http.MethodPost, "/payrolls/process", `{"year":2026}`)

	h.Process(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
}

func TestPayrollHandler_Adjust_InvalidState(t *testing.T) {
	svc := &fakePayrollService{
		adjustFn: func(ctx context.Context, actor domain.Actor, id string, req payroll.AdjustPayrollRequest) (payroll.PayrollResponse, error) {
			return payroll.PayrollResponse{}, payrollerrors.ErrAdjustPaid
		},
	}

	h := payroll.NewHandler(svc)
	c, w := newTestContext(t, http.MethodPut, "/payrolls/123/adjust", `{"bonus":100,"reason":"fix"}`)
	c.Params = []gin.Param{{Key: "id", Value: "123"}}

	h.Adjust(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
	assert.Equal(t, "INVALID_STATE", env.Error.Code)
}

func TestPayrollHandler_Finalize_EmptyBodyAccepted(t *testing.T) {
	id := uuid.NewString()
	svc := &fakePayrollService{
		finalizeFn: func(ctx context.Context, actor domain.Actor, pid string, req payroll.FinalizePayrollRequest) (payroll.PayrollResponse, error) {
			assert.Equal(t, id, pid)
			assert.Nil(t, req.Notes)
			return payroll.PayrollResponse{ID: pid, Status: payroll.StatusFinalized}, nil
		},
	}

	h := payroll.NewHandler(svc)
	c, w := newTestContext(t, http.MethodPut, "/payrolls/"+id+"/finalize", "")
	c.Params = []gin.Param{{Key: "id", Value: id}}

	h.Finalize(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)
}

func TestPayrollHandler_MarkPaid(t *testing.T) {
	id := uuid.NewString()
	svc := &fakePayrollService{
		markPaidFn: func(ctx context.Context, actor domain.Actor, pid string) (payroll.PayrollResponse, error) {
			return payroll.PayrollResponse{ID: pid, Status: payroll.StatusPaid}, nil
		},
	}

	h := payroll.NewHandler(svc)
	c, w := newTestContext(t, http.MethodPut, "/payrolls/"+id+"/pay", "")
	c.Params = []gin.Param{{Key: "id", Value: id}}

	h.MarkPaid(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)
}

func TestPayrollHandler_Stats_RequiresPeriod(t *testing.T) {
	h := payroll.NewHandler(&fakePayrollService{})
	c, w := newTestContext(t, http.MethodGet, "/payrolls/stats", "")

	h.Stats(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
}

func TestPayrollHandler_GetPayslipPDF(t *testing.T) {
	id := uuid.NewString()
	svc := &fakePayrollService{
		renderPDFFn: func(ctx context.Context, actor domain.Actor, pid string) ([]byte, error) {
			return []byte("%PDF-1.4 test"), nil
		},
	}

	h := payroll.NewHandler(svc)
	c, w := newTestContext(t, http.MethodGet, "/payrolls/"+id+"/payslip/pdf", "")
	c.Params = []gin.Param{{Key: "id", Value: id}}

	h.GetPayslipPDF(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))
}

func TestPayrollHandler_DownloadPayslip_NotGenerated(t *testing.T) {
	svc := &fakePayrollService{
		getByIDFn: func(ctx context.Context, actor domain.Actor, id string) (payroll.PayrollResponse, error) {
			return payroll.PayrollResponse{ID: id, Status: payroll.StatusFinalized}, nil
		},
	}

	h := payroll.NewHandler(svc)
	c, w := newTestContext(t, http.MethodGet, "/payrolls/123/payslip/download", "")
	c.Params = []gin.Param{{Key: "id", Value: "123"}}

	h.DownloadPayslip(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.False(t, env.Ok)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}
