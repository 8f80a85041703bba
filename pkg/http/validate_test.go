package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Ticker string `query:"ticker" validate:"required,max=8"`
	Period string `query:"period" default:"1y" validate:"oneof=1mo 1y"`
}

func bind(t *testing.T, target string, req interface{}) interface{} {
	t.Helper()
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
	return ReadAndValidateRequest(c, req)
}

func TestReadAndValidateAppliesDefaults(t *testing.T) {
	req := &sampleRequest{}
	require.Nil(t, bind(t, "/?ticker=AAPL", req))
	assert.Equal(t, "AAPL", req.Ticker)
	assert.Equal(t, "1y", req.Period)
}

func TestReadAndValidateReportsFields(t *testing.T) {
	verr := bind(t, "/?period=5y", &sampleRequest{})
	errs, ok := verr.([]ValidationError)
	require.True(t, ok)
	require.Len(t, errs, 2)
	assert.Equal(t, "ERR_REQUIRED", errs[0].Code)
	assert.Equal(t, "ticker", errs[0].Field)
	assert.Equal(t, "ERR_ONEOF", errs[1].Code)
	assert.Equal(t, []string{"1mo", "1y"}, errs[1].Params["options"])
}

type pairRequest struct {
	A string `query:"a" default:"USA" validate:"required"`
	B string `query:"b" default:"Germany" validate:"required,nefield=A"`
}

func TestReadAndValidateRejectsEqualFields(t *testing.T) {
	verr := bind(t, "/?a=Italy&b=Italy", &pairRequest{})
	errs, ok := verr.([]ValidationError)
	require.True(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, "ERR_NEFIELD", errs[0].Code)
	assert.Equal(t, "b", errs[0].Field)
	assert.Equal(t, "b must differ from a", errs[0].Message)
}

func TestAppErrorResponseUsesStatus(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, AppErrorResponse(c, UnavailableError("ERR_PROVIDER_UNAVAILABLE", "fred down")))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body struct {
		Status int        `json:"status"`
		Data   []AppError `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 503, body.Status)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "ERR_PROVIDER_UNAVAILABLE", body.Data[0].Code)
}

func TestAppErrorResponseFallsBackTo500(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, AppErrorResponse(c, assert.AnError))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

type sizeRequest struct {
	Size string `query:"size" default:"m" validate:"size"`
}

func init() {
	RegisterStringValidation("size", func(s string) bool { return s == "s" || s == "m" || s == "l" }, "s", "m", "l")
}

func TestRegisteredValidationReportsOptions(t *testing.T) {
	req := &sizeRequest{}
	require.Nil(t, bind(t, "/", req))
	assert.Equal(t, "m", req.Size)

	verr := bind(t, "/?size=xl", &sizeRequest{})
	errs, ok := verr.([]ValidationError)
	require.True(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, "ERR_SIZE", errs[0].Code)
	assert.Equal(t, "size", errs[0].Field)
	assert.Equal(t, "size must be one of: s, m, l", errs[0].Message)
	assert.Equal(t, []string{"s", "m", "l"}, errs[0].Params["options"])
}
