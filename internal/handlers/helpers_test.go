package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// newRequestContext builds a context for target. A non-nil body is sent as JSON.
func newRequestContext(e *echo.Echo, method, target string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	switch b := body.(type) {
	case nil:
		req = httptest.NewRequest(method, target, nil)
	case string:
		req = httptest.NewRequest(method, target, bytes.NewBufferString(b))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	default:
		jsonBody, _ := json.Marshal(b)
		req = httptest.NewRequest(method, target, bytes.NewBuffer(jsonBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(TraceIDContextKey, "trace-test")
	return c, rec
}

// createContextWithAuth is newRequestContext for an authenticated caller
func createContextWithAuth(e *echo.Echo, method, target string, body interface{}, userID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := newRequestContext(e, method, target, body)
	c.Set("user_id", userID)
	return c, rec
}

func withIDParam(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func decodeError(rec *httptest.ResponseRecorder) ErrorResponse {
	var resp ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return resp
}

// decodeData unmarshals the success envelope's data into out and returns
// the raw envelope
func decodeData(rec *httptest.ResponseRecorder, out interface{}) map[string]json.RawMessage {
	var envelope map[string]json.RawMessage
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	if out != nil {
		_ = json.Unmarshal(envelope["data"], out)
	}
	return envelope
}
