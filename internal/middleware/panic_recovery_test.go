package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"fintrack/internal/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

// PanicRecoveryTestSuite defines the test suite for panic recovery middleware
type PanicRecoveryTestSuite struct {
	suite.Suite
	echo   *echo.Echo
	logs   *bytes.Buffer
	logger *slog.Logger
}

// SetupTest runs before each test
func (s *PanicRecoveryTestSuite) SetupTest() {
	s.echo = echo.New()
	s.logs = &bytes.Buffer{}
	s.logger = slog.New(slog.NewJSONHandler(s.logs, nil))
}

// TestPanicRecoveryTestSuite runs the test suite
func TestPanicRecoveryTestSuite(t *testing.T) {
	suite.Run(t, new(PanicRecoveryTestSuite))
}

func (s *PanicRecoveryTestSuite) TestPanicRecovery_RecoverFromPanic() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/overview", nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)
	c.Set(TraceIDContextKey, "test-trace-id")

	handler := PanicRecovery(s.logger)(func(c echo.Context) error {
		panic("test panic")
	})

	var err error
	s.NotPanics(func() {
		err = handler(c)
	})
	s.NoError(err)
	s.Equal(http.StatusInternalServerError, rec.Code)

	var errorResponse errors.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &errorResponse))
	s.Equal("SYSTEM_001", errorResponse.Error.Code)
	s.Equal("test-trace-id", errorResponse.Error.TraceID)

	s.Contains(s.logs.String(), `"msg":"Panic recovered"`)
	s.Contains(s.logs.String(), `"panic":"test panic"`)
	s.Contains(s.logs.String(), `"path":"/api/v1/dashboard/overview"`)
}

func (s *PanicRecoveryTestSuite) TestPanicRecovery_NoTraceID() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	handler := PanicRecovery(s.logger)(func(c echo.Context) error {
		panic("test panic")
	})

	s.NotPanics(func() {
		_ = handler(c)
	})

	var errorResponse errors.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &errorResponse))
	s.Equal("SYSTEM_001", errorResponse.Error.Code)
	s.Equal("unknown", errorResponse.Error.TraceID)
}

func (s *PanicRecoveryTestSuite) TestPanicRecovery_NormalFlow() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	handler := PanicRecovery(s.logger)(func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	s.NoError(handler(c))
	s.Equal(http.StatusOK, rec.Code)
	s.Empty(s.logs.String())
}

func (s *PanicRecoveryTestSuite) TestPanicRecovery_CommittedResponseUntouched() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	handler := PanicRecovery(s.logger)(func(c echo.Context) error {
		_ = c.String(http.StatusAccepted, "partial")
		panic("after write")
	})

	s.NotPanics(func() {
		_ = handler(c)
	})
	s.Equal(http.StatusAccepted, rec.Code)
	s.Equal("partial", rec.Body.String())
	s.Contains(s.logs.String(), "after write")
}

func (s *PanicRecoveryTestSuite) TestPanicRecovery_AbortHandlerRepanics() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	handler := PanicRecovery(s.logger)(func(c echo.Context) error {
		panic(http.ErrAbortHandler)
	})

	s.PanicsWithValue(http.ErrAbortHandler, func() {
		_ = handler(c)
	})
}

func (s *PanicRecoveryTestSuite) TestPanicRecovery_NilLoggerUsesDefault() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	handler := PanicRecovery(nil)(func(c echo.Context) error {
		panic("no logger")
	})

	s.NotPanics(func() {
		_ = handler(c)
	})
	s.Equal(http.StatusInternalServerError, rec.Code)
}

func (s *PanicRecoveryTestSuite) TestPanicRecovery_DifferentPanicTypes() {
	testCases := []struct {
		name      string
		panicWith interface{}
	}{
		{"String panic", "string panic"},
		{"Int panic", 42},
		{"Struct panic", struct{ msg string }{"error"}},
		{"Nil panic", nil},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := s.echo.NewContext(req, rec)
			c.Set(TraceIDContextKey, "test-trace-id")

			handler := PanicRecovery(s.logger)(func(c echo.Context) error {
				panic(tc.panicWith)
			})

			s.NotPanics(func() {
				_ = handler(c)
			})

			s.Equal(http.StatusInternalServerError, rec.Code)
		})
	}
}
