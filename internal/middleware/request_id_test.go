package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fintrack/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

// RequestIDTestSuite defines the test suite for request ID middleware
type RequestIDTestSuite struct {
	suite.Suite
	echo *echo.Echo
}

// SetupTest runs before each test
func (s *RequestIDTestSuite) SetupTest() {
	s.echo = echo.New()
}

// TestRequestIDTestSuite runs the test suite
func TestRequestIDTestSuite(t *testing.T) {
	suite.Run(t, new(RequestIDTestSuite))
}

func (s *RequestIDTestSuite) TestRequestID_GeneratesTraceID() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	handler := RequestID()(func(c echo.Context) error {
		traceID := c.Get(TraceIDContextKey)
		s.NotNil(traceID)
		s.NotEmpty(traceID.(string))
		return c.NoContent(http.StatusOK)
	})

	err := handler(c)
	s.NoError(err)
	s.NotEmpty(rec.Header().Get(TraceIDHeader))
}

func (s *RequestIDTestSuite) TestRequestID_UsesExistingTraceID() {
	existingTraceID := "existing-trace-id-12345"

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(TraceIDHeader, existingTraceID)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	handler := RequestID()(func(c echo.Context) error {
		s.Equal(existingTraceID, GetTraceID(c))
		return c.NoContent(http.StatusOK)
	})

	err := handler(c)
	s.NoError(err)
	s.Equal(existingTraceID, rec.Header().Get(TraceIDHeader))
}

func (s *RequestIDTestSuite) TestRequestID_ReplacesOversizedTraceID() {
	oversized := strings.Repeat("a", maxTraceIDLength+1)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(TraceIDHeader, oversized)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	handler := RequestID()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	s.NoError(handler(c))
	s.NotEqual(oversized, rec.Header().Get(TraceIDHeader))
	s.Regexp(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`, rec.Header().Get(TraceIDHeader))
}

func (s *RequestIDTestSuite) TestRequestID_PropagatesToRequestContext() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(TraceIDHeader, "ctx-trace")
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	var fromContext string
	handler := RequestID()(func(c echo.Context) error {
		fromContext = services.RequestIDFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	s.NoError(handler(c))
	s.Equal("ctx-trace", fromContext)
}

func (s *RequestIDTestSuite) TestRequestID_TraceIDInBothContextAndHeader() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	var contextTraceID string
	handler := RequestID()(func(c echo.Context) error {
		contextTraceID = c.Get(TraceIDContextKey).(string)
		return c.NoContent(http.StatusOK)
	})

	err := handler(c)
	s.NoError(err)
	s.Equal(contextTraceID, rec.Header().Get(TraceIDHeader))
}

func (s *RequestIDTestSuite) TestGetTraceID_ReturnsEmptyWhenNotSet() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	s.Empty(GetTraceID(c))
}

func (s *RequestIDTestSuite) TestRequestID_UUIDFormat() {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	handler := RequestID()(func(c echo.Context) error {
		// UUID v4 format (8-4-4-4-12 characters)
		s.Regexp(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`, GetTraceID(c))
		return c.NoContent(http.StatusOK)
	})

	err := handler(c)
	s.NoError(err)
}
