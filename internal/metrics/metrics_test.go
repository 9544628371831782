package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/request-details/:id", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})
	app.Get("/metrics", Handler())
	return app
}

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	app := newTestApp()
	counter := HTTPRequestsTotal.WithLabelValues("GET", "/request-details/:id", "200")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"a", "b", "c"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/request-details/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	assert.Equal(t, before+3, testutil.ToFloat64(counter))
}

func TestMiddlewareUsesErrorCode(t *testing.T) {
	app := newTestApp()
	counter := HTTPRequestsTotal.WithLabelValues("GET", "/boom", "418")
	before := testutil.ToFloat64(counter)

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestHandlerExposesRegistry(t *testing.T) {
	app := newTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "bloodbridge_http_requests_total")
}

func TestObserveDB(t *testing.T) {
	errCounter := DBErrors.WithLabelValues("test_op")
	before := testutil.ToFloat64(errCounter)

	var ok error
	ObserveDB("test_op", time.Now(), &ok)
	assert.Equal(t, before, testutil.ToFloat64(errCounter))

	failed := errors.New("down")
	ObserveDB("test_op", time.Now(), &failed)
	assert.Equal(t, before+1, testutil.ToFloat64(errCounter))
}
