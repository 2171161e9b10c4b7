package http_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/nqcrm/crm-api/internal/application/billing"
	apphttp "github.com/nqcrm/crm-api/internal/interfaces/http"
)

// buildPreviewApp monta solo la ruta de previsualización; Preview no toca
// repositorios, así que el caso de uso se construye sin dependencias.
func buildPreviewApp() *fiber.App {
	uc := appbilling.NewInvoiceUseCase(nil, nil, nil, nil, nil, appbilling.InvoiceConfig{})
	h := apphttp.NewInvoiceHandler(uc)
	app := fiber.New()
	app.Post("/api/invoices/preview", h.Preview)
	return app
}

func postPreview(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/invoices/preview", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// Una tarifa fuera de política es un error de integridad: 422 y línea de log.
func TestPreview_TarifaFueraDePolitica_Retorna422YLoguea(t *testing.T) {
	var logBuf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&logBuf)
	t.Cleanup(func() { log.Logger = prev })

	app := buildPreviewApp()
	resp := postPreview(t, app, `{
		"tva_rate": 19,
		"line_items": [{"description": "Diseño", "unit_price": "100", "quantity": "1"}]
	}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TAX_RATE")

	assert.Contains(t, logBuf.String(), "tarifa de TVA rechazada",
		"la tarifa rechazada debe quedar en el log")
	assert.Contains(t, logBuf.String(), "19", "el log debe incluir la tarifa ofrecida")
}

// Cero líneas válidas tras normalizar es una petición mala, no un error de
// integridad: 400 sin línea de log de error.
func TestPreview_SinLineasValidas_Retorna400(t *testing.T) {
	var logBuf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&logBuf)
	t.Cleanup(func() { log.Logger = prev })

	app := buildPreviewApp()
	resp := postPreview(t, app, `{
		"tva_rate": 20,
		"line_items": [{"description": "", "unit_price": "100", "quantity": "1"}]
	}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "EMPTY_LINE_ITEMS")
	assert.Empty(t, logBuf.String())
}

func TestPreview_TarifaValida_Retorna200(t *testing.T) {
	app := buildPreviewApp()
	resp := postPreview(t, app, `{
		"tva_rate": 20,
		"line_items": [
			{"description": "Diseño", "unit_price": "100", "quantity": "2"},
			{"description": "Consultoría", "unit_price": "50", "quantity": "1"}
		]
	}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"subtotal":"250"`)
	assert.Contains(t, string(body), `"total":"300"`)
}