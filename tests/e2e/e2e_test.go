//go:build integration

package e2e

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"

	"github.com/hercules830/nexa-control-app-sub000/internal/config"
	"github.com/hercules830/nexa-control-app-sub000/internal/infra"
	"github.com/hercules830/nexa-control-app-sub000/internal/router"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Suite setup ──────────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("nexa_test"),
		tcPostgres.WithUsername("nexa"),
		tcPostgres.WithPassword("nexa"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("nexa2026"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Exec(`INSERT INTO usuarios (id, username, nombre, password_hash, rol, activo, created_at, updated_at)
		VALUES (gen_random_uuid(), 'admin', 'Admin E2E', ?, 'administrador', true, NOW(), NOW())
		ON CONFLICT DO NOTHING`, string(hash)).Error)

	r := router.New(cfg, db, rdb, infra.NewMailer(cfg))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin", "password": "nexa2026"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken}
}

func (env *testEnv) crearInsumo(t *testing.T, nombre string, cantidad, costoTotal, factor float64) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/insumos",
		jsonBody(t, map[string]any{
			"nombre":            nombre,
			"unidad_compra":     "kg",
			"unidad_uso":        "g",
			"factor_conversion": factor,
			"cantidad_compra":   cantidad,
			"costo_total":       costoTotal,
		}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var insumo struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &insumo)
	return insumo.ID
}

// ── Tests ────────────────────────────────────────────────────────────────────

// Full cycle: insumo → producto directo → ticket → finalize → stock and reports.
func TestE2E_CicloCompletoVentaDirecta(t *testing.T) {
	env := setupTestEnv(t)

	// 5 kg of flour at 100 total → 5000 g at 0.02/g
	insumoID := env.crearInsumo(t, "Harina", 5, 100, 1000)

	prodResp := do(t, env.server, "POST", "/v1/productos/directo",
		jsonBody(t, map[string]any{
			"nombre":    "Bolsa de Harina",
			"precio":    3.50,
			"insumo_id": insumoID,
		}), env.token)
	require.Equal(t, http.StatusCreated, prodResp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, prodResp, &prod)

	lineaResp := do(t, env.server, "POST", "/v1/ticket/lineas",
		jsonBody(t, map[string]any{"producto_id": prod.ID, "cantidad": 2}), env.token)
	require.Equal(t, http.StatusOK, lineaResp.StatusCode)

	finResp := do(t, env.server, "POST", "/v1/ticket/finalizar",
		jsonBody(t, map[string]any{"metodo_pago": "efectivo"}), env.token)
	require.Equal(t, http.StatusCreated, finResp.StatusCode)
	var fin struct {
		TicketID int64  `json:"ticket_id"`
		Total    string `json:"total"`
	}
	decodeJSON(t, finResp, &fin)
	assert.Equal(t, "7", fin.Total[:1])

	// stock deducted: 5000 - 2 = 4998
	insResp := do(t, env.server, "GET", "/v1/insumos/"+insumoID, nil, env.token)
	require.Equal(t, http.StatusOK, insResp.StatusCode)
	var ins struct {
		StockUnidadUso string `json:"stock_unidad_uso"`
	}
	decodeJSON(t, insResp, &ins)
	assert.Equal(t, "4998", ins.StockUnidadUso)

	// ticket is now empty
	tkResp := do(t, env.server, "GET", "/v1/ticket", nil, env.token)
	require.Equal(t, http.StatusOK, tkResp.StatusCode)
	var tk struct {
		Lineas []any `json:"lineas"`
	}
	decodeJSON(t, tkResp, &tk)
	assert.Empty(t, tk.Lineas)

	// the sale shows up in the daily summary
	resResp := do(t, env.server, "GET",
		fmt.Sprintf("/v1/reportes/resumen?fecha=%s", time.Now().Format("2006-01-02")), nil, env.token)
	require.Equal(t, http.StatusOK, resResp.StatusCode)
	var resumen struct {
		CantidadTickets int `json:"cantidad_tickets"`
	}
	decodeJSON(t, resResp, &resumen)
	assert.Equal(t, 1, resumen.CantidadTickets)
}

// A recipe product deducts every ingredient of the recipe.
func TestE2E_VentaRecetaDescuentaIngredientes(t *testing.T) {
	env := setupTestEnv(t)

	harinaID := env.crearInsumo(t, "Harina", 5, 100, 1000)
	huevoID := env.crearInsumo(t, "Huevo", 30, 15, 1)

	prodResp := do(t, env.server, "POST", "/v1/productos/receta",
		jsonBody(t, map[string]any{
			"nombre": "Torta",
			"precio": 12.00,
			"receta": []map[string]any{
				{"insumo_id": harinaID, "cantidad_usada": 200},
				{"insumo_id": huevoID, "cantidad_usada": 3},
			},
		}), env.token)
	require.Equal(t, http.StatusCreated, prodResp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, prodResp, &prod)

	do(t, env.server, "POST", "/v1/ticket/lineas",
		jsonBody(t, map[string]any{"producto_id": prod.ID, "cantidad": 1}), env.token)

	finResp := do(t, env.server, "POST", "/v1/ticket/finalizar",
		jsonBody(t, map[string]any{"metodo_pago": "tarjeta"}), env.token)
	require.Equal(t, http.StatusCreated, finResp.StatusCode)

	var harina, huevo struct {
		StockUnidadUso string `json:"stock_unidad_uso"`
	}
	decodeJSON(t, do(t, env.server, "GET", "/v1/insumos/"+harinaID, nil, env.token), &harina)
	decodeJSON(t, do(t, env.server, "GET", "/v1/insumos/"+huevoID, nil, env.token), &huevo)
	assert.Equal(t, "4800", harina.StockUnidadUso)
	assert.Equal(t, "27", huevo.StockUnidadUso)
}

// Insufficient stock returns 409 and leaves everything untouched.
func TestE2E_StockInsuficienteDevuelve409(t *testing.T) {
	env := setupTestEnv(t)

	// 2 units in stock, factor 1 (piece goods)
	insumoID := env.crearInsumo(t, "Trufa", 2, 10, 1)

	prodResp := do(t, env.server, "POST", "/v1/productos/directo",
		jsonBody(t, map[string]any{
			"nombre":    "Trufa Premium",
			"precio":    8.00,
			"insumo_id": insumoID,
		}), env.token)
	require.Equal(t, http.StatusCreated, prodResp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, prodResp, &prod)

	do(t, env.server, "POST", "/v1/ticket/lineas",
		jsonBody(t, map[string]any{"producto_id": prod.ID, "cantidad": 5}), env.token)

	finResp := do(t, env.server, "POST", "/v1/ticket/finalizar",
		jsonBody(t, map[string]any{"metodo_pago": "efectivo"}), env.token)
	assert.Equal(t, http.StatusConflict, finResp.StatusCode)

	// stock untouched, ticket still holds the line
	var ins struct {
		StockUnidadUso string `json:"stock_unidad_uso"`
	}
	decodeJSON(t, do(t, env.server, "GET", "/v1/insumos/"+insumoID, nil, env.token), &ins)
	assert.Equal(t, "2", ins.StockUnidadUso)

	var tk struct {
		Lineas []any `json:"lineas"`
	}
	decodeJSON(t, do(t, env.server, "GET", "/v1/ticket", nil, env.token), &tk)
	assert.Len(t, tk.Lineas, 1)
}

// Replenishing recomputes the unit cost as a weighted average.
func TestE2E_ReabastecerPromedioPonderado(t *testing.T) {
	env := setupTestEnv(t)

	insumoID := env.crearInsumo(t, "Cacao", 1, 20, 1000) // 1000 g at 0.02

	reResp := do(t, env.server, "POST", "/v1/insumos/"+insumoID+"/reabastecer",
		jsonBody(t, map[string]any{
			"cantidad_compra": 1,
			"costo_total":     40, // 1000 g at 0.04
		}), env.token)
	require.Equal(t, http.StatusOK, reResp.StatusCode)
	var ins struct {
		StockUnidadUso    string `json:"stock_unidad_uso"`
		CostoPorUnidadUso string `json:"costo_por_unidad_uso"`
	}
	decodeJSON(t, reResp, &ins)
	assert.Equal(t, "2000", ins.StockUnidadUso)
	assert.Equal(t, "0.03", ins.CostoPorUnidadUso)

	// the cost change is recorded in the history
	histResp := do(t, env.server, "GET", "/v1/insumos/"+insumoID+"/historial-costos", nil, env.token)
	require.Equal(t, http.StatusOK, histResp.StatusCode)
	var hist []struct {
		CostoAnterior string `json:"costo_anterior"`
		CostoNuevo    string `json:"costo_nuevo"`
	}
	decodeJSON(t, histResp, &hist)
	require.NotEmpty(t, hist)
}

// The finalized ticket can be downloaded as a PDF receipt.
func TestE2E_DescargaTicketPDF(t *testing.T) {
	env := setupTestEnv(t)

	insumoID := env.crearInsumo(t, "Cafe", 1, 50, 1000)
	prodResp := do(t, env.server, "POST", "/v1/productos/directo",
		jsonBody(t, map[string]any{"nombre": "Cafe Molido", "precio": 6.00, "insumo_id": insumoID}), env.token)
	require.Equal(t, http.StatusCreated, prodResp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, prodResp, &prod)

	do(t, env.server, "POST", "/v1/ticket/lineas",
		jsonBody(t, map[string]any{"producto_id": prod.ID, "cantidad": 1}), env.token)
	finResp := do(t, env.server, "POST", "/v1/ticket/finalizar",
		jsonBody(t, map[string]any{"metodo_pago": "efectivo"}), env.token)
	require.Equal(t, http.StatusCreated, finResp.StatusCode)
	var fin struct {
		TicketID int64 `json:"ticket_id"`
	}
	decodeJSON(t, finResp, &fin)

	pdfResp := do(t, env.server, "GET", fmt.Sprintf("/v1/ventas/%d/pdf", fin.TicketID), nil, env.token)
	require.Equal(t, http.StatusOK, pdfResp.StatusCode)
	assert.Equal(t, "application/pdf", pdfResp.Header.Get("Content-Type"))
	pdfResp.Body.Close()
}
