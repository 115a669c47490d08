package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sisoputnfrba/tp-golang-rr/simulador/pkg/simulador"
	"github.com/sisoputnfrba/tp-golang-rr/utils/log"
)

func nuevoHandlerPrueba() *Handler {
	h := NewHandler("../../configs/config-test.json")
	h.Reportero.Salida = io.Discard
	return h
}

func TestHandler_Handshake(t *testing.T) {
	h := nuevoHandlerPrueba()

	req, err := http.NewRequest("GET", "/", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	h.Router().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Simulador round robin listo", rr.Body.String())
}

func TestHandler_CrearBarrido(t *testing.T) {
	ass := assert.New(t)
	h := nuevoHandlerPrueba()

	tests := []struct {
		name           string
		body           string
		wantedStatus   int
		wantedBody     string
		wantedCorridas []float64
	}{
		{
			name:           "Sin cuerpo usa la configuración",
			body:           "",
			wantedStatus:   http.StatusOK,
			wantedCorridas: []float64{0},
		},
		{
			name:           "Probabilidades y semilla propias",
			body:           `{"probabilidades_io":[0,0.3,0.6],"semilla":5}`,
			wantedStatus:   http.StatusOK,
			wantedCorridas: []float64{0, 0.3, 0.6},
		},
		{
			name:         "JSON inválido",
			body:         `{"probabilidades_io":`,
			wantedStatus: http.StatusBadRequest,
			wantedBody:   "Error decodificando la solicitud de barrido\n",
		},
		{
			name:         "Probabilidad fuera de rango",
			body:         `{"probabilidades_io":[0.5,1.5]}`,
			wantedStatus: http.StatusBadRequest,
			wantedBody:   "probabilidad de I/O fuera de rango\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest("POST", "/simulaciones", strings.NewReader(tt.body))
			require.NoError(t, err)

			rr := httptest.NewRecorder()
			h.Router().ServeHTTP(rr, req)

			ass.Equal(tt.wantedStatus, rr.Code)
			if tt.wantedStatus != http.StatusOK {
				ass.Equal(tt.wantedBody, rr.Body.String())
				return
			}

			var barrido simulador.Barrido
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &barrido))
			ass.Positive(barrido.ID)
			require.Len(t, barrido.Corridas, len(tt.wantedCorridas))
			for i, prob := range tt.wantedCorridas {
				ass.Equal(prob, barrido.Corridas[i].ProbabilidadIO)
				ass.Len(barrido.Corridas[i].Procesos, 4)
			}
			// Cuatro procesos de ráfaga 2 sin I/O.
			ass.Equal(4.5, barrido.Corridas[0].PromedioEspera)
			ass.Equal(8, barrido.Corridas[0].TiempoTotal)
		})
	}
}

func TestHandler_ObtenerBarrido(t *testing.T) {
	ass := assert.New(t)
	h := nuevoHandlerPrueba()

	// Se crean dos barridos para tener algo que consultar.
	for i := 0; i < 2; i++ {
		req, err := http.NewRequest("POST", "/simulaciones", nil)
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		h.Router().ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
	}

	tests := []struct {
		name         string
		id           string
		wantedStatus int
		wantedBody   string
	}{
		{name: "Barrido existente", id: "2", wantedStatus: http.StatusOK},
		{name: "ID no numérico", id: "abc", wantedStatus: http.StatusBadRequest, wantedBody: "ID de barrido inválido\n"},
		{name: "Barrido inexistente", id: "99", wantedStatus: http.StatusNotFound, wantedBody: "barrido no encontrado\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest("GET", "/simulaciones/"+tt.id, nil)
			require.NoError(t, err)

			rr := httptest.NewRecorder()
			h.Router().ServeHTTP(rr, req)

			ass.Equal(tt.wantedStatus, rr.Code)
			if tt.wantedStatus != http.StatusOK {
				ass.Equal(tt.wantedBody, rr.Body.String())
				return
			}

			var barrido simulador.Barrido
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &barrido))
			ass.Equal(2, barrido.ID)
			ass.Equal("application/json", rr.Header().Get("Content-Type"))
		})
	}

	req, err := http.NewRequest("GET", "/simulaciones", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	h.Router().ServeHTTP(rr, req)

	ass.Equal(http.StatusOK, rr.Code)
	var barridos []simulador.Barrido
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &barridos))
	require.Len(t, barridos, 2)
	ass.Equal(1, barridos[0].ID)
	ass.Equal(2, barridos[1].ID)
}

func TestConfig_Constructores(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "procesos y reloj real", config: Config{Trabajadores: "procesos", Reloj: "real"}},
		{name: "gorutinas y reloj virtual", config: Config{Trabajadores: "gorutinas", Reloj: "virtual"}},
		{name: "valores por defecto", config: Config{}},
		{name: "trabajadores desconocidos", config: Config{Trabajadores: "hilos"}, wantErr: true},
		{name: "reloj desconocido", config: Config{Reloj: "atomico"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errSupervisor := tt.config.NuevoSupervisor(log.BuildLoggerConSalida(io.Discard, "ERROR"))
			_, errReloj := tt.config.NuevoReloj()
			if tt.wantErr {
				assert.True(t, errSupervisor != nil || errReloj != nil)
				return
			}
			assert.NoError(t, errSupervisor)
			assert.NoError(t, errReloj)
		})
	}
}

func TestHandler_CrearBarrido_FallaLaCorrida(t *testing.T) {
	h := nuevoHandlerPrueba()
	// Menos ráfagas que procesos: la corrida no se puede armar.
	h.Reportero.Config.Rafagas = []int{1}

	req, err := http.NewRequest("POST", "/simulaciones", strings.NewReader(""))
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	h.Router().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Error ejecutando el barrido\n", rr.Body.String())
}

func TestHandler_LogDeBarridos(t *testing.T) {
	ass := assert.New(t)
	h := nuevoHandlerPrueba()
	var buf bytes.Buffer
	h.Log = log.BuildLoggerConSalida(&buf, "DEBUG")

	req, err := http.NewRequest("POST", "/simulaciones", strings.NewReader(`{"probabilidades_io":[0,0.3]}`))
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	h.Router().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	req, err = http.NewRequest("GET", "/simulaciones", nil)
	require.NoError(t, err)
	h.Router().ServeHTTP(httptest.NewRecorder(), req)

	texto := buf.String()
	ass.Contains(texto, `"msg":"Iniciando barrido","probabilidades_io":[0,0.3]`)
	ass.Contains(texto, `"msg":"Listando barridos","cantidad":1,"ultimo_id":1`)
}
