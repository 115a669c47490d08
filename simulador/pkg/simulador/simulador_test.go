package simulador

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"

	"github.com/sisoputnfrba/tp-golang-rr/utils/log"
)

const barridoJSON = `{"id":3,"corridas":[` +
	`{"probabilidad_io":0,"promedio_espera":4.5,"promedio_retorno":6.5,"tiempo_total":8,"deadlock":false,` +
	`"procesos":[{"id":0,"rafaga":2,"tiempo_espera":3,"tiempo_retorno":5,"tiempo_fin":5}]}]}`

func TestSimulador_EjecutarBarrido(t *testing.T) {
	s := NewSimulador("1234", 5678, log.BuildLoggerConSalida(io.Discard, "debug"))
	httpmock.Activate(t)
	defer httpmock.DeactivateAndReset()

	url := fmt.Sprintf("http://%s:%d/simulaciones", s.IP, s.Puerto)

	tests := []struct {
		name    string
		expects func()
		wantID  int
		wantErr bool
	}{
		{
			name: "Barrido exitoso",
			expects: func() {
				httpmock.RegisterResponder("POST", url,
					func(req *http.Request) (*http.Response, error) {
						body, _ := io.ReadAll(req.Body)
						if !strings.Contains(string(body), `"probabilidades_io":[0,0.5]`) ||
							!strings.Contains(string(body), `"semilla":7`) {
							return httpmock.NewStringResponse(400, "cuerpo inesperado"), nil
						}
						return httpmock.NewStringResponse(200, barridoJSON), nil
					},
				)
			},
			wantID: 3,
		},
		{
			name: "Probabilidad inválida",
			expects: func() {
				httpmock.RegisterResponder("POST", url,
					httpmock.NewStringResponder(400, "probabilidad de I/O fuera de rango"))
			},
			wantErr: true,
		},
		{
			name: "Respuesta que no es JSON",
			expects: func() {
				httpmock.RegisterResponder("POST", url,
					httpmock.NewStringResponder(200, "hola"))
			},
			wantErr: true,
		},
		{
			name: "Simulador caído",
			expects: func() {
				httpmock.RegisterResponder("POST", url,
					httpmock.NewErrorResponder(fmt.Errorf("connection refused")))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.expects()

			barrido, err := s.EjecutarBarrido(context.Background(), []float64{0, 0.5}, 7)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, barrido)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantID, barrido.ID)
			assert.Len(t, barrido.Corridas, 1)
			assert.Equal(t, 4.5, barrido.Corridas[0].PromedioEspera)
			assert.Equal(t, 8, barrido.Corridas[0].TiempoTotal)
		})
	}
}

func TestSimulador_ObtenerBarrido(t *testing.T) {
	ass := assert.New(t)
	s := NewSimulador("1234", 5678, log.BuildLoggerConSalida(io.Discard, "debug"))
	httpmock.Activate(t)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", fmt.Sprintf("http://%s:%d/simulaciones/3", s.IP, s.Puerto),
		httpmock.NewStringResponder(200, barridoJSON))
	httpmock.RegisterResponder("GET", fmt.Sprintf("http://%s:%d/simulaciones/9", s.IP, s.Puerto),
		httpmock.NewStringResponder(404, "barrido no encontrado"))

	barrido, err := s.ObtenerBarrido(context.Background(), 3)
	ass.NoError(err)
	ass.Equal(3, barrido.ID)
	ass.Equal(3, barrido.Corridas[0].Procesos[0].TiempoEspera)

	barrido, err = s.ObtenerBarrido(context.Background(), 9)
	ass.Nil(barrido)
	ass.ErrorContains(err, "404")
	ass.ErrorContains(err, "barrido no encontrado")
}

func TestImprimirResumen(t *testing.T) {
	ass := assert.New(t)
	var salida bytes.Buffer

	ImprimirResumen(&salida, []Corrida{
		{ProbabilidadIO: 0, PromedioEspera: 4.5, PromedioRetorno: 6.5, TiempoTotal: 8},
		{ProbabilidadIO: 0.3, PromedioEspera: 2.25, TiempoTotal: 12, Deadlock: true},
	})

	texto := salida.String()
	ass.Contains(texto, "Summary: effect of I/O probability on average waiting time")
	ass.Contains(texto, "IO_prob")
	ass.Contains(texto, "avg_waiting_time")
	ass.Contains(texto, "4.50")
	ass.Contains(texto, "0.30")
	ass.Contains(texto, "2.25 (deadlock)")
}
