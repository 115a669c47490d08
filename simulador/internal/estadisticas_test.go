package internal

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sisoputnfrba/tp-golang-rr/simulador/internal/trabajadores"
)

func nuevoReportero(cfg ConfigSimulacion, salida *bytes.Buffer) *Reportero {
	return NewReportero(
		loggerPrueba(),
		cfg,
		trabajadores.NewSupervisorGorutinas(loggerPrueba(), nil),
		&RelojVirtual{},
		salida,
	)
}

func TestReportero_EjecutarBarrido(t *testing.T) {
	ass := assert.New(t)
	var salida bytes.Buffer
	r := nuevoReportero(configPrueba(2, 2, 2, 2), &salida)

	resultados, err := r.EjecutarBarrido(context.Background(), nil, 11)
	require.NoError(t, err)
	require.Len(t, resultados, 3)

	for i, prob := range ProbabilidadesPorDefecto {
		ass.Equal(prob, resultados[i].ProbIO)
		ass.False(resultados[i].Deadlock)
		ass.Len(resultados[i].Procesos, 4)
		for _, p := range resultados[i].Procesos {
			ass.Equal(EstadoTerminated, p.Estado)
		}
	}
	ass.Equal(4.5, resultados[0].PromedioEspera)
	ass.Equal(8, resultados[0].TiempoTotal)
	// Con I/O el tiempo total nunca es menor que la suma de ráfagas.
	ass.GreaterOrEqual(resultados[2].TiempoTotal, 8)

	texto := salida.String()
	ass.Contains(texto, "[Result] IO probability = 0.00")
	ass.Contains(texto, "[Result] IO probability = 0.30")
	ass.Contains(texto, "[Result] IO probability = 0.60")
	ass.Contains(texto, "Average waiting time = 4.50")
	ass.Contains(texto, "turnaround_time")
	ass.Contains(texto, "Summary: effect of I/O probability on average waiting time")
}

func TestReportero_MismaSemillaMismoResultado(t *testing.T) {
	cfg := ConfigSimulacion{
		CantidadProcesos: 5,
		DuracionQuantum:  time.Second,
		MaxRafaga:        8,
		MaxRafagaIO:      4,
	}
	probs := []float64{0.3, 0.6}

	a, err := nuevoReportero(cfg, &bytes.Buffer{}).EjecutarBarrido(context.Background(), probs, 99)
	require.NoError(t, err)
	b, err := nuevoReportero(cfg, &bytes.Buffer{}).EjecutarBarrido(context.Background(), probs, 99)
	require.NoError(t, err)

	require.Len(t, a, 2)
	for i := range a {
		assert.Equal(t, a[i].TiempoTotal, b[i].TiempoTotal)
		assert.Equal(t, a[i].PromedioEspera, b[i].PromedioEspera)
		for j := range a[i].Procesos {
			assert.Equal(t, a[i].Procesos[j].RafagaTotal, b[i].Procesos[j].RafagaTotal)
			assert.Equal(t, a[i].Procesos[j].TiempoEspera, b[i].Procesos[j].TiempoEspera)
		}
	}
}

func TestReportero_ProbabilidadInvalida(t *testing.T) {
	r := nuevoReportero(configPrueba(1, 1), &bytes.Buffer{})

	_, err := r.EjecutarBarrido(context.Background(), []float64{0, 2}, 1)
	assert.ErrorIs(t, err, ErrConfiguracionInvalida)
}

func TestReportero_FallaCreacion(t *testing.T) {
	supervisor := &supervisorQueFalla{
		SupervisorGorutinas: trabajadores.NewSupervisorGorutinas(loggerPrueba(), nil),
		fallaEn:             0,
	}
	r := NewReportero(loggerPrueba(), configPrueba(1, 1), supervisor, &RelojVirtual{}, nil)

	resultados, err := r.EjecutarBarrido(context.Background(), []float64{0}, 1)
	assert.Nil(t, resultados)
	assert.ErrorIs(t, err, trabajadores.ErrCreacion)
}

func TestCorridas(t *testing.T) {
	ass := assert.New(t)
	corridas := Corridas([]Resultado{{
		ProbIO:          0.3,
		TiempoTotal:     10,
		PromedioEspera:  2.5,
		PromedioRetorno: 5,
		Deadlock:        true,
		Procesos: []PCB{
			{ID: 0, RafagaTotal: 3, TiempoEspera: 2, TiempoRetorno: 5, TiempoFin: 5},
			{ID: 1, RafagaTotal: 2, TiempoEspera: 3, TiempoRetorno: 5, TiempoFin: 5},
		},
	}})

	require.Len(t, corridas, 1)
	c := corridas[0]
	ass.Equal(0.3, c.ProbabilidadIO)
	ass.Equal(10, c.TiempoTotal)
	ass.Equal(2.5, c.PromedioEspera)
	ass.True(c.Deadlock)
	require.Len(t, c.Procesos, 2)
	ass.Equal(1, c.Procesos[1].ID)
	ass.Equal(2, c.Procesos[1].Rafaga)
	ass.Equal(3, c.Procesos[1].TiempoEspera)
}
