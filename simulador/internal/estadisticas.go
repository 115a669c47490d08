package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/sisoputnfrba/tp-golang-rr/simulador/internal/trabajadores"
	"github.com/sisoputnfrba/tp-golang-rr/simulador/pkg/simulador"
	"github.com/sisoputnfrba/tp-golang-rr/utils/log"
)

// ProbabilidadesPorDefecto es el barrido que se corre si no se configura otro.
var ProbabilidadesPorDefecto = []float64{0.0, 0.3, 0.6}

// Reportero corre una simulación por cada probabilidad de I/O y junta los resultados.
type Reportero struct {
	Log        *slog.Logger
	Config     ConfigSimulacion
	Supervisor trabajadores.Supervisor
	Reloj      Reloj
	Salida     io.Writer
}

func NewReportero(logger *slog.Logger, cfg ConfigSimulacion, supervisor trabajadores.Supervisor, reloj Reloj, salida io.Writer) *Reportero {
	if salida == nil {
		salida = io.Discard
	}
	return &Reportero{
		Log:        logger,
		Config:     cfg,
		Supervisor: supervisor,
		Reloj:      reloj,
		Salida:     salida,
	}
}

// ImprimirBanner escribe la cabecera del programa con los parámetros del barrido.
func (r *Reportero) ImprimirBanner() {
	_, _ = fmt.Fprintln(r.Salida, "OS Scheduling Simulation (Round Robin with signals)")
	_, _ = fmt.Fprintf(r.Salida, "Number of processes: %d, time quantum: %s, CPU burst: 1-%d\n",
		r.Config.CantidadProcesos, r.Config.DuracionQuantum, r.Config.MaxRafaga)
	_, _ = fmt.Fprintln(r.Salida, "This program will run simulations for different I/O probabilities.")
	_, _ = fmt.Fprintln(r.Salida)
}

// EjecutarBarrido corre las simulaciones en orden, una por probabilidad. Todas las corridas
// comparten la misma fuente aleatoria, creada con la semilla dada (0 usa la hora).
//
// Si una corrida falla se liberan sus trabajadores y se devuelve el error; un deadlock no
// es un error y queda marcado en el resultado.
func (r *Reportero) EjecutarBarrido(ctx context.Context, probabilidades []float64, semilla int64) ([]Resultado, error) {
	if len(probabilidades) == 0 {
		probabilidades = ProbabilidadesPorDefecto
	}

	rng := NuevoAleatorio(semilla)
	resultados := make([]Resultado, 0, len(probabilidades))
	conPendientes := make([]*Simulacion, 0)

	for _, prob := range probabilidades {
		sim, err := NuevaSimulacion(r.Config, prob, Dependencias{
			Log:        r.Log,
			Supervisor: r.Supervisor,
			Reloj:      r.Reloj,
			Aleatorio:  rng,
			Salida:     r.Salida,
		})
		if err != nil {
			return nil, err
		}

		res, err := sim.Ejecutar(ctx)
		if err != nil {
			sim.Liberar()
			r.liberarPendientes(conPendientes)
			return nil, fmt.Errorf("corrida con probabilidad de I/O %.2f: %w", prob, err)
		}

		ImprimirResultado(r.Salida, res)
		resultados = append(resultados, res)

		if pendientes := sim.Liberar(); pendientes > 0 {
			r.Log.Debug("Quedaron trabajadores sin recolectar, se reintenta al final",
				log.Float64Attr("probabilidad_io", prob),
				log.IntAttr("pendientes", pendientes),
			)
			conPendientes = append(conPendientes, sim)
		}

		r.Log.Info("Corrida terminada",
			log.Float64Attr("probabilidad_io", prob),
			log.Float64Attr("promedio_espera", res.PromedioEspera),
			log.IntAttr("tiempo_total", res.TiempoTotal),
			log.BoolAttr("deadlock", res.Deadlock),
		)
	}

	r.liberarPendientes(conPendientes)

	simulador.ImprimirResumen(r.Salida, Corridas(resultados))
	return resultados, nil
}

func (r *Reportero) liberarPendientes(sims []*Simulacion) {
	for _, sim := range sims {
		if pendientes := sim.Liberar(); pendientes > 0 {
			r.Log.Warn("Trabajadores sin recolectar al final del barrido",
				log.Float64Attr("probabilidad_io", sim.ProbIO),
				log.IntAttr("pendientes", pendientes),
			)
		}
	}
}

// Corridas pasa los resultados al formato que expone la API.
func Corridas(resultados []Resultado) []simulador.Corrida {
	corridas := make([]simulador.Corrida, 0, len(resultados))
	for _, res := range resultados {
		c := simulador.Corrida{
			ProbabilidadIO:  res.ProbIO,
			PromedioEspera:  res.PromedioEspera,
			PromedioRetorno: res.PromedioRetorno,
			TiempoTotal:     res.TiempoTotal,
			Deadlock:        res.Deadlock,
			Procesos:        make([]simulador.Proceso, 0, len(res.Procesos)),
		}
		for _, p := range res.Procesos {
			c.Procesos = append(c.Procesos, simulador.Proceso{
				ID:            p.ID,
				Rafaga:        p.RafagaTotal,
				TiempoEspera:  p.TiempoEspera,
				TiempoRetorno: p.TiempoRetorno,
				TiempoFin:     p.TiempoFin,
			})
		}
		corridas = append(corridas, c)
	}
	return corridas
}
