package api

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/sisoputnfrba/tp-golang-rr/simulador/internal"
	"github.com/sisoputnfrba/tp-golang-rr/simulador/internal/trabajadores"
)

const (
	TrabajadoresProcesos  = "procesos"
	TrabajadoresGorutinas = "gorutinas"

	RelojReal    = "real"
	RelojVirtual = "virtual"
)

type Config struct {
	IpSimulador      string    `json:"ip_simulador"`
	PuertoSimulador  int       `json:"puerto_simulador"`
	CantidadProcesos int       `json:"cantidad_procesos"`
	DuracionQuantum  int       `json:"duracion_quantum"`
	MaxRafaga        int       `json:"max_rafaga"`
	MaxRafagaIO      int       `json:"max_rafaga_io"`
	Rafagas          []int     `json:"rafagas"`
	ProbabilidadesIO []float64 `json:"probabilidades_io"`
	Semilla          int64     `json:"semilla"`
	Trabajadores     string    `json:"trabajadores"`
	Reloj            string    `json:"reloj"`
	Latidos          bool      `json:"latidos"`
	LogLevel         string    `json:"log_level"`
}

// ConfigSimulacion arma los parámetros de una corrida. DuracionQuantum está en milisegundos.
func (c *Config) ConfigSimulacion() internal.ConfigSimulacion {
	return internal.ConfigSimulacion{
		CantidadProcesos: c.CantidadProcesos,
		DuracionQuantum:  time.Duration(c.DuracionQuantum) * time.Millisecond,
		MaxRafaga:        c.MaxRafaga,
		MaxRafagaIO:      c.MaxRafagaIO,
		Rafagas:          c.Rafagas,
	}
}

// NuevoSupervisor crea el supervisor que pide la configuración. Por defecto usa procesos reales.
func (c *Config) NuevoSupervisor(logger *slog.Logger) (trabajadores.Supervisor, error) {
	switch c.Trabajadores {
	case TrabajadoresProcesos, "":
		comando, err := trabajadores.ComandoPropio()
		if err != nil {
			return nil, err
		}
		return trabajadores.NewSupervisorProcesos(logger, comando, c.Latidos), nil
	case TrabajadoresGorutinas:
		var salida io.Writer
		if c.Latidos {
			salida = os.Stdout
		}
		return trabajadores.NewSupervisorGorutinas(logger, salida), nil
	default:
		return nil, fmt.Errorf("%w: trabajadores %q", internal.ErrConfiguracionInvalida, c.Trabajadores)
	}
}

func (c *Config) NuevoReloj() (internal.Reloj, error) {
	switch c.Reloj {
	case RelojReal, "":
		return internal.RelojReal{}, nil
	case RelojVirtual:
		return &internal.RelojVirtual{}, nil
	default:
		return nil, fmt.Errorf("%w: reloj %q", internal.ErrConfiguracionInvalida, c.Reloj)
	}
}
