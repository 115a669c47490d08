package internal

import (
	"time"

	"github.com/sisoputnfrba/tp-golang-rr/simulador/internal/trabajadores"
)

const (
	EstadoNew        Estado = "NEW"
	EstadoReady      Estado = "READY"
	EstadoRunning    Estado = "RUN"
	EstadoWaiting    Estado = "WAIT"
	EstadoTerminated Estado = "DONE"
)

type Estado string

// PCB es el bloque de control de un proceso simulado. El ID es también su posición en la tabla
// de la simulación.
type PCB struct {
	ID             int                     `json:"id"`
	Trabajador     trabajadores.Trabajador `json:"-"`
	RafagaTotal    int                     `json:"rafaga_total"`
	RafagaRestante int                     `json:"rafaga_restante"`
	TiempoEspera   int                     `json:"tiempo_espera"`
	TiempoRetorno  int                     `json:"tiempo_retorno"`
	TiempoFin      int                     `json:"tiempo_fin"`
	TiempoIO       int                     `json:"tiempo_io"`
	Estado         Estado                  `json:"estado"`

	recolectado bool
}

// RegistroTick es lo que pasó en un tick. Ejecutando es -1 en un tick ocioso.
type RegistroTick struct {
	Tiempo      int    `json:"tiempo"`
	Ejecutando  int    `json:"ejecutando"`
	PID         int    `json:"pid"`
	Estado      Estado `json:"estado"`
	Restante    int    `json:"restante"`
	Espera      int    `json:"espera"`
	TiempoIO    int    `json:"tiempo_io"`
	ColaReady   []int  `json:"cola_ready"`
	ColaIO      []int  `json:"cola_io"`
	Evento      string `json:"evento"`
	Finalizados int    `json:"finalizados"`
}

// Resultado es el resumen de una corrida completa.
type Resultado struct {
	ProbIO          float64 `json:"probabilidad_io"`
	TiempoTotal     int     `json:"tiempo_total"`
	PromedioEspera  float64 `json:"promedio_espera"`
	PromedioRetorno float64 `json:"promedio_retorno"`
	Procesos        []PCB   `json:"procesos"`
	Deadlock        bool    `json:"deadlock"`
}

// ConfigSimulacion son los parámetros fijos de una corrida.
type ConfigSimulacion struct {
	CantidadProcesos int
	DuracionQuantum  time.Duration
	MaxRafaga        int
	MaxRafagaIO      int
	// Rafagas fija la ráfaga de cada proceso. Si está vacía se sortean en [1, MaxRafaga].
	Rafagas []int
}
