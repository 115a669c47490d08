// Package trabajadores controla los trabajadores que respaldan a cada proceso simulado.
//
// Cada PCB del planificador tiene exactamente un trabajador. El planificador nunca toca el
// trabajador directamente: lo crea, reanuda, suspende, termina y recolecta a través de un
// Supervisor. Hay dos implementaciones: SupervisorProcesos, con procesos reales del sistema
// operativo detenidos y reanudados con señales, y SupervisorGorutinas, con tareas dentro del
// mismo proceso que se pausan con flags explícitos.
package trabajadores

import (
	"context"
	"errors"
)

var (
	// ErrCreacion indica que no se pudo crear un trabajador. Es fatal para toda la simulación.
	ErrCreacion = errors.New("no se pudo crear el trabajador")
	// ErrTrabajadorActivo indica que se quiso reanudar un trabajador mientras otro seguía reanudado.
	ErrTrabajadorActivo = errors.New("ya hay otro trabajador en ejecución")
	// ErrTrabajadorDesconocido indica que el handle no pertenece a este supervisor.
	ErrTrabajadorDesconocido = errors.New("trabajador desconocido para este supervisor")
	// ErrSinRespuesta indica que el trabajador no volvió a quedar suspendido a tiempo.
	ErrSinRespuesta = errors.New("el trabajador no respondió a tiempo")
	// ErrNoSoportado indica que la plataforma no permite controlar procesos con señales.
	ErrNoSoportado = errors.New("supervisor de procesos no soportado en esta plataforma")
)

// Trabajador es el handle opaco de un trabajador. Sólo el supervisor que lo creó sabe usarlo.
type Trabajador interface {
	// ID es el identificador lógico del proceso simulado (0..N-1).
	ID() int
	// PID es el PID real del sistema operativo, o 0 si el trabajador no es un proceso.
	PID() int
}

// Supervisor es el conjunto de primitivas de ciclo de vida que usa el planificador.
//
// Suspender y Terminar son idempotentes: si el trabajador ya no existe no devuelven error.
// Recolectar nunca bloquea; devuelve false si el trabajador todavía no terminó y se puede
// reintentar más tarde.
type Supervisor interface {
	Crear(ctx context.Context, id int) (Trabajador, error)
	Reanudar(t Trabajador) error
	Suspender(t Trabajador) error
	Terminar(t Trabajador) error
	Recolectar(t Trabajador) (bool, error)
}
