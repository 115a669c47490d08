package trabajadores

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// ArgumentoTrabajador es el subcomando con el que el simulador se vuelve a ejecutar como trabajador.
const ArgumentoTrabajador = "trabajador"

const esperaDetencionPorDefecto = 5 * time.Second

// SupervisorProcesos respalda cada proceso simulado con un proceso real del sistema operativo.
//
// El trabajador se lanza con Comando más el id como último argumento, y se espera a que se
// detenga solo (SIGSTOP) antes de devolver el handle. Desde ahí se maneja con SIGCONT, SIGSTOP
// y SIGTERM, y se recolecta con wait4 sin bloquear.
type SupervisorProcesos struct {
	Log *slog.Logger
	// Comando es el ejecutable y los argumentos fijos del trabajador.
	Comando []string
	// Entorno se agrega al entorno heredado del simulador.
	Entorno []string
	// Latidos indica si la salida del trabajador va a stdout o se descarta.
	Latidos bool
	// EsperaDetencion es cuánto se espera a que el trabajador recién creado se detenga.
	EsperaDetencion time.Duration

	mu     sync.Mutex
	activo *proceso
}

type proceso struct {
	id          int
	pid         int
	os          *os.Process
	terminado   bool
	recolectado bool
}

func (p *proceso) ID() int  { return p.id }
func (p *proceso) PID() int { return p.pid }

func NewSupervisorProcesos(logger *slog.Logger, comando []string, latidos bool) *SupervisorProcesos {
	return &SupervisorProcesos{
		Log:             logger,
		Comando:         comando,
		Latidos:         latidos,
		EsperaDetencion: esperaDetencionPorDefecto,
	}
}

// ComandoPropio devuelve el comando para relanzar el ejecutable actual en modo trabajador.
func ComandoPropio() ([]string, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("no se pudo obtener el ejecutable actual: %w", err)
	}
	return []string{exe, ArgumentoTrabajador}, nil
}

func (s *SupervisorProcesos) proceso(t Trabajador) (*proceso, error) {
	p, ok := t.(*proceso)
	if !ok || p == nil {
		return nil, ErrTrabajadorDesconocido
	}
	return p, nil
}

func (s *SupervisorProcesos) esperaDetencion() time.Duration {
	if s.EsperaDetencion <= 0 {
		return esperaDetencionPorDefecto
	}
	return s.EsperaDetencion
}
