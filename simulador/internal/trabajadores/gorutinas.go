package trabajadores

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/sisoputnfrba/tp-golang-rr/utils/log"
)

const esperaLatidoPorDefecto = 5 * time.Second

// SupervisorGorutinas respalda cada proceso simulado con una gorutina que sólo avanza cuando
// la reanudan. Cada reanudación produce exactamente un latido.
//
// Suspender espera a que el latido pendiente se haya escrito, así que la cantidad de latidos
// de un trabajador es igual a la cantidad de quantums que se le dieron. Si el latido no termina
// en EsperaLatido, Suspender devuelve ErrSinRespuesta.
type SupervisorGorutinas struct {
	Log    *slog.Logger
	Salida io.Writer

	// EsperaLatido es cuánto espera Suspender a que termine el latido pendiente.
	EsperaLatido time.Duration

	mu     sync.Mutex
	activo *tarea

	muLatidos sync.Mutex
	latidos   map[int]int
}

type tarea struct {
	id int

	mu         sync.Mutex
	cond       *sync.Cond
	pendiente  bool
	ejecutando bool
	terminada  bool

	hecho chan struct{}
}

func (t *tarea) ID() int  { return t.id }
func (t *tarea) PID() int { return 0 }

func NewSupervisorGorutinas(logger *slog.Logger, salida io.Writer) *SupervisorGorutinas {
	if salida == nil {
		salida = io.Discard
	}
	return &SupervisorGorutinas{
		Log:          logger,
		Salida:       salida,
		EsperaLatido: esperaLatidoPorDefecto,
		latidos:      make(map[int]int),
	}
}

func (s *SupervisorGorutinas) esperaLatido() time.Duration {
	if s.EsperaLatido <= 0 {
		return esperaLatidoPorDefecto
	}
	return s.EsperaLatido
}

func (s *SupervisorGorutinas) Crear(ctx context.Context, id int) (Trabajador, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: P%d: %w", ErrCreacion, id, err)
	}

	t := &tarea{id: id, hecho: make(chan struct{})}
	t.cond = sync.NewCond(&t.mu)

	go s.correr(t)

	s.Log.Debug("Trabajador creado", log.IntAttr("id", id))
	return t, nil
}

func (s *SupervisorGorutinas) correr(t *tarea) {
	defer close(t.hecho)

	for {
		t.mu.Lock()
		for !t.pendiente && !t.terminada {
			t.cond.Wait()
		}
		if t.terminada {
			t.mu.Unlock()
			return
		}
		t.pendiente = false
		t.ejecutando = true
		t.mu.Unlock()

		s.latido(t.id)

		t.mu.Lock()
		t.ejecutando = false
		t.cond.Broadcast()
		t.mu.Unlock()
	}
}

func (s *SupervisorGorutinas) latido(id int) {
	s.muLatidos.Lock()
	defer s.muLatidos.Unlock()

	if s.latidos == nil {
		s.latidos = make(map[int]int)
	}
	s.latidos[id]++

	salida := s.Salida
	if salida == nil {
		salida = io.Discard
	}
	fmt.Fprintf(salida, "  [Worker %2d, gorutina] running...\n", id)
}

// Latidos devuelve cuántas veces escribió su latido el trabajador id.
func (s *SupervisorGorutinas) Latidos(id int) int {
	s.muLatidos.Lock()
	defer s.muLatidos.Unlock()

	return s.latidos[id]
}

func (s *SupervisorGorutinas) tarea(t Trabajador) (*tarea, error) {
	ta, ok := t.(*tarea)
	if !ok || ta == nil {
		return nil, ErrTrabajadorDesconocido
	}
	return ta, nil
}

func (s *SupervisorGorutinas) Reanudar(t Trabajador) error {
	ta, err := s.tarea(t)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activo != nil && s.activo != ta {
		return fmt.Errorf("%w: P%d sigue reanudado, no se puede reanudar P%d", ErrTrabajadorActivo, s.activo.id, ta.id)
	}

	ta.mu.Lock()
	if !ta.terminada {
		ta.pendiente = true
		ta.cond.Broadcast()
	}
	ta.mu.Unlock()

	s.activo = ta
	return nil
}

func (s *SupervisorGorutinas) Suspender(t Trabajador) error {
	ta, err := s.tarea(t)
	if err != nil {
		return err
	}

	espera := s.esperaLatido()
	vencido := false
	timer := time.AfterFunc(espera, func() {
		ta.mu.Lock()
		vencido = true
		ta.cond.Broadcast()
		ta.mu.Unlock()
	})

	ta.mu.Lock()
	for (ta.pendiente || ta.ejecutando) && !ta.terminada && !vencido {
		ta.cond.Wait()
	}
	colgado := (ta.pendiente || ta.ejecutando) && !ta.terminada
	ta.mu.Unlock()
	timer.Stop()

	if colgado {
		s.Log.Error("El trabajador no terminó su latido",
			log.IntAttr("id", ta.id),
			log.StringAttr("espera", espera.String()),
		)
		return fmt.Errorf("%w: P%d no terminó su latido en %s", ErrSinRespuesta, ta.id, espera)
	}

	s.mu.Lock()
	if s.activo == ta {
		s.activo = nil
	}
	s.mu.Unlock()
	return nil
}

func (s *SupervisorGorutinas) Terminar(t Trabajador) error {
	ta, err := s.tarea(t)
	if err != nil {
		return err
	}

	ta.mu.Lock()
	ta.terminada = true
	ta.pendiente = false
	ta.cond.Broadcast()
	ta.mu.Unlock()

	s.mu.Lock()
	if s.activo == ta {
		s.activo = nil
	}
	s.mu.Unlock()
	return nil
}

func (s *SupervisorGorutinas) Recolectar(t Trabajador) (bool, error) {
	ta, err := s.tarea(t)
	if err != nil {
		return false, err
	}

	select {
	case <-ta.hecho:
		return true, nil
	default:
		return false, nil
	}
}
