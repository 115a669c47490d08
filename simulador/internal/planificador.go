package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/sisoputnfrba/tp-golang-rr/simulador/internal/trabajadores"
	"github.com/sisoputnfrba/tp-golang-rr/utils/log"
)

var (
	// ErrDeadlock indica que las dos colas quedaron vacías con procesos sin terminar.
	ErrDeadlock = errors.New("deadlock: colas ready e I/O vacías con procesos sin terminar")
	// ErrConfiguracionInvalida indica parámetros de simulación imposibles.
	ErrConfiguracionInvalida = errors.New("configuración de simulación inválida")
)

// Dependencias son los colaboradores de una Simulacion. Sólo Supervisor es obligatorio.
type Dependencias struct {
	Log        *slog.Logger
	Supervisor trabajadores.Supervisor
	Reloj      Reloj
	Aleatorio  Aleatorio
	// Salida recibe la tabla de ticks. Por defecto se descarta.
	Salida io.Writer
}

// Simulacion es una corrida de round robin. Es dueña de la tabla de PCBs y de las dos colas
// mientras dura, así que no se comparte entre gorutinas.
type Simulacion struct {
	Log          *slog.Logger
	Config       ConfigSimulacion
	ProbIO       float64
	PCBs         []*PCB
	ReadyQueue   *Cola
	IOQueue      *Cola
	TiempoActual int
	Finalizados  int

	supervisor trabajadores.Supervisor
	reloj      Reloj
	rng        Aleatorio
	salida     io.Writer
	iniciada   bool
}

// NuevaSimulacion valida la configuración y arma los PCBs en estado NEW con sus ráfagas.
// Todavía no crea trabajadores: eso lo hace Iniciar.
func NuevaSimulacion(cfg ConfigSimulacion, probIO float64, deps Dependencias) (*Simulacion, error) {
	if err := validarConfig(cfg, probIO); err != nil {
		return nil, err
	}
	if deps.Supervisor == nil {
		return nil, fmt.Errorf("%w: falta el supervisor de trabajadores", ErrConfiguracionInvalida)
	}
	if deps.Log == nil {
		deps.Log = slog.Default()
	}
	if deps.Reloj == nil {
		deps.Reloj = RelojReal{}
	}
	if deps.Aleatorio == nil {
		deps.Aleatorio = NuevoAleatorio(0)
	}
	if deps.Salida == nil {
		deps.Salida = io.Discard
	}

	n := cfg.CantidadProcesos
	s := &Simulacion{
		Log:        deps.Log,
		Config:     cfg,
		ProbIO:     probIO,
		PCBs:       make([]*PCB, n),
		ReadyQueue: NuevaCola("ready", n),
		IOQueue:    NuevaCola("io", n),
		supervisor: deps.Supervisor,
		reloj:      deps.Reloj,
		rng:        deps.Aleatorio,
		salida:     deps.Salida,
	}

	for i := 0; i < n; i++ {
		var rafaga int
		if len(cfg.Rafagas) > 0 {
			rafaga = cfg.Rafagas[i]
		} else {
			rafaga = s.rng.Intn(cfg.MaxRafaga) + 1
		}
		s.PCBs[i] = &PCB{
			ID:             i,
			RafagaTotal:    rafaga,
			RafagaRestante: rafaga,
			TiempoFin:      -1,
			Estado:         EstadoNew,
		}
	}

	return s, nil
}

func validarConfig(cfg ConfigSimulacion, probIO float64) error {
	if cfg.CantidadProcesos < 1 {
		return fmt.Errorf("%w: cantidad de procesos %d", ErrConfiguracionInvalida, cfg.CantidadProcesos)
	}
	if probIO < 0 || probIO > 1 {
		return fmt.Errorf("%w: probabilidad de I/O %.2f fuera de [0, 1]", ErrConfiguracionInvalida, probIO)
	}
	if cfg.MaxRafagaIO < 1 {
		return fmt.Errorf("%w: ráfaga máxima de I/O %d", ErrConfiguracionInvalida, cfg.MaxRafagaIO)
	}
	if cfg.DuracionQuantum < 0 {
		return fmt.Errorf("%w: quantum negativo", ErrConfiguracionInvalida)
	}

	if len(cfg.Rafagas) == 0 {
		if cfg.MaxRafaga < 1 {
			return fmt.Errorf("%w: ráfaga máxima %d", ErrConfiguracionInvalida, cfg.MaxRafaga)
		}
		return nil
	}
	if len(cfg.Rafagas) != cfg.CantidadProcesos {
		return fmt.Errorf("%w: %d ráfagas para %d procesos", ErrConfiguracionInvalida, len(cfg.Rafagas), cfg.CantidadProcesos)
	}
	for i, r := range cfg.Rafagas {
		if r < 1 {
			return fmt.Errorf("%w: ráfaga de P%d es %d", ErrConfiguracionInvalida, i, r)
		}
	}
	return nil
}

// Iniciar crea un trabajador detenido por PCB y pasa todos los procesos a READY en orden de ID.
// Si falla la creación de alguno, libera los que ya se crearon y devuelve el error.
func (s *Simulacion) Iniciar(ctx context.Context) error {
	if s.iniciada {
		return nil
	}

	for _, p := range s.PCBs {
		t, err := s.supervisor.Crear(ctx, p.ID)
		if err != nil {
			s.Log.Error("No se pudo crear el trabajador",
				log.IntAttr("id", p.ID),
				log.ErrAttr(err),
			)
			s.Liberar()
			return err
		}
		p.Trabajador = t

		if err := s.ReadyQueue.Push(p.ID); err != nil {
			s.Liberar()
			return err
		}
		s.cambiarEstado(p, EstadoReady)
	}

	s.iniciada = true
	return nil
}

// Tick ejecuta un quantum de la simulación y devuelve lo que pasó en él. Si ctx se cancela
// durante el quantum, el proceso elegido vuelve a READY al final de la cola y se puede seguir
// con otro Tick.
func (s *Simulacion) Tick(ctx context.Context) (RegistroTick, error) {
	if !s.iniciada {
		return RegistroTick{}, errors.New("la simulación no fue iniciada")
	}

	// Se elige la cabeza de ready, si hay.
	var corriendo *PCB
	if !s.ReadyQueue.IsEmpty() {
		id, err := s.ReadyQueue.Pop()
		if err != nil {
			return RegistroTick{}, err
		}
		corriendo = s.PCBs[id]
		s.cambiarEstado(corriendo, EstadoRunning)
		if err := s.supervisor.Reanudar(corriendo.Trabajador); err != nil {
			return RegistroTick{}, fmt.Errorf("no se pudo reanudar P%d: %w", corriendo.ID, err)
		}
	}

	if err := s.reloj.Esperar(ctx, s.Config.DuracionQuantum); err != nil {
		// El quantum no se cuenta: el proceso vuelve al final de ready sin gastar ráfaga.
		if corriendo != nil {
			_ = s.supervisor.Suspender(corriendo.Trabajador)
			s.cambiarEstado(corriendo, EstadoReady)
			if errPush := s.ReadyQueue.Push(corriendo.ID); errPush != nil {
				return RegistroTick{}, errors.Join(err, errPush)
			}
		}
		return RegistroTick{}, err
	}
	s.TiempoActual++

	evento := "idle"
	if corriendo != nil {
		var err error
		if evento, err = s.finDeQuantum(corriendo); err != nil {
			return RegistroTick{}, err
		}
	}

	if err := s.atenderIO(); err != nil {
		return RegistroTick{}, err
	}

	// Espera todo el que terminó el tick en ready, salvo el que acaba de correr.
	for _, p := range s.PCBs {
		if p != corriendo && p.Estado == EstadoReady {
			p.TiempoEspera++
		}
	}

	reg := s.registrar(corriendo, evento)

	if s.ReadyQueue.IsEmpty() && s.IOQueue.IsEmpty() && s.Finalizados < len(s.PCBs) {
		return reg, fmt.Errorf("%w: tiempo %d, %d de %d procesos terminados",
			ErrDeadlock, s.TiempoActual, s.Finalizados, len(s.PCBs))
	}

	return reg, nil
}

// finDeQuantum suspende al proceso que corrió y decide a dónde va. Terminar tiene prioridad
// sobre el sorteo de I/O.
func (s *Simulacion) finDeQuantum(p *PCB) (string, error) {
	if err := s.supervisor.Suspender(p.Trabajador); err != nil {
		return "", fmt.Errorf("no se pudo suspender P%d: %w", p.ID, err)
	}
	p.RafagaRestante--

	if p.RafagaRestante <= 0 {
		p.RafagaRestante = 0
		s.cambiarEstado(p, EstadoTerminated)
		p.TiempoFin = s.TiempoActual
		p.TiempoRetorno = s.TiempoActual // todos llegan en el tiempo 0
		s.Finalizados++

		if err := s.supervisor.Terminar(p.Trabajador); err != nil {
			return "", fmt.Errorf("no se pudo terminar P%d: %w", p.ID, err)
		}
		s.recolectar(p)
		return fmt.Sprintf("P%d finished", p.ID), nil
	}

	if s.rng.Float64() < s.ProbIO {
		s.cambiarEstado(p, EstadoWaiting)
		p.TiempoIO = s.rng.Intn(s.Config.MaxRafagaIO) + 1
		if err := s.IOQueue.Push(p.ID); err != nil {
			return "", err
		}
		return fmt.Sprintf("P%d -> I/O (%d)", p.ID, p.TiempoIO), nil
	}

	s.cambiarEstado(p, EstadoReady)
	if err := s.ReadyQueue.Push(p.ID); err != nil {
		return "", err
	}
	return fmt.Sprintf("P%d time slice", p.ID), nil
}

// atenderIO recorre la cola de I/O una sola vez. Se toma el largo antes de empezar para que
// nadie se procese dos veces en el mismo tick.
func (s *Simulacion) atenderIO() error {
	pendientes := s.IOQueue.Len()
	for i := 0; i < pendientes; i++ {
		id, err := s.IOQueue.Pop()
		if err != nil {
			return err
		}
		p := s.PCBs[id]
		if p.Estado != EstadoWaiting {
			s.Log.Warn("Proceso en la cola de I/O sin estar esperando, se descarta",
				log.IntAttr("id", p.ID),
				log.StringAttr("estado", string(p.Estado)),
			)
			continue
		}

		p.TiempoIO--
		if p.TiempoIO > 0 {
			if err := s.IOQueue.Push(id); err != nil {
				return err
			}
			continue
		}

		p.TiempoIO = 0
		s.cambiarEstado(p, EstadoReady)
		if err := s.ReadyQueue.Push(id); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulacion) recolectar(p *PCB) {
	if p.recolectado || p.Trabajador == nil {
		return
	}
	listo, err := s.supervisor.Recolectar(p.Trabajador)
	if err != nil {
		s.Log.Warn("No se pudo recolectar el trabajador",
			log.IntAttr("id", p.ID),
			log.ErrAttr(err),
		)
		return
	}
	p.recolectado = listo
}

// Ejecutar inicia la simulación si hace falta y la corre hasta que terminan todos los procesos.
// Un deadlock corta la corrida antes pero no es un error: queda marcado en el Resultado.
func (s *Simulacion) Ejecutar(ctx context.Context) (Resultado, error) {
	if err := s.Iniciar(ctx); err != nil {
		return Resultado{}, err
	}

	s.imprimirInicio()

	deadlock := false
	for s.Finalizados < len(s.PCBs) {
		reg, err := s.Tick(ctx)
		if err != nil && !errors.Is(err, ErrDeadlock) {
			return Resultado{}, err
		}
		s.imprimirTick(reg)

		if err != nil {
			s.Log.Error("Deadlock detectado, se corta la corrida", log.ErrAttr(err))
			fmt.Fprintln(s.salida, "DEADLOCK DETECTED -- forcing termination")
			deadlock = true
			break
		}
	}

	s.imprimirSeparador()

	res := s.Resultado()
	res.Deadlock = deadlock
	return res, nil
}

// Resultado calcula los promedios con el estado actual de los PCBs.
func (s *Simulacion) Resultado() Resultado {
	res := Resultado{
		ProbIO:      s.ProbIO,
		TiempoTotal: s.TiempoActual,
		Procesos:    make([]PCB, len(s.PCBs)),
	}

	espera, retorno := 0, 0
	for i, p := range s.PCBs {
		res.Procesos[i] = *p
		espera += p.TiempoEspera
		retorno += p.TiempoRetorno
	}
	n := float64(len(s.PCBs))
	res.PromedioEspera = float64(espera) / n
	res.PromedioRetorno = float64(retorno) / n
	return res
}

// Liberar termina los trabajadores que siguen vivos y los recolecta sin bloquear. Devuelve
// cuántos quedaron sin recolectar; se puede volver a llamar más tarde.
func (s *Simulacion) Liberar() int {
	pendientes := 0
	for _, p := range s.PCBs {
		if p.Trabajador == nil || p.recolectado {
			continue
		}
		if p.Estado != EstadoTerminated {
			if err := s.supervisor.Terminar(p.Trabajador); err != nil {
				s.Log.Warn("No se pudo terminar el trabajador",
					log.IntAttr("id", p.ID),
					log.ErrAttr(err),
				)
			}
		}
		s.recolectar(p)
		if !p.recolectado {
			pendientes++
		}
	}
	return pendientes
}

func (s *Simulacion) cambiarEstado(p *PCB, nuevo Estado) {
	s.Log.Debug(fmt.Sprintf("## (%d) Pasa del estado %s al estado %s", p.ID, p.Estado, nuevo))
	p.Estado = nuevo
}

func (s *Simulacion) registrar(p *PCB, evento string) RegistroTick {
	reg := RegistroTick{
		Tiempo:      s.TiempoActual,
		Ejecutando:  -1,
		ColaReady:   s.ReadyQueue.Snapshot(),
		ColaIO:      s.IOQueue.Snapshot(),
		Evento:      evento,
		Finalizados: s.Finalizados,
	}
	if p != nil {
		reg.Ejecutando = p.ID
		reg.PID = p.Trabajador.PID()
		reg.Estado = p.Estado
		reg.Restante = p.RafagaRestante
		reg.Espera = p.TiempoEspera
		reg.TiempoIO = p.TiempoIO
	}

	s.Log.Debug("Tick",
		log.IntAttr("tiempo", reg.Tiempo),
		log.IntAttr("ejecutando", reg.Ejecutando),
		log.StringAttr("ready", FormatearIDs(reg.ColaReady)),
		log.StringAttr("io", FormatearIDs(reg.ColaIO)),
		log.StringAttr("evento", reg.Evento),
	)
	return reg
}
