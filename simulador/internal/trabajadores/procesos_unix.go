//go:build unix

package trabajadores

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	"golang.org/x/sys/unix"

	"github.com/sisoputnfrba/tp-golang-rr/utils/log"
)

// Crear lanza el trabajador y espera a que quede detenido.
func (s *SupervisorProcesos) Crear(ctx context.Context, id int) (Trabajador, error) {
	if len(s.Comando) == 0 {
		return nil, fmt.Errorf("%w: P%d: comando de trabajador vacío", ErrCreacion, id)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: P%d: %w", ErrCreacion, id, err)
	}

	args := append(append([]string{}, s.Comando[1:]...), strconv.Itoa(id))
	cmd := exec.Command(s.Comando[0], args...)
	cmd.Env = append(os.Environ(), s.Entorno...)
	cmd.Stderr = os.Stderr
	if s.Latidos {
		cmd.Stdout = os.Stdout
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: P%d: %w", ErrCreacion, id, err)
	}

	p := &proceso{id: id, pid: cmd.Process.Pid, os: cmd.Process}
	if err := s.esperarDetenido(p); err != nil {
		if !p.recolectado {
			_ = unix.Kill(p.pid, unix.SIGKILL)
			_, _ = p.os.Wait()
		}
		return nil, fmt.Errorf("%w: P%d (pid %d): %w", ErrCreacion, id, p.pid, err)
	}

	s.Log.Debug("Trabajador creado y detenido",
		log.IntAttr("id", id),
		log.IntAttr("pid", p.pid),
	)

	return p, nil
}

// esperarDetenido consulta con wait4 hasta que el hijo informe que se detuvo.
func (s *SupervisorProcesos) esperarDetenido(p *proceso) error {
	limite := time.Now().Add(s.esperaDetencion())
	for {
		var ws unix.WaitStatus
		wpid, err := unix.Wait4(p.pid, &ws, unix.WNOHANG|unix.WUNTRACED, nil)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return err
		}

		if wpid == p.pid {
			if ws.Stopped() {
				return nil
			}
			if ws.Exited() || ws.Signaled() {
				p.recolectado = true
				return fmt.Errorf("el trabajador terminó antes de detenerse (estado %d)", ws.ExitStatus())
			}
		}

		if time.Now().After(limite) {
			return fmt.Errorf("el trabajador no se detuvo en %s", s.esperaDetencion())
		}
		time.Sleep(time.Millisecond)
	}
}

func (s *SupervisorProcesos) Reanudar(t Trabajador) error {
	p, err := s.proceso(t)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activo != nil && s.activo != p {
		return fmt.Errorf("%w: P%d sigue reanudado, no se puede reanudar P%d", ErrTrabajadorActivo, s.activo.id, p.id)
	}
	if err := s.senal(p, unix.SIGCONT); err != nil {
		return err
	}
	s.activo = p
	return nil
}

func (s *SupervisorProcesos) Suspender(t Trabajador) error {
	p, err := s.proceso(t)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.senal(p, unix.SIGSTOP); err != nil {
		return err
	}
	if s.activo == p {
		s.activo = nil
	}
	return nil
}

// Terminar manda SIGTERM y después SIGCONT, porque un proceso detenido no atiende el SIGTERM
// hasta que lo continúan.
func (s *SupervisorProcesos) Terminar(t Trabajador) error {
	p, err := s.proceso(t)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activo == p {
		s.activo = nil
	}
	if p.terminado {
		return nil
	}
	if err := s.senal(p, unix.SIGTERM); err != nil {
		return err
	}
	if err := s.senal(p, unix.SIGCONT); err != nil {
		return err
	}
	p.terminado = true
	return nil
}

func (s *SupervisorProcesos) Recolectar(t Trabajador) (bool, error) {
	p, err := s.proceso(t)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if p.recolectado {
		return true, nil
	}

	for {
		var ws unix.WaitStatus
		wpid, err := unix.Wait4(p.pid, &ws, unix.WNOHANG, nil)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if errors.Is(err, unix.ECHILD) {
			// Ya lo recolectó alguien más: no queda nada por esperar.
			p.recolectado = true
			return true, nil
		}
		if err != nil {
			return false, fmt.Errorf("wait4 de P%d (pid %d): %w", p.id, p.pid, err)
		}
		if wpid == 0 {
			return false, nil
		}

		p.recolectado = true
		_ = p.os.Release()
		s.Log.Debug("Trabajador recolectado",
			log.IntAttr("id", p.id),
			log.IntAttr("pid", p.pid),
			log.IntAttr("estado_salida", ws.ExitStatus()),
		)
		return true, nil
	}
}

// senal manda sig al trabajador. Si el proceso ya no existe la señal se ignora: el estado del
// PCB es el que manda, no la respuesta del sistema operativo.
func (s *SupervisorProcesos) senal(p *proceso, sig unix.Signal) error {
	if p.recolectado {
		// El pid pudo haber sido reutilizado por otro proceso.
		s.Log.Debug("Señal omitida: el trabajador ya fue recolectado",
			log.IntAttr("id", p.id),
			log.StringAttr("senal", unix.SignalName(sig)),
		)
		return nil
	}

	err := unix.Kill(p.pid, sig)
	if errors.Is(err, unix.ESRCH) {
		s.Log.Debug("Señal ignorada: el trabajador ya no existe",
			log.IntAttr("id", p.id),
			log.IntAttr("pid", p.pid),
			log.StringAttr("senal", unix.SignalName(sig)),
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("no se pudo enviar %s a P%d (pid %d): %w", unix.SignalName(sig), p.id, p.pid, err)
	}
	return nil
}
