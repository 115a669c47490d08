//go:build !unix

package trabajadores

import "context"

func (s *SupervisorProcesos) Crear(_ context.Context, _ int) (Trabajador, error) {
	return nil, ErrNoSoportado
}

func (s *SupervisorProcesos) Reanudar(_ Trabajador) error  { return ErrNoSoportado }
func (s *SupervisorProcesos) Suspender(_ Trabajador) error { return ErrNoSoportado }
func (s *SupervisorProcesos) Terminar(_ Trabajador) error  { return ErrNoSoportado }

func (s *SupervisorProcesos) Recolectar(_ Trabajador) (bool, error) {
	return false, ErrNoSoportado
}
