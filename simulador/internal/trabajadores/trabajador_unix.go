//go:build unix

package trabajadores

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// EjecutarTrabajador es el cuerpo del proceso trabajador. Se detiene solo y, cada vez que lo
// reanudan, escribe un latido y se vuelve a detener. Sólo vuelve si falla la autodetención;
// el supervisor lo termina con SIGTERM.
func EjecutarTrabajador(id int, salida io.Writer) error {
	pid := os.Getpid()
	for {
		if err := unix.Kill(pid, unix.SIGSTOP); err != nil {
			return fmt.Errorf("el trabajador %d no pudo detenerse: %w", id, err)
		}
		fmt.Fprintf(salida, "  [Worker %2d, pid=%5d] running...\n", id, pid)
	}
}
