//go:build !unix

package trabajadores

import "io"

func EjecutarTrabajador(_ int, _ io.Writer) error {
	return ErrNoSoportado
}
