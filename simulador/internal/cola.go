package internal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrColaLlena = errors.New("cola llena")
	ErrColaVacia = errors.New("cola vacía")
)

// Cola es un buffer circular de IDs de proceso con capacidad fija.
type Cola struct {
	Nombre string

	ids    []int
	cabeza int
	fin    int
	tamano int
}

func NuevaCola(nombre string, capacidad int) *Cola {
	return &Cola{
		Nombre: nombre,
		ids:    make([]int, capacidad),
	}
}

// Push agrega el id al final. Si la cola está llena devuelve ErrColaLlena y no la modifica.
func (c *Cola) Push(id int) error {
	if c.tamano == len(c.ids) {
		return fmt.Errorf("%w: %s (capacidad %d) no admite a P%d", ErrColaLlena, c.Nombre, len(c.ids), id)
	}
	c.ids[c.fin] = id
	c.fin = (c.fin + 1) % len(c.ids)
	c.tamano++
	return nil
}

// Pop saca el id de la cabeza.
func (c *Cola) Pop() (int, error) {
	if c.tamano == 0 {
		return 0, fmt.Errorf("%w: %s", ErrColaVacia, c.Nombre)
	}
	id := c.ids[c.cabeza]
	c.cabeza = (c.cabeza + 1) % len(c.ids)
	c.tamano--
	return id, nil
}

func (c *Cola) IsEmpty() bool { return c.tamano == 0 }

func (c *Cola) Len() int { return c.tamano }

func (c *Cola) Capacidad() int { return len(c.ids) }

// Snapshot copia los ids en orden, sin tocar la cola.
func (c *Cola) Snapshot() []int {
	ids := make([]int, 0, c.tamano)
	for i := 0; i < c.tamano; i++ {
		ids = append(ids, c.ids[(c.cabeza+i)%len(c.ids)])
	}
	return ids
}

// String devuelve la cola como "P1 P2 P3", o "-" si está vacía.
func (c *Cola) String() string {
	return FormatearIDs(c.Snapshot())
}

func FormatearIDs(ids []int) string {
	if len(ids) == 0 {
		return "-"
	}
	partes := make([]string, len(ids))
	for i, id := range ids {
		partes[i] = "P" + strconv.Itoa(id)
	}
	return strings.Join(partes, " ")
}
