package internal

import (
	"context"
	"math/rand"
	"time"
)

// Reloj es la espera de un quantum. Es el único punto en el que la simulación se bloquea.
type Reloj interface {
	Esperar(ctx context.Context, d time.Duration) error
}

// RelojReal espera el quantum de verdad, salvo que se cancele el contexto.
type RelojReal struct{}

func (RelojReal) Esperar(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RelojVirtual no espera. Cuenta los quantums para que los tests puedan verificarlos.
type RelojVirtual struct {
	Esperas int
}

func (r *RelojVirtual) Esperar(ctx context.Context, _ time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.Esperas++
	return nil
}

// RelojFunc adapta una función a Reloj.
type RelojFunc func(ctx context.Context, d time.Duration) error

func (f RelojFunc) Esperar(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

// Aleatorio es la fuente de números al azar de la simulación. *rand.Rand la cumple.
type Aleatorio interface {
	Float64() float64
	Intn(n int) int
}

// NuevoAleatorio crea una fuente con la semilla dada; con semilla 0 usa la hora actual.
func NuevoAleatorio(semilla int64) *rand.Rand {
	if semilla == 0 {
		semilla = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(semilla))
}
