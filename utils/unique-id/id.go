package uniqueid

import "sync"

// UniqueID entrega identificadores crecientes y seguros para usar desde varios handlers a la vez.
type UniqueID struct {
	mu     sync.Mutex
	nextID int
}

func Init() *UniqueID {
	return &UniqueID{
		nextID: 1, // El primer ID es 1
	}
}

func (u *UniqueID) GetUniqueID() int {
	u.mu.Lock()
	defer u.mu.Unlock()

	id := u.nextID
	u.nextID++
	return id
}

// Ultimo devuelve el último ID entregado, o 0 si todavía no se pidió ninguno.
func (u *UniqueID) Ultimo() int {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.nextID - 1
}
