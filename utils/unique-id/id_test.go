package uniqueid

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniqueID_Secuencial(t *testing.T) {
	ass := assert.New(t)
	ids := Init()

	ass.Equal(0, ids.Ultimo())
	ass.Equal(1, ids.GetUniqueID())
	ass.Equal(2, ids.GetUniqueID())
	ass.Equal(2, ids.Ultimo())
}

func TestUniqueID_Concurrente(t *testing.T) {
	ids := Init()
	vistos := make(chan int, 100)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			vistos <- ids.GetUniqueID()
		}()
	}
	wg.Wait()
	close(vistos)

	unicos := map[int]bool{}
	for id := range vistos {
		unicos[id] = true
	}
	assert.Len(t, unicos, 100)
	assert.Equal(t, 100, ids.Ultimo())
}
