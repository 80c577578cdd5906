// Command ecscoreinfo builds a small demonstration world and prints its
// archetype/component/entity shape via the stats package, as a smoke
// test for wiring a real binary against the module.
package main

import (
	"flag"
	"fmt"

	"github.com/archwright/ecscore"
	"github.com/archwright/ecscore/stats"
)

type Position struct{ X, Y float64 }
type Velocity struct{ X, Y float64 }

func (Velocity) SparseStorage() {}

func main() {
	entityCount := flag.Int("entities", 1000, "number of demonstration entities to spawn")
	withVelocity := flag.Int("with-velocity", 100, "how many of those entities also get a sparse Velocity")
	flag.Parse()

	w := ecscore.New(1)

	for i := 0; i < *entityCount; i++ {
		e := ecscore.SpawnBundle1[Position](w, Position{X: float64(i)})
		if i < *withVelocity {
			if err := ecscore.InsertComponent(w, e, Velocity{X: 1, Y: 0}); err != nil {
				fmt.Println("insert velocity:", err)
			}
		}
	}

	fmt.Print(stats.Collect(w).String())
}
