// Package stats exposes read-only diagnostics over an ecscore.World, for
// the ecscoreinfo CLI and for tests that want to assert on archetype
// shape without reaching into package-private fields.
package stats

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/archwright/ecscore"
)

// WorldStats summarizes one World's component registry, archetype
// graph, and entity directory.
type WorldStats struct {
	Entities       EntityStats
	ComponentCount int
	ComponentTypes []reflect.Type
	Archetypes     []ArchetypeStats
}

// EntityStats summarizes a World's entity directory.
type EntityStats struct {
	Used     int
	Capacity int
	Recycled int
}

// ArchetypeStats summarizes one archetype.
type ArchetypeStats struct {
	Id             uint32
	Size           int
	DenseLen       int
	Components     int
	ComponentTypes []reflect.Type
}

// Collect walks w and produces a WorldStats snapshot.
func Collect(w *ecscore.World) WorldStats {
	info := w.Inspect()

	types := make([]reflect.Type, len(info.ComponentTypes))
	copy(types, info.ComponentTypes)

	arches := make([]ArchetypeStats, 0, len(info.Archetypes))
	for _, a := range info.Archetypes {
		componentTypes := make([]reflect.Type, len(a.ComponentIds))
		for i, cid := range a.ComponentIds {
			componentTypes[i] = info.ComponentTypes[cid]
		}
		arches = append(arches, ArchetypeStats{
			Id:             uint32(a.Id),
			Size:           a.Size,
			DenseLen:       a.DenseLen,
			Components:     len(a.ComponentIds),
			ComponentTypes: componentTypes,
		})
	}

	return WorldStats{
		Entities: EntityStats{
			Used:     info.EntitiesUsed,
			Capacity: info.EntitiesCapacity,
			Recycled: info.EntitiesRecycled,
		},
		ComponentCount: len(types),
		ComponentTypes: types,
		Archetypes:     arches,
	}
}

func (s WorldStats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "World -- Components: %d, Archetypes: %d\n", s.ComponentCount, len(s.Archetypes))

	names := make([]string, len(s.ComponentTypes))
	for i, t := range s.ComponentTypes {
		names[i] = t.Name()
	}
	fmt.Fprintf(&b, "  Components: %s\n", strings.Join(names, ", "))
	fmt.Fprint(&b, s.Entities.String())

	for _, a := range s.Archetypes {
		fmt.Fprint(&b, a.String())
	}
	return b.String()
}

func (s EntityStats) String() string {
	return fmt.Sprintf("Entities -- Used: %d, Recycled: %d, Capacity: %d\n", s.Used, s.Recycled, s.Capacity)
}

func (s ArchetypeStats) String() string {
	names := make([]string, len(s.ComponentTypes))
	for i, t := range s.ComponentTypes {
		names[i] = t.Name()
	}
	return fmt.Sprintf(
		"Archetype %d -- Components: %d (dense %d), Entities: %d\n  Components: %s\n",
		s.Id, s.Components, s.DenseLen, s.Size, strings.Join(names, ", "),
	)
}
