package ecscore

import (
	"github.com/TheBitDrifter/table"
	"golang.org/x/sync/errgroup"
)

// Config holds process-wide tuning knobs for every World created in
// this process: entity event hooks, the underlying table.Table hooks,
// sparse-map initial capacity, and the maintenance-parallelism toggle.
var Config config = config{
	tableInitialCapacity: 4,
	maintenanceParallel:  true,
}

type config struct {
	// entityEvents fires on spawn/despawn/archetype-move, a hand-off
	// point for an external observer system to ride on without this
	// package implementing observers itself.
	entityEvents EntityEvents

	// tableInitialCapacity sizes a fresh SparseMap's backing column;
	// dense Table growth is delegated to table.Table itself.
	tableInitialCapacity uint32

	// tableEvents is forwarded to table.NewTableBuilder().WithEvents for
	// every Table this package builds, the teacher's own hook surface
	// for observing row allocation/compaction/transfer.
	tableEvents table.TableEvents

	// maintenanceParallel selects whether World.CheckTicks fans out one
	// goroutine per table/map (via errgroup) or walks storage serially.
	// Both paths must (and do) produce the same resulting tick state.
	maintenanceParallel bool
}

// SetEntityEvents installs the callbacks invoked around structural
// entity operations.
func (c *config) SetEntityEvents(e EntityEvents) { c.entityEvents = e }

// SetMaintenanceParallel toggles the check_ticks task pool.
func (c *config) SetMaintenanceParallel(v bool) { c.maintenanceParallel = v }

// SetTableEvents installs the table.TableEvents hooks every Table built
// afterward is constructed with.
func (c *config) SetTableEvents(e table.TableEvents) { c.tableEvents = e }

// EntityEvents are optional hooks fired by the World around structural
// changes. Every field may be left nil.
type EntityEvents struct {
	OnSpawn         func(Entity)
	OnDespawn       func(Entity)
	OnArchetypeMove func(e Entity, from, to ArcheId)
}

// taskGroup is the minimal task-pool surface the parallel CheckTicks
// maintenance path uses; backed by golang.org/x/sync/errgroup, whose
// Wait returns the first error a worker reports.
type taskGroup struct {
	g *errgroup.Group
}

func newTaskGroup() *taskGroup {
	return &taskGroup{g: &errgroup.Group{}}
}

func (t *taskGroup) Go(fn func() error) { t.g.Go(fn) }

func (t *taskGroup) Wait() error { return t.g.Wait() }
