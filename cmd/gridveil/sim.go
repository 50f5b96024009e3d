package main

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gridveil/engine/fov"
	"github.com/gridveil/engine/grid"
	"github.com/gridveil/engine/internal/config"
	"github.com/gridveil/engine/internal/data"
	"github.com/gridveil/engine/internal/worldgen"
	"github.com/gridveil/engine/sense"
	"github.com/gridveil/engine/spatial"
)

// entity is one simulated occupant of the layered map. Identity is the
// pointer; the uuid only travels into logs.
type entity struct {
	id    uuid.UUID
	name  string
	glyph rune
	layer int
}

func (e *entity) Layer() int { return e.layer }

func (e *entity) String() string {
	return fmt.Sprintf("%s/%s", e.name, e.id.String()[:8])
}

type simulation struct {
	cfg    *config.Config
	world  *worldgen.World
	actors *spatial.LayeredMap[*entity]
	view   *fov.Map
	senses *sense.Map
	hero   *entity
	shape  fov.Shape
	rng    *rand.Rand
	log    *zap.Logger

	tick       int
	movesTried int
	movesMade  int
	mutations  int
}

func newSimulation(cfg *config.Config, world *worldgen.World, table *data.TileTable, seed int64, log *zap.Logger) (*simulation, error) {
	shape, err := fov.ParseShape(cfg.FOV.Shape)
	if err != nil {
		return nil, err
	}

	top := cfg.Layers.Starting + cfg.Layers.Count
	if cfg.Layers.Count < 1 || cfg.Layers.Starting < 0 || top > spatial.MaxLayers {
		return nil, fmt.Errorf("layer topology %d+%d out of range", cfg.Layers.Starting, cfg.Layers.Count)
	}
	multi := spatial.NewLayerMasker(top).Mask(cfg.Layers.Multi...)

	s := &simulation{
		cfg:    cfg,
		world:  world,
		actors: spatial.NewLayeredMap[*entity](cfg.Layers.Count, cfg.Layers.Starting, multi, 64),
		view:   fov.New(world.Width(), world.Height()),
		senses: sense.NewMap(world.Resistance()),
		shape:  shape,
		rng:    rand.New(rand.NewSource(seed)),
		log:    log,
	}

	s.actors.OnAdded(func(ev spatial.ItemAdded[*entity]) {
		s.mutations++
		s.log.Debug("spawned", zap.Stringer("entity", ev.Item), zap.Stringer("pos", ev.Pos))
	})
	s.actors.OnMoved(func(ev spatial.ItemMoved[*entity]) {
		s.mutations++
	})
	s.actors.OnRemoved(func(ev spatial.ItemRemoved[*entity]) {
		s.mutations++
		s.log.Debug("despawned", zap.Stringer("entity", ev.Item), zap.Stringer("pos", ev.Pos))
	})

	for _, src := range cfg.Senses {
		spread, err := sense.ParseSpread(src.Spread)
		if err != nil {
			return nil, err
		}
		s.senses.AddSource(sense.NewSource(grid.Pt(src.X, src.Y), src.Intensity, src.Radius, spread))
	}

	if err := s.spawn(table); err != nil {
		return nil, err
	}
	return s, nil
}

// spawn scatters every template population across random floor cells.
// Single-occupancy layers may refuse a crowded cell, so placement retries
// a few times before giving up on an entity.
func (s *simulation) spawn(table *data.TileTable) error {
	for _, tmpl := range table.Spawns() {
		if !s.layerManaged(tmpl.Layer) {
			s.log.Warn("spawn layer unmanaged",
				zap.String("name", tmpl.Name), zap.Int("layer", tmpl.Layer))
			continue
		}
		for i := 0; i < tmpl.Count; i++ {
			e := &entity{id: uuid.New(), name: tmpl.Name, glyph: tmpl.Rune(), layer: tmpl.Layer}
			if !s.place(e) {
				s.log.Warn("no room to spawn", zap.String("name", tmpl.Name))
				continue
			}
			if s.hero == nil && tmpl.Name == "hero" {
				s.hero = e
			}
		}
	}
	if s.hero == nil {
		for _, e := range s.actors.Items() {
			if e.layer == s.cfg.Layers.Starting {
				s.hero = e
				break
			}
		}
	}
	if s.hero == nil {
		return fmt.Errorf("spawn lists produced no actor to follow")
	}
	return nil
}

func (s *simulation) layerManaged(layer int) bool {
	return layer >= s.cfg.Layers.Starting && layer < s.cfg.Layers.Starting+s.cfg.Layers.Count
}

func (s *simulation) place(e *entity) bool {
	for attempt := 0; attempt < 16; attempt++ {
		p, ok := s.world.RandomFloor(s.rng)
		if !ok {
			return false
		}
		if s.actors.TryAdd(e, p) {
			return true
		}
	}
	return false
}

// walk advances every actor one tick. Actors on the starting layer take
// a random walk; higher layers hold items that stay put.
func (s *simulation) walk() {
	s.tick++
	for _, e := range s.actors.Items() {
		if e.layer != s.cfg.Layers.Starting {
			continue
		}
		from := s.actors.MustPositionOf(e)
		to := from.Add(grid.Neighbors8[s.rng.Intn(8)])
		if !s.world.Walkable(to) {
			continue
		}
		s.movesTried++
		if s.actors.TryMove(e, to) {
			s.movesMade++
		}
	}
}

// observe recomputes the hero's FOV and the sense fields after movement
// settles.
func (s *simulation) observe() {
	origin := s.actors.MustPositionOf(s.hero)
	s.view.Compute(s.world.Transparency(), origin, s.cfg.FOV.Radius, s.shape)
	s.senses.Calculate()

	s.log.Debug("tick",
		zap.Int("n", s.tick),
		zap.Stringer("hero", origin),
		zap.Int("moves", s.movesMade))
}

func (s *simulation) report() {
	s.log.Info("simulation finished",
		zap.Int("entities", s.actors.Count()),
		zap.Int("moves_tried", s.movesTried),
		zap.Int("moves_made", s.movesMade),
		zap.Int("map_events", s.mutations))
}
