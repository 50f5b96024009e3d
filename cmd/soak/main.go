// soak hammers a layered spatial map with a randomized operation stream
// and verifies the dual indexes, layer routing and event ledger stay
// consistent. Exits non-zero on the first violation.
package main

import (
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gridveil/engine/grid"
	"github.com/gridveil/engine/spatial"
)

type item struct {
	id    int
	layer int
}

func (it *item) Layer() int { return it.layer }

func main() {
	var (
		ops      = flag.Int("ops", 200_000, "operations to run")
		seed     = flag.Int64("seed", 1, "rng seed (0 = clock)")
		width    = flag.Int("width", 64, "field width")
		height   = flag.Int("height", 48, "field height")
		layers   = flag.Int("layers", 3, "managed layer count")
		starting = flag.Int("starting", 1, "first managed layer")
		multi    = flag.String("multi", "3", "comma-separated layers that stack")
		report   = flag.Int("report", 50_000, "ops between progress reports")
	)
	flag.Parse()

	log, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	masker := spatial.NewLayerMasker(*starting + *layers)
	multiMask, err := parseLayers(masker, *multi)
	if err != nil {
		log.Fatal("bad -multi", zap.Error(err))
	}

	log.Info("soak starting",
		zap.Int("ops", *ops),
		zap.Int64("seed", *seed),
		zap.Int("width", *width),
		zap.Int("height", *height),
		zap.Int("layers", *layers),
		zap.Int("starting", *starting))

	s := &soak{
		m:        spatial.NewLayeredMap[*item](*layers, *starting, multiMask, 256),
		rng:      rand.New(rand.NewSource(*seed)),
		w:        *width,
		h:        *height,
		layers:   *layers,
		starting: *starting,
		masker:   masker,
		multi:    multiMask,
		index:    make(map[*item]int),
	}
	s.m.OnAdded(func(spatial.ItemAdded[*item]) { s.evAdded++ })
	s.m.OnMoved(func(spatial.ItemMoved[*item]) { s.evMoved++ })
	s.m.OnRemoved(func(spatial.ItemRemoved[*item]) { s.evRemoved++ })

	if err := s.run(*ops, *report, log); err != nil {
		log.Error("invariant violated", zap.Error(err))
		os.Exit(1)
	}

	log.Info("soak passed",
		zap.Int("items", s.m.Count()),
		zap.Int("adds", s.adds),
		zap.Int("moves", s.moves),
		zap.Int("removes", s.removes),
		zap.Int("bulk_ops", s.bulk),
		zap.Int("events", s.evAdded+s.evMoved+s.evRemoved))
}

// parseLayers builds a mask from a comma-separated layer list.
func parseLayers(masker spatial.LayerMasker, s string) (spatial.Mask, error) {
	if s == "" {
		return masker.NoLayers(), nil
	}
	var nums []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0, fmt.Errorf("invalid layer '%s': %w", part, err)
		}
		nums = append(nums, n)
	}
	return masker.Mask(nums...), nil
}

type soak struct {
	m        *spatial.LayeredMap[*item]
	rng      *rand.Rand
	w, h     int
	layers   int
	starting int
	masker   spatial.LayerMasker
	multi    spatial.Mask

	live   []*item
	index  map[*item]int
	nextID int

	adds, moves, removes, bulk  int
	evAdded, evMoved, evRemoved int
}

const verifyEvery = 1000

func (s *soak) run(ops, report int, log *zap.Logger) error {
	for i := 1; i <= ops; i++ {
		if err := s.op(); err != nil {
			return fmt.Errorf("op %d: %w", i, err)
		}
		if i%verifyEvery == 0 {
			if err := s.verify(); err != nil {
				return fmt.Errorf("after op %d: %w", i, err)
			}
		}
		if report > 0 && i%report == 0 {
			log.Info("progress",
				zap.Int("ops", i),
				zap.Int("items", s.m.Count()),
				zap.Int("cells", len(s.m.Positions())))
		}
	}
	return s.verify()
}

func (s *soak) op() error {
	switch r := s.rng.Intn(100); {
	case r < 30:
		return s.opAdd()
	case r < 60:
		return s.opMove()
	case r < 70:
		return s.opMoveAll()
	case r < 80:
		return s.opRemove()
	case r < 88:
		return s.opRemoveAt()
	case r < 94:
		return s.opMaskedRemoveAt()
	default:
		return s.opMaskedMoveAll()
	}
}

func (s *soak) randPos() grid.Point {
	return grid.Pt(s.rng.Intn(s.w), s.rng.Intn(s.h))
}

func (s *soak) randLayer() int {
	return s.starting + s.rng.Intn(s.layers)
}

func (s *soak) randMask() spatial.Mask {
	var nums []int
	for l := s.starting; l < s.starting+s.layers; l++ {
		if s.rng.Intn(2) == 0 {
			nums = append(nums, l)
		}
	}
	return s.masker.Mask(nums...)
}

func (s *soak) pickLive() *item {
	if len(s.live) == 0 {
		return nil
	}
	return s.live[s.rng.Intn(len(s.live))]
}

func (s *soak) track(it *item) {
	s.index[it] = len(s.live)
	s.live = append(s.live, it)
}

func (s *soak) untrack(it *item) error {
	i, ok := s.index[it]
	if !ok {
		return fmt.Errorf("untracked item %d left the map", it.id)
	}
	last := len(s.live) - 1
	s.live[i] = s.live[last]
	s.index[s.live[i]] = i
	s.live = s.live[:last]
	delete(s.index, it)
	return nil
}

func (s *soak) opAdd() error {
	s.nextID++
	it := &item{id: s.nextID, layer: s.randLayer()}
	p := s.randPos()
	if !s.m.TryAdd(it, p) {
		return nil
	}
	s.adds++
	s.track(it)

	// A second add of the same item must report the duplicate.
	if err := s.m.Add(it, s.randPos()); !errors.Is(err, spatial.ErrDuplicateItem) {
		return fmt.Errorf("re-adding item %d: got %v, want duplicate", it.id, err)
	}
	return nil
}

func (s *soak) opMove() error {
	it := s.pickLive()
	if it == nil {
		return nil
	}
	if s.m.TryMove(it, s.randPos()) {
		s.moves++
	}
	return nil
}

func (s *soak) opMoveAll() error {
	s.bulk++
	from, to := s.randPos(), s.randPos()
	err := s.m.MoveAll(from, to)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, spatial.ErrNoOpMove),
		errors.Is(err, spatial.ErrNothingToMove),
		errors.Is(err, spatial.ErrPositionOccupied):
		return nil
	default:
		return fmt.Errorf("move all %s->%s: %v", from, to, err)
	}
}

func (s *soak) opRemove() error {
	it := s.pickLive()
	if it == nil {
		return nil
	}
	if err := s.m.Remove(it); err != nil {
		return fmt.Errorf("removing live item %d: %v", it.id, err)
	}
	if err := s.untrack(it); err != nil {
		return err
	}
	s.removes++

	// A second remove must miss.
	if err := s.m.Remove(it); !errors.Is(err, spatial.ErrItemNotFound) {
		return fmt.Errorf("re-removing item %d: got %v, want not found", it.id, err)
	}
	return nil
}

func (s *soak) opRemoveAt() error {
	s.bulk++
	p := s.randPos()
	before := len(s.m.ItemsAt(p))
	victims := s.m.RemoveAt(p)
	if len(victims) != before {
		return fmt.Errorf("remove at %s: evicted %d of %d", p, len(victims), before)
	}
	for _, it := range victims {
		if err := s.untrack(it); err != nil {
			return err
		}
		s.removes++
	}
	if s.m.ContainsAt(p) {
		return fmt.Errorf("cell %s still occupied after remove at", p)
	}
	return nil
}

func (s *soak) opMaskedRemoveAt() error {
	s.bulk++
	p, mask := s.randPos(), s.randMask()
	before := len(s.m.MaskedItemsAt(p, mask))
	victims := s.m.MaskedRemoveAt(p, mask)
	if len(victims) != before {
		return fmt.Errorf("masked remove at %s: evicted %d of %d", p, len(victims), before)
	}
	for _, it := range victims {
		if err := s.untrack(it); err != nil {
			return err
		}
		s.removes++
	}
	if s.m.MaskedContainsAt(p, mask) {
		return fmt.Errorf("cell %s still occupied in mask %#x after masked remove", p, mask)
	}
	return nil
}

func (s *soak) opMaskedMoveAll() error {
	s.bulk++
	from, to := s.randPos(), s.randPos()
	moved := s.m.MaskedTryMoveAll(from, to, s.randMask())
	for _, it := range moved {
		if got := s.m.MustPositionOf(it); got != to {
			return fmt.Errorf("masked move reported item %d moved but it sits at %s", it.id, got)
		}
	}
	return nil
}

// verify cross-checks the map against the tracked population: dual-index
// agreement, single-occupancy layers, and the add/remove event ledger.
func (s *soak) verify() error {
	items := s.m.Items()
	if len(items) != s.m.Count() {
		return fmt.Errorf("Items reports %d, Count %d", len(items), s.m.Count())
	}
	if len(items) != len(s.live) {
		return fmt.Errorf("map holds %d items, model %d", len(items), len(s.live))
	}
	for _, it := range items {
		if _, ok := s.index[it]; !ok {
			return fmt.Errorf("map holds untracked item %d", it.id)
		}
		pos, ok := s.m.PositionOf(it)
		if !ok {
			return fmt.Errorf("item %d has no position", it.id)
		}
		found := false
		for _, got := range s.m.ItemsAt(pos) {
			if got == it {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("item %d not listed at its own position %s", it.id, pos)
		}
	}

	total := 0
	for _, p := range s.m.Positions() {
		n := len(s.m.ItemsAt(p))
		if n == 0 {
			return fmt.Errorf("position %s indexed with no items", p)
		}
		total += n
	}
	if total != s.m.Count() {
		return fmt.Errorf("cells hold %d items, map counts %d", total, s.m.Count())
	}

	for l := s.starting; l < s.starting+s.layers; l++ {
		sub := s.m.Layer(l)
		if !s.masker.HasLayer(s.multi, l) && sub.Count() != len(sub.Positions()) {
			return fmt.Errorf("layer %d stacks %d items on %d cells", l, sub.Count(), len(sub.Positions()))
		}
	}

	if s.evAdded-s.evRemoved != s.m.Count() {
		return fmt.Errorf("event ledger drift: %d adds - %d removes != %d items",
			s.evAdded, s.evRemoved, s.m.Count())
	}
	return nil
}
