package scene

import (
	"fmt"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-preview/common"
	"github.com/Carmen-Shannon/oxy-preview/engine/game_object"
	"github.com/Carmen-Shannon/oxy-preview/engine/light"
	"github.com/Carmen-Shannon/oxy-preview/engine/renderer/animator"
)

// Scene manages the game objects and lights visible to a render. Ephemeral objects are
// tracked separately from persistent ones so callers can verify temporary objects never
// outlive the operation that created them.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently active.
	Active() bool

	// SetActive sets whether this scene is active.
	SetActive(active bool)

	// Add registers a game object. An object without an ID, or whose ID is held by another
	// object, is given the next free ID.
	//
	// Parameters:
	//   - obj: the object to add
	//
	// Returns:
	//   - uint64: the object ID
	Add(obj game_object.GameObject) uint64

	// Get returns the object with the given ID, or nil.
	//
	// Parameters:
	//   - id: the object ID
	//
	// Returns:
	//   - game_object.GameObject: the object or nil
	Get(id uint64) game_object.GameObject

	// Remove destroys the object with the given ID. Removing an unknown ID is a no-op.
	//
	// Parameters:
	//   - id: the object ID
	//
	// Returns:
	//   - bool: true if an object was removed
	Remove(id uint64) bool

	// RemoveEphemeral destroys the ephemeral object with the given ID. Persistent objects are
	// never touched.
	//
	// Parameters:
	//   - id: the object ID
	//
	// Returns:
	//   - bool: true if an ephemeral object was removed
	RemoveEphemeral(id uint64) bool

	// Clear removes every object. Scene lights are kept.
	Clear()

	// Count returns the number of persistent objects.
	Count() int

	// CountEphemeral returns the number of live ephemeral objects.
	CountEphemeral() int

	// Objects returns every object ordered by ID.
	//
	// Returns:
	//   - []game_object.GameObject: the objects
	Objects() []game_object.GameObject

	// Renderables returns the enabled objects with a model whose layer intersects
	// cullingMask, ordered by ID.
	//
	// Parameters:
	//   - cullingMask: the camera culling mask
	//
	// Returns:
	//   - []game_object.GameObject: the objects to draw
	Renderables(cullingMask uint32) []game_object.GameObject

	// Cameras returns the enabled objects carrying a camera component, ordered by ID.
	//
	// Returns:
	//   - []game_object.GameObject: the camera objects
	Cameras() []game_object.GameObject

	// AddLight registers a scene light.
	//
	// Parameters:
	//   - l: the light
	AddLight(l light.Light)

	// RemoveLight unregisters a scene light.
	//
	// Parameters:
	//   - l: the light
	RemoveLight(l light.Light)

	// Lights returns the scene lights followed by the lights attached to objects. Attached
	// lights are moved to their object's position first.
	//
	// Returns:
	//   - []light.Light: the lights
	Lights() []light.Light

	// PrepareAnimators refreshes the posed geometry of every animator attached to a renderable
	// object in parallel so that the draw phase only reads cached vertices.
	//
	// Parameters:
	//   - cullingMask: the camera culling mask
	//
	// Returns:
	//   - error: the first panic raised by an animator, converted to an error
	PrepareAnimators(cullingMask uint32) error

	// Close stops the scene's worker pool.
	Close()
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool

	registry  map[uint64]game_object.GameObject // persistent objects by ID
	ephemeral map[uint64]game_object.GameObject // ephemeral objects by ID
	nextID    uint64

	lights []light.Light

	// computePool runs per-animator pose refreshes. Workers persist across renders.
	computePool    worker.DynamicWorkerPool
	computeWorkers int
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a new, inactive Scene.
//
// Parameters:
//   - name: the name of the scene
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:             &sync.RWMutex{},
		name:           name,
		registry:       make(map[uint64]game_object.GameObject),
		ephemeral:      make(map[uint64]game_object.GameObject),
		nextID:         1,
		computeWorkers: max(runtime.NumCPU()-1, 1),
	}

	for _, option := range options {
		option(s)
	}

	// Initialize the compute pool after options so WithComputeWorkers can override the default.
	s.computePool = worker.NewDynamicWorkerPool(s.computeWorkers, 256, 1*time.Second)
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Add(obj game_object.GameObject) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(obj)
}

// add is Add without locking.
func (s *scene) add(obj game_object.GameObject) uint64 {
	if id := obj.ID(); id == 0 || s.heldByOther(id, obj) {
		obj.SetID(s.freeID())
	} else if id >= atomic.LoadUint64(&s.nextID) {
		atomic.StoreUint64(&s.nextID, id+1)
	}
	if obj.Ephemeral() {
		s.ephemeral[obj.ID()] = obj
	} else {
		s.registry[obj.ID()] = obj
	}
	return obj.ID()
}

// heldByOther reports whether id belongs to an object other than obj.
func (s *scene) heldByOther(id uint64, obj game_object.GameObject) bool {
	if held, ok := s.registry[id]; ok && held != obj {
		return true
	}
	held, ok := s.ephemeral[id]
	return ok && held != obj
}

// freeID returns the next ID not held by any object.
func (s *scene) freeID() uint64 {
	for {
		id := atomic.AddUint64(&s.nextID, 1) - 1
		_, persistent := s.registry[id]
		_, ephemeral := s.ephemeral[id]
		if id != 0 && !persistent && !ephemeral {
			return id
		}
	}
}

func (s *scene) Get(id uint64) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if obj, ok := s.registry[id]; ok {
		return obj
	}
	return s.ephemeral[id]
}

func (s *scene) Remove(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.registry[id]; ok {
		delete(s.registry, id)
		return true
	}
	if _, ok := s.ephemeral[id]; ok {
		delete(s.ephemeral, id)
		return true
	}
	return false
}

func (s *scene) RemoveEphemeral(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ephemeral[id]; !ok {
		return false
	}
	delete(s.ephemeral, id)
	return true
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry = make(map[uint64]game_object.GameObject)
	s.ephemeral = make(map[uint64]game_object.GameObject)
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registry)
}

func (s *scene) CountEphemeral() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ephemeral)
}

func (s *scene) Objects() []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(func(game_object.GameObject) bool { return true })
}

func (s *scene) Renderables(cullingMask uint32) []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(func(obj game_object.GameObject) bool {
		return obj.Enabled() && obj.Model() != nil && obj.LayerMask()&cullingMask != 0
	})
}

func (s *scene) Cameras() []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(func(obj game_object.GameObject) bool {
		_, ok := obj.Camera()
		return obj.Enabled() && ok
	})
}

// sorted collects the objects accepted by keep in ID order. Caller must hold s.mu.
func (s *scene) sorted(keep func(game_object.GameObject) bool) []game_object.GameObject {
	out := make([]game_object.GameObject, 0, len(s.registry)+len(s.ephemeral))
	for _, set := range []map[uint64]game_object.GameObject{s.registry, s.ephemeral} {
		for _, obj := range set {
			if keep(obj) {
				out = append(out, obj)
			}
		}
	}
	slices.SortFunc(out, func(a, b game_object.GameObject) int {
		switch {
		case a.ID() < b.ID():
			return -1
		case a.ID() > b.ID():
			return 1
		}
		return 0
	})
	return out
}

func (s *scene) AddLight(l light.Light) {
	if l == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lights = append(s.lights, l)
}

func (s *scene) RemoveLight(l light.Light) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := slices.Index(s.lights, l); i >= 0 {
		s.lights = slices.Delete(s.lights, i, i+1)
	}
}

func (s *scene) Lights() []light.Light {
	s.mu.RLock()
	out := slices.Clone(s.lights)
	attached := s.sorted(func(obj game_object.GameObject) bool {
		return obj.Enabled() && obj.Light() != nil
	})
	s.mu.RUnlock()

	// Sync attached lights: copy each game object's world position to its light.
	for _, obj := range attached {
		l := obj.Light()
		p := obj.Transform().Position
		l.SetPosition(p[0], p[1], p[2])
		out = append(out, l)
	}
	return out
}

func (s *scene) PrepareAnimators(cullingMask uint32) error {
	var anims []animator.Animator
	for _, obj := range s.Renderables(cullingMask) {
		if a, ok := obj.Animator(); ok {
			anims = append(anims, a)
		}
	}
	if len(anims) == 0 {
		return nil
	}

	// A WaitGroup provides the barrier; pool.Wait() blocks until workers idle-exit.
	var (
		wg       sync.WaitGroup
		errMu    sync.Mutex
		firstErr error
	)
	for i, a := range anims {
		wg.Add(1)
		s.computePool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (result any, err error) {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						err = fmt.Errorf("prepare animator %d: %v", i, r)
						errMu.Lock()
						if firstErr == nil {
							firstErr = err
						}
						errMu.Unlock()
					}
				}()
				_ = a.PosedBounds()
				return nil, nil
			},
		})
	}
	wg.Wait()

	if firstErr != nil {
		common.Logger().Warn("animator preparation failed", "scene", s.Name(), "err", firstErr)
	}
	return firstErr
}

func (s *scene) Close() {
	s.computePool.Stop()
}
