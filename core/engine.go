// Package core is an archetype based ECS engine implementing the native
// boundary of this module. It is the engine a world runs on when no other
// implementation is supplied.
//
// The engine is single threaded by contract: all calls must come from the
// goroutine driving Progress. The one exception are system callbacks of
// multi threaded systems, which run on worker goroutines but only ever touch
// the memory their iterator hands them. Structural changes are not deferred;
// attempting one from a system callback panics.
package core

import (
	"errors"
	"fmt"
	"runtime"
	"time"
	"unsafe"

	"github.com/BlackPhoenix134/flecs-go/native"
	"go.uber.org/zap"
)

// pairFlag marks an id as an encoded relationship pair. Entity ids issued by
// the engine stay far below it, so the flag never collides with an id.
const pairFlag = native.EntityId(1) << 63

const idMask = native.EntityId(0xffffffff)

func pairOf(relation, target native.EntityId) native.EntityId {
	return pairFlag | (target&idMask)<<32 | relation&idMask
}

func pairRelation(pair native.EntityId) native.EntityId {
	return pair & idMask
}

func pairTarget(pair native.EntityId) native.EntityId {
	return (pair &^ pairFlag) >> 32
}

var (
	ErrAlreadyInitialized = errors.New("engine already initialized")
	ErrFinalized          = errors.New("engine already finalized")
)

// Config tunes a new engine. The zero value is valid.
type Config struct {
	// Logger receives sparse debug output about registrations and teardown.
	// Defaults to a nop logger.
	Logger *zap.Logger

	// Threads bounds the workers used for multi threaded systems. Defaults
	// to GOMAXPROCS.
	Threads int
}

// Engine is the default in-process implementation of native.Engine.
type Engine struct {
	log     *zap.Logger
	threads int

	args    []string
	nextId  native.EntityId
	names   map[string]native.EntityId
	labels  map[native.EntityId]string
	layouts map[native.EntityId]layout
	store   *storage

	// slots groups systems under the phase entity they run in, in
	// registration order.
	slots  map[native.EntityId][]*systemRecord
	consts native.Constants

	initialized bool
	finalized   bool
	inProgress  bool
	quit        bool

	lastProgress time.Time
	frames       int64
	elapsed      float64
}

var _ native.Engine = (*Engine)(nil)

// New creates an engine from the given config. Init must be called before
// anything else.
func New(cfg Config) *Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	if cfg.Threads <= 0 {
		cfg.Threads = runtime.GOMAXPROCS(0)
	}

	return &Engine{
		log:     cfg.Logger,
		threads: cfg.Threads,
	}
}

func (e *Engine) Init(args []string) error {
	if e.finalized {
		return ErrFinalized
	}

	if e.initialized {
		return ErrAlreadyInitialized
	}

	e.args = args
	e.nextId = 1
	e.names = map[string]native.EntityId{}
	e.labels = map[native.EntityId]string{}
	e.layouts = map[native.EntityId]layout{}
	e.store = newStorage(e.layouts)
	e.slots = map[native.EntityId][]*systemRecord{}

	e.bootstrap()
	e.initialized = true

	e.log.Debug("engine initialized", zap.Int("args", len(args)))
	return nil
}

// bootstrap creates the builtin entities: the DependsOn relation and the
// pipeline phases, each phase chained to its predecessor.
func (e *Engine) bootstrap() {
	e.consts.PairFlag = pairFlag
	e.consts.DependsOn = e.newEntity("DependsOn")

	phases := []struct {
		name string
		id   *native.EntityId
	}{
		{"OnLoad", &e.consts.OnLoad},
		{"PostLoad", &e.consts.PostLoad},
		{"PreUpdate", &e.consts.PreUpdate},
		{"OnUpdate", &e.consts.OnUpdate},
		{"OnValidate", &e.consts.OnValidate},
		{"PostUpdate", &e.consts.PostUpdate},
		{"PreStore", &e.consts.PreStore},
		{"OnStore", &e.consts.OnStore},
	}

	var previous native.EntityId
	for _, phase := range phases {
		id := e.newEntity(phase.name)
		*phase.id = id

		if previous != 0 {
			e.store.addId(id, pairOf(e.consts.DependsOn, previous))
		}

		e.slots[id] = nil
		previous = id
	}
}

func (e *Engine) newEntity(name string) native.EntityId {
	id := e.nextId
	e.nextId += 1

	e.store.spawn(id)

	if name != "" {
		e.names[name] = id
		e.labels[id] = name
	}

	return id
}

func (e *Engine) Fini() int {
	e.ensureReady()

	if e.inProgress {
		panic("engine finalized during progress")
	}

	e.log.Debug("engine finalized",
		zap.Int64("frames", e.frames),
		zap.Float64("worldTime", e.elapsed),
	)

	e.store = nil
	e.names = nil
	e.labels = nil
	e.layouts = nil
	e.slots = nil
	e.finalized = true

	return 0
}

func (e *Engine) Constants() native.Constants {
	e.ensureReady()
	return e.consts
}

func (e *Engine) ComponentInit(desc native.ComponentDesc) native.EntityId {
	e.ensureReady()
	e.ensureNotInProgress()

	if !validLayout(desc) {
		e.log.Debug("rejected component", zap.String("name", desc.Name))
		return 0
	}

	if existing, ok := e.names[desc.Name]; ok {
		l, isComponent := e.layouts[existing]

		if isComponent {
			if l.size != desc.Size || l.align != desc.Alignment {
				e.log.Debug("component name collision",
					zap.String("name", desc.Name),
					zap.Uint64("existing", uint64(existing)),
				)
				return 0
			}

			return existing
		}

		// an existing plain entity becomes the component
		e.layouts[existing] = layout{size: desc.Size, align: desc.Alignment}
		return existing
	}

	id := e.newEntity(desc.Name)
	e.layouts[id] = layout{size: desc.Size, align: desc.Alignment}

	e.log.Debug("registered component",
		zap.String("name", desc.Name),
		zap.Uint64("id", uint64(id)),
		zap.Uint64("size", uint64(desc.Size)),
	)

	return id
}

func validLayout(desc native.ComponentDesc) bool {
	if desc.Name == "" || desc.Size == 0 {
		return false
	}

	if desc.Alignment == 0 || desc.Alignment&(desc.Alignment-1) != 0 {
		return false
	}

	return desc.Size%desc.Alignment == 0
}

func (e *Engine) SystemInit(desc native.SystemDesc) native.EntityId {
	e.ensureReady()
	e.ensureNotInProgress()

	if desc.Callback == nil {
		e.log.Debug("rejected system, no callback", zap.String("name", desc.Name))
		return 0
	}

	terms, err := parseExpr(desc.Expr)
	if err != nil {
		e.log.Debug("rejected system", zap.String("name", desc.Name), zap.Error(err))
		return 0
	}

	bound, err := resolveTerms(terms, e.Lookup)
	if err != nil {
		e.log.Debug("rejected system", zap.String("name", desc.Name), zap.Error(err))
		return 0
	}

	return e.addSystem(desc, bound)
}

func (e *Engine) addSystem(desc native.SystemDesc, terms []boundTerm) native.EntityId {
	var phase native.EntityId

	if desc.DependsOn != 0 {
		if desc.DependsOn&pairFlag == 0 || pairRelation(desc.DependsOn) != e.consts.DependsOn {
			e.log.Debug("rejected system, malformed phase pair", zap.String("name", desc.Name))
			return 0
		}

		phase = pairTarget(desc.DependsOn)
		if !e.store.alive(phase) {
			e.log.Debug("rejected system, unknown phase", zap.String("name", desc.Name))
			return 0
		}
	}

	if desc.Name != "" {
		if _, taken := e.names[desc.Name]; taken {
			e.log.Debug("rejected system, name taken", zap.String("name", desc.Name))
			return 0
		}
	}

	entity := e.newEntity(desc.Name)

	if desc.DependsOn != 0 {
		e.store.addId(entity, desc.DependsOn)
	}

	slot := phase
	if slot == 0 {
		slot = e.consts.OnUpdate
	}

	e.slots[slot] = append(e.slots[slot], &systemRecord{
		entity:   entity,
		name:     desc.Name,
		phase:    phase,
		terms:    terms,
		callback: desc.Callback,
		ctx:      desc.Ctx,
		multi:    desc.MultiThreaded,
	})

	e.log.Debug("registered system",
		zap.String("name", desc.Name),
		zap.Uint64("id", uint64(entity)),
		zap.String("expr", desc.Expr),
	)

	return entity
}

func (e *Engine) EntityInit(name string) native.EntityId {
	e.ensureReady()
	e.ensureNotInProgress()

	if name != "" {
		if existing, ok := e.names[name]; ok {
			return existing
		}
	}

	return e.newEntity(name)
}

func (e *Engine) DeleteEntity(entity native.EntityId) {
	e.ensureReady()
	e.ensureNotInProgress()

	if !e.store.despawn(entity) {
		return
	}

	if name, ok := e.labels[entity]; ok {
		delete(e.names, name)
		delete(e.labels, entity)
	}

	for slot, systems := range e.slots {
		for idx, sys := range systems {
			if sys.entity == entity {
				e.slots[slot] = append(systems[:idx], systems[idx+1:]...)
				break
			}
		}
	}
}

func (e *Engine) AddID(entity, id native.EntityId) bool {
	e.ensureReady()
	e.ensureNotInProgress()

	return e.store.addId(entity, id)
}

func (e *Engine) HasID(entity, id native.EntityId) bool {
	e.ensureReady()
	return e.store.hasId(entity, id)
}

func (e *Engine) SetComponent(entity, component native.EntityId, size uintptr, ptr unsafe.Pointer) native.EntityId {
	e.ensureReady()

	if e.inProgress && !e.store.hasId(entity, component) {
		panic("structural change during progress")
	}

	if !e.store.setComponent(entity, component, size, ptr) {
		return 0
	}

	return entity
}

func (e *Engine) GetComponentPtr(entity, component native.EntityId) unsafe.Pointer {
	e.ensureReady()
	return e.store.componentPtr(entity, component)
}

func (e *Engine) Lookup(name string) native.EntityId {
	e.ensureReady()
	return e.names[name]
}

func (e *Engine) Name(entity native.EntityId) string {
	e.ensureReady()
	return e.labels[entity]
}

func (e *Engine) Progress(deltaTime float32) bool {
	e.ensureReady()

	if e.inProgress {
		panic("engine progress is not reentrant")
	}

	if deltaTime <= 0 {
		deltaTime = e.measureDeltaTime()
	}

	e.inProgress = true
	e.tick(deltaTime)
	e.inProgress = false

	e.frames += 1
	e.elapsed += float64(deltaTime)
	e.lastProgress = time.Now()

	return !e.quit
}

// measureDeltaTime derives the frame delta from wall time, falling back to a
// 60 Hz step on the first frame.
func (e *Engine) measureDeltaTime() float32 {
	if e.lastProgress.IsZero() {
		return 1.0 / 60.0
	}

	return float32(time.Since(e.lastProgress).Seconds())
}

func (e *Engine) Quit() {
	e.ensureReady()
	e.quit = true
}

func (e *Engine) ensureReady() {
	if !e.initialized {
		panic("engine is not initialized")
	}

	if e.finalized {
		panic(fmt.Sprintf("use of finalized engine after %d frames", e.frames))
	}
}

func (e *Engine) ensureNotInProgress() {
	if e.inProgress {
		panic("structural change during progress")
	}
}
