package flecs

import (
	"unsafe"

	"github.com/BlackPhoenix134/flecs-go/native"
)

// fakeEngine records every call the bridge makes, so tests can verify
// descriptor construction without the real engine. Its pair flag differs
// from the embedded engine's on purpose: anything hardcoding the flag
// instead of reading the constants fails against it.
type fakeEngine struct {
	initArgs  [][]string
	finiCalls int

	componentInits []native.ComponentDesc
	systemInits    []native.SystemDesc
	deleted        []native.EntityId

	// rejectNext forces the next register call to fail.
	rejectNext bool

	nextId native.EntityId
}

const fakePairFlag = native.EntityId(1) << 62

func newFakeEngine() *fakeEngine {
	return &fakeEngine{nextId: 100}
}

func (f *fakeEngine) issue() native.EntityId {
	id := f.nextId
	f.nextId += 1
	return id
}

func (f *fakeEngine) Init(args []string) error {
	f.initArgs = append(f.initArgs, args)
	return nil
}

func (f *fakeEngine) Fini() int {
	f.finiCalls += 1
	return 7
}

func (f *fakeEngine) Constants() native.Constants {
	return native.Constants{
		PairFlag:   fakePairFlag,
		DependsOn:  2,
		OnLoad:     10,
		PostLoad:   11,
		PreUpdate:  12,
		OnUpdate:   13,
		OnValidate: 14,
		PostUpdate: 15,
		PreStore:   16,
		OnStore:    17,
	}
}

func (f *fakeEngine) ComponentInit(desc native.ComponentDesc) native.EntityId {
	if f.rejectNext {
		f.rejectNext = false
		return 0
	}

	f.componentInits = append(f.componentInits, desc)
	return f.issue()
}

func (f *fakeEngine) SystemInit(desc native.SystemDesc) native.EntityId {
	if f.rejectNext {
		f.rejectNext = false
		return 0
	}

	f.systemInits = append(f.systemInits, desc)
	return f.issue()
}

func (f *fakeEngine) EntityInit(string) native.EntityId {
	return f.issue()
}

func (f *fakeEngine) DeleteEntity(entity native.EntityId) {
	f.deleted = append(f.deleted, entity)
}

func (f *fakeEngine) AddID(native.EntityId, native.EntityId) bool {
	return true
}

func (f *fakeEngine) HasID(native.EntityId, native.EntityId) bool {
	return false
}

func (f *fakeEngine) SetComponent(entity, _ native.EntityId, _ uintptr, _ unsafe.Pointer) native.EntityId {
	return entity
}

func (f *fakeEngine) GetComponentPtr(native.EntityId, native.EntityId) unsafe.Pointer {
	return nil
}

func (f *fakeEngine) Lookup(string) native.EntityId {
	return 0
}

func (f *fakeEngine) Name(native.EntityId) string {
	return ""
}

func (f *fakeEngine) Progress(float32) bool {
	return true
}

func (f *fakeEngine) Quit() {}
