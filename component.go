package flecs

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// Component registers the type T as a component and returns the id the
// engine issued for it. Registering the same type again on the same world
// returns the cached id without another engine call.
func Component[T any](w *World) (ComponentId, error) {
	return w.componentId(reflect.TypeFor[T]())
}

func (w *World) componentId(t reflect.Type) (ComponentId, error) {
	w.ensureAlive()

	if id, ok := w.components[t]; ok {
		return id, nil
	}

	desc, err := componentLayoutOf(t)
	if err != nil {
		return NoEntity, err
	}

	if typeHasPadding(t) {
		w.log.Warn("component type contains padding bytes", zap.String("type", t.String()))
	}

	id := w.engine.ComponentInit(desc)
	if id == NoEntity {
		return NoEntity, fmt.Errorf("component %s: %w", desc.Name, ErrInvalidParameter)
	}

	w.components[t] = id
	w.log.Debug("registered component",
		zap.String("name", desc.Name),
		zap.Uint64("id", uint64(id)),
	)

	return id, nil
}

// mustComponentId is componentId for call sites where an unregistrable type
// is a programming error.
func (w *World) mustComponentId(t reflect.Type) ComponentId {
	id, err := w.componentId(t)
	if err != nil {
		panic(err)
	}

	return id
}
