package flecs

import "github.com/BlackPhoenix134/flecs-go/native"

// EntityId identifies a live entity or, with the pair flag set, an encoded
// relationship pair. Ids are issued by the engine; the bridge only encodes,
// decodes and passes them through.
type EntityId = native.EntityId

// ComponentId identifies a registered component. Components are entities.
type ComponentId = EntityId

// NoEntity is the invalid id. Engine calls return it to signal failure.
const NoEntity = EntityId(0)

const lowBits = EntityId(0xffffffff)

// pairCodec packs relationship pairs with the pair flag the engine reported
// at startup. The flag is engine defined, never a compile time constant.
type pairCodec struct {
	flag EntityId
}

// encode packs relation and target into one pair id. Both operands are
// truncated to their low 32 bits; ids the engine actually issued always fit,
// anything larger loses its high bits without an error.
func (c pairCodec) encode(relation, target EntityId) EntityId {
	return c.flag | (target&lowBits)<<32 | relation&lowBits
}

// decode is the exact inverse of encode for operands that fit in 32 bits.
func (c pairCodec) decode(pair EntityId) (relation, target EntityId) {
	return pair & lowBits, (pair &^ c.flag) >> 32
}

func (c pairCodec) isPair(id EntityId) bool {
	return id&c.flag != 0
}
