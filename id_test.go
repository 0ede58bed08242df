package flecs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPairCodec(t *testing.T) {
	codec := pairCodec{flag: EntityId(1) << 63}

	t.Run("roundtrip", func(t *testing.T) {
		pairs := [][2]EntityId{
			{1, 2},
			{7, 7},
			{256, 513},
			{0xffff, 0x10000},
			{1<<31 - 1, 1<<31 - 1},
		}

		for _, p := range pairs {
			relation, target := codec.decode(codec.encode(p[0], p[1]))
			require.Equal(t, p[0], relation)
			require.Equal(t, p[1], target)
		}
	})

	t.Run("relation above 32 bits truncates", func(t *testing.T) {
		relation, target := codec.decode(codec.encode(1<<32|7, 5))
		require.Equal(t, EntityId(7), relation)
		require.Equal(t, EntityId(5), target)
	})

	t.Run("target above 32 bits truncates", func(t *testing.T) {
		relation, target := codec.decode(codec.encode(3, 1<<33|9))
		require.Equal(t, EntityId(3), relation)
		require.Equal(t, EntityId(9), target)
	})

	t.Run("truncation is deterministic", func(t *testing.T) {
		require.Equal(t, codec.encode(1<<32|7, 5), codec.encode(7, 5))
		require.Equal(t, codec.encode(3, 1<<40|9), codec.encode(3, 9))
	})

	t.Run("is pair", func(t *testing.T) {
		require.True(t, codec.isPair(codec.encode(1, 2)))
		require.False(t, codec.isPair(42))
	})

	t.Run("flag comes from the engine", func(t *testing.T) {
		other := pairCodec{flag: fakePairFlag}

		pair := other.encode(11, 12)
		require.True(t, other.isPair(pair))
		require.False(t, codec.isPair(pair))

		relation, target := other.decode(pair)
		require.Equal(t, EntityId(11), relation)
		require.Equal(t, EntityId(12), target)
	})
}

func TestWorldPairApi(t *testing.T) {
	w, err := NewWorld(WithEngine(newFakeEngine()))
	require.NoError(t, err)

	pair := w.Pair(11, 12)
	require.True(t, w.IsPair(pair))
	require.Equal(t, fakePairFlag|12<<32|11, pair)

	relation, target := w.DecodePair(pair)
	require.Equal(t, EntityId(11), relation)
	require.Equal(t, EntityId(12), target)
}
