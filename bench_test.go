package flecs

import (
	"fmt"
	"testing"
)

func benchWorld(b *testing.B, size int) (*World, []EntityId) {
	b.Helper()

	w, err := NewWorld()
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { w.Fini() })

	entities := make([]EntityId, size)
	for idx := range size {
		e := w.NewEntity("")
		if err := Set(w, e, Position{}); err != nil {
			b.Fatal(err)
		}
		if err := Set(w, e, Velocity{X: 1, Y: 2}); err != nil {
			b.Fatal(err)
		}
		entities[idx] = e
	}

	return w, entities
}

func BenchmarkProgress(b *testing.B) {
	sizes := []int{1000, 10000, 100000, 1000000}
	for _, size := range sizes {
		name := fmt.Sprintf("%dK", size/1000)
		if size == 1000000 {
			name = "1M"
		}
		b.Run(name, func(b *testing.B) {
			w, _ := benchWorld(b, size)

			_, err := System2[Position, Velocity](w, 0, func(it *Iter) {
				positions := Field[Position](it, 0)
				velocities := Field[Velocity](it, 1)

				for idx := range positions {
					positions[idx].X += velocities[idx].X * it.DeltaTime()
					positions[idx].Y += velocities[idx].Y * it.DeltaTime()
				}
			})
			if err != nil {
				b.Fatal(err)
			}

			for b.Loop() {
				w.Progress(1.0 / 60.0)
			}
			b.ReportAllocs()
		})
	}
}

func BenchmarkSetExisting(b *testing.B) {
	sizes := []int{1000, 10000, 100000, 1000000}
	for _, size := range sizes {
		name := fmt.Sprintf("%dK", size/1000)
		if size == 1000000 {
			name = "1M"
		}
		b.Run(name, func(b *testing.B) {
			w, entities := benchWorld(b, size)

			value := Position{X: 1, Y: 2}
			for b.Loop() {
				for _, e := range entities {
					_ = Set(w, e, value)
				}
			}
			b.ReportAllocs()
		})
	}
}

func BenchmarkGet(b *testing.B) {
	sizes := []int{1000, 10000, 100000, 1000000}
	for _, size := range sizes {
		name := fmt.Sprintf("%dK", size/1000)
		if size == 1000000 {
			name = "1M"
		}
		b.Run(name, func(b *testing.B) {
			w, entities := benchWorld(b, size)

			for b.Loop() {
				for _, e := range entities {
					_ = Get[Position](w, e)
				}
			}
			b.ReportAllocs()
		})
	}
}
