package core

// Stats is a snapshot of engine counters.
type Stats struct {
	Entities   int
	Archetypes int
	Systems    int
	Frames     int64
	WorldTime  float64
}

func (e *Engine) Stats() Stats {
	e.ensureReady()

	var systems int
	for _, slot := range e.slots {
		systems += len(slot)
	}

	return Stats{
		Entities:   len(e.store.records),
		Archetypes: len(e.store.archetypes),
		Systems:    systems,
		Frames:     e.frames,
		WorldTime:  e.elapsed,
	}
}
