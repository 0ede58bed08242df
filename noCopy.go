package flecs

// noCopy makes go vet's copylocks check flag accidental copies of the
// embedding type.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
