package extension

// Descriptor describes one kind of extension.
//
// Supported is evaluated against the probed driver capabilities,
// Enable runs once when the first instance is built and New builds
// the instance handed to scripts. The host is whatever owns the
// registry (the rendering context).
type Descriptor struct {
	Name      string
	Supported func(r *Registry) bool
	Enable    func(r *Registry)
	New       func(host any) any
}
