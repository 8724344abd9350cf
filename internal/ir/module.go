package ir

// Module is a compilation unit: a collection of functions that share a
// string table. The middle end does not own the string table itself (spec
// §1) — Module only owns the functions built against it.
type Module struct {
	Name      string
	Functions []*Function
}

// NewModule creates an empty module.
func NewModule(name string) *Module {
	return &Module{Name: name}
}

// PushFunction appends fn to the module and returns it, for chaining with
// NewFunction at the call site.
func (m *Module) PushFunction(fn *Function) *Function {
	m.Functions = append(m.Functions, fn)
	return fn
}
