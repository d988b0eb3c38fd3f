package formula

// VarTable is a memoized name -> Var registry, the Go-native form of the
// reference implementation's module-level solver name caches (spec.md
// §9): a fresh Var is created once per distinct name and every later
// lookup of that name returns the same handle. It is a field on
// whichever engine owns it (BMC, PDR), never a package-level global.
type VarTable struct {
	byName map[string]*Var
	order  []*Var
	nextID VarID
}

// NewVarTable returns an empty table.
func NewVarTable() *VarTable {
	return &VarTable{byName: map[string]*Var{}}
}

// VarAt returns the Var named name, creating a fresh width-wide one the
// first time name is seen.
func (t *VarTable) VarAt(name string, width int) *Var {
	if v, ok := t.byName[name]; ok {
		return v
	}
	v := &Var{ID: t.nextID, Name: name, Width: width}
	t.nextID++
	t.byName[name] = v
	t.order = append(t.order, v)
	return v
}

// Lookup returns the Var named name if it has been created, else nil.
func (t *VarTable) Lookup(name string) *Var {
	return t.byName[name]
}

// All returns every Var created so far, in creation order.
func (t *VarTable) All() []*Var {
	return t.order
}
