package peg

// Table is a name-to-Declaration mapping attached to (shared by) every
// Context cloned from a common ancestor. It is built once by the grammar
// compiler and then shared read-only by every Context that evaluates
// against it. Names are unique; adding a declaration under a name already
// present overwrites the earlier one.
type Table struct {
	decls map[string]NamedDeclaration
	order []string
}

// NewTable creates an empty Table.
func NewTable() *Table {
	return &Table{decls: make(map[string]NamedDeclaration)}
}

// Add registers decl under its own name, overwriting any earlier declaration
// with the same name.
func (t *Table) Add(decl NamedDeclaration) {
	name := decl.Name()
	if _, exists := t.decls[name]; !exists {
		t.order = append(t.order, name)
	}
	t.decls[name] = decl
}

// Get looks up the declaration registered under name.
func (t *Table) Get(name string) (NamedDeclaration, bool) {
	decl, ok := t.decls[name]
	return decl, ok
}

// Names returns every registered rule name in the order it was first added.
func (t *Table) Names() []string {
	names := make([]string, len(t.order))
	copy(names, t.order)
	return names
}

// Len returns the number of declarations registered in the table.
func (t *Table) Len() int {
	return len(t.decls)
}
