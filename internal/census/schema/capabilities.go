package schema

// Columns is the set of display columns present in a normalized table.
// Widgets ask it before touching a column instead of probing the frame.
type Columns map[string]struct{}

func NewColumns(names []string) Columns {
	c := make(Columns, len(names))
	for _, n := range names {
		c[n] = struct{}{}
	}
	return c
}

func (c Columns) Has(names ...string) bool {
	for _, n := range names {
		if _, ok := c[n]; !ok {
			return false
		}
	}
	return true
}

// Missing returns the names not in the set, in argument order.
func (c Columns) Missing(names ...string) []string {
	var out []string
	for _, n := range names {
		if _, ok := c[n]; !ok {
			out = append(out, n)
		}
	}
	return out
}

// Optional returns the present columns that are not produced from the
// required source list (extra columns carried through unchanged).
func (c Columns) Optional() []string {
	known := make(map[string]struct{}, len(RequiredColumns))
	for _, src := range RequiredColumns {
		known[DisplayName(src)] = struct{}{}
	}
	var out []string
	for n := range c {
		if _, ok := known[n]; !ok {
			out = append(out, n)
		}
	}
	return out
}
