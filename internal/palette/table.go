package palette

// Entry is one palette declaration: a custom property ("--name") or a token.
// Expr is used when set; otherwise Raw is parsed on first use.
type Entry struct {
	Name string
	Raw  string
	Expr Expr
}

// Parse returns the entry's expression.
func (e Entry) Parse() (Expr, error) {
	if e.Expr != nil {
		return e.Expr, nil
	}
	return ParseExpr(e.Raw)
}

// Table is a palette's declarations split into custom properties and tokens.
// Properties are looked up by name regardless of where they were declared,
// so a token may reference a property declared after it.
type Table struct {
	vars   map[string]Entry
	tokens []Entry
}

// BuildTable splits entries. A repeated name keeps its first position and
// its last value.
func BuildTable(entries []Entry) *Table {
	t := &Table{vars: make(map[string]Entry)}
	index := make(map[string]int)
	for _, e := range entries {
		if IsCustomProperty(e.Name) {
			t.vars[NormalizeName(e.Name)] = e
			continue
		}
		if i, ok := index[e.Name]; ok {
			t.tokens[i] = e
			continue
		}
		index[e.Name] = len(t.tokens)
		t.tokens = append(t.tokens, e)
	}
	return t
}

// Var looks up a custom property. The "--" prefix is optional.
func (t *Table) Var(name string) (Entry, bool) {
	e, ok := t.vars[NormalizeName(name)]
	return e, ok
}

// NumVars returns the number of custom properties.
func (t *Table) NumVars() int { return len(t.vars) }

// Tokens returns the token declarations in order.
func (t *Table) Tokens() []Entry { return t.tokens }
