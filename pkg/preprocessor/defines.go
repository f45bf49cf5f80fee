package preprocessor

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/yaklabco/duic/pkg/source"
)

// Macro is a recorded #define. Macros are stored, never expanded.
type Macro struct {
	Name         string
	Value        string
	Parameters   []string
	FunctionLike bool
	Origin       source.Origin
}

// Defines is the macro table of one parse session. It is not safe for
// concurrent use; give each session its own Clone.
type Defines struct {
	macros map[string]Macro
}

// NewDefines creates an empty table.
func NewDefines() *Defines {
	return &Defines{macros: make(map[string]Macro)}
}

// DefinesFromMap seeds a table with object-like macros, as given by
// configuration or --define flags.
func DefinesFromMap(values map[string]string) *Defines {
	d := NewDefines()
	for name, value := range values {
		d.Define(Macro{Name: name, Value: value})
	}
	return d
}

// Define records or replaces a macro.
func (d *Defines) Define(m Macro) {
	d.macros[m.Name] = m
}

// Undefine removes a macro and reports whether it existed.
func (d *Defines) Undefine(name string) bool {
	_, ok := d.macros[name]
	delete(d.macros, name)
	return ok
}

// Lookup returns the macro called name.
func (d *Defines) Lookup(name string) (Macro, bool) {
	m, ok := d.macros[name]
	return m, ok
}

// IsDefined reports whether name is defined.
func (d *Defines) IsDefined(name string) bool {
	_, ok := d.macros[name]
	return ok
}

// Len returns the number of macros.
func (d *Defines) Len() int {
	return len(d.macros)
}

// Names returns the macro names in sorted order.
func (d *Defines) Names() []string {
	return slices.Sorted(maps.Keys(d.macros))
}

// Clone returns an independent copy of the table.
func (d *Defines) Clone() *Defines {
	out := &Defines{macros: make(map[string]Macro, len(d.macros))}
	for name, m := range d.macros {
		m.Parameters = slices.Clone(m.Parameters)
		out.macros[name] = m
	}
	return out
}

// ParseDefineFlag splits a NAME[=VALUE] command-line definition. A bare
// NAME defines the macro as "1", the way C compilers treat -D.
func ParseDefineFlag(spec string) (string, string, error) {
	name, value, hasValue := strings.Cut(spec, "=")
	name = strings.TrimSpace(name)
	if !IsIdentifier(name) {
		return "", "", fmt.Errorf("invalid macro name %q", name)
	}
	if !hasValue {
		value = "1"
	}
	return name, value, nil
}
