package frame

import (
	"sort"
	"strconv"
	"strings"
)

// NewDisplayNamer returns a DisplayNameFunc for the given frames. A field keeps
// its explicit display name or plain name when that name is unique across all
// frames; shared names are qualified by the field labels or the frame name,
// and any remaining clash gets a positional suffix.
func NewDisplayNamer(frames []Frame) DisplayNameFunc {
	type ref struct {
		field *Field
		frame *Frame
	}

	var refs []ref
	counts := make(map[string]int)
	for i := range frames {
		fr := &frames[i]
		for j := range fr.Fields {
			f := &fr.Fields[j]
			refs = append(refs, ref{field: f, frame: fr})
			counts[baseName(f)]++
		}
	}

	candidates := make([]string, len(refs))
	taken := make(map[string]bool, len(refs))
	for i, r := range refs {
		name := baseName(r.field)
		if counts[name] > 1 {
			name = qualify(name, r.field, r.frame)
		}
		candidates[i] = name
		taken[name] = true
	}

	// The first field holding a candidate keeps it; later ones take the
	// lowest suffix no other field owns.
	resolved := make(map[*Field]string, len(refs))
	assigned := make(map[string]bool, len(refs))
	next := make(map[string]int, len(refs))
	for i, r := range refs {
		name := candidates[i]
		if assigned[name] {
			n := max(next[name], 2)
			for taken[suffixed(name, n)] || assigned[suffixed(name, n)] {
				n++
			}
			next[name] = n + 1
			name = suffixed(name, n)
		}
		assigned[name] = true
		resolved[r.field] = name
	}

	return func(field *Field, _ *Frame) string {
		if name, ok := resolved[field]; ok {
			return name
		}
		return baseName(field)
	}
}

// PlainDisplayName exposes a field under its display name or plain name
// without any disambiguation.
func PlainDisplayName(field *Field, _ *Frame) string {
	return baseName(field)
}

func suffixed(name string, n int) string {
	return name + " " + strconv.Itoa(n)
}

func baseName(f *Field) string {
	if f.DisplayName != "" {
		return f.DisplayName
	}
	return f.Name
}

func qualify(name string, f *Field, fr *Frame) string {
	if len(f.Labels) > 0 {
		keys := make([]string, 0, len(f.Labels))
		for k := range f.Labels {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = k + "=" + strconv.Quote(f.Labels[k])
		}
		return name + " {" + strings.Join(pairs, ", ") + "}"
	}
	if fr.Name != "" && fr.Name != name {
		return name + " (" + fr.Name + ")"
	}
	return name
}
