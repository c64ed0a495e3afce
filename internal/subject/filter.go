package subject

import "marksheet/internal/normalize"

// Filter is the normalized allow-list for a run. An empty filter includes
// everything. A filter entry matches a code in three ways: literally, as the
// unlettered base of a lettered code (entry BCS405 absorbs BCS405B), and in
// reverse (entry BCS405A also admits the base BCS405). Users specify either
// the parent code or a specific variant and expect both to resolve.
type Filter struct {
	order []string
	set   map[string]struct{}
}

// NewFilter normalizes and dedupes codes, preserving order. Blank entries
// are dropped.
func NewFilter(codes []string) *Filter {
	f := &Filter{set: make(map[string]struct{})}
	for _, c := range codes {
		norm := normalize.Code(c)
		if norm == "" {
			continue
		}
		if _, ok := f.set[norm]; ok {
			continue
		}
		f.order = append(f.order, norm)
		f.set[norm] = struct{}{}
	}
	return f
}

// Empty reports whether no filtering was requested.
func (f *Filter) Empty() bool {
	return len(f.order) == 0
}

// Codes returns the declared codes in input order. These seed the registry
// and always appear as workbook headers.
func (f *Filter) Codes() []string {
	return f.order
}

// Match reports whether code is included under the filter. Always true when
// the filter is empty.
func (f *Filter) Match(code string) bool {
	if f.Empty() {
		return true
	}
	norm := normalize.Code(code)
	if norm == "" {
		return false
	}
	if _, ok := f.set[norm]; ok {
		return true
	}
	if base, ok := collapseSuffix(norm); ok {
		if _, found := f.set[base]; found {
			return true
		}
	}
	for _, entry := range f.order {
		if base, ok := collapseSuffix(entry); ok && base == norm {
			return true
		}
	}
	return false
}
