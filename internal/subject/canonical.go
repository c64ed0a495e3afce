package subject

import (
	"regexp"

	"marksheet/internal/normalize"
)

// Similarity scores two normalized codes in [0,1].
type Similarity func(a, b string) float64

// Cutoffs for the similarity step. Codes matching strictShape differ only in
// their numeric tail, so near-identical spellings like BCS405/BCS406 are
// distinct subjects and must not be conflated; everything else gets the
// permissive cutoff to absorb punctuation and typo noise.
const (
	permissiveCutoff = 0.86
	strictCutoff     = 0.99
)

// strictShape: one letter from the scheme's fixed prefix set, two or three
// letters, then exactly three digits (overall length 6-7).
var strictShape = regexp.MustCompile(`^[BCV][A-Z]{2,3}[0-9]{3}$`)

// Canonicalizer maps raw extracted codes onto registry entries, minting new
// canonical codes when nothing matches. It mutates the registry it wraps, so
// discoveries are visible to later calls within the same run.
type Canonicalizer struct {
	reg *Registry
	sim Similarity
}

// NewCanonicalizer wraps reg. A nil sim selects DiceSimilarity.
func NewCanonicalizer(reg *Registry, sim Similarity) *Canonicalizer {
	if sim == nil {
		sim = DiceSimilarity
	}
	return &Canonicalizer{reg: reg, sim: sim}
}

// Registry returns the registry the canonicalizer grows.
func (c *Canonicalizer) Registry() *Registry {
	return c.reg
}

// Resolve maps raw onto a canonical code. Resolution order: exact normalized
// match, suffix-collapse (a trailing variant letter on the candidate matches
// the unlettered base), best similarity at or above the shape-selected
// cutoff, then mint. isNew reports a mint. Resolve never fails: unknown
// subjects still surface in the output.
func (c *Canonicalizer) Resolve(raw string) (code string, isNew bool) {
	norm := normalize.Code(raw)
	if norm == "" {
		return "", false
	}

	if canon, ok := c.reg.Lookup(norm); ok {
		return canon, false
	}

	if base, ok := collapseSuffix(norm); ok {
		if canon, found := c.reg.Lookup(base); found {
			return canon, false
		}
	}

	cutoff := permissiveCutoff
	if l := len(norm); l >= 6 && l <= 7 && strictShape.MatchString(norm) {
		cutoff = strictCutoff
	}
	// Insertion order of Keys breaks ties: the first key at the top score wins.
	best, bestScore := "", 0.0
	for _, key := range c.reg.Keys() {
		if s := c.sim(norm, key); s > bestScore {
			best, bestScore = key, s
		}
	}
	if best != "" && bestScore >= cutoff {
		canon, _ := c.reg.Lookup(best)
		return canon, false
	}

	c.reg.Add(norm)
	return norm, true
}

// collapseSuffix strips a single trailing variant letter (A-Z) from a
// normalized code of length > 1.
func collapseSuffix(norm string) (string, bool) {
	if len(norm) > 1 {
		if last := norm[len(norm)-1]; last >= 'A' && last <= 'Z' {
			return norm[:len(norm)-1], true
		}
	}
	return "", false
}
