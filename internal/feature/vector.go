package feature

// Vector is an ordered, fixed-length numeric feature array plus the set
// of slots that were imputed rather than observed. Created fresh per
// appraisal call; the BookRecord stays the source of truth.
type Vector struct {
	SchemaVersion string
	Values        []float64
	// Missing lists the names of defaulted slots in schema order, so a
	// real zero stays distinguishable from an imputed one.
	Missing []string
}

// IsMissing reports whether a named slot was imputed.
func (v *Vector) IsMissing(name string) bool {
	for _, m := range v.Missing {
		if m == name {
			return true
		}
	}
	return false
}

// Completeness is the fraction of slots that were observed rather than
// defaulted, in [0, 1].
func (v *Vector) Completeness() float64 {
	if len(v.Values) == 0 {
		return 0
	}
	return 1 - float64(len(v.Missing))/float64(len(v.Values))
}
