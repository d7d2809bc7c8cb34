package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"canonical passthrough", "Frank Herbert", "Frank Herbert"},
		{"inverted", "Herbert, Frank", "Frank Herbert"},
		{"inverted no space", "Herbert,Frank", "Frank Herbert"},
		{"all caps inverted", "HERBERT, FRANK", "Frank Herbert"},
		{"all lower", "frank herbert", "Frank Herbert"},
		{"trailing period", "CLANCY, Tom.", "Tom Clancy"},
		{"multi-token first segment inverts", "Goodwin, Doris Kearns", "Doris Kearns Goodwin"},
		{"creator list keeps primary", "Frank Herbert, Brian Herbert", "Frank Herbert"},
		{"double inversion keeps first pair", "Herbert, Frank, Anderson, Kevin", "Frank Herbert"},
		{"mixed case preserved", "McCarthy, Cormac", "Cormac McCarthy"},
		{"whitespace", "  Frank   Herbert  ", "Frank Herbert"},
		{"empty", "", ""},
		{"single token", "Homer", "Homer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.in))
		})
	}
}

func TestNormalizeName_Idempotent(t *testing.T) {
	inputs := []string{"Frank Herbert", "Herbert, Frank", "McCarthy, Cormac", "DORIS KEARNS GOODWIN", "J.K. Rowling"}
	for _, in := range inputs {
		once := NormalizeName(in)
		assert.Equal(t, once, NormalizeName(once), "normalizing %q twice diverged", in)
	}
}

// Normalization runs on every batch worker and HTTP request, so it must
// be safe under the race detector with no synchronization by callers.
func TestNormalizeName_ConcurrentUse(t *testing.T) {
	inputs := []string{"HERBERT, FRANK", "doris kearns goodwin", "McCarthy, Cormac", "KING, Stephen."}

	var wg sync.WaitGroup
	for n := 0; n < 8; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < 200; n++ {
				for _, in := range inputs {
					_ = NormalizeName(in)
				}
			}
		}()
	}
	wg.Wait()
}

func TestNormalizeName_VariantsConverge(t *testing.T) {
	variants := []string{"Frank Herbert", "Herbert, Frank", "herbert, frank", "HERBERT,FRANK", "Frank Herbert."}
	for _, v := range variants {
		assert.Equal(t, "Frank Herbert", NormalizeName(v), "variant %q", v)
	}
}
