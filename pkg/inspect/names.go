package inspect

import (
	"fmt"
	"strings"

	"github.com/synmap/synmap-go/pkg/model"
)

// matchChild resolves a label below g. An exact match wins; otherwise a
// single case-insensitive match is accepted.
func matchChild(g *model.Group, label string) (model.Node, error) {
	if n, ok := g.Child(label); ok {
		return n, nil
	}
	var found model.Node
	for _, c := range g.Children() {
		if !strings.EqualFold(c.Label(), label) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%w: %q below %q", ErrAmbiguous, label, g.Label())
		}
		found = c
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %q below %q", ErrNodeNotFound, label, g.Label())
	}
	return found, nil
}

// scanLimit caps the values examined per subrange when matching a label.
const scanLimit = 1 << 16

// labelValue returns the member of r whose display text is text. Exact
// matches win over case-insensitive ones.
func labelValue(r *model.Range, text string) (int32, bool) {
	cur := r.Cursor()
	var folded int32
	foldedOK := false
	for _, s := range r.Subranges() {
		n := 0
		for u := s.Lower; n < scanLimit; u++ {
			v := int32(u)
			if d, ok := cur.Display(v); ok {
				if d == text {
					return v, true
				}
				if !foldedOK && strings.EqualFold(d, text) {
					folded, foldedOK = v, true
				}
			}
			n++
			if u == s.Upper {
				break
			}
		}
	}
	return folded, foldedOK
}
