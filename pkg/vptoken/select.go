package vptoken

import (
	"github.com/samber/lo"

	"github.com/sirosfoundation/vcionboard/pkg/form"
)

// SelectRichest picks the candidate with the most populated keys. Ties go to
// the earliest candidate. It returns false when there are no candidates.
func SelectRichest(candidates []form.Payload) (form.Payload, bool) {
	if len(candidates) == 0 {
		return nil, false
	}

	return lo.MaxBy(candidates, func(a, b form.Payload) bool {
		return a.Populated() > b.Populated()
	}), true
}
