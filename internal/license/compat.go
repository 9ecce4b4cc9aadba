package license

import (
	"fmt"

	"github.com/licensegate/licensegate/internal/models"
)

// Compatible classifies the pairwise relation between two licenses using
// the fixed lattice:
//
//	permissive <-> permissive            FULL
//	permissive  -> copyleft              CONDITIONAL
//	copyleft   <-> differing strength    INCOMPATIBLE
//	anything touching unknown            UNKNOWN
func Compatible(a, b string) (models.Compatibility, string) {
	ca := Categorize(a)
	cb := Categorize(b)

	if ca == CategoryUnknown || cb == CategoryUnknown {
		return models.CompatUnknown, "one side has no recognizable license"
	}

	if IsPermissive(ca) && IsPermissive(cb) {
		return models.CompatFull, ""
	}

	// Permissive code can flow into a copyleft work under its conditions
	if IsPermissive(ca) && IsCopyleft(cb) {
		return models.CompatConditional, fmt.Sprintf("%s terms apply to the combined work", b)
	}
	if IsCopyleft(ca) && IsPermissive(cb) {
		return models.CompatConditional, fmt.Sprintf("%s terms apply to the combined work", a)
	}

	if IsCopyleft(ca) && IsCopyleft(cb) {
		if ca == cb {
			return models.CompatConditional, "same copyleft strength, obligations stack"
		}
		return models.CompatIncompatible, fmt.Sprintf("%s and %s impose conflicting reciprocal terms", a, b)
	}

	if ca == CategoryProprietary || cb == CategoryProprietary {
		if IsCopyleft(ca) || IsCopyleft(cb) {
			return models.CompatIncompatible, "copyleft terms conflict with proprietary licensing"
		}
		return models.CompatConditional, "proprietary license terms must be reviewed"
	}

	// OTHER on either side: not enough knowledge to clear it
	return models.CompatUnknown, "license outside the known lattice"
}
