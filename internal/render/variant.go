package render

import "strings"

// Variant selects one of the fixed resume layouts.
type Variant string

const (
	Modern  Variant = "modern"
	Classic Variant = "classic"
	Minimal Variant = "minimal"
)

// Variants lists every layout in a stable order.
var Variants = []Variant{Modern, Classic, Minimal}

// ParseVariant maps a stored template name to a Variant. Unknown or empty
// names select Modern.
func ParseVariant(name string) Variant {
	switch Variant(strings.ToLower(strings.TrimSpace(name))) {
	case Classic:
		return Classic
	case Minimal:
		return Minimal
	default:
		return Modern
	}
}

func (v Variant) String() string { return string(v) }

func (v Variant) file() string { return string(v) + ".html" }
