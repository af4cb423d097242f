package normalize

import "github.com/poiesic/stixify/core"

// Assemble wraps indicators in a bundle with a fresh bundle id.
// The objects are copied, so the bundle does not alias the caller's slice.
// Indicator content is not validated.
func Assemble(indicators []core.Indicator) *core.Bundle {
	objects := make([]core.Indicator, len(indicators))
	copy(objects, indicators)
	return &core.Bundle{
		Type:        core.BundleType,
		ID:          core.NewBundleID(),
		SpecVersion: core.SpecVersion21,
		Objects:     objects,
	}
}
