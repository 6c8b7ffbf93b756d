// Package variation implements layer L4, the variable-font deformation
// engine (spec.md §4.7): the 'fvar' axis table, the 'avar' piecewise
// axis remap, a generic Item Variation Store shared by HVAR/VVAR/MVAR
// and CFF2, 'gvar' tuple variations, and IUP inferred-point-delta
// interpolation for points a gvar tuple does not cover directly.
package variation

import "github.com/typeparse/sfnt/internal/bin"

// Axis is one entry of the 'fvar' axis array.
type Axis struct {
	Tag                    bin.Tag
	Min, Default, Max      float32
	Flags                  uint16
	AxisNameID             uint16
}

// Fvar is the parsed 'fvar' table: the axis array and named instances.
// Instance coordinates are not resolved further here (spec.md leaves
// "hidden" named instances and their subfamily-name resolution to the
// Face façade).
type Fvar struct {
	Axes      []Axis
	Instances []Instance
}

// Instance is one named instance: a coordinate tuple plus its name IDs.
type Instance struct {
	SubfamilyNameID uint16
	PostScriptNameID uint16 // 0xFFFF if absent
	Coords          []float32
}

// ParseFvar parses an 'fvar' table.
func ParseFvar(b []byte) (Fvar, bool) {
	c := bin.NewCursor(b)
	if !c.Skip(4) { // majorVersion, minorVersion
		return Fvar{}, false
	}
	axesArrayOffset, ok := c.U16()
	if !ok {
		return Fvar{}, false
	}
	if !c.Skip(2) { // reserved
		return Fvar{}, false
	}
	axisCount, ok := c.U16()
	if !ok {
		return Fvar{}, false
	}
	axisSize, ok := c.U16()
	if !ok || axisSize < 20 {
		return Fvar{}, false
	}
	instanceCount, ok := c.U16()
	if !ok {
		return Fvar{}, false
	}
	instanceSize, ok := c.U16()
	if !ok || instanceSize < 4 {
		return Fvar{}, false
	}

	ac := bin.NewCursor(b)
	if !ac.SeekTo(int(axesArrayOffset)) {
		return Fvar{}, false
	}
	axes := make([]Axis, 0, axisCount)
	for i := 0; i < int(axisCount); i++ {
		rec, ok := ac.Bytes(int(axisSize))
		if !ok {
			return Fvar{}, false
		}
		rc := bin.NewCursor(rec)
		tag, ok1 := rc.Tag()
		min, ok2 := rc.Fixed()
		def, ok3 := rc.Fixed()
		max, ok4 := rc.Fixed()
		flags, ok5 := rc.U16()
		nameID, ok6 := rc.U16()
		if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 || !ok6 {
			return Fvar{}, false
		}
		axes = append(axes, Axis{
			Tag: tag, Min: min.Float32(), Default: def.Float32(), Max: max.Float32(),
			Flags: flags, AxisNameID: nameID,
		})
	}

	instOffset := int(axesArrayOffset) + int(axisCount)*int(axisSize)
	ic := bin.NewCursor(b)
	if !ic.SeekTo(instOffset) {
		return Fvar{}, false
	}
	instances := make([]Instance, 0, instanceCount)
	for i := 0; i < int(instanceCount); i++ {
		rec, ok := ic.Bytes(int(instanceSize))
		if !ok {
			return Fvar{}, false
		}
		rc := bin.NewCursor(rec)
		subfamilyID, ok1 := rc.U16()
		if !ok1 {
			return Fvar{}, false
		}
		rc.Skip(2) // flags, reserved
		coords := make([]float32, axisCount)
		ok = true
		for a := 0; a < int(axisCount); a++ {
			v, okv := rc.Fixed()
			if !okv {
				ok = false
				break
			}
			coords[a] = v.Float32()
		}
		if !ok {
			return Fvar{}, false
		}
		psNameID := uint16(0xFFFF)
		if int(instanceSize) >= int(axisCount)*4+6 {
			if v, okp := rc.U16(); okp {
				psNameID = v
			}
		}
		instances = append(instances, Instance{
			SubfamilyNameID: subfamilyID, PostScriptNameID: psNameID, Coords: coords,
		})
	}

	return Fvar{Axes: axes, Instances: instances}, true
}

// Normalize maps a user-space coordinate on axis i to normalized
// [-1, 1] space, applying the default piecewise-linear rule (spec.md
// §4.7 "default normalization"): linear between min/default and
// default/max, clamped past the extremes.
func (f Fvar) Normalize(axisIndex int, user float32) float32 {
	if axisIndex < 0 || axisIndex >= len(f.Axes) {
		return 0
	}
	a := f.Axes[axisIndex]
	switch {
	case user < a.Min:
		user = a.Min
	case user > a.Max:
		user = a.Max
	}
	switch {
	case user < a.Default:
		if a.Default == a.Min {
			return 0
		}
		return -1 * (a.Default - user) / (a.Default - a.Min)
	case user > a.Default:
		if a.Max == a.Default {
			return 0
		}
		return (user - a.Default) / (a.Max - a.Default)
	default:
		return 0
	}
}
