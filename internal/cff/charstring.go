package cff

// Sink receives the contour commands emitted while executing a Type 2
// charstring. Defined locally (rather than imported from the root
// package) to avoid an import cycle; the root package's Sink type
// satisfies this interface structurally (spec.md §4.6 "each internal
// package defines its own local Sink interface").
type Sink interface {
	MoveTo(x, y float32)
	LineTo(x, y float32)
	CurveTo(x1, y1, x2, y2, x, y float32)
	Close()
}

// BoundingBox mirrors the root package's type, kept free of the import
// to avoid a cycle.
type BoundingBox struct {
	XMin, YMin, XMax, YMax int32
}

func (b *BoundingBox) update(x, y float32) {
	xi, yi := int32(x), int32(y)
	if xi < b.XMin {
		b.XMin = xi
	}
	if xi > b.XMax {
		b.XMax = xi
	}
	if yi < b.YMin {
		b.YMin = yi
	}
	if yi > b.YMax {
		b.YMax = yi
	}
}

const (
	maxOperandStack = 48
	maxSubrDepth    = 10
	maxStemHints    = 96 // generous; hintmask bytes are ceil(stems/8)
)

// bias implements the subroutine number bias of Type 2 charstrings
// (spec.md §4.6 "subroutine bias"): indexes below 1240 entries are
// biased by 107, below 33900 by 1131, otherwise by 32768.
func bias(n int) int {
	switch {
	case n < 1240:
		return 107
	case n < 33900:
		return 1131
	default:
		return 32768
	}
}

// interp is the Type 2 / CFF2 charstring stack machine. One interp is
// used per glyph outline call; it is not safe for concurrent reuse.
type interp struct {
	stack   [maxOperandStack]float32
	sp      int
	x, y    float32
	nStems  int
	haveWidth bool
	width   float32
	sink    Sink
	box     BoundingBox
	open    bool

	font    *Font
	priv    privateInfo
	depth   int

	// CFF2 blend support.
	isCFF2  bool
	scalars []float32 // per-region blend scalars, nil if not variable
	vsIndex int

	segments int
}

const maxEmittedSegments = 10000

func (ip *interp) push(v float32) bool {
	if ip.sp >= maxOperandStack {
		return false
	}
	ip.stack[ip.sp] = v
	ip.sp++
	return true
}

func (ip *interp) clear() { ip.sp = 0 }

func (ip *interp) moveTo(dx, dy float32) bool {
	if ip.open {
		ip.sink.Close()
	}
	ip.x += dx
	ip.y += dy
	ip.box.update(ip.x, ip.y)
	ip.sink.MoveTo(ip.x, ip.y)
	ip.open = true
	ip.segments++
	return ip.segments <= maxEmittedSegments
}

func (ip *interp) lineTo(dx, dy float32) bool {
	ip.x += dx
	ip.y += dy
	ip.box.update(ip.x, ip.y)
	ip.sink.LineTo(ip.x, ip.y)
	ip.segments++
	return ip.segments <= maxEmittedSegments
}

// curveTo emits a cubic Bezier via two relative control-point deltas and
// a relative endpoint delta (spec.md §4.6: "CFF's cubic primitive maps
// directly onto Sink.CurveTo, unlike glyf's quadratics").
func (ip *interp) curveTo(dx1, dy1, dx2, dy2, dx3, dy3 float32) bool {
	x1, y1 := ip.x+dx1, ip.y+dy1
	x2, y2 := x1+dx2, y1+dy2
	x3, y3 := x2+dx3, y2+dy3
	ip.box.update(x1, y1)
	ip.box.update(x2, y2)
	ip.box.update(x3, y3)
	ip.sink.CurveTo(x1, y1, x2, y2, x3, y3)
	ip.x, ip.y = x3, y3
	ip.segments++
	return ip.segments <= maxEmittedSegments
}

// maybeTakeWidth consumes a leading width operand from the operand
// stack the first time a fixed-arity moveto operator is executed: an
// extra leading operand beyond the operator's own nominalArgs signals
// an explicit width (spec.md §4.6 "Width handling"). CFF2 charstrings
// never encode a width this way (widths come from hmtx/HVAR) so the
// check is skipped entirely when isCFF2 is set.
func (ip *interp) maybeTakeWidth(nominalArgs int) {
	if ip.haveWidth || ip.isCFF2 {
		return
	}
	ip.haveWidth = true
	if ip.sp > nominalArgs {
		ip.width = float32(ip.priv.nominalWidthX) + ip.stack[0]
		copy(ip.stack[:ip.sp-1], ip.stack[1:ip.sp])
		ip.sp--
	} else {
		ip.width = float32(ip.priv.defaultWidthX)
	}
}

// maybeTakeWidthParity is maybeTakeWidth's counterpart for the
// variable-arity stem-hint, mask, and endchar operators. Their operand
// count is otherwise always even (stem pairs) or, for endchar, 0 or 4
// (the deprecated seac form), so a nonzero count alone doesn't signal
// a width the way it does for a fixed-arity moveto: it's an odd
// operand count that signals a leading width value (spec.md §9's
// odd-stack-depth heuristic).
func (ip *interp) maybeTakeWidthParity() {
	if ip.haveWidth || ip.isCFF2 {
		return
	}
	ip.haveWidth = true
	if ip.sp%2 == 1 {
		ip.width = float32(ip.priv.nominalWidthX) + ip.stack[0]
		copy(ip.stack[:ip.sp-1], ip.stack[1:ip.sp])
		ip.sp--
	} else {
		ip.width = float32(ip.priv.defaultWidthX)
	}
}

// Outline runs the Type 2 charstring for gid and emits its contours to
// sink. scalars, when non-nil, supplies the per-region blend scalars
// used by the CFF2 blend operator; pass nil for a non-variable CFF
// font.
func Outline(font *Font, gid uint16, sink Sink, scalars []float32) (BoundingBox, bool) {
	cs, ok := font.charStrings.Get(int(gid))
	if !ok {
		return BoundingBox{}, false
	}
	ip := &interp{
		sink:    sink,
		font:    font,
		priv:    font.privateFor(gid),
		isCFF2:  font.isCFF2,
		scalars: scalars,
		box:     BoundingBox{XMin: 1 << 30, YMin: 1 << 30, XMax: -(1 << 30), YMax: -(1 << 30)},
	}
	if !ip.run(cs) {
		return BoundingBox{}, false
	}
	if ip.open {
		sink.Close()
	}
	if ip.box.XMin > ip.box.XMax {
		ip.box = BoundingBox{}
	}
	return ip.box, true
}

// run executes one charstring (or, recursively, one subroutine) body.
func (ip *interp) run(cs []byte) bool {
	i := 0
	for i < len(cs) {
		b0 := cs[i]
		switch {
		case b0 == 28: // shortint
			if i+3 > len(cs) {
				return false
			}
			v := int16(uint16(cs[i+1])<<8 | uint16(cs[i+2]))
			if !ip.push(float32(v)) {
				return false
			}
			i += 3
			continue
		case b0 >= 32:
			v, n, ok := decodeNumber(cs[i:])
			if !ok || !ip.push(v) {
				return false
			}
			i += n
			continue
		}

		// Operators.
		switch b0 {
		case 1, 3, 18, 23: // hstem, vstem, hstemhm, vstemhm
			ip.maybeTakeWidthParity()
			ip.nStems += ip.sp / 2
			ip.clear()
			i++
		case 19, 20: // hintmask, cntrmask
			ip.maybeTakeWidthParity()
			ip.nStems += ip.sp / 2
			ip.clear()
			i++
			i += (ip.nStems + 7) / 8
		case 21: // rmoveto
			ip.maybeTakeWidth(2)
			if ip.sp < 2 || !ip.moveTo(ip.stack[0], ip.stack[1]) {
				return false
			}
			ip.clear()
			i++
		case 22: // hmoveto
			ip.maybeTakeWidth(1)
			if ip.sp < 1 || !ip.moveTo(ip.stack[0], 0) {
				return false
			}
			ip.clear()
			i++
		case 4: // vmoveto
			ip.maybeTakeWidth(1)
			if ip.sp < 1 || !ip.moveTo(0, ip.stack[0]) {
				return false
			}
			ip.clear()
			i++
		case 5: // rlineto
			for k := 0; k+1 < ip.sp; k += 2 {
				if !ip.lineTo(ip.stack[k], ip.stack[k+1]) {
					return false
				}
			}
			ip.clear()
			i++
		case 6: // hlineto
			if !ip.altLineTo(true) {
				return false
			}
			i++
		case 7: // vlineto
			if !ip.altLineTo(false) {
				return false
			}
			i++
		case 8: // rrcurveto
			for k := 0; k+5 < ip.sp; k += 6 {
				if !ip.curveTo(ip.stack[k], ip.stack[k+1], ip.stack[k+2], ip.stack[k+3], ip.stack[k+4], ip.stack[k+5]) {
					return false
				}
			}
			ip.clear()
			i++
		case 24: // rcurveline
			k := 0
			for ; k+5 < ip.sp-2; k += 6 {
				if !ip.curveTo(ip.stack[k], ip.stack[k+1], ip.stack[k+2], ip.stack[k+3], ip.stack[k+4], ip.stack[k+5]) {
					return false
				}
			}
			if k+1 < ip.sp {
				if !ip.lineTo(ip.stack[k], ip.stack[k+1]) {
					return false
				}
			}
			ip.clear()
			i++
		case 25: // rlinecurve
			k := 0
			for ; k+1 < ip.sp-6; k += 2 {
				if !ip.lineTo(ip.stack[k], ip.stack[k+1]) {
					return false
				}
			}
			if k+5 < ip.sp {
				if !ip.curveTo(ip.stack[k], ip.stack[k+1], ip.stack[k+2], ip.stack[k+3], ip.stack[k+4], ip.stack[k+5]) {
					return false
				}
			}
			ip.clear()
			i++
		case 26: // vvcurveto
			if !ip.vvCurveTo() {
				return false
			}
			i++
		case 27: // hhcurveto
			if !ip.hhCurveTo() {
				return false
			}
			i++
		case 30: // vhcurveto
			if !ip.altCurveTo(false) {
				return false
			}
			i++
		case 31: // hvcurveto
			if !ip.altCurveTo(true) {
				return false
			}
			i++
		case 10: // callsubr
			if ip.sp < 1 {
				return false
			}
			ip.sp--
			idx := int(ip.stack[ip.sp]) + bias(ip.priv.localSubrs.Len())
			sub, ok := ip.priv.localSubrs.Get(idx)
			if !ok {
				return false
			}
			ip.depth++
			if ip.depth > maxSubrDepth {
				return false
			}
			if !ip.run(sub) {
				return false
			}
			ip.depth--
			i++
		case 29: // callgsubr
			if ip.sp < 1 {
				return false
			}
			ip.sp--
			idx := int(ip.stack[ip.sp]) + bias(ip.font.globalSubrs.Len())
			sub, ok := ip.font.globalSubrs.Get(idx)
			if !ok {
				return false
			}
			ip.depth++
			if ip.depth > maxSubrDepth {
				return false
			}
			if !ip.run(sub) {
				return false
			}
			ip.depth--
			i++
		case 11: // return
			return true
		case 14: // endchar
			ip.maybeTakeWidthParity()
			return true
		case 12: // escape
			if i+1 >= len(cs) {
				return false
			}
			if !ip.escape(int(cs[i+1])) {
				return false
			}
			i += 2
		case 15: // vsindex (CFF2)
			if ip.sp < 1 {
				return false
			}
			ip.vsIndex = int(ip.stack[ip.sp-1])
			ip.clear()
			i++
		case 16: // blend (CFF2)
			if !ip.blend() {
				return false
			}
			i++
		default:
			return false
		}
	}
	return true
}

// altLineTo implements hlineto/vlineto, which alternate axis on each
// successive line segment (spec.md §4.6 "alternating" operators).
func (ip *interp) altLineTo(startHorizontal bool) bool {
	horiz := startHorizontal
	for k := 0; k < ip.sp; k++ {
		var ok bool
		if horiz {
			ok = ip.lineTo(ip.stack[k], 0)
		} else {
			ok = ip.lineTo(0, ip.stack[k])
		}
		if !ok {
			return false
		}
		horiz = !horiz
	}
	ip.clear()
	return true
}

// altCurveTo implements vhcurveto/hvcurveto.
func (ip *interp) altCurveTo(startHorizontal bool) bool {
	horiz := startHorizontal
	k := 0
	for k+3 < ip.sp {
		last := k+4 >= ip.sp-1
		var dlast float32
		if last && k+4 < ip.sp {
			dlast = ip.stack[k+4]
		}
		if horiz {
			if !ip.curveTo(ip.stack[k], 0, ip.stack[k+1], ip.stack[k+2], dlast, ip.stack[k+3]) {
				return false
			}
		} else {
			if !ip.curveTo(0, ip.stack[k], ip.stack[k+1], ip.stack[k+2], ip.stack[k+3], dlast) {
				return false
			}
		}
		horiz = !horiz
		k += 4
	}
	ip.clear()
	return true
}

// vvCurveTo implements vvcurveto: an optional leading dx1, then groups
// of 4 (dya, dxb, dyb, dyc).
func (ip *interp) vvCurveTo() bool {
	k := 0
	var dx1 float32
	if ip.sp%4 == 1 {
		dx1 = ip.stack[0]
		k = 1
	}
	first := true
	for ; k+3 < ip.sp; k += 4 {
		dx := float32(0)
		if first {
			dx = dx1
			first = false
		}
		if !ip.curveTo(dx, ip.stack[k], ip.stack[k+1], ip.stack[k+2], 0, ip.stack[k+3]) {
			return false
		}
	}
	ip.clear()
	return true
}

// hhCurveTo implements hhcurveto: an optional leading dy1, then groups
// of 4 (dxa, dxb, dyb, dxc).
func (ip *interp) hhCurveTo() bool {
	k := 0
	var dy1 float32
	if ip.sp%4 == 1 {
		dy1 = ip.stack[0]
		k = 1
	}
	first := true
	for ; k+3 < ip.sp; k += 4 {
		dy := float32(0)
		if first {
			dy = dy1
			first = false
		}
		if !ip.curveTo(ip.stack[k], dy, ip.stack[k+1], ip.stack[k+2], ip.stack[k+3], 0) {
			return false
		}
	}
	ip.clear()
	return true
}

// escape handles the 12-prefixed flex family used for smooth curve
// joins; only the operators real fonts emit are implemented, matching
// the charstrings the rasterizer actually needs to draw (spec.md
// §4.6 "flex operators").
func (ip *interp) escape(op int) bool {
	switch op {
	case 35: // flex: 13 args, two curves, last arg is flex depth (ignored)
		if ip.sp < 13 {
			return false
		}
		s := ip.stack[:]
		if !ip.curveTo(s[0], s[1], s[2], s[3], s[4], s[5]) {
			return false
		}
		if !ip.curveTo(s[6], s[7], s[8], s[9], s[10], s[11]) {
			return false
		}
		ip.clear()
	case 34: // hflex: 7 args
		if ip.sp < 7 {
			return false
		}
		s := ip.stack[:]
		if !ip.curveTo(s[0], 0, s[1], s[2], s[3], 0) {
			return false
		}
		if !ip.curveTo(s[4], 0, s[5], -s[2], s[6], 0) {
			return false
		}
		ip.clear()
	case 36: // hflex1: 9 args
		if ip.sp < 9 {
			return false
		}
		s := ip.stack[:]
		if !ip.curveTo(s[0], s[1], s[2], s[3], s[4], 0) {
			return false
		}
		dyTotal := s[1] + s[3] + s[7]
		if !ip.curveTo(s[5], 0, s[6], s[7], s[8], -dyTotal) {
			return false
		}
		ip.clear()
	case 37: // flex1: 11 args
		if ip.sp < 11 {
			return false
		}
		s := ip.stack[:]
		dx := s[0] + s[2] + s[4] + s[6] + s[8]
		dy := s[1] + s[3] + s[5] + s[7] + s[9]
		if !ip.curveTo(s[0], s[1], s[2], s[3], s[4], s[5]) {
			return false
		}
		if abs32(dx) > abs32(dy) {
			if !ip.curveTo(s[6], s[7], s[8], s[9], s[10], -dy) {
				return false
			}
		} else {
			if !ip.curveTo(s[6], s[7], s[8], s[9], -dx, s[10]) {
				return false
			}
		}
		ip.clear()
	default:
		return false
	}
	return true
}

// blend implements the CFF2 blend operator (spec.md §4.6 "blend"): pops
// n (result count), then n*(1+k) operands (n default values followed
// by n*k per-region deltas, k = len(scalars)), and pushes n blended
// results back onto the stack.
func (ip *interp) blend() bool {
	if ip.sp < 1 {
		return false
	}
	ip.sp--
	n := int(ip.stack[ip.sp])
	k := len(ip.scalars)
	need := n * (1 + k)
	if n < 0 || need < 0 || need > ip.sp {
		return false
	}
	base := ip.sp - need
	for i := 0; i < n; i++ {
		v := ip.stack[base+i]
		for j := 0; j < k; j++ {
			v += ip.stack[base+n+i*k+j] * ip.scalars[j]
		}
		ip.stack[base+i] = v
	}
	ip.sp = base + n
	return true
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// decodeNumber decodes one Type 2 operand starting at b[0], returning
// its value, the number of bytes consumed, and ok.
func decodeNumber(b []byte) (float32, int, bool) {
	if len(b) == 0 {
		return 0, 0, false
	}
	b0 := b[0]
	switch {
	case b0 >= 32 && b0 <= 246:
		return float32(int(b0) - 139), 1, true
	case b0 >= 247 && b0 <= 250:
		if len(b) < 2 {
			return 0, 0, false
		}
		return float32((int(b0)-247)*256 + int(b[1]) + 108), 2, true
	case b0 >= 251 && b0 <= 254:
		if len(b) < 2 {
			return 0, 0, false
		}
		return float32(-(int(b0)-251)*256 - int(b[1]) - 108), 2, true
	case b0 == 255: // 16.16 fixed
		if len(b) < 5 {
			return 0, 0, false
		}
		v := int32(uint32(b[1])<<24 | uint32(b[2])<<16 | uint32(b[3])<<8 | uint32(b[4]))
		return float32(v) / 65536, 5, true
	}
	return 0, 0, false
}
