package tables

import "github.com/typeparse/sfnt/internal/bin"

// OS2 is the decoded 'OS/2' table (versions 0-5 share a common prefix; this
// module reads through version-2+ fields where present and leaves later
// ones at their zero value otherwise).
type OS2 struct {
	Version             uint16
	WeightClass         uint16
	WidthClass          uint16
	FsType              uint16
	YSubscriptXSize      int16
	YSubscriptYSize      int16
	YSubscriptXOffset    int16
	YSubscriptYOffset    int16
	YSuperscriptXSize    int16
	YSuperscriptYSize    int16
	YSuperscriptXOffset  int16
	YSuperscriptYOffset  int16
	YStrikeoutSize       int16
	YStrikeoutPosition   int16
	Panose              [10]byte
	FsSelection         uint16
	SCapHeight          int16 // version >= 2
	SxHeight            int16 // version >= 2
}

// Fields of fsSelection relevant to identity queries.
const (
	FsSelectionItalic     = 1 << 0
	FsSelectionBold       = 1 << 5
	FsSelectionRegular    = 1 << 6
	FsSelectionOblique    = 1 << 9
)

// ParseOS2 parses an 'OS/2' table of any version from 0 to 5.
func ParseOS2(b []byte) (OS2, bool) {
	if len(b) < 78 {
		return OS2{}, false
	}
	c := bin.NewCursor(b)
	version, _ := c.U16()
	c.Skip(2) // xAvgCharWidth
	weightClass, _ := c.U16()
	widthClass, _ := c.U16()
	fsType, _ := c.U16()
	ySubXSize, _ := c.I16()
	ySubYSize, _ := c.I16()
	ySubXOff, _ := c.I16()
	ySubYOff, _ := c.I16()
	ySupXSize, _ := c.I16()
	ySupYSize, _ := c.I16()
	ySupXOff, _ := c.I16()
	ySupYOff, _ := c.I16()
	yStrikeSize, _ := c.I16()
	yStrikePos, _ := c.I16()
	c.Skip(2) // sFamilyClass
	var panose [10]byte
	if raw, ok := c.Bytes(10); ok {
		copy(panose[:], raw)
	}
	c.Skip(16) // ulUnicodeRange1..4
	c.Skip(4)  // achVendID
	fsSelection, ok := c.U16()
	if !ok {
		return OS2{}, false
	}
	o := OS2{
		Version: version, WeightClass: weightClass, WidthClass: widthClass,
		FsType: fsType,
		YSubscriptXSize: ySubXSize, YSubscriptYSize: ySubYSize,
		YSubscriptXOffset: ySubXOff, YSubscriptYOffset: ySubYOff,
		YSuperscriptXSize: ySupXSize, YSuperscriptYSize: ySupYSize,
		YSuperscriptXOffset: ySupXOff, YSuperscriptYOffset: ySupYOff,
		YStrikeoutSize: yStrikeSize, YStrikeoutPosition: yStrikePos,
		Panose: panose, FsSelection: fsSelection,
	}
	// usFirstCharIndex(2) usLastCharIndex(2) sTypoAscender(2) sTypoDescender(2)
	// sTypoLineGap(2) usWinAscent(2) usWinDescent(2) = 14 bytes before version>=1 fields.
	if !c.Skip(14) {
		return o, true
	}
	if version == 0 {
		return o, true
	}
	if !c.Skip(8) { // ulCodePageRange1, ulCodePageRange2
		return o, true
	}
	if version == 1 {
		return o, true
	}
	sxHeight, ok1 := c.I16()
	sCapHeight, ok2 := c.I16()
	if ok1 && ok2 {
		o.SxHeight = sxHeight
		o.SCapHeight = sCapHeight
	}
	return o, true
}
