package sfnt

import "errors"

// Construction errors. Parsing a Face surfaces a rich, distinguished error
// (spec.md §7 "Propagation policy"); query-time failures never return an
// error, only a "not found" outcome (false, zero value, or None-like enum).
var (
	// ErrUnknownMagic means the source does not begin with a recognised
	// SFNT, OpenType/CFF, TrueType collection or PostScript-wrapped magic.
	ErrUnknownMagic = errors.New("sfnt: unknown file magic")

	// ErrFaceIndexOutOfBounds means the requested face index is not within
	// [0, numFonts) of a font collection.
	ErrFaceIndexOutOfBounds = errors.New("sfnt: face index out of bounds")

	// ErrMalformedFont means the font's structural integrity is violated:
	// an offset or length runs past the end of the source, a table's
	// header fields are out of range, or similar.
	ErrMalformedFont = errors.New("sfnt: malformed font")
)

// MissingTableError reports that a table required for this font kind
// (TrueType-outline or CFF-outline) was not present.
type MissingTableError struct {
	Tag string
}

func (e *MissingTableError) Error() string {
	return "sfnt: missing required table " + e.Tag
}

func (e *MissingTableError) Is(target error) bool {
	return target == ErrMalformedFont
}

func errMissingTable(tag string) error {
	return &MissingTableError{Tag: tag}
}
