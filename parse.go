package sfnt

import (
	"github.com/typeparse/sfnt/internal/cff"
	"github.com/typeparse/sfnt/internal/cmap"
	"github.com/typeparse/sfnt/internal/tables"
)

// Parse parses a single-font SFNT source (TrueType, OpenType/CFF, or one
// of the PostScript-wrapped/Apple "true" variants). Use ParseCollection
// for a 'ttcf' source.
func Parse(src []byte) (*Face, error) {
	if isCollection(src) {
		return ParseCollection(src, 0)
	}
	dir, err := readOffsetTable(src, 0)
	if err != nil {
		return nil, err
	}
	return newFace(src, dir)
}

// ParseCollection parses face index faceIndex out of a 'ttcf' collection
// source.
func ParseCollection(src []byte, faceIndex int) (*Face, error) {
	dir, err := readCollectionDirectory(src, faceIndex)
	if err != nil {
		return nil, err
	}
	return newFace(src, dir)
}

// newFace resolves every table this module recognizes, eagerly validating
// the required ones (spec.md §7 "construction surfaces a rich error") and
// leaving optional ones absent on any parse failure (spec.md §9 "Graceful
// table-level degradation").
func newFace(src []byte, dir directory) (*Face, error) {
	f := &Face{src: src}

	headBytes, ok := dir.table(src, "head")
	if !ok {
		return nil, errMissingTable("head")
	}
	head, ok := tables.ParseHead(headBytes)
	if !ok {
		return nil, ErrMalformedFont
	}
	f.head = head

	maxpBytes, ok := dir.table(src, "maxp")
	if !ok {
		return nil, errMissingTable("maxp")
	}
	numGlyphs, ok := tables.ParseMaxpNumGlyphs(maxpBytes)
	if !ok || numGlyphs < 1 {
		return nil, ErrMalformedFont
	}
	f.numGlyphs = numGlyphs

	cmapBytes, ok := dir.table(src, "cmap")
	if !ok {
		return nil, errMissingTable("cmap")
	}
	if cm, ok := cmap.ParseCmap(cmapBytes); ok {
		f.cmap = cm
	} else {
		return nil, ErrMalformedFont
	}

	if dir.isCFF {
		if cff2Bytes, ok := dir.table(src, "CFF2"); ok {
			cffFont, ok := cff.ParseCFF2(cff2Bytes)
			if !ok {
				return nil, ErrMalformedFont
			}
			f.cff = cffFont
		} else {
			cffBytes, ok := dir.table(src, "CFF ")
			if !ok {
				return nil, errMissingTable("CFF ")
			}
			cffFont, ok := cff.Parse(cffBytes)
			if !ok {
				return nil, ErrMalformedFont
			}
			f.cff = cffFont
		}
	} else {
		locaBytes, ok1 := dir.table(src, "loca")
		glyfBytes, ok2 := dir.table(src, "glyf")
		if !ok1 {
			return nil, errMissingTable("loca")
		}
		if !ok2 {
			return nil, errMissingTable("glyf")
		}
		loca, ok := tables.ParseLoca(locaBytes, numGlyphs, head.IndexToLocFormat == 0)
		if !ok {
			return nil, ErrMalformedFont
		}
		f.loca = loca
		f.glyf = glyfBytes
	}

	hheaBytes, ok1 := dir.table(src, "hhea")
	hmtxBytes, ok2 := dir.table(src, "hmtx")
	if !ok1 || !ok2 {
		return nil, errMissingTable("hhea")
	}
	hhea, ok := tables.ParseHhea(hheaBytes)
	if !ok {
		return nil, ErrMalformedFont
	}
	f.hhea = hhea
	f.hmtx = tables.NewHmtx(hmtxBytes, int(hhea.NumberOfLongMetrics))

	if vheaBytes, ok := dir.table(src, "vhea"); ok {
		if vhea, ok := tables.ParseHhea(vheaBytes); ok {
			f.vhea, f.hasVhea = vhea, true
			if vmtxBytes, ok := dir.table(src, "vmtx"); ok {
				vm := tables.NewHmtx(vmtxBytes, int(vhea.NumberOfLongMetrics))
				f.vmtx = &vm
			}
		}
	}

	if nameBytes, ok := dir.table(src, "name"); ok {
		if n, ok := tables.ParseName(nameBytes); ok {
			f.name = n
		}
	}
	if os2Bytes, ok := dir.table(src, "OS/2"); ok {
		if o, ok := tables.ParseOS2(os2Bytes); ok {
			f.os2, f.hasOS2 = o, true
		}
	}
	if postBytes, ok := dir.table(src, "post"); ok {
		if p, ok := tables.ParsePost(postBytes, numGlyphs); ok {
			f.post = p
		}
	}
	if kernBytes, ok := dir.table(src, "kern"); ok {
		if k, ok := tables.ParseKern(kernBytes); ok {
			f.kern, f.hasKern = k, true
		}
	}
	if gdefBytes, ok := dir.table(src, "GDEF"); ok {
		if g, ok := tables.ParseGdef(gdefBytes); ok {
			f.gdef = g
		}
	}
	if vorgBytes, ok := dir.table(src, "VORG"); ok {
		if v, ok := tables.ParseVorg(vorgBytes); ok {
			f.vorg, f.hasVorg = v, true
		}
	}
	if sbixBytes, ok := dir.table(src, "sbix"); ok {
		if s, ok := tables.ParseSbix(sbixBytes, numGlyphs); ok {
			f.sbix, f.hasSbix = s, true
		}
	}
	if svgBytes, ok := dir.table(src, "SVG "); ok {
		if s, ok := tables.ParseSvg(svgBytes); ok {
			f.svg, f.hasSvg = s, true
		}
	}
	if cblcBytes, ok := dir.table(src, "CBLC"); ok {
		if cbdtBytes, ok := dir.table(src, "CBDT"); ok {
			if bm, ok := tables.ParseBitmap(cblcBytes); ok {
				f.cbdt, f.hasCBDT = bm.WithData(cbdtBytes), true
			}
		}
	}
	if eblcBytes, ok := dir.table(src, "EBLC"); ok {
		if ebdtBytes, ok := dir.table(src, "EBDT"); ok {
			if bm, ok := tables.ParseBitmap(eblcBytes); ok {
				f.ebdt, f.hasEBDT = bm.WithData(ebdtBytes), true
			}
		}
	}
	if statBytes, ok := dir.table(src, "STAT"); ok {
		if s, ok := tables.ParseStat(statBytes); ok {
			f.stat, f.hasStat = s, true
		}
	}

	f.initVariation(dir)

	return f, nil
}

// table is a small convenience wrapper so newFace can look tables up by
// a 4-character string instead of constructing a Tag literal at every
// call site.
func (d directory) table(src []byte, tag string) ([]byte, bool) {
	rec, ok := d.tables[MakeTag(tag)]
	if !ok {
		return nil, false
	}
	return rec.slice(src)
}
