// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sfnt implements a pull-style, bounds-safe decoder for the SFNT
// family of scalable font containers (TrueType, OpenType/CFF, and
// collections of either, commonly served as .ttf, .otf and .ttc).
//
// A Face is constructed once from a caller-supplied, immutable byte slice.
// Every query against it — glyph lookup, metrics, outlines, raster images,
// variable-font instancing — reads directly from that slice; the package
// never performs I/O and never copies table data. The only mutable state on
// a Face is its active variation-coordinate vector (see Face.SetVariation).
//
// This implementation was written primarily against the OpenType
// specification (https://learn.microsoft.com/en-us/typography/opentype/spec/)
// together with Apple's TrueType reference
// (https://developer.apple.com/fonts/TrueType-Reference-Manual/).
package sfnt // import "github.com/typeparse/sfnt"
