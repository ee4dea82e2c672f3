package fs

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

const replacementChar = "\uFFFD"

// NewLossyDecoder returns a UTF-8 decoder that substitutes one U+FFFD for
// each maximal ill-formed subpart instead of failing. A truncated multi-byte
// sequence such as "\xe2\x82" is a single subpart; "\xff\xfe" is two.
func NewLossyDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: lossyUTF8{}}
}

// DecodeLossy interprets raw as UTF-8 text. Valid input is returned as-is;
// invalid byte sequences are replaced, never reported.
func DecodeLossy(decoder *encoding.Decoder, raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	if utf8.Valid(raw) {
		return string(raw)
	}
	if decoder == nil {
		decoder = NewLossyDecoder()
	}
	out, err := decoder.Bytes(raw)
	if err != nil {
		return strings.ToValidUTF8(string(raw), replacementChar)
	}
	return string(out)
}

type lossyUTF8 struct{ transform.NopResetter }

func (lossyUTF8) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		if c := src[nSrc]; c < utf8.RuneSelf {
			if nDst >= len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = c
			nDst++
			nSrc++
			continue
		}

		r, size := utf8.DecodeRune(src[nSrc:])
		if r != utf8.RuneError || size > 1 {
			if nDst+size > len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			nDst += copy(dst[nDst:], src[nSrc:nSrc+size])
			nSrc += size
			continue
		}

		if !atEOF && !utf8.FullRune(src[nSrc:]) {
			return nDst, nSrc, transform.ErrShortSrc
		}
		if nDst+len(replacementChar) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], replacementChar)
		nSrc += maximalSubpart(src[nSrc:])
	}
	return nDst, nSrc, nil
}

// maximalSubpart returns the length of the ill-formed sequence at the start
// of p: the lead byte plus every following byte that still extends a valid
// prefix. p must not start with a complete, valid encoding.
func maximalSubpart(p []byte) int {
	lo, hi, need := byte(0x80), byte(0xBF), 0
	switch c := p[0]; {
	case c >= 0xC2 && c <= 0xDF:
		need = 1
	case c == 0xE0:
		lo, need = 0xA0, 2
	case c == 0xED:
		hi, need = 0x9F, 2
	case c >= 0xE1 && c <= 0xEF:
		need = 2
	case c == 0xF0:
		lo, need = 0x90, 3
	case c >= 0xF1 && c <= 0xF3:
		need = 3
	case c == 0xF4:
		hi, need = 0x8F, 3
	default:
		return 1
	}

	n := 1
	for n <= need && n < len(p) && p[n] >= lo && p[n] <= hi {
		lo, hi = 0x80, 0xBF
		n++
	}
	return n
}
