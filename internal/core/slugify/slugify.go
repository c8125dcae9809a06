// Package slugify derives URL-safe project slugs from display names
// Pipeline order
// 1 UTF-8 repair drop invalid bytes
// 2 Unicode NFKD decomposition (compatibility forms to ASCII where possible)
// 3 Case folding
// 4 Remove combining marks and format chars (accents, ZWJ, FEFF)
// 5 Width fold fullwidth to ASCII
// 6 Keep [a-z0-9] runs joined by single hyphens, trim, cap length
package slugify

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// MaxLen bounds slugs to the projects.slug column width
const MaxLen = 64

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		// NFKD not NFKC: decomposition exposes combining marks so the
		// Mn strip actually removes accents
		return transform.Chain(
			norm.NFKD,
			cases.Fold(),
			runes.Remove(runes.In(unicode.Mn)),
			runes.Remove(runes.In(unicode.Cf)),
			width.Fold,
		)
	},
}

// Slug returns the slug form of name, or "" when nothing survives the fold.
// Callers decide the fallback for the empty case
func Slug(name string) string {
	if name == "" {
		return ""
	}

	s := strings.ToValidUTF8(name, "")

	tr := chainPool.Get().(transform.Transformer)
	ns, _, _ := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)

	var b strings.Builder
	b.Grow(len(ns))
	pendingHyphen := false
	for _, r := range ns {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}

	out := b.String()
	if len(out) > MaxLen {
		out = strings.TrimRight(out[:MaxLen], "-")
	}
	return out
}
