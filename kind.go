package ar

import "github.com/meigma/ar/internal/arwriter"

// Kind identifies the on-disk archive layout.
type Kind = arwriter.Kind

// Archive layout kinds, selected by Target.Format.
const (
	KindGNU    = arwriter.KindGNU
	KindBSD    = arwriter.KindBSD
	KindDarwin = arwriter.KindDarwin
	KindCOFF   = arwriter.KindCOFF
	KindAIXBig = arwriter.KindAIXBig
)

// ParseKind maps a format tag (gnu, bsd, darwin, coff, aix_big) to its
// Kind. Unrecognized tags return an *UnknownKindError.
var ParseKind = arwriter.ParseKind
