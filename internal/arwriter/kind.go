package arwriter

import "fmt"

// Kind selects the on-disk archive layout.
type Kind uint8

const (
	// KindGNU is the System V layout with a // long-name table.
	KindGNU Kind = iota
	// KindBSD stores long names inline using #1/N headers.
	KindBSD
	// KindDarwin is the BSD layout with member data aligned for Mach-O.
	KindDarwin
	// KindCOFF is the System V layout as used for Windows archives.
	KindCOFF
	// KindAIXBig is the AIX big archive format.
	KindAIXBig
)

// UnknownKindError reports an archive format tag with no known layout.
type UnknownKindError struct {
	Kind string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown archive kind %q", e.Kind)
}

// ParseKind maps a target's archive format tag to its Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "gnu":
		return KindGNU, nil
	case "bsd":
		return KindBSD, nil
	case "darwin":
		return KindDarwin, nil
	case "coff":
		return KindCOFF, nil
	case "aix_big":
		return KindAIXBig, nil
	}
	return 0, &UnknownKindError{Kind: s}
}

func (k Kind) String() string {
	switch k {
	case KindGNU:
		return "gnu"
	case KindBSD:
		return "bsd"
	case KindDarwin:
		return "darwin"
	case KindCOFF:
		return "coff"
	case KindAIXBig:
		return "aix_big"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}
