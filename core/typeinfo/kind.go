package typeinfo

// Kind distinguishes interfaces from classes.
type Kind int

const (
	KindInterface Kind = iota
	KindClass
)

func (k Kind) String() string {
	switch k {
	case KindInterface:
		return "interface"
	case KindClass:
		return "class"
	default:
		return "unknown"
	}
}

// MemberKind is the syntactic kind of a member.
type MemberKind int

const (
	MemberMethod MemberKind = iota
	MemberGetter
	MemberSetter
)

func (k MemberKind) String() string {
	switch k {
	case MemberMethod:
		return "method"
	case MemberGetter:
		return "getter"
	case MemberSetter:
		return "setter"
	default:
		return "unknown"
	}
}

// Access is the declared visibility of a member or constructor.
type Access int

const (
	AccessPublic Access = iota
	AccessProtected
	AccessPackage
	AccessPrivate
)

func (a Access) String() string {
	switch a {
	case AccessPublic:
		return "public"
	case AccessProtected:
		return "protected"
	case AccessPackage:
		return "package"
	case AccessPrivate:
		return "private"
	default:
		return "unknown"
	}
}

// Modifier is a set of member flags.
type Modifier uint8

const (
	Virtual Modifier = 1 << iota
	Abstract
	Sealed
	Static
)

// Has reports whether all flags in f are set.
func (m Modifier) Has(f Modifier) bool {
	return m&f == f
}
