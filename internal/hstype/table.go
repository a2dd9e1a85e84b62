package hstype

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/specialistvlad/hsbindgen/internal/signature"
)

// Unit is the spelling of the unit type.
const Unit = "()"

var (
	errEmptyToken = errors.New("empty type token")

	// nameRegex matches a capitalized Haskell type name.
	nameRegex = regexp.MustCompile(`^[A-Z][A-Za-z0-9_']*$`)
)

var builtins = []string{
	// Prelude, Data.Int, Data.Word
	"Int", "Int8", "Int16", "Int32", "Int64",
	"Word", "Word8", "Word16", "Word32", "Word64",
	"Float", "Double", "Bool", "Char",
	// Foreign.C.Types
	"CChar", "CSChar", "CUChar", "CShort", "CUShort", "CInt", "CUInt",
	"CLong", "CULong", "CLLong", "CULLong", "CSize", "CFloat", "CDouble",
	"CBool", "CIntPtr", "CUIntPtr",
	// Foreign.C.String
	"CString",
}

// constructors take exactly one type argument.
var constructors = map[string]struct{}{
	"Ptr":    {},
	"FunPtr": {},
	"IO":     {},
}

// Type is a parsed Haskell type. Arg is set for constructor applications.
type Type struct {
	Name string
	Arg  *Type
}

// String renders the type, parenthesizing nested applications.
func (t *Type) String() string {
	if t.Arg == nil {
		return t.Name
	}
	arg := t.Arg.String()
	if t.Arg.Arg != nil {
		arg = "(" + arg + ")"
	}
	return t.Name + " " + arg
}

// Table holds the set of known type names. Register must not be called
// concurrently with ParseType; once populated, a Table is safe for concurrent
// lookups.
type Table struct {
	// names maps a nullary type name to the type it renders as. Built-ins map
	// to themselves, registered synonyms to their expansion.
	names map[string]*Type
}

// NewTable returns a table populated with the built-in types.
func NewTable() *Table {
	t := &Table{names: make(map[string]*Type, len(builtins))}
	for _, name := range builtins {
		t.names[name] = &Type{Name: name}
	}
	return t
}

// Register adds a type synonym, e.g. one declared in a manifest. The
// definition must itself be a type the table accepts. Signatures using name
// are rendered with the expanded definition, because a generated module
// only has the fixed imports in scope.
func (t *Table) Register(name, definition string) error {
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("invalid Haskell type name %q", name)
	}
	if _, ok := constructors[name]; ok {
		return fmt.Errorf("type %q is a built-in type constructor", name)
	}
	if t.Has(name) {
		return fmt.Errorf("type %q is already registered", name)
	}
	ty, err := t.parse(normalize(definition))
	if err != nil {
		return fmt.Errorf("definition of type %q: %w", name, err)
	}
	t.names[name] = ty
	return nil
}

// Has reports whether name is a known nullary type.
func (t *Table) Has(name string) bool {
	_, ok := t.names[name]
	return ok
}

// ParseType implements signature.TypeParser.
func (t *Table) ParseType(token string) (signature.Type, error) {
	ty, err := t.parse(normalize(token))
	if err != nil {
		return nil, err
	}
	return ty, nil
}

func (t *Table) parse(s string) (*Type, error) {
	switch {
	case s == "":
		return nil, errEmptyToken
	case s == Unit:
		return &Type{Name: Unit}, nil
	case enclosed(s):
		inner := strings.TrimSpace(s[1 : len(s)-1])
		if inner == "" {
			return &Type{Name: Unit}, nil
		}
		return t.parse(inner)
	}

	head, rest, applied := strings.Cut(s, " ")
	if _, ok := constructors[head]; ok {
		if !applied {
			return nil, fmt.Errorf("type constructor %q expects an argument", head)
		}
		arg, err := t.parse(rest)
		if err != nil {
			return nil, err
		}
		if strings.Contains(rest, " ") && !enclosed(rest) {
			return nil, fmt.Errorf("argument of %q must be parenthesized: %q", head, rest)
		}
		return &Type{Name: head, Arg: arg}, nil
	}

	ty, ok := t.names[s]
	if applied || !ok {
		return nil, fmt.Errorf("unsupported Haskell type %q", s)
	}
	return ty, nil
}

func normalize(token string) string {
	return strings.Join(strings.Fields(token), " ")
}

// enclosed reports whether s is wrapped in a single pair of matching
// parentheses, as in `(Ptr CInt)` but not `(A) (B)` or `()`.
func enclosed(s string) bool {
	if len(s) < 3 || s[0] != '(' || s[len(s)-1] != ')' {
		return false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return false
			}
		}
	}
	return depth == 0
}
