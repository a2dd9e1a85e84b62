package signature

import (
	"strings"
)

const (
	// NameSeparator splits the function name from its type chain.
	NameSeparator = "::"
	// ArrowSeparator splits the types of the chain.
	ArrowSeparator = "->"
)

// Type is one Haskell type as produced by a TypeParser. Its String form is
// the Haskell spelling written into generated modules.
type Type interface {
	String() string
}

// TypeParser turns a single, already trimmed type token into a Type.
type TypeParser interface {
	ParseType(token string) (Type, error)
}

// TypeParserFunc adapts an ordinary function to the TypeParser interface.
type TypeParserFunc func(token string) (Type, error)

// ParseType calls f(token).
func (f TypeParserFunc) ParseType(token string) (Type, error) {
	return f(token)
}

// Signature is the foreign-visible shape of one exported function.
type Signature struct {
	Name  string
	Types []Type
}

// Args returns the argument types in call order.
func (s *Signature) Args() []Type {
	return s.Types[:len(s.Types)-1]
}

// Result returns the return type.
func (s *Signature) Result() Type {
	return s.Types[len(s.Types)-1]
}

// TypeString renders the type chain, e.g. `CInt -> CInt -> IO ()`.
func (s *Signature) TypeString() string {
	var sb strings.Builder
	for i, ty := range s.Types {
		if i > 0 {
			sb.WriteString(" " + ArrowSeparator + " ")
		}
		sb.WriteString(ty.String())
	}
	return sb.String()
}

// String renders the signature back in its notation.
func (s *Signature) String() string {
	return s.Name + " " + NameSeparator + " " + s.TypeString()
}

// Parser parses signatures against a fixed TypeParser.
type Parser struct {
	types TypeParser
}

// NewParser returns a Parser resolving type tokens through types.
func NewParser(types TypeParser) *Parser {
	return &Parser{types: types}
}

// Parse parses one raw signature line. See the package level Parse.
func (p *Parser) Parse(raw string) (*Signature, error) {
	return Parse(raw, p.types)
}

// Parse converts `name :: T1 -> ... -> Tn` into a Signature.
//
// Without any `::` it returns ErrMissingSig. A blank name or type chain, or a
// second `::`, yields a *MalformedSigError. The first type token rejected by
// types yields a *HsTypeError. No partial Signature is ever returned.
func Parse(raw string, types TypeParser) (*Signature, error) {
	name, chain, found := strings.Cut(raw, NameSeparator)
	if !found {
		return nil, ErrMissingSig
	}
	if strings.TrimSpace(chain) == "" || strings.Contains(chain, NameSeparator) {
		return nil, &MalformedSigError{Raw: raw}
	}

	name = strings.TrimSpace(name)
	if name == "" || strings.Contains(name, ArrowSeparator) {
		return nil, &MalformedSigError{Raw: raw}
	}

	tokens := strings.Split(chain, ArrowSeparator)
	sig := &Signature{Name: name, Types: make([]Type, 0, len(tokens))}
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		ty, err := types.ParseType(token)
		if err != nil {
			return nil, newHsTypeError(token, err)
		}
		sig.Types = append(sig.Types, ty)
	}
	return sig, nil
}
