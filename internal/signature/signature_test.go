package signature

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeType string

func (t fakeType) String() string { return string(t) }

// anyType accepts every non-empty token except "Unknown".
var anyType = TypeParserFunc(func(token string) (Type, error) {
	switch token {
	case "":
		return nil, errors.New("empty type token")
	case "Unknown":
		return nil, fmt.Errorf("unsupported Haskell type %q", token)
	}
	return fakeType(token), nil
})

func typeNames(sig *Signature) []string {
	names := make([]string, 0, len(sig.Types))
	for _, ty := range sig.Types {
		names = append(names, ty.String())
	}
	return names
}

func TestParse(t *testing.T) {
	testCases := []struct {
		name          string
		raw           string
		expectedName  string
		expectedTypes []string
	}{
		{
			name:          "two arguments",
			raw:           "add :: Int -> Int -> Int",
			expectedName:  "add",
			expectedTypes: []string{"Int", "Int", "Int"},
		},
		{
			name:          "single type is a zero argument function",
			raw:           "noop :: ()",
			expectedName:  "noop",
			expectedTypes: []string{"()"},
		},
		{
			name:          "whitespace around separators is insignificant",
			raw:           "  f::A->B   ->  C  ",
			expectedName:  "f",
			expectedTypes: []string{"A", "B", "C"},
		},
		{
			name:          "order is preserved",
			raw:           "f :: Foo -> Bar",
			expectedName:  "f",
			expectedTypes: []string{"Foo", "Bar"},
		},
		{
			name:          "compound tokens are passed through whole",
			raw:           "alloc :: CSize -> IO (Ptr CChar)",
			expectedName:  "alloc",
			expectedTypes: []string{"CSize", "IO (Ptr CChar)"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sig, err := Parse(tc.raw, anyType)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedName, sig.Name)
			if diff := cmp.Diff(tc.expectedTypes, typeNames(sig)); diff != "" {
				t.Errorf("types mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		missing   bool
		malformed bool
		hsType    string
	}{
		{name: "no separator", raw: "bad_sig", missing: true},
		{name: "empty input", raw: "", missing: true},
		{name: "arrows without separator", raw: "Int -> Int", missing: true},
		{name: "empty right-hand side", raw: "f ::", malformed: true},
		{name: "blank right-hand side", raw: "f ::   ", malformed: true},
		{name: "two separators", raw: "f :: X :: Y", malformed: true},
		{name: "three separators", raw: "f :: A :: B :: C", malformed: true},
		{name: "second separator wins over unknown type", raw: "f :: Unknown :: Y", malformed: true},
		{name: "empty name", raw: " :: Int", malformed: true},
		{name: "arrow in name", raw: "a -> b :: Int", malformed: true},
		{name: "empty token between arrows", raw: "f :: Int -> -> Int", hsType: "empty type token"},
		{name: "trailing arrow", raw: "f :: Int ->", hsType: "empty type token"},
		{name: "unknown type", raw: "f :: Int -> Unknown", hsType: `unsupported Haskell type "Unknown"`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sig, err := Parse(tc.raw, anyType)
			require.Error(t, err)
			assert.Nil(t, sig, "no partial signature may be returned")

			switch {
			case tc.missing:
				assert.ErrorIs(t, err, ErrMissingSig)
			case tc.malformed:
				var malformed *MalformedSigError
				require.ErrorAs(t, err, &malformed)
				assert.Equal(t, tc.raw, malformed.Raw)
			default:
				var hsErr *HsTypeError
				require.ErrorAs(t, err, &hsErr)
				assert.Equal(t, tc.hsType, hsErr.Message)
				assert.Equal(t, "Haskell type error: "+tc.hsType, err.Error())
			}
		})
	}
}

func TestParse_FirstFailingTokenShortCircuits(t *testing.T) {
	var seen []string
	tracking := TypeParserFunc(func(token string) (Type, error) {
		seen = append(seen, token)
		if token == "B" {
			return nil, errors.New("rejected B")
		}
		return fakeType(token), nil
	})

	_, err := Parse("f :: A -> B -> C", tracking)

	var hsErr *HsTypeError
	require.ErrorAs(t, err, &hsErr)
	assert.Equal(t, "B", hsErr.Token)
	assert.Equal(t, "rejected B", hsErr.Message)
	assert.Equal(t, []string{"A", "B"}, seen)
}

func TestHsTypeError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	failing := TypeParserFunc(func(string) (Type, error) { return nil, cause })

	_, err := Parse("f :: X", failing)
	assert.ErrorIs(t, err, cause)
}

func TestSignature_String(t *testing.T) {
	p := NewParser(anyType)

	sig, err := p.Parse("add::Int->Int ->Int")
	require.NoError(t, err)

	assert.Equal(t, "add :: Int -> Int -> Int", sig.String())
	assert.Equal(t, "Int -> Int -> Int", sig.TypeString())
	assert.Equal(t, "Int", sig.Result().String())
	assert.Len(t, sig.Args(), 2)

	noop, err := p.Parse("noop :: ()")
	require.NoError(t, err)
	assert.Empty(t, noop.Args())
	assert.Equal(t, "noop :: ()", noop.String())
}
