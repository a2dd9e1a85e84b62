// Package render assembles the text of a Haskell binding module from parsed
// signatures. Rendering is total and deterministic: the same module name and
// signature slice always produce byte-identical output, and signatures appear
// exactly in the order given.
package render

import (
	"strings"

	"github.com/specialistvlad/hsbindgen/internal/signature"
)

// SymbolPrefix is prepended to a function name to form the native symbol the
// linker has to resolve.
const SymbolPrefix = "__c_"

const header = `-- This file was generated by hsbindgen. Do not edit it by hand.
-- It declares Haskell FFI bindings to native functions exported under the
-- ` + "`" + SymbolPrefix + "`" + ` symbol prefix.

`

// pragmas also records why CApiFFI is not used.
const pragmas = `{-# LANGUAGE ForeignFunctionInterface #-}

-- Why not the {-# LANGUAGE CApiFFI #-} extension instead?
--
-- * It is GHC specific and not part of the Haskell standard:
--   https://ghc.gitlab.haskell.org/ghc/doc/users_guide/exts/ffi.html ;
--
-- * It works on top of the symbols of a C header file, and the native
--   functions bound here are not declared in one.

{-# OPTIONS_GHC -Wno-unused-imports #-}

`

const imports = `import Data.Int
import Data.Word
import Foreign.C.String
import Foreign.C.Types
import Foreign.Ptr

`

// Module renders the complete source of the Haskell module name exporting
// every signature in sigs. The signatures are trusted to be valid.
func Module(name string, sigs []*signature.Signature) string {
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString(pragmas)

	sb.WriteString("module ")
	sb.WriteString(name)
	sb.WriteString(" (")
	for i, sig := range sigs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(sig.Name)
	}
	sb.WriteString(") where\n\n")

	sb.WriteString(imports)

	for _, sig := range sigs {
		sb.WriteString(ForeignImport(sig))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ForeignImport renders the foreign import declaration of a single signature,
// without a trailing newline.
func ForeignImport(sig *signature.Signature) string {
	return `foreign import ccall unsafe "` + SymbolPrefix + sig.Name + `" ` + sig.String()
}
