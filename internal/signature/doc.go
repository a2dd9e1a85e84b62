// Package signature parses the compact Haskell signature notation used to
// describe exported native functions:
//
//	name :: T1 -> T2 -> ... -> Tn
//
// The first n-1 types are the arguments in call order and the last one is the
// return type. A chain with a single type describes a function without
// arguments.
//
// Individual type tokens are not interpreted here. They are handed, in order,
// to a TypeParser supplied by the caller, and whatever it returns is kept as
// an opaque Type that only needs to render its Haskell name.
package signature
