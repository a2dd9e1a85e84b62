// Package hstype is the table of Haskell types that may appear in a foreign
// import declaration. It implements signature.TypeParser: a token such as
// `CInt`, `Ptr CChar` or `IO (Ptr CInt)` is checked against the table and
// returned as a *Type whose String form is the normalized Haskell spelling.
//
// The built-in set covers Data.Int, Data.Word, Foreign.C.Types,
// Foreign.C.String and Foreign.Ptr, which are exactly the modules imported by
// every generated binding. Opaque names declared in manifests are added with
// Register.
package hstype
