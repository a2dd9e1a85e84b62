package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/specialistvlad/hsbindgen/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestLoadBytes(t *testing.T) {
	src := `
type "Handle" {
  definition  = "()"
  description = "opaque native handle"
}

module "Math.Simple" {
  signatures = [
    "add :: CInt -> CInt -> CInt",
    "noop :: IO ()",
  ]
}

module "Posix" {
  output     = "sys/Posix.hs"
  signatures = ["close :: CInt -> IO CInt"]
}
`
	model, err := NewLoaderWithEnv(nil).LoadBytes(context.Background(), "manifest.hcl", []byte(src))
	require.NoError(t, err)

	expected := &config.Model{
		Types: []*config.TypeDefinition{
			{Name: "Handle", Definition: "()", Description: "opaque native handle"},
		},
		Modules: []*config.Module{
			{
				Name:       "Math.Simple",
				Output:     "Math/Simple.hs",
				Signatures: []string{"add :: CInt -> CInt -> CInt", "noop :: IO ()"},
			},
			{
				Name:       "Posix",
				Output:     "sys/Posix.hs",
				Signatures: []string{"close :: CInt -> IO CInt"},
			},
		},
	}
	ignoreSources := cmpopts.IgnoreFields(config.Module{}, "Locations", "Source")
	ignoreTypeSource := cmpopts.IgnoreFields(config.TypeDefinition{}, "Source")
	if diff := cmp.Diff(expected, model, ignoreSources, ignoreTypeSource); diff != "" {
		t.Errorf("model mismatch (-want +got):\n%s", diff)
	}

	mod := model.Modules[0]
	require.Len(t, mod.Locations, 2)
	assert.Contains(t, mod.Location(0), "manifest.hcl:9")
	assert.Contains(t, mod.Location(1), "manifest.hcl:10")
	assert.Contains(t, mod.Source, "manifest.hcl:7")
	assert.Equal(t, mod.Source, mod.Location(5), "out of range falls back to the module position")
}

func TestLoadBytes_EnvInterpolation(t *testing.T) {
	src := `
module "Lib" {
  output     = "${env.OUT_PREFIX}/Lib.hs"
  signatures = ["${env.FN_NAME} :: CInt"]
}
`
	loader := NewLoaderWithEnv([]string{"OUT_PREFIX=gen", "FN_NAME=answer", "MALFORMED"})
	model, err := loader.LoadBytes(context.Background(), "env.hcl", []byte(src))
	require.NoError(t, err)

	require.Len(t, model.Modules, 1)
	assert.Equal(t, "gen/Lib.hs", model.Modules[0].Output)
	assert.Equal(t, []string{"answer :: CInt"}, model.Modules[0].Signatures)
}

func TestLoadBytes_ComputedSignatures(t *testing.T) {
	src := `
module "Lib" {
  signatures = concat(["a :: CInt"], ["b :: CInt"])
}
`
	_, err := NewLoaderWithEnv(nil).LoadBytes(context.Background(), "fn.hcl", []byte(src))
	// No functions are available in the evaluation context.
	require.Error(t, err)

	src = `
module "Lib" {
  signatures = [for n in ["a", "b"] : "${n} :: CInt"]
}
`
	model, err := NewLoaderWithEnv(nil).LoadBytes(context.Background(), "for.hcl", []byte(src))
	require.NoError(t, err)
	mod := model.Modules[0]
	assert.Equal(t, []string{"a :: CInt", "b :: CInt"}, mod.Signatures)
	assert.Equal(t, mod.Location(0), mod.Location(1))
}

func TestLoadBytes_Errors(t *testing.T) {
	testCases := []struct {
		name        string
		src         string
		errContains string
	}{
		{
			name:        "syntax error",
			src:         `module "M" {`,
			errContains: "failed to parse HCL file",
		},
		{
			name:        "unknown block",
			src:         `function "f" {}`,
			errContains: "Unsupported block type",
		},
		{
			name:        "missing signatures",
			src:         `module "M" {}`,
			errContains: `failed to decode module "M"`,
		},
		{
			name: "unknown attribute",
			src: `
module "M" {
  signatures = []
  lang       = "c"
}
`,
			errContains: "Unsupported argument",
		},
		{
			name:        "signatures of wrong shape",
			src:         `module "M" { signatures = { a = "f :: CInt" } }`,
			errContains: "signatures must be a list of strings",
		},
		{
			name:        "null signatures",
			src:         `module "M" { signatures = null }`,
			errContains: "signatures must not be null",
		},
		{
			name:        "null signature element",
			src:         `module "M" { signatures = ["f :: CInt", null] }`,
			errContains: "invalid signatures",
		},
		{
			name:        "lowercase module name",
			src:         `module "math" { signatures = [] }`,
			errContains: `invalid Haskell module name "math"`,
		},
		{
			name:        "trailing dot in module name",
			src:         `module "Math." { signatures = [] }`,
			errContains: `invalid Haskell module name "Math."`,
		},
		{
			name: "duplicate module",
			src: `
module "M" { signatures = [] }
module "M" { signatures = [] }
`,
			errContains: `module "M" already declared at`,
		},
		{
			name: "escaping output path",
			src: `
module "M" {
  output     = "../M.hs"
  signatures = []
}
`,
			errContains: "must be a relative path inside the output directory",
		},
		{
			name: "duplicate type",
			src: `
type "Handle" { definition = "()" }
type "Handle" { definition = "()" }
`,
			errContains: `type "Handle" already declared at`,
		},
		{
			name:        "invalid type name",
			src:         `type "handle" { definition = "()" }`,
			errContains: `invalid Haskell type name "handle"`,
		},
		{
			name:        "type without definition",
			src:         `type "Handle" {}`,
			errContains: `failed to decode type "Handle"`,
		},
		{
			name: "explicit output shadows default output",
			src: `
module "A.B" { signatures = ["f :: CInt"] }
module "Other" {
  output     = "A/B.hs"
  signatures = ["g :: CInt"]
}
`,
			errContains: `output "A/B.hs" of module "Other" already used by module "A.B" declared at bad.hcl:2`,
		},
		{
			name: "outputs equal after cleaning",
			src: `
module "First" {
  output     = "gen/Lib.hs"
  signatures = []
}
module "Second" {
  output     = "gen/./sub/../Lib.hs"
  signatures = []
}
`,
			errContains: `output "gen/./sub/../Lib.hs" of module "Second" already used by module "First"`,
		},
		{
			name:        "unknown env variable",
			src:         `module "M" { signatures = [env.NOPE] }`,
			errContains: "Unsupported attribute",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			model, err := NewLoaderWithEnv(nil).LoadBytes(context.Background(), "bad.hcl", []byte(tc.src))
			require.Error(t, err)
			assert.Nil(t, model)
			assert.Contains(t, err.Error(), tc.errContains)
		})
	}
}

func TestLoad_Directories(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"b.hcl":        `module "B" { signatures = ["b :: CInt"] }`,
		"a.hcl":        `module "A" { signatures = ["a :: CInt"] }`,
		"nested/c.hcl": `module "C" { signatures = ["c :: CInt"] }`,
		"notes.txt":    `module "Ignored" { signatures = [] }`,
	})
	extra := writeFiles(t, map[string]string{
		"extra.hcl": `type "Handle" { definition = "()" }`,
	})

	model, err := NewLoaderWithEnv(nil).Load(
		context.Background(),
		root,
		filepath.Join(root, "a.hcl"), // already found through the directory
		filepath.Join(extra, "extra.hcl"),
		filepath.Join(root, "does-not-exist"),
	)
	require.NoError(t, err)

	var names []string
	for _, m := range model.Modules {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"A", "B", "C"}, names)
	require.Len(t, model.Types, 1)
	assert.Equal(t, "Handle", model.Types[0].Name)
}

func TestLoad_DuplicateAcrossFiles(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"one.hcl": `module "M" { signatures = [] }`,
		"two.hcl": `module "M" { signatures = [] }`,
	})

	_, err := NewLoaderWithEnv(nil).Load(context.Background(), root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "two.hcl")
	assert.Contains(t, err.Error(), `module "M" already declared at`)
	assert.Contains(t, err.Error(), "one.hcl")
}

func TestLoad_OutputClashAcrossFiles(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"one.hcl": `module "Native.IO" { signatures = ["f :: CInt"] }`,
		"two.hcl": `
module "Legacy" {
  output     = "Native/IO.hs"
  signatures = ["g :: CInt"]
}
`,
	})

	_, err := NewLoaderWithEnv(nil).Load(context.Background(), root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "two.hcl")
	assert.Contains(t, err.Error(), `of module "Legacy" already used by module "Native.IO" declared at`)
	assert.Contains(t, err.Error(), "one.hcl")
}

func TestLoad_RelativeAndAbsolutePathsLoadOnce(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"bindings.hcl": `module "M" { signatures = ["f :: CInt"] }`,
	})
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(root))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	model, err := NewLoaderWithEnv(nil).Load(
		context.Background(),
		"bindings.hcl",
		filepath.Join(root, "bindings.hcl"),
		".",
	)
	require.NoError(t, err)
	require.Len(t, model.Modules, 1)
	assert.Equal(t, "M", model.Modules[0].Name)
}

func TestLoad_ParseErrorNamesFile(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"broken.hcl": `module "M" {`,
	})

	_, err := NewLoaderWithEnv(nil).Load(context.Background(), root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse HCL file")
	assert.Contains(t, err.Error(), "broken.hcl")
}

func TestLoad_NoPaths(t *testing.T) {
	model, err := NewLoader().Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, model.Modules)
	assert.Empty(t, model.Types)
}
