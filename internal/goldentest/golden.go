// Package goldentest compares a phase's textual report (tokens, the
// --absyn tree, a --tables dump, a --vars report) against a checked-in
// golden file. It is a trimmed-down text-mode sibling of
// sunholo-data-ailang's testutil/golden.go: SPL's phase reports are plain
// text rather than JSON, so there is no marshal/unmarshal step. The
// UPDATE_GOLDENS environment variable writes golden files; without it a
// missing golden file fails the test and a differing one is reported as a
// diff.
package goldentest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// UpdateGoldens mirrors testutil.UpdateGoldens: set UPDATE_GOLDENS=true to
// regenerate every golden file a test run touches instead of comparing
// against it.
var UpdateGoldens = os.Getenv("UPDATE_GOLDENS") == "true"

// Path returns the conventional location of a golden file for feature/name:
// testdata/<feature>/<name>.golden.
func Path(feature, name string) string {
	return filepath.Join("testdata", feature, name+".golden")
}

// Assert compares actual against the golden file for feature/name. Under
// UPDATE_GOLDENS it writes (creating or overwriting) the file instead of
// comparing; otherwise a missing file is a fatal test failure.
func Assert(t *testing.T, feature, name, actual string) {
	t.Helper()

	path := Path(feature, name)

	if UpdateGoldens {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create golden directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0o644); err != nil {
			t.Fatalf("failed to write golden file: %v", err)
		}
		t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("golden file does not exist: %s\nrun with UPDATE_GOLDENS=true to create", path)
		}
		t.Fatalf("failed to read golden file: %v", err)
	}

	if diff := cmp.Diff(string(expected), actual); diff != "" {
		t.Errorf("golden mismatch for %s/%s (-want +got):\n%s", feature, name, diff)
	}
}
