package testing

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/go-cmp/cmp"
)

// UpdateGoldenEnv rewrites golden files instead of comparing when set to "1".
const UpdateGoldenEnv = "BOILERPLATE_UPDATE_GOLDEN"

// AssertGolden compares actual with dir/name.golden. A missing golden file is
// an error unless updating is enabled.
func AssertGolden(dir, name, actual string) error {
	goldenPath := filepath.Join(dir, name+".golden")

	if os.Getenv(UpdateGoldenEnv) == "1" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create golden directory: %w", err)
		}
		return os.WriteFile(goldenPath, []byte(actual), 0o644)
	}

	expected, err := os.ReadFile(goldenPath)
	if err != nil {
		return fmt.Errorf("failed to read golden file %s: %w", goldenPath, err)
	}

	if diff := cmp.Diff(string(expected), actual); diff != "" {
		return fmt.Errorf("output does not match %s (-want +got):\n%s", goldenPath, diff)
	}
	return nil
}
