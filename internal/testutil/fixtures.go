package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFixture represents a test fixture with input and expected output.
type TestFixture struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputFile   string                 `json:"input_file"`
	Expected    interface{}            `json:"expected"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// DecodeExpectedResult represents expected decode output for testing.
type DecodeExpectedResult struct {
	SymbolFound bool   `json:"symbol_found"`
	Text        string `json:"text,omitempty"`
	Policy      int    `json:"policy"`
	Repaired    bool   `json:"repaired"`
}

// LoadFixture loads a test fixture from JSON file.
func LoadFixture(t *testing.T, name string) TestFixture {
	t.Helper()

	fixturesDir := GetFixturesDir(t)
	fixturePath := filepath.Join(fixturesDir, name+".json")

	data, err := os.ReadFile(fixturePath) //nolint:gosec // G304: Reading test fixture files with controlled paths
	require.NoError(t, err, "Failed to read fixture file: %s", fixturePath)

	var fixture TestFixture
	err = json.Unmarshal(data, &fixture)
	require.NoError(t, err, "Failed to unmarshal fixture JSON")

	return fixture
}

// SaveFixture saves a test fixture to JSON file.
func SaveFixture(t *testing.T, fixture TestFixture) {
	t.Helper()

	fixturesDir := GetFixturesDir(t)
	require.NoError(t, EnsureDir(fixturesDir))

	fixturePath := filepath.Join(fixturesDir, fixture.Name+".json")

	data, err := json.MarshalIndent(fixture, "", "  ")
	require.NoError(t, err, "Failed to marshal fixture to JSON")

	err = os.WriteFile(fixturePath, data, 0o600)
	require.NoError(t, err, "Failed to write fixture file: %s", fixturePath)
}

// createBlankFixture creates a fixture for an image with no locatable symbol.
func createBlankFixture(_ *testing.T) TestFixture {
	return TestFixture{
		Name:        "blank",
		Description: "Blank image with no locatable Data Matrix symbol",
		InputFile:   "images/simple/blank.png",
		Expected: DecodeExpectedResult{
			SymbolFound: false,
		},
		Metadata: map[string]interface{}{
			"image_size": map[string]int{
				"width":  320,
				"height": 240,
			},
		},
	}
}

// createGridFixture creates a fixture for a checkerboard module grid that has
// the density of a Data Matrix symbol but does not encode a real payload, so
// the locator may find contour candidates that fail codeword validation.
func createGridFixture(_ *testing.T) TestFixture {
	return TestFixture{
		Name:        "grid_16",
		Description: "Synthetic 16x16 module grid without a valid codeword stream",
		InputFile:   "images/grid/grid_16.png",
		Expected: DecodeExpectedResult{
			SymbolFound: false,
		},
		Metadata: map[string]interface{}{
			"modules": 16,
			"image_size": map[string]int{
				"width":  320,
				"height": 240,
			},
		},
	}
}

// createRotatedFixture creates a fixture for a rotated module grid image.
func createRotatedFixture(_ *testing.T) TestFixture {
	return TestFixture{
		Name:        "rotated_90",
		Description: "90-degree rotated module grid image",
		InputFile:   "images/rotated/rotated_90.png",
		Expected: DecodeExpectedResult{
			SymbolFound: false,
		},
		Metadata: map[string]interface{}{
			"rotation": 90,
			"image_size": map[string]int{
				"width":  480,
				"height": 640,
			},
		},
	}
}

// CreateSampleFixtures creates sample test fixtures.
func CreateSampleFixtures(t *testing.T) {
	t.Helper()

	SaveFixture(t, createBlankFixture(t))
	SaveFixture(t, createGridFixture(t))
	SaveFixture(t, createRotatedFixture(t))
}

// GetFixtureInputPath returns the full path to a fixture's input file.
func GetFixtureInputPath(t *testing.T, fixture TestFixture) string {
	t.Helper()

	testDataDir := GetTestDataDir(t)
	return filepath.Join(testDataDir, fixture.InputFile)
}

// ValidateFixture validates that a fixture's input file exists.
func ValidateFixture(t *testing.T, fixture TestFixture) {
	t.Helper()

	inputPath := GetFixtureInputPath(t, fixture)
	require.True(t, FileExists(inputPath), "Fixture input file does not exist: %s", inputPath)
}
