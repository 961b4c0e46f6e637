package support

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// theOutputShouldBeValidCSV verifies the output is valid CSV.
func (testCtx *TestContext) theOutputShouldBeValidCSV() error {
	reader := csv.NewReader(strings.NewReader(testCtx.LastOutput))
	if _, err := reader.ReadAll(); err != nil {
		return fmt.Errorf("output is not valid CSV: %w", err)
	}
	return nil
}

// theCSVShouldContainHeader verifies the CSV header contains the given column.
func (testCtx *TestContext) theCSVShouldContainHeader(column string) error {
	if err := testCtx.theOutputShouldBeValidCSV(); err != nil {
		return err
	}

	reader := csv.NewReader(strings.NewReader(testCtx.LastOutput))
	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return errors.New("CSV has no records")
	}

	for _, col := range records[0] {
		if strings.EqualFold(col, column) {
			return nil
		}
	}
	return fmt.Errorf("CSV header missing column '%s'. Found columns: %v", column, records[0])
}

// theOutputShouldContainResultsForAllImages verifies output includes all images.
func (testCtx *TestContext) theOutputShouldContainResultsForAllImages() error {
	cmdParts := strings.Fields(testCtx.LastCommand)
	expectedImages := 0
	for _, part := range cmdParts {
		if strings.HasSuffix(part, ".png") || strings.HasSuffix(part, ".jpg") || strings.HasSuffix(part, ".jpeg") {
			expectedImages++
		}
	}

	if expectedImages == 0 {
		return fmt.Errorf("could not determine expected number of images from command: %s", testCtx.LastCommand)
	}

	imageCount := 0
	for _, part := range cmdParts {
		if strings.HasSuffix(part, ".png") || strings.HasSuffix(part, ".jpg") || strings.HasSuffix(part, ".jpeg") {
			if strings.Contains(testCtx.LastOutput, part) {
				imageCount++
			}
		}
	}

	if imageCount < expectedImages {
		return fmt.Errorf("expected results for %d images, but found results for %d images", expectedImages, imageCount)
	}

	return nil
}

// theOutputShouldIndicateNoSymbolDecoded verifies the not-found message.
func (testCtx *TestContext) theOutputShouldIndicateNoSymbolDecoded() error {
	return testCtx.theOutputShouldContain("no symbol decoded")
}

// theOutputShouldIndicateARepairedSymbol verifies a repaired-codeword result was reported.
func (testCtx *TestContext) theOutputShouldIndicateARepairedSymbol() error {
	if strings.Contains(testCtx.LastOutput, "repaired") {
		return nil
	}
	return fmt.Errorf("output does not indicate a repaired symbol: %s", testCtx.LastOutput)
}

// theJSONShouldContainAPolicyIndex verifies the JSON result carries a policy field.
func (testCtx *TestContext) theJSONShouldContainAPolicyIndex() error {
	if err := testCtx.theJSONShouldContain("results"); err != nil {
		return err
	}
	if !strings.Contains(testCtx.LastOutput, `"policy"`) {
		return fmt.Errorf("JSON results carry no policy field: %s", testCtx.LastOutput)
	}
	return nil
}

// RegisterDecodeSteps registers all decode-output step definitions.
func (testCtx *TestContext) RegisterDecodeSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the output should be valid CSV$`, testCtx.theOutputShouldBeValidCSV)
	sc.Step(`^the CSV should contain a "([^"]*)" column$`, testCtx.theCSVShouldContainHeader)
	sc.Step(`^the output should contain results for all images$`, testCtx.theOutputShouldContainResultsForAllImages)
	sc.Step(`^the output should indicate no symbol decoded$`, testCtx.theOutputShouldIndicateNoSymbolDecoded)
	sc.Step(`^the output should indicate a repaired symbol$`, testCtx.theOutputShouldIndicateARepairedSymbol)
	sc.Step(`^the JSON should contain a policy index$`, testCtx.theJSONShouldContainAPolicyIndex)
}
