package support

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/go-dmtx/dmtx200/internal/testutil"
)

// hasEnvVar checks if an environment variable is already set in the test context.
func (testCtx *TestContext) hasEnvVar(name string) bool {
	prefix := name + "="
	for _, envVar := range testCtx.EnvVars {
		if strings.HasPrefix(envVar, prefix) {
			return true
		}
	}
	return false
}

// theTestImagesAreAvailable checks if test images are available.
func (testCtx *TestContext) theTestImagesAreAvailable() error {
	projectRoot, err := testutil.GetProjectRoot()
	if err != nil {
		return fmt.Errorf("failed to find project root: %w", err)
	}

	testDataDir := filepath.Join(projectRoot, "testdata", "images")
	if _, err := os.Stat(testDataDir); os.IsNotExist(err) {
		return fmt.Errorf("testdata directory not found: %s", testDataDir)
	}

	return nil
}

// iRunCommand executes a command and stores the result.
func (testCtx *TestContext) iRunCommand(command string) error {
	testCtx.LastCommand = command
	testCtx.LastStartTime = time.Now()

	parts := strings.Fields(command)
	if len(parts) == 0 {
		return errors.New("empty command")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Dir = testCtx.WorkingDir
	cmd.Env = append(os.Environ(), testCtx.EnvVars...)

	output, err := cmd.CombinedOutput()
	testCtx.LastOutput = string(output)
	testCtx.LastError = err
	testCtx.LastDuration = time.Since(testCtx.LastStartTime)

	if err != nil {
		exitError := &exec.ExitError{}
		if errors.As(err, &exitError) {
			testCtx.LastExitCode = exitError.ExitCode()
		} else {
			testCtx.LastExitCode = -1
		}
	} else {
		testCtx.LastExitCode = 0
	}

	return nil
}

// theCommandShouldSucceed verifies the command succeeded.
func (testCtx *TestContext) theCommandShouldSucceed() error {
	if testCtx.LastExitCode != 0 {
		return fmt.Errorf("command failed with exit code %d: %w\nOutput: %s",
			testCtx.LastExitCode, testCtx.LastError, testCtx.LastOutput)
	}
	return nil
}

// theCommandShouldFail verifies the command failed.
func (testCtx *TestContext) theCommandShouldFail() error {
	if testCtx.LastExitCode == 0 {
		return fmt.Errorf("command succeeded when it should have failed\nOutput: %s", testCtx.LastOutput)
	}
	return nil
}

// theOutputShouldContain verifies the output contains specific text.
func (testCtx *TestContext) theOutputShouldContain(expectedText string) error {
	if !strings.Contains(testCtx.LastOutput, expectedText) {
		return fmt.Errorf("output does not contain '%s'\nActual output: %s", expectedText, testCtx.LastOutput)
	}
	return nil
}

// extractJSON returns the first top-level JSON value found in the output.
func extractJSON(output string) (string, error) {
	output = strings.TrimSpace(output)
	jsonStart := -1
	for i, r := range output {
		if r == '{' || r == '[' {
			jsonStart = i
			break
		}
	}
	if jsonStart == -1 {
		return "", fmt.Errorf("no JSON found in output: %s", output)
	}
	return output[jsonStart:], nil
}

// theOutputShouldBeValidJSON verifies the output is valid JSON.
func (testCtx *TestContext) theOutputShouldBeValidJSON() error {
	jsonPart, err := extractJSON(testCtx.LastOutput)
	if err != nil {
		return err
	}
	var js json.RawMessage
	if err := json.Unmarshal([]byte(jsonPart), &js); err != nil {
		return fmt.Errorf("output is not valid JSON: %w\nJSON part: %s", err, jsonPart)
	}
	return nil
}

// theJSONShouldContain verifies JSON contains a specific top-level field.
func (testCtx *TestContext) theJSONShouldContain(field string) error {
	jsonPart, err := extractJSON(testCtx.LastOutput)
	if err != nil {
		return err
	}
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(jsonPart), &data); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	parts := strings.Split(field, ".")
	current := data
	for i, part := range parts {
		val, exists := current[part]
		if !exists {
			return fmt.Errorf("field '%s' not found in JSON", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return nil
		}
		next, ok := val.(map[string]interface{})
		if !ok {
			return fmt.Errorf("cannot navigate deeper into non-object field '%s'", part)
		}
		current = next
	}
	return nil
}

// theErrorShouldMention verifies the error message contains specific text.
func (testCtx *TestContext) theErrorShouldMention(errorText string) error {
	if testCtx.LastError == nil && testCtx.LastExitCode == 0 {
		return fmt.Errorf("no error occurred, but expected error containing '%s'", errorText)
	}

	fullErrorText := testCtx.LastOutput
	if testCtx.LastError != nil {
		fullErrorText += " " + testCtx.LastError.Error()
	}

	if !strings.Contains(strings.ToLower(fullErrorText), strings.ToLower(errorText)) {
		return fmt.Errorf("error does not contain '%s'\nActual error: %s", errorText, fullErrorText)
	}

	return nil
}

// theOutputShouldIncludeDebugInformation verifies that the last command
// enabled debug logging (--log-level debug or --verbose); the output itself
// is not inspected.
func (testCtx *TestContext) theOutputShouldIncludeDebugInformation() error {
	if strings.Contains(testCtx.LastCommand, "--log-level debug") || strings.Contains(testCtx.LastCommand, "--verbose") {
		return nil
	}
	return errors.New("debug logging not enabled for this command")
}

// theOutputShouldBeInJSONFormat verifies output format is JSON.
func (testCtx *TestContext) theOutputShouldBeInJSONFormat() error {
	return testCtx.theOutputShouldBeValidJSON()
}

// theOutputShouldBeInCSVFormat verifies output format is CSV.
func (testCtx *TestContext) theOutputShouldBeInCSVFormat() error {
	return testCtx.theOutputShouldBeValidCSV()
}

// theResultsShouldBeWrittenTo verifies output file.
func (testCtx *TestContext) theResultsShouldBeWrittenTo(filename string) error {
	return testCtx.theFileShouldExist(filename)
}

// theEnvironmentVariableIsSetTo sets environment variable.
func (testCtx *TestContext) theEnvironmentVariableIsSetTo(name, value string) error {
	testCtx.AddEnvVar(name, value)
	return nil
}

// theHelpShouldListAllAvailableFlags verifies help content.
func (testCtx *TestContext) theHelpShouldListAllAvailableFlags() error {
	return testCtx.theOutputShouldListAvailableFlags()
}

// flagDescriptionsShouldBeClearAndHelpful verifies flag descriptions.
func (testCtx *TestContext) flagDescriptionsShouldBeClearAndHelpful() error {
	if len(strings.TrimSpace(testCtx.LastOutput)) > 100 {
		return nil
	}
	return errors.New("help output appears too brief")
}

// globalFlagsShouldBeDocumented verifies global flag documentation.
func (testCtx *TestContext) globalFlagsShouldBeDocumented() error {
	globalFlags := []string{"--help", "--version"}
	for _, flag := range globalFlags {
		if !strings.Contains(testCtx.LastOutput, flag) {
			return fmt.Errorf("global flag not documented: %s", flag)
		}
	}
	return nil
}

// buildInformationShouldBeIncluded verifies version output.
func (testCtx *TestContext) buildInformationShouldBeIncluded() error {
	requiredParts := []string{"version", "Build:", "Commit:", "Date:"}
	for _, part := range requiredParts {
		if !strings.Contains(testCtx.LastOutput, part) {
			return fmt.Errorf("version output missing '%s'\nActual output: %s", part, testCtx.LastOutput)
		}
	}
	return nil
}

// theFileShouldExist verifies a file exists.
func (testCtx *TestContext) theFileShouldExist(filename string) error {
	fullPath := filepath.Join(testCtx.WorkingDir, filename)
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", fullPath)
	}
	return nil
}

// theFileShouldContain verifies a file contains specific content.
func (testCtx *TestContext) theFileShouldContain(filename, expectedContent string) error {
	if err := testCtx.theFileShouldExist(filename); err != nil {
		return err
	}

	fullPath := filepath.Join(testCtx.WorkingDir, filename)
	content, err := os.ReadFile(fullPath) //nolint:gosec // G304: Test file reading with controlled path
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", fullPath, err)
	}

	if !strings.Contains(string(content), expectedContent) {
		return fmt.Errorf("file %s does not contain '%s'\nActual content: %s",
			filename, expectedContent, string(content))
	}

	return nil
}

// theOutputShouldListAvailableFlags verifies flags listing.
func (testCtx *TestContext) theOutputShouldListAvailableFlags() error {
	return testCtx.theOutputShouldContain("Flags:")
}

// theOutputShouldListAvailableSubcommands verifies subcommand listing.
func (testCtx *TestContext) theOutputShouldListAvailableSubcommands() error {
	return testCtx.theOutputShouldContain("Available Commands:")
}

// theCommandMightFail accepts that command might fail.
func (testCtx *TestContext) theCommandMightFail() error {
	return nil
}

func (testCtx *TestContext) registerBackgroundSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the test images are available$`, testCtx.theTestImagesAreAvailable)
}

func (testCtx *TestContext) registerCommandSteps(sc *godog.ScenarioContext) {
	sc.Step(`^I run "([^"]*)"$`, testCtx.iRunCommand)
	sc.Step(`^the command should succeed$`, testCtx.theCommandShouldSucceed)
	sc.Step(`^the command should fail$`, testCtx.theCommandShouldFail)
	sc.Step(`^the command might fail$`, testCtx.theCommandMightFail)
	sc.Step(`^the environment variable "([^"]*)" is set to "([^"]*)"$`, testCtx.theEnvironmentVariableIsSetTo)
}

func (testCtx *TestContext) registerOutputSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the output should contain "([^"]*)"$`, testCtx.theOutputShouldContain)
	sc.Step(`^the output should be valid JSON$`, testCtx.theOutputShouldBeValidJSON)
	sc.Step(`^the output should be in JSON format$`, testCtx.theOutputShouldBeInJSONFormat)
	sc.Step(`^the output should be in CSV format$`, testCtx.theOutputShouldBeInCSVFormat)
	sc.Step(`^the JSON should contain "([^"]*)"$`, testCtx.theJSONShouldContain)
	sc.Step(`^the output should include debug information$`, testCtx.theOutputShouldIncludeDebugInformation)
	sc.Step(`^the results should be written to "([^"]*)"$`, testCtx.theResultsShouldBeWrittenTo)
}

func (testCtx *TestContext) registerErrorSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the error should mention "([^"]*)"$`, testCtx.theErrorShouldMention)
}

func (testCtx *TestContext) registerFileSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the file "([^"]*)" should exist$`, testCtx.theFileShouldExist)
	sc.Step(`^the file "([^"]*)" should contain "([^"]*)"$`, testCtx.theFileShouldContain)
}

func (testCtx *TestContext) registerHelpSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the help should list all available flags$`, testCtx.theHelpShouldListAllAvailableFlags)
	sc.Step(`^flag descriptions should be clear and helpful$`, testCtx.flagDescriptionsShouldBeClearAndHelpful)
	sc.Step(`^the help should list all available subcommands$`, testCtx.theOutputShouldListAvailableSubcommands)
	sc.Step(`^global flags should be documented$`, testCtx.globalFlagsShouldBeDocumented)
	sc.Step(`^build information should be included$`, testCtx.buildInformationShouldBeIncluded)
}

// RegisterCommonSteps registers all shared step definitions.
func (testCtx *TestContext) RegisterCommonSteps(sc *godog.ScenarioContext) {
	testCtx.registerBackgroundSteps(sc)
	testCtx.registerCommandSteps(sc)
	testCtx.registerOutputSteps(sc)
	testCtx.registerErrorSteps(sc)
	testCtx.registerFileSteps(sc)
	testCtx.registerHelpSteps(sc)
}
