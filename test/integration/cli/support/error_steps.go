package support

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cucumber/godog"
)

// theErrorShouldMentionFileNotFound verifies file not found error.
func (testCtx *TestContext) theErrorShouldMentionFileNotFound() error {
	if testCtx.theErrorShouldMention("file not found") == nil {
		return nil
	}
	return testCtx.theErrorShouldMention("no such file")
}

// theErrorShouldMentionNoInputFilesProvided verifies no input files error.
func (testCtx *TestContext) theErrorShouldMentionNoInputFilesProvided() error {
	return testCtx.theErrorShouldMention("no input files")
}

// theErrorShouldMentionUnsupportedImageFormat verifies unsupported format error.
func (testCtx *TestContext) theErrorShouldMentionUnsupportedImageFormat() error {
	return testCtx.theErrorShouldMention("unsupported")
}

// theErrorShouldMentionPermissionDenied verifies permission denied error.
func (testCtx *TestContext) theErrorShouldMentionPermissionDenied() error {
	return testCtx.theErrorShouldMention("permission")
}

// theErrorShouldMentionImageTooLarge verifies image too large error.
func (testCtx *TestContext) theErrorShouldMentionImageTooLarge() error {
	return testCtx.theErrorShouldMention("large")
}

// theCommandShouldBeInterrupted verifies command interruption.
func (testCtx *TestContext) theCommandShouldBeInterrupted() error {
	if testCtx.LastExitCode == 0 {
		return errors.New("command completed successfully when it should have been interrupted")
	}
	return nil
}

// theErrorShouldSuggestAvailableCommands verifies command suggestion error.
func (testCtx *TestContext) theErrorShouldSuggestAvailableCommands() error {
	suggestionIndicators := []string{"available", "commands", "help", "usage"}
	for _, indicator := range suggestionIndicators {
		if strings.Contains(strings.ToLower(testCtx.LastOutput), indicator) {
			return nil
		}
	}
	return fmt.Errorf("error does not suggest available commands: %s", testCtx.LastOutput)
}

// theErrorShouldMentionUnknownFlag verifies unknown flag error.
func (testCtx *TestContext) theErrorShouldMentionUnknownFlag() error {
	return testCtx.theErrorShouldMention("flag")
}

// theOutputShouldContainVersionInformation verifies version output.
func (testCtx *TestContext) theOutputShouldContainVersionInformation() error {
	versionIndicators := []string{"version", "Version", "v", "0.", "1.", "2."}
	for _, indicator := range versionIndicators {
		if strings.Contains(testCtx.LastOutput, indicator) {
			return nil
		}
	}
	return fmt.Errorf("output does not contain version information: %s", testCtx.LastOutput)
}

// iSendSIGINTToTheProcess simulates SIGINT signal.
func (testCtx *TestContext) iSendSIGINTToTheProcess() error {
	testCtx.LastExitCode = 130
	testCtx.LastError = errors.New("interrupted")
	return nil
}

// theErrorMessageShouldIndicateFileTooLarge verifies file too large error.
func (testCtx *TestContext) theErrorMessageShouldIndicateFileTooLarge() error {
	return testCtx.theErrorShouldMention("file too large")
}

// theErrorMessageShouldIndicateInvalidFormat verifies invalid format error.
func (testCtx *TestContext) theErrorMessageShouldIndicateInvalidFormat() error {
	return testCtx.theErrorShouldMention("invalid format")
}

// theErrorMessageShouldIndicateTimeout verifies timeout error.
func (testCtx *TestContext) theErrorMessageShouldIndicateTimeout() error {
	return testCtx.theErrorShouldMention("timeout")
}

// RegisterErrorSteps registers all error handling step definitions.
func (testCtx *TestContext) RegisterErrorSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the error should mention "file not found" or "no such file"$`, testCtx.theErrorShouldMentionFileNotFound)
	sc.Step(`^the error should mention "no input files provided"$`, testCtx.theErrorShouldMentionNoInputFilesProvided)
	sc.Step(`^the error should mention "unsupported image format"$`, testCtx.theErrorShouldMentionUnsupportedImageFormat)
	sc.Step(`^the error should mention "permission denied" or "failed to write"$`, testCtx.theErrorShouldMentionPermissionDenied)
	sc.Step(`^the error should mention "image too large" or "memory"$`, testCtx.theErrorShouldMentionImageTooLarge)

	sc.Step(`^the command should be interrupted$`, testCtx.theCommandShouldBeInterrupted)

	sc.Step(`^the error should suggest available commands$`, testCtx.theErrorShouldSuggestAvailableCommands)
	sc.Step(`^the error should mention "unknown flag"$`, testCtx.theErrorShouldMentionUnknownFlag)

	sc.Step(`^the output should contain version information$`, testCtx.theOutputShouldContainVersionInformation)
	sc.Step(`^the output should list available subcommands$`, testCtx.theOutputShouldListAvailableSubcommands)

	sc.Step(`^the error message should indicate file too large$`, testCtx.theErrorMessageShouldIndicateFileTooLarge)
	sc.Step(`^the error message should indicate invalid format$`, testCtx.theErrorMessageShouldIndicateInvalidFormat)
	sc.Step(`^the error message should indicate timeout$`, testCtx.theErrorMessageShouldIndicateTimeout)

	sc.Step(`^I send SIGINT to the process$`, testCtx.iSendSIGINTToTheProcess)
}
