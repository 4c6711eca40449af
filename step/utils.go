package step

import (
	"os"
	"strconv"

	"github.com/bitrise-io/go-utils/colorstring"
	"github.com/bitrise-io/go-utils/stringutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/jedib0t/go-pretty/v6/table"
)

const lastLinesCount = 20

func printLastLinesOfRawXcodebuildLog(logger log.Logger, rawLogPath string) {
	if rawLogPath == "" {
		return
	}

	content, err := os.ReadFile(rawLogPath)
	if err != nil {
		logger.Warnf("Failed to read raw xcodebuild log: %s", err)
		return
	}

	logger.Println()
	logger.Errorf("Last lines of the build log:")
	logger.Printf("%s", stringutil.LastNLines(string(content), lastLinesCount))

	logger.Warnf("If you can't find the reason of the error in the log, please check the raw xcodebuild log.")
	logger.Infof("%s", colorstring.Magenta(`
The log file is stored in $BITRISE_DEPLOY_DIR, and its full path
is available in the $XCODEBUILD_RAW_LOG_PATH environment variable.`))
}

func failedTestCasesTable(failedTestCases []string) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Failed test case"})
	for i, testCase := range failedTestCases {
		t.AppendRow(table.Row{strconv.Itoa(i + 1), testCase})
	}
	return t.Render()
}
