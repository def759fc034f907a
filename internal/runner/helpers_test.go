package runner

import (
	"github.com/aatumaykin/curlloop/internal/logger"
)

// testLogger creates a test logger instance
func testLogger() *logger.Logger {
	log, err := logger.New(logger.Config{
		Level:  "debug",
		Format: "text",
		Output: "stderr",
	})
	if err != nil {
		panic(err)
	}
	return log
}
