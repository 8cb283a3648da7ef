package commands

import (
	"github.com/hashicorp/go-hclog"

	"github.com/souhouse/code-push/pkg/codepush"
)

// cliLogger adapts hclog to the codepush.Logger interface for --verbose
// output.
type cliLogger struct {
	logger hclog.Logger
}

func newCLILogger() codepush.Logger {
	return &cliLogger{
		logger: hclog.New(&hclog.LoggerOptions{
			Name:  "codepush",
			Level: hclog.Debug,
		}),
	}
}

func (l *cliLogger) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, flatten(fields)...)
}

func (l *cliLogger) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, flatten(fields)...)
}

func (l *cliLogger) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, flatten(fields)...)
}

func (l *cliLogger) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, flatten(fields)...)
}

// flatten converts a field map to hclog's alternating key/value form.
func flatten(fields map[string]interface{}) []interface{} {
	args := make([]interface{}, 0, len(fields)*2)
	for key, value := range fields {
		args = append(args, key, value)
	}

	return args
}
