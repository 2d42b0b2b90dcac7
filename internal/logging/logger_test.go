package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Output: &buf})
	logger.Debug("hidden")
	logger.Info("shown", zap.String("platform", "iOS"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, `"platform": "iOS"`)

	buf.Reset()
	logger = New(Options{Output: &buf, Verbose: true})
	logger.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestNewGitHubActionsOmitsTime(t *testing.T) {
	var buf bytes.Buffer
	New(Options{Output: &buf, GitHubActions: true}).Info("archived")

	line := strings.TrimSpace(buf.String())
	assert.True(t, strings.HasPrefix(line, "INFO"), "line %q should start with the level", line)
}
