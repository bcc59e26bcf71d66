package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alantheprice/choices/pkg/itemvalue"
)

func TestPassLoggerReportsFaults(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf)
	logger.SetVerbose(true)
	prev := itemvalue.SetObserver(PassLogger{Logger: logger})
	t.Cleanup(func() { itemvalue.SetObserver(prev) })

	bad := itemvalue.New("a")
	bad.SetVisibleIf("{x")
	itemvalue.RunConditions([]*itemvalue.Item{bad}, nil, nil, nil, nil, true)

	out := buf.String()
	assert.Contains(t, out, "[EVAL_ERROR] Condition could not be evaluated")
	assert.Contains(t, out, "visibility pass: 1 items, 0 changed, 1 faults")
	assert.True(t, bad.IsVisible())
}
