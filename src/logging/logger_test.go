package logging

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestInfof_NoDoubleFormattingWithPercent(t *testing.T) {
	// Swap the base logger to capture output
	var buf bytes.Buffer
	saved := baseLogger
	baseLogger = log.New(&buf, "", 0)
	defer func() { baseLogger = saved }()

	SetLogLevel("info")

	msg := "[ttbar/mu_pt] rendered stack of 4 MC histograms (normalization 1.3333, 100.0% of data) in 12ms"
	Infof(msg)

	out := buf.String()
	if !strings.Contains(out, "(normalization 1.3333, 100.0% of data)") {
		t.Fatalf("log output missing expected percent segment: %s", out)
	}
	if strings.Contains(out, "%!o(MISSING)") || strings.Contains(out, "%!f(MISSING)") {
		t.Fatalf("log output still shows fmt artifact: %s", out)
	}
}

func TestSetLogLevel_FiltersBelowThreshold(t *testing.T) {
	var buf bytes.Buffer
	saved := baseLogger
	baseLogger = log.New(&buf, "", 0)
	defer func() { baseLogger = saved }()

	SetLogLevel("warn")
	defer SetLogLevel("info")

	Infof("should be suppressed")
	Warnf("should appear")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Fatalf("info line not filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "[WARN] should appear") {
		t.Fatalf("warn line missing: %s", out)
	}
}
