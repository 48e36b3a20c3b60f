package worker

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestProgress_UpdateRecordsCounts(t *testing.T) {
	p := NewProgress(10, "layers", false)
	p.Update(5, 10, 0)

	if p.completed != 5 || p.total != 10 {
		t.Errorf("Expected 5/10, got %d/%d", p.completed, p.total)
	}
}

func TestProgress_Print(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(4, "layers", true)
	p.SetOutput(&buf)

	p.Update(2, 4, 1)
	out := buf.String()

	if !strings.Contains(out, "2/4 layers") {
		t.Errorf("Expected '2/4 layers' in output, got: %q", out)
	}
	if !strings.Contains(out, "(1 failed)") {
		t.Errorf("Expected '(1 failed)' in output, got: %q", out)
	}
	if !strings.Contains(out, strings.Repeat("#", barWidth/2)) {
		t.Errorf("Expected half-filled bar, got: %q", out)
	}
	if strings.Contains(out, "done in") {
		t.Errorf("Did not expect completion marker, got: %q", out)
	}
}

func TestProgress_Done(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(3, "layers", true)
	p.SetOutput(&buf)

	p.Update(3, 3, 0)
	if !strings.Contains(buf.String(), "done in") {
		t.Errorf("Expected completion marker, got: %q", buf.String())
	}

	buf.Reset()
	p.Done()
	if buf.String() != "\n" {
		t.Errorf("Expected trailing newline, got: %q", buf.String())
	}
}

func TestProgress_DisabledIsSilent(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(2, "", false)
	p.SetOutput(&buf)

	p.Update(1, 2, 0)
	p.Done()
	if buf.Len() != 0 {
		t.Errorf("Expected no output, got: %q", buf.String())
	}
	if !strings.Contains(p.Summary(), "items") {
		t.Errorf("Expected default unit in summary, got: %q", p.Summary())
	}
}

func TestProgress_Summary(t *testing.T) {
	p := NewProgress(5, "layers", false)
	p.Update(5, 5, 2)

	s := p.Summary()
	if !strings.Contains(s, "Built 3/5 layers (2 failed)") {
		t.Errorf("Unexpected summary: %q", s)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{250 * time.Millisecond, "250ms"},
		{1500 * time.Millisecond, "1.5s"},
		{90 * time.Second, "1m30s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
