package sysutil

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestSetLogLevel(t *testing.T) {
	prev := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(prev)

	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"WARNING", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{" Error ", zerolog.ErrorLevel},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tc := range cases {
		SetLogLevel(tc.in)
		if got := zerolog.GlobalLevel(); got != tc.want {
			t.Fatalf("SetLogLevel(%q): level = %v; want %v", tc.in, got, tc.want)
		}
	}
}

func TestIsTruthy(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", "yes", "Y", "on", " On "} {
		if !IsTruthy(v) {
			t.Fatalf("IsTruthy(%q) = false; want true", v)
		}
	}
	for _, v := range []string{"", "0", "false", "off", "no", "maybe"} {
		if IsTruthy(v) {
			t.Fatalf("IsTruthy(%q) = true; want false", v)
		}
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := FirstNonEmpty("", "  ", "b", "c"); got != "b" {
		t.Fatalf("FirstNonEmpty = %q; want \"b\"", got)
	}
	if got := FirstNonEmpty("", "   "); got != "" {
		t.Fatalf("FirstNonEmpty all blank = %q; want empty", got)
	}
	if got := FirstNonEmpty(); got != "" {
		t.Fatalf("FirstNonEmpty() = %q; want empty", got)
	}
}
