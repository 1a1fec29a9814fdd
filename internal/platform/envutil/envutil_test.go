package envutil

import (
	"testing"
	"time"
)

func TestGetEnvFallbacks(t *testing.T) {
	t.Setenv("CW_TEST_STR", "  value ")
	t.Setenv("CW_TEST_INT", "abc")
	t.Setenv("CW_TEST_BOOL", "yes")
	t.Setenv("CW_TEST_DUR", "45")

	if got := GetEnv("CW_TEST_STR", "def", nil); got != "value" {
		t.Fatalf("GetEnv: want=value got=%q", got)
	}
	if got := GetEnv("CW_TEST_MISSING", "def", nil); got != "def" {
		t.Fatalf("GetEnv default: want=def got=%q", got)
	}
	if got := GetEnvAsInt("CW_TEST_INT", 9, nil); got != 9 {
		t.Fatalf("GetEnvAsInt invalid: want=9 got=%d", got)
	}
	if got := GetEnvAsBool("CW_TEST_BOOL", false, nil); !got {
		t.Fatalf("GetEnvAsBool: want=true")
	}
	if got := GetEnvAsDuration("CW_TEST_DUR", time.Minute, nil); got != 45*time.Second {
		t.Fatalf("GetEnvAsDuration seconds: want=45s got=%s", got)
	}

	t.Setenv("CW_TEST_DUR", "2m")
	if got := GetEnvAsDuration("CW_TEST_DUR", time.Minute, nil); got != 2*time.Minute {
		t.Fatalf("GetEnvAsDuration: want=2m got=%s", got)
	}
}
