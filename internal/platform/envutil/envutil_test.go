package envutil

import (
	"testing"
	"time"
)

func TestIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("STUDYPLAN_TEST_INT", "ten")
	if got := Int("STUDYPLAN_TEST_INT", 7, nil); got != 7 {
		t.Fatalf("Int = %d, want 7", got)
	}
	t.Setenv("STUDYPLAN_TEST_INT", " 12 ")
	if got := Int("STUDYPLAN_TEST_INT", 7, nil); got != 12 {
		t.Fatalf("Int = %d, want 12", got)
	}
}

func TestBoolAndFloat(t *testing.T) {
	t.Setenv("STUDYPLAN_TEST_BOOL", "off")
	if Bool("STUDYPLAN_TEST_BOOL", true, nil) {
		t.Fatalf("expected false")
	}
	t.Setenv("STUDYPLAN_TEST_FLOAT", "79.5")
	if got := Float("STUDYPLAN_TEST_FLOAT", 80, nil); got != 79.5 {
		t.Fatalf("Float = %v", got)
	}
}

func TestDuration(t *testing.T) {
	t.Setenv("STUDYPLAN_TEST_DUR", "30")
	if got := Duration("STUDYPLAN_TEST_DUR", time.Second, nil); got != 30*time.Second {
		t.Fatalf("Duration(secs) = %v", got)
	}
	t.Setenv("STUDYPLAN_TEST_DUR", "1m30s")
	if got := Duration("STUDYPLAN_TEST_DUR", time.Second, nil); got != 90*time.Second {
		t.Fatalf("Duration(go) = %v", got)
	}
	t.Setenv("STUDYPLAN_TEST_DUR", "")
	if got := Duration("STUDYPLAN_TEST_DUR", time.Second, nil); got != time.Second {
		t.Fatalf("Duration(empty) = %v", got)
	}
}
