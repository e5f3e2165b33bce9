package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SCHEDULING_TIMEZONE", "")
	t.Setenv("SCHEDULING_SEARCH_DAYS", "")
	t.Setenv("SCHEDULER_PROVIDER_GATE", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := cfg.Scheduling
	if s.Location == nil || s.Location.String() != "Europe/Stockholm" {
		t.Fatalf("expected Europe/Stockholm, got %v", s.Location)
	}
	if s.SlotStride() != time.Hour || s.TeamStride() != 15*time.Minute {
		t.Fatalf("unexpected strides %v %v", s.SlotStride(), s.TeamStride())
	}
	if s.ProviderPause() != 200*time.Millisecond {
		t.Fatalf("unexpected pause %v", s.ProviderPause())
	}
	if s.MaxSuggestions != 20 || s.MaxTeamSuggestions != 10 {
		t.Fatalf("unexpected caps %d %d", s.MaxSuggestions, s.MaxTeamSuggestions)
	}
	if cfg.Redis.GateEnabled {
		t.Fatal("expected provider gate off unless SCHEDULER_PROVIDER_GATE is set")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SCHEDULING_TIMEZONE", "UTC")
	t.Setenv("SCHEDULING_NONBLOCKING_STATUSES", " Cancelled , draft,,")
	t.Setenv("SCHEDULING_SLOT_STRIDE_MINUTES", "30")
	t.Setenv("SCHEDULER_PROVIDER_GATE", "true")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Scheduling.Location != time.UTC {
		t.Fatalf("expected UTC, got %v", cfg.Scheduling.Location)
	}
	got := cfg.Scheduling.NonBlockingStatuses
	if len(got) != 2 || got[0] != "cancelled" || got[1] != "draft" {
		t.Fatalf("unexpected statuses %v", got)
	}
	if cfg.Scheduling.SlotStrideMinutes != 30 {
		t.Fatalf("expected stride 30, got %d", cfg.Scheduling.SlotStrideMinutes)
	}
	if !cfg.Redis.GateEnabled {
		t.Fatal("expected gate enabled")
	}
}

func TestLoad_InvalidTimezone(t *testing.T) {
	t.Setenv("SCHEDULING_TIMEZONE", "Mars/Olympus")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}

func TestLoad_BatchSizeAboveProviderLimit(t *testing.T) {
	t.Setenv("SCHEDULING_TIMEZONE", "UTC")
	t.Setenv("SCHEDULING_PROVIDER_BATCH_SIZE", "40")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for batch size above 25")
	}
}
