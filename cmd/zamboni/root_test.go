package main

import (
	"context"
	"errors"
	"testing"
	"zamboni-stats/internal/domain"
)

func TestSessionFromFlags(t *testing.T) {
	flagVersion, flagMode = "nhl11", "so"
	t.Cleanup(func() { flagVersion, flagMode = "", domain.ModeVS })

	s, err := session().Normalize(domain.VersionNHL10)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if s.Version != domain.VersionNHL11 || s.Mode != domain.ModeSO {
		t.Errorf("session = %+v, want nhl11/SO", s)
	}
}

func TestWatchRunsOnceWithoutInterval(t *testing.T) {
	flagWatch, flagForce = 0, true
	t.Cleanup(func() { flagForce = false })

	var calls int
	var forced bool
	err := watch(context.Background(), func(ctx context.Context, force bool) error {
		calls++
		forced = force
		return nil
	})
	if err != nil || calls != 1 || !forced {
		t.Errorf("watch: err=%v calls=%d forced=%v, want one forced call", err, calls, forced)
	}

	boom := errors.New("boom")
	if err := watch(context.Background(), func(context.Context, bool) error { return boom }); !errors.Is(err, boom) {
		t.Errorf("watch err = %v, want boom", err)
	}
}
