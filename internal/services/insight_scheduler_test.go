package services

import (
	"context"
	"errors"
	"testing"
)

type fakeUserLister struct {
	ids []uint
	err error
}

func (lister *fakeUserLister) ListUserIDs(_ context.Context) ([]uint, error) {
	return lister.ids, lister.err
}

func TestSchedulerRunOnceCoversAllUsers(t *testing.T) {
	t.Parallel()

	store := newFakeInsightStore()
	engine := NewInsightEngine(store, store, store, nil)
	scheduler := NewInsightScheduler(engine, &fakeUserLister{ids: []uint{1, 2, 3}}, nil, nil)

	report, err := scheduler.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("run once: %v", err)
	}
	if report.Processed != 3 {
		t.Fatalf("expected all three users processed, got %d", report.Processed)
	}
}

func TestSchedulerRunOncePropagatesListFailure(t *testing.T) {
	t.Parallel()

	store := newFakeInsightStore()
	engine := NewInsightEngine(store, store, store, nil)
	scheduler := NewInsightScheduler(engine, &fakeUserLister{err: errors.New("db down")}, nil, nil)

	if _, err := scheduler.RunOnce(context.Background()); err == nil {
		t.Fatal("expected the user listing failure to surface")
	}
}
