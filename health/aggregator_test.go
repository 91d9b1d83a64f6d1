package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

func passing(name string) Checker {
	return CheckerFunc(name, func(context.Context) error { return nil })
}

func failing(name string, err error) Checker {
	return CheckerFunc(name, func(context.Context) error { return err })
}

func TestAggregator_CheckAll(t *testing.T) {
	agg := NewAggregator()
	boom := errors.New("connection refused")

	agg.Register("storage", passing("storage"))
	agg.Register("notify", failing("notify", boom))

	results := agg.CheckAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if !results["storage"].Healthy {
		t.Error("storage unhealthy, want healthy")
	}
	if results["notify"].Healthy {
		t.Error("notify healthy, want unhealthy")
	}
	if !errors.Is(results["notify"].Error, boom) {
		t.Errorf("notify error = %v, want boom", results["notify"].Error)
	}
}

func TestAggregator_Healthy(t *testing.T) {
	agg := NewAggregator()

	if !agg.Healthy(context.Background()) {
		t.Error("Healthy() with no checkers = false, want true")
	}

	agg.Register("a", passing("a"))
	if !agg.Healthy(context.Background()) {
		t.Error("Healthy() = false with all passing, want true")
	}

	agg.Register("b", failing("b", errors.New("down")))
	if agg.Healthy(context.Background()) {
		t.Error("Healthy() = true with a failing check, want false")
	}
}

func TestAggregator_OneFailureDoesNotCancelOthers(t *testing.T) {
	agg := NewAggregator()

	ran := make(chan struct{}, 1)
	agg.Register("fast-fail", failing("fast-fail", errors.New("down")))
	agg.Register("slow", CheckerFunc("slow", func(ctx context.Context) error {
		time.Sleep(20 * time.Millisecond)
		if err := ctx.Err(); err != nil {
			return err
		}
		ran <- struct{}{}
		return nil
	}))

	results := agg.CheckAll(context.Background())
	select {
	case <-ran:
	default:
		t.Error("slow check did not complete after sibling failure")
	}
	if !results["slow"].Healthy {
		t.Errorf("slow result = %+v, want healthy", results["slow"])
	}
}

func TestAggregator_Timeout(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{Timeout: 20 * time.Millisecond})

	agg.Register("hung", CheckerFunc("hung", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))

	results := agg.CheckAll(context.Background())
	r := results["hung"]
	if r.Healthy {
		t.Error("hung check healthy, want unhealthy")
	}
	if !errors.Is(r.Error, ErrCheckTimeout) {
		t.Errorf("error = %v, want ErrCheckTimeout", r.Error)
	}
}

func TestAggregator_CheckNamed(t *testing.T) {
	agg := NewAggregator()
	agg.Register("storage", passing("storage"))

	r, err := agg.Check(context.Background(), "storage")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !r.Healthy {
		t.Error("result unhealthy, want healthy")
	}

	if _, err := agg.Check(context.Background(), "missing"); !errors.Is(err, ErrCheckerNotFound) {
		t.Errorf("Check(missing) error = %v, want ErrCheckerNotFound", err)
	}
}

func TestAggregator_RegisterReplacesAndUnregister(t *testing.T) {
	agg := NewAggregator()
	agg.Register("a", failing("a", errors.New("down")))
	agg.Register("a", passing("a"))
	agg.Register("b", passing("b"))

	names := agg.CheckerNames()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("CheckerNames() = %v, want [a b]", names)
	}
	if !agg.Healthy(context.Background()) {
		t.Error("Healthy() = false, re-register should have replaced the failing checker")
	}

	agg.Unregister("a")
	if names := agg.CheckerNames(); len(names) != 1 || names[0] != "b" {
		t.Errorf("CheckerNames() after Unregister = %v, want [b]", names)
	}
}

func TestOverall(t *testing.T) {
	if !Overall(nil) {
		t.Error("Overall(nil) = false, want true")
	}
	if !Overall(map[string]Result{"a": {Healthy: true}}) {
		t.Error("Overall(all healthy) = false, want true")
	}
	if Overall(map[string]Result{"a": {Healthy: true}, "b": {Healthy: false}}) {
		t.Error("Overall(one unhealthy) = true, want false")
	}
}
