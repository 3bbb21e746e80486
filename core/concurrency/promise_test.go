package concurrency

import (
	"errors"
	"testing"
)

func TestPromiseSucceed(t *testing.T) {
	p := NewPromise()
	if p.Done() {
		t.Fatal("fresh promise reports done")
	}
	var got []error
	p.OnComplete(func(err error) { got = append(got, err) })
	p.Succeed()
	if !p.Done() || p.Err() != nil {
		t.Fatalf("done=%t err=%v", p.Done(), p.Err())
	}
	if len(got) != 1 || got[0] != nil {
		t.Fatalf("callbacks = %v", got)
	}
}

func TestPromiseFail(t *testing.T) {
	p := NewPromise()
	boom := errors.New("boom")
	p.Fail(boom)
	if !errors.Is(p.Err(), boom) {
		t.Fatalf("err = %v, want %v", p.Err(), boom)
	}
}

func TestLateCallbackRunsImmediately(t *testing.T) {
	p := NewPromise()
	p.Succeed()
	ran := false
	p.OnComplete(func(err error) { ran = err == nil })
	if !ran {
		t.Fatal("late callback did not run")
	}
}

func TestCallbacksRunInRegistrationOrder(t *testing.T) {
	p := NewPromise()
	var order []int
	p.OnComplete(func(error) { order = append(order, 1) })
	p.OnComplete(func(error) { order = append(order, 2) })
	p.Succeed()
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("order = %v", order)
	}
}

func TestDoubleSettlePanics(t *testing.T) {
	p := NewPromise()
	p.Succeed()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on second settlement")
		}
	}()
	p.Succeed()
}

func TestNilFailurePanics(t *testing.T) {
	p := NewPromise()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on Fail(nil)")
		}
	}()
	p.Fail(nil)
}
