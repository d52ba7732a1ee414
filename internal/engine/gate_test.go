package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestGateWaitRunning(t *testing.T) {
	var g Gate
	if err := g.Wait(context.Background()); err != nil {
		t.Fatalf("Wait on open gate: %v", err)
	}
	if g.Paused() {
		t.Fatal("new gate should not be paused")
	}
}

func TestGateResumeWakesAllWaiters(t *testing.T) {
	var g Gate
	g.Pause()

	const waiters = 5
	var wg sync.WaitGroup
	woke := make(chan struct{}, waiters)
	for range waiters {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := g.Wait(context.Background()); err == nil {
				woke <- struct{}{}
			}
		}()
	}

	time.Sleep(20 * time.Millisecond)
	if len(woke) != 0 {
		t.Fatalf("%d waiters passed a paused gate", len(woke))
	}

	g.Resume()
	wg.Wait()
	if len(woke) != waiters {
		t.Fatalf("woke %d waiters, want %d", len(woke), waiters)
	}
}

func TestGatePauseTwiceKeepsSignal(t *testing.T) {
	var g Gate
	g.Pause()
	first := g.resume
	g.Pause()
	if g.resume != first {
		t.Fatal("second Pause replaced the resume channel")
	}
	g.Resume()
	if g.Paused() || g.resume != nil {
		t.Fatal("Resume should open the gate and drop the channel")
	}
	g.Resume() // no-op on an open gate
}

func TestGateRepauseBlocksAgain(t *testing.T) {
	var g Gate
	g.Pause()

	done := make(chan error, 1)
	go func() { done <- g.Wait(context.Background()) }()

	time.Sleep(10 * time.Millisecond)
	g.Resume()
	if err := <-done; err != nil {
		t.Fatalf("Wait: %v", err)
	}

	g.Pause()
	go func() { done <- g.Wait(context.Background()) }()
	select {
	case <-done:
		t.Fatal("Wait passed a re-paused gate")
	case <-time.After(20 * time.Millisecond):
	}
	g.Resume()
	<-done
}

func TestGateWaitCancelled(t *testing.T) {
	var g Gate
	g.Pause()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- g.Wait(ctx) }()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Wait error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after cancel")
	}
}

func TestGateDo(t *testing.T) {
	var g Gate
	ran := false
	if err := g.Do(context.Background(), func() error { ran = true; return nil }); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if !ran {
		t.Fatal("step did not run")
	}

	want := errors.New("step failed")
	if err := g.Do(context.Background(), func() error { return want }); !errors.Is(err, want) {
		t.Fatalf("Do error = %v, want %v", err, want)
	}
}
