// SPDX-License-Identifier: EPL-2.0

package soundry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPending_ResolveOnce(t *testing.T) {
	t.Parallel()

	p := newPending()
	inst := &Instance{}
	p.resolve(inst)
	p.resolve(&Instance{})          // late settle is ignored
	p.reject(errors.New("too late")) // ditto

	select {
	case <-p.Done():
	default:
		t.Fatal("Done() not closed after resolve")
	}
	if p.Instance() != inst {
		t.Error("Instance() != first resolved instance")
	}
	if p.Err() != nil {
		t.Errorf("Err() = %v, want nil", p.Err())
	}
}

func TestPending_RejectOnce(t *testing.T) {
	t.Parallel()

	p := newPending()
	want := errors.New("decode failed")
	p.reject(want)
	p.resolve(&Instance{})

	if !errors.Is(p.Err(), want) {
		t.Errorf("Err() = %v, want %v", p.Err(), want)
	}
	if p.Instance() != nil {
		t.Error("Instance() non-nil on rejected Pending")
	}
}

func TestPending_AwaitBlocksUntilSettled(t *testing.T) {
	t.Parallel()

	p := newPending()
	inst := &Instance{}
	go func() {
		time.Sleep(20 * time.Millisecond)
		p.resolve(inst)
	}()

	got, err := p.Await(context.Background())
	if err != nil {
		t.Fatalf("Await() error = %v", err)
	}
	if got != inst {
		t.Error("Await() returned a different instance")
	}
}

func TestPending_AwaitHonorsContext(t *testing.T) {
	t.Parallel()

	p := newPending()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Await(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Await() error = %v, want context.Canceled", err)
	}
}

func TestResolvedPending(t *testing.T) {
	t.Parallel()

	inst := &Instance{}
	p := resolvedPending(inst)
	select {
	case <-p.Done():
	default:
		t.Fatal("resolvedPending() Done() not closed")
	}
	if p.Instance() != inst {
		t.Error("Instance() != the given instance")
	}
}
