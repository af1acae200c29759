package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoopIterationOrderAndMessages(t *testing.T) {
	l := NewLoop("test", time.Hour)
	var order []int
	var seen []Message
	l.AddController(PrLvAcuate, ControlFunc(func(cc ControlContext) error {
		order = append(order, cc.PriorityLevel())
		cc.Messages().ProcessMessages(func(msg Message) bool {
			seen = append(seen, msg)
			return msg == "sensed"
		})
		return nil
	}))
	l.AddController(PrLvSense, ControlFunc(func(cc ControlContext) error {
		order = append(order, cc.PriorityLevel())
		cc.Messages().AddMessages("sensed")
		return nil
	}))
	l.PostMessage("posted")
	l.RunIteration(context.Background())
	require.Equal(t, []int{PrLvSense, PrLvAcuate}, order)
	require.Equal(t, []Message{"posted", "sensed"}, seen)

	seen = nil
	l.RunIteration(context.Background())
	require.Equal(t, []Message{"sensed"}, seen)
}

type failingRunner struct{ err error }

func (r *failingRunner) Run(ctx context.Context) error {
	return r.err
}

type blockingRunner struct{}

func (blockingRunner) Run(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestLoopStopsOnRunnerError(t *testing.T) {
	errBoom := errors.New("boom")
	l := NewLoop("test", time.Millisecond).AddRunnable(blockingRunner{}, &failingRunner{err: errBoom})
	err := l.Run(context.Background())
	require.True(t, errors.Is(err, errBoom))
}

func TestLoopTicks(t *testing.T) {
	ticks := make(chan struct{}, 10)
	l := NewLoop("test", time.Millisecond)
	l.AddController(PrLvNormal, ControlFunc(func(ControlContext) error {
		select {
		case ticks <- struct{}{}:
		default:
		}
		return nil
	}))
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()
	for n := 0; n < 3; n++ {
		<-ticks
	}
	cancel()
	require.Equal(t, context.Canceled, <-errCh)
}

func TestRunnerAggregates(t *testing.T) {
	errBoom := errors.New("boom")
	r := NewRunner().Go(NamedRun("block", blockingRunner{}), NamedRun("fail", &failingRunner{err: errBoom}))
	err := r.Wait()
	require.Error(t, err)
	require.True(t, errors.Is(err, errBoom))
	require.Len(t, r.Runners, 2)

	r = NewRunner().Go(blockingRunner{})
	r.Stop()
	require.NoError(t, r.Wait())
}
