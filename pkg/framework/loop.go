package framework

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
)

// DefaultInterval is the tick interval of a Loop without Interval.
const DefaultInterval = 100 * time.Millisecond

// Loop runs controllers by priority level on every tick, and the
// runners added to it for as long as it runs.
type Loop struct {
	Name     string
	Interval time.Duration

	controllers [PriorityLevels][]Controller
	runners     []Runnable

	messages []Message
	lock     sync.Mutex

	wakeUpCh chan struct{}
}

// LoopAdder provides specific logic to add components to loop.
type LoopAdder interface {
	AddToLoop(*Loop)
}

type loopIteration struct {
	*Loop
	ctx           context.Context
	time          time.Time
	priorityLevel int
	messages      []Message
}

var loopCtxKey = &Loop{}

// LoopCtlFrom gets the LoopControl of the loop running a Runnable.
func LoopCtlFrom(ctx context.Context) LoopControl {
	return ctx.Value(loopCtxKey).(LoopControl)
}

// NewLoop creates a Loop.
func NewLoop(name string, interval time.Duration) *Loop {
	return &Loop{Name: name, Interval: interval, wakeUpCh: make(chan struct{}, 1)}
}

// Add adds LoopAdders.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddController registers controllers to the loop. A controller
// which is also a Runnable is run in background.
func (l *Loop) AddController(priorityLevel int, ctls ...Controller) *Loop {
	l.controllers[priorityLevel] = append(l.controllers[priorityLevel], ctls...)
	for _, ctl := range ctls {
		if runner, ok := ctl.(Runnable); ok {
			l.runners = append(l.runners, runner)
		}
	}
	return l
}

// AddRunnable adds Runnable implementions.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// Run implements Runnable. It stops when the context is done or
// any of the runners fails.
func (l *Loop) Run(ctx context.Context) error {
	if l.wakeUpCh == nil {
		l.wakeUpCh = make(chan struct{}, 1)
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runner := NewRunnerWith(context.WithValue(ctx, loopCtxKey, LoopControl(l)))
	runner.Go(l.runners...)
	runnersDone := make(chan error, 1)
	go func() { runnersDone <- runner.Wait() }()

	interval := l.Interval
	if interval == 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	glog.V(4).Infof("Loop[%s] started, interval %v", l.Name, interval)
	for {
		select {
		case <-ctx.Done():
			if runnersDone != nil {
				<-runnersDone
			}
			return ctx.Err()
		case err := <-runnersDone:
			if err == nil {
				// runners finished, keep ticking.
				runnersDone = nil
				continue
			}
			return err
		case <-ticker.C:
			l.RunIteration(ctx)
		case <-l.wakeUpCh:
			l.RunIteration(ctx)
		}
	}
}

// String implements fmt.Stringer.
func (l *Loop) String() string {
	return l.Name
}

// PostMessage implements LoopControl.
func (l *Loop) PostMessage(msg Message) {
	l.lock.Lock()
	l.messages = append(l.messages, msg)
	l.lock.Unlock()
}

// TriggerNext implements LoopControl.
func (l *Loop) TriggerNext() {
	select {
	case l.wakeUpCh <- struct{}{}:
	default:
	}
}

// RunIteration runs every controller once.
func (l *Loop) RunIteration(ctx context.Context) {
	iter := &loopIteration{Loop: l, time: time.Now(), ctx: ctx}
	l.lock.Lock()
	iter.messages, l.messages = l.messages, nil
	l.lock.Unlock()
	for i := 0; i < PriorityLevels; i++ {
		iter.priorityLevel = i
		for _, ctl := range l.controllers[i] {
			if err := ctl.Control(iter); err != nil {
				glog.Errorf("Loop[%s] controller error: %v", l.Name, err)
			}
		}
	}
	if len(iter.messages) > 0 {
		glog.V(4).Infof("Loop[%s] %d messages unprocessed", l.Name, len(iter.messages))
	}
}

func (t *loopIteration) Context() context.Context { return t.ctx }
func (t *loopIteration) Time() time.Time          { return t.time }
func (t *loopIteration) PriorityLevel() int       { return t.priorityLevel }
func (t *loopIteration) Messages() MessageStore   { return t }

func (t *loopIteration) ProcessMessages(fn func(Message) bool) {
	msgs := t.messages
	t.messages = nil
	for _, msg := range msgs {
		if !fn(msg) {
			t.messages = append(t.messages, msg)
		}
	}
}

func (t *loopIteration) AddMessages(msgs ...Message) {
	t.messages = append(t.messages, msgs...)
}
