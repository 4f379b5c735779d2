package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adhocore/gronx"
)

const maxSleepCap = 60 * time.Second

// ErrInvalidCron is returned for an expression gronx cannot parse.
var ErrInvalidCron = errors.New("invalid cron expression")

// Scheduler fires named jobs at their trigger times and calls onTrigger
// with the job name from its own goroutine.
type Scheduler struct {
	addChan    chan Event
	removeChan chan string
	ctx        context.Context
	now        func() time.Time
}

// New starts a scheduler that stops when ctx is cancelled.
func New(ctx context.Context, onTrigger func(job string)) *Scheduler {
	s := &Scheduler{
		addChan:    make(chan Event, 64),
		removeChan: make(chan string, 64),
		ctx:        ctx,
		now:        time.Now,
	}
	go s.run(onTrigger)
	return s
}

// Add schedules a one-shot event. An event whose TriggerAt is already past
// fires on the next loop iteration. Add is a no-op once the scheduler's
// context is done.
func (s *Scheduler) Add(event Event) {
	select {
	case s.addChan <- event:
	case <-s.ctx.Done():
	}
}

// AddCron schedules job to run at every occurrence of expr.
func (s *Scheduler) AddCron(job, expr string) error {
	if !gronx.IsValid(expr) {
		return fmt.Errorf("%w: %q", ErrInvalidCron, expr)
	}
	next, err := nextCronOccurrence(expr, s.now())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCron, err)
	}
	s.Add(Event{Job: job, TriggerAt: next, CronExpr: expr})
	return nil
}

// Remove cancels the pending run of job.
func (s *Scheduler) Remove(job string) {
	select {
	case s.removeChan <- job:
	case <-s.ctx.Done():
	}
}

func (s *Scheduler) run(onTrigger func(string)) {
	h := &eventHeap{}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	resetTimer := func() <-chan time.Time {
		if timer != nil {
			timer.Stop()
		}
		if h.Len() == 0 {
			return nil
		}
		dur := time.Until((*h)[0].TriggerAt)
		dur = min(max(dur, 0), maxSleepCap)
		timer = time.NewTimer(dur)
		return timer.C
	}

	timerCh := resetTimer()

	for {
		select {
		case <-s.ctx.Done():
			return

		case event := <-s.addChan:
			heapPush(h, event)
			timerCh = resetTimer()

		case job := <-s.removeChan:
			heapRemoveJob(h, job)
			timerCh = resetTimer()

		case <-timerCh:
			now := time.Now()
			for h.Len() > 0 && !(*h)[0].TriggerAt.After(now) {
				event := heapPop(h)
				onTrigger(event.Job)
				if event.CronExpr == "" {
					continue
				}
				if next, err := nextCronOccurrence(event.CronExpr, time.Now()); err == nil {
					heapPush(h, Event{Job: event.Job, TriggerAt: next, CronExpr: event.CronExpr})
				}
			}
			timerCh = resetTimer()
		}
	}
}

// nextCronOccurrence returns the next time expr fires strictly after start.
func nextCronOccurrence(expr string, start time.Time) (time.Time, error) {
	return gronx.NextTickAfter(expr, start, false)
}
