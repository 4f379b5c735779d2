package scheduler

import "container/heap"

// eventHeap implements container/heap.Interface, earliest TriggerAt first.
type eventHeap []Event

func (h eventHeap) Len() int           { return len(h) }
func (h eventHeap) Less(i, j int) bool { return h[i].TriggerAt.Before(h[j].TriggerAt) }
func (h eventHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(Event))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

func heapPush(h *eventHeap, e Event) {
	heap.Push(h, e)
}

// heapPop panics if the heap is empty.
func heapPop(h *eventHeap) Event {
	return heap.Pop(h).(Event)
}

// heapRemoveJob removes the first event for job and reports whether one was found.
func heapRemoveJob(h *eventHeap, job string) bool {
	for i, e := range *h {
		if e.Job == job {
			heap.Remove(h, i)
			return true
		}
	}
	return false
}
