package worker

// go test -v github.com/myeof/gonetmsg/worker
// go test -v github.com/myeof/gonetmsg/worker -run TestInitWorker
import (
	"sync/atomic"
	"testing"
	"time"
)

func TestInitWorker(t *testing.T) {
	w := NewWorker(4, 4)
	if w == nil {
		t.Fatal("Worker is nil")
	}
	w.StartJob(func() {
		t.Log("Worker1 running")
	})
	w.StartJob(func() {
		t.Log("Worker2 running")
		time.Sleep(100 * time.Millisecond)
	})
	<-w.Shutdown()
	t.Log("Worker shutdown")
}

func TestShutdownDrainsQueue(t *testing.T) {
	w := NewWorker(2, 16)
	var done int64
	for i := 0; i < 16; i++ {
		w.StartJob(func() {
			time.Sleep(time.Millisecond)
			atomic.AddInt64(&done, 1)
		})
	}
	<-w.Shutdown()
	if got := atomic.LoadInt64(&done); got != 16 {
		t.Fatalf("expected 16 jobs done, got %d", got)
	}
	if w.Running() != 0 || w.Pending() != 0 {
		t.Fatalf("expected idle worker, running=%d pending=%d", w.Running(), w.Pending())
	}
}

func TestPanickingJobDoesNotKillWorker(t *testing.T) {
	w := NewWorker(1, 2)
	var ran int64
	w.StartJob(func() {
		panic("boom")
	})
	w.StartJob(func() {
		atomic.AddInt64(&ran, 1)
	})
	<-w.Shutdown()
	if atomic.LoadInt64(&ran) != 1 {
		t.Fatal("job after panic did not run")
	}
}
