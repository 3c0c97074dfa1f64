package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/som23ya/workwale-core/internal/adapters/mq/queue"
	"github.com/som23ya/workwale-core/internal/adapters/mq/worker"
)

type mockQueue struct {
	requestChan chan queue.Request
	closeError  error
}

func newMockQueue() *mockQueue {
	return &mockQueue{
		requestChan: make(chan queue.Request, 10),
	}
}

func (mq *mockQueue) Dequeue(ctx context.Context) <-chan queue.Request {
	return mq.requestChan
}

func (mq *mockQueue) Close() error {
	close(mq.requestChan)
	return mq.closeError
}

func (mq *mockQueue) addRequest(req queue.Request) {
	mq.requestChan <- req
}

type mockRescorer struct {
	mu       sync.Mutex
	rescored []string
	errors   map[string]error
}

func newMockRescorer() *mockRescorer {
	return &mockRescorer{errors: make(map[string]error)}
}

func (mr *mockRescorer) RescoreCandidate(_ context.Context, candidateID string) error {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	if err, ok := mr.errors[candidateID]; ok {
		return err
	}
	mr.rescored = append(mr.rescored, candidateID)
	return nil
}

func (mr *mockRescorer) rescoredIDs() []string {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	out := make([]string, len(mr.rescored))
	copy(out, mr.rescored)
	return out
}

func (mr *mockRescorer) failFor(candidateID string, err error) {
	mr.mu.Lock()
	defer mr.mu.Unlock()
	mr.errors[candidateID] = err
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not reached before deadline")
}

func TestWorker(t *testing.T) {
	convey.Convey("Given a worker on a mock queue", t, func() {
		mq := newMockQueue()
		rescorer := newMockRescorer()
		w := worker.NewInMemoryWorker(mq, rescorer, worker.WithName("test-worker"))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When a request arrives", func() {
			mq.addRequest(queue.Request{CandidateID: "cand-1"})

			convey.Convey("Then the candidate is rescored", func() {
				waitFor(t, func() bool { return len(rescorer.rescoredIDs()) == 1 })
				convey.So(rescorer.rescoredIDs()[0], convey.ShouldEqual, "cand-1")
			})
		})

		convey.Convey("When a rescore fails", func() {
			rescorer.failFor("cand-bad", errors.New("profile missing"))
			mq.addRequest(queue.Request{CandidateID: "cand-bad"})
			mq.addRequest(queue.Request{CandidateID: "cand-good"})

			convey.Convey("Then the worker keeps processing", func() {
				waitFor(t, func() bool { return len(rescorer.rescoredIDs()) == 1 })
				convey.So(rescorer.rescoredIDs()[0], convey.ShouldEqual, "cand-good")
			})
		})

		convey.Convey("When shut down", func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
			defer shutdownCancel()

			convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a pool over the in-memory queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(100))
		rescorer := newMockRescorer()
		pool := worker.NewPool(4, q, rescorer)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool.Start(ctx)

		convey.Convey("When requests are enqueued", func() {
			for _, id := range []string{"cand-1", "cand-2", "cand-3"} {
				convey.So(q.Enqueue(ctx, queue.Request{CandidateID: id}), convey.ShouldBeTrue)
			}

			convey.Convey("Then every candidate gets rescored", func() {
				waitFor(t, func() bool { return len(rescorer.rescoredIDs()) == 3 })
			})
		})

		convey.Convey("When the pool shuts down", func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer shutdownCancel()

			convey.So(pool.Shutdown(shutdownCtx), convey.ShouldBeNil)
			convey.So(q.IsClosed(), convey.ShouldBeTrue)
		})
	})
}
