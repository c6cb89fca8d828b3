package observability

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnPhaseStart(ctx, "fetch")
	p.OnPhaseComplete(ctx, "fetch", 100, time.Second, nil)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "api.github.com", "/repos/madler/zlib")
	h.OnResponse(ctx, "GET", "api.github.com", "/repos/madler/zlib", 200, time.Second)
	h.OnError(ctx, "GET", "api.github.com", "/repos/madler/zlib", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// nil does not replace registered hooks
	SetPipelineHooks(nil)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks(nil) should keep existing hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset should restore NoopPipelineHooks")
	}
}

func TestPipelineHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	h := &testPipelineHooks{}
	SetPipelineHooks(h)

	ctx := context.Background()
	Pipeline().OnPhaseStart(ctx, "tags")
	Pipeline().OnPhaseComplete(ctx, "tags", 3, time.Millisecond, errors.New("boom"))

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.started) != 1 || h.started[0] != "tags" {
		t.Errorf("started = %v", h.started)
	}
	if len(h.completed) != 1 || h.completed[0] != "tags" {
		t.Errorf("completed = %v", h.completed)
	}
	if h.lastErr == nil {
		t.Error("error should be forwarded")
	}
}

type testPipelineHooks struct {
	mu        sync.Mutex
	started   []string
	completed []string
	lastErr   error
}

func (h *testPipelineHooks) OnPhaseStart(_ context.Context, phase string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started = append(h.started, phase)
}

func (h *testPipelineHooks) OnPhaseComplete(_ context.Context, phase string, _ int, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.completed = append(h.completed, phase)
	h.lastErr = err
}

type testHTTPHooks struct{}

func (*testHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (*testHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (*testHTTPHooks) OnError(context.Context, string, string, string, error)                 {}
