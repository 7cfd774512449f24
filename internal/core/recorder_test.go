package core_test

import (
	"testing"

	. "github.com/onsi/gomega"

	"github.com/toejough/impspec/internal/core"
)

func TestRecorder_ExpectNextWalksEventsInOrder(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reporter := &fakeReporter{}
	recorder := core.NewRecorder(reporter)

	recorder.Record(core.EventBeforeMethodCall, &core.MethodCallEvent{Method: "append", Arguments: []any{1}})
	recorder.Record(core.EventAfterMethodCall, &core.MethodCallEvent{Method: "append", Arguments: []any{1}})

	first := recorder.ExpectNext(core.EventBeforeMethodCall, "append", 1)
	second := recorder.ExpectNext(core.EventAfterMethodCall, "append", 1)

	g.Expect(first).NotTo(BeNil())
	g.Expect(second).NotTo(BeNil())
	g.Expect(reporter.fatals).To(BeEmpty())
	g.Expect(recorder.Len()).To(BeZero())
}

func TestRecorder_MismatchFailsFast(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		event   any
		evtName string
		method  string
		args    []any
		failure string
	}{
		{
			"event name", &core.MethodCallEvent{Method: "count"},
			core.EventAfterMethodCall, "count", nil, `expected event "afterMethodCall"`,
		},
		{
			"method", &core.MethodCallEvent{Method: "count"},
			core.EventBeforeMethodCall, "asort", nil, `expected method "asort", got "count"`,
		},
		{
			"arg count", &core.MethodCallEvent{Method: "append", Arguments: []any{1}},
			core.EventBeforeMethodCall, "append", nil, "expected 0 args, got 1",
		},
		{
			"arg value", &core.MethodCallEvent{Method: "append", Arguments: []any{1}},
			core.EventBeforeMethodCall, "append", []any{2}, "arg 0: expected 2, got 1",
		},
		{
			"not a method call", "plain",
			core.EventBeforeMethodCall, "append", nil, "expected a method call event",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			reporter := &fakeReporter{}
			recorder := core.NewRecorder(reporter)
			recorder.Record(core.EventBeforeMethodCall, tt.event)

			got := recorder.ExpectNext(tt.evtName, tt.method, tt.args...)

			g.Expect(got).To(BeNil())
			g.Expect(reporter.fatals).To(HaveLen(1))
			g.Expect(reporter.fatals[0]).To(HavePrefix("ordered mode fail-fast: "))
			g.Expect(reporter.fatals[0]).To(ContainSubstring(tt.failure))
		})
	}
}

func TestRecorder_NothingRecorded(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reporter := &fakeReporter{}
	recorder := core.NewRecorder(reporter)

	g.Expect(recorder.ExpectNext(core.EventBeforeMethodCall, "count")).To(BeNil())
	g.Expect(reporter.fatals).To(ConsistOf(ContainSubstring("no events were recorded")))
}

func TestRecorder_AcceptsMatchers(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reporter := &fakeReporter{}
	recorder := core.NewRecorder(reporter)
	recorder.Record(core.EventBeforeMethodCall, &core.MethodCallEvent{Method: "append", Arguments: []any{7}})

	recorder.ExpectNext(core.EventBeforeMethodCall, "append", BeNumerically(">", 5))

	g.Expect(reporter.fatals).To(BeEmpty())
}

func TestMatchValue(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	ok, msg := core.MatchValue([]int{1}, []int{1})
	g.Expect(ok).To(BeTrue())
	g.Expect(msg).To(BeEmpty())

	ok, msg = core.MatchValue(1, "1")
	g.Expect(ok).To(BeFalse())
	g.Expect(msg).To(Equal(`expected "1", got 1`))

	ok, msg = core.MatchValue("x", HaveLen(2))
	g.Expect(ok).To(BeFalse())
	g.Expect(msg).NotTo(BeEmpty())
}
