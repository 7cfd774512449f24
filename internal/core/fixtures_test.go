package core_test

import (
	"errors"
	"fmt"
	"slices"

	"github.com/toejough/impspec/internal/core"
)

// ArrayObject is the subject most tests describe: a pointer type with a constructor,
// exported fields and a mix of method shapes.
type ArrayObject struct {
	Items []int
	Name  string
}

func NewArrayObject(items ...int) *ArrayObject {
	return &ArrayObject{Items: items}
}

func (a *ArrayObject) Append(value int) {
	a.Items = append(a.Items, value)
}

func (a *ArrayObject) Asort() bool {
	slices.Sort(a.Items)

	return true
}

func (a *ArrayObject) Count() int {
	return len(a.Items)
}

func (a *ArrayObject) Fail() error {
	return errBoom
}

func (a *ArrayObject) First() (int, error) {
	if len(a.Items) == 0 {
		return 0, errEmpty
	}

	return a.Items[0], nil
}

func (a *ArrayObject) Pair() (int, string) {
	return len(a.Items), a.Name
}

// Counter has only pointer receiver methods, so a Counter value cannot call them.
type Counter struct {
	Hits int
}

func (c *Counter) Increment() {
	c.Hits++
}

// Gauge takes numbers of several widths, to exercise argument conversion.
type Gauge struct {
	Level   int8
	Reading int
	Ratio   float32
	Count   uint
}

func (g *Gauge) SetCount(count uint) {
	g.Count = count
}

func (g *Gauge) SetLevel(level int8) {
	g.Level = level
}

func (g *Gauge) SetRatio(ratio float32) {
	g.Ratio = ratio
}

func (g *Gauge) SetReading(reading int) {
	g.Reading = reading
}

func (g *Gauge) SetScale(scale float64) float64 {
	return scale
}

// Plain has no constructor.
type Plain struct {
	Value string
}

// unexported variables.
var (
	errBoom  = errors.New("boom")
	errEmpty = errors.New("empty")
)

func arrayObjectClass(opts ...core.ClassOption) *core.Class {
	opts = append([]core.ClassOption{core.WithConstructor(NewArrayObject)}, opts...)

	return core.MustNewClass("ArrayObject", (*ArrayObject)(nil), opts...)
}

func mustRegistry(classes ...*core.Class) *core.ClassRegistry {
	registry, err := core.NewClassRegistry(classes...)
	if err != nil {
		panic(err)
	}

	return registry
}

// newTestCaller wires a Caller the way an Example does, with a recorder on its dispatcher.
func newTestCaller(
	wrapped core.WrappedObject, classes *core.ClassRegistry, t core.TestReporter,
) (*core.Caller, *core.Recorder) {
	dispatcher := core.NewEventDispatcher()
	recorder := core.NewRecorder(t)
	recorder.Listen(dispatcher)

	caller := core.NewCaller(
		wrapped,
		core.NewExampleNode("fixture"),
		dispatcher,
		core.NewExceptions(classes),
		core.NewReflectionInspector(classes),
		classes,
	)

	return caller, recorder
}

// fakeInspector answers from fixed tables.
type fakeInspector struct {
	callable map[string]bool
	readable map[string]bool
	writable map[string]bool
}

func (f *fakeInspector) IsMethodCallable(_ any, name string) bool {
	return f.callable[name]
}

func (f *fakeInspector) IsPropertyReadable(_ any, name string) bool {
	return f.readable[name]
}

func (f *fakeInspector) IsPropertyWritable(_ any, name string) bool {
	return f.writable[name]
}

// fakeWrapped is a WrappedObject whose state the test sets directly.
type fakeWrapped struct {
	instantiated bool
	className    string
	instance     any
	arguments    []any
	factory      string
	setCalls     int
}

func (f *fakeWrapped) Arguments() []any { return f.arguments }

func (f *fakeWrapped) ClassName() string { return f.className }

func (f *fakeWrapped) FactoryMethod() string { return f.factory }

func (f *fakeWrapped) Instance() any { return f.instance }

func (f *fakeWrapped) Instantiated() bool { return f.instantiated }

func (f *fakeWrapped) SetInstance(instance any) {
	f.setCalls++
	f.instance = instance
	f.instantiated = true
}

// fakeReporter records Fatalf calls instead of stopping the test.
type fakeReporter struct {
	fatals []string
}

func (f *fakeReporter) Fatalf(format string, args ...any) {
	f.fatals = append(f.fatals, fmt.Sprintf(format, args...))
}

func (f *fakeReporter) Helper() {}
