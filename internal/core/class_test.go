package core_test

import (
	"reflect"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/toejough/impspec/internal/core"
)

func TestNewClass_RejectsUntypedNil(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	_, err := core.NewClass("Nothing", nil)

	g.Expect(err).To(HaveOccurred())
}

func TestNewClass_RejectsNonFunctions(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	_, err := core.NewClass("ArrayObject", (*ArrayObject)(nil), core.WithConstructor("not a func"))
	g.Expect(err).To(MatchError(core.ErrNotAFunction))

	_, err = core.NewClass("ArrayObject", (*ArrayObject)(nil), core.WithFactory("of", func() {}))
	g.Expect(err).To(MatchError(core.ErrNotAFunction))

	var nilFunc func() *ArrayObject

	_, err = core.NewClass("ArrayObject", (*ArrayObject)(nil), core.WithConstructor(nilFunc))
	g.Expect(err).To(MatchError(core.ErrNotAFunction))
}

func TestMustNewClass_Panics(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(func() { core.MustNewClass("Nothing", nil) }).To(Panic())
}

func TestClass_Members(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	class := arrayObjectClass(
		core.WithConstant("ARRAY_AS_PROPS", 2),
		core.WithFactory("of", NewArrayObject),
	)

	g.Expect(class.HasConstructor()).To(BeTrue())
	g.Expect(class.HasFactory("of")).To(BeTrue())
	g.Expect(class.HasFactory("register")).To(BeFalse())

	value, ok := class.Constant("ARRAY_AS_PROPS")
	g.Expect(ok).To(BeTrue())
	g.Expect(value).To(Equal(2))

	_, ok = class.Constant("STD_PROP_LIST")
	g.Expect(ok).To(BeFalse())
}

func TestClass_MethodVisibility(t *testing.T) {
	t.Parallel()

	pointerClass := arrayObjectClass(core.WithUnexported("privateMethod"))
	valueClass := core.MustNewClass("Counter", Counter{})

	tests := []struct {
		name     string
		class    *core.Class
		method   string
		receiver reflect.Type
		expected core.Visibility
	}{
		{"exported name", pointerClass, "Count", nil, core.Visible},
		{"lower-case name", pointerClass, "count", nil, core.Visible},
		{"missing", pointerClass, "foo", nil, core.Absent},
		{"declared unexported", pointerClass, "privateMethod", nil, core.Hidden},
		{"pointer method on value", valueClass, "increment", nil, core.Hidden},
		{"pointer method on pointer", valueClass, "increment", reflect.TypeFor[*Counter](), core.Visible},
		{"empty name", pointerClass, "", nil, core.Absent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			g.Expect(tt.class.MethodVisibility(tt.method, tt.receiver)).To(Equal(tt.expected))
		})
	}
}

func TestVisibility_String(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(core.Absent.String()).To(Equal("absent"))
	g.Expect(core.Visible.String()).To(Equal("visible"))
	g.Expect(core.Hidden.String()).To(Equal("hidden"))
	g.Expect(core.Visibility(9).String()).To(Equal("Visibility(9)"))
}
