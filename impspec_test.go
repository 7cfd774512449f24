package impspec_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/toejough/impspec"
	"github.com/toejough/impspec/match"
)

// Account is a small bank account used to exercise the public API end to end.
type Account struct {
	Owner   string
	balance int
}

func NewAccount(owner string, opening int) *Account {
	return &Account{Owner: owner, balance: opening}
}

func (a *Account) Balance() int {
	return a.balance
}

func (a *Account) Deposit(amount int) int {
	a.balance += amount

	return a.balance
}

//nolint:unused // declared unexported on the class
func (a *Account) audit() {}

//nolint:gochecknoinits // the class table is process-wide
func init() {
	err := impspec.Register(accountClass())
	if err != nil {
		panic(err)
	}
}

func accountClass() *impspec.Class {
	class, err := impspec.NewClass("impspec_test.Account", (*Account)(nil),
		impspec.WithConstructor(NewAccount),
		impspec.WithFactory("empty", func() *Account { return &Account{} }),
		impspec.WithConstant("CURRENCY", "EUR"),
		impspec.WithUnexported("audit"),
	)
	if err != nil {
		panic(err)
	}

	return class
}

func TestDescribe_CallsThroughToTheInstance(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	account := impspec.Describe(t, "impspec_test.Account", "ann", 10)
	recorder := impspec.NewRecorder(t)
	recorder.Listen(impspec.ExampleFor(t).Dispatcher)

	balance, err := account.Call("deposit", 5)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(balance.Unwrap()).To(Equal(15))

	recorder.ExpectNext(impspec.EventBeforeMethodCall, "deposit", 5)
	after := recorder.ExpectNext(impspec.EventAfterMethodCall, "deposit", match.BeAny)
	g.Expect(after.ReturnValue).To(Equal(15))
}

func TestDescribe_ReportsFractures(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	account := impspec.Describe(t, "impspec_test.Account", "bob", 0)

	_, err := account.Call("audit")
	g.Expect(err).To(match.BeFracture(impspec.KindMethodNotVisible))
	g.Expect(err).To(match.HaveLabel("impspec_test.Account::audit"))

	_, err = account.Call("withdraw", 1)
	g.Expect(err).To(MatchError(impspec.ErrMethodNotFound))

	g.Expect(account.Set("balance", 3)).To(match.BeFracture(impspec.KindPropertyNotFound))

	_, err = impspec.Describe(t, "Foo").WrappedObject()
	g.Expect(err).To(match.BeFracture(impspec.KindClassNotFound))
}

func TestDescribe_ConstantsAndProperties(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	account := impspec.Describe(t, "impspec_test.Account")
	g.Expect(account.BeConstructedThrough("empty")).To(Succeed())

	currency, err := account.Get("CURRENCY")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(currency.Unwrap()).To(Equal("EUR"))
	g.Expect(account.Unwrap()).To(BeNil())

	g.Expect(account.Set("owner", "cy")).To(Succeed())

	owner, err := account.Get("owner")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(owner.Unwrap()).To(Equal("cy"))
}

func TestRegister_RejectsDuplicates(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(impspec.Register(accountClass())).To(MatchError(impspec.ErrClassAlreadyRegistered))
	g.Expect(impspec.Register((*impspec.Class)(nil))).To(MatchError(impspec.ErrNilClass))
}

func TestNewCaller_WithExplicitCollaborators(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	example := impspec.ExampleFor(t)
	caller := impspec.NewCaller(
		&stubWrapped{instance: 12},
		example.Node,
		example.Dispatcher,
		example.Exceptions,
		example.Inspector,
		example.Classes,
	)

	_, err := caller.Call("anything")

	g.Expect(err).To(match.BeFracture(impspec.KindOperationOnNonObject))
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	dir := t.TempDir()

	cfg, err := impspec.LoadConfig(filepath.Join(dir, "missing.yml"))
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(cfg.Log.Level).To(Equal("info"))

	path := filepath.Join(dir, "impspec.yml")
	g.Expect(os.WriteFile(path, []byte("log:\n  level: debug\n  format: json\n"), 0o600)).To(Succeed())

	cfg, err = impspec.LoadConfig(path)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(cfg.Log.Level).To(Equal("debug"))
	g.Expect(cfg.Log.Format).To(Equal("json"))

	g.Expect(os.WriteFile(path, []byte("log:\n  level: loud\n"), 0o600)).To(Succeed())

	_, err = impspec.LoadConfig(path)
	g.Expect(err).To(HaveOccurred())
	g.Expect(impspec.Configure(path)).To(HaveOccurred())
}

// stubWrapped is an instantiated WrappedObject holding a fixed value.
type stubWrapped struct {
	instance any
}

func (s *stubWrapped) Arguments() []any { return nil }

func (s *stubWrapped) ClassName() string { return "" }

func (s *stubWrapped) FactoryMethod() string { return "" }

func (s *stubWrapped) Instance() any { return s.instance }

func (s *stubWrapped) Instantiated() bool { return true }

func (s *stubWrapped) SetInstance(instance any) { s.instance = instance }
