package render

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

var fakePDF = []byte("%PDF-1.7 fake")

// stubTier is a Tier whose outcome is fixed. hang blocks until the tier
// context ends; panics raises instead of returning.
type stubTier struct {
	name   string
	pdf    []byte
	err    error
	hang   bool
	panics bool

	calls   atomic.Int32
	gotPath string
	gotBody string
	gotSize Size
}

func (s *stubTier) Name() string { return s.name }

func (s *stubTier) Render(ctx context.Context, path string, size Size) ([]byte, error) {
	s.calls.Add(1)
	s.gotPath, s.gotSize = path, size
	if data, err := os.ReadFile(path); err == nil {
		s.gotBody = string(data)
	}
	switch {
	case s.panics:
		panic("engine crashed")
	case s.hang:
		<-ctx.Done()
		return nil, ctx.Err()
	case s.err != nil:
		return nil, s.err
	default:
		return s.pdf, nil
	}
}

func failing(name string) *stubTier {
	return &stubTier{name: name, err: errors.New(name + " boom")}
}

func newTestExecutor(tiers ...Tier) *Executor {
	return NewExecutor(
		WithTiers(tiers...),
		WithTierTimeout(time.Second),
		WithEnvironment(Environment{Deployment: "test", OS: "linux", Arch: "amd64"}),
	)
}

var pageSize = Size{Width: 800, Height: 600}

func TestExecute_FirstTierWins(t *testing.T) {
	t.Parallel()

	first := &stubTier{name: "one", pdf: fakePDF}
	second := &stubTier{name: "two", pdf: fakePDF}

	got, err := newTestExecutor(first, second).Execute(context.Background(), "<html></html>", pageSize)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if string(got) != string(fakePDF) {
		t.Errorf("Execute() = %q", got)
	}
	if second.calls.Load() != 0 {
		t.Error("second tier ran after first succeeded")
	}
	if first.gotBody != "<html></html>" || first.gotSize != pageSize {
		t.Errorf("tier got body %q size %+v", first.gotBody, first.gotSize)
	}
	if _, err := os.Stat(first.gotPath); !os.IsNotExist(err) {
		t.Error("temporary markup file was not removed")
	}
}

func TestExecute_FallsThroughToLastTier(t *testing.T) {
	t.Parallel()

	tiers := []*stubTier{failing("standard"), failing("restricted"), failing("minimal"), {name: "system", pdf: fakePDF}}
	got, err := newTestExecutor(tiers[0], tiers[1], tiers[2], tiers[3]).Execute(context.Background(), "x", pageSize)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(got) == 0 {
		t.Fatal("Execute() returned an empty buffer")
	}
	for _, tier := range tiers {
		if n := tier.calls.Load(); n != 1 {
			t.Errorf("%s tier ran %d times, want 1", tier.name, n)
		}
	}
}

func TestExecute_Exhausted(t *testing.T) {
	t.Parallel()

	names := []string{"standard", "restricted", "minimal", "system"}
	var tiers []Tier
	for _, n := range names {
		tiers = append(tiers, failing(n))
	}

	_, err := newTestExecutor(tiers...).Execute(context.Background(), "x", pageSize)

	if !errors.Is(err, ErrRenderExhausted) {
		t.Fatalf("error = %v, want ErrRenderExhausted", err)
	}
	var ex *ExhaustedError
	if !errors.As(err, &ex) {
		t.Fatalf("error %T is not *ExhaustedError", err)
	}
	if len(ex.Failures) != 4 {
		t.Fatalf("failures = %d, want 4", len(ex.Failures))
	}
	for i, n := range names {
		if ex.Failures[i].Tier != n {
			t.Errorf("failure %d tier = %q, want %q", i, ex.Failures[i].Tier, n)
		}
		if !strings.Contains(err.Error(), n+" boom") {
			t.Errorf("message missing %q failure", n)
		}
	}
	for _, want := range []string{"deployment=test", "os=linux", "arch=amd64"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("message missing %q:\n%s", want, err)
		}
	}
	// Engine setup advice belongs to the command line, not the library.
	if strings.Contains(err.Error(), "DOCRENDER_") || strings.Contains(err.Error(), "hint:") {
		t.Errorf("message carries CLI hints:\n%s", err)
	}
	var te *TierError
	if !errors.As(err, &te) || te.Tier != "standard" {
		t.Errorf("errors.As(*TierError) = %+v", te)
	}
}

func TestExecute_TierTimeoutAdvances(t *testing.T) {
	t.Parallel()

	hung := &stubTier{name: "hung", hang: true}
	next := &stubTier{name: "next", pdf: fakePDF}
	e := NewExecutor(WithTiers(hung, next), WithTierTimeout(50*time.Millisecond))

	got, err := e.Execute(context.Background(), "x", pageSize)
	if err != nil || len(got) == 0 {
		t.Fatalf("Execute() = %q, %v", got, err)
	}
}

func TestExecute_AllTimeoutsTerminate(t *testing.T) {
	t.Parallel()

	const timeout = 50 * time.Millisecond
	tiers := []Tier{
		&stubTier{name: "a", hang: true}, &stubTier{name: "b", hang: true},
		&stubTier{name: "c", hang: true}, &stubTier{name: "d", hang: true},
	}
	e := NewExecutor(WithTiers(tiers...), WithTierTimeout(timeout))

	start := time.Now()
	_, err := e.Execute(context.Background(), "x", pageSize)
	elapsed := time.Since(start)

	if !errors.Is(err, ErrTierTimeout) {
		t.Errorf("error = %v, want ErrTierTimeout", err)
	}
	if !errors.Is(err, ErrRenderExhausted) {
		t.Errorf("error = %v, want ErrRenderExhausted", err)
	}
	if elapsed > 4*timeout+2*time.Second {
		t.Errorf("Execute took %v, want about %v", elapsed, 4*timeout)
	}
}

func TestExecute_PanicAndEmptyOutputAreFailures(t *testing.T) {
	t.Parallel()

	crash := &stubTier{name: "crash", panics: true}
	empty := &stubTier{name: "empty", pdf: []byte{}}
	ok := &stubTier{name: "ok", pdf: fakePDF}

	got, err := newTestExecutor(crash, empty, ok).Execute(context.Background(), "x", pageSize)
	if err != nil || string(got) != string(fakePDF) {
		t.Fatalf("Execute() = %q, %v", got, err)
	}

	_, err = newTestExecutor(crash, empty).Execute(context.Background(), "x", pageSize)
	if !errors.Is(err, ErrEmptyOutput) || !errors.Is(err, ErrTierLaunch) {
		t.Errorf("error = %v, want both ErrEmptyOutput and ErrTierLaunch", err)
	}
}

func TestExecute_InvalidSize(t *testing.T) {
	t.Parallel()

	tier := &stubTier{name: "one", pdf: fakePDF}
	_, err := newTestExecutor(tier).Execute(context.Background(), "x", Size{Width: 0, Height: 10})
	if !errors.Is(err, ErrInvalidSize) {
		t.Errorf("error = %v, want ErrInvalidSize", err)
	}
	if tier.calls.Load() != 0 {
		t.Error("tier ran for an invalid size")
	}
}

func TestExecute_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tier := &stubTier{name: "one", pdf: fakePDF}
	_, err := newTestExecutor(tier).Execute(ctx, "x", pageSize)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if tier.calls.Load() != 0 {
		t.Error("tier ran with a canceled context")
	}
}

func TestExecute_KeepMarkup(t *testing.T) {
	t.Parallel()

	tier := &stubTier{name: "one", pdf: fakePDF}
	e := NewExecutor(WithTiers(tier), WithKeepMarkup(true))
	if _, err := e.Execute(context.Background(), "kept", pageSize); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	t.Cleanup(func() { _ = os.Remove(tier.gotPath) })

	if _, err := os.Stat(tier.gotPath); err != nil {
		t.Errorf("markup file should be kept: %v", err)
	}
}

func TestNewExecutor_Defaults(t *testing.T) {
	t.Parallel()

	e := NewExecutor()
	want := []string{TierStandard, TierRestricted, TierMinimal, TierSystem}
	got := e.Tiers()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Tiers() = %v, want %v", got, want)
	}
	if e.timeout != DefaultTierTimeout {
		t.Errorf("timeout = %v, want %v", e.timeout, DefaultTierTimeout)
	}
	if e.Environment().OS == "" || e.Environment().Deployment == "" {
		t.Errorf("environment not detected: %+v", e.Environment())
	}
}

func TestSize_Inches(t *testing.T) {
	t.Parallel()

	w, h := Size{Width: 816, Height: 1056}.Inches()
	if w != 8.5 || h != 11 {
		t.Errorf("Inches() = %v, %v; want 8.5, 11", w, h)
	}
}

func TestNewExecutor_TierConfig(t *testing.T) {
	t.Parallel()

	engine := fakeEngine(t)
	e := NewExecutor(
		WithTierConfig(TierConfig{SystemPaths: []string{engine}}),
		WithEnvironment(Environment{Deployment: DeploymentServer, OS: "linux", Container: true}),
	)

	if l := configured(t, e.tiers[0]); !l.Has("no-sandbox") {
		t.Error("container environment should disable the sandbox")
	}
	if l := configured(t, e.tiers[3]); !l.Has("no-sandbox") {
		t.Error("system tier should inherit NoSandbox")
	}
}
