package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	unlocked bool

	calls []string
}

func (f *fakeExec) isUnlocked() bool { return f.unlocked }
func (f *fakeExec) Create(ctx context.Context) error {
	f.calls = append(f.calls, "create")
	f.unlocked = true
	return nil
}
func (f *fakeExec) Unlock(ctx context.Context) error {
	f.calls = append(f.calls, "unlock")
	f.unlocked = true
	return nil
}
func (f *fakeExec) Lock(ctx context.Context) error {
	f.calls = append(f.calls, "lock")
	f.unlocked = false
	return nil
}
func (f *fakeExec) Add(ctx context.Context) error  { f.calls = append(f.calls, "add"); return nil }
func (f *fakeExec) List(ctx context.Context) error { f.calls = append(f.calls, "list"); return nil }
func (f *fakeExec) Search(ctx context.Context) error {
	f.calls = append(f.calls, "search")
	return nil
}
func (f *fakeExec) Show(ctx context.Context) error { f.calls = append(f.calls, "show"); return nil }
func (f *fakeExec) Delete(ctx context.Context) error {
	f.calls = append(f.calls, "delete")
	return nil
}
func (f *fakeExec) Clear(ctx context.Context) error { f.calls = append(f.calls, "clear"); return nil }
func (f *fakeExec) Generate(ctx context.Context) error {
	f.calls = append(f.calls, "gen")
	return nil
}
func (f *fakeExec) Theme(ctx context.Context) error { f.calls = append(f.calls, "theme"); return nil }

func TestRunREPL_UnlockFlowAndCommands(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader(strings.Join([]string{
		"help",
		"unlock",
		"help",
		"add",
		"list",
		"search",
		"show",
		"delete",
		"gen",
		"foobar",
		"lock",
		"exit",
	}, "\n"))

	exec := &fakeExec{unlocked: false}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	wantOrder := []string{"unlock", "add", "list", "search", "show", "delete", "gen", "lock"}
	if len(exec.calls) < len(wantOrder) {
		t.Fatalf("few calls: %+v", exec.calls)
	}
	idx := 0
	for _, c := range exec.calls {
		if idx < len(wantOrder) && c == wantOrder[idx] {
			idx++
		}
	}
	if idx != len(wantOrder) {
		t.Fatalf("commands order mismatch: got %v, want subseq %v", exec.calls, wantOrder)
	}
}

func TestRunREPL_BlankLinesAndQuit(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("\n   \nquit\n")
	exec := &fakeExec{unlocked: true}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}

func TestRunREPL_EOFExits(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	exec := &fakeExec{}
	sc := bufio.NewScanner(strings.NewReader(""))

	runREPL(context.Background(), exec, func() string { return "" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}
