package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) WhoAmI(ctx context.Context) error {
	f.calls = append(f.calls, "whoami")
	return nil
}
func (f *fakeExec) ShowProfile(ctx context.Context) error {
	f.calls = append(f.calls, "profile")
	return nil
}
func (f *fakeExec) EditProfile(ctx context.Context) error {
	f.calls = append(f.calls, "edit")
	return nil
}
func (f *fakeExec) ShowUser(ctx context.Context, id string) error {
	f.calls = append(f.calls, "show")
	f.args = append(f.args, id)
	return nil
}
func (f *fakeExec) Follow(ctx context.Context, id string) error {
	f.calls = append(f.calls, "follow")
	f.args = append(f.args, id)
	return nil
}
func (f *fakeExec) Unfollow(ctx context.Context, id string) error {
	f.calls = append(f.calls, "unfollow")
	f.args = append(f.args, id)
	return nil
}
func (f *fakeExec) Block(ctx context.Context, id string) error {
	f.calls = append(f.calls, "block")
	f.args = append(f.args, id)
	return nil
}
func (f *fakeExec) Unblock(ctx context.Context, id string) error {
	f.calls = append(f.calls, "unblock")
	f.args = append(f.args, id)
	return nil
}
func (f *fakeExec) Privacy(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "privacy")
	f.args = append(f.args, strings.Join(args, " "))
	return nil
}
func (f *fakeExec) Upload(ctx context.Context, kind string, path string) error {
	f.calls = append(f.calls, "upload")
	f.args = append(f.args, kind+" "+path)
	return nil
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"whoami",
		"follow user-2",
		"show user-2",
		"privacy hide",
		"foobar",
		"exit",
	}, "\n"))

	exec := &fakeExec{loggedIn: false}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	wantOrder := []string{"login", "whoami", "follow", "show", "privacy"}
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

	if len(exec.args) == 0 || exec.args[0] != "user-2" {
		t.Fatalf("follow arg mismatch: %v", exec.args)
	}
}

func TestRunREPL_UsageAndQuit(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("follow\nblock\nupload avatar\nquit\n")
	exec := &fakeExec{loggedIn: true}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}
