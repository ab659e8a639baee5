package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubExecutor records which commands were dispatched.
type stubExecutor struct {
	loggedIn bool
	calls    []string
	listArgs []string
	err      error
}

func (s *stubExecutor) record(name string) error {
	s.calls = append(s.calls, name)
	return s.err
}

func (s *stubExecutor) isLoggedIn() bool                  { return s.loggedIn }
func (s *stubExecutor) Register(context.Context) error    { return s.record("register") }
func (s *stubExecutor) Login(context.Context) error       { return s.record("login") }
func (s *stubExecutor) Logout(context.Context) error      { return s.record("logout") }
func (s *stubExecutor) Refresh(context.Context) error     { return s.record("refresh") }
func (s *stubExecutor) Renew(context.Context) error       { return s.record("renew") }
func (s *stubExecutor) WhoAmI(context.Context) error      { return s.record("whoami") }
func (s *stubExecutor) Add(context.Context) error         { return s.record("add") }
func (s *stubExecutor) Stats(context.Context) error       { return s.record("stats") }
func (s *stubExecutor) List(_ context.Context, args []string) error {
	s.listArgs = args
	return s.record("list")
}
func (s *stubExecutor) Show(_ context.Context, args []string) error   { return s.record("show") }
func (s *stubExecutor) Edit(_ context.Context, args []string) error   { return s.record("edit") }
func (s *stubExecutor) Delete(_ context.Context, args []string) error { return s.record("delete") }
func (s *stubExecutor) Thumbnail(_ context.Context, args []string) error {
	return s.record("thumbnail")
}

func run(t *testing.T, e *stubExecutor, input string) string {
	t.Helper()
	var out bytes.Buffer
	runREPL(context.Background(), e, func() string { return "" },
		bufio.NewScanner(strings.NewReader(input)), &out)
	return out.String()
}

func TestREPLDispatch(t *testing.T) {
	e := &stubExecutor{loggedIn: true}
	run(t, e, "login\nlist 2 phone\nshow p1\nstats\nlogout\nexit\n")

	require.Equal(t, []string{"login", "list", "show", "stats", "logout"}, e.calls)
	require.Equal(t, []string{"2", "phone"}, e.listArgs)
}

func TestREPLExitAndQuit(t *testing.T) {
	for _, cmd := range []string{"exit", "quit"} {
		t.Run(cmd, func(t *testing.T) {
			e := &stubExecutor{}
			out := run(t, e, cmd+"\nlogin\n")
			require.Contains(t, out, "Bye!")
			require.Empty(t, e.calls)
		})
	}
}

func TestREPLUnknownCommand(t *testing.T) {
	out := run(t, &stubExecutor{}, "frobnicate\n")
	require.Contains(t, out, "Unknown command: frobnicate")
}

func TestREPLBlankLinesSkipped(t *testing.T) {
	e := &stubExecutor{}
	run(t, e, "\n   \nwhoami\n")
	require.Equal(t, []string{"whoami"}, e.calls)
}

func TestREPLPrintsHandlerError(t *testing.T) {
	e := &stubExecutor{err: errors.New("invalid credentials")}
	out := run(t, e, "login\n")
	require.Contains(t, out, "error: invalid credentials")
}

func TestREPLReturnsOnEOF(t *testing.T) {
	e := &stubExecutor{}
	run(t, e, "whoami") // no trailing newline, then EOF
	require.Equal(t, []string{"whoami"}, e.calls)
}

func TestHelpVariesWithLogin(t *testing.T) {
	out := run(t, &stubExecutor{loggedIn: false}, "help\n")
	require.Contains(t, out, "register, login, exit")
	require.NotContains(t, out, "thumbnail")

	out = run(t, &stubExecutor{loggedIn: true}, "help\n")
	require.Contains(t, out, "list [page] [filter]")
	require.Contains(t, out, "thumbnail <id> <file>")
}
