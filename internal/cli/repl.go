package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// executor is the command surface the REPL dispatches to. *App satisfies it;
// tests can substitute a stub.
type executor interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Refresh(ctx context.Context) error
	Renew(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Thumbnail(ctx context.Context, args []string) error
	Stats(ctx context.Context) error
}

// runREPL reads lines from scanner, dispatches the first token as a command,
// and prints command errors. It returns on EOF or "exit"/"quit".
func runREPL(ctx context.Context, e executor, statusFn func() string, scanner *bufio.Scanner, out io.Writer) {
	for {
		fmt.Fprintf(out, "produtos %s> ", statusFn())
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			printHelp(out, e.isLoggedIn())
		case "register":
			err = e.Register(ctx)
		case "login":
			err = e.Login(ctx)
		case "logout":
			err = e.Logout(ctx)
		case "refresh":
			err = e.Refresh(ctx)
		case "renew":
			err = e.Renew(ctx)
		case "whoami":
			err = e.WhoAmI(ctx)
		case "list":
			err = e.List(ctx, args)
		case "show":
			err = e.Show(ctx, args)
		case "add":
			err = e.Add(ctx)
		case "edit":
			err = e.Edit(ctx, args)
		case "delete":
			err = e.Delete(ctx, args)
		case "thumbnail":
			err = e.Thumbnail(ctx, args)
		case "stats":
			err = e.Stats(ctx)
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return
		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}

		if err != nil {
			fmt.Fprintln(out, "error:", err)
		}
	}
}

func printHelp(out io.Writer, loggedIn bool) {
	if !loggedIn {
		fmt.Fprintln(out, "Available commands: register, login, exit")
		return
	}
	fmt.Fprintln(out, "Available commands:")
	fmt.Fprintln(out, "  list [page] [filter]    - list products")
	fmt.Fprintln(out, "  show <id>               - show one product")
	fmt.Fprintln(out, "  add                     - create a product (with thumbnail)")
	fmt.Fprintln(out, "  edit <id>               - update title/description/status")
	fmt.Fprintln(out, "  delete <id>             - delete a product")
	fmt.Fprintln(out, "  thumbnail <id> <file>   - replace a product image")
	fmt.Fprintln(out, "  stats                   - page statistics")
	fmt.Fprintln(out, "  whoami | refresh | renew | logout | exit")
}
