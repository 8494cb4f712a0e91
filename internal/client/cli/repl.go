package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = func(args ...any) { fmt.Println(args...) }

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	AddImage(ctx context.Context, path string) error
	ListImages(ctx context.Context) error
	MoveImage(ctx context.Context, pos string, up bool) error
	RemoveImage(ctx context.Context, pos string) error
	Upload(ctx context.Context) error
	EditVehicle(ctx context.Context) error
	ListVehicles(ctx context.Context) error
	Save(ctx context.Context) error
}

// runREPL reads a line at a time, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on scanner EOF or when the
// user types "exit" or "quit". Errors from command handlers are ignored here;
// handlers report their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("md %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: add <file>, images, up <n>, down <n>, rm <n>, upload, vehicle, vehicles, save, logout, exit")
			} else {
				printlnFn("Available commands: login, vehicles, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "add":
			if len(args) != 1 {
				printlnFn("Usage: add <file>")
				continue
			}
			_ = a.AddImage(ctx, args[0])

		case "i", "images":
			_ = a.ListImages(ctx)

		case "up":
			if len(args) != 1 {
				printlnFn("Usage: up <n>")
				continue
			}
			_ = a.MoveImage(ctx, args[0], true)

		case "down":
			if len(args) != 1 {
				printlnFn("Usage: down <n>")
				continue
			}
			_ = a.MoveImage(ctx, args[0], false)

		case "rm":
			if len(args) != 1 {
				printlnFn("Usage: rm <n>")
				continue
			}
			_ = a.RemoveImage(ctx, args[0])

		case "upload":
			_ = a.Upload(ctx)

		case "vehicle":
			_ = a.EditVehicle(ctx)

		case "v", "vehicles":
			_ = a.ListVehicles(ctx)

		case "save":
			_ = a.Save(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
