package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. *App satisfies it.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) error
	Status(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	Contacts(ctx context.Context) error
	AddContact(ctx context.Context) error
	DeleteContact(ctx context.Context, arg string) error
	Images(ctx context.Context, query string) error
}

// runREPL reads commands from reader until EOF or "exit"/"quit".
//
//	Not logged in: help, register, login, status, exit | quit
//	Logged in:     help, me, status, contacts, addcontact, delcontact <id>,
//	               images <query>, passwd, logout, exit | quit
//
// Command errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("bwa %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, rest := parts[0], strings.Join(parts[1:], " ")

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: me, status, contacts, addcontact, delcontact <id>, images <query>, passwd, logout, exit")
			} else {
				printlnFn("Available commands: register, login, status, exit")
			}
		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "me":
			cmdErr = a.Me(ctx)
		case "status":
			cmdErr = a.Status(ctx)
		case "passwd":
			cmdErr = a.ChangePassword(ctx)
		case "contacts":
			cmdErr = a.Contacts(ctx)
		case "addcontact":
			cmdErr = a.AddContact(ctx)
		case "delcontact":
			if rest == "" {
				printlnFn("Usage: delcontact <id>")
				continue
			}
			cmdErr = a.DeleteContact(ctx, rest)
		case "images":
			if rest == "" {
				printlnFn("Usage: images <query>")
				continue
			}
			cmdErr = a.Images(ctx, rest)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr.Error())
		}
	}
}
