package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mydrive/internal/client/views"
)

// printlnFn and printFn are test seams for user-facing output. In tests,
// replace them with stubs.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	view() views.View

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Drive(ctx context.Context) error
	Groups(ctx context.Context) error
	Refresh(ctx context.Context) error

	Section(ctx context.Context, name string) error
	ListFiles(ctx context.Context) error
	Upload(ctx context.Context, path string) error
	Download(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Favourite(ctx context.Context, id string) error

	ListGroups(ctx context.Context) error
	CreateGroup(ctx context.Context) error
	JoinGroup(ctx context.Context) error
	LeaveGroup(ctx context.Context, id string) error
	OpenGroup(ctx context.Context, id string) error
	Send(ctx context.Context, text string) error
	Share(ctx context.Context, fileID string) error
	ShareableFiles(ctx context.Context) error
	GetFile(ctx context.Context, id string) error
	Messages(ctx context.Context) error
}

type command func(ctx context.Context, a execIface, arg string) error

func noArg(f func(execIface, context.Context) error) command {
	return func(ctx context.Context, a execIface, _ string) error { return f(a, ctx) }
}

func withArg(f func(execIface, context.Context, string) error) command {
	return func(ctx context.Context, a execIface, arg string) error { return f(a, ctx, arg) }
}

var (
	authCommands = map[string]command{
		"login":    noArg(execIface.Login),
		"register": noArg(execIface.Register),
	}

	sessionCommands = map[string]command{
		"drive":   noArg(execIface.Drive),
		"groups":  noArg(execIface.Groups),
		"logout":  noArg(execIface.Logout),
		"refresh": noArg(execIface.Refresh),
	}

	driveCommands = map[string]command{
		"section":  withArg(execIface.Section),
		"ls":       noArg(execIface.ListFiles),
		"upload":   withArg(execIface.Upload),
		"download": withArg(execIface.Download),
		"delete":   withArg(execIface.Delete),
		"fav":      withArg(execIface.Favourite),
	}

	groupCommands = map[string]command{
		"lsgroups": noArg(execIface.ListGroups),
		"create":   noArg(execIface.CreateGroup),
		"join":     noArg(execIface.JoinGroup),
		"leave":    withArg(execIface.LeaveGroup),
		"open":     withArg(execIface.OpenGroup),
		"send":     withArg(execIface.Send),
		"share":    withArg(execIface.Share),
		"files":    noArg(execIface.ShareableFiles),
		"getfile":  withArg(execIface.GetFile),
		"messages": noArg(execIface.Messages),
	}
)

func commandsFor(v views.View) []map[string]command {
	switch v {
	case views.ViewDrive:
		return []map[string]command{sessionCommands, driveCommands}
	case views.ViewGroups:
		return []map[string]command{sessionCommands, groupCommands}
	default:
		return []map[string]command{authCommands}
	}
}

func lookup(v views.View, name string) (command, bool) {
	for _, set := range commandsFor(v) {
		if c, ok := set[name]; ok {
			return c, true
		}
	}
	return nil, false
}

func helpText(v views.View) string {
	switch v {
	case views.ViewDrive:
		return "Available commands: section <all|recent|favourites|shared>, ls, refresh, " +
			"upload <path>, download <id>, delete <id>, fav <id>, groups, logout, exit"
	case views.ViewGroups:
		return "Available commands: lsgroups, create, join, leave <id>, open <id>, messages, " +
			"send <text>, files, share <fileId>, getfile <id>, refresh, drive, logout, exit"
	default:
		return "Available commands: register, login, exit"
	}
}

// runREPL starts a simple read–eval–print loop for the MyDrive CLI.
//
// It reads a line from reader, parses the first token as the command and
// passes the rest of the line as its argument. The set of commands depends
// on the current view:
//
//	Auth:    login, register
//	Drive:   section, ls, refresh, upload, download, delete, fav
//	Groups:  lsgroups, create, join, leave, open, messages, send, files,
//	         share, getfile, refresh
//
// help, exit and quit work everywhere; drive, groups and logout work while
// logged in. Errors returned by command handlers are printed and the loop
// continues. The loop exits on EOF or when the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printFn(fmt.Sprintf("mydrive %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch name {
		case "help":
			printlnFn(helpText(a.view()))
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		v := a.view()
		cmd, ok := lookup(v, name)
		if !ok {
			if known(name) {
				printlnFn(fmt.Sprintf("Command %q is not available in the %s view", name, v))
			} else {
				printlnFn("Unknown command:", name)
			}
			continue
		}

		if err := cmd(ctx, a, arg); err != nil {
			printlnFn("Error:", err)
		}
	}
}

func known(name string) bool {
	for _, v := range []views.View{views.ViewAuth, views.ViewDrive, views.ViewGroups} {
		if _, ok := lookup(v, name); ok {
			return true
		}
	}
	return false
}
