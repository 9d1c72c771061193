package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/mydrive/internal/client/models"
)

func (a *App) ListGroups(context.Context) error {
	a.printGroups()
	return nil
}

func (a *App) CreateGroup(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter group name", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	g, err := a.groups.Create(ctx, name, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created group %s with ID %d. Share the ID and password to invite members.\n", g.Name, g.ID)
	return nil
}

func (a *App) JoinGroup(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter group ID", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	g, err := a.groups.Join(ctx, id, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Joined group %s\n", g.Name)
	return nil
}

func (a *App) LeaveGroup(ctx context.Context, arg string) error {
	if arg == "" {
		return usage("leave <id>")
	}
	id, err := parseID(arg, "group id")
	if err != nil {
		return err
	}

	msg, err := a.groups.Leave(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

// OpenGroup selects a group and prints its transcript.
func (a *App) OpenGroup(ctx context.Context, arg string) error {
	if arg == "" {
		return usage("open <id>")
	}
	id, err := parseID(arg, "group id")
	if err != nil {
		return err
	}

	if err := a.groups.Select(ctx, id); err != nil {
		return err
	}
	a.printMessages()
	return nil
}

func (a *App) Send(ctx context.Context, text string) error {
	if text == "" {
		return usage("send <text>")
	}
	m, err := a.groups.Send(ctx, text)
	if err != nil {
		return err
	}
	a.printMessage(*m)
	return nil
}

func (a *App) Share(ctx context.Context, arg string) error {
	if arg == "" {
		return usage("share <fileId>")
	}
	id, err := parseID(arg, "file id")
	if err != nil {
		return err
	}

	m, err := a.groups.Share(ctx, id)
	if err != nil {
		return err
	}
	a.printMessage(*m)
	return nil
}

// ShareableFiles lists the user's own files that can be shared.
func (a *App) ShareableFiles(context.Context) error {
	st := a.groups.State()
	fmt.Fprintf(a.out, "Your files (%d)\n", len(st.Files))
	writeFiles(a.out, st.Files, false)
	return nil
}

func (a *App) GetFile(ctx context.Context, arg string) error {
	if arg == "" {
		return usage("getfile <id>")
	}
	id, err := parseID(arg, "file id")
	if err != nil {
		return err
	}

	bar := newProgressBar(a.out, "Downloading", 0)
	path, err := a.groups.Download(ctx, id, bar.report)
	bar.finish()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved to %s\n", path)
	return nil
}

func (a *App) Messages(context.Context) error {
	a.printMessages()
	return nil
}

func (a *App) printGroups() {
	st := a.groups.State()
	fmt.Fprintf(a.out, "Groups (%d)\n", len(st.Groups))
	if st.Err != "" {
		fmt.Fprintln(a.out, "  "+st.Err)
	}
	if len(st.Groups) == 0 {
		fmt.Fprintln(a.out, "  no groups, use 'create' or 'join'")
		return
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, g := range st.Groups {
		fmt.Fprintf(tw, "  %d\t%s\t%s\n", g.ID, g.Name, humanize.Comma(int64(len(g.Usernames)))+" members")
	}
	_ = tw.Flush()
}

func (a *App) printMessages() {
	st := a.groups.State()
	if st.Selected == nil {
		fmt.Fprintln(a.out, "No group selected, use 'open <id>'")
		return
	}

	g := st.Selected
	fmt.Fprintf(a.out, "#%d %s (members: %s)\n", g.ID, g.Name, strings.Join(g.Usernames, ", "))
	if len(st.Messages) == 0 {
		fmt.Fprintln(a.out, "  no messages yet")
		return
	}
	for _, m := range st.Messages {
		a.printMessage(m)
	}
}

func (a *App) printMessage(m models.Message) {
	when := ""
	if !m.Timestamp.IsZero() {
		when = "[" + humanize.Time(m.Timestamp) + "] "
	}

	if m.Type == models.MessageFile {
		fmt.Fprintf(a.out, "  %s%s shared %s (file %s)\n", when, m.SenderUsername, a.groups.FileName(m.Content), m.Content)
		return
	}
	fmt.Fprintf(a.out, "  %s%s: %s\n", when, m.SenderUsername, m.Content)
}
