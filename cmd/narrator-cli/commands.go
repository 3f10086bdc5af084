package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"narrator-cli/internal/config"
	"narrator-cli/internal/controller"
	"narrator-cli/internal/conversation"
	"narrator-cli/internal/stream"
	"narrator-cli/internal/tui/render"

	"github.com/mattn/go-isatty"
)

// command 是一个非交互子命令。
type command func(ctx context.Context, a *app, args []string, out io.Writer) error

var commands = map[string]command{
	"list":   runList,
	"worlds": runWorlds,
	"new":    runNew,
	"seed":   runSeed,
	"delete": runDelete,
	"show":   runShow,
	"say":    runSay,
	"ping":   runPing,
}

func commandNames() string {
	names := []string{"config"}
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func runList(ctx context.Context, a *app, args []string, out io.Writer) error {
	if err := newFlagSet("list").Parse(args); err != nil {
		return err
	}
	items, err := a.ctl.Listings(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(out, "No conversations yet. Run narrator-cli worlds to pick a world.")
		return nil
	}
	active := a.ctl.Session().ActiveConversationID()
	now := time.Now()
	for _, it := range items {
		marker := " "
		if it.ID == active {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %s  %s\n", marker, it.ID, it.Title())
		if details := it.Describe(now); len(details) > 0 {
			fmt.Fprintf(out, "    %s\n", strings.Join(details, " • "))
		}
	}
	return nil
}

func runWorlds(ctx context.Context, a *app, args []string, out io.Writer) error {
	if err := newFlagSet("worlds").Parse(args); err != nil {
		return err
	}
	worlds, err := a.ctl.Worlds(ctx)
	if err != nil {
		return err
	}
	if len(worlds) == 0 {
		fmt.Fprintln(out, "No worlds available.")
		return nil
	}
	for _, w := range worlds {
		fmt.Fprintf(out, "%s  %s\n", w.ID, w.Location)
		if desc := strings.TrimSpace(w.Description); desc != "" {
			fmt.Fprintf(out, "    %s\n", desc)
		}
	}
	return nil
}

func runNew(ctx context.Context, a *app, args []string, out io.Writer) error {
	if err := newFlagSet("new").Parse(args); err != nil {
		return err
	}
	return create(ctx, a, "", out)
}

func runSeed(ctx context.Context, a *app, args []string, out io.Writer) error {
	fs := newFlagSet("seed")
	if err := fs.Parse(args); err != nil {
		return err
	}
	seed := strings.TrimSpace(fs.Arg(0))
	if seed == "" {
		return errors.New("usage: narrator-cli seed <world-id>")
	}
	return create(ctx, a, seed, out)
}

func create(ctx context.Context, a *app, seed string, out io.Writer) error {
	created, err := a.ctl.Create(ctx, seed)
	if err != nil {
		return err
	}
	if err := a.ctl.Activate(created); err != nil {
		return err
	}
	name := created.Name
	if name == "" {
		name = created.ID
	}
	fmt.Fprintf(out, "Created %s (%s). It is now the active game.\n", created.ID, name)
	return nil
}

func runDelete(ctx context.Context, a *app, args []string, out io.Writer) error {
	fs := newFlagSet("delete")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id := strings.TrimSpace(fs.Arg(0))
	if id == "" {
		return errors.New("usage: narrator-cli delete <conversation-id>")
	}
	cleared, err := a.ctl.DeleteConversation(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Deleted %s.\n", id)
	if cleared {
		fmt.Fprintln(out, "It was the active game; run narrator-cli to pick another.")
	}
	return nil
}

// runShow 打印会话全文。不改变当前会话，尚未开局的对象也一并展示。
func runShow(ctx context.Context, a *app, args []string, out io.Writer) error {
	fs := newFlagSet("show")
	width := fs.Int("width", 100, "Wrap width in cells")
	styled := fs.Bool("color", isTerminal(out), "Emit ANSI styles")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id := strings.TrimSpace(fs.Arg(0))
	if id == "" {
		id = a.ctl.Session().ActiveConversationID()
	}
	if id == "" {
		return controller.ErrNoActiveConversation
	}
	conv, err := a.client.GetConversation(ctx, id)
	if err != nil {
		return err
	}
	r := stream.NewRenderer(stream.NewSurface(), a.stream)
	if blurb := strings.TrimSpace(conv.IntroBlurb); blurb != "" {
		r.Render([]conversation.Object{conversation.IntroBlurb(blurb)})
	}
	r.Render(conv.Objects)
	if conv.Name != "" {
		fmt.Fprintf(out, "# %s\n\n", conv.Name)
	}
	return render.NewTranscript(r.Surface(), render.BlockOptions{Markdown: a.markdown}).Print(out, *width, *styled)
}

// runSay 对当前会话推进一轮，只打印这一轮产生的块。
func runSay(ctx context.Context, a *app, args []string, out io.Writer) error {
	fs := newFlagSet("say")
	width := fs.Int("width", 100, "Wrap width in cells")
	styled := fs.Bool("color", isTerminal(out), "Emit ANSI styles")
	if err := fs.Parse(args); err != nil {
		return err
	}
	text := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if text == "" {
		return errors.New("usage: narrator-cli say <text>")
	}
	submitErr := a.ctl.Submit(ctx, text)
	if errors.Is(submitErr, controller.ErrEmptyMessage) || errors.Is(submitErr, controller.ErrBusy) {
		return submitErr
	}
	transcript := render.NewTranscript(a.ctl.Surface(), render.BlockOptions{Markdown: a.markdown})
	if err := transcript.Print(out, *width, *styled); err != nil {
		return err
	}
	return submitErr
}

func runPing(ctx context.Context, a *app, args []string, out io.Writer) error {
	fs := newFlagSet("ping")
	timeout := fs.Duration("timeout", 10*time.Second, "Give up after this long")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}
	start := time.Now()
	items, err := a.client.ListConversations(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "ok: %s (%d conversations, %s)\n", a.client.BaseURL(), len(items), time.Since(start).Round(time.Millisecond))
	return nil
}

// runConfig 处理 config 子命令，不需要连接后端。
func runConfig(root rootArgs, args []string, out io.Writer) error {
	usage := errors.New("usage: narrator-cli config init [--force] | config path")
	if len(args) == 0 {
		return usage
	}
	path := root.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	switch args[0] {
	case "path":
		fmt.Fprintln(out, path)
		return nil
	case "init":
		fs := newFlagSet("config init")
		force := fs.Bool("force", false, "Overwrite an existing file")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if path == "" {
			return errors.New("config path is empty and $HOME is not set")
		}
		if _, err := os.Stat(path); err == nil && !*force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		cfg := config.ApplyKVOverrides(config.Default(), root.overrides)
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := config.Save(path, cfg); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s\n", path)
		return nil
	}
	return usage
}
