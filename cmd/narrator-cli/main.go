package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"narrator-cli/internal/features"
	"narrator-cli/internal/logger"
	"narrator-cli/internal/tui"
)

var log = logger.Named("cli")

func main() {
	logger.Configure()
	if logFile, _, err := logger.SetupFile(logger.DefaultLogPath); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to initialize log file: %v\n", err)
	} else {
		defer logFile.Close()
	}
	httpLog := logger.NewHTTPLogger(logger.Named("gateway"))
	if entry, closer, _, err := logger.SetupComponentFile("gateway", logger.DefaultGatewayLogPath); err != nil {
		log.Warnf("failed to initialize gateway log (%s): %v", logger.DefaultGatewayLogPath, err)
	} else {
		httpLog = logger.NewHTTPLogger(entry)
		defer closer.Close()
	}

	root, rest, err := parseRootArgs(os.Args[1:])
	if err != nil {
		exitf("parse args: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if len(rest) > 0 {
		name := rest[0]
		if name == "config" {
			if err := runConfig(root, rest[1:], os.Stdout); err != nil {
				exitf("config: %v", err)
			}
			return
		}
		if cmd, ok := commands[name]; ok {
			a, err := newApp(root, httpLog)
			if err != nil {
				exitf("%v", err)
			}
			if err := cmd(ctx, a, rest[1:], os.Stdout); err != nil {
				log.WithField("command", name).Errorf("command failed: %v", err)
				exitf("%s: %v", name, err)
			}
			return
		}
	}

	runInteractive(ctx, root, rest, httpLog)
}

func runInteractive(ctx context.Context, root rootArgs, args []string, httpLog logger.HTTPLogger) {
	fs := flag.NewFlagSet("narrator-cli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var debug bool
	fs.BoolVar(&debug, "debug", false, "Expose debug-only slash commands such as /boot")
	if err := fs.Parse(args); err != nil {
		exitf("parse args: %v (known subcommands: %s)", err, commandNames())
	}
	if fs.NArg() > 0 {
		exitf("unknown command %q (known subcommands: %s)", fs.Arg(0), commandNames())
	}

	a, err := newApp(root, httpLog)
	if err != nil {
		exitf("%v", err)
	}
	result, err := tui.Run(tui.Options{
		Controller:    a.ctl,
		Markdown:      a.markdown,
		BeginDelay:    a.cfg.BeginDelay(),
		PromptHistory: a.cfg.Feature(features.PromptHistory),
		AltScreen:     a.cfg.Feature(features.AltScreen),
		Debug:         debug,
		ServerURL:     a.client.BaseURL(),
		Context:       ctx,
	})
	if err != nil {
		exitf("program exit: %v", err)
	}
	printExitSummary(os.Stdout, result)
}

func printExitSummary(w io.Writer, result tui.Result) {
	if result.ConversationID == "" {
		return
	}
	title := result.Title
	if title == "" {
		title = result.ConversationID
	}
	fmt.Fprintf(w, "Last game: %s\n", title)
	fmt.Fprintf(w, "To review it, run narrator-cli show %s\n", result.ConversationID)
}

// exitf 同时写日志文件与 stderr，终端用户看不到日志文件。
func exitf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Error(msg)
	fmt.Fprintln(os.Stderr, "narrator-cli: "+msg)
	os.Exit(1)
}
