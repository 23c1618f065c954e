package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/cmd/barterd/app"
	"github.com/iov-one/barter/commands"
	"github.com/iov-one/barter/commands/server"
	"github.com/tendermint/tendermint/libs/log"
)

type command struct {
	usage string
	run   func(logger log.Logger, home string, args []string) error
}

var cmds = map[string]command{
	"init": {
		usage: "Add the app state to the tendermint genesis file",
		run: func(logger log.Logger, home string, args []string) error {
			return server.InitCmd(app.GenInitOptions, logger, home, args)
		},
	},
	"start": {
		usage: "Run the ABCI server",
		run: func(logger log.Logger, home string, args []string) error {
			return server.StartCmd(app.GenerateApp, logger, home, args)
		},
	},
	"testgen": {
		usage: "Write example encodings to a directory",
		run: func(_ log.Logger, _ string, args []string) error {
			return commands.TestGenCmd(app.Examples(), args)
		},
	},
	"validate": {
		usage: "Check that genesis files can be loaded",
		run: func(_ log.Logger, _ string, args []string) error {
			return server.ValidateGenesis(app.Initializers(), args)
		},
	},
	"version": {
		usage: "Print the version",
		run: func(log.Logger, string, []string) error {
			fmt.Println(barter.Version())
			return nil
		},
	},
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "barterd: escrow token swap node\n\nUsage: barterd [flags] <command> [args]\n\nCommands:\n")
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %-10s %s\n", name, cmds[name].usage)
	}
	fmt.Fprintf(out, "\nFlags:\n")
	flag.PrintDefaults()
}

func main() {
	home := flag.String("home", filepath.Join(os.ExpandEnv("$HOME"), ".barterd"), "Directory holding the node data.")
	logLevel := flag.String("log_level", "info", "Lowest level logged: debug, info, error or none.")
	flag.Usage = usage
	flag.Parse()

	if flag.Arg(0) == "help" {
		usage()
		return
	}
	cmd, ok := cmds[flag.Arg(0)]
	if !ok {
		if flag.NArg() > 0 {
			fmt.Fprintf(os.Stderr, "unknown command %q\n\n", flag.Arg(0))
		}
		usage()
		os.Exit(2)
	}

	level, err := log.AllowLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log level: %s\n", err)
		os.Exit(2)
	}
	logger := log.NewFilter(log.NewTMLogger(log.NewSyncWriter(os.Stdout)), level).With("module", "barter")

	if err := cmd.run(logger, *home, flag.Args()[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}
