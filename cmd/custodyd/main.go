package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tendermint/tendermint/libs/log"

	"github.com/easlabs/custody/cmd/custodyd/app"
	"github.com/easlabs/custody/commands/server"
	"github.com/easlabs/custody/errors"
)

// Version is set at build time.
var Version = "dev"

var (
	flagHome     = "home"
	flagLogLevel = "log_level"
	varHome      *string
	varLogLevel  *string
)

func init() {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".custody")
	varHome = flag.String(flagHome, defaultHome, "directory to store files under")
	varLogLevel = flag.String(flagLogLevel, "info", "log level: debug, info, error or none")

	flag.CommandLine.Usage = helpMessage
}

func helpMessage() {
	fmt.Println("custodyd")
	fmt.Println("         Avatar custody vault node")
	fmt.Println("")
	fmt.Println("help     Print this message")
	fmt.Println("init     Initialize app options in genesis file: init [-chain_id ID] <registry owner>")
	fmt.Println("start    Run the abci server: start [-bind ADDR] [-debug]")
	fmt.Println("validate Validate the app state of genesis files: validate <genesis.json>...")
	fmt.Println("keys     Create or show a private key: keys <key file>")
	fmt.Println("exec     Sign and execute a JSON transaction in a new block: exec [-key FILE] <tx.json>")
	fmt.Println("query    Query the committed state: query [-prefix] <path> [key]")
	fmt.Println("version  Print the app version")
	fmt.Println(`
  -home string
        directory to store files under (default "$HOME/.custody")
  -log_level string
        log level: debug, info, error or none (default "info")`)
}

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Println("Missing command:")
		helpMessage()
		os.Exit(1)
	}

	logger, err := newLogger(*varLogLevel)
	if err != nil {
		fmt.Printf("Error: %+v\n\n", err)
		os.Exit(1)
	}

	cmd := flag.Arg(0)
	rest := flag.Args()[1:]

	switch cmd {
	case "help":
		helpMessage()
	case "init":
		err = server.InitCmd(app.GenInitOptions, logger, *varHome, rest)
	case "start":
		err = server.StartCmd(app.GenerateApp, logger, *varHome, rest)
	case "validate":
		err = server.ValidateGenesis(app.Initializers(), rest)
	case "keys":
		err = keysCmd(os.Stdout, rest)
	case "exec":
		err = execCmd(os.Stdout, logger, *varHome, rest)
	case "query":
		err = queryCmd(os.Stdout, logger, *varHome, rest)
	case "version":
		fmt.Println(Version)
	default:
		err = errors.Wrapf(errors.ErrInput, "unknown command: %s", cmd)
	}

	if err != nil {
		fmt.Printf("Error: %+v\n\n", err)
		helpMessage()
		os.Exit(1)
	}
}

func newLogger(level string) (log.Logger, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).
		With("module", "custody")
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, err
	}
	return log.NewFilter(logger, opt), nil
}
