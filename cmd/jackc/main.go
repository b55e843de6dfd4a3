// Command jackc compiles Jack classes into Hack VM code.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"
	"github.com/tliron/commonlog/simple"
	"github.com/tliron/kutil/util"

	"github.com/libklein/nand2tetris/jackc/internal/config"
)

var log = commonlog.GetLogger("jackc")

func main() {
	util.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := flag.NewFlagSet("jackc", flag.ContinueOnError)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "usage: jackc [flags] <file.jack|dir>...\n")
		flags.PrintDefaults()
	}

	var (
		dir        = flags.String("d", "", ".jack file to compile or directory containing .jack files")
		configPath = flags.String("config", "", "path to "+config.FileName+" (default: search upwards from the working directory)")
		trace      = flags.Bool("trace", false, "also write the structural trace next to each output")
		tokens     = flags.Bool("tokens", false, "only dump the token stream of each file as <name>T.xml")
		jobs       = flags.Int("j", -1, "number of files compiled concurrently (0: one per CPU)")
		verbosity  = flags.Int("v", -1, "log verbosity")
		logFile    = flags.String("log", "", "log to this file instead of stderr")
	)
	if err := flags.Parse(args); err != nil {
		return 2
	}

	inputs := flags.Args()
	if *dir != "" {
		inputs = append([]string{*dir}, inputs...)
	}
	if len(inputs) == 0 {
		flags.Usage()
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *trace {
		cfg.Output.Trace = true
	}
	if *jobs >= 0 {
		cfg.Build.Jobs = *jobs
	}
	if *verbosity >= 0 {
		cfg.Log.Verbosity = *verbosity
	}
	if *logFile != "" {
		cfg.Log.File = *logFile
	}

	var logPath *string
	if cfg.Log.File != "" {
		logPath = &cfg.Log.File
	}
	configureLog(cfg.Log.Verbosity, logPath)
	if cfg.Path != "" {
		log.Infof("using configuration %q", cfg.Path)
	}

	files, err := collectFiles(inputs...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	failures := build(files, cfg, *tokens)
	for _, f := range failures {
		fmt.Fprintln(os.Stderr, formatFailure(f))
	}
	if len(failures) > 0 {
		return 1
	}
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return config.FindAndLoad(wd)
}

// configureLog installs an unbuffered backend: messages are written as they
// are logged rather than when the process exits.
func configureLog(verbosity int, path *string) {
	backend := simple.NewBackend()
	backend.Buffered = false
	commonlog.SetBackend(backend)
	commonlog.Configure(verbosity, path)
}
