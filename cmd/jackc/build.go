package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/libklein/nand2tetris/jackc/internal/compiler"
	"github.com/libklein/nand2tetris/jackc/internal/config"
	"github.com/libklein/nand2tetris/jackc/internal/lexer"
)

func removeExtension(filePath string) string {
	extension := filepath.Ext(filePath)
	return filePath[:len(filePath)-len(extension)]
}

func getClassName(filePath string) string {
	return removeExtension(filepath.Base(filePath))
}

func getOutputPath(filePath, extension string) string {
	return removeExtension(filePath) + extension
}

// compileFile compiles one .jack file and writes its VM code, plus the
// structural trace when enabled. Nothing is written for a failed unit.
func compileFile(path string, cfg *config.Config) (outputPath string, err error) {
	handle, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("could not open file %q for reading: %w", path, err)
	}
	defer handle.Close()

	src, err := lexer.New(handle)
	if err != nil {
		return "", err
	}

	unit, err := compiler.Compile(src)
	if err != nil {
		return "", err
	}
	if want := getClassName(path); unit.ClassName != want {
		log.Warningf("class %q is declared in %q, expected class %q", unit.ClassName, path, want)
	}

	outputPath = getOutputPath(path, cfg.Output.Extension)
	if err := os.WriteFile(outputPath, []byte(unit.VM()), 0644); err != nil {
		return outputPath, fmt.Errorf("could not write output file %q: %w", outputPath, err)
	}

	if cfg.Output.Trace {
		tracePath := getOutputPath(path, cfg.Output.TraceExtension)
		if err := os.WriteFile(tracePath, []byte(unit.XML()), 0644); err != nil {
			return outputPath, fmt.Errorf("could not write trace file %q: %w", tracePath, err)
		}
	}

	return outputPath, nil
}

// dumpTokens writes the token stream of path to <name>T.xml.
func dumpTokens(path string) (outputPath string, err error) {
	handle, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("could not open file %q for reading: %w", path, err)
	}
	defer handle.Close()

	src, err := lexer.New(handle)
	if err != nil {
		return "", err
	}

	outputPath = removeExtension(path) + "T.xml"
	output, err := os.Create(outputPath)
	if err != nil {
		return outputPath, fmt.Errorf("could not open output file %q for writing: %w", outputPath, err)
	}
	defer output.Close()

	return outputPath, lexer.DumpXML(output, src)
}

// collectFiles expands directories (non recursively) into the .jack files
// they contain. Plain file arguments are taken as given.
func collectFiles(fileOrDirs ...string) (files []string, err error) {
	for _, fileOrDir := range fileOrDirs {
		stat, err := os.Stat(fileOrDir)
		if err != nil {
			return nil, fmt.Errorf("cannot stat file/dir %q: %w", fileOrDir, err)
		}

		if !stat.IsDir() {
			files = append(files, fileOrDir)
			continue
		}

		dirEntries, err := os.ReadDir(fileOrDir)
		if err != nil {
			return nil, fmt.Errorf("could not open directory %q: %w", fileOrDir, err)
		}
		for _, entry := range dirEntries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != ".jack" {
				continue
			}
			files = append(files, filepath.Join(fileOrDir, entry.Name()))
		}
	}
	return files, nil
}

// ErrNotJack is the failure recorded for an input without a .jack extension.
var ErrNotJack = errors.New("not a .jack file")

// Failure is a file that did not compile.
type Failure struct {
	Path string
	Err  error
}

// build compiles every file with at most cfg.JobLimit() files in flight.
// Each file gets its own lexer and translator. Failures are collected
// rather than cancelling the other files.
func build(files []string, cfg *config.Config, tokensOnly bool) []Failure {
	var (
		mu       sync.Mutex
		failures []Failure
	)

	g := new(errgroup.Group)
	g.SetLimit(cfg.JobLimit())

	for _, file := range files {
		// Directory scans only yield .jack files, so anything else was
		// named on the command line.
		if filepath.Ext(file) != ".jack" {
			log.Warningf("not a .jack file: %q", file)
			mu.Lock()
			failures = append(failures, Failure{Path: file, Err: ErrNotJack})
			mu.Unlock()
			continue
		}
		file := file // per-iteration copy for the goroutine (pre-Go 1.22 loop semantics)
		g.Go(func() error {
			log.Infof("compiling file %q", file)

			var (
				outputPath string
				err        error
			)
			if tokensOnly {
				outputPath, err = dumpTokens(file)
			} else {
				outputPath, err = compileFile(file, cfg)
			}

			if err != nil {
				log.Errorf("failed to compile %q: %s", file, err)
				mu.Lock()
				failures = append(failures, Failure{Path: file, Err: err})
				mu.Unlock()
				return nil
			}
			log.Infof("saved as %q", outputPath)
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(failures, func(i, j int) bool {
		return failures[i].Path < failures[j].Path
	})
	return failures
}

func formatFailure(f Failure) string {
	return fmt.Sprintf("%s: %s", f.Path, f.Err)
}
