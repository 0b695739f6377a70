package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	flagOutput  string
	flagVerbose bool
	flagTrace   string
)

func main() {
	root := &cobra.Command{
		Use:   "sicasm",
		Short: "SIC/XE assembler",
	}
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&flagTrace, "trace", "", "write a debug trace to this file (requires -v)")

	assembleCmd := &cobra.Command{
		Use:   "assemble <source-file>",
		Short: "assemble a source file into relocatable object-program text",
		Args:  cobra.ExactArgs(1),
		RunE:  runAssemble,
	}
	assembleCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output file (default: stdout)")

	optimizeCmd := &cobra.Command{
		Use:   "optimize <object-file>",
		Short: "repack an existing object program into maximally coalesced records",
		Args:  cobra.ExactArgs(1),
		RunE:  runOptimize,
	}
	optimizeCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output file (default: stdout)")

	dirCmd := &cobra.Command{
		Use:   "dir <directory>",
		Short: "assemble every source file in a directory, concatenated in lexical order",
		Args:  cobra.ExactArgs(1),
		RunE:  runDir,
	}
	dirCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output file (default: stdout)")

	parallelCmd := &cobra.Command{
		Use:   "parallel <source-file>",
		Short: "assemble a source file using the concurrent per-section pipeline",
		Args:  cobra.ExactArgs(1),
		RunE:  runParallel,
	}
	parallelCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output file (default: stdout)")

	root.AddCommand(assembleCmd, optimizeCmd, dirCmd, parallelCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runAssemble(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger(flagVerbose, flagTrace)
	if err != nil {
		return err
	}
	defer closeLog()

	src, err := os.ReadFile(args[0])
	if err != nil {
		return errors.Wrapf(err, "reading %s", args[0])
	}

	logger.Debug("assembling", "file", args[0])
	out, err := assemble(string(src))
	if err != nil {
		return err
	}

	return writeOutput(out)
}

func runOptimize(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger(flagVerbose, flagTrace)
	if err != nil {
		return err
	}
	defer closeLog()

	src, err := os.ReadFile(args[0])
	if err != nil {
		return errors.Wrapf(err, "reading %s", args[0])
	}

	logger.Debug("optimizing", "file", args[0])
	out, err := optimize(string(src))
	if err != nil {
		return err
	}

	return writeOutput(out)
}

/* runDir assembles every non-directory file in a directory as one
   combined source, concatenated in lexical filename order so the
   result is reproducible regardless of the directory's own on-disk
   ordering. */
func runDir(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger(flagVerbose, flagTrace)
	if err != nil {
		return err
	}
	defer closeLog()

	entries, err := os.ReadDir(args[0])
	if err != nil {
		return errors.Wrapf(err, "reading directory %s", args[0])
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var combined string
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(args[0], name))
		if err != nil {
			return errors.Wrapf(err, "reading %s", name)
		}
		logger.Debug("including", "file", name)
		if combined != "" {
			combined += "\n"
		}
		combined += string(data)
	}

	out, err := assemble(combined)
	if err != nil {
		return err
	}

	return writeOutput(out)
}

func runParallel(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger(flagVerbose, flagTrace)
	if err != nil {
		return err
	}
	defer closeLog()

	src, err := os.ReadFile(args[0])
	if err != nil {
		return errors.Wrapf(err, "reading %s", args[0])
	}

	logger.Debug("assembling in parallel", "file", args[0])
	out, err := assembleParallel(context.Background(), string(src))
	if err != nil {
		return err
	}

	return writeOutput(out)
}

func writeOutput(text string) error {
	if flagOutput == "" {
		fmt.Println(text)
		return nil
	}
	return os.WriteFile(flagOutput, []byte(text+"\n"), 0o644)
}
