package commands

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/integeriser/pkg/integeriser"
)

const (
	encodeCmdUse     = "encode [file...]"
	encodeCmdShort   = "Intern tokens and print one line of codes per input line"
	encodeLinesFlag  = "lines"
	encodeLinesUsage = "treat each whole line as a single token"
	outputFlag       = "output"
	outputShort      = "o"
	outputUsage      = "write to this file instead of stdout"
	outputFilePerm   = 0o644
)

type encodeOptions struct {
	lines  bool
	output string
}

func buildEncodeCommand(a *app) *cobra.Command {
	var opts encodeOptions

	cmd := &cobra.Command{
		Use:   encodeCmdUse,
		Short: encodeCmdShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEncode(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.lines, encodeLinesFlag, false, encodeLinesUsage)
	cmd.Flags().StringVarP(&opts.output, outputFlag, outputShort, "", outputUsage)

	return cmd
}

func (a *app) runEncode(cmd *cobra.Command, paths []string, opts encodeOptions) error {
	inputs, err := readInputs(cmd, paths, a.cfg.MaxInputBytes())
	if err != nil {
		return err
	}

	dict, err := a.loadDictionary(false)
	if err != nil {
		return err
	}

	tokens := 0

	err = withOutput(cmd, opts.output, func(w io.Writer) error {
		for _, in := range inputs {
			for _, line := range in.lines {
				codes := integeriser.IntegeriseAll[string](dict.table, slices.Values(tokenize(line, opts.lines)))
				tokens += len(codes)

				_, writeErr := fmt.Fprintln(w, joinCodes(codes))
				if writeErr != nil {
					return fmt.Errorf("write codes: %w", writeErr)
				}
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	a.logger.DebugContext(a.ctx, "inputs encoded",
		slog.Int("inputs", len(inputs)),
		slog.Int("tokens", tokens),
	)

	return a.saveDictionary(dict)
}

func tokenize(line string, wholeLine bool) []string {
	if wholeLine {
		return []string{line}
	}

	return strings.Fields(line)
}

func joinCodes(codes []int) string {
	var sb strings.Builder

	for idx, code := range codes {
		if idx > 0 {
			sb.WriteByte(' ')
		}

		sb.WriteString(strconv.Itoa(code))
	}

	return sb.String()
}

// withOutput hands fn a buffered writer on path, or on the command output
// when path is empty, and flushes it afterwards.
func withOutput(cmd *cobra.Command, path string, fn func(io.Writer) error) (err error) {
	var target io.Writer = cmd.OutOrStdout()

	if path != "" {
		file, createErr := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputFilePerm)
		if createErr != nil {
			return fmt.Errorf("create output: %w", createErr)
		}

		defer func() {
			closeErr := file.Close()
			if err == nil && closeErr != nil {
				err = fmt.Errorf("close output: %w", closeErr)
			}
		}()

		target = file
	}

	buffered := bufio.NewWriter(target)

	err = fn(buffered)
	if err != nil {
		return err
	}

	flushErr := buffered.Flush()
	if flushErr != nil {
		return fmt.Errorf("flush output: %w", flushErr)
	}

	return nil
}
