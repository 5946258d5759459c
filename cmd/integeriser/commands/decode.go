package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/integeriser/pkg/integeriser"
)

const (
	decodeCmdUse   = "decode [file...]"
	decodeCmdShort = "Resolve lines of codes back into tokens"
)

// ErrInvalidCode is returned for a field that is not an integer code.
var ErrInvalidCode = errors.New("invalid code")

func buildDecodeCommand(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   decodeCmdUse,
		Short: decodeCmdShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDecode(cmd, args, output)
		},
	}

	cmd.Flags().StringVarP(&output, outputFlag, outputShort, "", outputUsage)

	return cmd
}

func (a *app) runDecode(cmd *cobra.Command, paths []string, output string) error {
	inputs, err := readInputs(cmd, paths, a.cfg.MaxInputBytes())
	if err != nil {
		return err
	}

	dict, err := a.loadDictionary(true)
	if err != nil {
		return err
	}

	return withOutput(cmd, output, func(w io.Writer) error {
		for _, in := range inputs {
			for lineNo, line := range in.lines {
				codes, parseErr := parseCodes(line)
				if parseErr != nil {
					return fmt.Errorf("%s:%d: %w", in.name, lineNo, parseErr)
				}

				tokens, resolveErr := integeriser.Resolve[string](dict.table, codes)
				if resolveErr != nil {
					return fmt.Errorf("%s:%d: %w", in.name, lineNo, resolveErr)
				}

				_, writeErr := fmt.Fprintln(w, strings.Join(tokens, " "))
				if writeErr != nil {
					return fmt.Errorf("write tokens: %w", writeErr)
				}
			}
		}

		return nil
	})
}

func parseCodes(line string) ([]int, error) {
	fields := strings.Fields(line)
	codes := make([]int, len(fields))

	for idx, field := range fields {
		code, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("%w %q", ErrInvalidCode, field)
		}

		codes[idx] = code
	}

	return codes, nil
}
