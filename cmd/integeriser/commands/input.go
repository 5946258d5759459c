package commands

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

const stdinName = "-"

// ErrInputTooLarge is returned for an input larger than store.max_input_size.
var ErrInputTooLarge = errors.New("input exceeds max input size")

// input is one named source read fully into memory.
type input struct {
	name string
	data string
}

// lines iterates the lines of the input without their terminators.
func (in input) lines(yield func(int, string) bool) {
	lineNo := 0

	for line := range strings.Lines(in.data) {
		lineNo++

		if !yield(lineNo, strings.TrimRight(line, "\r\n")) {
			return
		}
	}
}

// readInputs reads every path, or stdin when paths is empty. Each input is
// limited to limit bytes.
func readInputs(cmd *cobra.Command, paths []string, limit uint64) ([]input, error) {
	if len(paths) == 0 {
		paths = []string{stdinName}
	}

	inputs := make([]input, 0, len(paths))

	for _, path := range paths {
		data, err := readInput(cmd, path, limit)
		if err != nil {
			return nil, err
		}

		inputs = append(inputs, input{name: path, data: data})
	}

	return inputs, nil
}

func readInput(cmd *cobra.Command, path string, limit uint64) (string, error) {
	if path == stdinName {
		return readLimited(cmd.InOrStdin(), path, limit)
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	return readLimited(file, path, limit)
}

func readLimited(r io.Reader, name string, limit uint64) (string, error) {
	readCap := int64(math.MaxInt64)
	if limit < math.MaxInt64 {
		readCap = int64(limit) + 1
	}

	data, err := io.ReadAll(io.LimitReader(r, readCap))
	if err != nil {
		return "", fmt.Errorf("read input %s: %w", name, err)
	}

	if uint64(len(data)) > limit {
		return "", fmt.Errorf("%w: %s is larger than %s", ErrInputTooLarge, name, humanize.Bytes(limit))
	}

	return string(data), nil
}
