package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

const (
	lookupCmdUse     = "lookup [--code] [--] <token|code>..."
	lookupCmdShort   = "Print the code of each token, or the token of each code"
	lookupCmdLong    = `Print the code of each token, or with --code the token of each code.
Arguments that start with '-', such as negative codes, must follow "--".`
	lookupCmdExample = `  integeriser lookup this test
  integeriser lookup --code 0 3
  integeriser lookup --code -- -1`
	lookupCodeFlag   = "code"
	lookupCodeUsage  = "arguments are codes to resolve instead of tokens"
	lookupMinArgs    = 1
	absentLabel      = "absent"
)

func buildLookupCommand(a *app) *cobra.Command {
	var byCode bool

	cmd := &cobra.Command{
		Use:     lookupCmdUse,
		Short:   lookupCmdShort,
		Long:    lookupCmdLong,
		Example: lookupCmdExample,
		Args:    cobra.MinimumNArgs(lookupMinArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLookup(cmd, args, byCode)
		},
	}

	cmd.Flags().BoolVar(&byCode, lookupCodeFlag, false, lookupCodeUsage)

	return cmd
}

func (a *app) runLookup(cmd *cobra.Command, args []string, byCode bool) error {
	dict, err := a.loadDictionary(true)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	for _, arg := range args {
		if !byCode {
			code, found := dict.table.FindKey(arg)
			if !found {
				a.absent.Fprintf(out, "%s\t%s\n", arg, absentLabel)

				continue
			}

			fmt.Fprintf(out, "%s\t%d\n", arg, code)

			continue
		}

		code, parseErr := strconv.Atoi(arg)
		if parseErr != nil {
			return fmt.Errorf("%w %q", ErrInvalidCode, arg)
		}

		value, found := dict.table.FindValue(code)
		if !found {
			a.absent.Fprintf(out, "%d\t%s\n", code, absentLabel)

			continue
		}

		fmt.Fprintf(out, "%d\t%s\n", code, value)
	}

	return nil
}
