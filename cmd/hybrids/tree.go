package main

import (
	"os"

	"github.com/spf13/cobra"
)

func treeCmd(opts *globalOptions) *cobra.Command {
	var after bool

	cmd := &cobra.Command{
		Use:   "tree <scenario.yaml>",
		Short: "Print the mounted tree with resolved parent links",
		Long: `Print the tree of a scenario file with the resolved parent link of
every element.

By default the tree is printed right after mounting. With --after the
steps run first.

Examples:
  hybrids tree testdata/fragment.yaml
  hybrids tree --after testdata/fragment.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(opts, os.Stderr)
			if err != nil {
				return err
			}
			s, err := e.session(args[0])
			if err != nil {
				return err
			}
			if after {
				if _, err := s.Run(); err != nil {
					return err
				}
			}
			return s.WriteTree(cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVarP(&after, "after", "a", false, "Run the steps before printing")

	return cmd
}
