package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// treeCommand creates the tree command for inspecting permutation trees.
func (c *CLI) treeCommand() *cobra.Command {
	var src treeSource
	var output string
	var labels string

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Inspect a permutation tree",
		Long: `Build a permutation tree and print its structure and permutation count.

Free branch points are shown in curly braces, fixed branch points in square
brackets. With -o the tree is written as Graphviz DOT (.dot) or rendered to
SVG (.svg).`,
		Example: `  # Structure and count for a paired design
  palm tree --groups 1,1,2,2

  # Render a block definition
  palm tree --blocks design.toml --labels sub1,sub2,sub3,sub4 -o tree.svg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := src.build()
			if err != nil {
				return err
			}

			var labelList []string
			if labels != "" {
				labelList = strings.Split(labels, ",")
			}

			if output != "" {
				var data []byte
				if strings.HasSuffix(output, ".svg") {
					data, err = tree.RenderSVG(labelList)
					if err != nil {
						return fmt.Errorf("render: %w", err)
					}
				} else {
					data = []byte(tree.ToDOT(labelList))
				}
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
			}

			printSuccess("Permutation tree built")
			printKeyValue("Tree", tree.String())
			printKeyValue("N", strconv.Itoa(tree.N()))
			printKeyValue("Max perms", strconv.Itoa(tree.MaxPerms()))
			if output != "" {
				printFile(output)
			}
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.dot or .svg)")
	cmd.Flags().StringVar(&labels, "labels", "", "comma-separated observation labels")

	return cmd
}
