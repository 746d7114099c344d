package cli

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gllmflndn/palm/pkg/shuftree"
)

// shuffleCommand creates the shuffle command for sampling permutations.
func (c *CLI) shuffleCommand() *cobra.Command {
	var src treeSource
	var count int
	var withReplacement bool
	var seed uint64
	var maxPerms int
	var output string

	cmd := &cobra.Command{
		Use:   "shuffle",
		Short: "Sample tree-consistent permutations",
		Long: `Sample permutations of block-structured observations.

The observations and their exchangeability structure come from --n (flat
design), --groups (within-group design) or --blocks (TOML definition file).
With --count 0 every distinct permutation is enumerated; otherwise a Monte
Carlo sample is drawn, without replacement unless --with-replacement is set.
The first row is always the identity permutation.`,
		Example: `  # All 24 permutations of 4 free observations
  palm shuffle --n 4 --count 0

  # 500 unique draws for a twin design, reproducibly
  palm shuffle --groups 1,1,2,2,3,3 --count 500 --seed 42 -o perms.csv

  # Conditional Monte Carlo (duplicates allowed)
  palm shuffle --blocks design.toml --count 1000 --with-replacement -o perms.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := src.build()
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			res, err := shuftree.Sample(tree, shuftree.Options{
				Count:           count,
				WithReplacement: withReplacement,
				MaxPerms:        maxPerms,
				NeedRestore:     true,
				RNG:             shuftree.NewRNG(seed),
				Logger:          c.Logger,
			})
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Sampled %d permutations", len(res.Perms)))

			if err := writePermsCSV(res.Perms, output); err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			if output != "" {
				printSuccess("Permutations generated")
				printKeyValue("Tree", tree.String())
				printKeyValue("N", strconv.Itoa(tree.N()))
				printKeyValue("Max perms", strconv.Itoa(tree.MaxPerms()))
				printKeyValue("Draws", strconv.Itoa(len(res.Perms)))
				printDetail("restore index: %v", res.Restore)
				printFile(output)
			}
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().IntVarP(&count, "count", "c", 0, "number of permutations (0 = all distinct)")
	cmd.Flags().BoolVar(&withReplacement, "with-replacement", false, "allow duplicate draws (conditional Monte Carlo)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed for Monte Carlo draws")
	cmd.Flags().IntVar(&maxPerms, "max", 0, "known number of distinct permutations (0 = compute)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output CSV file (stdout if empty)")

	return cmd
}

// writePermsCSV writes one permutation per row. An empty path writes to stdout.
func writePermsCSV(perms [][]int, path string) error {
	out := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	w := csv.NewWriter(out)
	record := make([]string, 0, 16)
	for _, p := range perms {
		record = record[:0]
		for _, v := range p {
			record = append(record, strconv.Itoa(v))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
