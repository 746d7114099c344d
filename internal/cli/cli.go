// Package cli implements the palm command-line interface.
//
// This package provides commands for sampling tree-consistent permutations
// of block-structured observations and for inspecting the permutation tree
// itself. The CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - shuffle: Sample permutations (exhaustive or Monte Carlo) and write them as CSV
//   - tree: Print a permutation tree and optionally render it as DOT or SVG
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Advisory
// warnings from the sampling engine are surfaced through the same logger.
package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/gllmflndn/palm/pkg/blocks"
	"github.com/gllmflndn/palm/pkg/buildinfo"
	"github.com/gllmflndn/palm/pkg/shuftree"
)

// appName is the application name used for display.
const appName = "palm"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Palm samples block-constrained permutations for hypothesis testing",
		Long:         `Palm generates valid rearrangements of block-structured observations for permutation-based statistical hypothesis testing, honoring which groups may be reordered and at which nesting level.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.shuffleCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// treeSource holds the mutually exclusive flags that describe where the
// permutation tree comes from.
type treeSource struct {
	n      int
	groups string
	file   string
}

func (s *treeSource) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&s.n, "n", 0, "flat design: n freely exchangeable observations")
	cmd.Flags().StringVar(&s.groups, "groups", "", "within-group design: comma-separated group label per observation (e.g. 1,1,2,2)")
	cmd.Flags().StringVar(&s.file, "blocks", "", "TOML block-definition file")
	cmd.MarkFlagsMutuallyExclusive("n", "groups", "blocks")
	cmd.MarkFlagsOneRequired("n", "groups", "blocks")
}

func (s *treeSource) build() (*shuftree.Tree, error) {
	switch {
	case s.file != "":
		return blocks.Load(s.file)
	case s.groups != "":
		labels, err := parseGroups(s.groups)
		if err != nil {
			return nil, err
		}
		return blocks.FromGroups(labels)
	default:
		return blocks.Flat(s.n)
	}
}

// parseGroups parses a group vector like "1,1,2,2" into group labels.
func parseGroups(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		g, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, &parseError{field: "groups", value: p}
		}
		out[i] = g
	}
	return out, nil
}

type parseError struct {
	field string
	value string
}

func (e *parseError) Error() string {
	return "invalid " + e.field + " entry " + strconv.Quote(e.value)
}
