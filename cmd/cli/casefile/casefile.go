// Package casefile inspects case catalogs.
package casefile

import (
	"fmt"

	"github.com/myrjola/casefile/internal/catalog"
	"github.com/myrjola/casefile/internal/errors"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "catalog",
	Title: "Case catalogs",
}

var Validate = &cobra.Command{
	Use:     "validate [file]",
	GroupID: "catalog",
	Short:   "Validate a case catalog",
	Long:    `Loads the case catalog YAML file, or the built-in case without an argument, and reports every problem.`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			c   *catalog.Catalog
			err error
		)
		source := "built-in case"
		if len(args) == 1 {
			source = args[0]
			c, err = catalog.LoadFile(source)
		} else {
			c, err = catalog.Load()
		}
		if err != nil {
			return errors.Wrap(err, "invalid catalog")
		}
		suspects := c.Suspects()
		exchanges := 0
		for _, s := range suspects {
			exchanges += len(s.Exchanges)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(),
			"%s: %q is valid with %d fragments, %d timeline events, %d suspects (%d exchanges), "+
				"%d contradictions, %d assessment questions and %d revelation lines\n",
			source, c.Title, len(c.Fragments), len(c.Timeline), len(suspects), exchanges,
			len(c.Contradictions), len(c.Assessment), len(c.Revelation))
		return nil
	},
}

var Dump = &cobra.Command{
	Use:     "dump",
	GroupID: "catalog",
	Short:   "Print the built-in case catalog",
	Long:    `Prints the YAML of the built-in case, a starting point for a custom catalog.`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if _, err := cmd.OutOrStdout().Write(catalog.Raw()); err != nil {
			return errors.Wrap(err, "write catalog")
		}
		return nil
	},
}
