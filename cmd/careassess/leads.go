package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-careassess/pkg/config"
	"github.com/goliatone/go-careassess/pkg/lead"
)

var leadsLimit int

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Inspect captured leads",
}

var leadsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the most recent leads",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Leads.Repository == config.RepositoryMemory {
			return fmt.Errorf("leads list needs a persistent repository (sqlite or postgres)")
		}
		repo, closeRepo, err := openRepository(cmd.Context(), cfg.Leads)
		if err != nil {
			return err
		}
		defer closeRepo()

		leads, err := repo.List(cmd.Context(), leadsLimit)
		if err != nil {
			return err
		}
		return printLeads(cmd.OutOrStdout(), leads)
	},
}

func init() {
	leadsListCmd.Flags().IntVarP(&leadsLimit, "limit", "n", 20, "maximum number of leads")
	leadsCmd.AddCommand(leadsListCmd)
}

func printLeads(out io.Writer, leads []lead.Lead) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CREATED\tID\tNAME\tPHONE\tRECOMMENDATION\tSCORE\tSOURCE")
	for _, l := range leads {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			l.CreatedAt.Format("2006-01-02 15:04"),
			l.ID,
			l.Contact.Name,
			l.Contact.Phone,
			l.Recommendation.Type,
			l.MemoryCareScore,
			l.Source,
		)
	}
	return tw.Flush()
}
