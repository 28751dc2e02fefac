package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vodscribe/internal/deps"
)

func newDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "doctor",
		Short:       "Check external tool availability",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses := deps.CheckBinaries(deps.Requirements())

			rows := make([][]string, 0, len(statuses))
			missing := 0
			for _, status := range statuses {
				state := "ok"
				detail := status.Description
				if !status.Available {
					missing++
					state = "missing"
					if status.Detail != "" {
						detail = status.Detail
					}
				}
				rows = append(rows, []string{status.Name, state, detail})
			}
			table := renderTable([]string{"Tool", "Status", "Detail"}, rows, []columnAlignment{alignLeft, alignLeft, alignLeft})
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, table)
			if missing > 0 {
				fmt.Fprintln(out, "Videos without captions need these tools for the audio fallback.")
			}
			return nil
		},
	}
}
