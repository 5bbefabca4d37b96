package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"moviefinder/internal/shell"
	"moviefinder/internal/tmdb"
)

func newGenresCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "genres",
		Short: "List the catalog's movie genres",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := ctx.catalog()
			if err != nil {
				return err
			}
			genres, err := catalog.ListGenres(cmd.Context())
			if err != nil {
				return errors.New(shell.GenresMessage(err))
			}
			if jsonOut {
				return writeJSON(cmd, struct {
					Genres []tmdb.Genre `json:"genres"`
				}{Genres: genres})
			}

			out := cmd.OutOrStdout()
			if len(genres) == 0 {
				fmt.Fprintln(out, "No genres available")
				return nil
			}
			rows := make([][]string, 0, len(genres))
			for _, genre := range genres {
				rows = append(rows, []string{strconv.FormatInt(genre.ID, 10), genre.Name})
			}
			fmt.Fprintln(out, renderTable(tableView{
				Headers:  []string{"ID", "Name"},
				Rows:     rows,
				Aligns:   []columnAlignment{alignRight, alignLeft},
				Colorize: shouldColorize(out),
			}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output genres as JSON")
	return cmd
}
