package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"moviefinder/internal/render"
	"moviefinder/internal/search"
	"moviefinder/internal/shell"
	"moviefinder/internal/tmdb"
)

const titleWidth = 48

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var query, genre, actor, year string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search movies by title, genre, actor, or year",
		Long: `Search the catalog once and print the first page of results.

When several filters are given only one is used: actor first, then genre
(optionally narrowed by year), then year, then title.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := ctx.catalog()
			if err != nil {
				return err
			}
			dispatcher := search.NewDispatcher(catalog)

			criteria := search.NewCriteria(query, genre, actor, year)
			movies, err := dispatcher.Dispatch(cmd.Context(), criteria)
			if err != nil {
				return errors.New(shell.Message(err))
			}

			if jsonOut {
				return writeJSON(cmd, searchOutput{
					Route:   string(criteria.Route()),
					Results: movies,
				})
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			if len(movies) == 0 {
				fmt.Fprintln(out, notice(shell.MessageNoMatches, colorize))
				return nil
			}
			fmt.Fprintln(out, renderTable(movieTable(movies, colorize)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Title text to search for")
	cmd.Flags().StringVarP(&genre, "genre", "g", "", "Genre id, as listed by the genres command")
	cmd.Flags().StringVarP(&actor, "actor", "a", "", "Actor name")
	cmd.Flags().StringVarP(&year, "year", "y", "", "Primary release year")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output results as JSON")
	return cmd
}

type searchOutput struct {
	Route   string       `json:"route"`
	Results []tmdb.Movie `json:"results"`
}

func movieTable(movies []tmdb.Movie, colorize bool) tableView {
	rows := make([][]string, 0, len(movies))
	for _, movie := range movies {
		rows = append(rows, []string{
			strconv.FormatInt(movie.ID, 10),
			movie.Title,
			render.FormatReleaseDate(movie.ReleaseDate),
			render.FormatRating(movie.VoteAverage),
		})
	}
	return tableView{
		Headers:  []string{"ID", "Title", "Released", "Rating"},
		Rows:     rows,
		Aligns:   []columnAlignment{alignRight, alignLeft, alignLeft, alignRight},
		MaxWidth: map[int]int{1: titleWidth},
		Colorize: colorize,
	}
}
