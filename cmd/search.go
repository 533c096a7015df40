package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/caseworks/directory-cli/internal/distance"
	"github.com/caseworks/directory-cli/internal/export"
	"github.com/caseworks/directory-cli/internal/match"
	"github.com/caseworks/directory-cli/internal/model"
	"github.com/caseworks/directory-cli/internal/schedule"
)

var searchFlags struct {
	types        []string
	zips         []string
	statuses     []string
	county       string
	city         string
	neighborhood string
	org          string
	days         []string
	timeSpec     string
	keywords     []string
	maxMiles     float64
	refZip       string
	refAddress   string
	query        string
	xlsxPath     string
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Filter and rank directory resources",
	Long: `Runs one search against the loaded directory and prints the ranked
results. Filters come from flags, or from --query, which asks Claude to
translate a free-text request into filters first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		req, err := buildFilterRequest()
		if err != nil {
			return err
		}

		address := searchFlags.refAddress
		if searchFlags.query != "" {
			if env.Session == nil {
				return eris.New("search: --query requires an Anthropic API key")
			}
			res, stale, err := env.Session.Translate(ctx, searchFlags.query, env.translateContext())
			if err != nil {
				return eris.Wrap(err, "search: translate query")
			}
			if stale {
				return eris.New("search: translation superseded")
			}
			req = res.Filters
			if res.GeocodeAddress != "" && address == "" {
				address = res.GeocodeAddress
			}
			if res.Interpretation != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Interpreted as: %s\n\n", res.Interpretation)
			}
		}

		ref := model.ReferenceContext{}
		if address != "" && env.Geocoder != nil {
			res, err := env.Geocoder.Geocode(ctx, address)
			if err != nil {
				zap.L().Warn("search: geocode failed", zap.String("address", address), zap.Error(err))
			} else {
				ref.Point = &model.ReferencePoint{
					Latitude:  res.Latitude,
					Longitude: res.Longitude,
					Source:    model.RefSourceAddress,
					Label:     res.FormattedAddress,
				}
			}
		}
		if ref.Point == nil && searchFlags.refZip != "" {
			ref.Point = env.Snapshot.Reference(searchFlags.refZip)
			if ref.Point == nil {
				zap.L().Warn("search: unknown reference zip", zap.String("zip", searchFlags.refZip))
			}
		}
		if ref.Point != nil && ref.Point.Source == model.RefSourceAddress && env.Router != nil {
			ref.RoutedMiles = distance.RoutedTable(ctx, env.Router, *ref.Point, env.Snapshot.Resources)
		}

		result := match.Match(env.Snapshot.Resources, req, ref)

		if searchFlags.xlsxPath != "" {
			f, err := os.Create(searchFlags.xlsxPath)
			if err != nil {
				return eris.Wrapf(err, "search: create %s", searchFlags.xlsxPath)
			}
			defer f.Close() //nolint:errcheck
			if err := export.WriteXLSX(f, result, env.Types); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d results to %s\n", len(result.Results), searchFlags.xlsxPath)
			return nil
		}

		printResults(cmd, result, env)
		return nil
	},
}

func init() {
	f := searchCmd.Flags()
	f.StringSliceVar(&searchFlags.types, "type", nil, "assistance type codes")
	f.StringSliceVar(&searchFlags.zips, "zip-served", nil, "client zip codes that must be served")
	f.StringSliceVar(&searchFlags.statuses, "status", nil, "statuses (active, limited, inactive)")
	f.StringVar(&searchFlags.county, "county", "", "county filter")
	f.StringVar(&searchFlags.city, "city", "", "city filter")
	f.StringVar(&searchFlags.neighborhood, "neighborhood", "", "neighborhood filter")
	f.StringVar(&searchFlags.org, "org", "", "organization name filter")
	f.StringSliceVar(&searchFlags.days, "day", nil, "open-day filter (Mo, Tu, ... or full names)")
	f.StringVar(&searchFlags.timeSpec, "time", "", "time filter: morning|afternoon|evening|before=HH:MM|after=HH:MM|between=HH:MM-HH:MM")
	f.StringSliceVar(&searchFlags.keywords, "keyword", nil, "keywords matched against requirements and status notes")
	f.Float64Var(&searchFlags.maxMiles, "max-miles", 0, "maximum distance in miles (requires --zip or --address)")
	f.StringVar(&searchFlags.refZip, "zip", "", "reference zip code for distance")
	f.StringVar(&searchFlags.refAddress, "address", "", "reference street address for distance (geocoded)")
	f.StringVar(&searchFlags.query, "query", "", "free-text query translated into filters")
	f.StringVar(&searchFlags.xlsxPath, "xlsx", "", "write results to an XLSX file instead of stdout")
	rootCmd.AddCommand(searchCmd)
}

func buildFilterRequest() (model.FilterRequest, error) {
	req := model.FilterRequest{
		AssistanceTypes: searchFlags.types,
		Zips:            searchFlags.zips,
		Statuses:        searchFlags.statuses,
		County:          searchFlags.county,
		City:            searchFlags.city,
		Neighborhood:    searchFlags.neighborhood,
		Organization:    searchFlags.org,
		Days:            searchFlags.days,
		Keywords:        searchFlags.keywords,
	}
	if searchFlags.maxMiles > 0 {
		m := searchFlags.maxMiles
		req.MaxMiles = &m
	}
	if searchFlags.timeSpec != "" {
		tf, err := parseTimeFlag(searchFlags.timeSpec)
		if err != nil {
			return req, err
		}
		req.Time = tf
	}
	return req, nil
}

func parseTimeFlag(spec string) (*model.TimeFilter, error) {
	switch spec {
	case "morning":
		return &model.TimeFilter{Type: model.TimeMorning}, nil
	case "afternoon":
		return &model.TimeFilter{Type: model.TimeAfternoon}, nil
	case "evening":
		return &model.TimeFilter{Type: model.TimeEvening}, nil
	}

	kind, val, ok := strings.Cut(spec, "=")
	if !ok {
		return nil, eris.Errorf("search: unrecognized time filter %q", spec)
	}
	switch kind {
	case "before", "after":
		if _, ok := schedule.Minutes(val); !ok {
			return nil, eris.Errorf("search: bad clock value %q", val)
		}
		t := model.TimeBefore
		if kind == "after" {
			t = model.TimeAfter
		}
		return &model.TimeFilter{Type: t, Start: val}, nil
	case "between":
		from, to, ok := strings.Cut(val, "-")
		if !ok {
			return nil, eris.Errorf("search: between wants HH:MM-HH:MM, got %q", val)
		}
		if _, ok := schedule.Minutes(from); !ok {
			return nil, eris.Errorf("search: bad clock value %q", from)
		}
		if _, ok := schedule.Minutes(to); !ok {
			return nil, eris.Errorf("search: bad clock value %q", to)
		}
		return &model.TimeFilter{Type: model.TimeBetween, Start: from, End: to}, nil
	}
	return nil, eris.Errorf("search: unrecognized time filter %q", spec)
}

func printResults(cmd *cobra.Command, result model.MatchResult, env *appEnv) {
	out := cmd.OutOrStdout()

	if len(result.Results) == 0 {
		fmt.Fprintln(out, "No matching resources.")
		for _, s := range result.Suggestions {
			fmt.Fprintf(out, "  - %s\n", s.Message)
		}
		return
	}

	unit := "mi"
	if result.UsedDrivingDistance {
		unit = "mi (driving)"
	}

	fmt.Fprintf(out, "%d matching resources\n\n", len(result.Results))
	for _, r := range result.Results {
		name := r.Organization
		if r.ParentOrg != "" && r.ParentOrg != r.Organization {
			name = fmt.Sprintf("%s (%s)", r.Organization, r.ParentOrg)
		}
		typeName := env.Types.Get(r.AssistType).Name
		fmt.Fprintf(out, "%s [%s, %s]\n", name, typeName, r.Status)
		if r.Distance != nil {
			fmt.Fprintf(out, "  %.1f %s\n", *r.Distance, unit)
		}
		fmt.Fprintf(out, "  %s\n", schedule.FormatWeekly(r.Hours))
		if loc := locationLine(r); loc != "" {
			fmt.Fprintf(out, "  %s\n", loc)
		}
		if r.Phone != "" {
			fmt.Fprintf(out, "  %s\n", r.Phone)
		}
		fmt.Fprintln(out)
	}
}

func locationLine(r model.Resource) string {
	var parts []string
	for _, p := range []string{r.Neighborhood, r.City, r.County, r.Zip} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
