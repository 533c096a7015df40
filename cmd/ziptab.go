package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/caseworks/directory-cli/internal/model"
	"github.com/caseworks/directory-cli/internal/store"
	"github.com/caseworks/directory-cli/internal/zcta"
)

var ziptabFlags struct {
	csvPath  string
	shpPath  string
	zipField string
}

var ziptabCmd = &cobra.Command{
	Use:   "ziptab",
	Short: "Import zip centroids from a CSV or a Census ZCTA shapefile",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if ziptabFlags.csvPath == "" && ziptabFlags.shpPath == "" {
			return eris.New("ziptab: pass --csv or --shp")
		}
		if ziptabFlags.csvPath != "" && ziptabFlags.shpPath != "" {
			return eris.New("ziptab: --csv and --shp are mutually exclusive")
		}

		var (
			centroids []model.ZipCentroid
			err       error
			source    string
		)
		if ziptabFlags.csvPath != "" {
			source = ziptabFlags.csvPath
			f, err := os.Open(ziptabFlags.csvPath)
			if err != nil {
				return eris.Wrapf(err, "ziptab: open %s", ziptabFlags.csvPath)
			}
			defer f.Close() //nolint:errcheck
			centroids, err = zcta.FromCSV(f)
			if err != nil {
				return err
			}
		} else {
			source = ziptabFlags.shpPath
			centroids, err = zcta.FromShapefile(ziptabFlags.shpPath, ziptabFlags.zipField)
			if err != nil {
				return err
			}
		}
		if len(centroids) == 0 {
			return eris.Errorf("ziptab: no centroids found in %s", source)
		}

		st, err := store.New(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return err
		}

		n, err := st.UpsertZipCentroids(ctx, centroids)
		if err != nil {
			return err
		}
		zap.L().Info("ziptab: centroids upserted",
			zap.String("source", source),
			zap.Int64("count", n),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d zip centroids from %s\n", n, source)
		return nil
	},
}

func init() {
	ziptabCmd.Flags().StringVar(&ziptabFlags.csvPath, "csv", "", "CSV file with zip, latitude, longitude columns")
	ziptabCmd.Flags().StringVar(&ziptabFlags.shpPath, "shp", "", "Census ZCTA shapefile (.shp)")
	ziptabCmd.Flags().StringVar(&ziptabFlags.zipField, "zip-field", zcta.DefaultZipField, "shapefile attribute holding the zip code")
	rootCmd.AddCommand(ziptabCmd)
}
