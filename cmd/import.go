package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/caseworks/directory-cli/internal/model"
	"github.com/caseworks/directory-cli/internal/normalize"
	"github.com/caseworks/directory-cli/internal/schedule"
	"github.com/caseworks/directory-cli/internal/store"
)

var importFlags struct {
	file      string
	seedTypes bool
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import resource records into the store",
	Long: `Reads a JSON array of resource records and upserts them by id.
Loosely typed fields (org_hours, client_zip_codes) are normalized on the
way in, so exports from the upstream directory can be loaded as-is.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := store.New(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return err
		}

		if importFlags.seedTypes {
			types, err := loadTypeTable()
			if err != nil {
				return err
			}
			n, err := st.UpsertAssistanceTypes(ctx, types.All())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d assistance types\n", n)
		}

		if importFlags.file == "" {
			if !importFlags.seedTypes {
				return eris.New("import: nothing to do; pass --file or --seed-types")
			}
			return nil
		}

		resources, err := readResourceFile(importFlags.file)
		if err != nil {
			return err
		}

		n, err := st.UpsertResources(ctx, resources)
		if err != nil {
			return err
		}
		zap.L().Info("import: resources upserted",
			zap.String("file", importFlags.file),
			zap.Int64("count", n),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d resources from %s\n", n, importFlags.file)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importFlags.file, "file", "", "JSON file holding an array of resource records")
	importCmd.Flags().BoolVar(&importFlags.seedTypes, "seed-types", false, "also upsert the assistance-type table")
	rootCmd.AddCommand(importCmd)
}

// rawResource tolerates the loosely typed fields upstream exports carry:
// hours as an object or a JSON string, served zips as an array or a
// string-encoded array.
type rawResource struct {
	ID             string   `json:"id"`
	Organization   string   `json:"organization"`
	ParentOrg      string   `json:"parent_org"`
	AssistType     string   `json:"assist_type"`
	Status         string   `json:"status"`
	StatusDate     string   `json:"status_date"`
	StatusNote     string   `json:"status_note"`
	OrgHours       any      `json:"org_hours"`
	Requirements   string   `json:"requirements"`
	ClientZipCodes any      `json:"client_zip_codes"`
	County         string   `json:"county"`
	City           string   `json:"city"`
	Neighborhood   string   `json:"neighborhood"`
	Zip            string   `json:"zip"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	Phone          string   `json:"phone"`
	Website        string   `json:"website"`
	MapLink        string   `json:"map_link"`
}

func readResourceFile(path string) ([]model.Resource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "import: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	var raws []rawResource
	if err := json.NewDecoder(f).Decode(&raws); err != nil {
		return nil, eris.Wrapf(err, "import: decode %s", path)
	}

	out := make([]model.Resource, 0, len(raws))
	for i, raw := range raws {
		if raw.ID == "" {
			zap.L().Warn("import: skipping record without id", zap.Int("index", i))
			continue
		}
		r := model.Resource{
			ID:           raw.ID,
			Organization: raw.Organization,
			ParentOrg:    raw.ParentOrg,
			AssistType:   raw.AssistType,
			Status:       model.Status(raw.Status),
			StatusDate:   raw.StatusDate,
			StatusNote:   raw.StatusNote,
			Hours:        schedule.Parse(raw.OrgHours),
			Requirements: raw.Requirements,
			County:       raw.County,
			City:         raw.City,
			Neighborhood: raw.Neighborhood,
			Zip:          raw.Zip,
			Latitude:     raw.Latitude,
			Longitude:    raw.Longitude,
			Phone:        raw.Phone,
			Website:      raw.Website,
			MapLink:      raw.MapLink,
		}
		normalize.Record(&r, raw.ClientZipCodes)
		out = append(out, r)
	}
	return out, nil
}
