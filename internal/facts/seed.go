package facts

import (
	"context"
	"errors"
	"os"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/macrofuel/macrofuel-api/internal/model"
)

// seedEntry is one row of a curated seed file.
type seedEntry struct {
	Name       string `yaml:"name"`
	Calories   int    `yaml:"calories"`
	Protein    int    `yaml:"protein"`
	Carbs      int    `yaml:"carbs"`
	Fat        int    `yaml:"fat"`
	UnitWeight int    `yaml:"unit_weight"`
}

type seedFile struct {
	Facts []seedEntry `yaml:"facts"`
}

// SeedFromYAML loads curated entries from a YAML file and inserts the ones
// not already present. Existing rows are left untouched; this path never
// overwrites. Returns the number of rows inserted.
func SeedFromYAML(ctx context.Context, store Store, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, eris.Wrapf(err, "facts: read seed file %s", path)
	}

	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return 0, eris.Wrapf(err, "facts: parse seed file %s", path)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	inserted := make(chan struct{}, len(f.Facts))
	for _, se := range f.Facts {
		if se.Name == "" {
			continue
		}
		g.Go(func() error {
			err := store.Insert(ctx, model.FactEntry{
				Name:       se.Name,
				Calories:   se.Calories,
				Protein:    se.Protein,
				Carbs:      se.Carbs,
				Fat:        se.Fat,
				UnitWeight: se.UnitWeight,
				Provenance: model.ProvenanceCurated,
			})
			if errors.Is(err, ErrDuplicate) {
				return nil
			}
			if err != nil {
				return err
			}
			inserted <- struct{}{}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return len(inserted), eris.Wrap(err, "facts: seed")
	}
	return len(inserted), nil
}
