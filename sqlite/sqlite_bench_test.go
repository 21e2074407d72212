package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/fwojciec/antmaster"
	"github.com/fwojciec/antmaster/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkFindAllSpecies measures the per-query catalog snapshot read.
func BenchmarkFindAllSpecies(b *testing.B) {
	for _, size := range []int{100, 1000, 5000} {
		b.Run(fmt.Sprintf("species_%d", size), func(b *testing.B) {
			db := sqlite.NewDB(filepath.Join(b.TempDir(), "bench.db"))
			require.NoError(b, db.Open())
			defer db.Close()

			ctx := context.Background()
			svc := sqlite.NewSpeciesService(db)
			for i := range size {
				require.NoError(b, svc.CreateSpecies(ctx, &antmaster.Species{
					ScientificName: fmt.Sprintf("Genus%d species%d", i%50, i),
					ImageURL:       fmt.Sprintf("https://img.example.com/%d.jpg", i),
				}))
			}

			b.ResetTimer()
			for b.Loop() {
				if _, err := svc.FindAllSpecies(ctx); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
