package services

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"tower-anomaly-api/models"
)

// BandRow is one tower-provider association joined with the tower's band
// count. Band counts belong to the tower as a whole, so every provider at a
// tower sees the same count.
type BandRow struct {
	TowerID       int
	ProviderID    int
	ProviderName  *string
	EndcAvailable bool
	BandCount     int
}

// BandService computes the band-distribution metric: how many towers carry
// how many bands, per provider and overall, cross-tabulated with EN-DC
// availability.
type BandService struct {
	db *gorm.DB
}

func NewBandService(db *gorm.DB) *BandService {
	return &BandService{db: db}
}

// Distribution loads all tower-provider associations in one bulk query and
// aggregates them in memory.
func (s *BandService) Distribution(ctx context.Context) (*models.BandDistributionMetric, error) {
	var rows []BandRow
	err := s.db.WithContext(ctx).Raw(`
		SELECT
			tp.tower_id,
			tp.provider_id,
			p.name AS provider_name,
			tp.endc_available,
			COALESCE(b.band_count, 0) AS band_count
		FROM tower_providers tp
		LEFT JOIN providers p ON p.id = tp.provider_id
		LEFT JOIN (
			SELECT tower_id, COUNT(*) AS band_count
			FROM tower_bands
			GROUP BY tower_id
		) b ON b.tower_id = tp.tower_id
	`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query tower-provider bands: %w", err)
	}
	return BuildBandDistribution(rows), nil
}

type providerAcc struct {
	name       *string
	bandTowers map[int]map[int]struct{} // band_count -> set of tower_ids
	towers     map[int]struct{}
	endcTowers map[int]struct{}
}

// BuildBandDistribution aggregates association rows into the distribution
// metric. A tower appearing in several rows for the same provider is counted
// once (set semantics), and EN-DC classification is at-least-one: a single
// true sighting marks the (provider, tower) pair EN-DC-enabled no matter what
// other rows for the pair report. The same rule applies globally per tower.
func BuildBandDistribution(rows []BandRow) *models.BandDistributionMetric {
	providers := make(map[int]*providerAcc)
	overallBands := make(map[int]map[int]struct{})
	allTowers := make(map[int]struct{})
	endcAll := make(map[int]struct{})

	for _, row := range rows {
		acc := providers[row.ProviderID]
		if acc == nil {
			acc = &providerAcc{
				bandTowers: make(map[int]map[int]struct{}),
				towers:     make(map[int]struct{}),
				endcTowers: make(map[int]struct{}),
			}
			providers[row.ProviderID] = acc
		}
		if acc.name == nil {
			acc.name = row.ProviderName
		}

		if acc.bandTowers[row.BandCount] == nil {
			acc.bandTowers[row.BandCount] = make(map[int]struct{})
		}
		acc.bandTowers[row.BandCount][row.TowerID] = struct{}{}
		acc.towers[row.TowerID] = struct{}{}
		if row.EndcAvailable {
			acc.endcTowers[row.TowerID] = struct{}{}
		}

		if overallBands[row.BandCount] == nil {
			overallBands[row.BandCount] = make(map[int]struct{})
		}
		overallBands[row.BandCount][row.TowerID] = struct{}{}
		allTowers[row.TowerID] = struct{}{}
		if row.EndcAvailable {
			endcAll[row.TowerID] = struct{}{}
		}
	}

	byProvider := make([]models.ProviderBandDistribution, 0, len(providers))
	providerIDs := make([]int, 0, len(providers))
	for id := range providers {
		providerIDs = append(providerIDs, id)
	}
	sort.Ints(providerIDs)

	for _, id := range providerIDs {
		acc := providers[id]
		byProvider = append(byProvider, models.ProviderBandDistribution{
			ProviderID:    id,
			ProviderName:  acc.name,
			Distribution:  entriesFromSets(acc.bandTowers),
			TotalTowers:   len(acc.towers),
			EndcTowers:    len(acc.endcTowers),
			NonEndcTowers: len(acc.towers) - len(acc.endcTowers),
		})
	}

	return &models.BandDistributionMetric{
		ByProvider:  byProvider,
		Overall:     entriesFromSets(overallBands),
		TotalTowers: len(allTowers),
		EndcSummary: models.EndcSummary{
			EndcEnabled:  len(endcAll),
			EndcDisabled: len(allTowers) - len(endcAll),
		},
	}
}

func entriesFromSets(bandTowers map[int]map[int]struct{}) []models.BandDistributionEntry {
	counts := make([]int, 0, len(bandTowers))
	for bc := range bandTowers {
		counts = append(counts, bc)
	}
	sort.Ints(counts)

	entries := make([]models.BandDistributionEntry, 0, len(counts))
	for _, bc := range counts {
		entries = append(entries, models.BandDistributionEntry{
			BandCount:  bc,
			TowerCount: len(bandTowers[bc]),
		})
	}
	return entries
}
