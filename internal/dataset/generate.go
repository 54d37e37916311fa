// internal/dataset/generate.go
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"fairpay/internal/models"
	"fairpay/internal/salary"
)

// Report summarizes a batch transform.
type Report struct {
	Rows int
	// Omitted counts occupation/location pairs with no usable source row.
	Omitted int
	// MissingBigMac lists countries whose rows were left PPP-unadjusted.
	MissingBigMac []string
	// MissingCOL lists cities whose rows were left COL-unadjusted.
	MissingCOL []string
}

type reportBuilder struct {
	report Report
	macs   map[string]struct{}
	cols   map[string]struct{}
}

func newReportBuilder() *reportBuilder {
	return &reportBuilder{macs: map[string]struct{}{}, cols: map[string]struct{}{}}
}

func (b *reportBuilder) finish() *Report {
	b.report.MissingBigMac = sortedKeys(b.macs)
	b.report.MissingCOL = sortedKeys(b.cols)
	return &b.report
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type adjustmentInputs struct {
	macs      map[string]models.BigMacPrice
	reference float64
}

func newAdjustmentInputs(set Set, n *salary.Normalizer, referenceCountry string) (*adjustmentInputs, models.Country, error) {
	code := normalizeCode(referenceCountry)
	var ref models.Country
	found := false
	for _, c := range set.Countries {
		if c.Code == code {
			ref, found = c, true
			break
		}
	}
	if !found {
		return nil, models.Country{}, fmt.Errorf("reference country %q not in dataset", referenceCountry)
	}

	macs := make(map[string]models.BigMacPrice, len(set.BigMacPrices))
	for _, p := range set.BigMacPrices {
		macs[p.CountryCode] = p
	}
	refMac, ok := macs[ref.Code]
	return &adjustmentInputs{macs: macs, reference: n.ReferenceBigMac(refMac, ok)}, ref, nil
}

// BuildCountrySalaries derives the occupation × country table. Countries without a
// usable wage ratio are omitted. Output order is occupation table order, then country
// table order.
func BuildCountrySalaries(set Set, n *salary.Normalizer, referenceCountry string) ([]models.CountrySalaryEntry, *Report, error) {
	adj, ref, err := newAdjustmentInputs(set, n, referenceCountry)
	if err != nil {
		return nil, nil, err
	}

	rb := newReportBuilder()
	out := make([]models.CountrySalaryEntry, 0, len(set.Occupations)*len(set.Countries))
	for _, occ := range set.Occupations {
		for _, c := range set.Countries {
			ratio, ok := salary.WageRatio(c, ref)
			if !ok {
				rb.report.Omitted++
				continue
			}
			est := n.EstimateCountry(occ, ratio)

			mac, ok := adj.macs[c.Code]
			if !ok || mac.USDPrice <= 0 {
				rb.macs[c.Code] = struct{}{}
			}
			out = append(out, models.CountrySalaryEntry{
				OccupationSlug: occ.Slug,
				CountryCode:    c.Code,
				EstimateUSD:    est,
				PPPAdjustedUSD: n.PPPAdjust(est, mac.USDPrice, adj.reference),
			})
		}
	}
	rb.report.Rows = len(out)
	return out, rb.finish(), nil
}

// BuildCitySalaries derives the occupation × city table from the country table. Pairs
// without a country row are omitted. Output order is occupation table order, then city
// table order.
func BuildCitySalaries(set Set, n *salary.Normalizer, referenceCountry string) ([]models.CitySalaryEntry, *Report, error) {
	adj, _, err := newAdjustmentInputs(set, n, referenceCountry)
	if err != nil {
		return nil, nil, err
	}

	countryRows := make(map[pairKey]models.CountrySalaryEntry, len(set.CountrySalaries))
	for _, e := range set.CountrySalaries {
		countryRows[pairKey{e.OccupationSlug, e.CountryCode}] = e
	}

	rb := newReportBuilder()
	out := make([]models.CitySalaryEntry, 0, len(set.Occupations)*len(set.Cities))
	for _, occ := range set.Occupations {
		for _, city := range set.Cities {
			row, ok := countryRows[pairKey{occ.Slug, city.CountryCode}]
			if !ok {
				rb.report.Omitted++
				continue
			}
			est := n.EstimateCity(row.EstimateUSD, occ, city)

			mac, ok := adj.macs[city.CountryCode]
			if !ok || mac.USDPrice <= 0 {
				rb.macs[city.CountryCode] = struct{}{}
			}
			if city.COLMultiplier <= 0 {
				rb.cols[city.Slug] = struct{}{}
			}
			out = append(out, models.CitySalaryEntry{
				OccupationSlug: occ.Slug,
				CountryCode:    city.CountryCode,
				CitySlug:       city.Slug,
				EstimateUSD:    est,
				PPPAdjustedUSD: n.PPPAdjust(est, mac.USDPrice, adj.reference),
				COLAdjustedUSD: salary.COLAdjust(est, city.COLMultiplier),
			})
		}
	}
	rb.report.Rows = len(out)
	return out, rb.finish(), nil
}

// WriteJSON writes rows as two-space indented JSON with a trailing newline, replacing
// path atomically. Identical rows always produce identical bytes.
func WriteJSON(path string, rows interface{}) error {
	raw, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	raw = append(raw, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return os.Rename(tmp.Name(), path)
}
