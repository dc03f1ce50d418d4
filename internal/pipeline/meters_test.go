package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dublin-energylink/internal/frame"
	"github.com/dublin-energylink/internal/standardize"
	"github.com/dublin-energylink/internal/storage"
)

// meterFixtures builds raw extracts the way they arrive: two electricity
// sub-meters of one building with spelling variants, one unrelated building,
// and a single gas meter for the shared building.
func meterFixtures() (mprn, gprn, vo *frame.Table) {
	mprn = frame.New("PB Name", "Location", "Attributable Total Final Consumption (kWh)", "Year")
	mprn.Append("Peamount Hospital", "Newcastle", "100", "2019")
	mprn.Append("PEAMOUNT HOSPITAL", "Newcastle,", "50", "2019")
	mprn.Append("Three Seasons", "Dun Laoghaire", "7", "2019")

	gprn = frame.New("PB Name", "Location", "Attributable Total Final Consumption (kWh)", "Year")
	gprn.Append("Peamount Hospital", "Newcastle", "222", "2019")

	vo = frame.New("Address")
	vo.Append("1 Grange Rd, Rathfarnham")
	vo.Append("1 Grange Rd, Rathfarnham")
	vo.Append("Peamount Hospital, Newcastle")
	return mprn, gprn, vo
}

func TestResolveMeters(t *testing.T) {
	run := NewRun("test", false)
	defer run.Done()
	mprn, gprn, vo := meterFixtures()

	merged, _, err := ResolveMeters(run, mprn, gprn, vo, standardize.NewRules(), 0)
	require.NoError(t, err)

	// Two sub-meters of one building collapse onto one output row.
	require.Equal(t, 2, merged.Len())
	assert.Equal(t, 150.0, merged.At(0, "summated_electricity_demand_kwh_year"))
	assert.Equal(t, 222.0, merged.At(0, "summated_gas_demand_kwh_year"))
	assert.Equal(t, frame.ProvenanceBoth, merged.At(0, "_merge"))

	// The building without a gas meter keeps its row, flagged left-only.
	assert.Equal(t, 7.0, merged.At(1, "summated_electricity_demand_kwh_year"))
	assert.Nil(t, merged.At(1, "summated_gas_demand_kwh_year"))
	assert.Equal(t, frame.ProvenanceLeftOnly, merged.At(1, "_merge"))

	// Both sides carried a deduped_address column; the join suffixes them.
	assert.True(t, merged.HasColumn("deduped_address_left"))
	assert.True(t, merged.HasColumn("deduped_address_right"))

	// The parsed column is expanded into labelled fields and then dropped.
	assert.False(t, merged.HasColumn("parsed_address"))
	assert.Equal(t, "peamount hospital newcastle", merged.At(0, "house"))
}

func TestResolveMetersValuationOffice(t *testing.T) {
	run := NewRun("test", false)
	defer run.Done()
	mprn, gprn, vo := meterFixtures()

	_, voAddressed, err := ResolveMeters(run, mprn, gprn, vo, standardize.NewRules(), 0)
	require.NoError(t, err)

	// Repeated rateable units dedupe to one row per address.
	require.Equal(t, 2, voAddressed.Len())
	assert.Equal(t, "1", voAddressed.At(0, "house_number"))
	assert.Equal(t, "grange road", voAddressed.At(0, "road"))
	assert.Equal(t, "rathfarnham", voAddressed.At(0, "suburb"))

	// The index was reset before expansion, so it is contiguous again.
	for i, idx := range voAddressed.Index() {
		assert.Equal(t, i, idx)
	}
}

func TestResolveMetersBadConsumptionValue(t *testing.T) {
	run := NewRun("test", false)
	defer run.Done()
	mprn, gprn, vo := meterFixtures()
	mprn.Append("Peamount Hospital", "Newcastle", "n/a", "2019")

	_, _, err := ResolveMeters(run, mprn, gprn, vo, standardize.NewRules(), 0)
	var dataType *frame.DataTypeError
	require.ErrorAs(t, err, &dataType)
	assert.Equal(t, "n/a", dataType.Value)
}

func TestRunMeters(t *testing.T) {
	dir := t.TempDir()
	mprn, gprn, vo := meterFixtures()
	cfg := MetersConfig{
		MPRNPath:     filepath.Join(dir, "mprn.csv"),
		GPRNPath:     filepath.Join(dir, "gprn.csv"),
		VOPath:       filepath.Join(dir, "vo.csv"),
		OutputPath:   filepath.Join(dir, "merged.csv"),
		VOOutputPath: filepath.Join(dir, "vo_addressed.csv"),
	}
	require.NoError(t, storage.WriteCSV(mprn, cfg.MPRNPath))
	require.NoError(t, storage.WriteCSV(gprn, cfg.GPRNPath))
	require.NoError(t, storage.WriteCSV(vo, cfg.VOPath))

	require.NoError(t, RunMeters(cfg, standardize.NewRules()))

	merged, err := storage.ReadCSV(cfg.OutputPath)
	require.NoError(t, err)
	require.Equal(t, 2, merged.Len())
	assert.Equal(t, "150", merged.At(0, "summated_electricity_demand_kwh_year"))
	assert.Equal(t, "222", merged.At(0, "summated_gas_demand_kwh_year"))
	assert.Equal(t, "both", merged.At(0, "_merge"))

	voAddressed, err := storage.ReadCSV(cfg.VOOutputPath)
	require.NoError(t, err)
	require.Equal(t, 2, voAddressed.Len())
	assert.Equal(t, "grange road", voAddressed.At(0, "road"))
}
