package pipeline

import (
	"fmt"

	"github.com/dublin-energylink/internal/frame"
	"github.com/dublin-energylink/internal/grouper"
	"github.com/dublin-energylink/internal/standardize"
	"github.com/dublin-energylink/internal/storage"
)

// Raw column names as they arrive from the metering extracts.
const (
	rawNameColumn     = "PB Name"
	rawLocationColumn = "Location"
	rawConsumption    = "Attributable Total Final Consumption (kWh)"
	yearColumn        = "Year"
)

// Columns produced while resolving address identity.
const (
	combinedAddressColumn = "combined_address"
	standardAddressColumn = "standardised_address"
	dedupedAddressColumn  = "deduped_address"
	parsedAddressColumn   = "parsed_address"
	provenanceColumn      = "_merge"
)

// MetersConfig locates the raw inputs and output artifacts of the
// electricity+gas merge.
type MetersConfig struct {
	MPRNPath string
	GPRNPath string
	VOPath   string
	// OutputPath receives the merged meter table.
	OutputPath string
	// VOOutputPath, when set, receives the address-expanded Valuation Office
	// table for downstream lookups.
	VOOutputPath string
	// PostgresTable, when set, additionally loads the merged table into the
	// configured Postgres database under this name.
	PostgresTable string
	MinSimilarity float64
	Debug         bool
}

// resolveMeterAddresses gives one metering extract its address identity:
// combine the raw name and location fields into one free-text address,
// standardize it, collapse near-duplicate spellings, sum the measure across
// sub-meters of one building and year, and keep one row per identity/year.
func resolveMeterAddresses(run *Run, t *frame.Table, std standardize.Standardizer, minSimilarity float64, measure, summated string) (*frame.Table, error) {
	t, err := frame.CombineColumns(t, []string{rawNameColumn, rawLocationColumn}, combinedAddressColumn)
	if err != nil {
		return nil, err
	}
	t, err = frame.RenameColumns(t, map[string]string{rawConsumption: measure})
	if err != nil {
		return nil, err
	}
	t, err = standardize.Column(t, std, combinedAddressColumn, standardAddressColumn)
	if err != nil {
		return nil, err
	}
	t, err = grouper.GroupColumn(t, standardAddressColumn, dedupedAddressColumn, minSimilarity)
	if err != nil {
		return nil, err
	}
	run.Step("%s: %d rows after identity resolution", measure, t.Len())
	t, err = frame.Aggregate(t, []string{standardAddressColumn, yearColumn}, measure, summated)
	if err != nil {
		return nil, err
	}
	return frame.Dedupe(t, []string{standardAddressColumn, yearColumn})
}

// ResolveMeters merges the electricity and gas extracts onto one row per
// building address and year, and expands the canonical addresses of both the
// merged table and the Valuation Office table into structured fields.
func ResolveMeters(run *Run, mprn, gprn, vo *frame.Table, std standardize.Standardizer, minSimilarity float64) (merged, voAddressed *frame.Table, err error) {
	if minSimilarity <= 0 {
		minSimilarity = grouper.DefaultMinSimilarity
	}

	electricity, err := resolveMeterAddresses(run, mprn, std, minSimilarity,
		"electricity_demand_kwh_year", "summated_electricity_demand_kwh_year")
	if err != nil {
		return nil, nil, fmt.Errorf("electricity extract: %w", err)
	}
	gas, err := resolveMeterAddresses(run, gprn, std, minSimilarity,
		"gas_demand_kwh_year", "summated_gas_demand_kwh_year")
	if err != nil {
		return nil, nil, fmt.Errorf("gas extract: %w", err)
	}
	gas, err = frame.ExtractColumns(gas, []string{
		dedupedAddressColumn, standardAddressColumn, yearColumn, "summated_gas_demand_kwh_year",
	})
	if err != nil {
		return nil, nil, fmt.Errorf("gas extract: %w", err)
	}

	run.Step("joining %d electricity identities with %d gas identities", electricity.Len(), gas.Len())
	merged, err = frame.Join(electricity, gas, []string{standardAddressColumn, yearColumn}, frame.JoinOptions{
		Mode:             frame.JoinLeft,
		Cardinality:      frame.OneToOne,
		ProvenanceColumn: provenanceColumn,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("meter join: %w", err)
	}

	// The join emits a fresh contiguous index, so the merged table can expand
	// in place; the upstream dedupe made the per-extract indexes ragged but
	// they never reach a positional step.
	merged, err = standardize.ParseColumn(merged, std, standardAddressColumn, parsedAddressColumn)
	if err != nil {
		return nil, nil, err
	}
	merged, err = frame.ExpandFields(merged, parsedAddressColumn)
	if err != nil {
		return nil, nil, err
	}
	merged, err = frame.DropColumns(merged, []string{parsedAddressColumn})
	if err != nil {
		return nil, nil, err
	}

	voAddressed, err = resolveVOAddresses(run, vo, std)
	if err != nil {
		return nil, nil, fmt.Errorf("valuation office extract: %w", err)
	}
	return merged, voAddressed, nil
}

// resolveVOAddresses standardizes and expands the Valuation Office building
// records. The extract lists one row per rateable unit, so buildings repeat;
// deduplication leaves a ragged index, which must be reset before the
// positional field expansion.
func resolveVOAddresses(run *Run, vo *frame.Table, std standardize.Standardizer) (*frame.Table, error) {
	vo, err := frame.Dedupe(vo, []string{"Address"})
	if err != nil {
		return nil, err
	}
	vo, err = standardize.Column(vo, std, "Address", standardAddressColumn)
	if err != nil {
		return nil, err
	}
	vo, err = standardize.ParseColumn(vo, std, standardAddressColumn, parsedAddressColumn)
	if err != nil {
		return nil, err
	}
	vo = frame.ResetIndex(vo)
	vo, err = frame.ExpandFields(vo, parsedAddressColumn)
	if err != nil {
		return nil, err
	}
	run.Step("valuation office: %d rows addressed", vo.Len())
	return frame.DropColumns(vo, []string{parsedAddressColumn})
}

// RunMeters executes the full electricity+gas merge: read the three raw
// extracts, resolve, and write the output artifacts. Nothing is written until
// every resolution step has succeeded.
func RunMeters(cfg MetersConfig, std standardize.Standardizer) error {
	run := NewRun("merge meters by address", cfg.Debug)
	defer run.Done()

	mprn, err := storage.ReadTable(cfg.MPRNPath)
	if err != nil {
		return fmt.Errorf("mprn dataset: %w", err)
	}
	gprn, err := storage.ReadTable(cfg.GPRNPath)
	if err != nil {
		return fmt.Errorf("gprn dataset: %w", err)
	}
	vo, err := storage.ReadTable(cfg.VOPath)
	if err != nil {
		return fmt.Errorf("valuation office dataset: %w", err)
	}

	merged, voAddressed, err := ResolveMeters(run, mprn, gprn, vo, std, cfg.MinSimilarity)
	if err != nil {
		return err
	}

	if err := storage.WriteTable(merged, cfg.OutputPath); err != nil {
		return fmt.Errorf("failed to persist merged meters: %w", err)
	}
	run.Step("wrote %d merged rows to %s", merged.Len(), cfg.OutputPath)
	if cfg.VOOutputPath != "" {
		if err := storage.WriteTable(voAddressed, cfg.VOOutputPath); err != nil {
			return fmt.Errorf("failed to persist valuation office table: %w", err)
		}
	}
	if cfg.PostgresTable != "" {
		conn, err := storage.Connect()
		if err != nil {
			return err
		}
		defer conn.Close()
		if err := conn.WriteDatabaseTable(merged, cfg.PostgresTable); err != nil {
			return err
		}
		run.Step("loaded merged meters into database table %s", cfg.PostgresTable)
	}
	return nil
}
