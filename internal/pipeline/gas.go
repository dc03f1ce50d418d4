package pipeline

import (
	"fmt"
	"regexp"

	"github.com/dublin-energylink/internal/frame"
	"github.com/dublin-energylink/internal/render"
	"github.com/dublin-energylink/internal/storage"
)

// Columns of the networked-gas survey after renaming.
const (
	postcodesColumn   = "postcodes"
	consumptionColumn = "Consumption (GWh)"
)

// rawGasPostcodeColumn is the survey's header for the postal district column;
// the consumption measure arrives in an unnamed column.
const (
	rawGasPostcodeColumn   = "Table 4A Networked Gas Consumption by Dublin Postal District for Non-Residential Sector 2011-2019"
	rawGasConsumptionField = "column_9"
)

// dublinDistrictRe matches numbered postal districts; every other spelling of
// the county area collapses onto one label before joining.
var dublinDistrictRe = regexp.MustCompile(`^Dublin`)

// GasConfig locates the inputs and output artifact of the gas-by-postcode
// merge.
type GasConfig struct {
	GasPath        string
	Sheet          string
	BoundariesPath string
	// OutputPath receives the rendered image.
	OutputPath string
	Debug      bool
}

// ResolveGasByPostcode joins postcode-level gas consumption onto postcode
// boundary geometries. Both sides get their postcode text normalized
// independently before the join; the outer join keeps districts that appear
// on only one side, and the one_to_many contract asserts that consumption
// figures are unique per district while boundary fragments may repeat.
func ResolveGasByPostcode(run *Run, gas, boundaries *frame.Table) (*frame.Table, error) {
	gas, err := frame.RenameColumns(gas, map[string]string{
		rawGasPostcodeColumn:   postcodesColumn,
		rawGasConsumptionField: consumptionColumn,
	})
	if err != nil {
		return nil, fmt.Errorf("gas survey: %w", err)
	}
	gas, err = frame.FilterContains(gas, postcodesColumn, "Dublin")
	if err != nil {
		return nil, fmt.Errorf("gas survey: %w", err)
	}
	gas, err = frame.NormalizeWhitespace(gas, postcodesColumn, postcodesColumn)
	if err != nil {
		return nil, fmt.Errorf("gas survey: %w", err)
	}
	gas, err = frame.ExtractColumns(gas, []string{postcodesColumn, consumptionColumn})
	if err != nil {
		return nil, fmt.Errorf("gas survey: %w", err)
	}

	boundaries, err = frame.ReplaceUnmatched(boundaries, postcodesColumn, postcodesColumn, dublinDistrictRe, "Co. Dublin")
	if err != nil {
		return nil, fmt.Errorf("postcode boundaries: %w", err)
	}
	boundaries, err = frame.NormalizeWhitespace(boundaries, postcodesColumn, postcodesColumn)
	if err != nil {
		return nil, fmt.Errorf("postcode boundaries: %w", err)
	}
	boundaries, err = frame.ExtractColumns(boundaries, []string{postcodesColumn, storage.GeometryColumn})
	if err != nil {
		return nil, fmt.Errorf("postcode boundaries: %w", err)
	}

	run.Step("joining %d consumption districts with %d boundary fragments", gas.Len(), boundaries.Len())
	return frame.Join(gas, boundaries, []string{postcodesColumn}, frame.JoinOptions{
		Mode:        frame.JoinOuter,
		Cardinality: frame.OneToMany,
	})
}

// RunGas executes the gas-by-postcode merge and hands the joined table to the
// rendering collaborator.
func RunGas(cfg GasConfig, renderer render.Renderer) error {
	run := NewRun("gas by postcode", cfg.Debug)
	defer run.Done()

	gas, err := storage.ReadWorkbook(cfg.GasPath, cfg.Sheet)
	if err != nil {
		return fmt.Errorf("gas survey: %w", err)
	}
	boundaries, err := storage.ReadTable(cfg.BoundariesPath)
	if err != nil {
		return fmt.Errorf("postcode boundaries: %w", err)
	}

	joined, err := ResolveGasByPostcode(run, gas, boundaries)
	if err != nil {
		return err
	}
	if err := renderer.Render(joined, consumptionColumn, storage.GeometryColumn, cfg.OutputPath); err != nil {
		return fmt.Errorf("failed to render gas map: %w", err)
	}
	run.Step("rendered %d joined rows to %s", joined.Len(), cfg.OutputPath)
	return nil
}
