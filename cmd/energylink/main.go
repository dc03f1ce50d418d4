package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/dublin-energylink/internal/config"
	"github.com/dublin-energylink/internal/grouper"
	"github.com/dublin-energylink/internal/pipeline"
	"github.com/dublin-energylink/internal/render"
	"github.com/dublin-energylink/internal/standardize"
)

var (
	debugFlag        bool
	standardizerName string
)

func main() {
	config.LoadEnv()

	rootCmd := &cobra.Command{
		Use:   "energylink",
		Short: "Dublin energy demand address resolution",
		Long:  `Resolves electricity, gas and building records onto canonical address identities and merges them into one demand table per building.`,
	}
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", config.GetEnvBool("DEBUG", false), "enable step-by-step progress logging")
	rootCmd.PersistentFlags().StringVar(&standardizerName, "standardizer", config.GetEnv("STANDARDIZER", "postal"), "address standardizer: postal or rules")

	rootCmd.AddCommand(createMergeMetersCmd())
	rootCmd.AddCommand(createGasPostcodesCmd())
	rootCmd.AddCommand(createAllCmd())
	rootCmd.AddCommand(createStandardizeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func newStandardizer() standardize.Standardizer {
	switch standardizerName {
	case "rules":
		return standardize.NewRules()
	case "postal":
		return standardize.NewPostal()
	default:
		log.Fatalf("Unknown standardizer: %s", standardizerName)
		return nil
	}
}

func metersConfigFromFlags(cmd *cobra.Command) pipeline.MetersConfig {
	flag := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	similarity, _ := cmd.Flags().GetFloat64("similarity")
	return pipeline.MetersConfig{
		MPRNPath:      flag("mprn"),
		GPRNPath:      flag("gprn"),
		VOPath:        flag("vo"),
		OutputPath:    flag("out"),
		VOOutputPath:  flag("vo-out"),
		PostgresTable: flag("postgres-table"),
		MinSimilarity: similarity,
		Debug:         debugFlag,
	}
}

func addMeterFlags(cmd *cobra.Command) {
	cmd.Flags().String("mprn", config.GetEnv("MPRN_PATH", "data/raw/mprn.csv"), "electricity metering extract")
	cmd.Flags().String("gprn", config.GetEnv("GPRN_PATH", "data/raw/gprn.csv"), "gas metering extract")
	cmd.Flags().String("vo", config.GetEnv("VO_PATH", "data/processed/vo_dublin.parquet"), "valuation office extract")
	cmd.Flags().String("out", config.GetEnv("M_AND_R_PATH", "data/processed/m_and_r.parquet"), "merged output table")
	cmd.Flags().String("vo-out", config.GetEnv("VO_OUT_PATH", ""), "optional address-expanded valuation office output")
	cmd.Flags().String("postgres-table", config.GetEnv("POSTGRES_TABLE", ""), "optional database table to load the merged output into")
	cmd.Flags().Float64("similarity", config.GetEnvFloat("MIN_SIMILARITY", grouper.DefaultMinSimilarity), "minimum similarity for merging address spellings")
}

func addGasFlags(cmd *cobra.Command) {
	cmd.Flags().String("gas", config.GetEnv("GAS_PATH", "data/raw/Gas_NonRes.xlsx"), "networked gas survey workbook")
	cmd.Flags().String("sheet", config.GetEnv("GAS_SHEET", ""), "workbook sheet (first sheet when empty)")
	cmd.Flags().String("boundaries", config.GetEnv("POSTCODES_PATH", "data/processed/dublin_postcodes.geojson"), "postcode boundary file")
	cmd.Flags().String("map-out", config.GetEnv("GAS_MAP_PATH", "data/processed/gas_by_postcode.svg"), "rendered map output")
}

func gasConfigFromFlags(cmd *cobra.Command) pipeline.GasConfig {
	flag := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return pipeline.GasConfig{
		GasPath:        flag("gas"),
		Sheet:          flag("sheet"),
		BoundariesPath: flag("boundaries"),
		OutputPath:     flag("map-out"),
		Debug:          debugFlag,
	}
}

func createMergeMetersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge-meters",
		Short: "Merge electricity and gas records by building address",
		Run: func(cmd *cobra.Command, args []string) {
			if err := pipeline.RunMeters(metersConfigFromFlags(cmd), newStandardizer()); err != nil {
				log.Fatalf("merge-meters failed: %v", err)
			}
		},
	}
	addMeterFlags(cmd)
	return cmd
}

func createGasPostcodesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gas-postcodes",
		Short: "Map networked gas consumption by Dublin postcode",
		Run: func(cmd *cobra.Command, args []string) {
			if err := pipeline.RunGas(gasConfigFromFlags(cmd), render.NewSVG()); err != nil {
				log.Fatalf("gas-postcodes failed: %v", err)
			}
		},
	}
	addGasFlags(cmd)
	return cmd
}

func createAllCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "all",
		Short: "Run both pipelines",
		Run: func(cmd *cobra.Command, args []string) {
			std := newStandardizer()
			if err := pipeline.RunMeters(metersConfigFromFlags(cmd), std); err != nil {
				log.Fatalf("merge-meters failed: %v", err)
			}
			if err := pipeline.RunGas(gasConfigFromFlags(cmd), render.NewSVG()); err != nil {
				log.Fatalf("gas-postcodes failed: %v", err)
			}
		},
	}
	addMeterFlags(cmd)
	addGasFlags(cmd)
	return cmd
}

// createStandardizeCmd is a debugging helper: show what the standardizer does
// with a single address.
func createStandardizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "standardize [address]",
		Short: "Standardize and parse a single address",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			std := newStandardizer()
			canonical := standardize.Canonical(std, args[0])
			fmt.Printf("Canonical: %s\n", canonical)
			fmt.Println("Components:")
			for _, c := range std.Parse(canonical) {
				fmt.Printf("  %s: %s\n", c.Label, c.Value)
			}
		},
	}
}
