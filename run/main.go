package main

import (
	"fmt"
	"os"

	"github.com/gosuri/uiprogress"
	"github.com/maseology/mmio"
	"github.com/maseology/wbm"
	"github.com/maseology/wbm/grid"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "wbm",
		Short: "Wetland sediment and nutrient benefit model",
	}

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(terrainCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var (
		outdir, jobid, wetland, user string
		topo                         bool
		in                           = wbm.DefaultInputs()
	)
	cmd := &cobra.Command{
		Use:   "run [dem.bil] [polygon.geojson]",
		Short: "Run the full before/after benefit calculation",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return run(args[0], args[1], outdir, jobid, wetland, user, topo, in)
		},
	}
	cmd.Flags().StringVarP(&outdir, "out", "o", "out", "output directory")
	cmd.Flags().StringVarP(&jobid, "job", "j", "job", "job identifier keying output files")
	cmd.Flags().StringVar(&wetland, "wetland", "", "wetland label")
	cmd.Flags().StringVar(&user, "user", "", "analyst name")
	cmd.Flags().BoolVar(&topo, "topo", false, "accumulate flow over the drainage tree instead of the elevation-sort pass")
	cmd.Flags().Float64Var(&in.RainfallFactor, "R", in.RainfallFactor, "rainfall factor")
	cmd.Flags().Float64Var(&in.SoilErodibility, "K", in.SoilErodibility, "soil erodibility")
	cmd.Flags().Float64Var(&in.CoverBefore, "cb", in.CoverBefore, "cover-management factor, before")
	cmd.Flags().Float64Var(&in.CoverAfter, "ca", in.CoverAfter, "cover-management factor, after")
	cmd.Flags().Float64Var(&in.SupportBefore, "pb", in.SupportBefore, "support-practices factor, before")
	cmd.Flags().Float64Var(&in.SupportAfter, "pa", in.SupportAfter, "support-practices factor, after")
	cmd.Flags().Float64Var(&in.SedimentDeliveryRatio, "sdr", in.SedimentDeliveryRatio, "sediment delivery ratio [0,1]")
	cmd.Flags().Float64Var(&in.Efficiencies.Sediment, "es", in.Efficiencies.Sediment, "sediment trapping efficiency [0,1]")
	cmd.Flags().Float64Var(&in.Efficiencies.Nitrogen, "en", in.Efficiencies.Nitrogen, "nitrogen trapping efficiency [0,1]")
	cmd.Flags().Float64Var(&in.Efficiencies.Phosphorus, "ep", in.Efficiencies.Phosphorus, "phosphorus trapping efficiency [0,1]")
	return cmd
}

func terrainCmd() *cobra.Command {
	var outdir, jobid string
	cmd := &cobra.Command{
		Use:   "terrain [dem.bil] [polygon.geojson]",
		Short: "Derive and report slope, flow accumulation and LS only",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			dem, polys, err := load(args[0], args[1])
			if err != nil {
				return err
			}
			mmio.MakeDir(outdir)
			terrain, err := wbm.BuildTerrain(dem, polys, nil, outdir+"/"+jobid)
			if err != nil {
				return err
			}
			printTerrain(terrain)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outdir, "out", "o", "out", "output directory")
	cmd.Flags().StringVarP(&jobid, "job", "j", "job", "job identifier keying output files")
	return cmd
}

func load(demfp, polyfp string) (*grid.Raster, []wbm.Polygon, error) {
	dem, err := grid.Load(demfp)
	if err != nil {
		return nil, nil, err
	}
	b, err := os.ReadFile(polyfp)
	if err != nil {
		return nil, nil, err
	}
	polys, err := wbm.ParseGeoJSON(b)
	if err != nil {
		return nil, nil, err
	}
	return dem, polys, nil
}

func run(demfp, polyfp, outdir, jobid, wetland, user string, topo bool, in wbm.RusleInputs) error {
	fmt.Println("")
	tt := mmio.NewTimer()
	defer tt.Lap("\nRun complete")

	dem, polys, err := load(demfp, polyfp)
	if err != nil {
		return err
	}
	tt.Print(fmt.Sprintf("loaded %d x %d DEM (%s active cells)\n", dem.Nr, dem.Nc, mmio.Thousands(int64(dem.Nactives()))))

	var acc wbm.Accumulator = wbm.SortAccumulator{}
	if topo {
		acc = wbm.TopoAccumulator{}
	}

	uiprogress.Start()
	stage := make(chan string, 2)
	bar := uiprogress.AddBar(2).AppendCompleted().PrependElapsed()
	lbl := ""
	bar.PrependFunc(func(b *uiprogress.Bar) string {
		select {
		case s := <-stage:
			lbl = s
		default:
		}
		return lbl
	})

	stage <- "terrain + scenarios"
	terrain, res, err := wbm.RunJob(dem, polys, in, acc, wbm.Job{
		ID:          jobid,
		WetlandName: wetland,
		UserName:    user,
		OutDir:      outdir,
	})
	if err != nil {
		uiprogress.Stop()
		return err
	}
	bar.Incr()
	stage <- "complete"
	bar.Incr()
	uiprogress.Stop()

	printTerrain(terrain)
	fmt.Printf("\n                                before        after    reduction\n")
	fmt.Printf(" soil loss (t/yr):        %12.3f %12.3f %12.3f\n", res.Before.SoilLossTonnes, res.After.SoilLossTonnes, res.SoilLossReductionTonnes)
	fmt.Printf(" delivered (t/yr):        %12.3f %12.3f %12.3f\n", res.Before.DeliveredSedimentTonnes, res.After.DeliveredSedimentTonnes, res.DeliveredReductionTonnes)
	fmt.Printf(" nitrogen (kg/yr):        %12.3f %12.3f %12.3f\n", res.Before.NitrogenLoadKg, res.After.NitrogenLoadKg, res.NitrogenReductionKg)
	fmt.Printf(" phosphorus (kg/yr):      %12.3f %12.3f %12.3f\n", res.Before.PhosphorusLoadKg, res.After.PhosphorusLoadKg, res.PhosphorusReductionKg)
	fmt.Printf("\n benefit raster: %s\n", res.OutputRaster)
	return nil
}

func printTerrain(t *wbm.TerrainAnalysisResult) {
	fmt.Printf("\n wetland area: %.2f ha  catchment (approx.): %.2f ha\n", t.WetlandAreaHa, t.CatchmentAreaHa)
	fmt.Printf(" slope (deg): mean %.2f  median %.2f  max %.2f\n", t.MeanSlopeDeg, t.MedianSlopeDeg, t.MaxSlopeDeg)
	fmt.Printf(" LS factor: %.3f\n", t.LSFactor)
}
