package main

import (
	"context"
	"delivery-estimate-service/internal/adapters/repositories"
	"delivery-estimate-service/internal/adapters/sheet"
	"delivery-estimate-service/internal/api/dto"
	"delivery-estimate-service/internal/config"
	"delivery-estimate-service/internal/domain"
	"delivery-estimate-service/internal/geoindex"
	"delivery-estimate-service/internal/platform/obs"
	"delivery-estimate-service/internal/services"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var (
	facilitiesFile string
	feePolicyName  string
	asJSON         bool
)

var rootCmd = &cobra.Command{
	Use:          "estimate",
	Short:        "Delivery distance, time and fee estimates from the command line",
	SilenceUsage: true,
}

var pointCmd = &cobra.Command{
	Use:   "point",
	Short: "Estimate delivery to one coordinate",
	Long:  `Find the nearest active facility to a coordinate and print the distance, duration and fee.`,
	RunE:  runPoint,
}

var nearbyCmd = &cobra.Command{
	Use:   "nearby",
	Short: "List active facilities within a radius",
	RunE:  runNearby,
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Estimate every customer in an xlsx workbook",
	Long: `Read customers (header row with id, name, lat, lon columns) from an xlsx
workbook, estimate each against the active facilities and write the results to
a new workbook.`,
	RunE: runBatch,
}

var (
	lat, lon    float64
	subtotal    float64
	radiusKm    float64
	inPath      string
	outPath     string
	inSheet     string
	workerCount int
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&facilitiesFile, "facilities", "f", config.Get("SEED_PATH", "data/seeds/seed.json"), "Seed file with facilities")
	rootCmd.PersistentFlags().StringVar(&feePolicyName, "fee-policy", config.Get("FEE_POLICY", "distance"), "Fee policy: distance or subtotal")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")

	for _, c := range []*cobra.Command{pointCmd, nearbyCmd} {
		c.Flags().Float64Var(&lat, "lat", 0, "Latitude in decimal degrees")
		c.Flags().Float64Var(&lon, "lon", 0, "Longitude in decimal degrees")
		_ = c.MarkFlagRequired("lat")
		_ = c.MarkFlagRequired("lon")
	}
	pointCmd.Flags().Float64VarP(&subtotal, "subtotal", "s", 0, "Order subtotal (subtotal fee policy)")
	nearbyCmd.Flags().Float64VarP(&radiusKm, "radius", "r", 10, "Search radius in km")

	batchCmd.Flags().StringVarP(&inPath, "in", "i", "", "Input xlsx workbook")
	batchCmd.Flags().StringVarP(&outPath, "out", "o", "estimates.xlsx", "Output xlsx workbook")
	batchCmd.Flags().StringVar(&inSheet, "sheet", "", "Input sheet name (first sheet when empty)")
	batchCmd.Flags().IntVarP(&workerCount, "workers", "w", runtime.NumCPU(), "Number of worker goroutines")
	batchCmd.Flags().Float64VarP(&subtotal, "subtotal", "s", 0, "Subtotal for rows without one")
	_ = batchCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(pointCmd, nearbyCmd, batchCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(obs.WithRequestID(ctx, "")); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadActiveFacilities() ([]domain.Facility, error) {
	seed, err := repositories.LoadSeed(facilitiesFile)
	if err != nil {
		return nil, err
	}
	return services.ActiveFacilities(seed.Facilities), nil
}

func newEstimator() (*services.Estimator, error) {
	fee, ok := services.FeePolicyByName(feePolicyName)
	if !ok {
		return nil, fmt.Errorf("unknown fee policy %q", feePolicyName)
	}
	return services.NewEstimator(fee), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runPoint(cmd *cobra.Command, args []string) error {
	est, err := newEstimator()
	if err != nil {
		return err
	}
	facilities, err := loadActiveFacilities()
	if err != nil {
		return err
	}

	res, err := est.Estimate(domain.Coordinate{Lat: lat, Lon: lon}, facilities, subtotal)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		return printJSON(out, dto.NewEstimateResponse(res))
	}
	if res.NearestFacility == nil {
		fmt.Fprintln(out, "No active facility available.")
		return nil
	}

	fmt.Fprintf(out, "Facility: %s (%s)\n", res.NearestFacility.Name, res.NearestFacility.ID)
	fmt.Fprintf(out, "Distance: %s\n", services.FormatDistance(res.DistanceKm))
	fmt.Fprintf(out, "Duration: %s\n", services.FormatDeliveryDuration(res.DurationMinutes))
	fmt.Fprintf(out, "Fee:      %.2f (%s)\n", res.FeeAmount, res.FeePolicy)
	return nil
}

func runNearby(cmd *cobra.Command, args []string) error {
	facilities, err := loadActiveFacilities()
	if err != nil {
		return err
	}

	index := geoindex.NewFacilityIndex()
	if err := index.Index(facilities); err != nil {
		return err
	}

	found, err := index.Within(domain.Coordinate{Lat: lat, Lon: lon}, radiusKm)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		return printJSON(out, dto.NewListNearbyResponse(radiusKm, found))
	}

	fmt.Fprintf(out, "%d facilities within %.1f km\n", len(found), radiusKm)
	for _, f := range found {
		fmt.Fprintf(out, "  %-24s %10s  ~%d min\n", f.Facility.Name, services.FormatDistance(f.DistanceKm), f.DurationMinutes)
	}
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	est, err := newEstimator()
	if err != nil {
		return err
	}
	facilities, err := loadActiveFacilities()
	if err != nil {
		return err
	}

	customers, skipped, err := sheet.ReadCustomers(inPath, inSheet)
	if err != nil {
		return err
	}
	for _, s := range skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipping row %d: %s\n", s.Row, s.Reason)
	}
	if cmd.Flags().Changed("subtotal") {
		customers = services.WithDefaultSubtotal(customers, subtotal)
	}

	results, err := services.EstimateBatch(cmd.Context(), est, customers, facilities, workerCount)
	if err != nil {
		return err
	}

	if err := sheet.WriteEstimates(outPath, "", results); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Estimated %d customers (%d skipped) -> %s\n", len(results), len(skipped), outPath)
	return nil
}
