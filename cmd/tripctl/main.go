// Command tripctl plans a trip from a YAML file and prints the resulting
// route summary and per-day duty grids. Useful for exercising the planning
// pipeline without the HTTP layer.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"tripgateway/internal/logbook"
	"tripgateway/internal/trips"
	"tripgateway/internal/trips/service"
	"tripgateway/internal/trips/transport"
	"tripgateway/platform/config"
	"tripgateway/platform/logger"
	"tripgateway/platform/validator"

	"gopkg.in/yaml.v3"
)

type tripLocation struct {
	Address string   `yaml:"address"`
	Lat     *float64 `yaml:"lat"`
	Lng     *float64 `yaml:"lng"`
}

type tripFile struct {
	Start                 tripLocation `yaml:"start"`
	Pickup                tripLocation `yaml:"pickup"`
	Dropoff               tripLocation `yaml:"dropoff"`
	CurrentCycleUsedHours float64      `yaml:"current_cycle_used_hours"`
	StartDate             string       `yaml:"start_date"`
}

func main() {
	var path string
	flag.StringVar(&path, "f", "trip.yaml", "path to the trip definition file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)

	trip, err := readTripFile(path)
	if err != nil {
		log.Error("failed to read trip file", "path", path, "error", err)
		os.Exit(1)
	}

	tripsModule := trips.NewModule(cfg, validator.New(), log)

	result, err := tripsModule.Service().PlanTrip(context.Background(), service.PlanTripInput{
		Start:                 field(trip.Start),
		Pickup:                field(trip.Pickup),
		Dropoff:               field(trip.Dropoff),
		CurrentCycleUsedHours: trip.CurrentCycleUsedHours,
		StartDate:             trip.StartDate,
	})
	if err != nil {
		log.Error("trip planning failed", "error", err)
		os.Exit(1)
	}

	printResult(result)
}

func readTripFile(path string) (*tripFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var trip tripFile
	if err := yaml.Unmarshal(raw, &trip); err != nil {
		return nil, fmt.Errorf("invalid trip file: %w", err)
	}
	return &trip, nil
}

func field(loc tripLocation) service.LocationField {
	return service.LocationField{Address: loc.Address, Lat: loc.Lat, Lng: loc.Lng}
}

func printResult(result *transport.PlanTripResult) {
	fmt.Printf("route: %.1f miles, %.1f hours\n",
		result.Route.TotalDistanceMiles, result.Route.TotalDurationHours)
	fmt.Printf("summary: %.2fh driving, %.2fh on duty, %d day(s)\n",
		result.Summary.TotalDrivingHours, result.Summary.TotalOnDutyHours, result.Summary.TripDays)

	for _, stop := range result.Stops {
		fmt.Printf("stop: %-4s %s (%.4f, %.4f)\n", stop.Type, stop.Label, stop.Lat, stop.Lng)
	}
	for _, warning := range result.Warnings {
		fmt.Printf("warning: %s\n", warning)
	}

	for _, day := range result.Days {
		fmt.Printf("\n%s  OFF %.2fh  SB %.2fh  D %.2fh  ON %.2fh  %.0f miles\n",
			day.Date,
			day.Totals.OffHours, day.Totals.SleeperHours,
			day.Totals.DrivingHours, day.Totals.OnDutyHours,
			day.Miles)
		fmt.Printf("  %s\n", gridLine(day.HourlyGrid))
		for _, remark := range day.Remarks {
			fmt.Printf("  remark: %s\n", remark)
		}
	}
}

// gridLine renders the 24 hourly slots as a fixed-width row, e.g.
// "OFF OFF D   D   ON  ...".
func gridLine(grid []logbook.Status) string {
	cells := make([]string, len(grid))
	for i, status := range grid {
		cells[i] = fmt.Sprintf("%-3s", string(status))
	}
	return strings.TrimRight(strings.Join(cells, " "), " ")
}
