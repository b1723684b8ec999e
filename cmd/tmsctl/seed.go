package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/tms/backend/internal/application/freight"
	"github.com/tms/backend/internal/application/warehouse"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load fake bookings into a tenant",
	Long: `Load demo data into a tenant.

Creates a warehouse when the tenant has none, then the requested number of
bookings. Import bookings get containers with product lines; export bookings
get empty containers awaiting allocation. Every other booking is confirmed.

Example:
  tmsctl seed --tenant acme --bookings 20
  tmsctl seed --tenant acme --bookings 5 --seed 42`,
	RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
		flags := cmd.Flags()
		sub, _ := flags.GetString("tenant")
		count, _ := flags.GetInt("bookings")
		seed, _ := flags.GetUint64("seed")
		if count < 1 {
			return fmt.Errorf("--bookings must be at least 1")
		}

		ctx := cmd.Context()
		tenant, err := a.services.Tenant.ResolveBySubdomain(ctx, sub)
		if err != nil {
			return err
		}
		if !tenant.IsActive() {
			return fmt.Errorf("tenant %s is %s", tenant.Subdomain, tenant.Status)
		}

		f := gofakeit.New(seed)
		warehouseID, err := seedWarehouse(cmd, a, tenant.ID, f)
		if err != nil {
			return err
		}

		var stats seedStats
		for _, plan := range planBookings(f, count) {
			if err := applyBooking(cmd, a, tenant.ID, warehouseID, plan, &stats); err != nil {
				return err
			}
		}
		a.log.Info("Seed complete",
			zap.String("tenant", tenant.Subdomain),
			zap.Int("bookings", stats.bookings),
			zap.Int("containers", stats.containers),
			zap.Int("product_lines", stats.lines),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d bookings, %d containers, %d product lines into %s\n",
			stats.bookings, stats.containers, stats.lines, tenant.Subdomain)
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().String("tenant", "", "Tenant subdomain")
	seedCmd.Flags().Int("bookings", 10, "Number of bookings to create")
	seedCmd.Flags().Uint64("seed", 0, "Random seed; 0 picks a random one")
	_ = seedCmd.MarkFlagRequired("tenant")
}

type seedStats struct {
	bookings, containers, lines int
}

type bookingPlan struct {
	request    freight.CreateBookingRequest
	confirm    bool
	containers []containerPlan
}

type containerPlan struct {
	request freight.CreateContainerRequest
	lines   []freight.CreateProductLineRequest
}

var (
	seedSizes     = []string{"20GP", "40GP", "40HC", "45HC", "20RF", "40RF"}
	seedUnits     = []string{"pcs", "ctn", "plt", "kg"}
	seedLines     = []string{"Maersk", "MSC", "CMA CGM", "COSCO", "Hapag-Lloyd", "ONE", "Evergreen"}
	seedPorts     = []string{"CNSHA", "SGSIN", "NLRTM", "DEHAM", "USLAX", "AEJEA", "MYPKG", "ZADUR"}
	seedOwnerCode = []string{"MSC", "MAE", "CMA", "COS", "HLC", "ONE", "EGH", "TGH"}
)

// planBookings builds n bookings without touching the database. Every third
// booking is an export; even-numbered ones are confirmed.
func planBookings(f *gofakeit.Faker, n int) []bookingPlan {
	plans := make([]bookingPlan, 0, n)
	for i := 0; i < n; i++ {
		direction := "import"
		if i%3 == 2 {
			direction = "export"
		}
		eta := time.Now().UTC().Add(time.Duration(f.Number(1, 30)) * 24 * time.Hour).Truncate(time.Hour)
		etd := eta.Add(-time.Duration(f.Number(10, 40)) * 24 * time.Hour)

		plan := bookingPlan{
			request: freight.CreateBookingRequest{
				Direction: direction,
				BookingDetailsInput: freight.BookingDetailsInput{
					CustomerName:      f.Company(),
					CustomerReference: "PO-" + f.DigitN(6),
					ShippingLine:      f.RandomString(seedLines),
					VesselName:        strings.ToUpper(f.LastName()) + " " + f.RandomString([]string{"EXPRESS", "BRIDGE", "STAR", "HORIZON"}),
					VoyageNumber:      f.DigitN(3) + f.LetterN(1),
					PortOfLoading:     f.RandomString(seedPorts),
					PortOfDischarge:   f.RandomString(seedPorts),
					ETA:               &eta,
					ETD:               &etd,
				},
			},
			confirm: i%2 == 0,
		}

		for c := f.Number(1, 3); c > 0; c-- {
			cp := containerPlan{request: freight.CreateContainerRequest{
				ContainerNumber: fakeContainerNumber(f),
				Size:            f.RandomString(seedSizes),
				SealNumber:      strings.ToUpper(f.LetterN(2)) + f.DigitN(7),
			}}
			if direction == "import" {
				for l := f.Number(1, 4); l > 0; l-- {
					weight := decimal.NewFromFloat(f.Float64Range(50, 2000)).Round(2)
					cbm := decimal.NewFromFloat(f.Float64Range(0.5, 20)).Round(3)
					cp.lines = append(cp.lines, freight.CreateProductLineRequest{
						SKU:              "SKU-" + strings.ToUpper(f.LetterN(3)) + "-" + f.DigitN(4),
						ExpectedQuantity: decimal.NewFromInt(int64(f.Number(10, 500))),
						ProductLineInput: freight.ProductLineInput{
							Description: f.ProductName(),
							Unit:        f.RandomString(seedUnits),
							WeightKg:    &weight,
							CBM:         &cbm,
							BatchNumber: "B" + f.DigitN(6),
						},
					})
				}
			}
			plan.containers = append(plan.containers, cp)
		}
		plans = append(plans, plan)
	}
	return plans
}

// fakeContainerNumber returns a random ISO 6346 number with a valid check digit
func fakeContainerNumber(f *gofakeit.Faker) string {
	prefix := f.RandomString(seedOwnerCode) + "U" + f.DigitN(6)
	return fmt.Sprintf("%s%d", prefix, valueobject.ContainerCheckDigit(prefix))
}

func seedWarehouse(cmd *cobra.Command, a *app, tenantID uuid.UUID, f *gofakeit.Faker) (uuid.UUID, error) {
	existing, err := a.services.Warehouse.List(cmd.Context(), tenantID, shared.Filter{Page: 1, PageSize: 1})
	if err != nil {
		return uuid.Nil, err
	}
	if len(existing.Items) > 0 {
		return existing.Items[0].ID, nil
	}
	capacity := decimal.NewFromInt(int64(f.Number(2000, 20000)))
	wh, err := a.services.Warehouse.Create(cmd.Context(), tenantID, uuid.Nil, warehouse.CreateWarehouseRequest{
		Code:         "WH-" + strings.ToUpper(f.LetterN(3)),
		Name:         f.City() + " Distribution Center",
		Address:      f.Street(),
		City:         f.City(),
		Country:      f.Country(),
		ContactName:  f.Name(),
		ContactPhone: f.Phone(),
		CapacityCBM:  &capacity,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("create warehouse: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Created warehouse %s\n", wh.Code)
	return wh.ID, nil
}

func applyBooking(cmd *cobra.Command, a *app, tenantID, warehouseID uuid.UUID, plan bookingPlan, stats *seedStats) error {
	ctx := cmd.Context()
	plan.request.WarehouseID = warehouseID
	b, err := a.services.Booking.Create(ctx, tenantID, uuid.Nil, plan.request)
	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	stats.bookings++

	for _, cp := range plan.containers {
		cp.request.BookingID = b.ID
		c, err := a.services.Container.Create(ctx, tenantID, uuid.Nil, cp.request)
		if err != nil {
			return fmt.Errorf("create container on %s: %w", b.BookingNumber, err)
		}
		stats.containers++
		for _, line := range cp.lines {
			line.ContainerID = c.ID
			if _, err := a.services.ProductLine.Create(ctx, tenantID, uuid.Nil, line); err != nil {
				return fmt.Errorf("create product line on %s: %w", c.ContainerNumber, err)
			}
			stats.lines++
		}
	}

	if plan.confirm {
		if _, err := a.services.Booking.Confirm(ctx, tenantID, b.ID); err != nil {
			return fmt.Errorf("confirm booking %s: %w", b.BookingNumber, err)
		}
	}
	return nil
}
