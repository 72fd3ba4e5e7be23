/*
main.go - Command line pay calculator

PURPOSE:
  Prices one shift without a server or database. Useful for checking a
  rate file before uploading it, and for answering "what would this shift
  pay" from a terminal.

COMMANDS:
  calculate  Price a shift given by flags, print JSON
  rates      Print the effective rate table as JSON

EXAMPLES:
  paycalc calculate --date 2025-06-16 --start 12:00 --end 20:01
  paycalc calculate --date 2025-06-16 --start 22:00 --end 06:00 --sleepover --wake 3.5
  paycalc rates --rates ./rates.yaml

  Recurring national public holidays apply unless --no-holidays is given.
*/
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/warp/shift-pay-engine/api"
	"github.com/warp/shift-pay-engine/factory"
	"github.com/warp/shift-pay-engine/generic"
	"github.com/warp/shift-pay-engine/holiday"
	"github.com/warp/shift-pay-engine/payrate"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var ratesFile string

	rootCmd := &cobra.Command{
		Use:           "paycalc",
		Short:         "Shift pay calculator for disability support work",
		Long:          `Calculates staff pay and NDIS charges for a single shift using a rate file or the built-in rates.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVarP(&ratesFile, "rates", "r", "", "YAML or JSON rate file (default: built-in rates)")

	loadRates := func() (*factory.RateSettings, error) {
		rf := factory.NewRateFactory()
		if ratesFile == "" {
			return rf.Defaults(), nil
		}
		return rf.LoadRatesFile(ratesFile)
	}

	rootCmd.AddCommand(calculateCmd(loadRates))
	rootCmd.AddCommand(ratesCmd(loadRates))
	return rootCmd
}

func calculateCmd(loadRates func() (*factory.RateSettings, error)) *cobra.Command {
	var (
		fields     payrate.ShiftFields
		wake       float64
		noHolidays bool
	)

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Price one shift",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("wake") {
				fields.WakeHours = &wake
			}
			shift, err := payrate.ParseShift(fields)
			if err != nil {
				return err
			}

			settings, err := loadRates()
			if err != nil {
				return err
			}
			var cal generic.HolidayCalendar = holiday.DefaultCalendar()
			if noHolidays {
				cal = generic.NoHolidays{}
			}

			result, err := settings.Calculator(cal).Calculate(shift)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), api.NewPayResultDTO(result, 0))
		},
	}

	cmd.Flags().StringVar(&fields.Date, "date", "", "Shift date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&fields.StartTime, "start", "", "Start time (HH:MM)")
	cmd.Flags().StringVar(&fields.EndTime, "end", "", "End time (HH:MM, 24:00 allowed)")
	cmd.Flags().BoolVar(&fields.IsSleepover, "sleepover", false, "Sleepover shift")
	cmd.Flags().BoolVar(&fields.IsPublicHoliday, "public-holiday", false, "Treat the whole shift as a public holiday")
	cmd.Flags().Float64Var(&wake, "wake", 0, "Hours woken during a sleepover")
	cmd.Flags().BoolVar(&noHolidays, "no-holidays", false, "Ignore the national holiday calendar")
	cmd.MarkFlagRequired("date")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	return cmd
}

func ratesCmd(loadRates func() (*factory.RateSettings, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "rates",
		Short: "Print the effective rate table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadRates()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), api.NewRatesDTO(settings))
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
