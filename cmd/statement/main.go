/*
main.go - Monthly statement CLI

PURPOSE:

	Prints a roster's monthly allowance statement straight from the database,
	for payroll review without the web UI.

USAGE:

	statement -db=./data/roster.db -roster=roster-2024 -month=2024-03

FLAGS:

	-db             SQLite database path
	-roster         Roster id to report on
	-month          Target month as YYYY-MM
	-offshore-rate  Flat offshore daily rate override
	-medevac-rate   Flat per-day medevac rate override
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"github.com/meridian/rotation-engine/rotation"
	"github.com/meridian/rotation-engine/store/sqlite"
)

func main() {
	dbPath := flag.String("db", "roster.db", "SQLite database path")
	rosterID := flag.String("roster", "", "roster id")
	monthFlag := flag.String("month", "", "target month as YYYY-MM")
	offshoreRate := flag.String("offshore-rate", "", "flat offshore daily rate override")
	medevacRate := flag.String("medevac-rate", "", "flat per-day medevac rate override")
	flag.Parse()

	if *rosterID == "" || *monthFlag == "" {
		flag.Usage()
		os.Exit(2)
	}

	target, err := time.Parse("2006-01", *monthFlag)
	if err != nil {
		log.Fatalf("Invalid -month %q: want YYYY-MM", *monthFlag)
	}

	rates := rotation.DefaultRates()
	if *offshoreRate != "" {
		d, err := decimal.NewFromString(*offshoreRate)
		if err != nil {
			log.Fatalf("Invalid -offshore-rate: %v", err)
		}
		rates.OffshoreDaily = d
	}
	if *medevacRate != "" {
		d, err := decimal.NewFromString(*medevacRate)
		if err != nil {
			log.Fatalf("Invalid -medevac-rate: %v", err)
		}
		rates.MedevacPerDay = d
	}

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	rows, err := store.ListRowsByRoster(context.Background(), *rosterID)
	if err != nil {
		log.Fatalf("Failed to load roster: %v", err)
	}

	pivot, warnings := rotation.BuildPivot(rows)
	stmtRows, totals := rotation.BuildStatement(pivot, target.Year(), target.Month(), rates)

	header := color.New(color.FgCyan, color.Bold)
	warn := color.New(color.FgYellow)
	total := color.New(color.FgGreen, color.Bold)

	header.Printf("Allowance statement for roster %s, %s\n\n", *rosterID, target.Format("January 2006"))

	for _, w := range warnings {
		warn.Printf("warning: %s\n", w)
	}
	if len(warnings) > 0 {
		fmt.Println()
	}

	if len(stmtRows) == 0 {
		fmt.Println("No crew with cycles in this month.")
		return
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CREW\tTRADE\tOFFSHORE\tRELIEF\tSTANDBY\tMEDEVAC\tTOTAL")
	for _, row := range stmtRows {
		fmt.Fprintf(tw, "%s\t%s\t%dd %s\t%dd %s\t%dd %s\t%d %s\t%s\n",
			row.CrewName,
			row.Trade,
			row.OffshoreDays, row.OffshoreTotal.StringFixed(2),
			row.ReliefDays, row.ReliefAmount.StringFixed(2),
			row.StandbyDays, row.StandbyAmount.StringFixed(2),
			row.MedevacDays, row.MedevacTotal.StringFixed(2),
			row.GrandTotal.StringFixed(2),
		)
	}
	tw.Flush()

	fmt.Println()
	total.Printf("%d crew: offshore %s, relief %s, standby %s, medevac %s, grand total %s\n",
		totals.CrewCount,
		totals.Offshore.StringFixed(2),
		totals.Relief.StringFixed(2),
		totals.Standby.StringFixed(2),
		totals.Medevac.StringFixed(2),
		totals.Grand.StringFixed(2),
	)
}
