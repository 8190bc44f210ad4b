package main

import (
	"chat-pair/repositories"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"
)

type Config struct {
	BadgerFilepath string `envconfig:"BADGER_FILEPATH" required:"true"`
	Limit          int    `envconfig:"LIMIT" default:"50"`
	Colours        bool   `envconfig:"COLOURS" default:"true"`
}

var eventColours = map[string]color.Color{
	"pair_formed":            color.FgGreen,
	"chat_ended":             color.FgYellow,
	"search_started":         color.FgCyan,
	"search_cancelled":       color.FgGray,
	"delivery_failed":        color.FgRed,
	"inconsistency_detected": color.FgLightRed,
}

func main() {
	_ = godotenv.Load()
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		log.Fatal("Invalid config: ", err)
	}

	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	repository := repositories.NewJournalRepository(db, slog.Default(), 0)
	entries, next, err := repository.List(config.Limit, nil)
	if err != nil {
		log.Fatal(err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"At", "Event", "Handle", "Partner", "Reason", "ID"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, entry := range entries {
		table.Append([]string{
			entry.At.Format("2006-01-02 15:04:05"),
			paint(config.Colours, entry.Event),
			strconv.FormatInt(entry.Handle, 10),
			partnerOf(entry.Partner),
			entry.Reason,
			// First segment is enough to tell entries apart.
			strings.SplitN(entry.ID.String(), "-", 2)[0],
		})
	}
	table.Render()

	if next != nil {
		fmt.Printf("\n%d entries shown, more available\n", len(entries))
	}
}

func paint(enabled bool, event string) string {
	c, ok := eventColours[event]
	if !enabled || !ok {
		return event
	}
	return c.Render(event)
}

func partnerOf(partner int64) string {
	if partner == 0 {
		return "-"
	}
	return strconv.FormatInt(partner, 10)
}
