package services

import (
	"time"
	_ "time/tzdata" // Asia/Kolkata must resolve on hosts without zoneinfo
)

// TimestampLayout renders as DD-MM-YYYY hh:mm:ss AM/PM
const TimestampLayout = "02-01-2006 03:04:05 PM"

var istLocation = mustLoadLocation("Asia/Kolkata")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// FormatTimestamp renders t in Indian Standard Time
func FormatTimestamp(t time.Time) string {
	return t.In(istLocation).Format(TimestampLayout)
}

// NowIST returns the current time formatted for the ledger
func NowIST() string {
	return FormatTimestamp(time.Now())
}
