// Package fixture defines the sample dataset every practice session starts
// from: twenty subway stations and three days of transaction revenue for each.
//
// The data is static and is never modified after it has been loaded.
package fixture

import (
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// Schema returns the DDL that creates the fixture tables.
func Schema() string {
	return schemaSQL
}

// Table names, in display order.
const (
	TableStations     = "stations"
	TableTransactions = "transactions"
)

// Tables lists the fixture tables in display order.
func Tables() []string {
	return []string{TableStations, TableTransactions}
}

// Station is one row of the stations table.
type Station struct {
	ID      int64  `db:"id"`
	Name    string `db:"name"`
	Borough string `db:"borough"`
}

// Transaction is one row of the transactions table.
type Transaction struct {
	StationID int64  `db:"station_id"`
	Date      string `db:"date"`
	Revenue   int64  `db:"revenue"`
}

var stations = []Station{
	{1, "Times Sq - 42 St", "Manhattan"},
	{2, "Grand Central - 42 St", "Manhattan"},
	{3, "Flushing - Main St", "Queens"},
	{4, "Atlantic Av - Barclays Ctr", "Brooklyn"},
	{5, "Yankee Stadium - 161 St", "Bronx"},
	{6, "34 St - Penn Station", "Manhattan"},
	{7, "125 St", "Manhattan"},
	{8, "Jackson Hts - Roosevelt Av", "Queens"},
	{9, "Coney Island - Stillwell Av", "Brooklyn"},
	{10, "Fordham Rd", "Bronx"},
	{11, "Lexington Av - 59 St", "Manhattan"},
	{12, "Queensboro Plaza", "Queens"},
	{13, "Jay St - MetroTech", "Brooklyn"},
	{14, "Pelham Bay Park", "Bronx"},
	{15, "86 St", "Manhattan"},
	{16, "Astoria - Ditmars Blvd", "Queens"},
	{17, "Church Av", "Brooklyn"},
	{18, "3 Av - 149 St", "Bronx"},
	{19, "Canal St", "Manhattan"},
	{20, "Jamaica Center - Parsons/Archer", "Queens"},
}

// Reporting days and the base revenue of the first station on each day.
// Every following station earns revenueStep more than the one before it.
var days = []struct {
	date string
	base int64
}{
	{"2024-06-01", 7000},
	{"2024-06-02", 7200},
	{"2024-06-03", 7300},
}

const revenueStep = 500

// Stations returns a copy of the stations rows in id order.
func Stations() []Station {
	return append([]Station(nil), stations...)
}

// Transactions returns the transactions rows: for each station in id order,
// one row per reporting day.
func Transactions() []Transaction {
	out := make([]Transaction, 0, len(stations)*len(days))
	for i, st := range stations {
		for _, d := range days {
			out = append(out, Transaction{
				StationID: st.ID,
				Date:      d.date,
				Revenue:   d.base + int64(i)*revenueStep,
			})
		}
	}
	return out
}

// Dates returns the reporting days in order.
func Dates() []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = d.date
	}
	return out
}

// SelectAll returns the query that lists a fixture table in load order.
func SelectAll(table string) (string, error) {
	switch table {
	case TableStations:
		return "SELECT id, name, borough FROM stations ORDER BY id", nil
	case TableTransactions:
		return "SELECT station_id, date, revenue FROM transactions ORDER BY rowid", nil
	default:
		return "", fmt.Errorf("unknown fixture table %q: must be one of %v", table, Tables())
	}
}
