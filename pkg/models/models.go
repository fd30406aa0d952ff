package models

import (
	"encoding/json"
)

// NotAvailable is the placeholder used for any field missing from the page
const NotAvailable = "N/A"

// Error messages emitted in place of a class record
const (
	ErrClassNumberRequired = "Class number required"
	ErrClassNotFound       = "Class not found"
	ErrInvalidConfig       = "Invalid configuration"
)

// SeatStatus reports whether a class section has open seats
type SeatStatus string

const (
	SeatsOpen   SeatStatus = "Open"
	SeatsClosed SeatStatus = "Closed"
)

// ClassRecord represents a single class section scraped from the catalog
type ClassRecord struct {
	Course      string     `json:"course"`
	Title       string     `json:"title"`
	Number      string     `json:"number"`
	Instructors []string   `json:"instructors"`
	Days        string     `json:"days"`
	Time        string     `json:"time"`
	Location    string     `json:"location"`
	Dates       string     `json:"dates"`
	Units       string     `json:"units"`
	SeatStatus  SeatStatus `json:"seatStatus"`
	StartTime   string     `json:"startTime"`
	EndTime     string     `json:"endTime"`
}

// Result is the outcome of a lookup: either a record or an error message
type Result struct {
	Record *ClassRecord
	Err    string
}

// Found wraps a record in a Result
func Found(record ClassRecord) Result {
	if record.Instructors == nil {
		record.Instructors = []string{}
	}
	return Result{Record: &record}
}

// NotFound is the sentinel result for a class that could not be extracted
func NotFound() Result {
	return Result{Err: ErrClassNotFound}
}

// InputError is returned when no class number was supplied
func InputError() Result {
	return Result{Err: ErrClassNumberRequired}
}

// OK reports whether the result holds a class record
func (r Result) OK() bool {
	return r.Record != nil
}

// MarshalJSON emits the record as a flat object, or {"error": ...}
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Record != nil {
		return json.Marshal(r.Record)
	}
	msg := r.Err
	if msg == "" {
		msg = ErrClassNotFound
	}
	return json.Marshal(struct {
		Error string `json:"error"`
	}{Error: msg})
}
