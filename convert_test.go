package main

import (
	"testing"
	"time"
)

func TestConvertGenericReservation(t *testing.T) {
	res := &Reservation{
		Type:              "EventReservation",
		ReservationNumber: "ABC123",
		ReservationFor: &ReservationFor{
			Type:      "Event",
			Name:      "Spring Concert",
			StartTime: schemaTime(t, "2024-04-01T19:00:00Z"),
			EndTime:   schemaTime(t, "2024-04-01T22:00:00Z"),
			Location: &Place{
				Address: &Address{AddressLocality: "Dublin", AddressCountry: "Ireland"},
				Geo:     &Geo{Latitude: 53.35, Longitude: -6.26},
			},
		},
		PotentialAction: []Action{
			{Type: "CancelAction", Target: "https://example.com/cancel"},
		},
	}

	event := convertReservation(res)
	if event == nil {
		t.Fatal("got nil event")
	}
	if event.UID == "" {
		t.Error("event has no UID")
	}
	if event.Summary != "Spring Concert" {
		t.Errorf("got summary %q", event.Summary)
	}
	if !event.Start.Equal(time.Date(2024, 4, 1, 19, 0, 0, 0, time.UTC)) {
		t.Errorf("got start %v", event.Start)
	}
	if !event.End.Equal(time.Date(2024, 4, 1, 22, 0, 0, 0, time.UTC)) {
		t.Errorf("got end %v", event.End)
	}
	if event.AllDay {
		t.Error("timed event flagged all-day")
	}
	if event.Location != "Dublin. Ireland" {
		t.Errorf("got location %q", event.Location)
	}
	if event.Geo == nil || event.Geo.Latitude != 53.35 {
		t.Errorf("got geo %+v", event.Geo)
	}
	wantDesc := "Reservation number: ABC123\nCancel: https://example.com/cancel"
	if event.Description != wantDesc {
		t.Errorf("got description %q, want %q", event.Description, wantDesc)
	}
}

func TestConvertFlightReservation(t *testing.T) {
	res := &Reservation{
		Type:              "FlightReservation",
		ReservationNumber: "XYZ789",
		ReservationFor: &ReservationFor{
			Type:         "Flight",
			Airline:      &Airline{IATACode: "EI"},
			FlightNumber: "123",
			DepartureAirport: &Place{
				Name:     "Dublin Airport",
				IATACode: "DUB",
				Geo:      &Geo{Latitude: 53.4264, Longitude: -6.2499},
				Address:  &Address{AddressCountry: "Ireland"},
			},
			ArrivalAirport: &Place{
				Name:     "Charles de Gaulle",
				IATACode: "CDG",
			},
			DepartureTerminal: "2",
			DepartureTime:     schemaTime(t, "2024-05-01T10:00:00+01:00"),
			ArrivalTime:       schemaTime(t, "2024-05-01T13:00:00+02:00"),
		},
	}

	event := convertReservation(res)
	if event == nil {
		t.Fatal("got nil event")
	}
	wantSummary := "Flight EI123: Dublin Airport (DUB) to Charles de Gaulle (CDG)"
	if event.Summary != wantSummary {
		t.Errorf("got summary %q, want %q", event.Summary, wantSummary)
	}
	if event.Location != "Terminal 2, Dublin Airport (DUB), Ireland" {
		t.Errorf("got location %q", event.Location)
	}
	if !event.Start.Equal(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("got start %v", event.Start)
	}
	if !event.End.Equal(time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC)) {
		t.Errorf("got end %v", event.End)
	}
	if event.Geo == nil || event.Geo.Latitude != 53.4264 {
		t.Errorf("got geo %+v, want departure airport coordinates", event.Geo)
	}
	wantDesc := wantSummary + "\nReservation number: XYZ789"
	if event.Description != wantDesc {
		t.Errorf("got description %q, want %q", event.Description, wantDesc)
	}
}

func TestConvertFlightDepartureDay(t *testing.T) {
	res := &Reservation{
		Type: "FlightReservation",
		ReservationFor: &ReservationFor{
			Type:         "Flight",
			DepartureDay: schemaTime(t, "2024-05-01"),
			ArrivalAirport: &Place{
				IATACode: "CDG",
			},
		},
	}
	event := convertReservation(res)
	if event == nil {
		t.Fatal("got nil event")
	}
	if !event.AllDay {
		t.Error("departure-day flight not flagged all-day")
	}
	// No departure airport: the summary leads straight into "to".
	if event.Summary != "Flight:  to CDG" {
		t.Errorf("got summary %q", event.Summary)
	}
}

func TestConvertFlightNoTimes(t *testing.T) {
	res := &Reservation{
		Type: "FlightReservation",
		ReservationFor: &ReservationFor{
			Type:         "Flight",
			FlightNumber: "123",
		},
	}
	if event := convertReservation(res); event != nil {
		t.Errorf("got event %+v, want nil for flight without any time", event)
	}
}

func TestConvertFlightUnknownArrival(t *testing.T) {
	res := &Reservation{
		Type: "FlightReservation",
		ReservationFor: &ReservationFor{
			Type:             "Flight",
			DepartureAirport: &Place{IATACode: "DUB"},
			DepartureTime:    schemaTime(t, "2024-05-01T10:00:00Z"),
		},
	}
	event := convertReservation(res)
	if event == nil {
		t.Fatal("got nil event")
	}
	if event.Summary != "Flight: DUB to [unknown]" {
		t.Errorf("got summary %q", event.Summary)
	}
}

func TestConvertLodgingReservation(t *testing.T) {
	res := &Reservation{
		Type:         "LodgingReservation",
		CheckinTime:  schemaTime(t, "2024-06-01"),
		CheckoutTime: schemaTime(t, "2024-06-05"),
		ReservationFor: &ReservationFor{
			Type: "LodgingBusiness",
			Name: "Hotel Example",
		},
	}
	event := convertReservation(res)
	if event == nil {
		t.Fatal("got nil event")
	}
	if event.Summary != "Hotel Example" {
		t.Errorf("got summary %q", event.Summary)
	}
	if !event.AllDay {
		t.Error("date-only check-in not flagged all-day")
	}
	if !event.Start.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("got start %v", event.Start)
	}
	if !event.End.Equal(time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("got end %v", event.End)
	}
}

func TestConvertLodgingNoTimes(t *testing.T) {
	res := &Reservation{
		Type:           "LodgingReservation",
		ReservationFor: &ReservationFor{Type: "LodgingBusiness", Name: "Hotel"},
	}
	if event := convertReservation(res); event != nil {
		t.Errorf("got event %+v, want nil for lodging without times", event)
	}
}

func TestConvertFoodReservation(t *testing.T) {
	res := &Reservation{
		Type:              "FoodEstablishmentReservation",
		ReservationNumber: "RN1",
		PartySize:         4,
		StartTime:         schemaTime(t, "2024-04-01T19:00:00Z"),
		ReservationFor: &ReservationFor{
			Type: "FoodEstablishment",
			Name: "Cafe Blue",
		},
	}
	event := convertReservation(res)
	if event == nil {
		t.Fatal("got nil event")
	}
	if event.Summary != "Reservation at Cafe Blue" {
		t.Errorf("got summary %q", event.Summary)
	}
	wantDesc := "Reservation number: RN1\nParty size: 4"
	if event.Description != wantDesc {
		t.Errorf("got description %q, want %q", event.Description, wantDesc)
	}
}

func TestConvertTrainReservation(t *testing.T) {
	res := &Reservation{
		Type:              "TrainReservation",
		ReservationNumber: "TR42",
		ReservationFor: &ReservationFor{
			Type:              "TrainTrip",
			TrainName:         "IC",
			TrainNumber:       "504",
			DeparturePlatform: "3",
			DepartureStation:  &Place{Name: "Dublin Heuston", Geo: &Geo{Latitude: 53.346, Longitude: -6.292}},
			ArrivalStation:    &Place{Name: "Cork Kent"},
			DepartureTime:     schemaTime(t, "2024-05-02T08:00:00+01:00"),
			ArrivalTime:       schemaTime(t, "2024-05-02T10:30:00+01:00"),
		},
	}
	event := convertReservation(res)
	if event == nil {
		t.Fatal("got nil event")
	}
	if event.Summary != "Train IC 504: Dublin Heuston to Cork Kent" {
		t.Errorf("got summary %q", event.Summary)
	}
	if event.Location != "Platform 3, Dublin Heuston" {
		t.Errorf("got location %q", event.Location)
	}
	if event.Geo == nil || event.Geo.Latitude != 53.346 {
		t.Errorf("got geo %+v, want departure station coordinates", event.Geo)
	}
}

func TestEventIsValid(t *testing.T) {
	if eventIsValid(nil) {
		t.Error("nil event reported valid")
	}
	if eventIsValid(&Event{Summary: "No start"}) {
		t.Error("event without start reported valid")
	}
	if eventIsValid(&Event{Start: time.Now()}) {
		t.Error("event without summary reported valid")
	}
	if !eventIsValid(&Event{Summary: "Ok", Start: time.Now()}) {
		t.Error("complete event reported invalid")
	}
}

func TestEventTimeKey(t *testing.T) {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	a := &Event{Start: start, End: start.Add(2 * time.Hour)}
	b := &Event{Start: start.In(time.FixedZone("CET", 3600)), End: start.Add(2 * time.Hour)}
	if a.timeKey() != b.timeKey() {
		t.Error("same instants in different zones produced different keys")
	}
	c := &Event{Start: start}
	if a.timeKey() == c.timeKey() {
		t.Error("different ends produced the same key")
	}
}

func TestConflictWindow(t *testing.T) {
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	// All-day with no end widens to the whole day.
	start, end := (&Event{Start: day, AllDay: true}).conflictWindow()
	if !start.Equal(day) || !end.Equal(day.AddDate(0, 0, 1)) {
		t.Errorf("got window %v to %v", start, end)
	}

	// All-day with a date end widens through the end day.
	checkout := time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC)
	start, end = (&Event{Start: day, End: checkout, AllDay: true}).conflictWindow()
	if !start.Equal(day) || !end.Equal(checkout.AddDate(0, 0, 1)) {
		t.Errorf("got window %v to %v", start, end)
	}

	// A timed event with no end gets a one-second window around it.
	at := time.Date(2024, 6, 1, 19, 0, 0, 0, time.UTC)
	start, end = (&Event{Start: at}).conflictWindow()
	if !start.Equal(at.Add(-time.Second)) || !end.Equal(at.Add(time.Second)) {
		t.Errorf("got window %v to %v", start, end)
	}

	// A fully timed event is used as is.
	start, end = (&Event{Start: at, End: at.Add(time.Hour)}).conflictWindow()
	if !start.Equal(at) || !end.Equal(at.Add(time.Hour)) {
		t.Errorf("got window %v to %v", start, end)
	}
}
