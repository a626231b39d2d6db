package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type converterFunc func(res *Reservation) *Event

var converters = map[string]converterFunc{
	"FlightReservation":            convertFlightReservation,
	"TrainReservation":             convertTrainReservation,
	"LodgingReservation":           convertLodgingReservation,
	"FoodEstablishmentReservation": convertFoodReservation,
}

// convertReservation turns a reservation into a calendar event using the
// converter registered for its type, falling back to the generic one.
// Returns nil when the reservation carries too little information to be
// useful.
func convertReservation(res *Reservation) *Event {
	conv, ok := converters[res.Type]
	if !ok {
		conv = convertGenericReservation
	}
	return conv(res)
}

// convertGenericReservation fills in the fields every reservation type
// shares: times, location, coordinates, name and booking details.
func convertGenericReservation(res *Reservation) *Event {
	event := &Event{UID: uuid.NewString(), Status: "CONFIRMED"}

	start, end := res.StartEnd()
	if !start.IsZero() {
		event.Start = start.Time
		event.AllDay = start.DateOnly
	}
	if !end.IsZero() {
		event.End = end.Time
	}

	location, geo := res.Location()
	event.Location = location
	event.Geo = geo

	if rf := res.ReservationFor; rf != nil {
		event.Summary = rf.Name
	}

	var lines []string
	if res.ReservationNumber != "" {
		lines = append(lines, "Reservation number: "+res.ReservationNumber)
	}
	lines = append(lines, res.ActionLines()...)
	event.Description = strings.Join(lines, "\n")

	return event
}

// setBookingDescription replaces the event description with the summary
// followed by the booking details, for types whose generated summary says
// more than the bare reservation name.
func setBookingDescription(event *Event, res *Reservation) {
	if res.ReservationNumber == "" {
		return
	}
	lines := []string{event.Summary, "Reservation number: " + res.ReservationNumber}
	lines = append(lines, res.ActionLines()...)
	event.Description = strings.Join(lines, "\n")
}

// airportRepr renders an airport from whatever of its name and IATA code
// we have.
func airportRepr(name, iata string) string {
	switch {
	case name != "" && iata != "":
		return fmt.Sprintf("%s (%s)", name, iata)
	case name != "":
		return name
	case iata != "":
		return iata
	}
	return ""
}

func convertFlightReservation(res *Reservation) *Event {
	event := convertGenericReservation(res)
	rf := res.ReservationFor

	if event.Start.IsZero() {
		switch {
		case !rf.DepartureTime.IsZero():
			event.Start = rf.DepartureTime.Time
		case !rf.DepartureDay.IsZero():
			event.Start = rf.DepartureDay.Time
			event.AllDay = true
		default:
			return nil
		}
	}
	if event.End.IsZero() && !rf.ArrivalTime.IsZero() {
		// Arrival times come in the arrival airport's timezone.
		event.End = rf.ArrivalTime.Time.UTC()
	}

	var airlineIATA string
	if rf.Airline != nil {
		airlineIATA = rf.Airline.IATACode
	}
	flightIATA := airlineIATA + rf.FlightNumber

	var depName, depIATA string
	if dep := rf.DepartureAirport; dep != nil {
		depName = dep.Name
		depIATA = dep.IATACode
		if dep.Geo != nil {
			event.Geo = dep.Geo
		}
		var loc strings.Builder
		if rf.DepartureTerminal != "" {
			fmt.Fprintf(&loc, "Terminal %s, ", rf.DepartureTerminal)
		}
		loc.WriteString(depName)
		if depIATA != "" {
			fmt.Fprintf(&loc, " (%s)", depIATA)
		}
		if dep.Address != nil && dep.Address.AddressCountry != "" {
			fmt.Fprintf(&loc, ", %s", dep.Address.AddressCountry)
		}
		event.Location = loc.String()
	}

	var arrName, arrIATA string
	if arr := rf.ArrivalAirport; arr != nil {
		arrName = arr.Name
		arrIATA = arr.IATACode
	}

	var summary strings.Builder
	summary.WriteString("Flight")
	if flightIATA != "" {
		summary.WriteString(" " + flightIATA)
	}
	summary.WriteString(": ")
	summary.WriteString(airportRepr(depName, depIATA))
	summary.WriteString(" to ")
	if repr := airportRepr(arrName, arrIATA); repr != "" {
		summary.WriteString(repr)
	} else {
		summary.WriteString("[unknown]")
	}
	event.Summary = summary.String()

	setBookingDescription(event, res)
	return event
}

func convertTrainReservation(res *Reservation) *Event {
	event := convertGenericReservation(res)
	rf := res.ReservationFor

	if event.Start.IsZero() {
		switch {
		case !rf.DepartureTime.IsZero():
			event.Start = rf.DepartureTime.Time
		case !rf.DepartureDay.IsZero():
			event.Start = rf.DepartureDay.Time
			event.AllDay = true
		default:
			return nil
		}
	}
	if event.End.IsZero() && !rf.ArrivalTime.IsZero() {
		event.End = rf.ArrivalTime.Time.UTC()
	}

	train := strings.TrimSpace(strings.TrimSpace(rf.TrainName) + " " + strings.TrimSpace(rf.TrainNumber))

	var depName string
	if dep := rf.DepartureStation; dep != nil {
		depName = dep.Name
		if dep.Geo != nil {
			event.Geo = dep.Geo
		}
		var loc strings.Builder
		if rf.DeparturePlatform != "" {
			fmt.Fprintf(&loc, "Platform %s, ", rf.DeparturePlatform)
		}
		loc.WriteString(depName)
		if dep.Address != nil && dep.Address.AddressCountry != "" {
			fmt.Fprintf(&loc, ", %s", dep.Address.AddressCountry)
		}
		event.Location = loc.String()
	}
	var arrName string
	if arr := rf.ArrivalStation; arr != nil {
		arrName = arr.Name
	}

	var summary strings.Builder
	summary.WriteString("Train")
	if train != "" {
		summary.WriteString(" " + train)
	}
	summary.WriteString(": ")
	summary.WriteString(depName)
	summary.WriteString(" to ")
	if arrName != "" {
		summary.WriteString(arrName)
	} else {
		summary.WriteString("[unknown]")
	}
	event.Summary = summary.String()

	setBookingDescription(event, res)
	return event
}

func convertLodgingReservation(res *Reservation) *Event {
	event := convertGenericReservation(res)

	if event.Start.IsZero() {
		if res.CheckinTime.IsZero() {
			return nil
		}
		event.Start = res.CheckinTime.Time
		event.AllDay = res.CheckinTime.DateOnly
	}
	if event.End.IsZero() && !res.CheckoutTime.IsZero() {
		event.End = res.CheckoutTime.Time
	}
	return event
}

func convertFoodReservation(res *Reservation) *Event {
	event := convertGenericReservation(res)

	if rf := res.ReservationFor; rf != nil && rf.Name != "" {
		event.Summary = "Reservation at " + rf.Name
	}
	if res.PartySize > 0 {
		line := fmt.Sprintf("Party size: %d", res.PartySize)
		if event.Description != "" {
			event.Description += "\n" + line
		} else {
			event.Description = line
		}
	}
	return event
}

// eventIsValid reports whether an event carries enough information to be
// worth adding to a calendar: a start time and a summary.
func eventIsValid(event *Event) bool {
	return event != nil && !event.Start.IsZero() && event.Summary != ""
}
