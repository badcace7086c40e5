package model

// City is a municipality that groups parking lots.  Lots reference a
// city by id; removing a city cascades to its lots in the admin
// workflow, never from the reservation core.
//
// Fields:
//  ID    – primary key identifier.
//  Name  – city name.
//  State – state or province the city belongs to.
type City struct {
	ID    uint64 // cities.id
	Name  string // cities.name
	State string // cities.state
}
