package model

import "time"

// ParkingLot is a physical parking facility inside a city.  The lot
// owns a collection of spots; the actual spot row count is the
// authoritative capacity while MaxSpots records the configured target
// used when the lot was provisioned.
//
// Fields:
//  ID                – primary key identifier.
//  CityID            – city the lot belongs to.
//  LocationName      – human-friendly name of the location.
//  Address           – street address.
//  PinCode           – postal code.
//  PricePerHourCents – hourly parking rate in cents.
//  MaxSpots          – capacity target configured by the admin.
//  CreatedAt         – creation timestamp.
type ParkingLot struct {
	ID                uint64    // parking_lots.id
	CityID            uint64    // parking_lots.city_id
	LocationName      string    // parking_lots.location_name
	Address           string    // parking_lots.address
	PinCode           string    // parking_lots.pin_code
	PricePerHourCents uint32    // parking_lots.price_per_hour_cents
	MaxSpots          uint32    // parking_lots.max_spots
	CreatedAt         time.Time // parking_lots.created_at
}
