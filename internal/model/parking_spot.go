package model

import "time"

// Spot status codes as stored in the database.  A spot is Occupied
// exactly while an open reservation references it; this bijection is
// enforced by the reservation engine and treated as corruption when
// it does not hold.
const (
	SpotAvailable = "A" // parking_spots.status for a free spot
	SpotOccupied  = "O" // parking_spots.status for a claimed spot
)

// ParkingSpot is one unit of parkable capacity within a lot.  Status
// is the only field mutated by the reservation engine.
//
// Fields:
//  ID        – primary key identifier.
//  LotID     – lot the spot belongs to.
//  Status    – SpotAvailable or SpotOccupied.
//  CreatedAt – creation timestamp.
type ParkingSpot struct {
	ID        uint64    // parking_spots.id
	LotID     uint64    // parking_spots.lot_id
	Status    string    // parking_spots.status
	CreatedAt time.Time // parking_spots.created_at
}

// IsAvailable reports whether the spot can be allocated.
func (s *ParkingSpot) IsAvailable() bool { return s.Status == SpotAvailable }

// IsOccupied reports whether the spot is currently claimed.
func (s *ParkingSpot) IsOccupied() bool { return s.Status == SpotOccupied }

// StatusLabel converts the single-letter status code into the label
// used in API responses.
func (s *ParkingSpot) StatusLabel() string {
	if s.Status == SpotOccupied {
		return "Occupied"
	}
	return "Available"
}
