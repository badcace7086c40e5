// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationClosedEvent is published when a parking reservation is
// released and charged.  It carries enough information for downstream
// consumers to log, notify, or feed analytics without querying the
// primary database.
type ReservationClosedEvent struct {
	ReservationID   uint64 `json:"reservation_id"`
	UserID          uint64 `json:"user_id"`
	SpotID          uint64 `json:"spot_id"`
	LotID           uint64 `json:"lot_id"`
	LotName         string `json:"lot_name"`
	VehicleNumber   string `json:"vehicle_number"`
	ParkedAt        string `json:"parked_at"`
	LeftAt          string `json:"left_at"`
	DurationMinutes uint64 `json:"duration_minutes"`
	CostCents       uint32 `json:"cost_cents"`
	ClosedAt        string `json:"closed_at"`
}
