// Package gtfsrt exports FCD traces as GTFS-Realtime VehiclePositions feeds.
//
// Every (timestep, vehicle) pair becomes one FeedEntity whose timestamp is
// the export epoch plus the timestep time. Coordinates, bearing and speed are
// copied from the vehicle's attributes when they parse as numbers.
package gtfsrt
