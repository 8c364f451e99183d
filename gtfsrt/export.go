package gtfsrt

import (
	"fmt"
	"math"
	"os"
	"strconv"

	gtfsrtpb "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/fcd-window/fcd"
)

const gtfsRealtimeVersion = "2.0"

// Options controls how FCD records map onto GTFS-RT fields.
type Options struct {
	// Epoch is the unix time that timestep time 0 maps to.
	Epoch int64
	// Geo reads x/y as longitude/latitude when lon/lat are absent.
	Geo bool
}

// ExportError reports a failure to encode or write a GTFS-RT feed.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export gtfs-rt %s: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// BuildFeed converts a trace into a FULL_DATASET FeedMessage.
func BuildFeed(t fcd.Trace, opts Options) *gtfsrtpb.FeedMessage {
	var latest float64
	entities := make([]*gtfsrtpb.FeedEntity, 0, t.VehicleCount())
	for _, ts := range t.Timesteps {
		if ts.Time > latest {
			latest = ts.Time
		}
		stamp := epochSeconds(opts.Epoch, ts.Time)
		for _, v := range ts.Vehicles {
			entities = append(entities, &gtfsrtpb.FeedEntity{
				Id: proto.String(v.ID + "@" + fcd.FormatTime(ts.Time)),
				Vehicle: &gtfsrtpb.VehiclePosition{
					Vehicle: &gtfsrtpb.VehicleDescriptor{
						Id:    proto.String(v.ID),
						Label: proto.String(v.ID),
					},
					Position:  position(v, opts.Geo),
					Timestamp: proto.Uint64(stamp),
				},
			})
		}
	}
	return &gtfsrtpb.FeedMessage{
		Header: &gtfsrtpb.FeedHeader{
			GtfsRealtimeVersion: proto.String(gtfsRealtimeVersion),
			Incrementality:      gtfsrtpb.FeedHeader_FULL_DATASET.Enum(),
			Timestamp:           proto.Uint64(epochSeconds(opts.Epoch, latest)),
		},
		Entity: entities,
	}
}

// Marshal encodes the feed for t as protobuf bytes.
func Marshal(t fcd.Trace, opts Options) ([]byte, error) {
	return proto.Marshal(BuildFeed(t, opts))
}

// ExportFile writes the feed for t to path.
func ExportFile(path string, t fcd.Trace, opts Options) error {
	b, err := Marshal(t, opts)
	if err != nil {
		return &ExportError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return &ExportError{Path: path, Err: err}
	}
	return nil
}

// position returns nil unless both coordinates are available, since
// latitude and longitude are required fields of Position.
func position(v fcd.Vehicle, geo bool) *gtfsrtpb.Position {
	lon, okLon := floatAttr(v, "lon")
	lat, okLat := floatAttr(v, "lat")
	if (!okLon || !okLat) && geo {
		lon, okLon = floatAttr(v, "x")
		lat, okLat = floatAttr(v, "y")
	}
	if !okLon || !okLat {
		return nil
	}
	p := &gtfsrtpb.Position{
		Latitude:  proto.Float32(float32(lat)),
		Longitude: proto.Float32(float32(lon)),
	}
	if angle, ok := floatAttr(v, "angle"); ok {
		p.Bearing = proto.Float32(float32(angle))
	}
	if speed, ok := floatAttr(v, "speed"); ok {
		p.Speed = proto.Float32(float32(speed))
	}
	return p
}

// floatAttr parses a finite numeric attribute.
func floatAttr(v fcd.Vehicle, name string) (float64, bool) {
	raw, ok := v.Attr(name)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// epochSeconds maps a shifted trace time onto unix seconds, clamped at zero.
func epochSeconds(epoch int64, t float64) uint64 {
	s := epoch + int64(math.Round(t))
	if s < 0 {
		return 0
	}
	return uint64(s)
}
