package routeassembly

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/gpsartgen/routeart/fitloop"
	"github.com/gpsartgen/routeart/geoproj"
	"github.com/gpsartgen/routeart/guidance"
	"github.com/gpsartgen/routeart/routeerrors"
	"github.com/gpsartgen/routeart/shaperoute"
)

// lengthAgreementTolerance is the maximum fractional disagreement allowed
// between a polyline's haversine length and the routed edge-length sum.
const lengthAgreementTolerance = 0.005

// Metrics summarizes the fitted route.
type Metrics struct {
	Nodes        int     `json:"nodes"`
	RouteLengthM float64 `json:"route_length_m"`
	TargetKM     float64 `json:"target_km"`
	Matched      bool    `json:"matched"`
}

// Guidance wraps the ordered guidance point list for the response envelope.
type Guidance struct {
	GuidancePoints []guidance.Point `json:"guidance_points"`
}

// Response is the final `{metrics, geojson, guidance, saved}` payload.
type Response struct {
	Metrics  Metrics                    `json:"metrics"`
	GeoJSON  *geojson.FeatureCollection `json:"geojson"`
	Guidance Guidance                   `json:"guidance"`
	Saved    *string                    `json:"saved"`
}

// Assemble builds the final Response from a fitted route, its guidance
// points, and request context. It returns routeerrors.KindInternal if the
// routed polyline's haversine length disagrees with the sum of its edge
// lengths by more than lengthAgreementTolerance.
func Assemble(fit fitloop.Result, guidancePoints []guidance.Point, templateName, alignMode string, targetKM float64, saved *string) (Response, error) {
	route := fit.Route

	if err := validateLengthAgreement(route); err != nil {
		return Response{}, err
	}

	fc := geojson.NewFeatureCollection()
	feature := geojson.NewFeature(routeToLineString(route.Polyline))
	feature.Properties = geojson.Properties{
		"template":   templateName,
		"align_mode": alignMode,
		"matched":    fit.Matched,
		"scale_used": fit.ScaleUsed,
		"name":       templateName,
	}
	fc.Append(feature)

	return Response{
		Metrics: Metrics{
			Nodes:        len(route.Nodes),
			RouteLengthM: route.LengthM,
			TargetKM:     targetKM,
			Matched:      fit.Matched,
		},
		GeoJSON:  fc,
		Guidance: Guidance{GuidancePoints: guidancePoints},
		Saved:    saved,
	}, nil
}

func routeToLineString(polyline []geoproj.LatLng) orb.LineString {
	ls := make(orb.LineString, len(polyline))
	for i, p := range polyline {
		ls[i] = orb.Point{p.Lng, p.Lat}
	}

	return ls
}

func validateLengthAgreement(route shaperoute.RoutedPath) error {
	if len(route.Polyline) < 2 {
		return nil
	}

	haversineLen := geoproj.PolylineLength(route.Polyline)
	diff := math.Abs(haversineLen - route.LengthM)

	if route.LengthM > 0 && diff/route.LengthM > lengthAgreementTolerance {
		return routeerrors.New(routeerrors.KindInternal,
			"routed polyline haversine length %.2fm disagrees with edge-length sum %.2fm by more than %.1f%%",
			haversineLen, route.LengthM, lengthAgreementTolerance*100)
	}

	return nil
}
