package guidance

import (
	"math"
	"sort"

	"github.com/gpsartgen/routeart/geoproj"
)

// ID is a stable guidance-point identifier.
type ID string

// The guidance vocabulary. GoStraight*/OffRoute are reserved for future
// live-rerouting/pacing extensions and are never emitted by Extract.
const (
	IDRunStart          ID = "RUN_START"
	IDTurnLeft10        ID = "TURN_LEFT_10"
	IDTurnLeft30        ID = "TURN_LEFT_30"
	IDTurnLeft50        ID = "TURN_LEFT_50"
	IDTurnRight10       ID = "TURN_RIGHT_10"
	IDTurnRight30       ID = "TURN_RIGHT_30"
	IDTurnRight50       ID = "TURN_RIGHT_50"
	IDSlightLeft        ID = "SLIGHT_LEFT"
	IDSlightRight       ID = "SLIGHT_RIGHT"
	IDSharpLeft         ID = "SHARP_LEFT"
	IDSharpRight        ID = "SHARP_RIGHT"
	IDUTurn             ID = "U_TURN"
	IDGoStraight50      ID = "GO_STRAIGHT_50"
	IDGoStraight100     ID = "GO_STRAIGHT_100"
	IDGoStraightLong    ID = "GO_STRAIGHT_LONG"
	IDKmMark            ID = "KM_MARK"
	IDCheckpointArrived ID = "CHECKPOINT_ARRIVED"
	IDRouteComplete     ID = "ROUTE_COMPLETE"
	IDOffRoute          ID = "OFF_ROUTE"
)

// Point is one guidance entry in the final, renumbered sequence.
type Point struct {
	Seq               int     `json:"sequence"`
	Type              string  `json:"type"` // one of "start", "turn", "km", "finish", "checkpoint", "event"
	GuidanceID        ID      `json:"guidance_id"`
	Direction         string  `json:"direction,omitempty"` // "straight", "left", "slight_left", "sharp_right", "u_turn", ... or "" when not applicable
	Lat               float64 `json:"lat"`
	Lng               float64 `json:"lng"`
	AngleDeg          float64 `json:"angle_deg,omitempty"` // signed turn angle; 0 for start/finish/km markers
	TriggerDistanceM  float64 `json:"trigger_distance_m,omitempty"`
	DistanceFromStart float64 `json:"distance_from_start_m"`
	DistanceToNext    float64 `json:"distance_to_next_m,omitempty"`
	KmMark            int     `json:"km_mark,omitempty"` // set only on type == "km"
	ShowPace          bool    `json:"show_pace,omitempty"`
}

const kmStepM = 1000.0

var triggerCandidates = []float64{10, 30, 50}

// Extract walks polyline and produces start/turn/km/finish guidance points
// renumbered 1..K in polyline order. minWPGapM is the merging-rule gap
// (typically the request's min_wp_gap_m). targetKM is accepted for parity
// with the request shape but does not currently influence extraction.
func Extract(polyline []geoproj.LatLng, targetKM float64, minWPGapM float64) []Point {
	if len(polyline) < 2 {
		return nil
	}

	cum := cumulativeDistances(polyline)
	total := cum[len(cum)-1]

	turns := mergeTurns(classifyTurns(polyline, cum), minWPGapM)
	assignTriggerDistances(turns)

	var points []Point
	points = append(points, Point{
		Type:              "start",
		GuidanceID:        IDRunStart,
		Direction:         "straight",
		Lat:               polyline[0].Lat,
		Lng:               polyline[0].Lng,
		DistanceFromStart: 0,
	})

	for _, tn := range turns {
		points = append(points, Point{
			Type:              "turn",
			GuidanceID:        tn.id,
			Direction:         tn.direction,
			Lat:               polyline[tn.vertexIdx].Lat,
			Lng:               polyline[tn.vertexIdx].Lng,
			AngleDeg:          tn.angle,
			TriggerDistanceM:  tn.trigger,
			DistanceFromStart: tn.distFromStart,
		})
	}

	lastKm := int(math.Floor(total / kmStepM))
	for k := 1; k <= lastKm; k++ {
		d := float64(k) * kmStepM
		ll := geoproj.InterpolateAlong(polyline, d)
		points = append(points, Point{
			Type:              "km",
			GuidanceID:        IDKmMark,
			Lat:               ll.Lat,
			Lng:               ll.Lng,
			DistanceFromStart: d,
			KmMark:            k,
			ShowPace:          true,
		})
	}

	points = append(points, Point{
		Type:              "finish",
		GuidanceID:        IDRouteComplete,
		Lat:               polyline[len(polyline)-1].Lat,
		Lng:               polyline[len(polyline)-1].Lng,
		DistanceFromStart: total,
	})

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].DistanceFromStart < points[j].DistanceFromStart
	})

	for i := range points {
		points[i].Seq = i + 1
		if i < len(points)-1 {
			points[i].DistanceToNext = points[i+1].DistanceFromStart - points[i].DistanceFromStart
		}
	}

	return points
}

func cumulativeDistances(polyline []geoproj.LatLng) []float64 {
	cum := make([]float64, len(polyline))
	for i := 1; i < len(polyline); i++ {
		cum[i] = cum[i-1] + geoproj.Haversine(polyline[i-1], polyline[i])
	}

	return cum
}

// turnCandidate is a classified interior-vertex turn before merging.
type turnCandidate struct {
	vertexIdx     int
	distFromStart float64
	angle         float64
	id            ID
	direction     string
	trigger       float64 // filled in by assignTriggerDistances
}

func classifyTurns(polyline []geoproj.LatLng, cum []float64) []turnCandidate {
	var out []turnCandidate

	for i := 1; i < len(polyline)-1; i++ {
		inBearing := geoproj.Bearing(polyline[i-1], polyline[i])
		outBearing := geoproj.Bearing(polyline[i], polyline[i+1])
		angle := geoproj.NormalizeAngleSigned(outBearing - inBearing)
		abs := math.Abs(angle)

		if abs < 15 {
			continue
		}

		left := angle < 0
		direction, idBase := classifyCategory(abs, left)

		out = append(out, turnCandidate{
			vertexIdx:     i,
			distFromStart: cum[i],
			angle:         angle,
			id:            idBase,
			direction:     direction,
		})
	}

	return out
}

// classifyCategory maps |angle| and turn side to a direction label and a
// base guidance ID. TURN_LEFT/TURN_RIGHT IDs get their trigger-distance
// suffix applied later, in assignTriggerDistances.
func classifyCategory(abs float64, left bool) (direction string, id ID) {
	switch {
	case abs < 30:
		if left {
			return "slight_left", IDSlightLeft
		}

		return "slight_right", IDSlightRight
	case abs < 60:
		if left {
			return "left", IDTurnLeft30 // placeholder base; suffix corrected below
		}

		return "right", IDTurnRight30
	case abs < 150:
		if left {
			return "sharp_left", IDSharpLeft
		}

		return "sharp_right", IDSharpRight
	default:
		return "u_turn", IDUTurn
	}
}

// mergeTurns applies the same-sign, within-minWPGapM merging rule: of two
// consecutive turns that qualify, only the one with the larger |angle|
// survives.
func mergeTurns(turns []turnCandidate, minWPGapM float64) []turnCandidate {
	if len(turns) == 0 {
		return nil
	}

	out := []turnCandidate{turns[0]}
	for _, t := range turns[1:] {
		last := &out[len(out)-1]
		sameSign := (t.angle < 0) == (last.angle < 0)
		withinGap := t.distFromStart-last.distFromStart <= minWPGapM

		if sameSign && withinGap {
			if math.Abs(t.angle) > math.Abs(last.angle) {
				*last = t
			}

			continue
		}

		out = append(out, t)
	}

	return out
}

// assignTriggerDistances sets each turn's trigger distance by looking at
// the gap to the previous guidance point (the prior turn, or the start),
// picking the largest candidate in {10, 30, 50} not exceeding that gap; a
// gap smaller than every candidate falls back to the smallest (10). U-turns
// always use a fixed trigger distance of 15. Turns in the 30-60 degree
// bracket also get their TURN_LEFT/TURN_RIGHT id suffixed by the chosen
// trigger distance.
func assignTriggerDistances(turns []turnCandidate) {
	prevDist := 0.0
	for i := range turns {
		t := &turns[i]
		gap := t.distFromStart - prevDist
		prevDist = t.distFromStart

		if t.id == IDUTurn {
			t.trigger = 15
			continue
		}

		t.trigger = pickTrigger(gap)

		switch t.id {
		case IDTurnLeft30:
			t.id = turnLeftID(t.trigger)
		case IDTurnRight30:
			t.id = turnRightID(t.trigger)
		}
	}
}

func pickTrigger(gap float64) float64 {
	best := triggerCandidates[0]
	for _, c := range triggerCandidates {
		if c <= gap {
			best = c
		}
	}

	return best
}

func turnLeftID(trigger float64) ID {
	switch trigger {
	case 30:
		return IDTurnLeft30
	case 50:
		return IDTurnLeft50
	default:
		return IDTurnLeft10
	}
}

func turnRightID(trigger float64) ID {
	switch trigger {
	case 30:
		return IDTurnRight30
	case 50:
		return IDTurnRight50
	default:
		return IDTurnRight10
	}
}
