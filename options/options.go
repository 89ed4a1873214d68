package options

import (
	"fmt"

	"github.com/gpsartgen/routeart/routeerrors"
)

// svgPathIndexAuto is the sentinel value for SVGPathIndex meaning "merge all
// sub-paths by endpoint proximity" rather than "select sub-path N".
const svgPathIndexAuto = -1

// Options is the per-request configuration bundle. Every field has a
// default applied by Parse when the corresponding key is absent from the
// input map.
type Options struct {
	SVGPathIndex      int     // sub-path index, or svgPathIndexAuto for "auto"
	SVGPathAuto       bool    // true when svg_path_index == "auto"
	SVGSamplesPerSeg  int     // samples per template segment, >= 1
	SVGSimplify       float64 // Douglas-Peucker tolerance in unit-space coordinates, >= 0
	SVGFlipY          bool
	CanvasBoxFrac     float64 // in [0, 1]
	GlobalRotDeg      float64
	SampleStepM       float64 // > 0
	MinWPGapM         float64 // > 0
	GraphRadiusM      float64 // > 0
	ReturnToStart     bool
	TolRatio          float64 // in [0, 1]
	Iters             int     // > 0
	ShapeBiasLambda   float64 // >= 0
	AnchorCount       int     // > 0
	UseAnchors        bool
	ConnectFromStart  bool
	MaxConnectorM     float64 // > 0
	ProximityAlpha    float64 // in [0, 1]
	ProximityMaxShiftM float64 // > 0
}

// Default returns the Options value used when a request supplies no
// `options` object at all.
func Default() Options {
	return Options{
		SVGPathIndex:       0,
		SVGPathAuto:        false,
		SVGSamplesPerSeg:   8,
		SVGSimplify:        0,
		SVGFlipY:           false,
		CanvasBoxFrac:      0.8,
		GlobalRotDeg:       0,
		SampleStepM:        25,
		MinWPGapM:          15,
		GraphRadiusM:       3000,
		ReturnToStart:      false,
		TolRatio:           0.1,
		Iters:              16,
		ShapeBiasLambda:    2.0,
		AnchorCount:        8,
		UseAnchors:         true,
		ConnectFromStart:   true,
		MaxConnectorM:      2000,
		ProximityAlpha:     0.5,
		ProximityMaxShiftM: 500,
	}
}

// knownKeys is the recognized `options` vocabulary; Parse rejects any key
// not in this set.
var knownKeys = map[string]bool{
	"svg_path_index": true, "svg_samples_per_seg": true, "svg_simplify": true,
	"svg_flip_y": true, "canvas_box_frac": true, "global_rot_deg": true,
	"sample_step_m": true, "min_wp_gap_m": true, "graph_radius_m": true,
	"return_to_start": true, "tol_ratio": true, "iters": true,
	"shape_bias_lambda": true, "anchor_count": true, "use_anchors": true,
	"connect_from_start": true, "max_connector_m": true,
	"proximity_alpha": true, "proximity_max_shift_m": true,
}

// Parse builds an Options from a raw JSON-decoded map, applying Default()
// for absent keys and returning routeerrors.KindBadRequest for unknown keys
// or out-of-range values.
func Parse(raw map[string]any) (Options, error) {
	for k := range raw {
		if !knownKeys[k] {
			return Options{}, routeerrors.New(routeerrors.KindBadRequest, "unknown option key %q", k)
		}
	}

	o := Default()

	if v, ok := raw["svg_path_index"]; ok {
		switch t := v.(type) {
		case string:
			if t != "auto" {
				return Options{}, routeerrors.New(routeerrors.KindBadRequest, "svg_path_index string must be \"auto\", got %q", t)
			}
			o.SVGPathAuto = true
			o.SVGPathIndex = svgPathIndexAuto
		case float64:
			if t < 0 {
				return Options{}, routeerrors.New(routeerrors.KindBadRequest, "svg_path_index must be >= 0")
			}
			o.SVGPathIndex = int(t)
		default:
			return Options{}, routeerrors.New(routeerrors.KindBadRequest, "svg_path_index must be an integer or \"auto\"")
		}
	}

	if err := parseIntField(raw, "svg_samples_per_seg", &o.SVGSamplesPerSeg, 1, 0); err != nil {
		return Options{}, err
	}
	if err := parseFloatField(raw, "svg_simplify", &o.SVGSimplify, 0, 0, false); err != nil {
		return Options{}, err
	}
	if v, ok := raw["svg_flip_y"]; ok {
		b, ok := v.(bool)
		if !ok {
			return Options{}, routeerrors.New(routeerrors.KindBadRequest, "svg_flip_y must be a boolean")
		}
		o.SVGFlipY = b
	}
	if err := parseFloatField(raw, "canvas_box_frac", &o.CanvasBoxFrac, 0, 1, true); err != nil {
		return Options{}, err
	}
	if v, ok := raw["global_rot_deg"]; ok {
		f, ok := v.(float64)
		if !ok {
			return Options{}, routeerrors.New(routeerrors.KindBadRequest, "global_rot_deg must be a number")
		}
		o.GlobalRotDeg = f
	}
	if err := parsePositiveFloatField(raw, "sample_step_m", &o.SampleStepM); err != nil {
		return Options{}, err
	}
	if err := parsePositiveFloatField(raw, "min_wp_gap_m", &o.MinWPGapM); err != nil {
		return Options{}, err
	}
	if err := parsePositiveFloatField(raw, "graph_radius_m", &o.GraphRadiusM); err != nil {
		return Options{}, err
	}
	if v, ok := raw["return_to_start"]; ok {
		b, ok := v.(bool)
		if !ok {
			return Options{}, routeerrors.New(routeerrors.KindBadRequest, "return_to_start must be a boolean")
		}
		o.ReturnToStart = b
	}
	if err := parseFloatField(raw, "tol_ratio", &o.TolRatio, 0, 1, true); err != nil {
		return Options{}, err
	}
	if err := parseIntField(raw, "iters", &o.Iters, 1, 0); err != nil {
		return Options{}, err
	}
	if err := parseFloatField(raw, "shape_bias_lambda", &o.ShapeBiasLambda, 0, 0, false); err != nil {
		return Options{}, err
	}
	if err := parseIntField(raw, "anchor_count", &o.AnchorCount, 1, 0); err != nil {
		return Options{}, err
	}
	if v, ok := raw["use_anchors"]; ok {
		b, ok := v.(bool)
		if !ok {
			return Options{}, routeerrors.New(routeerrors.KindBadRequest, "use_anchors must be a boolean")
		}
		o.UseAnchors = b
	}
	if v, ok := raw["connect_from_start"]; ok {
		b, ok := v.(bool)
		if !ok {
			return Options{}, routeerrors.New(routeerrors.KindBadRequest, "connect_from_start must be a boolean")
		}
		o.ConnectFromStart = b
	}
	if err := parsePositiveFloatField(raw, "max_connector_m", &o.MaxConnectorM); err != nil {
		return Options{}, err
	}
	if err := parseFloatField(raw, "proximity_alpha", &o.ProximityAlpha, 0, 1, true); err != nil {
		return Options{}, err
	}
	if err := parsePositiveFloatField(raw, "proximity_max_shift_m", &o.ProximityMaxShiftM); err != nil {
		return Options{}, err
	}

	return o, nil
}

// parseFloatField reads key from raw into *dst if present, validating
// dst >= lo (and dst <= hi when hasHi). A missing key leaves *dst (the
// default) untouched.
func parseFloatField(raw map[string]any, key string, dst *float64, lo, hi float64, hasHi bool) error {
	v, ok := raw[key]
	if !ok {
		return nil
	}

	f, ok := v.(float64)
	if !ok {
		return routeerrors.New(routeerrors.KindBadRequest, "%s must be a number", key)
	}
	if f < lo || (hasHi && f > hi) {
		if hasHi {
			return routeerrors.New(routeerrors.KindBadRequest, "%s must be in [%g, %g]", key, lo, hi)
		}

		return routeerrors.New(routeerrors.KindBadRequest, "%s must be >= %g", key, lo)
	}

	*dst = f

	return nil
}

// parsePositiveFloatField reads key from raw into *dst if present, requiring
// a strictly positive value. A missing key leaves *dst (the default)
// untouched.
func parsePositiveFloatField(raw map[string]any, key string, dst *float64) error {
	v, ok := raw[key]
	if !ok {
		return nil
	}

	f, ok := v.(float64)
	if !ok {
		return routeerrors.New(routeerrors.KindBadRequest, "%s must be a number", key)
	}
	if f <= 0 {
		return routeerrors.New(routeerrors.KindBadRequest, "%s must be > 0", key)
	}

	*dst = f

	return nil
}

// parseIntField reads key from raw (a JSON number) into *dst, validating
// dst >= lo (and dst <= hi when hi > 0).
func parseIntField(raw map[string]any, key string, dst *int, lo, hi int) error {
	v, ok := raw[key]
	if !ok {
		return nil
	}

	f, ok := v.(float64)
	if !ok {
		return routeerrors.New(routeerrors.KindBadRequest, "%s must be an integer", key)
	}

	n := int(f)
	if float64(n) != f {
		return routeerrors.New(routeerrors.KindBadRequest, "%s must be an integer", key)
	}
	if n < lo || (hi > 0 && n > hi) {
		return routeerrors.New(routeerrors.KindBadRequest, "%s must be >= %d", key, lo)
	}

	*dst = n

	return nil
}

// String renders o for logging.
func (o Options) String() string {
	return fmt.Sprintf("Options{anchors=%d lambda=%g tol=%g iters=%d}",
		o.AnchorCount, o.ShapeBiasLambda, o.TolRatio, o.Iters)
}
