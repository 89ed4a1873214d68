// File: parse.go
// Role: SVG XML decoding and path-data tokenizing, grounded on the
// <path d="..."> tokenizer/flattener idiom (command-letter splitting,
// M/L/H/V/C/Z support, fixed-step cubic flattening).
package svgtemplate

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/gpsartgen/routeart/geoproj"
)

// Point is a 2-D coordinate: SVG user-space while parsing, unit-square
// after normalize, meters after placement (geoproj.MeterPoint serves the
// same role downstream).
type Point = geoproj.MeterPoint

// subPath is one contiguous run of path points produced by a single
// moveto-to-next-moveto (or end of data) span.
type subPath struct {
	Points []Point
	Closed bool
}

type svgRoot struct {
	XMLName xml.Name   `xml:"svg"`
	Paths   []svgPathEl `xml:"path"`
}

type svgPathEl struct {
	D string `xml:"d,attr"`
}

// parseSVG decodes an SVG document and returns every sub-path across every
// <path> element, each already split at internal moveto boundaries.
func parseSVG(data []byte) ([]subPath, error) {
	var root svgRoot
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("svgtemplate: invalid SVG XML: %w", err)
	}

	var subs []subPath
	for _, p := range root.Paths {
		parsed, err := parsePathData(p.D)
		if err != nil {
			return nil, err
		}
		subs = append(subs, parsed...)
	}

	return subs, nil
}

const cubicFlattenSteps = 12

// parsePathData tokenizes and interprets an SVG path "d" attribute,
// splitting into one subPath per moveto command.
func parsePathData(d string) ([]subPath, error) {
	tokens := tokenizePathData(d)
	if len(tokens) == 0 {
		return nil, nil
	}

	var subs []subPath
	var cur Point
	var start Point
	var pts []Point
	var cmd byte
	i := 0

	flushSub := func(closed bool) {
		if len(pts) > 0 {
			subs = append(subs, subPath{Points: pts, Closed: closed})
		}
		pts = nil
	}

	for i < len(tokens) {
		tok := tokens[i]

		if isCommand(tok) {
			next := tok[0]
			if (next == 'M' || next == 'm') && len(pts) > 0 {
				flushSub(false)
			}
			if next == 'Z' || next == 'z' {
				if len(pts) > 0 {
					pts = append(pts, start)
				}
				flushSub(true)
				i++
				continue
			}
			cmd = next
			i++
			continue
		}

		if cmd == 0 {
			return nil, fmt.Errorf("svgtemplate: path data must begin with a moveto command")
		}

		switch cmd {
		case 'M', 'm', 'L', 'l':
			if i+1 >= len(tokens) {
				return nil, fmt.Errorf("svgtemplate: incomplete coordinate pair in path data")
			}
			x, err1 := strconv.ParseFloat(tokens[i], 64)
			y, err2 := strconv.ParseFloat(tokens[i+1], 64)
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("svgtemplate: invalid coordinate pair %q,%q", tokens[i], tokens[i+1])
			}
			if cmd == 'm' || cmd == 'l' {
				cur = Point{X: cur.X + x, Y: cur.Y + y}
			} else {
				cur = Point{X: x, Y: y}
			}
			if len(pts) == 0 {
				start = cur
			}
			pts = append(pts, cur)
			i += 2
			if cmd == 'M' {
				cmd = 'L'
			} else if cmd == 'm' {
				cmd = 'l'
			}

		case 'H', 'h':
			x, err := strconv.ParseFloat(tokens[i], 64)
			if err != nil {
				return nil, fmt.Errorf("svgtemplate: invalid H coordinate %q", tokens[i])
			}
			if cmd == 'h' {
				cur.X += x
			} else {
				cur.X = x
			}
			pts = append(pts, cur)
			i++

		case 'V', 'v':
			y, err := strconv.ParseFloat(tokens[i], 64)
			if err != nil {
				return nil, fmt.Errorf("svgtemplate: invalid V coordinate %q", tokens[i])
			}
			if cmd == 'v' {
				cur.Y += y
			} else {
				cur.Y = y
			}
			pts = append(pts, cur)
			i++

		case 'C', 'c':
			if i+5 >= len(tokens) {
				return nil, fmt.Errorf("svgtemplate: incomplete C command, need 6 numbers")
			}
			nums := make([]float64, 6)
			for k := 0; k < 6; k++ {
				n, err := strconv.ParseFloat(tokens[i+k], 64)
				if err != nil {
					return nil, fmt.Errorf("svgtemplate: invalid C coordinate %q", tokens[i+k])
				}
				nums[k] = n
			}

			var p1, p2, p3 Point
			if cmd == 'c' {
				p1 = Point{X: cur.X + nums[0], Y: cur.Y + nums[1]}
				p2 = Point{X: cur.X + nums[2], Y: cur.Y + nums[3]}
				p3 = Point{X: cur.X + nums[4], Y: cur.Y + nums[5]}
			} else {
				p1 = Point{X: nums[0], Y: nums[1]}
				p2 = Point{X: nums[2], Y: nums[3]}
				p3 = Point{X: nums[4], Y: nums[5]}
			}

			for _, pt := range flattenCubic(cur, p1, p2, p3, cubicFlattenSteps) {
				cur = pt
				pts = append(pts, cur)
			}
			i += 6

		default:
			return nil, fmt.Errorf("svgtemplate: unsupported path command %q", string(cmd))
		}
	}

	flushSub(false)

	return subs, nil
}

// flattenCubic samples a cubic Bézier at `steps` evenly spaced parameter
// values (excluding t=0, which the caller already holds as cur).
func flattenCubic(p0, p1, p2, p3 Point, steps int) []Point {
	out := make([]Point, 0, steps)
	for k := 1; k <= steps; k++ {
		t := float64(k) / float64(steps)
		mt := 1 - t
		x := mt*mt*mt*p0.X + 3*mt*mt*t*p1.X + 3*mt*t*t*p2.X + t*t*t*p3.X
		y := mt*mt*mt*p0.Y + 3*mt*mt*t*p1.Y + 3*mt*t*t*p2.Y + t*t*t*p3.Y
		out = append(out, Point{X: x, Y: y})
	}

	return out
}

func isCommand(tok string) bool {
	if len(tok) != 1 {
		return false
	}
	switch tok[0] {
	case 'M', 'm', 'L', 'l', 'H', 'h', 'V', 'v', 'C', 'c', 'Z', 'z':
		return true
	default:
		return false
	}
}

// tokenizePathData splits a path "d" attribute into whitespace-separated
// tokens, inserting boundaries around command letters and treating commas
// as whitespace.
func tokenizePathData(d string) []string {
	var b strings.Builder
	const commands = "MmLlHhVvCcZz"
	for _, r := range d {
		switch {
		case strings.ContainsRune(commands, r):
			b.WriteRune(' ')
			b.WriteRune(r)
			b.WriteRune(' ')
		case r == ',':
			b.WriteRune(' ')
		case r == '-' || r == '+':
			b.WriteRune(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}

	return strings.Fields(b.String())
}
