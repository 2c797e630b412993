package geohash

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// base32 is the geohash alphabet (no a, i, l, o).
const base32 = "0123456789bcdefghjkmnpqrstuvwxyz"

// DefaultPrecision is the precision used for forecast location keys.
const DefaultPrecision = 6

// ErrInvalidInput is returned for non-finite coordinates, negative
// precision, or hashes containing characters outside the alphabet.
var ErrInvalidInput = errors.New("invalid geohash input")

// Encode converts latitude/longitude into a geohash of the given precision.
//
// Coordinates are not clamped: values outside ±90/±180 produce a hash
// but it does not describe a real cell.
func Encode(lat, lon float64, precision int) (string, error) {
	if !isFinite(lat) || !isFinite(lon) {
		return "", fmt.Errorf("%w: lat=%v lon=%v", ErrInvalidInput, lat, lon)
	}
	if precision < 0 {
		return "", fmt.Errorf("%w: precision %d", ErrInvalidInput, precision)
	}

	var sb strings.Builder
	sb.Grow(precision)

	latMin, latMax := -90.0, 90.0
	lonMin, lonMax := -180.0, 180.0

	idx, bit := 0, 0
	evenBit := true
	for sb.Len() < precision {
		if evenBit {
			mid := (lonMin + lonMax) / 2
			if lon >= mid {
				idx = idx*2 + 1
				lonMin = mid
			} else {
				idx *= 2
				lonMax = mid
			}
		} else {
			mid := (latMin + latMax) / 2
			if lat >= mid {
				idx = idx*2 + 1
				latMin = mid
			} else {
				idx *= 2
				latMax = mid
			}
		}
		evenBit = !evenBit

		bit++
		if bit == 5 {
			sb.WriteByte(base32[idx])
			bit, idx = 0, 0
		}
	}

	return sb.String(), nil
}

// Box is the cell described by a geohash.
type Box struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// Center returns the midpoint of the cell.
func (b Box) Center() (lat, lon float64) {
	return (b.MinLat + b.MaxLat) / 2, (b.MinLon + b.MaxLon) / 2
}

// Contains reports whether the point lies inside the cell (inclusive).
func (b Box) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// Bounds decodes a geohash into its bounding box.
func Bounds(hash string) (Box, error) {
	box := Box{MinLat: -90, MaxLat: 90, MinLon: -180, MaxLon: 180}
	if hash == "" {
		return box, fmt.Errorf("%w: empty hash", ErrInvalidInput)
	}

	evenBit := true
	for _, r := range strings.ToLower(hash) {
		idx := strings.IndexRune(base32, r)
		if idx < 0 {
			return Box{}, fmt.Errorf("%w: character %q in %q", ErrInvalidInput, r, hash)
		}
		for n := 4; n >= 0; n-- {
			bitN := idx >> uint(n) & 1
			if evenBit {
				mid := (box.MinLon + box.MaxLon) / 2
				if bitN == 1 {
					box.MinLon = mid
				} else {
					box.MaxLon = mid
				}
			} else {
				mid := (box.MinLat + box.MaxLat) / 2
				if bitN == 1 {
					box.MinLat = mid
				} else {
					box.MaxLat = mid
				}
			}
			evenBit = !evenBit
		}
	}
	return box, nil
}

// Valid reports whether every character of hash is in the geohash alphabet.
func Valid(hash string) bool {
	if hash == "" {
		return false
	}
	for _, r := range hash {
		if !strings.ContainsRune(base32, r) {
			return false
		}
	}
	return true
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
