package service

import (
	"math"
	"strconv"
	"strings"
)

// ParseCoordinates parses "<longitude>, <latitude>"; ';' is accepted as separator.
// ok is false when the string does not hold two finite numbers.
func ParseCoordinates(s string) (lon, lat float64, ok bool) {
	s = strings.ReplaceAll(s, ";", ",")
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return 0, 0, false
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || math.IsNaN(lat) || math.IsInf(lat, 0) {
		return 0, 0, false
	}
	return lon, lat, true
}
