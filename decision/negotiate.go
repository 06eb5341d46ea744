package decision

import (
	"strconv"
	"strings"

	"github.com/kellymclaughlin/airship/resource"
)

// acceptItem is one parsed entry of an Accept header: a media range split
// into type/subtype, and its quality value.
type acceptItem struct {
	typ     string
	subtyp  string
	quality float64
}

// parseAccept splits header into its comma-separated media ranges,
// preserving declaration order, the order c04's matching loop iterates in
// (spec.md §4.3). An empty or missing header yields no items.
func parseAccept(header string) []acceptItem {
	if header == "" {
		return nil
	}

	var items []acceptItem
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		fields := strings.Split(part, ";")
		mediaRange := strings.TrimSpace(fields[0])
		typ, subtyp, ok := splitType(mediaRange)
		if !ok {
			continue
		}

		quality := 1.0
		for _, param := range fields[1:] {
			param = strings.TrimSpace(param)
			name, val, found := strings.Cut(param, "=")
			if !found || strings.TrimSpace(name) != "q" {
				continue
			}
			if q, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
				quality = q
			}
		}

		items = append(items, acceptItem{typ: typ, subtyp: subtyp, quality: quality})
	}
	return items
}

func splitType(mediaRange string) (typ, subtyp string, ok bool) {
	typ, subtyp, found := strings.Cut(mediaRange, "/")
	if !found {
		return "", "", false
	}
	return strings.TrimSpace(typ), strings.TrimSpace(subtyp), true
}

// NegotiateAccept implements the Accept -> provided matcher from spec.md
// §4.3: scan Accept items in declaration order, stopping at the first
// quality=0 item, and keep the highest-quality provided entry that any item
// is compatible with.
func NegotiateAccept(header string, provided []resource.Provided) (resource.Provided, bool) {
	items := parseAccept(header)

	bestQuality := 0.0
	var best *resource.Provided
	found := false

	for _, item := range items {
		if item.quality == 0 {
			break
		}

		for i := range provided {
			pTyp, pSubtyp, ok := splitType(provided[i].Type)
			if !ok {
				continue
			}

			compatible := (item.typ == "*" && item.subtyp == "*") ||
				(item.typ == pTyp && (item.subtyp == pSubtyp || item.subtyp == "*"))

			if compatible && item.quality > bestQuality {
				bestQuality = item.quality
				best = &provided[i]
				found = true
			}
		}
	}

	if !found {
		return resource.Provided{}, false
	}
	return *best, true
}
