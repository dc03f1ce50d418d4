package standardize

import (
	"regexp"
	"strings"
)

// Rules is a lightweight, dependency-free standardizer. It lowercases,
// strips punctuation, expands common Irish address abbreviations and parses
// with token heuristics. Output shape matches the libpostal implementation
// (lowercase canonical text, labelled fragments) so the two are
// interchangeable behind the Standardizer interface.
type Rules struct{}

// NewRules returns the rules-based standardizer.
func NewRules() *Rules {
	return &Rules{}
}

var (
	punctuationRe = regexp.MustCompile(`[,;.()'"]`)
	spacesRe      = regexp.MustCompile(`\s+`)
	houseNumberRe = regexp.MustCompile(`^\d+[a-z]?$`)
	eircodeRe     = regexp.MustCompile(`^[a-z]\d{2}\s?[a-z0-9]{4}$`)
	dublinDistRe  = regexp.MustCompile(`^dublin \d{1,2}$`)
)

// abbreviations expand one token at a time; keys and values are lowercase.
var abbreviations = map[string]string{
	"rd":    "road",
	"st":    "street",
	"ave":   "avenue",
	"av":    "avenue",
	"dr":    "drive",
	"ln":    "lane",
	"sq":    "square",
	"tce":   "terrace",
	"ter":   "terrace",
	"cres":  "crescent",
	"gdns":  "gardens",
	"grn":   "green",
	"pk":    "park",
	"cl":    "close",
	"ct":    "court",
	"pl":    "place",
	"upr":   "upper",
	"lwr":   "lower",
	"gt":    "great",
	"lt":    "little",
	"nth":   "north",
	"sth":   "south",
	"co":    "county",
	"hosp":  "hospital",
	"ind":   "industrial",
	"est":   "estate",
	"bldg":  "building",
	"bldgs": "buildings",
	"hse":   "house",
	"apt":   "apartment",
}

// streetSuffixes mark the end of a road name during parsing.
var streetSuffixes = map[string]bool{
	"road": true, "street": true, "avenue": true, "lane": true, "drive": true,
	"square": true, "terrace": true, "crescent": true, "gardens": true,
	"green": true, "park": true, "close": true, "court": true, "place": true,
	"quay": true, "walk": true, "way": true, "grove": true, "hill": true,
	"row": true, "strand": true,
}

// Expand returns a single canonical candidate built from lowercasing,
// punctuation removal and abbreviation expansion.
func (r *Rules) Expand(address string) []string {
	s := strings.ToLower(strings.TrimSpace(address))
	s = punctuationRe.ReplaceAllString(s, " ")
	s = spacesRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{""}
	}
	tokens := strings.Fields(s)
	for i, tok := range tokens {
		if full, ok := abbreviations[tok]; ok {
			tokens[i] = full
		}
	}
	return []string{strings.Join(tokens, " ")}
}

// Parse assigns labels with token heuristics: a leading number is the house
// number, tokens up to a street suffix form the road, a trailing "dublin N"
// is the city district, an Eircode is the postcode and anything left over in
// front of the road is the house name.
func (r *Rules) Parse(address string) []Component {
	canonical := Canonical(r, address)
	tokens := strings.Fields(canonical)
	if len(tokens) == 0 {
		return nil
	}

	var components []Component
	i := 0
	if houseNumberRe.MatchString(tokens[0]) {
		components = append(components, Component{Value: tokens[0], Label: "house_number"})
		i = 1
	}

	// Trailing postcode, then trailing "dublin N" district, then city.
	end := len(tokens)
	var tail []Component
	if end-i >= 2 && eircodeRe.MatchString(tokens[end-2]+" "+tokens[end-1]) {
		tail = append(tail, Component{Value: tokens[end-2] + " " + tokens[end-1], Label: "postcode"})
		end -= 2
	} else if end-i >= 1 && eircodeRe.MatchString(tokens[end-1]) {
		tail = append(tail, Component{Value: tokens[end-1], Label: "postcode"})
		end--
	}
	if end-i >= 2 && dublinDistRe.MatchString(tokens[end-2]+" "+tokens[end-1]) {
		tail = append([]Component{{Value: tokens[end-2] + " " + tokens[end-1], Label: "city_district"}}, tail...)
		end -= 2
	} else if end-i >= 1 && tokens[end-1] == "dublin" {
		tail = append([]Component{{Value: "dublin", Label: "city"}}, tail...)
		end--
	}

	// Road runs up to and including the first street suffix in what remains.
	roadEnd := -1
	for j := i; j < end; j++ {
		if streetSuffixes[tokens[j]] {
			roadEnd = j
			break
		}
	}
	switch {
	case roadEnd >= 0:
		if roadEnd > i && roadEnd-i >= 2 {
			// Tokens well before the suffix are usually a building name.
			components = append(components, Component{Value: strings.Join(tokens[i:roadEnd-1], " "), Label: "house"})
			components = append(components, Component{Value: strings.Join(tokens[roadEnd-1:roadEnd+1], " "), Label: "road"})
		} else {
			components = append(components, Component{Value: strings.Join(tokens[i:roadEnd+1], " "), Label: "road"})
		}
		if roadEnd+1 < end {
			components = append(components, Component{Value: strings.Join(tokens[roadEnd+1:end], " "), Label: "suburb"})
		}
	case end > i:
		components = append(components, Component{Value: strings.Join(tokens[i:end], " "), Label: "house"})
	}
	return append(components, tail...)
}
