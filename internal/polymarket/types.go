package polymarket

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// GammaEvent represents an event from GET /events?slug=.
type GammaEvent struct {
	ID      string        `json:"id"`
	Slug    string        `json:"slug"`
	Title   string        `json:"title"`
	Markets []GammaMarket `json:"markets"`
}

// GammaMarket represents one market (outcome) within a Gamma event.
type GammaMarket struct {
	ID           string     `json:"id"`
	Question     string     `json:"question"`
	Slug         string     `json:"slug"`
	Active       bool       `json:"active"`
	Closed       bool       `json:"closed"`
	Volume       FlexFloat  `json:"volume"`
	Outcomes     StringList `json:"outcomes"`
	ClobTokenIDs StringList `json:"clobTokenIds"`
}

// StringList handles Gamma's double-encoded JSON arrays: the API returns
// "[\"a\",\"b\"]" (an array serialized into a string) but plain arrays also
// appear in some responses.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, (*[]string)(l))
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*l = nil
		return nil
	}
	return json.Unmarshal([]byte(s), (*[]string)(l))
}

// FlexFloat accepts a JSON number or a quoted numeric string; Gamma uses
// both for volume fields.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	if len(data) > 1 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("parse numeric string %q: %w", s, err)
		}
		*f = FlexFloat(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

// HistoryResponse from GET /prices-history.
type HistoryResponse struct {
	History []HistoryPoint `json:"history"`
}

// HistoryPoint is one upstream price observation.
type HistoryPoint struct {
	T int64   `json:"t"` // Seconds since epoch
	P float64 `json:"p"` // YES probability in [0,1]
}
