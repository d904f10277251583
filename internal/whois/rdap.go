package whois

import (
	"encoding/json"
	"strings"
)

// Structured (RDAP-style) payload. Timestamps live in an events list keyed by
// eventAction; the registrar display name hides in a vCard under the entity
// whose roles include "registrar".
type rdapRecord struct {
	Status   []string     `json:"status"`
	Events   []rdapEvent  `json:"events"`
	Entities []rdapEntity `json:"entities"`
}

type rdapEvent struct {
	EventAction string `json:"eventAction"`
	EventDate   string `json:"eventDate"`
}

type rdapEntity struct {
	Roles      []string        `json:"roles"`
	VCardArray json.RawMessage `json:"vcardArray"`
	Entities   []rdapEntity    `json:"entities"`
}

func parseRDAP(b []byte) (Record, error) {
	var raw rdapRecord
	if err := json.Unmarshal(b, &raw); err != nil {
		return Record{}, err
	}

	var rec Record
	for _, ev := range raw.Events {
		switch ev.EventAction {
		case "registration":
			if rec.CreatedAt == "" {
				rec.CreatedAt = ev.EventDate
			}
		case "expiration":
			if rec.ExpiresAt == "" {
				rec.ExpiresAt = ev.EventDate
			}
		}
	}

	if e := findEntityByRole(raw.Entities, "registrar"); e != nil {
		if fn, ok := vcardString(entityCard(*e), "fn"); ok {
			rec.Registrar = fn
		}
	}
	if e := findEntityByRole(raw.Entities, "registrant"); e != nil {
		rec.RegistrantCountry = vcardCountry(entityCard(*e))
	}

	rec.Status = append([]string(nil), raw.Status...)
	if len(rec.Status) == 0 {
		rec.Status = nil
	}
	return rec, nil
}

func findEntityByRole(entities []rdapEntity, role string) *rdapEntity {
	for i := range entities {
		for _, r := range entities[i].Roles {
			if strings.EqualFold(r, role) {
				return &entities[i]
			}
		}
	}
	return nil
}

// entityCard returns the vCard rows for an entity, falling back to the first
// nested entity's card (some registries nest the named contact one level
// down).
func entityCard(e rdapEntity) []vcardRow {
	if rows := decodeVCard(e.VCardArray); len(rows) > 0 {
		return rows
	}
	for _, nested := range e.Entities {
		if rows := decodeVCard(nested.VCardArray); len(rows) > 0 {
			return rows
		}
	}
	return nil
}

// vcardRow is ["fieldName", params, valueType, value, ...].
type vcardRow []any

func decodeVCard(raw json.RawMessage) []vcardRow {
	if len(raw) == 0 {
		return nil
	}
	// vcardArray is ["vcard", [rows...]].
	var outer []json.RawMessage
	if err := json.Unmarshal(raw, &outer); err != nil || len(outer) < 2 {
		return nil
	}
	var rows []vcardRow
	if err := json.Unmarshal(outer[1], &rows); err != nil {
		return nil
	}
	return rows
}

func vcardString(rows []vcardRow, field string) (string, bool) {
	for _, row := range rows {
		if len(row) < 4 {
			continue
		}
		name, ok := row[0].(string)
		if !ok || !strings.EqualFold(name, field) {
			continue
		}
		if v, ok := row[3].(string); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// vcardCountry pulls the country component (last element) from a structured
// "adr" value.
func vcardCountry(rows []vcardRow) string {
	for _, row := range rows {
		if len(row) < 4 {
			continue
		}
		name, ok := row[0].(string)
		if !ok || !strings.EqualFold(name, "adr") {
			continue
		}
		parts, ok := row[3].([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if country, ok := parts[len(parts)-1].(string); ok && country != "" {
			return country
		}
	}
	return ""
}
