package postmark

import (
	"encoding/json"
	"math"

	"github.com/dmitrymomot/mailgate/pkg/mailer"
)

// Property keys understood by the Postmark sender.
const (
	PropertyTemplateID    = "PostmarkTemplateId"
	PropertyTemplateAlias = "PostmarkAlias"
	PropertyTemplateModel = "TemplateModel"
	PropertyTag           = "PostmarkTag"
)

// hints are the delivery hints read from message properties.
// Missing or wrongly typed hints are treated as absent.
type hints struct {
	model      map[string]any
	alias      string
	tag        string
	templateID int64
}

func readHints(p mailer.Properties) hints {
	var h hints

	if raw, ok := p.Get(PropertyTemplateID); ok {
		if id, ok := templateID(raw); ok {
			h.templateID = id
		}
	}
	if alias, state := mailer.Lookup[string](p, PropertyTemplateAlias); state == mailer.LookupPresent {
		h.alias = alias
	}
	if tag, state := mailer.Lookup[string](p, PropertyTag); state == mailer.LookupPresent {
		h.tag = tag
	}

	switch m := mustGet(p, PropertyTemplateModel).(type) {
	case map[string]any:
		h.model = m
	case mailer.Properties:
		h.model = map[string]any(m)
	}
	if h.model == nil {
		h.model = map[string]any{}
	}

	return h
}

// template returns the template to send with, if any.
// A usable id wins over an alias; a zero id counts as absent.
func (h hints) template() (TemplateRef, bool) {
	switch {
	case h.templateID != 0:
		return TemplateByID(h.templateID), true
	case h.alias != "":
		return TemplateByAlias(h.alias), true
	default:
		return TemplateRef{}, false
	}
}

func mustGet(p mailer.Properties, key string) any {
	v, _ := p.Get(key)
	return v
}

// templateID accepts any integer kind and integral json.Number values.
func templateID(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return uintID(uint64(n))
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return uintID(n)
	case json.Number:
		id, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return id, true
	default:
		return 0, false
	}
}

func uintID(n uint64) (int64, bool) {
	if n > math.MaxInt64 {
		return 0, false
	}
	return int64(n), true
}
