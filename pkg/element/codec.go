package element

import (
	"encoding/json"
	"fmt"
)

// Marshal serializes an element as a tagged JSON object with a "type"
// discriminator, matching the element format the engine reads.
func Marshal(e Element) ([]byte, error) {
	if e == nil {
		return nil, fmt.Errorf("marshaling element: nil element")
	}
	body, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s element: %w", e.Kind(), err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("marshaling %s element: %w", e.Kind(), err)
	}
	fields["type"] = json.RawMessage(fmt.Sprintf("%q", e.Kind()))
	return json.Marshal(fields)
}

// Unmarshal parses a tagged element object back into its concrete
// variant, dispatching on the "type" discriminator.
func Unmarshal(data []byte) (Element, error) {
	var tag struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, fmt.Errorf("parsing element type: %w", err)
	}

	decode := func(v Element) (Element, error) {
		if err := json.Unmarshal(data, v); err != nil {
			return nil, fmt.Errorf("parsing %s element: %w", tag.Type, err)
		}
		return v, nil
	}

	switch tag.Type {
	case KindTwoWayFlow:
		e, err := decode(&TwoWayFlow{})
		if err != nil {
			return nil, err
		}
		return *e.(*TwoWayFlow), nil
	case KindPowerLawOrifice:
		e, err := decode(&PowerLawOrifice{})
		if err != nil {
			return nil, err
		}
		return *e.(*PowerLawOrifice), nil
	case KindFan:
		e, err := decode(&Fan{})
		if err != nil {
			return nil, err
		}
		return *e.(*Fan), nil
	case KindDuct:
		e, err := decode(&Duct{})
		if err != nil {
			return nil, err
		}
		return *e.(*Duct), nil
	case KindDamper:
		e, err := decode(&Damper{})
		if err != nil {
			return nil, err
		}
		return *e.(*Damper), nil
	case KindFilter:
		e, err := decode(&Filter{})
		if err != nil {
			return nil, err
		}
		return *e.(*Filter), nil
	case KindSelfRegulatingVent:
		e, err := decode(&SelfRegulatingVent{})
		if err != nil {
			return nil, err
		}
		return *e.(*SelfRegulatingVent), nil
	case KindCheckValve:
		e, err := decode(&CheckValve{})
		if err != nil {
			return nil, err
		}
		return *e.(*CheckValve), nil
	default:
		return nil, fmt.Errorf("unknown element type %q", tag.Type)
	}
}
