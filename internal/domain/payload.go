package domain

import (
	"encoding/json"
	"fmt"
)

// PayloadFunc is the mutation kind carried by a Payload.
type PayloadFunc string

const (
	FuncDraw  PayloadFunc = "draw"
	FuncErase PayloadFunc = "erase"
	FuncMove  PayloadFunc = "move"
)

// Payload is the wire/storage envelope for one shape mutation. ID is
// client-generated (UUIDv4) and identifies the shape across draw/move/erase;
// erase payloads may omit Shape, draw/move require a well-formed one.
type Payload struct {
	ID        string      `json:"id"`
	Function  PayloadFunc `json:"function"`
	Shape     *Shape      `json:"shape,omitempty"`
	Color     string      `json:"color,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// Validate checks the envelope invariants.
func (p *Payload) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("payload: missing id")
	}
	switch p.Function {
	case FuncErase:
		// shape is optional for erase
		if p.Shape != nil {
			return p.Shape.Validate()
		}
		return nil
	case FuncDraw, FuncMove:
		if p.Shape == nil {
			return fmt.Errorf("payload: %s requires a shape", p.Function)
		}
		return p.Shape.Validate()
	default:
		return fmt.Errorf("payload: unknown function %q", p.Function)
	}
}

// Encode serializes the payload to its wire form.
func (p *Payload) Encode() (string, error) {
	bytes, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}
	return string(bytes), nil
}

// ParsePayload unmarshals and validates a payload from its wire form.
func ParsePayload(data []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}
