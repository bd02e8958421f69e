package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"polypong/game"
)

// ErrMalformedMessage is returned for payloads that match no known shape.
var ErrMalformedMessage = errors.New("malformed message")

// Record is the key-structured form of a message, before serialization.
type Record map[string]any

func ToRecord(m Message) (Record, error) {
	switch msg := m.(type) {
	case Ready:
		return Record{KeyReady: true}, nil
	case Assignment:
		return Record{KeyAssignment: int64(msg.Seat)}, nil
	case Flash:
		return Record{KeyFlash: msg.Text}, nil
	case Start:
		return Record{KeyStart: true}, nil
	case State:
		others := make([]any, 0, len(msg.Others))
		for _, o := range msg.Others {
			others = append(others, map[string]any{
				KeySeat: int64(o.Seat),
				KeyX:    o.X,
				KeyY:    o.Y,
			})
		}
		return Record{KeyBallX: msg.BallX, KeyBallY: msg.BallY, KeyOthers: others}, nil
	case PointTo:
		return Record{KeyPointTo: int64(msg.Seat)}, nil
	case Move:
		if msg.Axis == game.AxisX {
			return Record{KeyX: msg.Value}, nil
		}
		return Record{KeyY: msg.Value}, nil
	case nil:
		return nil, fmt.Errorf("trying to encode nil message")
	}
	return nil, fmt.Errorf("unknown message type %T", m)
}

// FromRecord classifies a record by the keys present. The checks run in a
// fixed order, so a record carrying several purposes resolves to the first.
func FromRecord(r Record) (Message, error) {
	if v, ok := r[KeyAssignment]; ok {
		s, err := seat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedMessage, KeyAssignment, err)
		}
		return Assignment{Seat: s}, nil
	}
	if v, ok := r[KeyFlash]; ok {
		text, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s is %T, not a string", ErrMalformedMessage, KeyFlash, v)
		}
		return Flash{Text: text}, nil
	}
	if v, ok := r[KeyStart]; ok {
		if b, ok := v.(bool); ok && b {
			return Start{}, nil
		}
		return nil, fmt.Errorf("%w: %s must be true", ErrMalformedMessage, KeyStart)
	}
	if _, ok := r[KeyBallX]; ok {
		return stateFromRecord(r)
	}
	if v, ok := r[KeyPointTo]; ok {
		s, err := seat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedMessage, KeyPointTo, err)
		}
		return PointTo{Seat: s}, nil
	}
	if v, ok := r[KeyReady]; ok {
		if b, ok := v.(bool); ok && b {
			return Ready{}, nil
		}
		return nil, fmt.Errorf("%w: %s must be true", ErrMalformedMessage, KeyReady)
	}

	x, hasX := r[KeyX]
	y, hasY := r[KeyY]
	switch {
	case hasX && hasY:
		return nil, fmt.Errorf("%w: move carries both axes", ErrMalformedMessage)
	case hasX:
		v, ok := number(x)
		if !ok {
			return nil, fmt.Errorf("%w: %s is %T", ErrMalformedMessage, KeyX, x)
		}
		return Move{Axis: game.AxisX, Value: v}, nil
	case hasY:
		v, ok := number(y)
		if !ok {
			return nil, fmt.Errorf("%w: %s is %T", ErrMalformedMessage, KeyY, y)
		}
		return Move{Axis: game.AxisY, Value: v}, nil
	}
	return nil, ErrMalformedMessage
}

func stateFromRecord(r Record) (Message, error) {
	bx, okX := number(r[KeyBallX])
	by, okY := number(r[KeyBallY])
	if !okX || !okY {
		return nil, fmt.Errorf("%w: state needs numeric %s and %s", ErrMalformedMessage, KeyBallX, KeyBallY)
	}
	st := State{BallX: bx, BallY: by}

	raw, ok := r[KeyOthers]
	if !ok || raw == nil {
		return st, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s is %T, not a list", ErrMalformedMessage, KeyOthers, raw)
	}
	st.Others = make([]PaddlePosition, 0, len(list))
	for i, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] is %T", ErrMalformedMessage, KeyOthers, i, item)
		}
		s, err := seat(entry[KeySeat])
		if err != nil {
			return nil, fmt.Errorf("%w: %s[%d]: %v", ErrMalformedMessage, KeyOthers, i, err)
		}
		x, okX := number(entry[KeyX])
		y, okY := number(entry[KeyY])
		if !okX || !okY {
			return nil, fmt.Errorf("%w: %s[%d] needs numeric x and y", ErrMalformedMessage, KeyOthers, i)
		}
		st.Others = append(st.Others, PaddlePosition{Seat: s, X: x, Y: y})
	}
	return st, nil
}

// number accepts every numeric type the serializations decode into.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func seat(v any) (game.Seat, error) {
	f, ok := number(v)
	if !ok {
		return game.NoSeat, fmt.Errorf("seat is %T, not a number", v)
	}
	if f != math.Trunc(f) || f < 0 || f >= game.NumSeats {
		return game.NoSeat, fmt.Errorf("seat %v out of range", f)
	}
	return game.Seat(f), nil
}

// Codec turns messages into frames and back using one serialization.
type Codec struct {
	s Serialization
}

func NewCodec(s Serialization) Codec {
	return Codec{s: s}
}

func (c Codec) Serialization() Serialization {
	return c.s
}

func (c Codec) Encode(m Message) ([]byte, error) {
	r, err := ToRecord(m)
	if err != nil {
		return nil, err
	}
	return c.s.Marshal(r)
}

func (c Codec) Decode(b []byte) (Message, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedMessage)
	}
	r, err := c.s.Unmarshal(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	return FromRecord(r)
}
