package bindings

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/llehouerou/rebind/internal/code"
	"github.com/llehouerou/rebind/internal/keymap"
)

// PersistKey is the storage key of the serialized bindings.
const PersistKey = "KeyBindings"

// Load reads persisted bindings from p and merges them with the defaults:
// persisted actions replace their defaults, other actions keep them.
// Later changes are saved to p. Malformed data is logged and ignored.
func (s *Store) Load(p Persister) error {
	s.persister = p

	raw, ok, err := p.GetString(PersistKey)
	if err != nil {
		return fmt.Errorf("read bindings: %w", err)
	}

	clear(s.codes)
	if ok {
		for a, codes := range s.decode(raw) {
			s.codes[a] = codes
		}
	}
	s.fillDefaults(false)
	s.coverage = s.MovementCoverage(s.movement)
	s.changed.Notify(s.actions())
	return nil
}

func (s *Store) decode(raw string) map[keymap.Action][]code.Code {
	out := make(map[keymap.Action][]code.Code)
	if !gjson.Valid(raw) {
		s.log.WithField("key", PersistKey).Warn("malformed bindings, using defaults")
		return out
	}

	gjson.Get(raw, "bindings").ForEach(func(_, b gjson.Result) bool {
		action := keymap.Action(b.Get("action").Int())
		if !action.Valid() {
			s.log.WithField("action", b.Get("action").Raw).Warn("dropping bindings of unknown action")
			return true
		}
		var codes []code.Code
		b.Get("keyCodes").ForEach(func(_, v gjson.Result) bool {
			c := code.FromInt(int(v.Int()))
			if cc, ok := c.ControllerCode(); ok && !cc.Valid() {
				s.log.WithField("code", v.Int()).Warn("dropping unknown controller code")
				return true
			}
			codes = append(codes, c)
			return true
		})
		out[action] = dedupe(codes)
		return true
	})
	return out
}

// Encode serializes the current bindings.
func (s *Store) Encode() (string, error) {
	out := `{"bindings":[]}`
	for _, e := range s.All() {
		ints := make([]int, len(e.Codes))
		for i, c := range e.Codes {
			ints[i] = c.Int()
		}
		elem, err := sjson.Set(`{}`, "action", int(e.Action))
		if err != nil {
			return "", err
		}
		if elem, err = sjson.Set(elem, "keyCodes", ints); err != nil {
			return "", err
		}
		if out, err = sjson.SetRaw(out, "bindings.-1", elem); err != nil {
			return "", err
		}
	}
	return out, nil
}

func (s *Store) save() {
	if s.persister == nil {
		return
	}
	data, err := s.Encode()
	if err != nil {
		s.log.WithError(err).Error("encode bindings")
		return
	}
	s.persister.SetString(PersistKey, data)
}
