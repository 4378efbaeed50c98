package lib

import (
	"fmt"
)

// Switch is a named control with a small set of textual settings.
type Switch interface {
	Get() string
	Set(value string) error
}

type BoolSwitchSetting struct {
	Key   string
	Value bool
}

// BoolSwitch maps textual settings onto a two-position control line.
type BoolSwitch struct {
	Name     string
	Data     *bool
	Settings []BoolSwitchSetting
}

func (s *BoolSwitch) Get() string {
	for i := range s.Settings {
		if *s.Data == s.Settings[i].Value {
			return s.Settings[i].Key
		}
	}
	return "?"
}

func (s *BoolSwitch) Set(value string) error {
	for i := range s.Settings {
		if value == s.Settings[i].Key {
			*s.Data = s.Settings[i].Value
			return nil
		}
	}
	return fmt.Errorf("invalid switch %s setting %s", s.Name, value)
}
