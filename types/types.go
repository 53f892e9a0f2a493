package types

// ---- Blink setting ----

// BlinkSetting is the bounded indicator setting stepped from the terminal.
type BlinkSetting uint8

const (
	BlinkOff BlinkSetting = iota
	BlinkOn
	BlinkSlow
	BlinkMedium
	BlinkFast

	NumBlinkSettings
)

func (s BlinkSetting) String() string {
	switch s {
	case BlinkOff:
		return "off"
	case BlinkOn:
		return "on"
	case BlinkSlow:
		return "slow"
	case BlinkMedium:
		return "medium"
	case BlinkFast:
		return "fast"
	default:
		return "unknown"
	}
}

// ---- Bus event payloads ----

type ButtonEvent struct {
	Pressed bool  `json:"pressed"`
	TS      int64 `json:"ts_ms"`
}

type SettingEvent struct {
	Setting BlinkSetting `json:"setting"`
	TS      int64        `json:"ts_ms"`
}

type SerialRXEvent struct {
	Data []byte `json:"data"`
	TS   int64  `json:"ts_ms"`
}
