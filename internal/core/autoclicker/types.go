package autoclicker

import "time"

const (
	EventTypeSyn uint16 = 0x00
	EventTypeKey uint16 = 0x01
	EventTypeRel uint16 = 0x02

	SynReportCode  uint16 = 0
	LeftButtonCode uint16 = 0x110

	// Linux input codes, shared by every backend as the key code space.
	KeyF1Code uint16 = 59
	KeyF2Code uint16 = 60
)

const (
	MinDelayMillis = 50
	MaxDelayMillis = 60000

	DefaultCountdownSteps    = 3
	DefaultCountdownInterval = time.Second
)

type Event struct {
	Type  uint16
	Code  uint16
	Value int32
}

// PrimaryClick is one press and release of the primary button.
func PrimaryClick() []Event {
	return []Event{
		{Type: EventTypeKey, Code: LeftButtonCode, Value: 1},
		{Type: EventTypeSyn, Code: SynReportCode, Value: 0},
		{Type: EventTypeKey, Code: LeftButtonCode, Value: 0},
		{Type: EventTypeSyn, Code: SynReportCode, Value: 0},
	}
}

type State int

const (
	StateStopped State = iota
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// Session is a snapshot of the controller's click session.
type Session struct {
	Running     bool
	DelayMillis int
	ClickCount  int
}

type Config struct {
	CountdownSteps    int
	CountdownInterval time.Duration
	OnStatus          func(status string)
	OnStateChange     func(state State)
}

func DefaultConfig() Config {
	return Config{
		CountdownSteps:    DefaultCountdownSteps,
		CountdownInterval: DefaultCountdownInterval,
	}
}

type Injector interface {
	WriteEvents(events ...Event) error
	Close() error
}

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}
