package promise

// DelayCond selects which settlement outcomes a Delay promise waits the
// full duration for.
type DelayCond int

func (m DelayCond) String() string {
	switch m {
	case OnAll:
		return "OnAll"
	case OnSuccess:
		return "OnSuccess"
	case OnError:
		return "OnError"
	default:
		return "<unknown condition>"
	}
}

// any values other than the listed below will be ignored
const (
	OnAll     DelayCond = iota // the default behavior if no conditions are passed
	OnSuccess DelayCond = iota
	OnError   DelayCond = iota
)

type delayFlags struct {
	onSuccess bool
	onError   bool
}

var delayAllFlags = delayFlags{
	onSuccess: true,
	onError:   true,
}

func getDelayFlags(conds []DelayCond) delayFlags {
	if len(conds) == 0 {
		return delayAllFlags
	}

	f := delayFlags{}
	for _, c := range conds {
		switch c {
		case OnAll:
			f.onSuccess = true
			f.onError = true
		case OnSuccess:
			f.onSuccess = true
		case OnError:
			f.onError = true
		}
	}
	return f
}
