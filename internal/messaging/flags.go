package messaging

// Flag is the bitset of delegate delivery modifiers described in spec.md
// §4.4.
type Flag uint8

const (
	// None carries no modifiers.
	None Flag = 0
	// Single marks a delegate created by BindSingle: at most one message
	// per event, per matching source.
	Single Flag = 1 << iota
	// Multi marks a delegate created by BindMulti: every matching
	// message is appended in dispatch order.
	Multi
	// Required marks the owning module as unsatisfied until this
	// delegate receives at least one message in the current event.
	Required
	// IgnoreName accepts messages of any name, not just the owner's
	// declared name.
	IgnoreName
	// AllowOverwrite permits a Single delegate to receive more than one
	// message per event, the latest replacing the former.
	AllowOverwrite
	// NoReset exempts the delegate from the per-event reset sweep.
	NoReset
)

// Has reports whether bit is set in f.
func (f Flag) Has(bit Flag) bool { return f&bit != 0 }
