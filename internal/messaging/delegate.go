package messaging

import "reflect"

// delegate is the unexported handle the Messenger manipulates; concrete
// delegates (Single, Multi, Filter, Listener) implement it. It mirrors
// allpix-squared's BaseDelegate, minus the template machinery Go does not
// need: type erasure happens through this interface instead of a common
// base class.
type delegate interface {
	messageType() reflect.Type // zero Type for listener delegates, which match any payload type
	ownerName() string
	flagsOf() Flag
	matchesSource(detectorName string, hasDetector bool) bool
	deliver(payload any, detectorName string, hasDetector bool, name string) error
	reset()
	satisfied() bool
}

// sourceFilter holds the optional detector-name restriction shared by every
// delegate kind: a delegate with hasSource unset accepts messages from any
// source (including broadcasts).
type sourceFilter struct {
	source    string
	hasSource bool
}

func (f sourceFilter) matchesSource(detectorName string, hasDetector bool) bool {
	if !f.hasSource {
		return true
	}
	if !hasDetector {
		return false
	}
	return f.source == detectorName
}

// SingleDelegate is the handle returned by BindSingle: it holds at most one
// message per event.
type SingleDelegate[T any] struct {
	sourceFilter
	owner string
	flags Flag

	value T
	has   bool
	sat   bool
}

func (d *SingleDelegate[T]) messageType() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }
func (d *SingleDelegate[T]) ownerName() string          { return d.owner }
func (d *SingleDelegate[T]) flagsOf() Flag               { return d.flags }
func (d *SingleDelegate[T]) satisfied() bool             { return !d.flags.Has(Required) || d.sat }

func (d *SingleDelegate[T]) deliver(payload any, detectorName string, hasDetector bool, name string) error {
	if d.has && !d.flags.Has(AllowOverwrite) {
		return &MessageOverwriteError{Owner: d.owner, Name: name}
	}
	d.value = payload.(T)
	d.has = true
	d.sat = true
	return nil
}

func (d *SingleDelegate[T]) reset() {
	d.value = *new(T)
	d.has = false
	d.sat = false
}

// Get returns the message delivered this event, if any.
func (d *SingleDelegate[T]) Get() (T, bool) { return d.value, d.has }

// MultiDelegate is the handle returned by BindMulti: every matching message
// is appended in dispatch order.
type MultiDelegate[T any] struct {
	sourceFilter
	owner string
	flags Flag

	values []T
	sat    bool
}

func (d *MultiDelegate[T]) messageType() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }
func (d *MultiDelegate[T]) ownerName() string          { return d.owner }
func (d *MultiDelegate[T]) flagsOf() Flag               { return d.flags }
func (d *MultiDelegate[T]) satisfied() bool             { return !d.flags.Has(Required) || d.sat }

func (d *MultiDelegate[T]) deliver(payload any, detectorName string, hasDetector bool, name string) error {
	d.values = append(d.values, payload.(T))
	d.sat = true
	return nil
}

func (d *MultiDelegate[T]) reset() {
	d.values = nil
	d.sat = false
}

// Get returns every message delivered this event, in dispatch order.
func (d *MultiDelegate[T]) Get() []T { return d.values }

// FilterDelegate invokes receive for every dispatched message of type T
// that accept approves.
type FilterDelegate[T any] struct {
	sourceFilter
	owner   string
	flags   Flag
	accept  func(payload T, name string) bool
	receive func(payload T, name string)
	sat     bool
}

func (d *FilterDelegate[T]) messageType() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }
func (d *FilterDelegate[T]) ownerName() string          { return d.owner }
func (d *FilterDelegate[T]) flagsOf() Flag               { return d.flags }
func (d *FilterDelegate[T]) satisfied() bool             { return !d.flags.Has(Required) || d.sat }

func (d *FilterDelegate[T]) deliver(payload any, detectorName string, hasDetector bool, name string) error {
	typed := payload.(T)
	if d.accept != nil && !d.accept(typed, name) {
		return nil
	}
	d.receive(typed, name)
	d.sat = true
	return nil
}

func (d *FilterDelegate[T]) reset() { d.sat = false }

// ListenerDelegate invokes receive for every dispatched message regardless
// of its payload type, subject to accept.
type ListenerDelegate struct {
	sourceFilter
	owner   string
	flags   Flag
	accept  func(payload any, name string) bool
	receive func(payload any, name string)
	sat     bool
}

func (d *ListenerDelegate) messageType() reflect.Type { return nil }
func (d *ListenerDelegate) ownerName() string          { return d.owner }
func (d *ListenerDelegate) flagsOf() Flag               { return d.flags }
func (d *ListenerDelegate) satisfied() bool             { return !d.flags.Has(Required) || d.sat }

func (d *ListenerDelegate) deliver(payload any, detectorName string, hasDetector bool, name string) error {
	if d.accept != nil && !d.accept(payload, name) {
		return nil
	}
	d.receive(payload, name)
	d.sat = true
	return nil
}

func (d *ListenerDelegate) reset() { d.sat = false }
