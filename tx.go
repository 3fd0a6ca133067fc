package paychan

import (
	"reflect"

	"github.com/iov-one/paychan/errors"
)

// Msg is message for the engine to take an action
// (Make a state transition). It is just the request, and
// must be validated by the Handlers. All caller and payment
// information is in the wrapping Tx.
type Msg interface {
	// Return the message path.
	// This is used by the Router to locate the proper Handler.
	// Msg should be created alongside the Handler that corresponds to them.
	//
	// Multiple types may have the same value, and will end up at the
	// same Handler.
	//
	// Must be alphanumeric [0-9A-Za-z_\-/]+
	Path() string

	// Validate performs a sanity checks on this message. It returns an
	// error if at least one of the fields is not valid. Validation does
	// not require access to the state.
	Validate() error
}

// Tx represent the data sent from the caller to the engine.
// It includes the actual message, along with the attached
// deposit that payable operations capture.
type Tx interface {
	// GetMsg returns the action we wish to communicate
	GetMsg() (Msg, error)

	// GetDeposit returns the native tokens attached to this
	// transaction. Only payable operations accept a non zero deposit.
	GetDeposit() Amount
}

// GetPath returns the path of the message, or (missing) if no message
func GetPath(tx Tx) string {
	msg, err := tx.GetMsg()
	if err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// LoadMsg extracts the message represented by given transaction into given
// destination. Before returning message validation method is called.
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get transaction message")
	}
	if msg == nil {
		return errors.Wrap(errors.ErrMsg, "no message")
	}

	// Destination must be a pointer to the same type as the message.
	dst := reflect.ValueOf(destination)
	if dst.Kind() != reflect.Ptr || dst.IsNil() {
		return errors.Wrap(errors.ErrType, "destination must be a non nil pointer")
	}
	src := reflect.ValueOf(msg)
	if src.Kind() == reflect.Ptr {
		src = src.Elem()
	}
	if !src.Type().AssignableTo(dst.Elem().Type()) {
		return errors.Wrapf(errors.ErrType, "want %T message, got %T", destination, msg)
	}
	dst.Elem().Set(src)

	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	return nil
}

// RequireNoDeposit returns an error if the transaction carries a deposit. It
// must be called by all handlers of non payable operations.
func RequireNoDeposit(tx Tx) error {
	if d := tx.GetDeposit(); !d.IsZero() {
		return errors.Wrapf(errors.ErrAmount, "operation %s does not accept a deposit", GetPath(tx))
	}
	return nil
}
