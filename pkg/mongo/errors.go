package mongo

import (
	"errors"
	"fmt"
)

var (
	ErrFailedToConnectToMongo = errors.New("failed to connect to mongo")
	ErrIndexCreation          = errors.New("failed to create mongo index")
	ErrDisconnect             = errors.New("failed to disconnect from mongo")
	ErrHealthcheckFailed      = errors.New("mongo healthcheck failed")
	ErrNotConnected           = errors.New("mongo is not connected")
	ErrInvalidRetryPolicy     = errors.New("invalid mongo retry policy")
	ErrShutdownHookRegistered = errors.New("mongo shutdown hook already registered")
)

// ConnectionError is returned by Manager.Connect once every attempt has failed.
// It matches ErrFailedToConnectToMongo and the last transport error via errors.Is.
type ConnectionError struct {
	Attempts int
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s after %d attempts: %v", ErrFailedToConnectToMongo, e.Attempts, e.Err)
}

func (e *ConnectionError) Unwrap() []error {
	return []error{ErrFailedToConnectToMongo, e.Err}
}

// IndexCreationError identifies the index that could not be created.
type IndexCreationError struct {
	Spec IndexSpec
	Err  error
}

func (e *IndexCreationError) Error() string {
	return fmt.Sprintf("%s %s: %v", ErrIndexCreation, e.Spec, e.Err)
}

func (e *IndexCreationError) Unwrap() []error {
	return []error{ErrIndexCreation, e.Err}
}

// DisconnectError is returned when closing the underlying client fails.
// The manager is already in the disconnected state when it is returned.
type DisconnectError struct {
	Err error
}

func (e *DisconnectError) Error() string {
	return fmt.Sprintf("%s: %v", ErrDisconnect, e.Err)
}

func (e *DisconnectError) Unwrap() []error {
	return []error{ErrDisconnect, e.Err}
}
