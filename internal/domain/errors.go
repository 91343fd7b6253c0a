package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrAlreadyStarted   = errors.New("already started")
	ErrNotStarted       = errors.New("not started")
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrInvalidInput     = errors.New("invalid input")
	ErrGroupConflict    = errors.New("interface claimed by more than one failover group")
	ErrUnknownLinkState = errors.New("unknown link state")
	ErrUnknownVrrpState = errors.New("unknown vrrp state")
	ErrPeerUnavailable  = errors.New("peer unavailable")
	ErrClosed           = errors.New("store closed")
)

// GroupConflictError reports an interface that configuration places in more
// than one failover group, or twice in the same group.
type GroupConflictError struct {
	Interface string
	Groups    []string
}

func (e *GroupConflictError) Error() string {
	groups := append([]string(nil), e.Groups...)
	sort.Strings(groups)
	return fmt.Sprintf("interface %q is a member of failover groups [%s]: %v",
		e.Interface, strings.Join(groups, ", "), ErrGroupConflict)
}

func (e *GroupConflictError) Unwrap() error {
	return ErrGroupConflict
}

func NewGroupConflictError(iface string, groups ...string) *GroupConflictError {
	return &GroupConflictError{
		Interface: iface,
		Groups:    groups,
	}
}

// UpstreamError wraps a failure of an external collaborator (interface
// provider, peer transport, configuration store).
type UpstreamError struct {
	Source string
	Op     string
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Source, e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func NewUpstreamError(source, op string, err error) *UpstreamError {
	return &UpstreamError{
		Source: source,
		Op:     op,
		Err:    err,
	}
}

type StorageError struct {
	Key string
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func NewStorageError(op, key string, err error) *StorageError {
	return &StorageError{
		Key: key,
		Op:  op,
		Err: err,
	}
}

func NewKeyNotFoundError(key string) *StorageError {
	return NewStorageError("get", key, ErrNotFound)
}

func IsGroupConflict(err error) bool {
	return errors.Is(err, ErrGroupConflict)
}

func IsUpstreamError(err error) bool {
	var upstream *UpstreamError
	return errors.As(err, &upstream)
}

func IsAlreadyStarted(err error) bool {
	return errors.Is(err, ErrAlreadyStarted)
}

func IsNotStarted(err error) bool {
	return errors.Is(err, ErrNotStarted)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInvalidConfig(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}

func IsPeerUnavailable(err error) bool {
	return errors.Is(err, ErrPeerUnavailable)
}
