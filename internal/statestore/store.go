// File: internal/statestore/store.go

// Package statestore is the durable rendezvous point between scenario steps.
// Values discovered in one step (a new account id, an observed balance) are
// persisted immediately so an independently scheduled step, possibly in
// another process, can pick them up.
package statestore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// UserData identifies the registered user a run created.
type UserData struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// record is the persisted shape. Every field is optional: a field exists
// only after its producing step has run, and readers treat absence as "not
// yet known".
type record struct {
	UserData         *UserData `json:"userData,omitempty"`
	AccountNumber    *string   `json:"accountNumber,omitempty"`
	InitialBalance   *float64  `json:"initialBalance,omitempty"`
	PaymentAmount    *string   `json:"paymentAmount,omitempty"`
	PaymentAccountID *string   `json:"paymentAccountId,omitempty"`
}

// Store holds one run's cross-step state. The in-memory copy is
// authoritative after the initial load; every setter persists the full
// record synchronously so a crash between steps leaves the latest state on
// disk.
type Store struct {
	mu     sync.Mutex
	path   string
	data   record
	logger *zap.Logger
}

var (
	sharedOnce  sync.Once
	sharedStore *Store
)

// Open loads (or initializes) a store backed by the given file. A missing
// file is a valid initial condition and yields an empty record.
func Open(path string, logger *zap.Logger) (*Store, error) {
	s := &Store{
		path:   path,
		logger: logger.Named("statestore"),
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read state file %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		// A corrupt artifact is recoverable: start over rather than
		// wedging every subsequent run.
		s.logger.Warn("State file is corrupt, starting from an empty record.",
			zap.String("path", path),
			zap.Error(err))
		s.data = record{}
	}
	return s, nil
}

// Shared returns the process-wide store, created on first call. Subsequent
// calls return the same instance regardless of arguments.
func Shared(path string, logger *zap.Logger) (*Store, error) {
	var err error
	sharedOnce.Do(func() {
		sharedStore, err = Open(path, logger)
	})
	if err != nil {
		return nil, err
	}
	if sharedStore == nil {
		return nil, fmt.Errorf("shared state store failed to initialize")
	}
	return sharedStore, nil
}

// persist writes the full record. Callers hold the mutex.
func (s *Store) persist() error {
	raw, err := json.MarshalIndent(&s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write state file %s: %w", s.path, err)
	}
	return nil
}

// SetUserData records the registered user and persists.
func (s *Store) SetUserData(data UserData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.UserData = &data
	return s.persist()
}

// UserData returns the recorded user, if a registration step ran.
func (s *Store) UserData() (UserData, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.UserData == nil {
		return UserData{}, false
	}
	return *s.data.UserData, true
}

// SetAccountNumber records a created account id and persists.
func (s *Store) SetAccountNumber(accountNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.AccountNumber = &accountNumber
	return s.persist()
}

// AccountNumber returns the recorded account id, if known.
func (s *Store) AccountNumber() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.AccountNumber == nil {
		return "", false
	}
	return *s.data.AccountNumber, true
}

// SetInitialBalance records the first observed balance and persists.
func (s *Store) SetInitialBalance(balance float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.InitialBalance = &balance
	return s.persist()
}

// InitialBalance returns the recorded balance, if observed.
func (s *Store) InitialBalance() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.InitialBalance == nil {
		return 0, false
	}
	return *s.data.InitialBalance, true
}

// SetPaymentData records the bill payment's amount and paying account in one
// persist.
func (s *Store) SetPaymentData(amount, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.PaymentAmount = &amount
	s.data.PaymentAccountID = &accountID
	return s.persist()
}

// PaymentData returns the recorded payment amount and account, if a payment
// step ran.
func (s *Store) PaymentData() (amount, accountID string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.PaymentAmount == nil || s.data.PaymentAccountID == nil {
		return "", "", false
	}
	return *s.data.PaymentAmount, *s.data.PaymentAccountID, true
}

// Clear resets the record and removes the backing artifact. Clearing a store
// that never persisted anything is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = record{}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove state file %s: %w", s.path, err)
	}
	return nil
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}
