package amqp

import (
	"encoding/json"
	"time"

	"haushalt/internal/core"
)

// Change actions carried on the wire.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// TransactionChangedMessage tells the worker that a transaction of an account
// changed. It carries only identifiers; the worker re-reads the ledger, so a
// stale or duplicated delivery is harmless.
type TransactionChangedMessage struct {
	TransactionID core.ID   `json:"transaction_id"`
	AccountID     core.ID   `json:"account_id"`
	Action        string    `json:"action"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionChangedMessage(transactionID, accountID core.ID, action string) *TransactionChangedMessage {
	return &TransactionChangedMessage{
		TransactionID: transactionID,
		AccountID:     accountID,
		Action:        action,
		Timestamp:     time.Now(),
	}
}

func (m *TransactionChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionChangedMessageFromJSON(data []byte) (*TransactionChangedMessage, error) {
	var msg TransactionChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
