package model

import (
	"encoding/json"
	"fmt"
)

// PaymentKind tags the variant of a PaymentMethod.
type PaymentKind string

const (
	PaymentCreditCard      PaymentKind = "Credit Card"
	PaymentCheckingAccount PaymentKind = "Checking Account"
)

// CreditCard keeps only the last four digits and the expiry.
// The full card number is never persisted anywhere.
type CreditCard struct {
	Last4  string `json:"last4"`
	Expiry string `json:"expiry"`
}

// CheckingAccount keeps only the last four digits of the account number.
// The routing number identifies a bank, not a person, so it is kept whole.
type CheckingAccount struct {
	AccountLast4  string `json:"accountLast4"`
	RoutingNumber string `json:"routingNumber"`
}

// PaymentMethod is a tagged union: exactly one of Card or Account is set,
// and Kind says which.
//
// WHY NOT A FLAT STRUCT WITH OPTIONAL FIELDS?
// A flat record with last4 + expiry + accountLast4 + routingNumber all
// optional makes illegal states representable (a card with a routing
// number). The tagged form forces every consumer to switch on Kind, and
// the compiler-visible variant structs keep each branch honest. The custom
// JSON below flattens the union to the wire shape the persisted records
// use, and rejects unknown kinds on the way in.
type PaymentMethod struct {
	ID      string
	Kind    PaymentKind
	Card    *CreditCard
	Account *CheckingAccount
}

// paymentJSON is the flat wire form shared by both variants.
type paymentJSON struct {
	ID            string      `json:"id"`
	Kind          PaymentKind `json:"type"`
	Last4         string      `json:"last4,omitempty"`
	Expiry        string      `json:"expiry,omitempty"`
	AccountLast4  string      `json:"accountLast4,omitempty"`
	RoutingNumber string      `json:"routingNumber,omitempty"`
}

// MarshalJSON flattens the union. It errors on a malformed value (missing
// variant payload or unknown kind) rather than writing a half-record.
func (p PaymentMethod) MarshalJSON() ([]byte, error) {
	out := paymentJSON{ID: p.ID, Kind: p.Kind}
	switch p.Kind {
	case PaymentCreditCard:
		if p.Card == nil {
			return nil, fmt.Errorf("model: credit card payment method %s has no card data", p.ID)
		}
		out.Last4 = p.Card.Last4
		out.Expiry = p.Card.Expiry
	case PaymentCheckingAccount:
		if p.Account == nil {
			return nil, fmt.Errorf("model: checking account payment method %s has no account data", p.ID)
		}
		out.AccountLast4 = p.Account.AccountLast4
		out.RoutingNumber = p.Account.RoutingNumber
	default:
		return nil, fmt.Errorf("model: unknown payment method kind %q", p.Kind)
	}
	return json.Marshal(out)
}

// UnmarshalJSON rebuilds the union from the flat form, rejecting unknown kinds.
func (p *PaymentMethod) UnmarshalJSON(data []byte) error {
	var in paymentJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	p.ID = in.ID
	p.Kind = in.Kind
	p.Card = nil
	p.Account = nil
	switch in.Kind {
	case PaymentCreditCard:
		p.Card = &CreditCard{Last4: in.Last4, Expiry: in.Expiry}
	case PaymentCheckingAccount:
		p.Account = &CheckingAccount{AccountLast4: in.AccountLast4, RoutingNumber: in.RoutingNumber}
	default:
		return fmt.Errorf("model: unknown payment method kind %q", in.Kind)
	}
	return nil
}

// Describe returns a display label like "Credit Card ending in 4242".
// The switch is exhaustive over PaymentKind; a malformed value gets a
// visible placeholder instead of a panic.
func (p PaymentMethod) Describe() string {
	switch p.Kind {
	case PaymentCreditCard:
		if p.Card != nil {
			return fmt.Sprintf("Credit Card ending in %s", p.Card.Last4)
		}
	case PaymentCheckingAccount:
		if p.Account != nil {
			return fmt.Sprintf("Checking Account ending in %s", p.Account.AccountLast4)
		}
	}
	return "Unknown payment method"
}
