package types

// Event types for the offerbook module
const (
	// Governance
	EventTypeSetGlobal  = "offerbook_set_global"
	EventTypeSetLocal   = "offerbook_set_local"
	EventTypeKill       = "offerbook_kill"
	EventTypeActivate   = "offerbook_activate"
	EventTypeDeactivate = "offerbook_deactivate"

	// Offers
	EventTypeOfferWrite   = "offerbook_offer_write"
	EventTypeOfferRetract = "offerbook_offer_retract"

	// Funding
	EventTypeCredit = "offerbook_credit"
	EventTypeDebit  = "offerbook_debit"

	// Swallowed external failures
	EventTypeTransferFailed    = "token_transfer_failed"
	EventTypeMonitorReadFailed = "monitor_read_failed"
	EventTypeMonitorNotifyFail = "monitor_notify_failed"
)

// Event attribute keys
const (
	AttributeKeyOutbound = "outbound"
	AttributeKeyInbound  = "inbound"
	AttributeKeyOfferID  = "offer_id"
	AttributeKeyMaker    = "maker"
	AttributeKeyField    = "field"
	AttributeKeyValue    = "value"
	AttributeKeyAmount   = "amount"
	AttributeKeyTo       = "to"
	AttributeKeyFrom     = "from"
	AttributeKeyStatus   = "status"
	AttributeKeyReason   = "reason"
	AttributeKeyMonitor  = "monitor"
	AttributeKeyHeight   = "height"
)
