package domain

// ConversationState names which state handler applies to a user's next
// message. The zero value is StateIdle: no active flow, fallback applies.
type ConversationState string

const (
	StateIdle                    ConversationState = ""
	StateAwaitingPurchase        ConversationState = "awaiting_purchase"
	StateAwaitingPurchaseDesc    ConversationState = "awaiting_purchase_description"
	StateAwaitingMoreAttachments ConversationState = "awaiting_more_attachments"
	StateAwaitingConfirmation    ConversationState = "awaiting_confirmation"
	StateAwaitingCorrection      ConversationState = "awaiting_purchase_correction"
	StateAwaitingListAction      ConversationState = "awaiting_list_action"
	StateAwaitingPurchaseNumber  ConversationState = "awaiting_purchase_number"
	StateAwaitingAttachToRecord  ConversationState = "awaiting_attachment_to_existing"
	StateAwaitingAttachToDelete  ConversationState = "awaiting_attachment_to_delete"
	StateAwaitingEditDesc        ConversationState = "awaiting_purchase_edit_description"
	StateAwaitingEditConfirm     ConversationState = "awaiting_edit_confirmation"
	StateFreeChat                ConversationState = "free_chat"
)
