package types

// TicketOverrides is the sparse, tenant-supplied subset of receipt display
// settings. Nil fields fall through to the system defaults. Stored as jsonb
// on the tenant row.
type TicketOverrides struct {
	ShowLogo      *bool   `json:"show_logo,omitempty"`
	ShowAddress   *bool   `json:"show_address,omitempty"`
	ShowItems     *bool   `json:"show_items,omitempty"`
	ShowDiscount  *bool   `json:"show_discount,omitempty"`
	ShowCustomer  *bool   `json:"show_customer,omitempty"`
	FooterMessage *string `json:"footer_message,omitempty"`
}
