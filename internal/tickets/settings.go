package tickets

import (
	"github.com/sgiraldob/vitrina-backend/pkg/types"
)

// Settings is the fully resolved receipt configuration handed to printers and
// the dashboard preview. Every field always carries a concrete value.
type Settings struct {
	ShowLogo      bool   `json:"show_logo"`
	ShowAddress   bool   `json:"show_address"`
	ShowItems     bool   `json:"show_items"`
	ShowDiscount  bool   `json:"show_discount"`
	ShowCustomer  bool   `json:"show_customer"`
	FooterMessage string `json:"footer_message"`
}

// Defaults returns the settings used when a tenant has stored no overrides.
func Defaults() Settings {
	return Settings{
		ShowLogo:     true,
		ShowAddress:  true,
		ShowItems:    true,
		ShowDiscount: true,
		ShowCustomer: false,
	}
}

// Merge overlays a tenant's sparse overrides on top of the defaults. A nil
// or empty overrides value resolves to exactly Defaults(); set fields win
// field by field, never wholesale.
func Merge(overrides *types.TicketOverrides) Settings {
	settings := Defaults()
	if overrides == nil {
		return settings
	}
	if overrides.ShowLogo != nil {
		settings.ShowLogo = *overrides.ShowLogo
	}
	if overrides.ShowAddress != nil {
		settings.ShowAddress = *overrides.ShowAddress
	}
	if overrides.ShowItems != nil {
		settings.ShowItems = *overrides.ShowItems
	}
	if overrides.ShowDiscount != nil {
		settings.ShowDiscount = *overrides.ShowDiscount
	}
	if overrides.ShowCustomer != nil {
		settings.ShowCustomer = *overrides.ShowCustomer
	}
	if overrides.FooterMessage != nil {
		settings.FooterMessage = *overrides.FooterMessage
	}
	return settings
}
