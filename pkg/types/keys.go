package types

import "github.com/drcalc/drcalc-backend/pkg/enums"

// Storage keys for the five independent document slots. The buy and sell
// variants never share state.
const (
	KeyPotionsBuy   = "drcalc_potions_buy"
	KeyPotionsSell  = "drcalc_potions_sell"
	KeySettingsBuy  = "drcalc_settings_buy"
	KeySettingsSell = "drcalc_settings_sell"
	KeyRecipes      = "drcalc_recipes"
)

// CatalogKey returns the document key for the mode's potion catalog.
func CatalogKey(mode enums.OperationMode) string {
	if mode == enums.OperationModeSell {
		return KeyPotionsSell
	}
	return KeyPotionsBuy
}

// SettingsKey returns the document key for the mode's settings.
func SettingsKey(mode enums.OperationMode) string {
	if mode == enums.OperationModeSell {
		return KeySettingsSell
	}
	return KeySettingsBuy
}
