package i18n

// Message keys present in every locale file.
const (
	KeyLanguageName           = "language_name"
	KeySelectLanguage         = "select_language"
	KeySelectPeriod           = "select_period"
	KeyChart24h               = "chart_24h"
	KeyChart7d                = "chart_7d"
	KeyChart30d               = "chart_30d"
	KeyWelcome                = "welcome"
	KeyWelcomeGroup           = "welcome_group"
	KeyInstruction            = "instruction"
	KeyInstructionTextPrivate = "instruction_text_private"
	KeyInstructionTextGroup   = "instruction_text_group"
	KeyGetCurrencyRate        = "get_currency_rate"
	KeySettings               = "settings"
	KeyTGChannel              = "tg_channel"
	KeyBackToMenu             = "back_to_menu"
	KeySelectFiat             = "select_fiat"
	KeyFiatRUB                = "fiat_rub"
	KeyFiatUSD                = "fiat_usd"
	KeyFiatBoth               = "fiat_both"
	KeySelectCrypto           = "select_crypto"
	KeyCryptoBTC              = "crypto_btc"
	KeyCryptoETH              = "crypto_eth"
	KeyCryptoUSDT             = "crypto_usdt"
	KeyCryptoSOL              = "crypto_sol"
	KeyBackToFiat             = "back_to_fiat"
	KeyShowChart              = "show_chart"
	KeyBackToCrypto           = "back_to_crypto"
	KeyBackToPrice            = "back_to_price"
	KeyPriceFetchError        = "price_fetch_error"
	KeyChartNoData            = "chart_no_data"
	KeyChartFetchError        = "chart_fetch_error"
)

// AllKeys lists every key above.
var AllKeys = []string{
	KeyLanguageName, KeySelectLanguage, KeySelectPeriod,
	KeyChart24h, KeyChart7d, KeyChart30d,
	KeyWelcome, KeyWelcomeGroup, KeyInstruction, KeyInstructionTextPrivate, KeyInstructionTextGroup,
	KeyGetCurrencyRate, KeySettings, KeyTGChannel, KeyBackToMenu,
	KeySelectFiat, KeyFiatRUB, KeyFiatUSD, KeyFiatBoth,
	KeySelectCrypto, KeyCryptoBTC, KeyCryptoETH, KeyCryptoUSDT, KeyCryptoSOL, KeyBackToFiat,
	KeyShowChart, KeyBackToCrypto, KeyBackToPrice,
	KeyPriceFetchError, KeyChartNoData, KeyChartFetchError,
}
