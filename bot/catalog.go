package bot

import (
	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

// Menu button labels. Routing matches on the exact text, so these are the
// single source of truth for both keyboards and handlers.
const (
	buttonProfile  = "👤 My Profile"
	buttonCatalog  = "🛒 Catalog"
	buttonAbout    = "ℹ️ About Us"
	buttonReferral = "🎁 Referral System"
	buttonHelp     = "💬 Help & Support"
	buttonSoon     = "👀 Soon..."
	buttonBack     = "Back"

	buttonSpotify      = "🎧 Spotify Premium"
	buttonYouTube      = "🔴 YouTube Premium"
	buttonTwitch       = "🟣 Twitch Subscription"
	buttonNitro        = "💎 Discord Nitro"
	buttonStars        = "⭐ Telegram Stars"
	buttonTurkishCards = "Turkish Bankcards 🇹🇷"
	buttonPopypara     = "Popypara 🇹🇷"
)

// catalogScreens maps a catalog button to its static product card
var catalogScreens = map[string]string{
	buttonSpotify: "🎵 *Spotify Premium Individual*\n\n" +
		"▫️* 1 month — $3.99*\n\n" +
		"▫️* 3 months — $8.99*\n\n" +
		"▫️ *6 months — $12.99*\n\n" +
		"*▫️ 12 months — $22.99* \n\n" +
		"*Payment methods:\n🪙Crypto\n💸PayPal*\n\n" +
		"*To buy: @headphony*",

	buttonYouTube: "soon...",

	buttonTwitch: "*🎮 Twitch Subscription*\n" +
		"*LEVEL 1✅\n\n*" +
		"*▫️ Level 1 — 1 Month — $3.99*\n\n" +
		"*▫️ Level 1 — 3 Months — $8.99*\n\n" +
		"*▫️ Level 1 — 6 Months — $17.99*\n\n" +
		"*LEVEL 2✅\n\n*" +
		"*▫️ Level 2 — 1 Month — $5.99*\n\n" +
		"*LEVEL 3✅\n\n*" +
		"*▫️ Level 3 — 1 Month — $14.99*\n\n" +
		"🥰No account access needed — just *your* and the *streamer’s* *nicknames!*\n\n" +
		"*Payment methods:\n- Crypto\n- PayPal*\n\n" +
		"*To buy: @heaphony*",

	buttonNitro: "💎 *Discord Nitro Full*\n\n" +
		"*1 month — $6.49*\n\n" +
		"*3 months — $13.99*\n\n" +
		"*6 months — soon...*\n\n" +
		"*🎁 You'll get Nitro as a gift — no need to log in anywhere, no data required!*\n\n" +
		"*⚜️ You'll only have to activate it with VPN and that's it!*\n\n" +
		"*Payment methods:\n- Crypto (TON, BTC, USDC, BNB)\n- PayPal*\n\n" +
		"*To buy: @headphony*",

	buttonStars: "*⭐ Telegram Stars*\n\n" +
		"*100⭐ — $1.79*\n\n" +
		"*250⭐ — $4.59*\n\n" +
		"*500⭐ — $8.99*\n\n" +
		"*1000⭐ — $16.99*\n\n" +
		"*📦 All stars are purchased officially and delivered via Telegram!*\n\n" +
		"✅ No account info, no logins — just your *@username* to receive the gift.\n\n" +
		"*Payment methods:\n- Crypto (TON, BTC, USDC, BNB)\n- PayPal*\n\n" +
		"*To buy: @headphony*",

	buttonPopypara: "🇹🇷 *Popypara*\n\n" +
		"*Features:\n\n*" +
		"▫️ Monthly limit of *2750 TRY🇹🇷*\n\n" +
		"▫️ Works with *all online services✅*\n\n" +
		"▫️ *Quick & easy* top-up process✅\n\n" +
		"▫️ *Stable & reliable* performance🤗\n\n" +
		"▫️ Super *user-friendly* experience\n\n" +
		"*Price:*\n\n" +
		"*⚠️Currently unavailable! Check our news channel for the updates*\n\n" +
		"Payment - Crypto, Paypal\n" +
		"*Contact us - @headphony*",
}

// mainMenuKeyboard is the persistent reply keyboard shown after /start
func mainMenuKeyboard() *telego.ReplyKeyboardMarkup {
	return tu.Keyboard(
		tu.KeyboardRow(tu.KeyboardButton(buttonProfile), tu.KeyboardButton(buttonCatalog)),
		tu.KeyboardRow(tu.KeyboardButton(buttonAbout), tu.KeyboardButton(buttonReferral)),
		tu.KeyboardRow(tu.KeyboardButton(buttonHelp), tu.KeyboardButton(buttonSoon)),
	).WithResizeKeyboard()
}

func catalogKeyboard() *telego.ReplyKeyboardMarkup {
	return tu.Keyboard(
		tu.KeyboardRow(tu.KeyboardButton(buttonSpotify), tu.KeyboardButton(buttonYouTube)),
		tu.KeyboardRow(tu.KeyboardButton(buttonTwitch), tu.KeyboardButton(buttonNitro)),
		tu.KeyboardRow(tu.KeyboardButton(buttonStars), tu.KeyboardButton(buttonTurkishCards)),
		tu.KeyboardRow(tu.KeyboardButton(buttonBack)),
	).WithResizeKeyboard()
}

func turkishCardsKeyboard() *telego.ReplyKeyboardMarkup {
	return tu.Keyboard(
		tu.KeyboardRow(tu.KeyboardButton(buttonPopypara)),
		tu.KeyboardRow(tu.KeyboardButton(buttonBack)),
	).WithResizeKeyboard()
}
