package commands

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.AmericanEnglish

	message.SetString(lang, "help.text", `🎮 Aolastar game data query

📋 Commands:
• /ar_help - show this help
• /ar_existingpacket - list existing packets (%d per page)
• /ar_existingpacket next - show the next page
• /ar_existingpacket prev - show the previous page
• /ar_existingpacket <name> - search packets by name (regular expressions allowed)
• /ar_existingpacket reset - clear the search and return to the first page
• /ar_attr ls - list attributes
• /ar_attr <attribute id> - show the relations of one attribute
• /ar_attr_image <attribute id> - render the relations as an image
• /ar_decrypt <base64> - decode Base64 content into JSON
• /ar_encrypt <json> - encode JSON content as Base64

⚙️ Configuration:
Set AOLASTAR_API_BASE_URL to the data service address`)
	message.SetString(lang, "command.unknown", "❌ Unknown command '%s', use /ar_help to list commands")
	message.SetString(lang, "stale.notice", "⚠️ The data service is unavailable, showing cached data")

	message.SetString(lang, "packets.empty", "📭 No packets available")
	message.SetString(lang, "packets.header", "✅ Found %d packets, showing %d-%d:")
	message.SetString(lang, "packets.search_header", "🔍 Found %d packets matching '%s', showing %d-%d:")
	message.SetString(lang, "packets.search_literal", "⚠️ '%s' is not a valid regular expression, matched as plain text")
	message.SetString(lang, "packets.no_match", "❌ No packets match '%s'")
	message.SetString(lang, "packets.packet", "   Packet: %s")
	message.SetString(lang, "packets.page", "📄 Page %d/%d")
	message.SetString(lang, "packets.hint_next", "💡 Use /ar_existingpacket next for the next page")
	message.SetString(lang, "packets.hint_prev", "💡 Use /ar_existingpacket prev for the previous page")
	message.SetString(lang, "packets.hint_reset", "💡 Use /ar_existingpacket reset to return to the full list")
	message.SetString(lang, "packets.last_page", "❌ Already on the last page")
	message.SetString(lang, "packets.first_page", "❌ Already on the first page")

	message.SetString(lang, "attributes.empty", "Attribute list unavailable")
	message.SetString(lang, "attributes.header", "Aolastar attributes:")
	message.SetString(lang, "attributes.total", "Total: %d attributes")
	message.SetString(lang, "attributes.hint", "Use /ar_attr <attribute id> to show its relations")
	message.SetString(lang, "attributes.usage", "❌ Provide an attribute id, for example /ar_attr 1, or use /ar_attr ls to list attributes")
	message.SetString(lang, "attributes.image_usage", "❌ Provide an attribute id, for example /ar_attr_image 1")
	message.SetString(lang, "attributes.expected_id_or_ls", "an attribute id or ls")
	message.SetString(lang, "attributes.expected_id", "an attribute id")

	message.SetString(lang, "relations.header", "Relations of %s:")
	message.SetString(lang, "relations.attack", "Attacking (this attribute hits others):")
	message.SetString(lang, "relations.defense", "Defending (others hit this attribute):")
	message.SetString(lang, "relations.tier.super", "Overwhelming")
	message.SetString(lang, "relations.tier.strong", "Strong")
	message.SetString(lang, "relations.tier.normal", "Normal")
	message.SetString(lang, "relations.tier.weak", "Weak")
	message.SetString(lang, "relations.tier.immune", "Immune")
	message.SetString(lang, "relations.damage.times", "%sx damage")
	message.SetString(lang, "relations.damage.half", "1/2 damage")
	message.SetString(lang, "relations.damage.none", "no damage")
	message.SetString(lang, "relations.more", "     ... %d more")
	message.SetString(lang, "relations.all_normal", "  ➡️ Normal damage against every attribute (1x)")
	message.SetString(lang, "relations.legend", `Legend:
   • 3 = Overwhelming (3x damage)
   • 2 = Strong (2x damage)
   • 1/2 = Weak (1/2 damage)
   • -1 = Immune (no damage)
   • empty = Normal (1x damage)`)
	message.SetString(lang, "relations.image_hint", "Use /ar_attr_image <attribute id> to get the relations as an image")
	message.SetString(lang, "relations.image_caption", "Relations of %s")
}
